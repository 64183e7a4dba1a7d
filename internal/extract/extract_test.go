// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/dataset-curator/internal/page"
	"github.com/pdiddy/dataset-curator/pkg/types"
)

const datasetURL = "https://physionet.org/content/cardiosense/1.0.2/"

// richHTML exercises every extractor at once.
const richHTML = `<html><body>
<h1>CardioSense Stress Dataset</h1>
<p>Version: 1.0.2</p>
<p>Published: Jan. 15, 2021</p>
<p><a href="https://doi.org/10.13026/abcd-1234">version doi</a>
<a href="https://doi.org/10.13026/efgh-5678">latest doi</a></p>
<div class="author-list"><a href="#">Jane Doe</a><a href="#">John Smith</a></div>
<p>Corresponding Author: Jane Doe.</p>
<section id="abstract"><p>Continuous ECG and EEG recordings with simultaneous
respiration signals from 75 subjects during classification experiments for
arrhythmia detection using deep learning.</p></section>
<p>Each participant contributed 150 recordings digitized at 360 Hz and 125 Hz
in CSV and EDF form. Subjects aged 21-65, with 45 male and 30 female
participants, recorded 2015-2018 in a laboratory using Biopac equipment.</p>
<p>Download: 1.2 GB compressed. Storage: 3.4 GB uncompressed.</p>
<section id="files">
<a href="/files/cardiosense/1.0.2/signals/">signals</a>
<a href="/files/cardiosense/1.0.2/annotations/">annotations</a>
<a href="/files/cardiosense/1.0.2/signals/">signals</a>
</section>
<section id="ethics"><p>The protocol was approved by the Beth Israel review
board under IRB: 2019-P-000123.</p></section>
<p>This work was supported by NIH grant R01-HL123456.</p>
<div class="citation"><p>Doe J, Smith J. CardioSense: a stress dataset.</p></div>
<section id="references"><ul><li>Ref one</li><li>Ref two</li></ul></section>
<h2>Limitations</h2>
<div><p>Data were collected at a single center with a small sample size
from one recording site only.</p></div>
<p>The dataset is released under open access terms with a
<a href="/about/licenses/odc">Open Data Commons License</a>. Users must
complete CITI training and sign a data use agreement.</p>
</body></html>`

func assembleHTML(t *testing.T, html string) *types.DatasetRecord {
	t.Helper()
	p, err := page.Parse(strings.NewReader(html), datasetURL)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return New(nil).Assemble(p, datasetURL)
}

func TestAssembleRichPage(t *testing.T) {
	rec := assembleHTML(t, richHTML)

	if rec.Title != "CardioSense Stress Dataset" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.Version != "1.0.2" {
		t.Errorf("Version = %q", rec.Version)
	}
	if !strings.Contains(rec.PublishedDate, "2021") {
		t.Errorf("PublishedDate = %q", rec.PublishedDate)
	}
	if rec.Year != "2021" {
		t.Errorf("Year = %q", rec.Year)
	}
	if rec.DOIVersion != "https://doi.org/10.13026/abcd-1234" {
		t.Errorf("DOIVersion = %q", rec.DOIVersion)
	}
	if rec.DOILatest != "https://doi.org/10.13026/efgh-5678" {
		t.Errorf("DOILatest = %q", rec.DOILatest)
	}

	if want := []string{"Jane Doe", "John Smith"}; !reflect.DeepEqual(rec.Authors, want) {
		t.Errorf("Authors = %v, want %v", rec.Authors, want)
	}
	if rec.CorrespondingAuthor != "Jane Doe" {
		t.Errorf("CorrespondingAuthor = %q", rec.CorrespondingAuthor)
	}

	if rec.AbstractFull == types.NotSpecified || !strings.Contains(rec.AbstractFull, "Continuous ECG") {
		t.Errorf("AbstractFull = %q", rec.AbstractFull)
	}
	if rec.Description == types.NotSpecified {
		t.Error("Description should be derived from the abstract")
	}

	for _, modality := range []string{"ECG", "EEG", "Respiratory"} {
		if !contains(rec.ModalitiesList, modality) {
			t.Errorf("ModalitiesList = %v, missing %s", rec.ModalitiesList, modality)
		}
	}
	if !strings.Contains(rec.PhysiologicalModality, "ECG") {
		t.Errorf("PhysiologicalModality = %q, want the list join", rec.PhysiologicalModality)
	}
	if !contains(rec.SensorsUsed, "Biopac") {
		t.Errorf("SensorsUsed = %v", rec.SensorsUsed)
	}
	if want := []string{"360", "125"}; !reflect.DeepEqual(rec.SamplingRates, want) {
		t.Errorf("SamplingRates = %v, want %v", rec.SamplingRates, want)
	}
	for _, format := range []string{"CSV", "EDF"} {
		if !contains(rec.DataFormats, format) {
			t.Errorf("DataFormats = %v, missing %s", rec.DataFormats, format)
		}
	}

	if !contains(rec.ConditionsList, "Arrhythmia") {
		t.Errorf("ConditionsList = %v", rec.ConditionsList)
	}
	if !strings.Contains(rec.ClinicalCondition, "Arrhythmia") {
		t.Errorf("ClinicalCondition = %q", rec.ClinicalCondition)
	}
	if rec.ClinicalSetting != "Laboratory" {
		t.Errorf("ClinicalSetting = %q", rec.ClinicalSetting)
	}

	if rec.NumberOfSubjects != "75" {
		t.Errorf("NumberOfSubjects = %q", rec.NumberOfSubjects)
	}
	if rec.NumberOfRecordings != "150" {
		t.Errorf("NumberOfRecordings = %q", rec.NumberOfRecordings)
	}
	if !strings.Contains(rec.DatasetSize, "75 subjects") {
		t.Errorf("DatasetSize = %q", rec.DatasetSize)
	}
	if rec.AgeRange != "21-65" {
		t.Errorf("AgeRange = %q", rec.AgeRange)
	}
	if rec.GenderDistribution != "Reported" {
		t.Errorf("GenderDistribution = %q", rec.GenderDistribution)
	}
	if rec.DataCollectionPeriod != "2015-2018" {
		t.Errorf("DataCollectionPeriod = %q", rec.DataCollectionPeriod)
	}

	if rec.TotalSizeCompressed != "1.2 GB" {
		t.Errorf("TotalSizeCompressed = %q", rec.TotalSizeCompressed)
	}
	if rec.TotalSizeUncompressed != "3.4 GB" {
		t.Errorf("TotalSizeUncompressed = %q", rec.TotalSizeUncompressed)
	}
	if want := []string{"signals", "annotations"}; !reflect.DeepEqual(rec.MainFolders, want) {
		t.Errorf("MainFolders = %v, want de-duplicated %v", rec.MainFolders, want)
	}

	if rec.IRBNumber != "2019-P-000123" {
		t.Errorf("IRBNumber = %q", rec.IRBNumber)
	}
	if !strings.Contains(rec.EthicsApproval, "approved by") {
		t.Errorf("EthicsApproval = %q", rec.EthicsApproval)
	}
	if !contains(rec.FundingSources, "R01-HL123456") {
		t.Errorf("FundingSources = %v", rec.FundingSources)
	}

	if !strings.Contains(rec.PrimaryCitation, "CardioSense") {
		t.Errorf("PrimaryCitation = %q", rec.PrimaryCitation)
	}
	if want := []string{"Ref one", "Ref two"}; !reflect.DeepEqual(rec.RelatedPublications, want) {
		t.Errorf("RelatedPublications = %v, want %v", rec.RelatedPublications, want)
	}

	for _, app := range []string{"Classification", "Deep Learning"} {
		if !contains(rec.ResearchApplications, app) {
			t.Errorf("ResearchApplications = %v, missing %s", rec.ResearchApplications, app)
		}
	}
	if rec.TargetResearchTask == types.NotSpecified {
		t.Error("TargetResearchTask should be derived from applications")
	}

	if len(rec.Limitations) == 0 {
		t.Error("Limitations should be extracted")
	}

	if rec.AccessType != "Open Access" {
		t.Errorf("AccessType = %q", rec.AccessType)
	}
	if rec.LicensingOrAvailability != "Open Data Commons License" {
		t.Errorf("LicensingOrAvailability = %q", rec.LicensingOrAvailability)
	}
	if !rec.TrainingRequired || !rec.DUARequired {
		t.Error("training and DUA requirement flags should be set")
	}

	if rec.MetadataCompleteness != types.CompletenessHigh {
		t.Errorf("MetadataCompleteness = %q, want High for a rich page", rec.MetadataCompleteness)
	}
}

func TestAssembleEmptyPageYieldsDefaults(t *testing.T) {
	rec := assembleHTML(t, "<html><body><p>nothing relevant here</p></body></html>")

	if rec.Title != types.NotSpecified {
		t.Errorf("Title = %q", rec.Title)
	}
	if len(rec.ModalitiesList) != 0 {
		t.Errorf("ModalitiesList = %v, want empty", rec.ModalitiesList)
	}
	if rec.PhysiologicalModality != types.NotSpecified {
		t.Errorf("PhysiologicalModality = %q", rec.PhysiologicalModality)
	}
	if rec.ClinicalCondition != types.GeneralPopulation {
		t.Errorf("ClinicalCondition = %q, want the fixed fallback", rec.ClinicalCondition)
	}
	if rec.DatasetURL != datasetURL {
		t.Errorf("DatasetURL = %q", rec.DatasetURL)
	}
	if rec.MetadataCompleteness != types.CompletenessLow {
		t.Errorf("MetadataCompleteness = %q, want Low", rec.MetadataCompleteness)
	}

	// Every list field must keep its empty-list JSON shape even when no
	// extractor found a signal.
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), "null") {
		t.Errorf("no-signal record must marshal lists as [], got: %s", data)
	}
}

func TestAssembleEmptySectionsKeepListDefaults(t *testing.T) {
	// Sections exist but carry no entries; the list fields must stay at
	// their empty-list defaults rather than turning nil.
	rec := assembleHTML(t, `<html><body>
<div class="author-list"></div>
<section id="references"></section>
<section id="files"></section>
</body></html>`)

	if rec.Authors == nil || len(rec.Authors) != 0 {
		t.Errorf("Authors = %#v, want empty non-nil list", rec.Authors)
	}
	if rec.RelatedPublications == nil || len(rec.RelatedPublications) != 0 {
		t.Errorf("RelatedPublications = %#v, want empty non-nil list", rec.RelatedPublications)
	}
	if rec.MainFolders == nil || len(rec.MainFolders) != 0 {
		t.Errorf("MainFolders = %#v, want empty non-nil list", rec.MainFolders)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), "null") {
		t.Errorf("record with empty sections must marshal lists as [], got: %s", data)
	}
}

func TestAssembleIsDeterministic(t *testing.T) {
	first := assembleHTML(t, richHTML)
	second := assembleHTML(t, richHTML)

	if !reflect.DeepEqual(first, second) {
		t.Error("two extractions of the same content must be identical")
	}
	if first.ID != 0 || first.CuratedDate != "" {
		t.Error("extraction must not assign identity fields")
	}
}

func TestLabelOrderFollowsDeclaration(t *testing.T) {
	// EEG appears before ECG in the text; output order follows the rule
	// table, which declares ECG first.
	rec := assembleHTML(t, "<html><body><p>An electroencephalogram study with electrocardiogram controls.</p></body></html>")

	iECG := indexOf(rec.ModalitiesList, "ECG")
	iEEG := indexOf(rec.ModalitiesList, "EEG")
	if iECG == -1 || iEEG == -1 || iECG > iEEG {
		t.Errorf("ModalitiesList = %v, want ECG before EEG", rec.ModalitiesList)
	}
}

func TestSamplingRatesDeduplicatedAndCapped(t *testing.T) {
	html := "<html><body><p>Rates: 100 Hz 200 Hz 100 Hz 300 Hz 400 Hz 500 Hz 600 Hz</p></body></html>"
	rec := assembleHTML(t, html)

	want := []string{"100", "200", "300", "400", "500"}
	if !reflect.DeepEqual(rec.SamplingRates, want) {
		t.Errorf("SamplingRates = %v, want first-occurrence unique capped at 5: %v", rec.SamplingRates, want)
	}
}

func TestLoadRulesOverridesOnlyNamedTables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `modalities:
  - label: Audio
    triggers: [microphone, audio]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}

	if len(rules.Modalities) != 1 || rules.Modalities[0].Label != "Audio" {
		t.Errorf("Modalities = %v, want the override table", rules.Modalities)
	}
	if len(rules.Conditions) == 0 {
		t.Error("Conditions table should keep its built-in values")
	}
}

func TestLoadRulesEmptyPathReturnsDefaults(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if !reflect.DeepEqual(rules, DefaultRules()) {
		t.Error("empty path should return the built-in tables")
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing rules file should be an error")
	}
}

func contains(items []string, want string) bool {
	return indexOf(items, want) >= 0
}

func indexOf(items []string, want string) int {
	for i, item := range items {
		if item == want {
			return i
		}
	}
	return -1
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the dataset record schema and stage configuration
// shared across the curation pipeline.
package types

// NotSpecified is the default value for every scalar field that could not
// be derived from the page. The catalog schema uses a sentinel rather than
// omitting keys so every persisted record has identical shape.
const NotSpecified = "Not specified"

// GeneralPopulation is the fallback summary for the clinical condition
// field when no specific condition was detected.
const GeneralPopulation = "General healthy + mixed conditions"

// Completeness levels for the derived Metadata_Completeness field.
const (
	CompletenessLow      = "Low"
	CompletenessModerate = "Moderate"
	CompletenessHigh     = "High"
)

// Completeness classification thresholds on the filled-field ratio.
// Strictly-greater comparisons: a ratio of exactly 0.4 classifies as Low.
const (
	completenessHighThreshold     = 0.7
	completenessModerateThreshold = 0.4
)

// DatasetRecord is a fixed-schema description of one source dataset. The
// JSON field names are the persisted catalog surface read by external
// consumers and must not change.
//
// ID and CuratedDate are zero until the record is persisted; the catalog
// store assigns them exactly once, at save time.
type DatasetRecord struct {
	// Basic information.
	Title         string `json:"Title"`
	Year          string `json:"Year"`
	Version       string `json:"Version"`
	PublishedDate string `json:"Published_Date"`
	DOIVersion    string `json:"DOI_Version"`
	DOILatest     string `json:"DOI_Latest"`

	// Description.
	Description  string `json:"Description"`
	AbstractFull string `json:"Abstract_Full"`

	// Authors and contributors.
	Authors             []string `json:"Authors"`
	CorrespondingAuthor string   `json:"Corresponding_Author"`

	// Physiological and imaging modalities. PhysiologicalModality is the
	// human-readable comma-join of ModalitiesList.
	PhysiologicalModality string   `json:"Physiological_Modality"`
	ModalitiesList        []string `json:"Modalities_List"`
	SensorsUsed           []string `json:"Sensors_Used"`
	SamplingRates         []string `json:"Sampling_Rates"`
	DataFormats           []string `json:"Data_Formats"`

	// Clinical context. ClinicalCondition is the comma-join of
	// ConditionsList, falling back to GeneralPopulation.
	ClinicalCondition string   `json:"Clinical_Condition"`
	ConditionsList    []string `json:"Conditions_List"`
	PatientPopulation string   `json:"Patient_Population"`
	ClinicalSetting   string   `json:"Clinical_Setting"`

	// Dataset characteristics.
	DatasetSize          string `json:"Dataset_Size"`
	NumberOfSubjects     string `json:"Number_of_Subjects"`
	NumberOfRecordings   string `json:"Number_of_Recordings"`
	DurationPerRecording string `json:"Duration_Per_Recording"`
	AgeRange             string `json:"Age_Range"`
	GenderDistribution   string `json:"Gender_Distribution"`
	DataCollectionPeriod string `json:"Data_Collection_Period"`

	// File information.
	TotalSizeCompressed   string   `json:"Total_Size_Compressed"`
	TotalSizeUncompressed string   `json:"Total_Size_Uncompressed"`
	MainFolders           []string `json:"Main_Folders"`

	// Research context.
	TargetResearchTask   string   `json:"Target_Research_Task"`
	ResearchApplications []string `json:"Research_Applications"`
	ParentProject        string   `json:"Parent_Project"`
	FundingSources       []string `json:"Funding_Sources"`

	// Quality and ethics.
	EthicsApproval   string   `json:"Ethics_Approval"`
	IRBNumber        string   `json:"IRB_Number"`
	Limitations      []string `json:"Limitations"`
	DataQualityNotes string   `json:"Data_Quality_Notes"`

	// Access information.
	AccessType              string `json:"Access_Type"`
	LicensingOrAvailability string `json:"Licensing_or_Availability"`
	TrainingRequired        bool   `json:"Training_Required"`
	DUARequired             bool   `json:"DUA_Required"`
	CredentialingRequired   bool   `json:"Credentialing_Required"`

	// Citations.
	PrimaryCitation     string   `json:"Primary_Citation"`
	RelatedPublications []string `json:"Related_Publications"`

	// Keywords and derived metadata.
	KeywordsUsed         []string `json:"Keywords_Used"`
	MetadataCompleteness string   `json:"Metadata_Completeness"`

	// Identity. DatasetURL is the natural key: the catalog holds at most
	// one record per distinct URL.
	DatasetURL  string `json:"Dataset_URL"`
	ID          int64  `json:"id,omitempty"`
	CuratedDate string `json:"curated_date,omitempty"`
}

// NewDatasetRecord returns a record with every field at its declared
// default: NotSpecified for scalars, empty lists, false flags, and the
// literal URL for DatasetURL.
func NewDatasetRecord(url string) *DatasetRecord {
	return &DatasetRecord{
		Title:                   NotSpecified,
		Year:                    NotSpecified,
		Version:                 NotSpecified,
		PublishedDate:           NotSpecified,
		DOIVersion:              NotSpecified,
		DOILatest:               NotSpecified,
		Description:             NotSpecified,
		AbstractFull:            NotSpecified,
		Authors:                 []string{},
		CorrespondingAuthor:     NotSpecified,
		PhysiologicalModality:   NotSpecified,
		ModalitiesList:          []string{},
		SensorsUsed:             []string{},
		SamplingRates:           []string{},
		DataFormats:             []string{},
		ClinicalCondition:       NotSpecified,
		ConditionsList:          []string{},
		PatientPopulation:       NotSpecified,
		ClinicalSetting:         NotSpecified,
		DatasetSize:             NotSpecified,
		NumberOfSubjects:        NotSpecified,
		NumberOfRecordings:      NotSpecified,
		DurationPerRecording:    NotSpecified,
		AgeRange:                NotSpecified,
		GenderDistribution:      NotSpecified,
		DataCollectionPeriod:    NotSpecified,
		TotalSizeCompressed:     NotSpecified,
		TotalSizeUncompressed:   NotSpecified,
		MainFolders:             []string{},
		TargetResearchTask:      NotSpecified,
		ResearchApplications:    []string{},
		ParentProject:           NotSpecified,
		FundingSources:          []string{},
		EthicsApproval:          NotSpecified,
		IRBNumber:               NotSpecified,
		Limitations:             []string{},
		DataQualityNotes:        NotSpecified,
		AccessType:              NotSpecified,
		LicensingOrAvailability: NotSpecified,
		PrimaryCitation:         NotSpecified,
		RelatedPublications:     []string{},
		KeywordsUsed:            []string{},
		MetadataCompleteness:    NotSpecified,
		DatasetURL:              url,
	}
}

// FilledRatio returns filled/total over the extraction-time fields. A field
// counts as filled when its value differs from its declared default: scalars
// not NotSpecified, non-empty lists, flags set true. ID and CuratedDate are
// persistence-time fields and excluded. DatasetURL counts when non-empty.
func (r *DatasetRecord) FilledRatio() float64 {
	scalars := []string{
		r.Title, r.Year, r.Version, r.PublishedDate, r.DOIVersion, r.DOILatest,
		r.Description, r.AbstractFull, r.CorrespondingAuthor,
		r.PhysiologicalModality, r.ClinicalCondition, r.PatientPopulation,
		r.ClinicalSetting, r.DatasetSize, r.NumberOfSubjects,
		r.NumberOfRecordings, r.DurationPerRecording, r.AgeRange,
		r.GenderDistribution, r.DataCollectionPeriod, r.TotalSizeCompressed,
		r.TotalSizeUncompressed, r.TargetResearchTask, r.ParentProject,
		r.EthicsApproval, r.IRBNumber, r.DataQualityNotes, r.AccessType,
		r.LicensingOrAvailability, r.PrimaryCitation, r.MetadataCompleteness,
	}
	lists := [][]string{
		r.Authors, r.ModalitiesList, r.SensorsUsed, r.SamplingRates,
		r.DataFormats, r.ConditionsList, r.MainFolders,
		r.ResearchApplications, r.FundingSources, r.Limitations,
		r.RelatedPublications, r.KeywordsUsed,
	}
	flags := []bool{r.TrainingRequired, r.DUARequired, r.CredentialingRequired}

	filled := 0
	total := len(scalars) + len(lists) + len(flags) + 1 // +1 for Dataset_URL

	for _, s := range scalars {
		if s != NotSpecified {
			filled++
		}
	}
	for _, l := range lists {
		if len(l) > 0 {
			filled++
		}
	}
	for _, f := range flags {
		if f {
			filled++
		}
	}
	if r.DatasetURL != "" {
		filled++
	}

	return float64(filled) / float64(total)
}

// ClassifyCompleteness maps a filled-field ratio to the three-level
// completeness label.
func ClassifyCompleteness(ratio float64) string {
	switch {
	case ratio > completenessHighThreshold:
		return CompletenessHigh
	case ratio > completenessModerateThreshold:
		return CompletenessModerate
	default:
		return CompletenessLow
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/dataset-curator/internal/page"
	"github.com/pdiddy/dataset-curator/pkg/types"
)

// List caps. Extracted lists are truncated so a single page cannot bloat
// a record.
const (
	maxFolders      = 10
	maxApplications = 10
	maxReferences   = 5
	maxLimitations  = 5
	maxSamplingRate = 5
	maxGrants       = 5
)

// Compiled once; the extractors run them in fixed priority order and take
// the first match.
var (
	reVersion   = regexp.MustCompile(`(?i)version:?\s*(\d+\.\d+\.\d+)`)
	rePublished = regexp.MustCompile(`(?i)published:?\s*\w+\.?\s+\d+,?\s+\d{4}`)
	reYear      = regexp.MustCompile(`(19|20)\d{2}`)

	reCorresponding = regexp.MustCompile(`(?i)corresponding author[^:]*:\s*([^.]+)`)

	reSubjects = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*(?:subjects?|patients?|participants?|individuals?)`),
		regexp.MustCompile(`total\s+(?:of\s+)?(\d+)\s*(?:subjects?|patients?)`),
	}
	reRecordings = regexp.MustCompile(`(\d+[,\d]*)\s*(?:recordings?|studies|exams?)`)
	reDurations  = []*regexp.Regexp{
		regexp.MustCompile(`(\d+\.?\d*)\s*(?:hours?|hrs?)\s*(?:per|of|each)`),
		regexp.MustCompile(`duration[:\s]+(\d+\.?\d*)\s*(?:minutes?|hours?|days?)`),
	}
	reAgeRange = regexp.MustCompile(`age[sd]?[:\s]+(\d+[-–to\s]+\d+)`)
	reGender   = regexp.MustCompile(`(\d+)\s*(?:male|female)`)
	rePeriod   = regexp.MustCompile(`(19|20)\d{2}[-–to\s]+(19|20)\d{2}`)

	reCompressed   = regexp.MustCompile(`(?i)(\d+\.?\d*\s*(?:KB|MB|GB|TB))[^.]*?\bcompressed`)
	reUncompressed = regexp.MustCompile(`(?i)(\d+\.?\d*\s*(?:KB|MB|GB|TB))[^.]*?\buncompressed`)

	reSamplingRate = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(?:hz|khz|samples?/s)`)

	reIRB      = regexp.MustCompile(`(?i)IRB[:\s#]*([A-Z0-9\-]+)`)
	reApproved = regexp.MustCompile(`(?i)approved by[^.]+`)
	reGrant    = regexp.MustCompile(`(?i)grants?[:\s#]*([A-Z0-9\-/]+)`)

	reEthicsHeading = regexp.MustCompile(`(?i)ethics`)
	reRefsHeading   = regexp.MustCompile(`(?i)references`)
	reLimitHeading  = regexp.MustCompile(`(?i)limitations?`)

	reSentenceSplit = regexp.MustCompile(`[.\n•]`)

	// Self-reported limitation phrasings to scan for outside a dedicated
	// limitations section.
	reLimitPatterns = []*regexp.Regexp{
		regexp.MustCompile(`[^.]*small sample size[^.]*`),
		regexp.MustCompile(`[^.]*limited to[^.]*institution[^.]*`),
		regexp.MustCompile(`[^.]*no control group[^.]*`),
		regexp.MustCompile(`[^.]*imbalanced[^.]*`),
		regexp.MustCompile(`[^.]*single center[^.]*`),
		regexp.MustCompile(`[^.]*retrospective[^.]*`),
	}
)

// containsKeyword reports whether the trigger occurs anywhere in text.
// Matching is plain substring containment over lowercased page text.
func containsKeyword(text, trigger string) bool {
	return strings.Contains(text, trigger)
}

// titleCase capitalizes the first letter of an ASCII keyword.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// firstMatch tries the candidate expressions in order against text and
// returns the first capture group of the first one that matches.
func firstMatch(text string, candidates []*regexp.Regexp) string {
	for _, re := range candidates {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// uniqueOrdered de-duplicates keeping first occurrence order, then caps
// the list at max. The result is never nil so assigning it over a list
// field preserves the empty-list JSON shape.
func uniqueOrdered(items []string, max int) []string {
	seen := make(map[string]bool, len(items))
	out := []string{}
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
		if len(out) == max {
			break
		}
	}
	return out
}

// extractTitleAndAbstract fills the title from the page h1 and the
// description fields from the abstract section, when present.
func extractTitleAndAbstract(p *page.Page, _ *Rules, rec *types.DatasetRecord) {
	if title := p.Heading1(); title != "" {
		rec.Title = title
	}

	abstract := p.Section("abstract", nil)
	if abstract == nil {
		return
	}
	text := page.Normalize(abstract.Text())
	if text == "" {
		return
	}
	rec.AbstractFull = text
	rec.Description = page.FirstWords(text, 150)
}

// extractVersionAndDOI fills version, publication date, year, and the two
// DOI locators.
func extractVersionAndDOI(p *page.Page, _ *Rules, rec *types.DatasetRecord) {
	if m := reVersion.FindStringSubmatch(p.Text); m != nil {
		rec.Version = m[1]
	}
	if m := rePublished.FindString(p.Text); m != "" {
		rec.PublishedDate = m
		if year := reYear.FindString(m); year != "" {
			rec.Year = year
		}
	}

	p.Find(`a[href*="doi.org"]`).Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok || !strings.Contains(href, "doi.org") {
			return
		}
		label := strings.ToLower(link.Text())
		switch {
		case strings.Contains(label, "version"):
			rec.DOIVersion = href
		case strings.Contains(label, "latest"):
			rec.DOILatest = href
		}
	})
}

// extractAuthors fills the author list from the author section anchors and
// the corresponding author from its labelled line.
func extractAuthors(p *page.Page, _ *Rules, rec *types.DatasetRecord) {
	authorSection := p.Find(`div[class*="author"], section[id*="author"]`).First()
	if authorSection.Length() > 0 {
		var authors []string
		authorSection.Find("a").Each(func(_ int, link *goquery.Selection) {
			if name := page.Normalize(link.Text()); name != "" {
				authors = append(authors, name)
			}
		})
		if len(authors) > 0 {
			rec.Authors = authors
		}
	}

	if m := reCorresponding.FindStringSubmatch(p.Text); m != nil {
		rec.CorrespondingAuthor = strings.TrimSpace(m[1])
	}
}

// extractModalities fills the modality labels, sensor names, sampling
// rates, and data formats from keyword and pattern signals.
func extractModalities(p *page.Page, rules *Rules, rec *types.DatasetRecord) {
	rec.ModalitiesList = matchLabels(p.LowerText, rules.Modalities)

	for _, sensor := range rules.Sensors {
		if containsKeyword(p.LowerText, sensor) {
			rec.SensorsUsed = append(rec.SensorsUsed, titleCase(sensor))
		}
	}

	var rates []string
	for _, m := range reSamplingRate.FindAllStringSubmatch(p.Text, -1) {
		rates = append(rates, m[1])
	}
	rec.SamplingRates = uniqueOrdered(rates, maxSamplingRate)

	for _, format := range rules.Formats {
		if containsKeyword(p.LowerText, format) {
			rec.DataFormats = append(rec.DataFormats, strings.ToUpper(format))
		}
	}
}

// extractClinicalContext fills the condition labels and the single-valued
// population and setting fields.
func extractClinicalContext(p *page.Page, rules *Rules, rec *types.DatasetRecord) {
	rec.ConditionsList = matchLabels(p.LowerText, rules.Conditions)

	if pop := firstLabel(p.LowerText, rules.Populations); pop != "" {
		rec.PatientPopulation = pop
	}
	if setting := firstLabel(p.LowerText, rules.Settings); setting != "" {
		rec.ClinicalSetting = setting
	}
}

// extractCharacteristics fills subject/recording counts, durations, age
// range, gender reporting, and collection period.
func extractCharacteristics(p *page.Page, _ *Rules, rec *types.DatasetRecord) {
	if subjects := firstMatch(p.LowerText, reSubjects); subjects != "" {
		rec.NumberOfSubjects = subjects
	}

	if m := reRecordings.FindStringSubmatch(p.LowerText); m != nil {
		rec.NumberOfRecordings = strings.ReplaceAll(m[1], ",", "")
	}

	for _, re := range reDurations {
		if m := re.FindString(p.LowerText); m != "" {
			rec.DurationPerRecording = m
			break
		}
	}

	var sizeParts []string
	if rec.NumberOfSubjects != types.NotSpecified {
		sizeParts = append(sizeParts, rec.NumberOfSubjects+" subjects")
	}
	if rec.DurationPerRecording != types.NotSpecified {
		sizeParts = append(sizeParts, rec.DurationPerRecording)
	}
	if len(sizeParts) > 0 {
		rec.DatasetSize = strings.Join(sizeParts, ", ")
	}

	if m := reAgeRange.FindStringSubmatch(p.LowerText); m != nil {
		rec.AgeRange = m[1]
	}

	// Counts per sex vary too much in phrasing to capture reliably; the
	// field only records that a breakdown exists.
	if reGender.MatchString(p.LowerText) {
		rec.GenderDistribution = "Reported"
	}

	if m := rePeriod.FindString(p.Text); m != "" {
		rec.DataCollectionPeriod = m
	}
}

// extractFileStructure fills the archive sizes and the top-level folder
// names from the files section.
func extractFileStructure(p *page.Page, _ *Rules, rec *types.DatasetRecord) {
	if m := reCompressed.FindStringSubmatch(p.Text); m != nil {
		rec.TotalSizeCompressed = strings.TrimSpace(m[1])
	}
	if m := reUncompressed.FindStringSubmatch(p.Text); m != nil {
		rec.TotalSizeUncompressed = strings.TrimSpace(m[1])
	}

	files := p.Section("files", nil)
	if files == nil {
		return
	}
	var folders []string
	files.Find(`a[href*="/files/"]`).Each(func(_ int, link *goquery.Selection) {
		if name := page.Normalize(link.Text()); name != "" {
			folders = append(folders, name)
		}
	})
	rec.MainFolders = uniqueOrdered(folders, maxFolders)
}

// extractEthicsAndFunding fills the approval statement, IRB identifier,
// and grant list.
func extractEthicsAndFunding(p *page.Page, rules *Rules, rec *types.DatasetRecord) {
	if ethics := p.Section("ethics", reEthicsHeading); ethics != nil {
		text := page.Normalize(ethics.Text())
		if m := reIRB.FindStringSubmatch(text); m != nil {
			rec.IRBNumber = m[1]
		}
		if m := reApproved.FindString(text); m != "" {
			rec.EthicsApproval = m
		}
	}

	for _, keyword := range rules.Funding {
		if !containsKeyword(p.LowerText, keyword) {
			continue
		}
		var grants []string
		for _, m := range reGrant.FindAllStringSubmatch(p.Text, maxGrants) {
			grants = append(grants, m[1])
		}
		rec.FundingSources = uniqueOrdered(grants, maxGrants)
		break
	}
}

// extractCitations fills the primary citation and the first few
// references.
func extractCitations(p *page.Page, _ *Rules, rec *types.DatasetRecord) {
	citation := p.Find(`section#citation, div[class*="citation"]`).First()
	if citation.Length() > 0 {
		if text := page.Normalize(citation.Text()); text != "" {
			rec.PrimaryCitation = page.FirstWords(text, 100)
		}
	}

	refs := p.Section("references", reRefsHeading)
	if refs == nil {
		return
	}
	var pubs []string
	refs.Find("li").Each(func(i int, item *goquery.Selection) {
		if i >= maxReferences {
			return
		}
		if text := page.Normalize(item.Text()); text != "" {
			pubs = append(pubs, text)
		}
	})
	if len(pubs) > 0 {
		rec.RelatedPublications = pubs
	}
}

// extractApplications fills the research application labels and derives a
// short task summary from the strongest ones.
func extractApplications(p *page.Page, rules *Rules, rec *types.DatasetRecord) {
	apps := matchLabels(p.LowerText, rules.Applications)
	if len(apps) > maxApplications {
		apps = apps[:maxApplications]
	}
	rec.ResearchApplications = apps

	if len(apps) > 0 {
		summary := apps
		if len(summary) > 3 {
			summary = summary[:3]
		}
		rec.TargetResearchTask = strings.Join(summary, ", ")
	}
}

// extractLimitations fills the limitations list from a dedicated section
// and from common self-reported phrasings elsewhere in the text.
func extractLimitations(p *page.Page, _ *Rules, rec *types.DatasetRecord) {
	var limitations []string

	if section := p.Section("limitations", reLimitHeading); section != nil {
		for _, fragment := range reSentenceSplit.Split(section.Text(), -1) {
			fragment = page.Normalize(fragment)
			if len(fragment) > 20 {
				limitations = append(limitations, fragment)
			}
		}
	}

	for _, re := range reLimitPatterns {
		if m := re.FindString(p.LowerText); m != "" {
			limitations = append(limitations, strings.TrimSpace(m))
		}
	}

	rec.Limitations = uniqueOrdered(limitations, maxLimitations)
}

// extractAccess fills the access classification, license name, and the
// three requirement flags.
func extractAccess(p *page.Page, _ *Rules, rec *types.DatasetRecord) {
	switch {
	case containsKeyword(p.LowerText, "open access"):
		rec.AccessType = "Open Access"
	case containsKeyword(p.LowerText, "credentialed") || containsKeyword(p.LowerText, "restricted"):
		rec.AccessType = "Credentialed/Restricted"
	case containsKeyword(p.LowerText, "request"):
		rec.AccessType = "Request Required"
	}

	license := p.Find(`a[href*="license"]`).First()
	if license.Length() > 0 {
		if name := page.Normalize(license.Text()); name != "" {
			rec.LicensingOrAvailability = name
		}
	}

	if containsKeyword(p.LowerText, "citi") || containsKeyword(p.LowerText, "training") {
		rec.TrainingRequired = true
	}
	if containsKeyword(p.LowerText, "dua") || containsKeyword(p.LowerText, "data use agreement") {
		rec.DUARequired = true
	}
	if containsKeyword(p.LowerText, "credential") {
		rec.CredentialingRequired = true
	}
}

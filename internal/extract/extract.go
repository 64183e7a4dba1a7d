// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract derives a fixed-schema DatasetRecord from a parsed
// dataset-description page. Each concern (modalities, clinical context,
// access terms, ...) has an independent heuristic extractor; the assembler
// folds their partial results into one record and classifies completeness.
//
// Extractors never fail for "not found": absence of a signal leaves the
// field at its default, never raises an error.
package extract

import (
	"context"
	"net/http"
	"strings"

	"github.com/pdiddy/dataset-curator/internal/page"
	"github.com/pdiddy/dataset-curator/pkg/types"
)

// An extractorFunc derives one group of fields from the page, writing into
// its own field group only. Extractors run in fixed order and never
// overwrite another extractor's fields.
type extractorFunc func(p *page.Page, rules *Rules, rec *types.DatasetRecord)

// Extractor assembles DatasetRecords using an immutable rule set.
type Extractor struct {
	rules      *Rules
	extractors []extractorFunc
}

// New builds an Extractor. A nil rules argument uses the built-in tables.
func New(rules *Rules) *Extractor {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Extractor{
		rules: rules,
		extractors: []extractorFunc{
			extractTitleAndAbstract,
			extractVersionAndDOI,
			extractAuthors,
			extractModalities,
			extractClinicalContext,
			extractCharacteristics,
			extractFileStructure,
			extractEthicsAndFunding,
			extractCitations,
			extractApplications,
			extractLimitations,
			extractAccess,
		},
	}
}

// Assemble runs every extractor over the page and returns the canonical
// record. Extraction is deterministic: the same page content yields
// byte-identical field values. ID and CuratedDate stay unset; the catalog
// store assigns them at persistence time.
func (e *Extractor) Assemble(p *page.Page, url string) *types.DatasetRecord {
	rec := types.NewDatasetRecord(url)

	for _, fn := range e.extractors {
		fn(p, e.rules, rec)
	}

	// Derived joins are always recomputed from the list fields, even when
	// a list is empty, so the summaries and lists cannot disagree.
	if len(rec.ModalitiesList) > 0 {
		rec.PhysiologicalModality = strings.Join(rec.ModalitiesList, ", ")
	} else {
		rec.PhysiologicalModality = types.NotSpecified
	}
	if len(rec.ConditionsList) > 0 {
		rec.ClinicalCondition = strings.Join(rec.ConditionsList, ", ")
	} else {
		rec.ClinicalCondition = types.GeneralPopulation
	}

	// Completeness last, once every field is in final form.
	rec.MetadataCompleteness = types.ClassifyCompleteness(rec.FilledRatio())

	return rec
}

// FromURL fetches url and assembles its record. A transport or parse
// failure short-circuits extraction: the error is returned and no partial
// record is produced.
func (e *Extractor) FromURL(ctx context.Context, client *http.Client, url string, cfg types.ExtractionConfig) (*types.DatasetRecord, error) {
	p, err := page.Fetch(ctx, client, url, cfg.HTTPConfig)
	if err != nil {
		return nil, err
	}
	return e.Assemble(p, url), nil
}

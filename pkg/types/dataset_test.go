// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewDatasetRecordDefaults(t *testing.T) {
	rec := NewDatasetRecord("https://physionet.org/content/mitdb/1.0.0/")

	if rec.Title != NotSpecified {
		t.Errorf("Title = %q, want %q", rec.Title, NotSpecified)
	}
	if rec.DatasetURL != "https://physionet.org/content/mitdb/1.0.0/" {
		t.Errorf("DatasetURL = %q, want the literal URL", rec.DatasetURL)
	}
	if len(rec.Authors) != 0 || rec.Authors == nil {
		t.Errorf("Authors = %v, want empty non-nil list", rec.Authors)
	}
	if rec.TrainingRequired || rec.DUARequired || rec.CredentialingRequired {
		t.Error("requirement flags should default to false")
	}
	if rec.ID != 0 || rec.CuratedDate != "" {
		t.Error("identity fields must stay unset until persistence")
	}
}

func TestDefaultRecordRatioIsLow(t *testing.T) {
	// Only Dataset_URL counts as filled on a fresh record.
	rec := NewDatasetRecord("https://physionet.org/content/mitdb/1.0.0/")

	ratio := rec.FilledRatio()
	if ratio > 0.1 {
		t.Errorf("FilledRatio() = %f, want near zero for a default record", ratio)
	}
	if got := ClassifyCompleteness(ratio); got != CompletenessLow {
		t.Errorf("ClassifyCompleteness(%f) = %q, want %q", ratio, got, CompletenessLow)
	}
}

func TestClassifyCompletenessBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  string
	}{
		{"zero", 0.0, CompletenessLow},
		{"exactly 0.4 stays low", 0.40, CompletenessLow},
		{"just above 0.4", 0.41, CompletenessModerate},
		{"exactly 0.7 stays moderate", 0.70, CompletenessModerate},
		{"just above 0.7", 0.71, CompletenessHigh},
		{"full", 1.0, CompletenessHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyCompleteness(tt.ratio); got != tt.want {
				t.Errorf("ClassifyCompleteness(%f) = %q, want %q", tt.ratio, got, tt.want)
			}
		})
	}
}

func TestFilledRatioCountsNonDefaults(t *testing.T) {
	rec := NewDatasetRecord("https://example.org/content/x/1.0/")
	base := rec.FilledRatio()

	rec.Title = "MIT-BIH Arrhythmia Database"
	rec.ModalitiesList = []string{"ECG"}
	rec.TrainingRequired = true

	got := rec.FilledRatio()
	want := base + 3.0/47.0
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("FilledRatio() = %f, want %f", got, want)
	}
}

func TestDatasetRecordJSONSurface(t *testing.T) {
	rec := NewDatasetRecord("https://physionet.org/content/mitdb/1.0.0/")
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	// The persisted field names are a compatibility surface.
	for _, key := range []string{
		`"Title"`, `"Dataset_URL"`, `"Physiological_Modality"`,
		`"Modalities_List"`, `"Clinical_Condition"`, `"Metadata_Completeness"`,
		`"Training_Required"`, `"Related_Publications"`,
	} {
		if !strings.Contains(string(data), key) {
			t.Errorf("marshalled record missing field %s", key)
		}
	}

	// Unassigned identity fields stay out of the document.
	if strings.Contains(string(data), `"id"`) || strings.Contains(string(data), `"curated_date"`) {
		t.Error("unpersisted record must not carry id or curated_date")
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// KeywordRule maps a canonical label to the lowercase trigger substrings
// that signal it. A label is emitted when any trigger occurs in the page
// text; output order follows rule declaration order, not text order.
type KeywordRule struct {
	Label    string   `yaml:"label"`
	Triggers []string `yaml:"triggers"`
}

// Rules holds every keyword table the extractors consult. Tables are
// loaded once at startup and never mutated afterwards.
type Rules struct {
	Modalities   []KeywordRule `yaml:"modalities"`
	Sensors      []string      `yaml:"sensors"`
	Formats      []string      `yaml:"formats"`
	Conditions   []KeywordRule `yaml:"conditions"`
	Populations  []KeywordRule `yaml:"populations"`
	Settings     []KeywordRule `yaml:"settings"`
	Applications []KeywordRule `yaml:"applications"`
	Funding      []string      `yaml:"funding_keywords"`
}

// DefaultRules returns the built-in keyword tables.
func DefaultRules() *Rules {
	return &Rules{
		Modalities: []KeywordRule{
			{Label: "ECG", Triggers: []string{"ecg", "electrocardiogram", "cardiac"}},
			{Label: "PCG", Triggers: []string{"pcg", "phonocardiogram", "heart sound"}},
			{Label: "EEG", Triggers: []string{"eeg", "electroencephalogram", "brain activity"}},
			{Label: "EMG", Triggers: []string{"emg", "electromyogram", "muscle"}},
			{Label: "PPG", Triggers: []string{"ppg", "photoplethysmogram", "pulse"}},
			{Label: "ACC", Triggers: []string{"accelerometer", "acceleration"}},
			{Label: "Gyroscope", Triggers: []string{"gyroscope", "gyro"}},
			{Label: "Respiratory", Triggers: []string{"respiratory", "respiration", "breathing"}},
			{Label: "Blood Pressure", Triggers: []string{"blood pressure", "bp", "arterial pressure"}},
			{Label: "Temperature", Triggers: []string{"temperature", "temp", "thermal"}},
			{Label: "Skin Conductance", Triggers: []string{"skin conductance", "eda", "electrodermal", "gsr"}},
			{Label: "fNIRS", Triggers: []string{"fnirs", "near-infrared spectroscopy", "hemodynamic"}},
			{Label: "Chest X-ray", Triggers: []string{"chest x-ray", "cxr", "radiograph"}},
			{Label: "CT", Triggers: []string{"ct scan", "computed tomography"}},
			{Label: "MRI", Triggers: []string{"mri", "magnetic resonance"}},
			{Label: "Ultrasound", Triggers: []string{"ultrasound", "echocardiogram"}},
			{Label: "Clinical Notes", Triggers: []string{"clinical notes", "discharge", "radiology report", "ehr"}},
			{Label: "Facial Expression", Triggers: []string{"facial expression", "face reader"}},
			{Label: "Eye Tracking", Triggers: []string{"eye tracking", "gaze", "fixation"}},
		},
		Sensors: []string{
			"biopac", "empatica", "nirsport", "facereader", "polar", "fitbit",
			"actiheart", "zephyr", "bioharness",
		},
		Formats: []string{"csv", "mat", "hdf5", "edf", "json", "xml", "dicom", "nifti"},
		Conditions: []KeywordRule{
			{Label: "Arrhythmia", Triggers: []string{"arrhythmia", "irregular heartbeat"}},
			{Label: "Atrial Fibrillation", Triggers: []string{"atrial fibrillation", "afib", "af"}},
			{Label: "Heart Failure", Triggers: []string{"heart failure", "chf"}},
			{Label: "Myocardial Infarction", Triggers: []string{"myocardial infarction", "heart attack", "mi"}},
			{Label: "Sleep Apnea", Triggers: []string{"sleep apnea", "osa", "obstructive sleep"}},
			{Label: "Hypertension", Triggers: []string{"hypertension", "high blood pressure"}},
			{Label: "Pneumonia", Triggers: []string{"pneumonia"}},
			{Label: "COVID-19", Triggers: []string{"covid-19", "sars-cov-2", "coronavirus"}},
			{Label: "COPD", Triggers: []string{"copd", "chronic obstructive"}},
			{Label: "Diabetes", Triggers: []string{"diabetes", "diabetic"}},
			{Label: "Stroke", Triggers: []string{"stroke", "cerebrovascular"}},
			{Label: "Sepsis", Triggers: []string{"sepsis", "septic"}},
			{Label: "Pneumothorax", Triggers: []string{"pneumothorax"}},
			{Label: "Pleural Effusion", Triggers: []string{"pleural effusion"}},
			{Label: "Edema", Triggers: []string{"edema", "pulmonary edema"}},
			{Label: "Cardiomegaly", Triggers: []string{"cardiomegaly", "enlarged heart"}},
			{Label: "Atelectasis", Triggers: []string{"atelectasis"}},
			{Label: "Consolidation", Triggers: []string{"consolidation"}},
		},
		Populations: []KeywordRule{
			{Label: "ICU patients", Triggers: []string{"intensive care", "icu", "critical care"}},
			{Label: "Emergency department", Triggers: []string{"emergency", "ed visits"}},
			{Label: "Inpatients", Triggers: []string{"inpatient", "hospitalized"}},
			{Label: "Outpatients", Triggers: []string{"outpatient", "ambulatory"}},
			{Label: "Healthy volunteers", Triggers: []string{"healthy", "volunteer", "normal subjects"}},
			{Label: "Neonatal", Triggers: []string{"neonatal", "newborn", "infant"}},
			{Label: "Pediatric", Triggers: []string{"pediatric", "children"}},
			{Label: "Geriatric", Triggers: []string{"geriatric", "elderly", "older adults"}},
		},
		Settings: []KeywordRule{
			{Label: "Hospital", Triggers: []string{"hospital", "medical center"}},
			{Label: "Laboratory", Triggers: []string{"laboratory", "lab setting", "controlled environment"}},
			{Label: "Home", Triggers: []string{"home", "ambulatory", "real-world"}},
			{Label: "Clinic", Triggers: []string{"clinic", "outpatient"}},
		},
		Applications: []KeywordRule{
			{Label: "Classification", Triggers: []string{"classification", "detection", "diagnosis"}},
			{Label: "Segmentation", Triggers: []string{"segmentation", "localization"}},
			{Label: "Prediction", Triggers: []string{"prediction", "prognosis", "forecasting"}},
			{Label: "Generation", Triggers: []string{"generation", "synthesis", "report generation"}},
			{Label: "Question Answering", Triggers: []string{"question answering", "vqa", "qa"}},
			{Label: "Summarization", Triggers: []string{"summarization", "summarize"}},
			{Label: "Entity Recognition", Triggers: []string{"entity recognition", "ner", "named entity"}},
			{Label: "Signal Processing", Triggers: []string{"signal processing", "filtering", "feature extraction"}},
			{Label: "Deep Learning", Triggers: []string{"deep learning", "neural network", "cnn", "rnn"}},
			{Label: "Transfer Learning", Triggers: []string{"transfer learning", "pre-training"}},
			{Label: "Explainable AI", Triggers: []string{"explainable", "interpretable", "xai"}},
			{Label: "Multimodal Learning", Triggers: []string{"multimodal", "multi-modal", "fusion"}},
			{Label: "Time Series", Triggers: []string{"time series", "temporal", "sequential"}},
			{Label: "Anomaly Detection", Triggers: []string{"anomaly detection", "outlier"}},
		},
		Funding: []string{
			"nsf", "nih", "national science foundation",
			"national institutes of health", "funded by", "supported by", "grant",
		},
	}
}

// LoadRules reads a YAML rules file and overlays it on the defaults. Only
// the tables present in the file are replaced; the rest keep their
// built-in values. An empty path returns the defaults unchanged.
func LoadRules(path string) (*Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file %s: %w", path, err)
	}

	var override Rules
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}

	if len(override.Modalities) > 0 {
		rules.Modalities = override.Modalities
	}
	if len(override.Sensors) > 0 {
		rules.Sensors = override.Sensors
	}
	if len(override.Formats) > 0 {
		rules.Formats = override.Formats
	}
	if len(override.Conditions) > 0 {
		rules.Conditions = override.Conditions
	}
	if len(override.Populations) > 0 {
		rules.Populations = override.Populations
	}
	if len(override.Settings) > 0 {
		rules.Settings = override.Settings
	}
	if len(override.Applications) > 0 {
		rules.Applications = override.Applications
	}
	if len(override.Funding) > 0 {
		rules.Funding = override.Funding
	}

	return rules, nil
}

// matchLabels returns the labels of every rule with at least one trigger
// present in text, in declaration order. Multi-label: several rules may
// match the same page. The result is never nil; list fields must keep
// their empty-list JSON shape when nothing matches.
func matchLabels(text string, rules []KeywordRule) []string {
	labels := []string{}
	for _, rule := range rules {
		for _, trigger := range rule.Triggers {
			if containsKeyword(text, trigger) {
				labels = append(labels, rule.Label)
				break
			}
		}
	}
	return labels
}

// firstLabel returns the label of the first matching rule, or "" when none
// match. Used for single-valued fields (population, setting).
func firstLabel(text string, rules []KeywordRule) string {
	for _, rule := range rules {
		for _, trigger := range rule.Triggers {
			if containsKeyword(text, trigger) {
				return rule.Label
			}
		}
	}
	return ""
}

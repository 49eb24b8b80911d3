package catalog

import "context"

// Default returns the catalog the inference engine's knowledge base ships with.
func Default() *Catalog {
	return &Catalog{
		Symptoms: []Entry{
			{ID: "fever", Label: "Fever"},
			{ID: "cough", Label: "Cough"},
			{ID: "shortness_of_breath", Label: "Shortness of Breath"},
			{ID: "chills", Label: "Chills"},
			{ID: "sweating", Label: "Sweating"},
			{ID: "headache", Label: "Headache"},
			{ID: "abdominal_pain", Label: "Abdominal Pain"},
			{ID: "fatigue", Label: "Fatigue"},
			{ID: "chest_pain", Label: "Chest Pain"},
			{ID: "blurred_vision", Label: "Blurred Vision"},
			{ID: "runny_nose", Label: "Runny Nose"},
			{ID: "sore_throat", Label: "Sore Throat"},
			{ID: "wheezing", Label: "Wheezing"},
			{ID: "chest_tightness", Label: "Chest Tightness"},
			{ID: "watery_diarrhea", Label: "Watery Diarrhea"},
			{ID: "vomiting", Label: "Vomiting"},
			{ID: "dehydration", Label: "Dehydration"},
			{ID: "chronic_cough", Label: "Chronic Cough"},
			{ID: "weight_loss", Label: "Weight Loss"},
			{ID: "night_sweats", Label: "Night Sweats"},
			{ID: "severe_headache", Label: "Severe Headache"},
			{ID: "nausea", Label: "Nausea"},
			{ID: "sensitivity_to_light", Label: "Sensitivity to Light"},
			{ID: "increased_thirst", Label: "Increased Thirst"},
			{ID: "frequent_urination", Label: "Frequent Urination"},
		},
		Allergies: []Entry{
			{ID: "penicillin", Label: "Penicillin"},
			{ID: "sulfa", Label: "Sulfa Drugs"},
			{ID: "nsaids", Label: "NSAIDs (Ibuprofen)"},
		},
	}
}

// BuiltinSource serves the Default catalog.
type BuiltinSource struct{}

func (BuiltinSource) Load(_ context.Context) (*Catalog, error) {
	return Default(), nil
}

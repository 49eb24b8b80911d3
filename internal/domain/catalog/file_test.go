package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestFileSource_LoadYAML(t *testing.T) {
	path := writeFile(t, "catalog.yaml", `
symptoms:
  - id: fever
    label: Fever
  - id: cough
    label: Cough
allergies:
  - id: penicillin
    label: Penicillin
`)

	c, err := NewFileSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Symptoms) != 2 {
		t.Fatalf("expected 2 symptoms, got %d", len(c.Symptoms))
	}
	if c.Symptoms[1].ID != "cough" || c.Symptoms[1].Label != "Cough" {
		t.Errorf("order or content not preserved: %+v", c.Symptoms)
	}
	if !c.HasAllergy("penicillin") {
		t.Error("expected penicillin allergy")
	}
}

func TestFileSource_LoadJSON(t *testing.T) {
	path := writeFile(t, "catalog.json", `{
		"symptoms": [{"id": "headache", "label": "Headache"}],
		"allergies": []
	}`)

	c, err := NewFileSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.HasSymptom("headache") {
		t.Error("expected headache symptom")
	}
	if len(c.Allergies) != 0 {
		t.Errorf("expected no allergies, got %d", len(c.Allergies))
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.yaml")).Load(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFileSource_InvalidCatalog(t *testing.T) {
	path := writeFile(t, "catalog.yaml", `
symptoms:
  - id: fever
    label: Fever
  - id: fever
    label: Fever again
`)
	if _, err := NewFileSource(path).Load(context.Background()); err == nil {
		t.Fatal("expected validation error for duplicate ids")
	}
}

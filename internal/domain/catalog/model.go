package catalog

import (
	"context"
	"fmt"
	"strings"
)

// Kind distinguishes the two selectable catalog sections.
type Kind string

const (
	KindSymptom Kind = "symptom"
	KindAllergy Kind = "allergy"
)

// Entry pairs an opaque identifier with its human-readable label.
type Entry struct {
	ID    string `json:"id" mapstructure:"id"`
	Label string `json:"label" mapstructure:"label"`
}

// Catalog is the fixed, ordered list of selectable symptoms and allergies.
// It is configuration: nothing in the consultation workflow mutates it.
type Catalog struct {
	Symptoms  []Entry `json:"symptoms" mapstructure:"symptoms"`
	Allergies []Entry `json:"allergies" mapstructure:"allergies"`
}

// Source loads a catalog from some external supplier.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// Entries returns the section for the given kind.
func (c *Catalog) Entries(kind Kind) []Entry {
	switch kind {
	case KindSymptom:
		return c.Symptoms
	case KindAllergy:
		return c.Allergies
	}
	return nil
}

// Lookup returns the entry with the given id in the given section.
func (c *Catalog) Lookup(kind Kind, id string) (Entry, bool) {
	for _, e := range c.Entries(kind) {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

func (c *Catalog) HasSymptom(id string) bool {
	_, ok := c.Lookup(KindSymptom, id)
	return ok
}

func (c *Catalog) HasAllergy(id string) bool {
	_, ok := c.Lookup(KindAllergy, id)
	return ok
}

// Label returns the display label for id, falling back to the id itself.
func (c *Catalog) Label(kind Kind, id string) string {
	if e, ok := c.Lookup(kind, id); ok {
		return e.Label
	}
	return id
}

// Validate checks that every entry has an id and a label and that ids are
// unique within their section.
func (c *Catalog) Validate() error {
	if len(c.Symptoms) == 0 {
		return fmt.Errorf("catalog has no symptoms")
	}
	for _, kind := range []Kind{KindSymptom, KindAllergy} {
		seen := make(map[string]bool)
		for i, e := range c.Entries(kind) {
			if strings.TrimSpace(e.ID) == "" {
				return fmt.Errorf("%s entry %d: id is required", kind, i)
			}
			if strings.TrimSpace(e.Label) == "" {
				return fmt.Errorf("%s %q: label is required", kind, e.ID)
			}
			if seen[e.ID] {
				return fmt.Errorf("%s %q: duplicate id", kind, e.ID)
			}
			seen[e.ID] = true
		}
	}
	return nil
}

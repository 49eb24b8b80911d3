package catalog

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
)

// FileSource reads a catalog from a YAML, JSON or TOML file. The file has a
// top-level "symptoms" and "allergies" list of {id, label} objects.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Load(_ context.Context) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(s.path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read catalog file %s: %w", s.path, err)
	}

	c := &Catalog{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("decode catalog file %s: %w", s.path, err)
	}
	if c.Allergies == nil {
		c.Allergies = []Entry{}
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", s.path, err)
	}
	return c, nil
}

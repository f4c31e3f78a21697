package report

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter renders reports as YAML.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Name returns the formatter name.
func (f *YAMLFormatter) Name() string {
	return "yaml"
}

// FormatIndex renders an index report as YAML.
func (f *YAMLFormatter) FormatIndex(r *IndexReport) ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML; %w", err)
	}
	return data, nil
}

// FormatEntries renders an entry listing as YAML.
func (f *YAMLFormatter) FormatEntries(rows []EntryRow) ([]byte, error) {
	data, err := yaml.Marshal(entryList{Entries: rows})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML; %w", err)
	}
	return data, nil
}

// entryList wraps rows for formats that need a top-level table.
type entryList struct {
	Entries []EntryRow `yaml:"entries" toml:"entries"`
}

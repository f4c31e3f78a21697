package report

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// TOMLFormatter renders reports as TOML.
type TOMLFormatter struct{}

// NewTOMLFormatter creates a new TOML formatter.
func NewTOMLFormatter() *TOMLFormatter {
	return &TOMLFormatter{}
}

// Name returns the formatter name.
func (f *TOMLFormatter) Name() string {
	return "toml"
}

// FormatIndex renders an index report as TOML.
func (f *TOMLFormatter) FormatIndex(r *IndexReport) ([]byte, error) {
	data, err := toml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal TOML; %w", err)
	}
	return data, nil
}

// FormatEntries renders an entry listing as TOML.
func (f *TOMLFormatter) FormatEntries(rows []EntryRow) ([]byte, error) {
	data, err := toml.Marshal(entryList{Entries: rows})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal TOML; %w", err)
	}
	return data, nil
}

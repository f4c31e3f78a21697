package report

import (
	"encoding/json"
	"fmt"
)

// JSONFormatter renders reports as indented JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the formatter name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// FormatIndex renders an index report as JSON.
func (f *JSONFormatter) FormatIndex(r *IndexReport) ([]byte, error) {
	return marshalJSON(r)
}

// FormatEntries renders an entry listing as JSON.
func (f *JSONFormatter) FormatEntries(rows []EntryRow) ([]byte, error) {
	if rows == nil {
		rows = []EntryRow{}
	}
	return marshalJSON(rows)
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON; %w", err)
	}
	return append(data, '\n'), nil
}

package report

import (
	"fmt"
	"slices"
	"strings"
)

// Formatter renders reports in one output format.
type Formatter interface {
	// Name returns the format name used by --format.
	Name() string

	// FormatIndex renders an index report.
	FormatIndex(r *IndexReport) ([]byte, error)

	// FormatEntries renders an entry listing.
	FormatEntries(rows []EntryRow) ([]byte, error)
}

var formatters = map[string]Formatter{
	"table": NewTableFormatter(),
	"json":  NewJSONFormatter(),
	"yaml":  NewYAMLFormatter(),
	"toml":  NewTOMLFormatter(),
}

// Get returns the formatter registered under name.
func Get(name string) (Formatter, error) {
	f, ok := formatters[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown format %q; expected one of %s", name, strings.Join(Names(), ", "))
	}
	return f, nil
}

// Names returns the registered format names in sorted order.
func Names() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

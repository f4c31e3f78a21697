// Package document provides the structured form of a diary entry: an
// ordered mapping from flattened category path to content.
package document

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// LineDelimiter joins consecutive content lines under one path.
const LineDelimiter = "\n"

// Document maps category paths to content in first-insertion order.
// The zero value is an empty document ready to use.
type Document struct {
	entries *orderedmap.OrderedMap[string, string]
}

// New returns an empty document.
func New() *Document {
	return &Document{entries: orderedmap.New[string, string]()}
}

// FromPairs builds a document from alternating path, content arguments.
// It panics on an odd argument count and is intended for literals in tests
// and fixtures.
func FromPairs(kv ...string) *Document {
	if len(kv)%2 != 0 {
		panic("document.FromPairs: odd number of arguments")
	}
	d := New()
	for i := 0; i < len(kv); i += 2 {
		d.Set(kv[i], kv[i+1])
	}
	return d
}

func (d *Document) init() {
	if d.entries == nil {
		d.entries = orderedmap.New[string, string]()
	}
}

// Len returns the number of paths with content.
func (d *Document) Len() int {
	if d == nil || d.entries == nil {
		return 0
	}
	return d.entries.Len()
}

// Get returns the content stored under path.
func (d *Document) Get(path string) (string, bool) {
	if d == nil || d.entries == nil {
		return "", false
	}
	return d.entries.Get(path)
}

// Set stores content under path. A new path is placed last; an existing
// path keeps its position.
func (d *Document) Set(path, content string) {
	d.init()
	d.entries.Set(path, content)
}

// Append adds a line to the content under path, creating the entry on
// first use. Lines are joined with LineDelimiter.
func (d *Document) Append(path, line string) {
	d.init()
	if existing, ok := d.entries.Get(path); ok {
		d.entries.Set(path, existing+LineDelimiter+line)
		return
	}
	d.entries.Set(path, line)
}

// Delete removes path and reports whether it was present.
func (d *Document) Delete(path string) bool {
	if d == nil || d.entries == nil {
		return false
	}
	_, ok := d.entries.Delete(path)
	return ok
}

// Paths returns the paths in document order.
func (d *Document) Paths() []string {
	paths := make([]string, 0, d.Len())
	d.Range(func(path, _ string) bool {
		paths = append(paths, path)
		return true
	})
	return paths
}

// Range calls fn for every entry in order until fn returns false.
func (d *Document) Range(fn func(path, content string) bool) {
	if d == nil || d.entries == nil {
		return
	}
	for pair := d.entries.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Clone returns an independent copy.
func (d *Document) Clone() *Document {
	c := New()
	d.Range(func(path, content string) bool {
		c.Set(path, content)
		return true
	})
	return c
}

// Equal reports whether both documents hold the same entries in the same
// order.
func (d *Document) Equal(other *Document) bool {
	if d.Len() != other.Len() {
		return false
	}
	a, b := d.Paths(), other.Paths()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
		av, _ := d.Get(a[i])
		bv, _ := other.Get(b[i])
		if av != bv {
			return false
		}
	}
	return true
}

// String renders the document for debugging.
func (d *Document) String() string {
	data, err := d.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("document(%d entries)", d.Len())
	}
	return string(data)
}

// MarshalJSON encodes the document as a JSON object in document order.
func (d *Document) MarshalJSON() ([]byte, error) {
	if d == nil || d.entries == nil {
		return []byte("{}"), nil
	}
	return d.entries.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (d *Document) UnmarshalJSON(data []byte) error {
	d.entries = orderedmap.New[string, string]()
	if err := d.entries.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("failed to decode document; %w", err)
	}
	return nil
}

// Decode parses a JSON-encoded document.
func Decode(data []byte) (*Document, error) {
	d := New()
	if err := json.Unmarshal(data, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Encode returns the JSON encoding of d.
func Encode(d *Document) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document; %w", err)
	}
	return data, nil
}

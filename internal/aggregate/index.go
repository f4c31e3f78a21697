// Package aggregate maintains per-category, per-file content sizes across
// every stored diary entry.
//
// The index is flat: every category path (and each of its ancestors) is an
// independent key, and a file's contribution to a leaf is counted once at
// every ancestor level when the file is added. Queries are prefix matches
// over those keys.
//
// An Index is not safe for concurrent use. AddFile and RemoveFile are
// multi-step walks and must run under a lock held by the caller.
package aggregate

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/leefowlercu/diary/internal/document"
)

// ErrInvariantViolated is returned by CheckInvariants.
var ErrInvariantViolated = errors.New("aggregation index invariant violated")

// Index tracks how much content every file contributes to every category.
type Index struct {
	sep string

	// categories maps a category path to the cumulative size each file
	// contributes to it and all of its descendants.
	categories map[string]map[string]int

	// files maps a filename to its total content size.
	files map[string]int

	// contributions maps a filename to the size of each path it holds
	// content under (not cumulative).
	contributions map[string]map[string]int

	total int
}

// New creates an empty index for paths joined with sep. An empty sep falls
// back to document.DefaultSeparator.
func New(sep string) *Index {
	if sep == "" {
		sep = document.DefaultSeparator
	}
	return &Index{
		sep:           sep,
		categories:    make(map[string]map[string]int),
		files:         make(map[string]int),
		contributions: make(map[string]map[string]int),
	}
}

// Separator returns the path separator.
func (ix *Index) Separator() string {
	return ix.sep
}

// ContentSize returns the size counted for a piece of content, in Unicode
// code points.
func ContentSize(content string) int {
	return utf8.RuneCountInString(content)
}

// AddFile records the contributions of doc under filename, replacing any
// earlier contribution of the same file. An empty document leaves the file
// absent from the index.
func (ix *Index) AddFile(filename string, doc *document.Document) {
	ix.RemoveFile(filename)

	if doc == nil || doc.Len() == 0 {
		return
	}

	own := make(map[string]int, doc.Len())
	fileTotal := 0

	doc.Range(func(path, content string) bool {
		size := ContentSize(content)
		key := ix.normalize(path)

		own[key] += size
		fileTotal += size

		for _, prefix := range ix.prefixes(key) {
			files, ok := ix.categories[prefix]
			if !ok {
				files = make(map[string]int)
				ix.categories[prefix] = files
			}
			files[filename] += size
		}
		return true
	})

	ix.files[filename] = fileTotal
	ix.contributions[filename] = own
	ix.total += fileTotal
}

// RemoveFile drops every contribution of filename. Unknown files are
// ignored.
func (ix *Index) RemoveFile(filename string) {
	size, ok := ix.files[filename]
	if !ok {
		return
	}

	ix.total -= size
	delete(ix.files, filename)
	delete(ix.contributions, filename)

	for path, files := range ix.categories {
		if _, ok := files[filename]; !ok {
			continue
		}
		delete(files, filename)
		if len(files) == 0 {
			delete(ix.categories, path)
		}
	}
}

// Contains reports whether path is the default path or a prefix of some
// stored category path.
func (ix *Index) Contains(path string) bool {
	if document.IsDefaultPath(path, ix.sep) {
		return true
	}
	key := ix.normalize(path)
	if _, ok := ix.categories[key]; ok {
		return true
	}
	for stored := range ix.categories {
		if strings.HasPrefix(stored, key) {
			return true
		}
	}
	return false
}

// Has reports whether path is itself a stored category node.
func (ix *Index) Has(path string) bool {
	_, ok := ix.categories[ix.normalize(path)]
	return ok
}

// SizeOf returns the total size of path and its descendants, or 0 when the
// path is not stored. The default path holds only uncategorised content.
func (ix *Index) SizeOf(path string) int {
	size := 0
	for _, s := range ix.categories[ix.normalize(path)] {
		size += s
	}
	return size
}

// FilesUnder returns the size each file contributes to path and its
// descendants.
func (ix *Index) FilesUnder(path string) map[string]int {
	files := ix.categories[ix.normalize(path)]
	if files == nil {
		return map[string]int{}
	}
	return maps.Clone(files)
}

// TotalSize returns the size of all content in the index.
func (ix *Index) TotalSize() int {
	return ix.total
}

// FileSize returns the total size recorded for filename.
func (ix *Index) FileSize(filename string) (int, bool) {
	size, ok := ix.files[filename]
	return size, ok
}

// Files returns every indexed filename with its total size.
func (ix *Index) Files() map[string]int {
	return maps.Clone(ix.files)
}

// FileNames returns the indexed filenames in sorted order.
func (ix *Index) FileNames() []string {
	return slices.Sorted(maps.Keys(ix.files))
}

// Contributions returns the size filename holds directly under each path.
func (ix *Index) Contributions(filename string) map[string]int {
	own := ix.contributions[filename]
	if own == nil {
		return map[string]int{}
	}
	return maps.Clone(own)
}

// Children returns the sorted names of the immediate subcategories of path.
// The default path lists the top-level categories.
func (ix *Index) Children(path string) []string {
	var prefix string
	if !document.IsDefaultPath(path, ix.sep) {
		prefix = ix.normalize(path)
	}

	seen := make(map[string]struct{})
	for stored := range ix.categories {
		if stored == ix.sep || !strings.HasPrefix(stored, prefix) {
			continue
		}
		rest := stored[len(prefix):]
		if rest == "" {
			continue
		}
		name, _, _ := strings.Cut(rest, ix.sep)
		seen[name] = struct{}{}
	}

	return slices.Sorted(maps.Keys(seen))
}

// Paths returns every stored category path in sorted order.
func (ix *Index) Paths() []string {
	return slices.Sorted(maps.Keys(ix.categories))
}

// Len returns the number of stored category paths.
func (ix *Index) Len() int {
	return len(ix.categories)
}

// CheckInvariants verifies that the totals agree with the recorded
// contributions and that no empty category survived.
func (ix *Index) CheckInvariants() error {
	var errs []error

	sum := 0
	for filename, size := range ix.files {
		sum += size

		own := 0
		for _, s := range ix.contributions[filename] {
			own += s
		}
		if own != size {
			errs = append(errs, fmt.Errorf("%w: file %q total %d, contributions sum to %d",
				ErrInvariantViolated, filename, size, own))
		}
	}
	if sum != ix.total {
		errs = append(errs, fmt.Errorf("%w: total size %d, files sum to %d",
			ErrInvariantViolated, ix.total, sum))
	}

	want := make(map[string]map[string]int)
	for filename, own := range ix.contributions {
		for path, size := range own {
			for _, prefix := range ix.prefixes(path) {
				if want[prefix] == nil {
					want[prefix] = make(map[string]int)
				}
				want[prefix][filename] += size
			}
		}
	}

	for path, files := range ix.categories {
		if len(files) == 0 {
			errs = append(errs, fmt.Errorf("%w: category %q has no files", ErrInvariantViolated, path))
			continue
		}
		if !maps.Equal(files, want[path]) {
			errs = append(errs, fmt.Errorf("%w: category %q records %v, contributions give %v",
				ErrInvariantViolated, path, files, want[path]))
		}
	}
	for path := range want {
		if _, ok := ix.categories[path]; !ok {
			errs = append(errs, fmt.Errorf("%w: category %q missing", ErrInvariantViolated, path))
		}
	}

	return errors.Join(errs...)
}

// normalize returns the stored key for path.
func (ix *Index) normalize(path string) string {
	if document.IsDefaultPath(path, ix.sep) {
		return document.DefaultPath(ix.sep)
	}
	return document.NormalizePath(path, ix.sep)
}

// prefixes returns every ancestor key of a normalized path, shortest first,
// ending with the path itself.
func (ix *Index) prefixes(key string) []string {
	segments := document.SplitPath(key, ix.sep)
	if len(segments) == 0 {
		return []string{document.DefaultPath(ix.sep)}
	}
	out := make([]string, 0, len(segments))
	for i := 1; i <= len(segments); i++ {
		out = append(out, document.JoinPath(segments[:i], ix.sep))
	}
	return out
}

// Package textformat describes the bracketed section markers used by the
// diary text format and recognises them in individual lines.
package textformat

import "strings"

// MaxBoundedDepth is the deepest level reachable when the subcategory
// delimiters are unrelated to the category delimiters.
const MaxBoundedDepth = 2

// MaxSensibleDepth is the deepest level CheckLine will look for when the
// delimiters nest without limit.
const MaxSensibleDepth = 20

// DepthMode reports how deep markers may nest.
type DepthMode int

const (
	// Bounded allows categories and subcategories only.
	Bounded DepthMode = iota

	// Unbounded allows any depth, each level wrapping the previous one.
	Unbounded
)

// String returns the mode name.
func (m DepthMode) String() string {
	switch m {
	case Bounded:
		return "bounded"
	case Unbounded:
		return "unbounded"
	default:
		return "unknown"
	}
}

// Delimiters holds the literal marker strings for depths one and two.
type Delimiters struct {
	CategoryPrefix    string
	CategorySuffix    string
	SubcategoryPrefix string
	SubcategorySuffix string
}

// DefaultDelimiters returns the delimiters a fresh diary uses.
func DefaultDelimiters() Delimiters {
	return Delimiters{
		CategoryPrefix:    "[",
		CategorySuffix:    "]",
		SubcategoryPrefix: "[[",
		SubcategorySuffix: "]]",
	}
}

// extension is the pair of fragments wrapped around a delimiter once per
// additional level of depth.
type extension struct {
	left  string
	right string
}

// Analyser answers questions about a particular marker format.
type Analyser struct {
	delims Delimiters
	mode   DepthMode

	prefixExt extension
	suffixExt extension
}

// New creates an Analyser for the given delimiters.
func New(d Delimiters) *Analyser {
	a := &Analyser{delims: d, mode: Bounded}

	prefixExt, prefixOK := nestingExtension(d.CategoryPrefix, d.SubcategoryPrefix)
	suffixExt, suffixOK := nestingExtension(d.CategorySuffix, d.SubcategorySuffix)

	// Both sides must nest; a single nesting side still caps depth at two.
	if !prefixOK || !suffixOK {
		return a
	}

	// Identical delimiters at both depths give no way to tell levels apart.
	if prefixExt.left == "" && prefixExt.right == "" && suffixExt.left == "" && suffixExt.right == "" {
		return a
	}

	a.mode = Unbounded
	a.prefixExt = prefixExt
	a.suffixExt = suffixExt
	return a
}

// nestingExtension reports whether iterated is initial wrapped in some
// fragments, and returns those fragments. The last occurrence of initial
// is used, so "[[" over "[" yields ("[", "").
func nestingExtension(initial, iterated string) (extension, bool) {
	idx := strings.LastIndex(iterated, initial)
	if idx < 0 {
		return extension{}, false
	}
	return extension{
		left:  iterated[:idx],
		right: iterated[idx+len(initial):],
	}, true
}

// Delimiters returns the delimiters the analyser was built from.
func (a *Analyser) Delimiters() Delimiters {
	return a.delims
}

// Mode returns the derived depth mode.
func (a *Analyser) Mode() DepthMode {
	return a.mode
}

// MaxDepth returns the deepest level CheckLine recognises.
func (a *Analyser) MaxDepth() int {
	if a.mode == Unbounded {
		return MaxSensibleDepth
	}
	return MaxBoundedDepth
}

// GetLevel returns the prefix and suffix of a marker at depth n (1 is a
// top-level category).
func (a *Analyser) GetLevel(n int) (prefix, suffix string, err error) {
	if n < 1 {
		return "", "", &UnsupportedDepthError{Depth: n, Max: a.maxLevel()}
	}

	if a.mode == Unbounded {
		wraps := n - 1
		prefix = strings.Repeat(a.prefixExt.left, wraps) + a.delims.CategoryPrefix + strings.Repeat(a.prefixExt.right, wraps)
		suffix = strings.Repeat(a.suffixExt.left, wraps) + a.delims.CategorySuffix + strings.Repeat(a.suffixExt.right, wraps)
		return prefix, suffix, nil
	}

	switch n {
	case 1:
		return a.delims.CategoryPrefix, a.delims.CategorySuffix, nil
	case 2:
		return a.delims.SubcategoryPrefix, a.delims.SubcategorySuffix, nil
	default:
		return "", "", &UnsupportedDepthError{Depth: n, Max: MaxBoundedDepth}
	}
}

// maxLevel is the bound reported in depth errors; zero means unlimited.
func (a *Analyser) maxLevel() int {
	if a.mode == Unbounded {
		return 0
	}
	return MaxBoundedDepth
}

// CheckLine reports whether the whole line is a marker. It returns the
// depth and name of the deepest matching marker, or (0, "") when the line
// is content.
func (a *Analyser) CheckLine(line string) (depth int, name string) {
	if a.mode == Unbounded {
		// Every deeper marker wraps the depth-one delimiters, though not
		// necessarily at the line's ends.
		if !strings.Contains(line, a.delims.CategoryPrefix) || !strings.Contains(line, a.delims.CategorySuffix) {
			return 0, ""
		}
	}

	for level := 1; level <= a.MaxDepth(); level++ {
		prefix, suffix, err := a.GetLevel(level)
		if err != nil {
			break
		}
		if len(prefix)+len(suffix) > len(line) {
			if a.mode == Unbounded {
				break
			}
			continue
		}
		if n, ok := match(line, prefix, suffix); ok {
			depth, name = level, n
		}
	}
	return depth, name
}

// match reports whether line is exactly prefix + name + suffix.
func match(line, prefix, suffix string) (string, bool) {
	if len(prefix)+len(suffix) > len(line) {
		return "", false
	}
	if !strings.HasPrefix(line, prefix) || !strings.HasSuffix(line, suffix) {
		return "", false
	}
	return line[len(prefix) : len(line)-len(suffix)], true
}

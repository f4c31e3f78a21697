package converter

import (
	"errors"
	"fmt"
)

// ErrNonConformingFormat is returned by strict parsing when text does not
// follow the diary format.
var ErrNonConformingFormat = errors.New("text does not conform to the diary format")

// ErrMisplacedDefaultContent is returned when a document holds default-path
// content after a categorised entry; the text format can only express
// uncategorised content before the first marker.
var ErrMisplacedDefaultContent = errors.New("default path content must precede all categories")

// ErrEmptyCategoryName is returned when a document path has a category
// name that no marker can express.
var ErrEmptyCategoryName = errors.New("category name is empty")

// Reasons reported by NonConformingFormatError.
const (
	ReasonContentBeforeCategory = "content appears before any category"
	ReasonDuplicateCategory     = "category declared more than once"
	ReasonSkippedDepth          = "category is nested more than one level below its parent"
	ReasonEmptyCategoryName     = "category marker has no name"
)

// NonConformingFormatError identifies the offending line.
type NonConformingFormatError struct {
	Line   int
	Text   string
	Reason string
}

func (e *NonConformingFormatError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Is reports whether target is ErrNonConformingFormat.
func (e *NonConformingFormatError) Is(target error) bool {
	return target == ErrNonConformingFormat
}

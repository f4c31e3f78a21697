package textformat

import (
	"errors"
	"fmt"
)

// ErrUnsupportedDepth is returned when a marker is requested for a depth
// the format cannot represent.
var ErrUnsupportedDepth = errors.New("unsupported category depth")

// UnsupportedDepthError carries the offending depth.
type UnsupportedDepthError struct {
	Depth int
	// Max is the deepest supported level, or 0 when any positive depth is valid.
	Max int
}

func (e *UnsupportedDepthError) Error() string {
	if e.Max == 0 {
		return fmt.Sprintf("unsupported category depth %d; depth must be at least 1", e.Depth)
	}
	return fmt.Sprintf("unsupported category depth %d; format supports depths 1 to %d", e.Depth, e.Max)
}

// Is reports whether target is ErrUnsupportedDepth.
func (e *UnsupportedDepthError) Is(target error) bool {
	return target == ErrUnsupportedDepth
}

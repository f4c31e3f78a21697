// Package converter translates between the hand-editable diary text format
// and structured documents.
package converter

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/leefowlercu/diary/internal/document"
	"github.com/leefowlercu/diary/internal/textformat"
)

// Policy selects how malformed text is handled.
type Policy int

const (
	// PolicyLenient accepts any text; content before a marker goes to the
	// default path, repeated categories are merged and markers without a
	// name are kept as content.
	PolicyLenient Policy = iota

	// PolicyStrict rejects content before the first marker, a category
	// that receives content under two declarations, markers that skip a
	// depth and markers without a name.
	PolicyStrict
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case PolicyLenient:
		return "lenient"
	case PolicyStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// Options configures a Converter.
type Options struct {
	Delimiters textformat.Delimiters
	Separator  string
	Policy     Policy
}

// DefaultOptions returns the options a fresh diary uses.
func DefaultOptions() Options {
	return Options{
		Delimiters: textformat.DefaultDelimiters(),
		Separator:  document.DefaultSeparator,
		Policy:     PolicyLenient,
	}
}

// Converter parses and serializes documents for one text format.
// A Converter holds no mutable state and is safe for concurrent use.
type Converter struct {
	analyser  *textformat.Analyser
	separator string
	policy    Policy
}

// New creates a Converter. An empty separator falls back to
// document.DefaultSeparator.
func New(opts Options) *Converter {
	sep := opts.Separator
	if sep == "" {
		sep = document.DefaultSeparator
	}
	return &Converter{
		analyser:  textformat.New(opts.Delimiters),
		separator: sep,
		policy:    opts.Policy,
	}
}

// Analyser returns the marker analyser in use.
func (c *Converter) Analyser() *textformat.Analyser {
	return c.analyser
}

// Separator returns the path separator.
func (c *Converter) Separator() string {
	return c.separator
}

// Policy returns the malformed-input policy.
func (c *Converter) Policy() Policy {
	return c.policy
}

// Parse converts text into a document.
func (c *Converter) Parse(text string) (*document.Document, error) {
	return c.ParseReader(strings.NewReader(text))
}

// ParseReader converts the text read from r into a document.
func (c *Converter) ParseReader(r io.Reader) (*document.Document, error) {
	doc := document.New()

	var (
		categories []string
		key        = document.DefaultPath(c.separator)
		inCategory bool
		lineNo     int

		// reopened is the marker that declared key again after it had
		// already received content.
		reopened *NonConformingFormatError
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	scanner.Split(scanLines)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		depth, name := c.analyser.CheckLine(line)
		if depth > 0 && name == "" {
			// A nameless marker cannot be written back as a path segment.
			if c.policy == PolicyStrict {
				return nil, &NonConformingFormatError{Line: lineNo, Text: line, Reason: ReasonEmptyCategoryName}
			}
			depth = 0
		}

		if depth == 0 {
			if c.policy == PolicyStrict {
				if !inCategory {
					return nil, &NonConformingFormatError{Line: lineNo, Text: line, Reason: ReasonContentBeforeCategory}
				}
				if reopened != nil {
					return nil, reopened
				}
			}
			doc.Append(key, line)
			continue
		}

		if c.policy == PolicyStrict && depth > len(categories)+1 {
			return nil, &NonConformingFormatError{Line: lineNo, Text: line, Reason: ReasonSkippedDepth}
		}

		if depth-1 < len(categories) {
			categories = categories[:depth-1]
		}
		categories = append(categories, name)
		key = document.JoinPath(categories, c.separator)
		inCategory = true

		reopened = nil
		if _, seen := doc.Get(key); seen {
			reopened = &NonConformingFormatError{Line: lineNo, Text: line, Reason: ReasonDuplicateCategory}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read text; %w", err)
	}

	return doc, nil
}

// scanLines splits on "\n", "\r\n" and lone "\r".
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// Lone "\r" needs one more byte to rule out "\r\n".
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Serialize converts a document into text.
func (c *Converter) Serialize(doc *document.Document) (string, error) {
	var b strings.Builder
	if err := c.WriteText(&b, doc); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteText writes the text form of doc to w, one line per content line,
// without a trailing newline.
func (c *Converter) WriteText(w io.Writer, doc *document.Document) error {
	lines, err := c.lines(doc)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, strings.Join(lines, document.LineDelimiter)); err != nil {
		return fmt.Errorf("failed to write text; %w", err)
	}
	return nil
}

// Validate reports whether doc has a text form: every category name is
// non-empty, the format reaches every depth used, and default-path content
// comes before any category.
func (c *Converter) Validate(doc *document.Document) error {
	var err error
	doc.Range(func(path, _ string) bool {
		if slices.Contains(document.SplitPath(path, c.separator), "") {
			err = fmt.Errorf("%w: path %q", ErrEmptyCategoryName, path)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	_, err = c.lines(doc)
	return err
}

// lines produces the output lines for doc.
func (c *Converter) lines(doc *document.Document) ([]string, error) {
	var (
		out     []string
		stack   []string
		emitted bool
		err     error
	)

	doc.Range(func(path, content string) bool {
		segments := document.SplitPath(path, c.separator)

		if len(segments) == 0 && emitted {
			err = fmt.Errorf("%w: path %q", ErrMisplacedDefaultContent, path)
			return false
		}

		index := firstDifference(segments, stack)
		// Returning to an ancestor: its marker must be repeated, otherwise
		// the content would be read back under the deeper category.
		if index == len(segments) && len(stack) > len(segments) && index > 0 {
			index--
		}
		stack = stack[:index]

		for i := index; i < len(segments); i++ {
			stack = append(stack, segments[i])
			if segments[i] == "" {
				continue
			}
			prefix, suffix, levelErr := c.analyser.GetLevel(i + 1)
			if levelErr != nil {
				err = fmt.Errorf("failed to write category %q; %w", path, levelErr)
				return false
			}
			out = append(out, prefix+segments[i]+suffix)
			emitted = true
		}

		out = append(out, strings.Split(content, document.LineDelimiter)...)
		return true
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// firstDifference returns the index of the first position where a and b
// differ, or the shorter length when one is a prefix of the other.
func firstDifference(a, b []string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

package diary

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// DateLayout is the layout of date-based entry names.
const DateLayout = "2006_01_02"

// TextExtension is the extension of unpacked entry files.
const TextExtension = ".txt"

// EntryName returns the entry name for a date, e.g. 2024_03_15.
func EntryName(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseEntryDate reports the date a date-based entry name refers to.
func ParseEntryDate(name string) (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout, name, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// NameFromFilename returns the entry name for a file: the base name with
// its final extension removed.
func NameFromFilename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ResolveName turns user input into an entry name. "today", "yesterday"
// and YYYY-MM-DD dates map to date-based names; anything else is used
// verbatim after validation.
func ResolveName(input string, now time.Time) (string, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "today":
		return EntryName(now), nil
	case "yesterday":
		return EntryName(now.AddDate(0, 0, -1)), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", input, time.Local); err == nil {
		return EntryName(t), nil
	}

	if err := ValidateName(input); err != nil {
		return "", err
	}
	return input, nil
}

// ValidateName rejects names that would escape the workspace or be hidden
// from the watcher.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidName, name)
	case strings.ContainsFunc(name, func(r rune) bool { return r < 0x20 || r == 0x7f }):
		return fmt.Errorf("%w: %q contains control characters", ErrInvalidName, name)
	}
	return nil
}

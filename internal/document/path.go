package document

import "strings"

// DefaultSeparator joins category names into a path.
const DefaultSeparator = ";"

// DefaultPath is the path of content that precedes any category marker.
func DefaultPath(sep string) string {
	return sep
}

// IsDefaultPath reports whether path names the default path.
func IsDefaultPath(path, sep string) bool {
	return path == "" || path == sep
}

// JoinPath joins category names into a path with a trailing separator.
func JoinPath(segments []string, sep string) string {
	return strings.Join(segments, sep) + sep
}

// SplitPath splits a path into category names. A single trailing
// separator does not produce an empty final name.
func SplitPath(path, sep string) []string {
	if IsDefaultPath(path, sep) {
		return nil
	}
	path = strings.TrimSuffix(path, sep)
	return strings.Split(path, sep)
}

// NormalizePath returns path with exactly the trailing separator a stored
// path carries. "Key 2;Category" and "Key 2;Category;" are the same path.
func NormalizePath(path, sep string) string {
	if IsDefaultPath(path, sep) {
		return DefaultPath(sep)
	}
	if strings.HasSuffix(path, sep) {
		return path
	}
	return path + sep
}

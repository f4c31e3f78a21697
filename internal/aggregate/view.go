package aggregate

import (
	"github.com/leefowlercu/diary/internal/document"
)

// View is a read-only window onto the part of an Index rooted at one
// category path. Paths passed to a View are relative to its root. A View
// reads through to the index and observes later changes to it.
type View struct {
	index *Index
	root  []string
}

// View returns the sub-index rooted at path. The default path gives a view
// of the whole index.
func (ix *Index) View(path string) *View {
	return &View{index: ix, root: document.SplitPath(path, ix.sep)}
}

// Path returns the absolute path of the view's root, or the default path
// for the whole index.
func (v *View) Path() string {
	if len(v.root) == 0 {
		return document.DefaultPath(v.index.sep)
	}
	return document.JoinPath(v.root, v.index.sep)
}

// Name returns the last category name of the root, or "" for the whole
// index.
func (v *View) Name() string {
	if len(v.root) == 0 {
		return ""
	}
	return v.root[len(v.root)-1]
}

// Size returns the size of everything under the view's root.
func (v *View) Size() int {
	if len(v.root) == 0 {
		return v.index.TotalSize()
	}
	return v.index.SizeOf(v.Path())
}

// Files returns the size each file contributes under the view's root.
func (v *View) Files() map[string]int {
	if len(v.root) == 0 {
		return v.index.Files()
	}
	return v.index.FilesUnder(v.Path())
}

// Contains reports whether the relative path exists under the root.
func (v *View) Contains(rel string) bool {
	if document.IsDefaultPath(rel, v.index.sep) {
		return v.index.Contains(v.Path())
	}
	return v.index.Contains(v.abs(rel))
}

// SizeOf returns the size of the relative path and its descendants.
func (v *View) SizeOf(rel string) int {
	if document.IsDefaultPath(rel, v.index.sep) {
		return v.Size()
	}
	return v.index.SizeOf(v.abs(rel))
}

// FilesUnder returns the size each file contributes to the relative path.
func (v *View) FilesUnder(rel string) map[string]int {
	if document.IsDefaultPath(rel, v.index.sep) {
		return v.Files()
	}
	return v.index.FilesUnder(v.abs(rel))
}

// Children returns the sorted names of the immediate subcategories of the
// relative path.
func (v *View) Children(rel string) []string {
	if document.IsDefaultPath(rel, v.index.sep) {
		return v.index.Children(v.Path())
	}
	return v.index.Children(v.abs(rel))
}

// View returns a view rooted at the relative path.
func (v *View) View(rel string) *View {
	segments := append(append([]string(nil), v.root...), document.SplitPath(rel, v.index.sep)...)
	return &View{index: v.index, root: segments}
}

// Child returns the view of the immediate subcategory name. Unlike View,
// the name is always appended, so an empty name still moves one level down.
func (v *View) Child(name string) *View {
	root := make([]string, len(v.root), len(v.root)+1)
	copy(root, v.root)
	return &View{index: v.index, root: append(root, name)}
}

func (v *View) abs(rel string) string {
	segments := append(append([]string(nil), v.root...), document.SplitPath(rel, v.index.sep)...)
	return document.JoinPath(segments, v.index.sep)
}

// Package report renders the aggregation index and entry listings for the
// CLI in table, JSON, YAML and TOML form.
package report

import (
	"math"
	"slices"
	"time"

	"github.com/leefowlercu/diary/internal/aggregate"
)

// Node is one category in an index report.
type Node struct {
	Name     string  `json:"name" yaml:"name" toml:"name"`
	Path     string  `json:"path" yaml:"path" toml:"path"`
	Size     int     `json:"size" yaml:"size" toml:"size"`
	Share    float64 `json:"share" yaml:"share" toml:"share"`
	Entries  int     `json:"entries" yaml:"entries" toml:"entries"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// IndexReport summarises the index below one category path. Direct is the
// content held at the path itself rather than in a subcategory; for the
// whole index that is the uncategorised content.
type IndexReport struct {
	Path          string         `json:"path" yaml:"path" toml:"path"`
	TotalSize     int            `json:"total_size" yaml:"total_size" toml:"total_size"`
	Direct        int            `json:"direct" yaml:"direct" toml:"direct"`
	Files         map[string]int `json:"files" yaml:"files" toml:"files"`
	Categories    []*Node        `json:"categories" yaml:"categories" toml:"categories"`

	whole bool
}

// EntryRow is one line of an entry listing.
type EntryRow struct {
	Name       string    `json:"name" yaml:"name" toml:"name"`
	Size       int       `json:"size" yaml:"size" toml:"size"`
	Categories int       `json:"categories" yaml:"categories" toml:"categories"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"updated_at" toml:"updated_at"`
}

// BuildIndex walks the view and returns its report. maxDepth limits how
// many category levels are expanded; zero or less means no limit.
func BuildIndex(v *aggregate.View, maxDepth int) *IndexReport {
	r := &IndexReport{
		Path:      v.Path(),
		TotalSize: v.Size(),
		Files:     v.Files(),
		whole:     v.Name() == "",
	}
	r.Categories = buildChildren(v, r.TotalSize, 1, maxDepth)
	r.Direct = r.TotalSize
	for _, n := range r.Categories {
		r.Direct -= n.Size
	}
	return r
}

func buildChildren(v *aggregate.View, total, depth, maxDepth int) []*Node {
	names := v.Children("")
	nodes := make([]*Node, 0, len(names))
	for _, name := range names {
		child := v.Child(name)
		node := &Node{
			Name:    name,
			Path:    child.Path(),
			Size:    child.Size(),
			Share:   share(child.Size(), total),
			Entries: len(child.Files()),
		}
		if maxDepth <= 0 || depth < maxDepth {
			node.Children = buildChildren(child, total, depth+1, maxDepth)
		}
		nodes = append(nodes, node)
	}
	slices.SortStableFunc(nodes, func(a, b *Node) int { return b.Size - a.Size })
	return nodes
}

// share returns part as a percentage of total, rounded to one decimal.
func share(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)*1000/float64(total)) / 10
}

// Walk calls fn for every node in depth-first order.
func (r *IndexReport) Walk(fn func(n *Node, depth int)) {
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(r.Categories, 0)
}

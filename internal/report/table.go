package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableFormatter renders reports as bordered terminal tables.
type TableFormatter struct{}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// Name returns the formatter name.
func (f *TableFormatter) Name() string {
	return "table"
}

// FormatIndex renders an index report as an indented category table.
func (f *TableFormatter) FormatIndex(r *IndexReport) ([]byte, error) {
	var b strings.Builder

	title := "All categories"
	if !r.whole {
		title = r.Path
	}
	fmt.Fprintf(&b, "%s %s\n\n", titleStyle.Render(title),
		mutedStyle.Render(fmt.Sprintf("(%d characters in %d entries)", r.TotalSize, len(r.Files))))

	if len(r.Categories) == 0 && r.Direct == 0 {
		b.WriteString(mutedStyle.Render("No content.") + "\n")
		return []byte(b.String()), nil
	}

	var rows [][]string
	var depths []int
	r.Walk(func(n *Node, depth int) {
		rows = append(rows, []string{
			strings.Repeat("  ", depth) + n.Name,
			strconv.Itoa(n.Size),
			fmt.Sprintf("%.1f%%", n.Share),
			strconv.Itoa(n.Entries),
		})
		depths = append(depths, depth)
	})
	if r.Direct > 0 {
		label := "(uncategorised)"
		if !r.whole {
			label = "(direct)"
		}
		rows = append(rows, []string{label, strconv.Itoa(r.Direct), fmt.Sprintf("%.1f%%", share(r.Direct, r.TotalSize)), "-"})
		depths = append(depths, -1)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("CATEGORY", "SIZE", "SHARE", "ENTRIES").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col > 0:
				return numberStyle
			case depths[row] == 0:
				return topLevelStyle
			case depths[row] < 0:
				return cellStyle.Foreground(muted)
			default:
				return cellStyle
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	return []byte(b.String()), nil
}

// FormatEntries renders an entry listing as a table.
func (f *TableFormatter) FormatEntries(rows []EntryRow) ([]byte, error) {
	if len(rows) == 0 {
		return []byte(mutedStyle.Render("No entries.") + "\n"), nil
	}

	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			r.Name,
			strconv.Itoa(r.Size),
			strconv.Itoa(r.Categories),
			r.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("ENTRY", "SIZE", "CATEGORIES", "UPDATED").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1 || col == 2:
				return numberStyle
			default:
				return cellStyle
			}
		})

	return []byte(t.Render() + "\n"), nil
}

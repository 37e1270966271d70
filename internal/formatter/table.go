// Package formatter renders run summaries as aligned markdown tables.
package formatter

import (
	"strconv"
	"strings"

	"m3lsprep/internal/models"

	"github.com/mattn/go-runewidth"
)

const minColumnWidth = 3

// Alignment of a table column.
type Alignment int

// Column alignments.
const (
	AlignLeft Alignment = iota
	AlignRight
)

// Table is a markdown table whose columns are padded to equal display width.
type Table struct {
	Headers []string
	Align   []Alignment
	Rows    [][]string
}

// Render returns the table as markdown lines joined by "\n", without a trailing newline.
// Widths are measured in terminal columns so CJK and other wide text lines up.
func (t *Table) Render() string {
	colCount := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	if colCount == 0 {
		return ""
	}

	colWidths := make([]int, colCount)
	measure := func(row []string) {
		for i := 0; i < len(row) && i < colCount; i++ {
			if w := runewidth.StringWidth(row[i]); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	measure(t.Headers)

	for _, row := range t.Rows {
		measure(row)
	}

	for i := range colWidths {
		if colWidths[i] < minColumnWidth {
			colWidths[i] = minColumnWidth
		}
	}

	lines := make([]string, 0, len(t.Rows)+2)
	lines = append(lines, t.renderRow(t.Headers, colWidths))
	lines = append(lines, t.renderSeparator(colWidths))

	for _, row := range t.Rows {
		lines = append(lines, t.renderRow(row, colWidths))
	}

	return strings.Join(lines, "\n")
}

func (t *Table) alignment(col int) Alignment {
	if col < len(t.Align) {
		return t.Align[col]
	}

	return AlignLeft
}

func (t *Table) renderRow(row []string, colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		content := ""
		if j < len(row) {
			content = row[j]
		}

		padding := strings.Repeat(" ", max(width-runewidth.StringWidth(content), 0))

		sb.WriteString(" ")

		if t.alignment(j) == AlignRight {
			sb.WriteString(padding)
			sb.WriteString(content)
		} else {
			sb.WriteString(content)
			sb.WriteString(padding)
		}

		sb.WriteString(" |")
	}

	return sb.String()
}

func (t *Table) renderSeparator(colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		sb.WriteString(" ")

		if t.alignment(j) == AlignRight {
			sb.WriteString(strings.Repeat("-", width-1))
			sb.WriteString(":")
		} else {
			sb.WriteString(strings.Repeat("-", width))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}

// SummaryTable builds the per-archive summary of a run, with a closing total row.
func SummaryTable(stats *models.RunStats) *Table {
	t := &Table{
		Headers: []string{"Archive", "Source dirs", "Skipped", "Articles", "Accepted", "Filtered", "Invalid"},
		Align:   []Alignment{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight},
	}

	for _, s := range stats.Archives {
		t.Rows = append(t.Rows, statsRow(s.Source, s))
	}

	t.Rows = append(t.Rows, statsRow("TOTAL", stats.Total))

	return t
}

func statsRow(name string, s models.ArchiveStats) []string {
	return []string{
		name,
		strconv.Itoa(s.SourceDirs),
		strconv.Itoa(s.SkippedDirs),
		strconv.Itoa(s.Articles),
		strconv.Itoa(s.Accepted),
		strconv.Itoa(s.Filtered),
		strconv.Itoa(s.Invalid),
	}
}

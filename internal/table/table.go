// Package table renders simple ASCII tables with alignment support. Cell
// contents may contain ANSI color sequences; widths are computed on the
// visible text.
package table

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Alignment controls how a cell's content is padded within its column.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

// Table accumulates rows and renders them to a writer.
type Table struct {
	w          io.Writer
	header     []string
	rows       [][]string
	alignment  []Alignment
	headerAlig []Alignment
}

// NewTable creates a Table that renders to w.
func NewTable(w io.Writer) *Table {
	return &Table{w: w}
}

// WithHeader sets the header row.
func (t *Table) WithHeader(header []string) *Table {
	t.header = header
	return t
}

// WithColumnAlignment sets per-column alignment for body rows.
func (t *Table) WithColumnAlignment(alignment []Alignment) *Table {
	t.alignment = alignment
	return t
}

// WithHeaderAlignment sets per-column alignment for the header row.
func (t *Table) WithHeaderAlignment(alignment []Alignment) *Table {
	t.headerAlig = alignment
	return t
}

// WithRows replaces the body rows.
func (t *Table) WithRows(rows [][]string) *Table {
	t.rows = rows
	return t
}

// Append adds one body row.
func (t *Table) Append(row []string) *Table {
	t.rows = append(t.rows, row)
	return t
}

var ansiPattern = regexp.MustCompile("\x1b\\[[0-9;]*m")

// width returns the visible width of a cell, ignoring ANSI sequences.
func width(s string) int {
	return len([]rune(ansiPattern.ReplaceAllString(s, "")))
}

func pad(s string, w int, a Alignment) string {
	gap := w - width(s)
	if gap <= 0 {
		return s
	}
	switch a {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}

func (t *Table) columns() int {
	n := len(t.header)
	for _, row := range t.rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

func (t *Table) align(aligns []Alignment, col int) Alignment {
	if col < len(aligns) {
		return aligns[col]
	}
	return AlignLeft
}

// Render writes the table.
func (t *Table) Render() {
	cols := t.columns()
	if cols == 0 {
		return
	}
	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			if w := width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.header)
	for _, row := range t.rows {
		measure(row)
	}

	var sep strings.Builder
	for _, w := range widths {
		sep.WriteString("+")
		sep.WriteString(strings.Repeat("-", w+2))
	}
	sep.WriteString("+")

	writeRow := func(row []string, aligns []Alignment) {
		var b strings.Builder
		for i := 0; i < cols; i++ {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString("| ")
			b.WriteString(pad(cell, widths[i], t.align(aligns, i)))
			b.WriteString(" ")
		}
		b.WriteString("|")
		fmt.Fprintln(t.w, b.String())
	}

	fmt.Fprintln(t.w, sep.String())
	if len(t.header) > 0 {
		writeRow(t.header, t.headerAlig)
		fmt.Fprintln(t.w, sep.String())
	}
	for _, row := range t.rows {
		writeRow(row, t.alignment)
	}
	fmt.Fprintln(t.w, sep.String())
}

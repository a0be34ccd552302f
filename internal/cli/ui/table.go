package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

const columnGap = "  "

// Table prints rows under a header and a rule, with columns sized to their
// widest cell.
type Table struct {
	w        io.Writer
	headers  []string
	rows     [][]string
	maxWidth int
	head     *color.Color
	rule     *color.Color
}

// TableOptions configures a Table.
type TableOptions struct {
	NoColor bool
	// MaxWidth truncates longer cells. Zero leaves cells whole.
	MaxWidth int
}

// NewTable creates a table with the given headers. opts may be nil.
func NewTable(w io.Writer, headers []string, opts *TableOptions) *Table {
	if opts == nil {
		opts = &TableOptions{}
	}
	return &Table{
		w:        w,
		headers:  headers,
		maxWidth: opts.MaxWidth,
		head:     paint(opts.NoColor, color.Bold, color.FgCyan),
		rule:     paint(opts.NoColor, color.FgHiBlack),
	}
}

// AddRow appends a row. Cells past the header count are dropped when
// rendering.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(cells))
	for i, cell := range cells {
		row[i] = truncate(cell, t.maxWidth)
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of rows added so far.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table. A table without headers prints nothing.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := columnWidths(t.headers, t.rows)
	rules := make([]string, len(widths))
	for i, w := range widths {
		rules[i] = strings.Repeat("─", w)
	}

	t.head.Fprintln(t.w, alignCells(t.headers, widths))
	t.rule.Fprintln(t.w, strings.Join(rules, columnGap))
	for _, row := range t.rows {
		fmt.Fprintln(t.w, alignCells(row, widths))
	}
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], utf8.RuneCountInString(row[i]))
		}
	}
	return widths
}

// alignCells pads every cell to its column width and drops the trailing
// padding of the last one.
func alignCells(cells []string, widths []int) string {
	if len(cells) > len(widths) {
		cells = cells[:len(widths)]
	}
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = padRight(cell, widths[i])
	}
	return strings.TrimRight(strings.Join(padded, columnGap), " ")
}

func padRight(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-1]) + "…"
}

// KeyValueTable prints "key: value" lines with the values aligned.
type KeyValueTable struct {
	w     io.Writer
	keys  []string
	vals  []string
	label *color.Color
}

// NewKeyValueTable creates an empty key-value table.
func NewKeyValueTable(w io.Writer, noColor bool) *KeyValueTable {
	return &KeyValueTable{w: w, label: paint(noColor, color.FgCyan)}
}

// AddRow appends a key and its value.
func (t *KeyValueTable) AddRow(key, value string) {
	t.keys = append(t.keys, key)
	t.vals = append(t.vals, value)
}

// Render writes the rows.
func (t *KeyValueTable) Render() {
	width := 0
	for _, k := range t.keys {
		width = max(width, utf8.RuneCountInString(k)+1)
	}
	for i, k := range t.keys {
		t.label.Fprint(t.w, padRight(k+":", width))
		fmt.Fprintf(t.w, " %s\n", t.vals[i])
	}
}

// Header prints title underlined to its own width.
func Header(w io.Writer, title string, noColor bool) {
	paint(noColor, color.Bold, color.FgCyan).Fprintln(w, title)
	paint(noColor, color.FgHiBlack).Fprintln(w, strings.Repeat("─", utf8.RuneCountInString(title)))
}

// paint returns a color that prints plain text when noColor is set.
func paint(noColor bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if noColor {
		c.DisableColor()
	}
	return c
}

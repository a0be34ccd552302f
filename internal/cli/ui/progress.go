package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ProgressBar redraws a single terminal line as "[███░░░] done/total message".
type ProgressBar struct {
	w       io.Writer
	width   int
	done    int
	total   int
	message string
	filled  *color.Color
	empty   *color.Color
}

// ProgressBarOptions configures a ProgressBar.
type ProgressBarOptions struct {
	Total   int
	Width   int // Default: 40
	NoColor bool
}

// NewProgressBar creates a progress bar writing to w.
func NewProgressBar(w io.Writer, opts ProgressBarOptions) *ProgressBar {
	width := opts.Width
	if width <= 0 {
		width = 40
	}
	return &ProgressBar{
		w:      w,
		width:  width,
		total:  opts.Total,
		filled: paint(opts.NoColor, color.FgCyan),
		empty:  paint(opts.NoColor, color.FgHiBlack),
	}
}

// Update moves the bar to done out of total and shows message next to it.
func (p *ProgressBar) Update(done, total int, message string) {
	p.total = total
	p.done = min(done, total)
	p.message = message
	p.draw()
}

// Finish fills the bar and ends the line.
func (p *ProgressBar) Finish() {
	p.done = p.total
	p.draw()
	fmt.Fprintln(p.w)
}

func (p *ProgressBar) draw() {
	if p.total == 0 {
		return
	}

	n := p.width * p.done / p.total
	bar := "[" + p.filled.Sprint(strings.Repeat("█", n)) + p.empty.Sprint(strings.Repeat("░", p.width-n)) + "]"

	line := fmt.Sprintf("%s %d/%d", bar, p.done, p.total)
	if p.message != "" {
		line += " " + p.message
	}
	// \033[K clears what a longer previous message left behind.
	fmt.Fprintf(p.w, "\r%s\033[K", line)
}

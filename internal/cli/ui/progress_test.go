package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressBarUpdate(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, ProgressBarOptions{Width: 10, NoColor: true})

	bar.Update(1, 4, "extractors/tap-csv/meltanolabs.yml")

	output := buf.String()
	if !strings.Contains(output, "[██░░░░░░░░] 1/4 extractors/tap-csv/meltanolabs.yml") {
		t.Errorf("unexpected progress output: %q", output)
	}
	if !strings.HasPrefix(output, "\r") {
		t.Error("expected progress line to start with a carriage return")
	}
}

func TestProgressBarFinish(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, ProgressBarOptions{Total: 2, Width: 4, NoColor: true})

	bar.Finish()

	output := buf.String()
	if !strings.Contains(output, "[████] 2/2") {
		t.Errorf("expected a full bar, got: %q", output)
	}
	if !strings.HasSuffix(output, "\n") {
		t.Error("expected Finish to end the line")
	}
}

func TestProgressBarZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, ProgressBarOptions{NoColor: true})

	bar.Update(0, 0, "nothing")

	if buf.Len() != 0 {
		t.Errorf("expected no output for zero total, got: %q", buf.String())
	}
}

func TestProgressBarCurrentExceedsTotal(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, ProgressBarOptions{Width: 4, NoColor: true})

	bar.Update(5, 3, "")

	if bar.done != 3 {
		t.Errorf("expected done to be capped at 3, got %d", bar.done)
	}
	if !strings.Contains(buf.String(), "3/3") {
		t.Errorf("expected capped count, got: %q", buf.String())
	}
}

func TestProgressBarDefaultWidth(t *testing.T) {
	bar := NewProgressBar(&bytes.Buffer{}, ProgressBarOptions{})
	if bar.width != 40 {
		t.Errorf("expected default width 40, got %d", bar.width)
	}
}

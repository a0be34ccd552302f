package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

type severity int

const (
	severityError severity = iota
	severityWarning
	severityInfo
)

// notice is a message rendered for the terminal: a headline, an optional
// detail line, "Did you mean" candidates and follow-up commands.
type notice struct {
	severity severity
	title    string
	text     string
	detail   string
	similar  []string
	next     []string
}

// render lays a notice out as
//
//	❌ INVALID PLUGIN PATH: Cannot parse plugin path 'extractor/tap-csv/x'.
//
//	   Plugin paths look like extractors/tap-csv/meltanolabs.
//
//	   Did you mean: extractors?
//
//	   → Get help: hubctl update-sdk --help
func (n notice) render(noColor bool) string {
	attrs, symbol := []color.Attribute{color.FgRed, color.Bold}, "❌"
	switch n.severity {
	case severityWarning:
		attrs, symbol = []color.Attribute{color.FgYellow, color.Bold}, "⚠️"
	case severityInfo:
		attrs, symbol = []color.Attribute{color.FgCyan, color.Bold}, "ℹ️"
	}
	head := paint(noColor, attrs...)
	hint := paint(noColor, color.FgYellow)
	cmd := paint(noColor, color.FgCyan)

	var b strings.Builder
	if n.title != "" {
		head.Fprintf(&b, "%s %s: %s\n", symbol, n.title, n.text)
	} else {
		head.Fprintf(&b, "%s %s\n", symbol, n.text)
	}
	if n.detail != "" {
		fmt.Fprintf(&b, "\n   %s\n", n.detail)
	}
	if len(n.similar) > 0 {
		b.WriteString("\n")
		hint.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(n.similar, ", "))
	}
	if len(n.next) > 0 {
		b.WriteString("\n")
		for _, line := range n.next {
			cmd.Fprintf(&b, "   → %s\n", line)
		}
	}
	return b.String()
}

// WriteSuccess writes a success line to w.
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, paint(noColor, color.FgGreen, color.Bold).Sprintf("✓ %s", message))
}

// InvalidPluginPathError reports a plugin path that does not name
// <type>/<name>/<variant>.
func InvalidPluginPathError(path string, suggestions []string, noColor bool) string {
	return notice{
		title:   "INVALID PLUGIN PATH",
		text:    fmt.Sprintf("Cannot parse plugin path '%s'.", path),
		detail:  "Plugin paths look like extractors/tap-csv/meltanolabs.",
		similar: suggestions,
		next:    []string{"Get help: hubctl update-sdk --help"},
	}.render(noColor)
}

// IntrospectionError reports a plugin whose about output could not be used.
func IntrospectionError(plugin, message string, noColor bool) string {
	return notice{
		title:  "INTROSPECTION FAILED",
		text:   message,
		detail: fmt.Sprintf("The definition of %s was not changed.", plugin),
		next: []string{
			"Retry with details: hubctl update-sdk " + plugin + " --log-level debug",
			"Check the executable: pipx list",
		},
	}.render(noColor)
}

// RefreshFailedError summarizes the plugins a refresh could not update.
func RefreshFailedError(failed []string, noColor bool) string {
	return notice{
		title:  "REFRESH INCOMPLETE",
		text:   fmt.Sprintf("%d plugin(s) failed to update.", len(failed)),
		detail: "Failed: " + strings.Join(failed, ", "),
		next: []string{
			"List failures: hubctl history --failed",
			"Resume from a plugin: hubctl refresh-sdk-variants --start <path>",
		},
	}.render(noColor)
}

// StartNotFoundError reports a --start path that matches no record file.
func StartNotFoundError(start string, suggestions []string, noColor bool) string {
	return notice{
		title:   "START NOT FOUND",
		text:    fmt.Sprintf("No plugin definition matches '%s'.", start),
		similar: suggestions,
		next:    []string{"Get help: hubctl refresh-sdk-variants --help"},
	}.render(noColor)
}

// ConfigError reports a configuration that could not be loaded.
func ConfigError(message string, noColor bool) string {
	return notice{
		title: "CONFIGURATION ERROR",
		text:  message,
		next:  []string{"View config: cat hubctl.yaml", "Get help: hubctl --help"},
	}.render(noColor)
}

// Warning renders a non-fatal problem, followed by what to do about it.
func Warning(message string, next []string, noColor bool) string {
	return notice{severity: severityWarning, text: message, next: next}.render(noColor)
}

// Info renders an informational line.
func Info(message string, noColor bool) string {
	return notice{severity: severityInfo, text: message}.render(noColor)
}

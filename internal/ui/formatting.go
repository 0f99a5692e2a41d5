package ui

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// FormatStepTitle renders a step id as a display heading, e.g. "setup_env"
// becomes "Step Setup Env"
func FormatStepTitle(stepID string) string {
	display := titleCaser.String(strings.ReplaceAll(stepID, "_", " "))
	return BoldStyle.Render(fmt.Sprintf("Step %s", display))
}

// FormatCompleteness renders the completeness verdict of a retrieval session
func FormatCompleteness(complete bool) string {
	if complete {
		return GreenStyle.Render("Log is complete")
	}
	return WarningStyle.Render("Log may be missing recent lines")
}

// FormatSize renders a byte count in human-readable units
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatError formats an error message with styling
// NOTE: Adds a new line manually. Use strings.TrimSpace if you want to strip it.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	// Append a new line because the last line printed when a bubbletea program
	// exits appears to be overwritten in some terminals.
	// Issue here: https://github.com/charmbracelet/bubbletea/issues/304
	return ErrorStyle.Render(fmt.Sprintf("✗ Error: %s", err.Error())) + "\n"
}

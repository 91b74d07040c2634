// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lessonkit/lessonkit/internal/app/selection"
)

// Color palette shared by all CLI output.
const (
	// ColorPrimary is purple, used for titles and the course banner.
	ColorPrimary = lipgloss.Color("#7C3AED")
	// ColorMuted is gray, used for secondary text.
	ColorMuted = lipgloss.Color("#6B7280")
	// ColorSuccess is green, used for completed lessons.
	ColorSuccess = lipgloss.Color("#10B981")
	// ColorError is red, used for errors and unknown selections.
	ColorError = lipgloss.Color("#EF4444")
	// ColorWarning is amber, used for warnings.
	ColorWarning = lipgloss.Color("#F59E0B")
	// ColorHighlight is blue, used for menu numbers and config keys.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// KeyStyle is for menu indices and config keys.
	KeyStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)
)

// selectionStyles maps the palette onto the lesson menu. Plain styles are
// used when output is not a terminal so transcripts stay free of escapes.
func selectionStyles(color bool) *selection.Styles {
	if !color {
		s := selection.PlainStyles()
		return &s
	}
	return &selection.Styles{
		Banner:  TitleStyle,
		Index:   KeyStyle,
		Error:   ErrorStyle,
		Success: SuccessStyle,
	}
}

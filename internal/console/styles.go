// SPDX-License-Identifier: MPL-2.0

package console

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all CLI output.
const (
	// ColorPrimary is purple - titles and group headers.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray - secondary text.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is green.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber - highlights and warnings.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue - module names and informational display.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for section titles such as help group headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for de-emphasized text.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for positive outcomes.
	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess)

	// ErrorStyle is for failures.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warnings and highlighted messages.
	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWarning)

	// CmdStyle is for module names.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// DisplayStyle is for regular informational messages.
	DisplayStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHighlight)
)

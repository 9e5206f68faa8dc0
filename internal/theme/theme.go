// Package theme provides centralized styling for runwatch output.
package theme

import "github.com/charmbracelet/lipgloss"

// Colors defines the color palette for the application
type Colors struct {
	Primary lipgloss.Color // Headers, prompts
	Accent  lipgloss.Color // Queued runs

	Text      lipgloss.Color
	TextDim   lipgloss.Color
	TextMuted lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color
}

// Theme contains all styling for the application
type Theme struct {
	Colors Colors

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Text      lipgloss.Style
	TextDim   lipgloss.Style
	TextMuted lipgloss.Style
	Link      lipgloss.Style

	// Status styles
	StatusSuccess    lipgloss.Style
	StatusWarning    lipgloss.Style
	StatusError      lipgloss.Style
	StatusInProgress lipgloss.Style
	StatusQueued     lipgloss.Style
	StatusUnknown    lipgloss.Style

	Icons IconSet
}

// IconSet defines the icons used in messages
type IconSet struct {
	Success string
	Error   string
	Warning string
	Info    string
	Step    string
}

// DefaultColors returns the default color palette
func DefaultColors() Colors {
	return Colors{
		Primary: lipgloss.Color("39"),  // Bright blue
		Accent:  lipgloss.Color("51"),  // Cyan

		Text:      lipgloss.Color("252"),
		TextDim:   lipgloss.Color("245"),
		TextMuted: lipgloss.Color("240"),

		Success: lipgloss.Color("42"),  // Green
		Warning: lipgloss.Color("214"), // Orange/yellow
		Error:   lipgloss.Color("196"), // Red
		Info:    lipgloss.Color("33"),  // Blue
	}
}

// DefaultIcons returns the default icon set
func DefaultIcons() IconSet {
	return IconSet{
		Success: "✓",
		Error:   "✗",
		Warning: "⚠",
		Info:    "●",
		Step:    "◇",
	}
}

// Default returns the default theme
func Default() *Theme {
	colors := DefaultColors()

	return &Theme{
		Colors: colors,
		Icons:  DefaultIcons(),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Text),

		Label: lipgloss.NewStyle().
			Foreground(colors.TextDim),

		Text: lipgloss.NewStyle().
			Foreground(colors.Text),

		TextDim: lipgloss.NewStyle().
			Foreground(colors.TextDim),

		TextMuted: lipgloss.NewStyle().
			Foreground(colors.TextMuted),

		Link: lipgloss.NewStyle().
			Foreground(colors.Primary).
			Underline(true),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(colors.Success),

		StatusWarning: lipgloss.NewStyle().
			Foreground(colors.Warning),

		StatusError: lipgloss.NewStyle().
			Foreground(colors.Error),

		StatusInProgress: lipgloss.NewStyle().
			Foreground(colors.Info),

		StatusQueued: lipgloss.NewStyle().
			Foreground(colors.Accent),

		StatusUnknown: lipgloss.NewStyle().
			Foreground(colors.TextMuted),
	}
}

// StatusLabel returns the human-readable label and style for a run status.
// The conclusion only matters once the run has completed.
func (t *Theme) StatusLabel(status, conclusion string) (string, lipgloss.Style) {
	switch status {
	case "completed":
		switch conclusion {
		case "success":
			return "Completed Successfully", t.StatusSuccess
		case "failure":
			return "Failed", t.StatusError
		default:
			return "Canceled/Other", t.StatusWarning
		}
	case "in_progress":
		return "In Progress", t.StatusInProgress
	case "queued":
		return "Queued", t.StatusQueued
	default:
		return "Unknown", t.StatusUnknown
	}
}

// FormatStatus renders the styled status label
func (t *Theme) FormatStatus(status, conclusion string) string {
	label, style := t.StatusLabel(status, conclusion)
	return style.Render(label)
}

// Success renders a success message with its icon
func (t *Theme) Success(msg string) string {
	return t.StatusSuccess.Render(t.Icons.Success + " " + msg)
}

// Error renders an error message with its icon
func (t *Theme) Error(msg string) string {
	return t.StatusError.Render(t.Icons.Error + " " + msg)
}

// Warn renders a warning message with its icon
func (t *Theme) Warn(msg string) string {
	return t.StatusWarning.Render(t.Icons.Warning + " " + msg)
}

// Info renders an informational message with its icon
func (t *Theme) Info(msg string) string {
	return t.StatusInProgress.Render(t.Icons.Info) + " " + t.Text.Render(msg)
}

// Step renders a list step marker followed by the given text
func (t *Theme) Step(msg string) string {
	return t.Title.Render(t.Icons.Step) + " " + t.Subtitle.Render(msg)
}

// Package console formats user-facing messages with consistent styling.
// All human-readable output (as opposed to machine-readable reports and
// DEBUG logging) goes through these helpers so that severity is visually
// distinguishable and colors degrade gracefully on non-terminals.
package console

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var colorsEnabled = term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == ""

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	verboseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
)

func render(style lipgloss.Style, prefix, message string) string {
	text := prefix + message
	if !colorsEnabled {
		return text
	}
	return style.Render(text)
}

// FormatErrorMessage formats an error message for display
func FormatErrorMessage(message string) string {
	return render(errorStyle, "✗ ", message)
}

// FormatWarningMessage formats a warning message for display
func FormatWarningMessage(message string) string {
	return render(warningStyle, "! ", message)
}

// FormatSuccessMessage formats a success message for display
func FormatSuccessMessage(message string) string {
	return render(successStyle, "✓ ", message)
}

// FormatInfoMessage formats an informational message for display
func FormatInfoMessage(message string) string {
	return render(infoStyle, "ℹ ", message)
}

// FormatProgressMessage formats a progress message for display
func FormatProgressMessage(message string) string {
	return render(infoStyle, "→ ", message)
}

// FormatVerboseMessage formats a verbose/secondary message for display
func FormatVerboseMessage(message string) string {
	return render(verboseStyle, "", message)
}

// FormatPromptMessage formats a prompt message for display
func FormatPromptMessage(message string) string {
	return render(promptStyle, "? ", message)
}

package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	colorAccent  = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	colorDone    = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"}
	colorError   = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#EF9A9A"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#9A9A9A"}
	colorCursorB = lipgloss.AdaptiveColor{Light: "#E8E7FB", Dark: "#2B2A45"}
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleMuted    = lipgloss.NewStyle().Foreground(colorMuted)
	styleDone     = lipgloss.NewStyle().Foreground(colorDone).Strikethrough(true)
	styleSelected = lipgloss.NewStyle().Background(colorCursorB).Bold(true)
	styleSuccess  = lipgloss.NewStyle().Foreground(colorDone)
	styleError    = lipgloss.NewStyle().Foreground(colorError).Bold(true)
)

// applyColorProfilePreference honors NO_COLOR and otherwise trusts
// TERM/COLORTERM when they claim more than termenv detects. CLICOLOR is
// ignored on purpose: it is meant for piped output, not a full-screen UI.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	switch {
	case profile == termenv.Ascii:
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		profile = termenv.TrueColor
	case strings.Contains(term, "256color") && profile == termenv.ANSI:
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/smmtool/smm/pkg/domain"
)

var (
	// Base styles, neutral slate palette
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60a5fa"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60a5fa")).
			Bold(true)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a0a8b8")).
				Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#60a5fa")).
				Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#1e1e2a")).
			Padding(0, 1)

	// Platform colors follow each network's brand
	platformColors = map[domain.Platform]lipgloss.Color{
		domain.PlatformMeta:     lipgloss.Color("#3b82f6"),
		domain.PlatformTikTok:   lipgloss.Color("#e4e4ec"),
		domain.PlatformSnapchat: lipgloss.Color("#facc15"),
	}

	platformGlyphs = map[domain.Platform]string{
		domain.PlatformMeta:     "◆",
		domain.PlatformTikTok:   "♪",
		domain.PlatformSnapchat: "●",
	}
)

// PlatformStyle returns a bold style colored for the given platform.
func PlatformStyle(p domain.Platform) lipgloss.Style {
	if c, ok := platformColors[p]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")).Bold(true)
}

// PlatformBadge renders a platform as a colored glyph and name, e.g. "◆ Meta".
func PlatformBadge(p domain.Platform) string {
	if p == "" {
		return ""
	}
	glyph, ok := platformGlyphs[p]
	if !ok {
		glyph = "·"
	}
	return PlatformStyle(p).Render(glyph + " " + string(p))
}

// renderBar draws a horizontal bar of value scaled against maxValue.
func renderBar(value, maxValue float64, width int, style lipgloss.Style) string {
	if width < 1 {
		width = 1
	}
	n := 0
	if maxValue > 0 && value > 0 {
		n = int(value / maxValue * float64(width))
		if n == 0 {
			n = 1
		}
		if n > width {
			n = width
		}
	}
	return style.Render(strings.Repeat("█", n)) + metaStyle.Render(strings.Repeat("·", width-n))
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpLine joins help entries given as key, label pairs.
func helpLine(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, helpEntry(pairs[i], pairs[i+1]))
	}
	return " " + strings.Join(parts, "  ")
}

// centerLine pads s so it sits in the middle of width columns.
func centerLine(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

// statusText renders a status message, red when it reports a failure.
func statusText(msg string, failed bool) string {
	if msg == "" {
		return ""
	}
	if failed {
		return errorStyle.Render(msg)
	}
	return successStyle.Render(msg)
}

func errorLine(what, reason string) string {
	return " " + errorStyle.Render(fmt.Sprintf("Error loading %s: %s", what, reason))
}

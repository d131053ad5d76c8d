// Package theme holds the terminal styles used by notifyctl.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/sitehub-notify/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
)

// HeaderStyle is used for table headers.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue)

// DimmedStyle de-emphasizes secondary text such as timestamps.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// PriorityStyle returns a color-coded style for the given priority.
func PriorityStyle(p model.Priority) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch p {
	case model.PriorityUrgent:
		return base.Foreground(ColorRed)
	case model.PriorityHigh:
		return base.Foreground(ColorOrange)
	case model.PriorityNormal:
		return base.Foreground(ColorYellow)
	case model.PriorityLow:
		return base.Foreground(ColorBlue)
	case model.PriorityInfo:
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}

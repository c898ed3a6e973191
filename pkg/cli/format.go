package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Shared terminal styles for command output.
var (
	// StyleTitle renders section headers.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

	// StyleID renders profile identifiers.
	StyleID = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	// StyleDim renders secondary details.
	StyleDim = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// StyleWarn renders degraded-state notices.
	StyleWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// FormatDuration formats a duration in coarse human units.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		m := int(d.Minutes())
		return fmt.Sprintf("%dm%.0fs", m, d.Seconds()-float64(m*60))
	}
}

// FormatBytes formats bytes to a human readable string.
func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

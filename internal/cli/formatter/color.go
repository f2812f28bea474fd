package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/insanusapp/planner/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// EventStatusIcon returns the colored status marker used in schedule rows.
func EventStatusIcon(e *domain.ScheduledEvent) string {
	switch {
	case e.Status == domain.EventCompleted:
		return StyleGreen.Render("✓")
	case e.RecordedMin > 0:
		return StyleYellow.Render("▶")
	default:
		return StyleDim.Render("○")
	}
}

// GateIndicator returns a colored gate state string such as "● RELEASED".
func GateIndicator(status domain.SimuladoStatus) string {
	switch status {
	case domain.SimuladoBlocked:
		return StyleDim.Render("🔒 BLOCKED")
	case domain.SimuladoReleased:
		return StyleGreen.Render("● RELEASED")
	case domain.SimuladoScheduled:
		return StyleBlue.Render("● SCHEDULED")
	case domain.SimuladoSubmitted:
		return StylePurple.Render("✓ SUBMITTED")
	default:
		return StyleDim.Render(string(status))
	}
}

// PlanStatusPill returns a colored plan status indicator.
func PlanStatusPill(status domain.PlanStatus) string {
	switch status {
	case domain.PlanPublished:
		return StyleGreen.Render("● Published")
	case domain.PlanDraft:
		return StyleYellow.Render("○ Draft")
	case domain.PlanArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/ecotrack-campus/ecotrack/internal/app/metrics"
	"github.com/ecotrack-campus/ecotrack/internal/domain"
)

// ─── Palette ────────────────────────────────────────────────────────────────

var (
	ColorHeader = lipgloss.Color("42")  // green
	ColorBorder = lipgloss.Color("240") // gray
	ColorLabel  = lipgloss.Color("245")
	ColorValue  = lipgloss.Color("255")
	ColorOK     = lipgloss.Color("42")
	ColorWarn   = lipgloss.Color("214")
	ColorMuted  = lipgloss.Color("241")
)

const barWidth = 20

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHeader).
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Foreground(ColorLabel)
	valueStyle = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
)

// formatPoints prints an EcoPoints balance with thousand separators.
func formatPoints(p int) string {
	return humanize.Comma(int64(p))
}

func formatKg(kg float64) string {
	return fmt.Sprintf("%.1f kg", kg)
}

func field(sb *strings.Builder, label, value string) {
	sb.WriteString(labelStyle.Render(label + ": "))
	sb.WriteString(valueStyle.Render(value))
	sb.WriteString("\n")
}

// bar renders a 0–100 percentage as a fixed-width bar.
func bar(percent float64) string {
	filled := int(percent / 100 * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + mutedStyle.Render(strings.Repeat("░", barWidth-filled))
}

func verdictStyle(avg float64) lipgloss.Style {
	if avg < metrics.CarbonSaverThreshold {
		return lipgloss.NewStyle().Foreground(ColorOK)
	}
	return lipgloss.NewStyle().Foreground(ColorWarn)
}

// ─── Views ──────────────────────────────────────────────────────────────────

// RenderEntry renders a single carbon calculation.
func RenderEntry(mode domain.TransportMode, e domain.CarbonEntry, eq metrics.Equivalency) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Carbon Footprint"))
	sb.WriteString("\n\n")

	field(&sb, "Mode", string(mode))
	field(&sb, "Transport", formatKg(e.TransportEmission))
	field(&sb, "Electricity", formatKg(e.ElectricityEmission))
	field(&sb, "Total", formatKg(e.TotalEmission))

	if !eq.IsEmpty {
		sb.WriteString("\n")
		sb.WriteString(mutedStyle.Render(eq.DisplayText))
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderDashboard renders the stat cards, achievements and trend.
func RenderDashboard(d metrics.Dashboard) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("EcoTrack Dashboard"))
	sb.WriteString("\n\n")

	field(&sb, "EcoPoints", formatPoints(d.TotalPoints))
	field(&sb, "Weekly average", formatKg(d.WeeklyAverage))
	field(&sb, "E-waste sites", fmt.Sprintf("%d", d.LocationCount))
	field(&sb, "Achievements", fmt.Sprintf("%d/%d", d.EarnedCount, d.AchievementTotal))
	field(&sb, "Rank", fmt.Sprintf("#%d", d.Rank))

	sb.WriteString(bar(d.AverageBarPercent))
	sb.WriteString("\n")
	sb.WriteString(verdictStyle(d.WeeklyAverage).Render(d.Verdict))
	sb.WriteString("\n\n")

	sb.WriteString(labelStyle.Render("Achievements"))
	sb.WriteString("\n")
	for _, a := range d.Achievements {
		mark := mutedStyle.Render("○")
		if a.Earned {
			mark = lipgloss.NewStyle().Foreground(ColorOK).Render("●")
		}
		fmt.Fprintf(&sb, "  %s %s %s  %s\n", mark, a.Icon, a.Name, mutedStyle.Render(a.Description))
	}

	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("Recent trend"))
	sb.WriteString("\n")
	for _, p := range d.Trend {
		fmt.Fprintf(&sb, "  %s %s %s\n", p.Date, bar(p.BarPercent), formatKg(p.TotalEmission))
	}

	sb.WriteString("\n")
	field(&sb, "E-waste collected", formatKg(d.Impact.CollectedMassKg))
	field(&sb, "CO₂ prevented", formatKg(d.Impact.CO2PreventedKg))
	return sb.String()
}

// RenderLeaderboard renders the ranked board, highlighting the current user.
func RenderLeaderboard(board []domain.LeaderboardEntry) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Campus Leaderboard"))
	sb.WriteString("\n\n")

	you := lipgloss.NewStyle().Foreground(ColorOK).Bold(true)
	for _, e := range board {
		line := fmt.Sprintf("%2d. %-14s %8s", e.Rank, e.Name, formatPoints(e.Points))
		if e.IsCurrentUser {
			line = you.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

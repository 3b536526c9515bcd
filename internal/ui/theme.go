package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Shared theme for the CLI and the board.

const (
	IconSword   = "🗡️"
	IconSparkle = "✨"
	IconDone    = "✅"
	IconTodo    = "⬜"
	IconSun     = "🌞"
	IconWeek    = "📅"
	IconCastle  = "🏰"
	IconCoin    = "💰"
	IconClock   = "⏰"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconLoop    = "🔁"
	IconScroll  = "📜"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Dim   = lipgloss.NewStyle().Foreground(cMuted)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// StatusText colors a roster sync status.
func StatusText(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "synced":
		return Good.Render("synced")
	case "unreachable":
		return Warn.Render("unreachable")
	case "failed":
		return Bad.Render("failed")
	default:
		return Muted.Render(status)
	}
}

func CategoryIcon(category string) string {
	switch strings.ToUpper(category) {
	case "DAILY":
		return IconSun
	case "WEEKLY":
		return IconWeek
	default:
		return IconCastle
	}
}

func Check(done bool) string {
	if done {
		return IconDone
	}
	return IconTodo
}

// FormatGold renders 52000 as "52,000 G".
func FormatGold(n int) string {
	return GroupThousands(n) + " G"
}

func GroupThousands(n int) string {
	s := strconv.Itoa(n)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	var b strings.Builder
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(s[i])
	}
	return sign + b.String()
}

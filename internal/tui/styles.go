package tui

import "github.com/charmbracelet/lipgloss"

// Palette, named by what each colour marks.
var (
	colorBrand   = lipgloss.Color("#6C63FF")
	colorText    = lipgloss.Color("#C0CAF5")
	colorDim     = lipgloss.Color("#666666")
	colorFaint   = lipgloss.Color("#414868")
	colorInfo    = lipgloss.Color("#7AA2F7")
	colorDone    = lipgloss.Color("#2ECC71")
	colorPartial = lipgloss.Color("#F39C12")
	colorDanger  = lipgloss.Color("#E74C3C")
	colorEdit    = lipgloss.Color("#2EC4B6")
	colorOnFill  = lipgloss.Color("#1A1B26")
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

var (
	logoStyle  = fg(colorBrand).Bold(true)
	titleStyle = fg(colorText).Bold(true)
	mutedStyle = fg(colorDim)
	infoStyle  = fg(colorInfo)
	errorStyle = fg(colorDanger)

	inactiveTabStyle = mutedStyle.Padding(0, 2)
	activeTabStyle   = logoStyle.Padding(0, 2).
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(colorBrand)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorFaint).
			Padding(1, 2)
	activePanelStyle = panelStyle.BorderForeground(colorBrand)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = mutedStyle.Padding(0, 1)

	selectedItemStyle = logoStyle
	normalItemStyle   = fg(colorText)
)

// Day statuses, shared by the Today window strip and the reports chart.
var (
	doneStyle     = fg(colorDone)
	partialStyle  = fg(colorPartial)
	missedStyle   = mutedStyle
	notYetStyle   = fg(colorFaint)
	streakStyle   = partialStyle.Bold(true)
	progressStyle = infoStyle
)

// The actions uncovered as a row slides left.
var (
	editActionStyle    = fg(colorOnFill).Bold(true).Background(colorEdit).Align(lipgloss.Center)
	archiveActionStyle = editActionStyle.Background(colorDanger)
)

package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/habitr/internal/gesture"
	"github.com/sadopc/habitr/internal/streak"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewItems
	viewReports
	viewSettings
)

var viewNames = []string{"Today", "Items", "Reports", "Settings"}

// unitsPerCell converts terminal columns to gesture units, so the default
// 80-unit action zone is 20 columns wide.
const unitsPerCell = 4

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// swipeCommitMsg fires once a revealed action's delay has elapsed.
type swipeCommitMsg struct {
	itemID int64
	action gesture.Action
}

type itemSavedMsg struct {
	name string
}

// --- Helpers ---

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}

func windowGlyphs(window []streak.DayStatus) string {
	var out string
	for _, st := range window {
		switch st {
		case streak.DaySatisfied:
			out += doneStyle.Render("■")
		case streak.DayUnsatisfied:
			out += missedStyle.Render("□")
		case streak.DayBeforeCreation:
			out += notYetStyle.Render("·")
		default:
			out += " "
		}
	}
	return out
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

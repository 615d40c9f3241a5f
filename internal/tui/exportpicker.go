package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/export"
	"github.com/sadopc/habitr/internal/store"
	"github.com/sadopc/habitr/internal/streak"
)

// exportPicker is the format chooser shown over the active view.
type exportPicker struct {
	active bool
	cursor int
	dir    string // home directory when empty
}

func (e exportPicker) open() exportPicker {
	e.active = true
	e.cursor = 0
	return e
}

// update moves the selection. It returns the chosen format on enter, or "".
func (e exportPicker) update(msg tea.KeyMsg) (exportPicker, string) {
	switch {
	case key.Matches(msg, keys.Up):
		e.cursor = max(0, e.cursor-1)
	case key.Matches(msg, keys.Down):
		e.cursor = min(len(export.Formats)-1, e.cursor+1)
	case key.Matches(msg, keys.Enter):
		e.active = false
		return e, export.Formats[e.cursor]
	case key.Matches(msg, keys.Back):
		e.active = false
	}
	return e, ""
}

func (e exportPicker) view(width int) string {
	lines := []string{titleStyle.Render("Export Format"), ""}
	for i, f := range export.Formats {
		if i == e.cursor {
			lines = append(lines, selectedItemStyle.Render("> "+strings.ToUpper(f)))
			continue
		}
		lines = append(lines, normalItemStyle.Render("  "+strings.ToUpper(f)))
	}

	dest := e.dir
	if dest == "" {
		dest = "~"
	}
	lines = append(lines, "",
		mutedStyle.Render("  writes habitr-export-<date>.<format> to "+dest),
		mutedStyle.Render("  enter: export  esc: cancel"),
	)
	return activePanelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// run exports every item's log and summary in the background.
func (e exportPicker) run(s *store.Store, today streak.Date, window int, format string) tea.Cmd {
	dir := e.dir
	return func() tea.Msg {
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
			}
			dir = home
		}

		data, err := export.Collect(s, today, window)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		path := filepath.Join(dir, fmt.Sprintf("habitr-export-%s.%s", today, format))
		if err := export.Write(data, format, path); err != nil {
			return statusMsg{text: fmt.Sprintf("%s export error: %v", strings.ToUpper(format), err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	width  int
	height int

	activeView viewState
	showHelp   bool
	export     exportPicker

	today    todayModel
	items    itemsModel
	reports  reportsModel
	settings settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(s *store.Store) App {
	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		activeView: viewToday,
		today:      newTodayModel(s),
		items:      newItemsModel(s),
		reports:    newReportsModel(s),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

// WithExportDir sets where exports are written; the home directory otherwise.
func (a App) WithExportDir(dir string) App {
	a.export.dir = dir
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.today.Init(), tickCmd())
}

// tickCmd drives the midnight rollover.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.today.setSize(a.width, contentHeight)
		a.items.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.MouseMsg:
		if a.activeView != viewToday || a.export.active {
			return a, nil
		}
		// Views see coordinates relative to their own top-left corner.
		msg.Y -= lipgloss.Height(a.renderHeader())
		var cmd tea.Cmd
		a.today, cmd = a.today.update(msg)
		return a, cmd

	case tea.KeyMsg:
		if a.export.active {
			var format string
			a.export, format = a.export.update(msg)
			if format == "" {
				return a, nil
			}
			return a, a.doExport(format)
		}
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}
		if cmd, ok := a.handleGlobalKey(msg); ok {
			return a, cmd
		}

	case tickMsg:
		// Today always sees ticks so the day rolls over behind other views.
		var cmd tea.Cmd
		a.today, cmd = a.today.update(msg)
		return a, tea.Batch(tickCmd(), cmd)

	case todayDataMsg, swipeCommitMsg:
		var cmd tea.Cmd
		a.today, cmd = a.today.update(msg)
		return a, cmd

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		if msg.isError {
			slog.Warn("tui error", "message", msg.text)
		}
		return a, nil

	case itemSavedMsg:
		a.status = "Saved " + msg.name
		a.statusErr = false

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		slog.Info("exported", "path", msg.path)
		return a, nil
	}

	return a.updateActiveView(msg)
}

// handleGlobalKey runs keys that work in every view. ok is false when msg
// belongs to the active view.
func (a *App) handleGlobalKey(msg tea.KeyMsg) (cmd tea.Cmd, ok bool) {
	switch {
	case key.Matches(msg, keys.Export):
		a.export = a.export.open()
		return nil, true
	case key.Matches(msg, keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, keys.Help):
		a.showHelp = !a.showHelp
		a.help.ShowAll = a.showHelp
		return nil, true
	case key.Matches(msg, keys.Tab1):
		return a.switchTo(viewToday), true
	case key.Matches(msg, keys.Tab2):
		return a.switchTo(viewItems), true
	case key.Matches(msg, keys.Tab3):
		return a.switchTo(viewReports), true
	case key.Matches(msg, keys.Tab4):
		return a.switchTo(viewSettings), true
	case key.Matches(msg, keys.Tab):
		return a.switchTo((a.activeView + 1) % viewState(len(viewNames))), true
	}
	return nil, false
}

func (a *App) switchTo(v viewState) tea.Cmd {
	a.activeView = v
	switch v {
	case viewToday:
		return a.today.loadData()
	case viewItems:
		return a.items.refresh()
	case viewReports:
		return a.reports.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.today, cmd = a.today.update(msg)
	case viewItems:
		a.items, cmd = a.items.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewToday:
		return a.today.form.active
	case viewItems:
		return a.items.form.active
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) doExport(format string) tea.Cmd {
	return a.export.run(a.store, a.today.today(), a.today.window, format)
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch {
	case a.export.active:
		content = a.export.view(a.width - 4)
	case a.activeView == viewToday:
		content = a.today.view()
	case a.activeView == viewItems:
		content = a.items.view()
	case a.activeView == viewReports:
		content = a.reports.view()
	case a.activeView == viewSettings:
		content = a.settings.view()
	}

	contentHeight := max(a.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)
	content = lipgloss.NewStyle().Width(a.width).Height(contentHeight).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

// spread joins left and right with enough space to push right to the edge.
func spread(width int, left, right string, margin int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right)-margin, 1)
	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, lipgloss.NewStyle().Width(gap).Render(""), right)
}

func (a App) renderHeader() string {
	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		style := inactiveTabStyle
		if viewState(i) == a.activeView {
			style = activeTabStyle
		}
		tabs[i] = style.Render(fmt.Sprintf("%d %s", i+1, name))
	}

	title := logoStyle.Render("habitr")
	return headerStyle.Render(spread(a.width, title, lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...), 4))
}

func (a App) renderFooter() string {
	right := ""
	if done, total := a.today.doneCount(); total > 0 {
		style := partialStyle
		if done == total {
			style = doneStyle
		}
		right = style.Render(fmt.Sprintf(" ● %d/%d today", done, total))
	}
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		right += style.Render(" " + a.status)
	}
	return spread(a.width, footerStyle.Render(a.help.View(keys)), right, 2)
}

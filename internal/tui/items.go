package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/store"
	"github.com/sadopc/habitr/internal/streak"
)

type itemsModel struct {
	store  *store.Store
	width  int
	height int

	items        []store.Item
	cursor       int
	showArchived bool

	form itemForm
}

func newItemsModel(s *store.Store) itemsModel {
	return itemsModel{
		store: s,
		form:  newItemForm(),
	}
}

func (p *itemsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type itemsDataMsg struct {
	items []store.Item
}

func (p itemsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		items, _ := p.store.ListItems(p.showArchived)
		return itemsDataMsg{items: items}
	}
}

func (p itemsModel) update(msg tea.Msg) (itemsModel, tea.Cmd) {
	if p.form.active && p.form.form != nil {
		var cmd tea.Cmd
		var done bool
		p.form, cmd, done = p.form.update(msg)
		if done {
			return p, p.form.save(p.store, streak.Today())
		}
		return p, cmd
	}

	switch msg := msg.(type) {
	case itemsDataMsg:
		p.items = msg.items
		if p.cursor >= len(p.items) {
			p.cursor = max(0, len(p.items)-1)
		}
		return p, nil

	case itemSavedMsg:
		return p, p.refresh()

	case tea.KeyMsg:
		return p.updateList(msg)
	}
	return p, nil
}

func (p itemsModel) updateList(msg tea.KeyMsg) (itemsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.items)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.New):
		def, _ := p.store.GetSetting("default_goal")
		if def == "" {
			def = "1"
		}
		var cmd tea.Cmd
		p.form, cmd = p.form.open(nil, def)
		return p, cmd
	case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
		if len(p.items) > 0 {
			it := p.items[p.cursor]
			var cmd tea.Cmd
			p.form, cmd = p.form.open(&it, "1")
			return p, cmd
		}
	case key.Matches(msg, keys.Archive):
		if len(p.items) > 0 {
			it := p.items[p.cursor]
			if err := p.store.ArchiveItem(it.ID); err != nil {
				return p, statusCmd(fmt.Sprintf("Archive error: %v", err), true)
			}
			return p, tea.Batch(p.refresh(), statusCmd("Archived "+it.Name, false))
		}
	case key.Matches(msg, keys.ShowArchived):
		p.showArchived = !p.showArchived
		return p, p.refresh()
	}
	return p, nil
}

func (p itemsModel) view() string {
	if p.form.active && p.form.form != nil {
		return p.form.view(p.width - 4)
	}

	w := p.width - 4
	title := titleStyle.Render("Items")
	if p.showArchived {
		title += mutedStyle.Render("  (including archived)")
	}

	if len(p.items) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No items yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	// Table header
	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-24s %-8s %8s  %-10s", "", "Name", "Kind", "Goal", "Since"))
	rows = append(rows, header)

	for i, it := range p.items {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(it.Color)).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := style.Render(fmt.Sprintf("%s%s %-24s %-8s %8s  %-10s",
			cursor, colorDot, truncate(it.Name, 24), it.Kind, streak.NormalizeGoal(it.Goal).String(), it.CreatedDate,
		))
		if it.Archived {
			row += mutedStyle.Render("  archived")
		}
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: archive  a: show archived"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/store"
	"github.com/sadopc/habitr/internal/streak"
	"github.com/shopspring/decimal"
)

var itemColors = []string{"#6C63FF", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#9B59B6", "#3498DB"}

// itemForm is the huh form for creating and editing items. It is embedded in
// every view that can open it.
type itemForm struct {
	active    bool
	form      *huh.Form
	editingID int64 // 0 when creating

	// Form field pointers (survive value copies)
	name  *string
	color *string
	kind  *string
	goal  *string
}

func newItemForm() itemForm {
	name, color, kind, goal := "", itemColors[0], store.KindHabit, "1"
	return itemForm{
		name:  &name,
		color: &color,
		kind:  &kind,
		goal:  &goal,
	}
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("name is required")
	}
	return nil
}

func validateGoal(s string) error {
	g, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("goal must be a number")
	}
	return streak.ValidateGoal(g)
}

// open shows the form for it, or an empty form when it is nil.
func (f itemForm) open(it *store.Item, defaultGoal string) (itemForm, tea.Cmd) {
	if it == nil {
		*f.name = ""
		*f.color = itemColors[0]
		*f.kind = store.KindHabit
		*f.goal = defaultGoal
		f.editingID = 0
	} else {
		*f.name = it.Name
		*f.color = it.Color
		*f.kind = it.Kind
		*f.goal = it.Goal.String()
		f.editingID = it.ID
	}

	colorOptions := make([]huh.Option[string], len(itemColors))
	for i, c := range itemColors {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("● %s", c), c)
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(f.name).Validate(validateName),
			huh.NewSelect[string]().Title("Kind").
				Options(
					huh.NewOption("Habit", store.KindHabit),
					huh.NewOption("Task", store.KindTask),
				).Value(f.kind),
			huh.NewInput().Title("Daily goal").Value(f.goal).Validate(validateGoal),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(f.color),
		),
	).WithShowHelp(true).WithShowErrors(true)

	f.active = true
	return f, f.form.Init()
}

// update forwards msg to the form. done reports that the user submitted it.
func (f itemForm) update(msg tea.Msg) (itemForm, tea.Cmd, bool) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			f.active = false
			f.form = nil
			return f, nil, false
		}
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		f.active = false
		return f, nil, true
	}
	return f, cmd, false
}

// save writes the submitted values. New items start on today.
func (f itemForm) save(s *store.Store, today streak.Date) tea.Cmd {
	name := strings.TrimSpace(*f.name)
	goal, err := decimal.NewFromString(strings.TrimSpace(*f.goal))
	if err != nil {
		goal = decimal.NewFromInt(1)
	}

	if f.editingID != 0 {
		err = s.UpdateItem(f.editingID, name, *f.color, *f.kind, goal)
	} else {
		_, err = s.CreateItem(name, *f.color, *f.kind, goal, today)
	}
	if err != nil {
		return statusCmd(fmt.Sprintf("Save error: %v", err), true)
	}
	return func() tea.Msg { return itemSavedMsg{name: name} }
}

func (f itemForm) view(width int) string {
	title := titleStyle.Render("New Item")
	if f.editingID != 0 {
		title = titleStyle.Render("Edit Item")
	}
	content := lipgloss.JoinVertical(lipgloss.Left, title, "", f.form.View())
	return panelStyle.Width(width).Render(content)
}

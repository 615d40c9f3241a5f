package tui

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/gesture"
	"github.com/sadopc/habitr/internal/store"
	"github.com/sadopc/habitr/internal/streak"
	"github.com/shopspring/decimal"
)

// Layout of the Today panel: border and padding put the first row on line 4
// (border, padding, title, blank) and column 3 (border, two padding).
const (
	rowTop  = 4
	rowLeft = 3
)

type todayRow struct {
	item    store.Item
	summary streak.Summary
	value   decimal.Decimal
	swipe   *gesture.Row
}

type todayModel struct {
	store  *store.Store
	width  int
	height int
	now    func() time.Time

	date              streak.Date
	window            int
	swipeThreshold    float64
	velocityThreshold float64
	defaultGoal       string

	rows   []todayRow
	cursor int

	// Active mouse drag; -1 when none.
	dragRow int
	dragged bool

	form itemForm
}

func newTodayModel(s *store.Store) todayModel {
	return todayModel{
		store:   s,
		now:     time.Now,
		window:  streak.DefaultWindow,
		dragRow: -1,
		form:    newItemForm(),
	}
}

func (d todayModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *todayModel) setSize(w, h int) {
	d.width = w
	d.height = h
	for _, r := range d.rows {
		r.swipe.SetViewport(d.viewport())
	}
}

// innerWidth is the number of columns a row occupies inside the panel.
func (d todayModel) innerWidth() int {
	return max(d.width-8, 1)
}

// viewport is the row width in gesture units.
func (d todayModel) viewport() float64 {
	return float64(d.innerWidth() * unitsPerCell)
}

func (d todayModel) today() streak.Date {
	return streak.DateOf(d.now())
}

func (d todayModel) doneCount() (done, total int) {
	for _, r := range d.rows {
		if r.summary.IsCompletedToday {
			done++
		}
	}
	return done, len(d.rows)
}

type todayDataMsg struct {
	date              streak.Date
	window            int
	swipeThreshold    float64
	velocityThreshold float64
	defaultGoal       string
	rows              []todayRow
}

func (d todayModel) loadData() tea.Cmd {
	today := d.today()
	return func() tea.Msg {
		msg := todayDataMsg{
			date:              today,
			window:            d.store.GetInt("window_days", streak.DefaultWindow),
			swipeThreshold:    d.store.GetFloat("swipe_threshold", 50),
			velocityThreshold: d.store.GetFloat("velocity_threshold", 0.3),
		}
		msg.defaultGoal, _ = d.store.GetSetting("default_goal")
		if msg.defaultGoal == "" {
			msg.defaultGoal = "1"
		}

		items, err := d.store.ListItems(false)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		for _, it := range items {
			log, err := d.store.GetCompletionLog(it.ID, streak.Date{}, today)
			if err != nil {
				slog.Warn("load completion log", "item", it.Name, "error", err)
				continue
			}
			row := todayRow{
				item:    it,
				summary: streak.Summarize(it.Trackable(), log, today, msg.window),
			}
			if r, ok := log[today]; ok {
				row.value = r.Value
			}
			msg.rows = append(msg.rows, row)
		}
		return msg
	}
}

// applyData installs freshly loaded rows, keeping the swipe state of items
// that were already on screen.
func (d todayModel) applyData(msg todayDataMsg) todayModel {
	d.date = msg.date
	d.window = msg.window
	d.swipeThreshold = msg.swipeThreshold
	d.velocityThreshold = msg.velocityThreshold
	d.defaultGoal = msg.defaultGoal

	prev := make(map[int64]*gesture.Row, len(d.rows))
	for _, r := range d.rows {
		prev[r.item.ID] = r.swipe
	}

	rows := make([]todayRow, 0, len(msg.rows))
	for _, r := range msg.rows {
		cfg := gesture.DefaultConfig(true)
		cfg.SwipeThreshold = msg.swipeThreshold
		cfg.VelocityThreshold = msg.velocityThreshold
		cfg.ViewportWidth = d.viewport()

		if sw, ok := prev[r.item.ID]; ok {
			sw.SetConfig(cfg)
			r.swipe = sw
		} else {
			sw, err := gesture.NewRow(r.item.Name, cfg)
			if err != nil {
				slog.Error("create swipe row", "item", r.item.Name, "error", err)
				continue
			}
			r.swipe = sw
		}
		rows = append(rows, r)
	}
	d.rows = rows
	d.dragRow = -1
	if d.cursor >= len(d.rows) {
		d.cursor = max(0, len(d.rows)-1)
	}
	return d
}

func (d todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	if data, ok := msg.(todayDataMsg); ok {
		return d.applyData(data), nil
	}
	if d.form.active && d.form.form != nil {
		var cmd tea.Cmd
		var done bool
		d.form, cmd, done = d.form.update(msg)
		if done {
			return d, d.form.save(d.store, d.today())
		}
		return d, cmd
	}

	switch msg := msg.(type) {
	case itemSavedMsg:
		return d, d.loadData()

	case tickMsg:
		// Roll over at midnight.
		if d.today() != d.date {
			return d, d.loadData()
		}
		return d, nil

	case swipeCommitMsg:
		return d.commit(msg)

	case tea.MouseMsg:
		return d.updateMouse(msg)

	case tea.KeyMsg:
		return d.updateKeys(msg)
	}
	return d, nil
}

func (d todayModel) updateKeys(msg tea.KeyMsg) (todayModel, tea.Cmd) {
	if key.Matches(msg, keys.New) {
		var cmd tea.Cmd
		d.form, cmd = d.form.open(nil, d.defaultGoal)
		return d, cmd
	}
	if len(d.rows) == 0 {
		return d, nil
	}
	row := d.rows[d.cursor]

	switch {
	case key.Matches(msg, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(msg, keys.Down):
		if d.cursor < len(d.rows)-1 {
			d.cursor++
		}
	case key.Matches(msg, keys.Enter):
		return d.tap(d.cursor)
	case key.Matches(msg, keys.Increment):
		return d, d.addProgress(row, decimal.NewFromInt(1))
	case key.Matches(msg, keys.Decrement):
		return d, d.addProgress(row, decimal.NewFromInt(-1))
	case key.Matches(msg, keys.Left):
		d.closeOthers(d.cursor)
		row.swipe.Reveal()
	case key.Matches(msg, keys.Right), key.Matches(msg, keys.Back):
		row.swipe.Close()
	case key.Matches(msg, keys.Archive):
		return d, d.invoke(d.cursor, row.swipe.Primary())
	case key.Matches(msg, keys.Edit):
		return d, d.invoke(d.cursor, row.swipe.Secondary())
	}
	return d, nil
}

// rowAt maps a content-relative cell to a row index.
func (d todayModel) rowAt(y int) (int, bool) {
	i := y - rowTop
	if i < 0 || i >= len(d.rows) {
		return 0, false
	}
	return i, true
}

func (d todayModel) sample(x int) gesture.Sample {
	return gesture.Sample{
		X:    float64(x * unitsPerCell),
		Time: d.now().UnixMilli(),
	}
}

// actionAt reports which revealed action, if any, sits under column x of
// row i. It mirrors the layout drawn by renderActions.
func (d todayModel) actionAt(i, x int) gesture.Action {
	sw := d.rows[i].swipe
	if !sw.IsOpen() || sw.Dragging() {
		return gesture.ActionNone
	}
	right := rowLeft + d.innerWidth()
	shown := min(cells(sw.Offset()), d.innerWidth())
	left := right - shown
	if x < left || x >= right {
		return gesture.ActionNone
	}
	if x >= left+secondaryWidth(sw.Config(), shown) {
		return gesture.ActionPrimary
	}
	return gesture.ActionSecondary
}

func (d todayModel) updateMouse(msg tea.MouseMsg) (todayModel, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return d, nil
		}
		i, ok := d.rowAt(msg.Y)
		if !ok {
			return d, nil
		}
		d.cursor = i
		sw := d.rows[i].swipe
		switch d.actionAt(i, msg.X) {
		case gesture.ActionPrimary:
			return d, d.invoke(i, sw.Primary())
		case gesture.ActionSecondary:
			return d, d.invoke(i, sw.Secondary())
		}
		d.closeOthers(i)
		sw.Start(d.sample(msg.X))
		d.dragRow = i
		d.dragged = false

	case tea.MouseActionMotion:
		if d.dragRow < 0 {
			return d, nil
		}
		d.rows[d.dragRow].swipe.Move(d.sample(msg.X))
		d.dragged = true

	case tea.MouseActionRelease:
		if d.dragRow < 0 {
			return d, nil
		}
		i := d.dragRow
		d.dragRow = -1
		sw := d.rows[i].swipe
		if !d.dragged {
			sw.Cancel()
			return d.tap(i)
		}
		out := sw.End()
		slog.Debug("swipe released", "item", d.rows[i].item.Name, "open", out.Open, "offset", sw.Offset())
	}
	return d, nil
}

// tap closes an open row, or toggles today's completion on a closed one.
func (d todayModel) tap(i int) (todayModel, tea.Cmd) {
	row := d.rows[i]
	if row.swipe.Tap() {
		return d, nil
	}
	return d, d.toggle(row)
}

func (d todayModel) closeOthers(keep int) {
	for i, r := range d.rows {
		if i != keep && r.swipe.IsOpen() {
			r.swipe.Close()
		}
	}
}

// invoke schedules the committed action after its delay.
func (d todayModel) invoke(i int, c gesture.Commit) tea.Cmd {
	if c.Action == gesture.ActionNone {
		return nil
	}
	id := d.rows[i].item.ID
	return tea.Tick(c.Delay, func(time.Time) tea.Msg {
		return swipeCommitMsg{itemID: id, action: c.Action}
	})
}

func (d todayModel) commit(msg swipeCommitMsg) (todayModel, tea.Cmd) {
	switch msg.action {
	case gesture.ActionPrimary:
		it, err := d.store.GetItem(msg.itemID)
		if err != nil {
			return d, statusCmd(fmt.Sprintf("Archive error: %v", err), true)
		}
		if err := d.store.ArchiveItem(it.ID); err != nil {
			return d, statusCmd(fmt.Sprintf("Archive error: %v", err), true)
		}
		return d, tea.Batch(d.loadData(), statusCmd("Archived "+it.Name, false))

	case gesture.ActionSecondary:
		it, err := d.store.GetItem(msg.itemID)
		if err != nil {
			return d, statusCmd(fmt.Sprintf("Edit error: %v", err), true)
		}
		var cmd tea.Cmd
		d.form, cmd = d.form.open(it, d.defaultGoal)
		return d, cmd
	}
	return d, nil
}

func (d todayModel) toggle(row todayRow) tea.Cmd {
	today := d.today()
	var err error
	if row.summary.IsCompletedToday {
		err = d.store.ClearCompletion(row.item.ID, today)
	} else {
		_, err = d.store.SetCompletion(row.item.ID, today, streak.NormalizeGoal(row.item.Goal))
	}
	if err != nil {
		return statusCmd(fmt.Sprintf("Error: %v", err), true)
	}
	return d.loadData()
}

func (d todayModel) addProgress(row todayRow, delta decimal.Decimal) tea.Cmd {
	if _, err := d.store.AddProgress(row.item.ID, d.today(), delta); err != nil {
		return statusCmd(fmt.Sprintf("Error: %v", err), true)
	}
	return d.loadData()
}

func cells(units float64) int {
	return int(math.Round(units / unitsPerCell))
}

func (d todayModel) view() string {
	if d.form.active && d.form.form != nil {
		return d.form.view(d.width - 4)
	}
	if d.width < 20 {
		return "Terminal too small"
	}

	w := d.width - 4
	done, total := d.doneCount()
	title := titleStyle.Render("Today") + "  " +
		mutedStyle.Render(d.date.Time().Format("Mon Jan 02")) + "  " +
		progressStyle.Render(fmt.Sprintf("%d/%d done", done, total))

	if len(d.rows) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("Nothing to track yet. Press n to add a habit or task."),
		)
		return panelStyle.Width(w).Render(content)
	}

	lines := []string{title, ""}
	inner := d.innerWidth()
	for i, r := range d.rows {
		lines = append(lines, d.renderRow(i, r, inner))
	}
	lines = append(lines, "")
	lines = append(lines, mutedStyle.Render("enter: toggle  +/-: progress  ←: reveal  d: archive  e: edit  n: new"))

	return panelStyle.Width(w).Render(strings.Join(lines, "\n"))
}

func (d todayModel) renderRow(i int, r todayRow, width int) string {
	cursor := "  "
	style := normalItemStyle
	if i == d.cursor {
		cursor = "> "
		style = selectedItemStyle
	}

	check := mutedStyle.Render("[ ]")
	if r.summary.IsCompletedToday {
		check = doneStyle.Render("[✓]")
	}
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(r.item.Color)).Render("●")

	progress := ""
	goal := streak.NormalizeGoal(r.item.Goal)
	if !goal.Equal(decimal.NewFromInt(1)) {
		progress = fmt.Sprintf("%s/%s", r.value.String(), goal.String())
	}

	content := fmt.Sprintf("%s%s %s %s %-10s %s %4s  %s",
		cursor,
		check,
		dot,
		style.Render(fmt.Sprintf("%-20s", truncate(r.item.Name, 20))),
		progress,
		streakStyle.Render(fmt.Sprintf("🔥%3d", r.summary.CurrentStreak)),
		fmt.Sprintf("%d%%", r.summary.CompletionRate),
		windowGlyphs(r.summary.Window),
	)

	shift := cells(r.swipe.Offset())
	if shift <= 0 {
		return lipgloss.NewStyle().MaxWidth(width).Render(content)
	}
	shift = min(shift, width)
	visible := lipgloss.NewStyle().MaxWidth(width - shift).Render(content)
	return visible + strings.Repeat(" ", max(0, width-shift-lipgloss.Width(visible))) + d.renderActions(r, shift)
}

// renderActions draws the revealed area behind a row, shift columns wide.
// Actions are anchored to the right edge, so archive shows first.
func (d todayModel) renderActions(r todayRow, shift int) string {
	cfg := r.swipe.Config()
	secondaryW := secondaryWidth(cfg, shift)
	if secondaryW == 0 {
		return archiveActionStyle.Width(shift).Render(truncate("archive", shift))
	}
	secondary := editActionStyle.Width(secondaryW).Render(truncate("edit", secondaryW))
	// Overscroll stretches the primary action.
	primary := archiveActionStyle.Width(shift - secondaryW).Render("archive")
	return secondary + primary
}

// secondaryWidth is how many of the shown columns belong to the secondary action.
func secondaryWidth(cfg gesture.Config, shown int) int {
	if !cfg.HasSecondaryAction {
		return 0
	}
	zone := cells(cfg.ActionZoneWidth)
	primaryW := zone - zone/2
	if shown <= primaryW {
		return 0
	}
	return min(shown-primaryW, zone/2)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

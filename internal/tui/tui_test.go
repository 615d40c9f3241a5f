package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/gesture"
	"github.com/sadopc/habitr/internal/store"
	"github.com/sadopc/habitr/internal/streak"
	"github.com/shopspring/decimal"
)

var testDay = streak.NewDate(2026, time.March, 10)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestItem(t *testing.T, s *store.Store, name string, goal int64) *store.Item {
	t.Helper()
	it, err := s.CreateItem(name, "#6C63FF", store.KindHabit, decimal.NewFromInt(goal), testDay.AddDays(-5))
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	return it
}

// fakeClock drives gesture timestamps deterministically.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, time.March, 10, 12, 0, 0, 0, time.Local)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// newTestToday returns a sized, loaded Today model on a fake clock.
func newTestToday(t *testing.T, s *store.Store) (todayModel, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	d := newTodayModel(s)
	d.now = clock.now
	d.setSize(120, 36)
	return reload(t, d), clock
}

func reload(t *testing.T, d todayModel) todayModel {
	t.Helper()
	msg := d.loadData()()
	data, ok := msg.(todayDataMsg)
	if !ok {
		t.Fatalf("loadData returned %T", msg)
	}
	d, _ = d.update(data)
	return d
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func completionValue(t *testing.T, s *store.Store, id int64) (decimal.Decimal, bool) {
	t.Helper()
	c, err := s.GetCompletion(id, testDay)
	if err != nil {
		return decimal.Zero, false
	}
	return c.Value, true
}

// ============================================================
// Today view: data and keys
// ============================================================

func TestTodayLoad(t *testing.T) {
	s := newTestStore(t)
	a := newTestItem(t, s, "Read", 1)
	newTestItem(t, s, "Run", 1)
	s.SetCompletion(a.ID, testDay, decimal.NewFromInt(1))
	s.SetCompletion(a.ID, testDay.AddDays(-1), decimal.NewFromInt(1))

	d, _ := newTestToday(t, s)
	if len(d.rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(d.rows))
	}
	if d.date != testDay {
		t.Fatalf("date = %s, want %s", d.date, testDay)
	}
	done, total := d.doneCount()
	if done != 1 || total != 2 {
		t.Fatalf("doneCount = %d/%d, want 1/2", done, total)
	}
	if d.rows[0].summary.CurrentStreak != 2 {
		t.Fatalf("streak = %d, want 2", d.rows[0].summary.CurrentStreak)
	}
	if len(d.rows[0].summary.Window) != streak.DefaultWindow {
		t.Fatalf("window = %d, want %d", len(d.rows[0].summary.Window), streak.DefaultWindow)
	}
}

func TestTodayLoadUsesSettings(t *testing.T) {
	s := newTestStore(t)
	newTestItem(t, s, "Read", 1)
	s.SetSetting("window_days", "7")
	s.SetSetting("swipe_threshold", "30")

	d, _ := newTestToday(t, s)
	if len(d.rows[0].summary.Window) != 7 {
		t.Fatalf("window = %d, want 7", len(d.rows[0].summary.Window))
	}
	if got := d.rows[0].swipe.Config().SwipeThreshold; got != 30 {
		t.Fatalf("swipe threshold = %v, want 30", got)
	}

	// Rows kept across a reload pick up changed settings.
	sw := d.rows[0].swipe
	s.SetSetting("swipe_threshold", "10")
	s.SetSetting("velocity_threshold", "5")
	d = reload(t, d)
	if d.rows[0].swipe != sw {
		t.Fatal("reload should keep the existing swipe row")
	}
	cfg := d.rows[0].swipe.Config()
	if cfg.SwipeThreshold != 10 || cfg.VelocityThreshold != 5 {
		t.Fatalf("thresholds = %v/%v, want 10/5", cfg.SwipeThreshold, cfg.VelocityThreshold)
	}
}

func TestTodayReloadKeepsSwipeState(t *testing.T) {
	s := newTestStore(t)
	newTestItem(t, s, "Read", 1)

	d, _ := newTestToday(t, s)
	d, _ = d.update(keyMsg("left"))
	sw := d.rows[0].swipe
	d = reload(t, d)
	if d.rows[0].swipe != sw || !d.rows[0].swipe.IsOpen() {
		t.Fatal("reload should keep the existing swipe row")
	}
}

func TestTodayEnterToggles(t *testing.T) {
	s := newTestStore(t)
	it := newTestItem(t, s, "Pushups", 30)

	d, _ := newTestToday(t, s)
	d, cmd := d.update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("toggle should reload")
	}
	v, ok := completionValue(t, s, it.ID)
	if !ok || !v.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("toggle should record the goal, got %s", v)
	}

	d = reload(t, d)
	if !d.rows[0].summary.IsCompletedToday {
		t.Fatal("row should be completed after toggle")
	}
	d, _ = d.update(keyMsg("enter"))
	if _, ok := completionValue(t, s, it.ID); ok {
		t.Fatal("second toggle should clear today's completion")
	}
}

func TestTodayEnterOnOpenRowOnlyCloses(t *testing.T) {
	s := newTestStore(t)
	it := newTestItem(t, s, "Read", 1)

	d, _ := newTestToday(t, s)
	d, _ = d.update(keyMsg("left"))
	if !d.rows[0].swipe.IsOpen() {
		t.Fatal("left should reveal the actions")
	}

	d, cmd := d.update(keyMsg("enter"))
	if cmd != nil {
		t.Fatal("swallowed tap should not issue a command")
	}
	if d.rows[0].swipe.IsOpen() {
		t.Fatal("tap should close the row")
	}
	if _, ok := completionValue(t, s, it.ID); ok {
		t.Fatal("tap on an open row must not toggle completion")
	}
}

func TestTodayProgressKeys(t *testing.T) {
	s := newTestStore(t)
	it := newTestItem(t, s, "Pushups", 3)

	d, _ := newTestToday(t, s)
	d, _ = d.update(keyMsg("+"))
	d, _ = d.update(keyMsg("+"))
	v, _ := completionValue(t, s, it.ID)
	if !v.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("value = %s, want 2", v)
	}

	d = reload(t, d)
	if d.rows[0].summary.IsCompletedToday {
		t.Fatal("2 of 3 should not satisfy the goal")
	}

	d, _ = d.update(keyMsg("-"))
	d, _ = d.update(keyMsg("-"))
	d, _ = d.update(keyMsg("-"))
	v, _ = completionValue(t, s, it.ID)
	if !v.IsZero() {
		t.Fatalf("value should floor at 0, got %s", v)
	}
}

func TestTodayCursorMovement(t *testing.T) {
	s := newTestStore(t)
	newTestItem(t, s, "A", 1)
	newTestItem(t, s, "B", 1)

	d, _ := newTestToday(t, s)
	d, _ = d.update(keyMsg("j"))
	d, _ = d.update(keyMsg("j"))
	if d.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", d.cursor)
	}
	d, _ = d.update(keyMsg("k"))
	if d.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", d.cursor)
	}
}

func TestTodayRevealClosesOthers(t *testing.T) {
	s := newTestStore(t)
	newTestItem(t, s, "A", 1)
	newTestItem(t, s, "B", 1)

	d, _ := newTestToday(t, s)
	d, _ = d.update(keyMsg("left"))
	d, _ = d.update(keyMsg("j"))
	d, _ = d.update(keyMsg("left"))
	if d.rows[0].swipe.IsOpen() {
		t.Fatal("revealing a row should close the previously open one")
	}
	if !d.rows[1].swipe.IsOpen() {
		t.Fatal("second row should be open")
	}
	d, _ = d.update(keyMsg("right"))
	if d.rows[1].swipe.IsOpen() {
		t.Fatal("right should close the row")
	}
}

func TestTodayArchiveKey(t *testing.T) {
	s := newTestStore(t)
	it := newTestItem(t, s, "Old", 1)

	d, _ := newTestToday(t, s)
	d, cmd := d.update(keyMsg("d"))
	if cmd == nil {
		t.Fatal("archive should schedule the commit")
	}
	if d.rows[0].swipe.Offset() != d.viewport() {
		t.Fatal("primary action should slide the row off-screen")
	}

	// The delayed commit.
	d, _ = d.update(swipeCommitMsg{itemID: it.ID, action: gesture.ActionPrimary})
	got, _ := s.GetItem(it.ID)
	if !got.Archived {
		t.Fatal("item should be archived after the commit fires")
	}
	d = reload(t, d)
	if len(d.rows) != 0 {
		t.Fatal("archived item should leave the Today list")
	}
}

func TestTodayEditCommitOpensForm(t *testing.T) {
	s := newTestStore(t)
	it := newTestItem(t, s, "Read", 2)

	d, _ := newTestToday(t, s)
	d, cmd := d.update(keyMsg("e"))
	if cmd == nil {
		t.Fatal("edit should schedule the commit")
	}
	d, _ = d.update(swipeCommitMsg{itemID: it.ID, action: gesture.ActionSecondary})
	if !d.form.active {
		t.Fatal("edit commit should open the item form")
	}
	if d.form.editingID != it.ID || *d.form.name != "Read" || *d.form.goal != "2" {
		t.Fatalf("form not prefilled: id=%d name=%q goal=%q", d.form.editingID, *d.form.name, *d.form.goal)
	}

	d, _ = d.update(keyMsg("esc"))
	if d.form.active {
		t.Fatal("esc should close the form")
	}
}

func TestTodayNewOpensForm(t *testing.T) {
	s := newTestStore(t)
	d, _ := newTestToday(t, s)

	d, _ = d.update(keyMsg("n"))
	if !d.form.active || d.form.editingID != 0 {
		t.Fatal("n should open an empty item form")
	}
	if *d.form.goal != "1" {
		t.Fatalf("default goal = %q, want 1", *d.form.goal)
	}
}

func TestTodayRollover(t *testing.T) {
	s := newTestStore(t)
	d, clock := newTestToday(t, s)

	_, cmd := d.update(tickMsg(clock.now()))
	if cmd != nil {
		t.Fatal("same-day tick should not reload")
	}
	clock.advance(24 * time.Hour)
	_, cmd = d.update(tickMsg(clock.now()))
	if cmd == nil {
		t.Fatal("tick after midnight should reload")
	}
}

// ============================================================
// Today view: mouse gestures
// ============================================================

func TestTodayMouseDragOpens(t *testing.T) {
	s := newTestStore(t)
	newTestItem(t, s, "Read", 1)
	d, clock := newTestToday(t, s)

	d, _ = d.update(mouse(tea.MouseActionPress, 100, rowTop))
	if !d.rows[0].swipe.Dragging() {
		t.Fatal("press on a row should start a drag")
	}
	clock.advance(200 * time.Millisecond)
	d, _ = d.update(mouse(tea.MouseActionMotion, 85, rowTop))
	if got := d.rows[0].swipe.Offset(); got != 60 {
		t.Fatalf("live offset = %v, want 60", got)
	}
	clock.advance(200 * time.Millisecond)
	d, _ = d.update(mouse(tea.MouseActionRelease, 85, rowTop))

	sw := d.rows[0].swipe
	if sw.Dragging() {
		t.Fatal("release should end the drag")
	}
	if !sw.IsOpen() || sw.Offset() != sw.Config().ActionZoneWidth {
		t.Fatalf("row should snap open, offset = %v", sw.Offset())
	}
}

func TestTodayMouseShortSlowDragCloses(t *testing.T) {
	s := newTestStore(t)
	newTestItem(t, s, "Read", 1)
	d, clock := newTestToday(t, s)

	d, _ = d.update(mouse(tea.MouseActionPress, 100, rowTop))
	clock.advance(time.Second)
	d, _ = d.update(mouse(tea.MouseActionMotion, 95, rowTop))
	d, _ = d.update(mouse(tea.MouseActionRelease, 95, rowTop))

	if d.rows[0].swipe.IsOpen() {
		t.Fatal("20 units over a second should snap closed")
	}
}

func TestTodayMouseFlickOpens(t *testing.T) {
	s := newTestStore(t)
	newTestItem(t, s, "Read", 1)
	d, clock := newTestToday(t, s)

	d, _ = d.update(mouse(tea.MouseActionPress, 100, rowTop))
	clock.advance(10 * time.Millisecond)
	d, _ = d.update(mouse(tea.MouseActionMotion, 95, rowTop))
	d, _ = d.update(mouse(tea.MouseActionRelease, 95, rowTop))

	if !d.rows[0].swipe.IsOpen() {
		t.Fatal("a fast flick should open the row")
	}
}

func TestTodayMouseClickToggles(t *testing.T) {
	s := newTestStore(t)
	it := newTestItem(t, s, "Read", 1)
	d, _ := newTestToday(t, s)

	d, _ = d.update(mouse(tea.MouseActionPress, 50, rowTop))
	d, cmd := d.update(mouse(tea.MouseActionRelease, 50, rowTop))
	if cmd == nil {
		t.Fatal("click should toggle and reload")
	}
	if _, ok := completionValue(t, s, it.ID); !ok {
		t.Fatal("click on a closed row should complete it")
	}
}

func TestTodayMouseOutsideRows(t *testing.T) {
	s := newTestStore(t)
	newTestItem(t, s, "Read", 1)
	d, _ := newTestToday(t, s)

	d, _ = d.update(mouse(tea.MouseActionPress, 50, 0))
	if d.dragRow != -1 || d.rows[0].swipe.Dragging() {
		t.Fatal("press above the list should be ignored")
	}
	d, _ = d.update(mouse(tea.MouseActionPress, 50, rowTop+5))
	if d.dragRow != -1 {
		t.Fatal("press below the list should be ignored")
	}
}

func TestTodayActionHitTest(t *testing.T) {
	s := newTestStore(t)
	newTestItem(t, s, "Read", 1)
	d, _ := newTestToday(t, s)

	right := rowLeft + d.innerWidth()
	if got := d.actionAt(0, right-1); got != gesture.ActionNone {
		t.Fatalf("closed row has no actions, got %s", got)
	}

	d, _ = d.update(keyMsg("left"))
	tests := []struct {
		x    int
		want gesture.Action
	}{
		{right - 1, gesture.ActionPrimary},
		{right - 10, gesture.ActionPrimary},
		{right - 11, gesture.ActionSecondary},
		{right - 20, gesture.ActionSecondary},
		{right - 21, gesture.ActionNone},
		{right, gesture.ActionNone},
	}
	for _, tt := range tests {
		if got := d.actionAt(0, tt.x); got != tt.want {
			t.Errorf("actionAt(%d) = %s, want %s", tt.x, got, tt.want)
		}
	}
}

func TestTodayMouseClickOnAction(t *testing.T) {
	s := newTestStore(t)
	newTestItem(t, s, "Read", 1)
	d, _ := newTestToday(t, s)
	d, _ = d.update(keyMsg("left"))

	right := rowLeft + d.innerWidth()
	d, cmd := d.update(mouse(tea.MouseActionPress, right-2, rowTop))
	if cmd == nil {
		t.Fatal("click on archive should schedule the commit")
	}
	if d.rows[0].swipe.Dragging() {
		t.Fatal("click on an action must not start a drag")
	}
	if d.rows[0].swipe.Offset() != d.viewport() {
		t.Fatal("archive click should slide the row off-screen")
	}
}

// ============================================================
// Today view: rendering
// ============================================================

func TestTodayViewEmpty(t *testing.T) {
	s := newTestStore(t)
	d, _ := newTestToday(t, s)
	if !strings.Contains(d.view(), "Nothing to track yet") {
		t.Fatal("empty view should invite creating an item")
	}
}

func TestTodayViewRows(t *testing.T) {
	s := newTestStore(t)
	newTestItem(t, s, "Read", 1)
	newTestItem(t, s, "Pushups", 30)
	d, _ := newTestToday(t, s)

	out := d.view()
	for _, want := range []string{"Read", "Pushups", "0/30", "0/2 done"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestRenderRowWidth(t *testing.T) {
	s := newTestStore(t)
	newTestItem(t, s, "A very long habit name that keeps going and going", 1)
	d, _ := newTestToday(t, s)

	width := d.innerWidth()
	if got := lipgloss.Width(d.renderRow(0, d.rows[0], width)); got > width {
		t.Fatalf("closed row is %d wide, limit %d", got, width)
	}

	d, _ = d.update(keyMsg("left"))
	row := d.renderRow(0, d.rows[0], width)
	if got := lipgloss.Width(row); got != width {
		t.Fatalf("open row is %d wide, want %d", got, width)
	}
	if !strings.Contains(row, "archive") || !strings.Contains(row, "edit") {
		t.Fatal("open row should show both actions")
	}
}

func TestRenderActionsPartial(t *testing.T) {
	s := newTestStore(t)
	newTestItem(t, s, "Read", 1)
	d, _ := newTestToday(t, s)

	for _, shift := range []int{1, 5, 10, 11, 20, 40} {
		got := lipgloss.Width(d.renderActions(d.rows[0], shift))
		if got != shift {
			t.Errorf("renderActions(%d) is %d wide", shift, got)
		}
	}
}

func TestCells(t *testing.T) {
	tests := []struct {
		units float64
		want  int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{80, 20},
		{100, 25},
	}
	for _, tt := range tests {
		if got := cells(tt.units); got != tt.want {
			t.Errorf("cells(%v) = %d, want %d", tt.units, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"archive", 4, "arc…"},
		{"archive", 1, "…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.s, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
		}
	}
}

func TestWindowGlyphs(t *testing.T) {
	out := windowGlyphs([]streak.DayStatus{
		streak.DayBeforeCreation, streak.DayUnsatisfied, streak.DaySatisfied, streak.DayFuture,
	})
	if lipgloss.Width(out) != 4 {
		t.Fatalf("expected one column per day, got %d", lipgloss.Width(out))
	}
}

// ============================================================
// Item form
// ============================================================

func TestValidateGoal(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"1", true},
		{"2.5", true},
		{" 30 ", true},
		{"0", false},
		{"-1", false},
		{"abc", false},
		{"", false},
	}
	for _, tt := range tests {
		err := validateGoal(tt.in)
		if (err == nil) != tt.valid {
			t.Errorf("validateGoal(%q) = %v, want valid=%v", tt.in, err, tt.valid)
		}
	}
}

func TestValidateName(t *testing.T) {
	if validateName("  ") == nil {
		t.Fatal("blank name should be rejected")
	}
	if validateName("Read") != nil {
		t.Fatal("name should be accepted")
	}
}

func TestItemFormSaveCreatesAndUpdates(t *testing.T) {
	s := newTestStore(t)
	f := newItemForm()
	f, _ = f.open(nil, "1")
	*f.name = "  Water  "
	*f.goal = "2.5"

	msg := f.save(s, testDay)()
	saved, ok := msg.(itemSavedMsg)
	if !ok || saved.name != "Water" {
		t.Fatalf("unexpected save result: %#v", msg)
	}
	it, err := s.GetItemByName("Water")
	if err != nil {
		t.Fatal(err)
	}
	if it.Goal.String() != "2.5" || it.CreatedDate != testDay {
		t.Fatalf("unexpected item: %+v", it)
	}

	f, _ = f.open(it, "1")
	*f.kind = store.KindTask
	f.save(s, testDay)()
	it, _ = s.GetItem(it.ID)
	if it.Kind != store.KindTask {
		t.Fatal("edit should update the existing item")
	}
}

func TestItemFormSaveDuplicate(t *testing.T) {
	s := newTestStore(t)
	newTestItem(t, s, "Read", 1)

	f := newItemForm()
	f, _ = f.open(nil, "1")
	*f.name = "Read"
	msg := f.save(s, testDay)()
	if st, ok := msg.(statusMsg); !ok || !st.isError {
		t.Fatalf("duplicate name should report an error, got %#v", msg)
	}
}

// ============================================================
// Items view
// ============================================================

func TestItemsRefreshAndArchive(t *testing.T) {
	s := newTestStore(t)
	newTestItem(t, s, "A", 1)
	newTestItem(t, s, "B", 1)

	p := newItemsModel(s)
	p.setSize(120, 36)
	p, _ = p.update(p.refresh()())
	if len(p.items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(p.items))
	}

	p, cmd := p.update(keyMsg("d"))
	if cmd == nil {
		t.Fatal("archive should refresh")
	}
	p, _ = p.update(p.refresh()())
	if len(p.items) != 1 {
		t.Fatalf("archived item should be hidden, got %d", len(p.items))
	}

	p, _ = p.update(keyMsg("a"))
	p, _ = p.update(p.refresh()())
	if len(p.items) != 2 {
		t.Fatal("show archived should list both items")
	}
	if !strings.Contains(p.view(), "archived") {
		t.Fatal("archived marker missing")
	}
}

func TestItemsEditOpensForm(t *testing.T) {
	s := newTestStore(t)
	newTestItem(t, s, "A", 4)

	p := newItemsModel(s)
	p.setSize(120, 36)
	p, _ = p.update(p.refresh()())
	p, _ = p.update(keyMsg("e"))
	if !p.form.active || *p.form.goal != "4" {
		t.Fatal("e should open the form for the selected item")
	}
}

func TestItemsNewUsesDefaultGoal(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("default_goal", "10")

	p := newItemsModel(s)
	p, _ = p.update(keyMsg("n"))
	if *p.form.goal != "10" {
		t.Fatalf("goal = %q, want default 10", *p.form.goal)
	}
}

// ============================================================
// Reports view
// ============================================================

func newTestReports(s *store.Store) reportsModel {
	r := newReportsModel(s)
	r.now = newFakeClock().now // Tuesday
	r.setSize(120, 40)
	return r
}

func TestReportsDailyRange(t *testing.T) {
	r := newTestReports(newTestStore(t))
	r.window = 7

	from, to := r.dateRange()
	if to != testDay || from != testDay.AddDays(-6) {
		t.Fatalf("range = %s..%s", from, to)
	}

	r.offset = 1
	from, to = r.dateRange()
	if to != testDay.AddDays(-7) || from != testDay.AddDays(-13) {
		t.Fatalf("previous range = %s..%s", from, to)
	}
}

func TestReportsWeeklyRange(t *testing.T) {
	r := newTestReports(newTestStore(t))
	r.mode = reportWeekly

	from, to := r.dateRange()
	if from != streak.NewDate(2026, time.March, 9) || to != streak.NewDate(2026, time.March, 15) {
		t.Fatalf("monday week = %s..%s", from, to)
	}

	r.weekStart = time.Sunday
	from, _ = r.dateRange()
	if from != streak.NewDate(2026, time.March, 8) {
		t.Fatalf("sunday week starts %s", from)
	}
}

func TestParseWeekStart(t *testing.T) {
	if parseWeekStart("sunday") != time.Sunday || parseWeekStart("Sunday") != time.Sunday {
		t.Fatal("sunday not parsed")
	}
	if parseWeekStart("monday") != time.Monday || parseWeekStart("") != time.Monday {
		t.Fatal("monday should be the default")
	}
}

func TestReportsRefresh(t *testing.T) {
	s := newTestStore(t)
	a := newTestItem(t, s, "Read", 1)
	b := newTestItem(t, s, "Run", 1)
	for i := 0; i < 3; i++ {
		s.SetCompletion(a.ID, testDay.AddDays(-i), decimal.NewFromInt(1))
	}
	s.SetCompletion(b.ID, testDay, decimal.NewFromInt(1))

	r := newTestReports(s)
	r, _ = r.update(r.refresh()())

	if len(r.items) != 2 {
		t.Fatalf("expected 2 item reports, got %d", len(r.items))
	}
	if r.items[0].item.Name != "Read" || r.items[0].summary.CurrentStreak != 3 {
		t.Fatal("items should be ordered by current streak")
	}
	if len(r.counts) != 3 {
		t.Fatalf("expected 3 days with data, got %d", len(r.counts))
	}

	out := r.view()
	for _, want := range []string{"Reports", "Daily", "Read", "Longest"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestReportsModeAndNavigation(t *testing.T) {
	r := newTestReports(newTestStore(t))

	r, _ = r.update(keyMsg("m"))
	if r.mode != reportWeekly {
		t.Fatal("m should switch to weekly")
	}
	r, _ = r.update(keyMsg("left"))
	if r.offset != 1 {
		t.Fatal("left should go back one period")
	}
	r, _ = r.update(keyMsg("right"))
	r, _ = r.update(keyMsg("right"))
	if r.offset != 0 {
		t.Fatal("offset should not go into the future")
	}
}

// ============================================================
// Settings view
// ============================================================

func TestFormatSettingValue(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"window_days", "14", "14 days"},
		{"window_days", "bad", "bad"},
		{"swipe_threshold", "50", "50 units"},
		{"velocity_threshold", "0.3", "0.3 units/ms"},
		{"week_start", "monday", "Monday"},
		{"default_goal", "1", "1"},
	}
	for _, tt := range tests {
		if got := formatSettingValue(tt.key, tt.value); got != tt.want {
			t.Errorf("formatSettingValue(%q, %q) = %q, want %q", tt.key, tt.value, got, tt.want)
		}
	}
}

func TestSettingsValidators(t *testing.T) {
	if positiveInt("14") != nil || positiveInt("0") == nil || positiveInt("x") == nil {
		t.Fatal("positiveInt misbehaves")
	}
	if positiveFloat("0.3") != nil || positiveFloat("-1") == nil || positiveFloat("") == nil {
		t.Fatal("positiveFloat misbehaves")
	}
}

func TestSettingsSave(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s)
	m, _ = m.showForm()
	if *m.windowDays != "14" || *m.weekStart != "monday" {
		t.Fatal("form should load current values")
	}

	*m.windowDays = " 21 "
	*m.weekStart = "sunday"
	if err := m.saveSettings(); err != nil {
		t.Fatal(err)
	}
	if s.GetInt("window_days", 0) != 21 {
		t.Fatal("window_days not saved")
	}
	if v, _ := s.GetSetting("week_start"); v != "sunday" {
		t.Fatal("week_start not saved")
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)

	if app.activeView != viewToday {
		t.Fatal("default view should be today")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.export.active {
		t.Fatal("export picker should be hidden by default")
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppViewStates(t *testing.T) {
	s := newTestStore(t)
	newTestItem(t, s, "Read", 1)
	app := NewApp(s)
	app.width = 120
	app.height = 40

	for v := range viewNames {
		app.activeView = viewState(v)
		if app.View() == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppTabCycles(t *testing.T) {
	s := newTestStore(t)
	var m tea.Model = NewApp(s)
	for i := 0; i < len(viewNames); i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	if m.(App).activeView != viewToday {
		t.Fatal("tab should wrap around to today")
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	app.width = 120

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	if out := app.View(); out != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", out)
	}
}

func TestAppStatusMessage(t *testing.T) {
	s := newTestStore(t)
	var m tea.Model = NewApp(s)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.Update(statusMsg{text: "test status"})

	if !strings.Contains(m.(App).renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppMouseRoutedWithHeaderOffset(t *testing.T) {
	s := newTestStore(t)
	it := newTestItem(t, s, "Read", 1)

	app := NewApp(s)
	app.today.now = newFakeClock().now
	var m tea.Model = app
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.Update(m.(App).today.loadData()())

	y := lipgloss.Height(m.(App).renderHeader()) + rowTop
	m, _ = m.Update(mouse(tea.MouseActionPress, 50, y))
	m, _ = m.Update(mouse(tea.MouseActionRelease, 50, y))

	if _, ok := completionValue(t, s, it.ID); !ok {
		t.Fatal("click on the first row should toggle it")
	}
}

func TestAppMouseIgnoredOffToday(t *testing.T) {
	s := newTestStore(t)
	newTestItem(t, s, "Read", 1)

	app := NewApp(s)
	app.activeView = viewItems
	_, cmd := app.Update(mouse(tea.MouseActionPress, 50, 8))
	if cmd != nil {
		t.Fatal("mouse should be ignored outside Today")
	}
}

func TestAppExportPicker(t *testing.T) {
	s := newTestStore(t)
	var m tea.Model = NewApp(s)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.Update(keyMsg("x"))

	app := m.(App)
	if !app.export.active {
		t.Fatal("x should open the export picker")
	}
	out := app.View()
	for _, want := range []string{"CSV", "JSON", "YAML"} {
		if !strings.Contains(out, want) {
			t.Fatalf("picker missing %s", want)
		}
	}

	m, _ = m.Update(keyMsg("j"))
	m, _ = m.Update(keyMsg("j"))
	m, _ = m.Update(keyMsg("j"))
	if m.(App).export.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.(App).export.cursor)
	}
	m, _ = m.Update(keyMsg("esc"))
	if m.(App).export.active {
		t.Fatal("esc should close the picker")
	}
}

func TestAppDoExport(t *testing.T) {
	s := newTestStore(t)
	it := newTestItem(t, s, "Read", 1)
	s.SetCompletion(it.ID, testDay, decimal.NewFromInt(1))

	dir := t.TempDir()
	app := NewApp(s).WithExportDir(dir)
	app.today.now = newFakeClock().now

	msg := app.doExport("yaml")()
	done, ok := msg.(exportDoneMsg)
	if !ok {
		t.Fatalf("expected exportDoneMsg, got %#v", msg)
	}
	if done.path != filepath.Join(dir, "habitr-export-2026-03-10.yaml") {
		t.Fatalf("path = %q", done.path)
	}
	data, err := os.ReadFile(done.path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "item: Read") {
		t.Fatal("export should contain the item")
	}
}

// ============================================================
// Key bindings and styles
// ============================================================

func TestKeyMapHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
	for i, g := range keys.FullHelp() {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

func TestStylesRender(t *testing.T) {
	styles := map[string]lipgloss.Style{
		"logo":          logoStyle,
		"title":         titleStyle,
		"muted":         mutedStyle,
		"info":          infoStyle,
		"error":         errorStyle,
		"activeTab":     activeTabStyle,
		"inactiveTab":   inactiveTabStyle,
		"panel":         panelStyle,
		"activePanel":   activePanelStyle,
		"header":        headerStyle,
		"footer":        footerStyle,
		"selectedItem":  selectedItemStyle,
		"normalItem":    normalItemStyle,
		"done":          doneStyle,
		"partial":       partialStyle,
		"missed":        missedStyle,
		"notYet":        notYetStyle,
		"streak":        streakStyle,
		"progress":      progressStyle,
		"editAction":    editActionStyle,
		"archiveAction": archiveActionStyle,
	}
	for name, st := range styles {
		if st.Render("test") == "" {
			t.Fatalf("style %q rendered empty", name)
		}
	}
}

package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/store"
	"github.com/sadopc/habitr/internal/streak"
)

type reportMode int

const (
	reportDaily reportMode = iota
	reportWeekly
)

type itemReport struct {
	item    store.Item
	summary streak.Summary
}

type reportsModel struct {
	store  *store.Store
	width  int
	height int
	now    func() time.Time

	mode      reportMode
	offset    int // periods back from the current one (0 = current)
	window    int
	weekStart time.Weekday

	counts []store.DailyCount
	items  []itemReport

	chart barchart.Model
}

func newReportsModel(s *store.Store) reportsModel {
	return reportsModel{
		store:     s,
		now:       time.Now,
		window:    streak.DefaultWindow,
		weekStart: time.Monday,
		chart:     barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	window    int
	weekStart time.Weekday
	counts    []store.DailyCount
	items     []itemReport
}

func parseWeekStart(v string) time.Weekday {
	if strings.EqualFold(v, "sunday") {
		return time.Sunday
	}
	return time.Monday
}

func (r reportsModel) refresh() tea.Cmd {
	today := streak.DateOf(r.now())
	return func() tea.Msg {
		msg := reportsDataMsg{
			window: r.store.GetInt("window_days", streak.DefaultWindow),
		}
		ws, _ := r.store.GetSetting("week_start")
		msg.weekStart = parseWeekStart(ws)

		r.window, r.weekStart = msg.window, msg.weekStart
		from, to := r.dateRange()
		msg.counts, _ = r.store.GetDailyCounts(from, to)

		items, _ := r.store.ListItems(false)
		for _, it := range items {
			log, err := r.store.GetCompletionLog(it.ID, streak.Date{}, today)
			if err != nil {
				continue
			}
			msg.items = append(msg.items, itemReport{
				item:    it,
				summary: streak.Summarize(it.Trackable(), log, today, 0),
			})
		}
		sort.SliceStable(msg.items, func(i, j int) bool {
			return msg.items[i].summary.CurrentStreak > msg.items[j].summary.CurrentStreak
		})
		return msg
	}
}

// dateRange returns the inclusive range of days the chart covers.
func (r reportsModel) dateRange() (streak.Date, streak.Date) {
	today := streak.DateOf(r.now())

	switch r.mode {
	case reportWeekly:
		back := (int(today.Time().Weekday()) - int(r.weekStart) + 7) % 7
		start := today.AddDays(-back - 7*r.offset)
		return start, start.AddDays(6)
	default:
		n := max(r.window, 1)
		end := today.AddDays(-n * r.offset)
		return end.AddDays(1 - n), end
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.window = msg.window
		r.weekStart = msg.weekStart
		r.counts = msg.counts
		r.items = msg.items
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Mode):
			if r.mode == reportDaily {
				r.mode = reportWeekly
			} else {
				r.mode = reportDaily
			}
			r.offset = 0
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	byDate := make(map[string]store.DailyCount, len(r.counts))
	for _, c := range r.counts {
		byDate[c.Date] = c
	}

	from, to := r.dateRange()
	var bars []barchart.BarData
	for d := from; !d.After(to); d = d.AddDays(1) {
		c := byDate[d.String()]
		bars = append(bars, barchart.BarData{
			Label: d.Time().Format("Mon 02"),
			Values: []barchart.BarValue{
				{Name: "done", Value: float64(c.Satisfied), Style: doneStyle},
				{Name: "partial", Value: float64(c.Logged - c.Satisfied), Style: partialStyle},
			},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	// Mode tabs
	dailyTab := inactiveTabStyle.Render("Daily")
	weeklyTab := inactiveTabStyle.Render("Weekly")
	if r.mode == reportDaily {
		dailyTab = activeTabStyle.Render("Daily")
	} else {
		weeklyTab = activeTabStyle.Render("Weekly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dailyTab, weeklyTab)

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s to %s", from.Time().Format("Jan 02"), to.Time().Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ", dateLabel,
	)

	legend := "  " + doneStyle.Render("■ done") + "  " + partialStyle.Render("■ partial")
	nav := mutedStyle.Render("  ←/→: navigate  m: daily/weekly")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", legend, "", r.renderSummaryTable(w), "", nav,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	if len(r.items) == 0 {
		return mutedStyle.Render("  No items to report on")
	}

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-22s %8s %8s %6s %6s", "Item", "Streak", "Longest", "Rate", "Days"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 54))))

	for _, ir := range r.items {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(ir.item.Color)).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-20s %8d %8d %5d%% %6d",
			colorDot, truncate(ir.item.Name, 20),
			ir.summary.CurrentStreak, ir.summary.LongestStreak,
			ir.summary.CompletionRate, ir.summary.TotalDays,
		))
	}

	return strings.Join(rows, "\n")
}

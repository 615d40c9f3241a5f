// Package streak derives streaks, completion rates and recent-activity windows
// from a per-item log of dated completion records. Everything here is pure:
// "today" is always passed in by the caller.
package streak

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultWindow is the width of the recent-activity bar.
const DefaultWindow = 14

// DayStatus classifies one day of the recent-activity window.
type DayStatus string

const (
	DayBeforeCreation DayStatus = "before-creation"
	DayFuture         DayStatus = "future"
	DaySatisfied      DayStatus = "satisfied"
	DayUnsatisfied    DayStatus = "unsatisfied"
)

// CompletionRecord is the progress recorded for one item on one day.
type CompletionRecord struct {
	Date  Date            `json:"date" yaml:"date"`
	Value decimal.Decimal `json:"value" yaml:"value"`
}

// Log holds at most one record per day.
type Log map[Date]CompletionRecord

// NewLog builds a log from records; a later record for the same day replaces an earlier one.
func NewLog(records ...CompletionRecord) Log {
	l := make(Log, len(records))
	for _, r := range records {
		l.Put(r)
	}
	return l
}

// Put upserts r: last write wins.
func (l Log) Put(r CompletionRecord) {
	l[r.Date] = r
}

// Records returns the log ordered by date.
func (l Log) Records() []CompletionRecord {
	out := make([]CompletionRecord, 0, len(l))
	for _, r := range l {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Item is the read-only parameter set of a trackable item.
type Item struct {
	Goal        decimal.Decimal
	CreatedDate Date
}

// Summary is what the rendering layer needs for one item.
type Summary struct {
	CurrentStreak    int         `json:"current_streak" yaml:"current_streak"`
	LongestStreak    int         `json:"longest_streak" yaml:"longest_streak"`
	CompletionRate   int         `json:"completion_rate" yaml:"completion_rate"`
	IsCompletedToday bool        `json:"is_completed_today" yaml:"is_completed_today"`
	TotalDays        int         `json:"total_days" yaml:"total_days"`
	Window           []DayStatus `json:"window" yaml:"window"`
}

// NormalizeGoal clamps a zero or negative goal to 1.
func NormalizeGoal(goal decimal.Decimal) decimal.Decimal {
	if !goal.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return goal
}

// ValidateGoal is the strict counterpart of NormalizeGoal.
func ValidateGoal(goal decimal.Decimal) error {
	if !goal.IsPositive() {
		return ErrInvalidGoal
	}
	return nil
}

// IsCompletedOn reports whether the record for date meets goal.
func IsCompletedOn(log Log, date Date, goal decimal.Decimal) bool {
	r, ok := log[date]
	if !ok {
		return false
	}
	return r.Value.GreaterThanOrEqual(NormalizeGoal(goal))
}

// ComputeStreak counts consecutive satisfied days ending today. An unsatisfied
// today does not break the streak; it is simply not counted.
func ComputeStreak(log Log, createdDate, today Date, goal decimal.Decimal) int {
	if createdDate.After(today) {
		return 0
	}
	goal = NormalizeGoal(goal)

	streak := 0
	for d := today; !d.Before(createdDate); d = d.AddDays(-1) {
		if IsCompletedOn(log, d, goal) {
			streak++
			continue
		}
		if d == today {
			continue
		}
		break
	}
	return streak
}

// LongestStreak returns the longest run of consecutive satisfied days in [createdDate, today].
func LongestStreak(log Log, createdDate, today Date, goal decimal.Decimal) int {
	start := clampStart(createdDate, today)
	goal = NormalizeGoal(goal)

	var days []Date
	for d, r := range log {
		if d.Before(start) || d.After(today) || r.Value.LessThan(goal) {
			continue
		}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 0, 0
	for i, d := range days {
		if i > 0 && DaysBetween(days[i-1], d) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// CompletionRate is the rounded percentage of satisfied days in [createdDate, today].
// A createdDate after today collapses the range to today alone.
func CompletionRate(log Log, createdDate, today Date, goal decimal.Decimal) int {
	start := clampStart(createdDate, today)
	total := DaysBetween(start, today) + 1
	goal = NormalizeGoal(goal)

	satisfied := 0
	for d, r := range log {
		if d.Before(start) || d.After(today) {
			continue
		}
		if r.Value.GreaterThanOrEqual(goal) {
			satisfied++
		}
	}

	rate := decimal.NewFromInt(int64(100 * satisfied)).
		Div(decimal.NewFromInt(int64(total))).
		Round(0)
	return int(rate.IntPart())
}

// ClassifyWindow returns exactly n statuses for the n days ending today, oldest first.
func ClassifyWindow(log Log, createdDate, today Date, goal decimal.Decimal, n int) []DayStatus {
	if n <= 0 {
		return []DayStatus{}
	}
	goal = NormalizeGoal(goal)

	out := make([]DayStatus, n)
	for i := range out {
		d := today.AddDays(i - (n - 1))
		switch {
		case d.Before(createdDate):
			out[i] = DayBeforeCreation
		case d.After(today):
			out[i] = DayFuture
		case IsCompletedOn(log, d, goal):
			out[i] = DaySatisfied
		default:
			out[i] = DayUnsatisfied
		}
	}
	return out
}

// Summarize computes every derived value for item. An unset CreatedDate means today.
func Summarize(item Item, log Log, today Date, window int) Summary {
	created := item.CreatedDate
	if created.IsZero() {
		created = today
	}
	goal := NormalizeGoal(item.Goal)

	return Summary{
		CurrentStreak:    ComputeStreak(log, created, today, goal),
		LongestStreak:    LongestStreak(log, created, today, goal),
		CompletionRate:   CompletionRate(log, created, today, goal),
		IsCompletedToday: IsCompletedOn(log, today, goal),
		TotalDays:        DaysBetween(clampStart(created, today), today) + 1,
		Window:           ClassifyWindow(log, created, today, goal, window),
	}
}

func clampStart(createdDate, today Date) Date {
	if createdDate.After(today) {
		return today
	}
	return createdDate
}

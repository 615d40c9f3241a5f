package store

import (
	"time"

	"github.com/sadopc/habitr/internal/streak"
	"github.com/shopspring/decimal"
)

const (
	KindHabit = "habit"
	KindTask  = "task"
)

// Item is a habit or repeating task whose daily completion is logged.
type Item struct {
	ID          int64
	Name        string
	Color       string
	Kind        string
	Goal        decimal.Decimal
	CreatedDate streak.Date
	Archived    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Trackable returns the parameters the streak engine needs.
func (i Item) Trackable() streak.Item {
	return streak.Item{Goal: i.Goal, CreatedDate: i.CreatedDate}
}

type Completion struct {
	ID        int64
	ItemID    int64
	Date      streak.Date
	Value     decimal.Decimal
	UpdatedAt time.Time
}

type Setting struct {
	Key   string
	Value string
}

// CompletionFilter is used to filter completions in queries.
type CompletionFilter struct {
	ItemID *int64
	From   *streak.Date
	To     *streak.Date // inclusive
	Limit  int
}

// DailyCount is the number of items logged and satisfied on one day.
type DailyCount struct {
	Date      string
	Logged    int
	Satisfied int
}

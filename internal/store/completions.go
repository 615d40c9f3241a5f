package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sadopc/habitr/internal/streak"
	"github.com/shopspring/decimal"
)

// SetCompletion records value for (itemID, date). A second write for the same
// day replaces the first.
func (s *Store) SetCompletion(itemID int64, date streak.Date, value decimal.Decimal) (*Completion, error) {
	if value.IsNegative() {
		value = decimal.Zero
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO completions (item_id, date, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(item_id, date) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		itemID, date.String(), value.String(), now,
	)
	if err != nil {
		return nil, fmt.Errorf("set completion: %w", err)
	}
	return s.GetCompletion(itemID, date)
}

// AddProgress adds delta to the day's value, never going below zero.
func (s *Store) AddProgress(itemID int64, date streak.Date, delta decimal.Decimal) (*Completion, error) {
	current := decimal.Zero
	c, err := s.GetCompletion(itemID, date)
	switch {
	case err == nil:
		current = c.Value
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}
	return s.SetCompletion(itemID, date, current.Add(delta))
}

func (s *Store) ClearCompletion(itemID int64, date streak.Date) error {
	_, err := s.db.Exec(`DELETE FROM completions WHERE item_id = ? AND date = ?`, itemID, date.String())
	if err != nil {
		return fmt.Errorf("clear completion: %w", err)
	}
	return nil
}

func (s *Store) GetCompletion(itemID int64, date streak.Date) (*Completion, error) {
	var c Completion
	var dateStr, value, updatedAt string
	err := s.db.QueryRow(
		`SELECT id, item_id, date, value, updated_at FROM completions WHERE item_id = ? AND date = ?`,
		itemID, date.String(),
	).Scan(&c.ID, &c.ItemID, &dateStr, &value, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get completion %d/%s: %w", itemID, date, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get completion %d/%s: %w", itemID, date, err)
	}
	if err := fillCompletion(&c, dateStr, value, updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListCompletions(f CompletionFilter) ([]Completion, error) {
	query := `SELECT id, item_id, date, value, updated_at FROM completions WHERE 1=1`
	var args []any

	if f.ItemID != nil {
		query += ` AND item_id = ?`
		args = append(args, *f.ItemID)
	}
	if f.From != nil {
		query += ` AND date >= ?`
		args = append(args, f.From.String())
	}
	if f.To != nil {
		query += ` AND date <= ?`
		args = append(args, f.To.String())
	}
	query += ` ORDER BY date DESC, item_id`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var completions []Completion
	for rows.Next() {
		var c Completion
		var dateStr, value, updatedAt string
		if err := rows.Scan(&c.ID, &c.ItemID, &dateStr, &value, &updatedAt); err != nil {
			return nil, err
		}
		if err := fillCompletion(&c, dateStr, value, updatedAt); err != nil {
			slog.Warn("skipping malformed completion", "id", c.ID, "error", err)
			continue
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// GetCompletionLog returns the item's log restricted to [from, to]. Zero dates leave that side open.
func (s *Store) GetCompletionLog(itemID int64, from, to streak.Date) (streak.Log, error) {
	f := CompletionFilter{ItemID: &itemID}
	if !from.IsZero() {
		f.From = &from
	}
	if !to.IsZero() {
		f.To = &to
	}
	completions, err := s.ListCompletions(f)
	if err != nil {
		return nil, err
	}
	log := streak.NewLog()
	for _, c := range completions {
		log.Put(streak.CompletionRecord{Date: c.Date, Value: c.Value})
	}
	return log, nil
}

// GetDailyCounts aggregates completions per day over [from, to] for active items.
func (s *Store) GetDailyCounts(from, to streak.Date) ([]DailyCount, error) {
	rows, err := s.db.Query(`
		SELECT c.date,
		       COUNT(*),
		       SUM(CASE WHEN CAST(c.value AS REAL) >= CAST(i.goal AS REAL) THEN 1 ELSE 0 END)
		FROM completions c
		JOIN items i ON i.id = c.item_id
		WHERE i.archived = 0
		  AND c.date >= ? AND c.date <= ?
		GROUP BY c.date
		ORDER BY c.date`,
		from.String(), to.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	defer rows.Close()

	var counts []DailyCount
	for rows.Next() {
		var dc DailyCount
		if err := rows.Scan(&dc.Date, &dc.Logged, &dc.Satisfied); err != nil {
			return nil, err
		}
		counts = append(counts, dc)
	}
	return counts, rows.Err()
}

func fillCompletion(c *Completion, dateStr, value, updatedAt string) error {
	d, err := streak.ParseDate(dateStr)
	if err != nil {
		return err
	}
	v, err := decimal.NewFromString(value)
	if err != nil {
		return fmt.Errorf("completion value %q: %w", value, err)
	}
	c.Date = d
	c.Value = v
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return nil
}

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/habitr/internal/streak"
	"github.com/shopspring/decimal"
)

const itemColumns = `id, name, color, kind, goal, created_date, archived, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	it := &Item{}
	var goal, createdDate, createdAt, updatedAt string
	var archived int
	if err := row.Scan(&it.ID, &it.Name, &it.Color, &it.Kind, &goal, &createdDate, &archived, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	g, err := decimal.NewFromString(goal)
	if err != nil {
		return nil, fmt.Errorf("item %d goal %q: %w", it.ID, goal, err)
	}
	it.Goal = g
	it.CreatedDate, err = streak.ParseDate(createdDate)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", it.ID, err)
	}
	it.Archived = archived == 1
	it.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	it.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return it, nil
}

// CreateItem inserts a new item. A non-positive goal is stored as 1.
func (s *Store) CreateItem(name, color, kind string, goal decimal.Decimal, created streak.Date) (*Item, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO items (name, color, kind, goal, created_date, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		name, color, kind, streak.NormalizeGoal(goal).String(), created.String(), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetItem(id)
}

func (s *Store) GetItem(id int64) (*Item, error) {
	it, err := scanItem(s.db.QueryRow(`SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return it, nil
}

func (s *Store) GetItemByName(name string) (*Item, error) {
	it, err := scanItem(s.db.QueryRow(`SELECT `+itemColumns+` FROM items WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get item %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get item %q: %w", name, err)
	}
	return it, nil
}

func (s *Store) ListItems(includeArchived bool) ([]Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (s *Store) UpdateItem(id int64, name, color, kind string, goal decimal.Decimal) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE items SET name = ?, color = ?, kind = ?, goal = ?, updated_at = ? WHERE id = ?`,
		name, color, kind, streak.NormalizeGoal(goal).String(), now, id,
	)
	if err != nil {
		return fmt.Errorf("update item %d: %w", id, err)
	}
	return nil
}

func (s *Store) ArchiveItem(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE items SET archived = 1, updated_at = ? WHERE id = ?`, now, id,
	)
	return err
}

// DeleteItem removes an item and, through the foreign key, its completions.
func (s *Store) DeleteItem(id int64) error {
	res, err := s.db.Exec(`DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete item %d: %w", id, ErrNotFound)
	}
	return nil
}

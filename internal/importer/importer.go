// Package importer loads a JSON completion log into the store.
//
// A document names one item and lists its dated records:
//
//	{"item": "Read", "goal": 1, "created": "2026-01-01",
//	 "records": [{"date": "2026-01-02", "value": 1}]}
//
// Records are upserted, so importing the same document twice is harmless and
// a later record for a day replaces an earlier one.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sadopc/habitr/internal/store"
	"github.com/sadopc/habitr/internal/streak"
	"github.com/shopspring/decimal"
	"github.com/xeipuuv/gojsonschema"
)

var ErrInvalidDocument = errors.New("invalid import document")

const documentSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["item", "records"],
  "properties": {
    "item": { "type": "string", "minLength": 1 },
    "kind": { "enum": ["habit", "task"] },
    "goal": { "type": "number", "exclusiveMinimum": 0 },
    "color": { "type": "string" },
    "created": { "type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$" },
    "records": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["date", "value"],
        "properties": {
          "date": { "type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$" },
          "value": { "type": "number", "minimum": 0 }
        }
      }
    }
  }
}`

var documentSchemaLoader = gojsonschema.NewStringLoader(documentSchemaJSON)

const defaultColor = "#6C63FF"

// Document is a parsed, validated import file.
type Document struct {
	Item    string
	Kind    string
	Color   string
	Goal    decimal.Decimal
	Created streak.Date
	Records []streak.CompletionRecord
}

type rawDocument struct {
	Item    string          `json:"item"`
	Kind    string          `json:"kind"`
	Color   string          `json:"color"`
	Goal    decimal.Decimal `json:"goal"`
	Created string          `json:"created"`
	Records []struct {
		Date  string          `json:"date"`
		Value decimal.Decimal `json:"value"`
	} `json:"records"`
}

// Parse validates data against the document schema and converts it.
// Calendar-invalid dates such as 2026-02-30 pass the schema but fail here.
func Parse(data []byte) (*Document, error) {
	result, err := gojsonschema.Validate(documentSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if !result.Valid() {
		var issues []string
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(issues, "; "))
	}

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	doc := &Document{
		Item:  raw.Item,
		Kind:  raw.Kind,
		Color: raw.Color,
		Goal:  raw.Goal,
	}
	if raw.Created != "" {
		if doc.Created, err = streak.ParseDate(raw.Created); err != nil {
			return nil, fmt.Errorf("%w: created: %v", ErrInvalidDocument, err)
		}
	}
	for i, r := range raw.Records {
		d, err := streak.ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidDocument, i, err)
		}
		doc.Records = append(doc.Records, streak.CompletionRecord{Date: d, Value: r.Value})
	}
	return doc, nil
}

// createdDate is the explicit created date, else the earliest record, else today.
func (d *Document) createdDate(today streak.Date) streak.Date {
	if !d.Created.IsZero() {
		return d.Created
	}
	created := today
	for _, r := range d.Records {
		if r.Date.Before(created) {
			created = r.Date
		}
	}
	return created
}

// Result reports what Apply did.
type Result struct {
	Item     *store.Item
	Created  bool
	Imported int
}

// Apply writes doc into s, creating the item when no item of that name exists.
// The whole import is one transaction: on error, or when ctx is cancelled
// between records, nothing is written. progress, if non-nil, is called once per
// record written.
func Apply(ctx context.Context, s *store.Store, doc *Document, today streak.Date, progress func()) (*Result, error) {
	res := &Result{}

	err := s.WithTx(func(tx *store.Store) error {
		item, err := tx.GetItemByName(doc.Item)
		switch {
		case errors.Is(err, store.ErrNotFound):
			kind := doc.Kind
			if kind == "" {
				kind = store.KindHabit
			}
			color := doc.Color
			if color == "" {
				color = defaultColor
			}
			item, err = tx.CreateItem(doc.Item, color, kind, doc.Goal, doc.createdDate(today))
			if err != nil {
				return fmt.Errorf("create %q: %w", doc.Item, err)
			}
			res.Created = true
		case err != nil:
			return err
		}
		res.Item = item

		for _, r := range doc.Records {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("import %s: %w", doc.Item, err)
			}
			if _, err := tx.SetCompletion(item.ID, r.Date, r.Value); err != nil {
				return fmt.Errorf("import %s: %w", r.Date, err)
			}
			res.Imported++
			if progress != nil {
				progress()
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Created {
		slog.Info("import created item", "item", res.Item.Name, "id", res.Item.ID)
	}
	slog.Debug("import finished", "item", res.Item.Name, "records", res.Imported)
	return res, nil
}

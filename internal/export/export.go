// Package export writes completion logs and per-item summaries to CSV, JSON
// and YAML files.
package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/sadopc/habitr/internal/store"
	"github.com/sadopc/habitr/internal/streak"
)

const unknownItem = "Unknown"

// Data is everything an export needs, gathered up front so writers never
// touch the store.
type Data struct {
	Completions []store.Completion
	Items       map[int64]*store.Item
	Summaries   map[int64]streak.Summary
}

// Collect loads all items (archived included) and their completions from s,
// summarizing each item as of today.
func Collect(s *store.Store, today streak.Date, window int) (*Data, error) {
	items, err := s.ListItems(true)
	if err != nil {
		return nil, err
	}
	completions, err := s.ListCompletions(store.CompletionFilter{})
	if err != nil {
		return nil, err
	}

	d := &Data{
		Completions: completions,
		Items:       make(map[int64]*store.Item, len(items)),
		Summaries:   make(map[int64]streak.Summary, len(items)),
	}
	for i := range items {
		it := &items[i]
		log, err := s.GetCompletionLog(it.ID, streak.Date{}, today)
		if err != nil {
			return nil, fmt.Errorf("summarize %q: %w", it.Name, err)
		}
		d.Items[it.ID] = it
		d.Summaries[it.ID] = streak.Summarize(it.Trackable(), log, today, window)
	}
	return d, nil
}

type record struct {
	Item      string `json:"item" yaml:"item"`
	ItemID    int64  `json:"item_id" yaml:"item_id"`
	Date      string `json:"date" yaml:"date"`
	Value     string `json:"value" yaml:"value"`
	Goal      string `json:"goal,omitempty" yaml:"goal,omitempty"`
	Satisfied bool   `json:"satisfied" yaml:"satisfied"`
}

type itemSummary struct {
	ID       int64          `json:"id" yaml:"id"`
	Name     string         `json:"name" yaml:"name"`
	Kind     string         `json:"kind" yaml:"kind"`
	Goal     string         `json:"goal" yaml:"goal"`
	Created  string         `json:"created" yaml:"created"`
	Archived bool           `json:"archived,omitempty" yaml:"archived,omitempty"`
	Summary  streak.Summary `json:"summary" yaml:"summary"`
}

type document struct {
	ExportedAt string        `json:"exported_at" yaml:"exported_at"`
	Count      int           `json:"count" yaml:"count"`
	Records    []record      `json:"records" yaml:"records"`
	Items      []itemSummary `json:"items,omitempty" yaml:"items,omitempty"`
}

func (d *Data) record(c store.Completion) record {
	r := record{
		Item:   unknownItem,
		ItemID: c.ItemID,
		Date:   c.Date.String(),
		Value:  c.Value.String(),
	}
	if d == nil {
		return r
	}
	if it, ok := d.Items[c.ItemID]; ok {
		goal := streak.NormalizeGoal(it.Goal)
		r.Item = it.Name
		r.Goal = goal.String()
		r.Satisfied = c.Value.GreaterThanOrEqual(goal)
	}
	return r
}

func (d *Data) document() document {
	doc := document{ExportedAt: time.Now().UTC().Format(time.RFC3339)}
	if d == nil {
		return doc
	}
	doc.Count = len(d.Completions)
	for _, c := range d.Completions {
		doc.Records = append(doc.Records, d.record(c))
	}

	for id, it := range d.Items {
		doc.Items = append(doc.Items, itemSummary{
			ID:       id,
			Name:     it.Name,
			Kind:     it.Kind,
			Goal:     streak.NormalizeGoal(it.Goal).String(),
			Created:  it.CreatedDate.String(),
			Archived: it.Archived,
			Summary:  d.Summaries[id],
		})
	}
	sort.Slice(doc.Items, func(i, j int) bool { return doc.Items[i].Name < doc.Items[j].Name })
	return doc
}

// Formats lists the supported export formats in menu order.
var Formats = []string{"csv", "json", "yaml"}

// Write dispatches to the writer for format.
func Write(d *Data, format, path string) error {
	switch format {
	case "csv":
		return ToCSV(d, path)
	case "json":
		return ToJSON(d, path)
	case "yaml", "yml":
		return ToYAML(d, path)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

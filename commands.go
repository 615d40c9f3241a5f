package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sadopc/habitr/internal/export"
	"github.com/sadopc/habitr/internal/importer"
	"github.com/sadopc/habitr/internal/store"
	"github.com/sadopc/habitr/internal/streak"
	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func today() streak.Date {
	return streak.DateOf(now())
}

// parseDay reads a --date flag; empty means today.
func parseDay(s string) (streak.Date, error) {
	if s == "" {
		return today(), nil
	}
	return streak.ParseDate(s)
}

func addCmd() *cobra.Command {
	var (
		goal    string
		kind    string
		color   string
		created string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a habit or task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("name is required")
			}
			if kind != store.KindHabit && kind != store.KindTask {
				return fmt.Errorf("invalid kind %q: want %s or %s", kind, store.KindHabit, store.KindTask)
			}
			g, err := decimal.NewFromString(goal)
			if err != nil {
				return fmt.Errorf("invalid goal %q: %w", goal, err)
			}
			if err := streak.ValidateGoal(g); err != nil {
				return err
			}
			day, err := parseDay(created)
			if err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			it, err := s.CreateItem(name, color, kind, g, day)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %q (goal %s, since %s)\n", it.Kind, it.Name, it.Goal, it.CreatedDate)
			return nil
		},
	}

	cmd.Flags().StringVar(&goal, "goal", "1", "daily goal")
	cmd.Flags().StringVar(&kind, "kind", store.KindHabit, "item kind (habit, task)")
	cmd.Flags().StringVar(&color, "color", "#6C63FF", "display color")
	cmd.Flags().StringVar(&created, "created", "", "first tracked day, YYYY-MM-DD (default: today)")
	return cmd
}

func logCmd() *cobra.Command {
	var (
		date string
		add  bool
	)

	cmd := &cobra.Command{
		Use:   "log <item> [value]",
		Short: "Record a day's value for an item",
		Long: `Record a day's value for an item. Without a value the item's goal is
recorded, which marks the day done. With --add the value is added to what
is already logged.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(date)
			if err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			it, err := s.GetItemByName(args[0])
			if err != nil {
				return fmt.Errorf("find %q: %w", args[0], err)
			}
			goal := streak.NormalizeGoal(it.Goal)

			value := goal
			if add {
				value = decimal.NewFromInt(1)
			}
			if len(args) == 2 {
				value, err = decimal.NewFromString(args[1])
				if err != nil {
					return fmt.Errorf("invalid value %q: %w", args[1], err)
				}
			}

			var c *store.Completion
			if add {
				c, err = s.AddProgress(it.ID, day, value)
			} else {
				c, err = s.SetCompletion(it.ID, day, value)
			}
			if err != nil {
				return err
			}

			log, err := s.GetCompletionLog(it.ID, streak.Date{}, today())
			if err != nil {
				return err
			}
			sum := streak.Summarize(it.Trackable(), log, today(), 0)

			status := "not done"
			if c.Value.GreaterThanOrEqual(goal) {
				status = "done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s/%s %s, streak %d\n",
				it.Name, day, c.Value, goal, status, sum.CurrentStreak)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day to log, YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&add, "add", false, "add to the day's value instead of replacing it")
	return cmd
}

// statsEntry is one item's line of `habitr stats`.
type statsEntry struct {
	Item           string `json:"item" yaml:"item"`
	Kind           string `json:"kind" yaml:"kind"`
	Goal           string `json:"goal" yaml:"goal"`
	streak.Summary `yaml:",inline"`
}

func statsCmd() *cobra.Command {
	var (
		format   string
		window   int
		archived bool
	)

	cmd := &cobra.Command{
		Use:   "stats [item]",
		Short: "Show streaks and completion rates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if !cmd.Flags().Changed("window") {
				window = s.GetInt("window_days", streak.DefaultWindow)
			}

			var items []store.Item
			if len(args) == 1 {
				it, err := s.GetItemByName(args[0])
				if err != nil {
					return fmt.Errorf("find %q: %w", args[0], err)
				}
				items = []store.Item{*it}
			} else if items, err = s.ListItems(archived); err != nil {
				return err
			}

			day := today()
			entries := make([]statsEntry, 0, len(items))
			for _, it := range items {
				log, err := s.GetCompletionLog(it.ID, streak.Date{}, day)
				if err != nil {
					return err
				}
				entries = append(entries, statsEntry{
					Item:    it.Name,
					Kind:    it.Kind,
					Goal:    streak.NormalizeGoal(it.Goal).String(),
					Summary: streak.Summarize(it.Trackable(), log, day, window),
				})
			}
			return writeStats(cmd.OutOrStdout(), format, entries)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json, yaml)")
	cmd.Flags().IntVar(&window, "window", streak.DefaultWindow, "days in the activity window (default: window_days setting)")
	cmd.Flags().BoolVar(&archived, "archived", false, "include archived items")
	return cmd
}

func writeStats(w io.Writer, format string, entries []statsEntry) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(entries)
	case "text":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No items. Create one with `habitr add <name>`.")
		return nil
	}
	fmt.Fprintf(w, "%-24s %6s %7s %5s %6s  %s\n", "ITEM", "STREAK", "LONGEST", "RATE", "TODAY", "WINDOW")
	for _, e := range entries {
		done := "-"
		if e.IsCompletedToday {
			done = "yes"
		}
		fmt.Fprintf(w, "%-24s %6d %7d %4d%% %6s  %s\n",
			e.Item, e.CurrentStreak, e.LongestStreak, e.CompletionRate, done, windowBar(e.Window))
	}
	return nil
}

func windowBar(window []streak.DayStatus) string {
	var b strings.Builder
	for _, st := range window {
		switch st {
		case streak.DaySatisfied:
			b.WriteString("■")
		case streak.DayUnsatisfied:
			b.WriteString("□")
		default:
			b.WriteString("·")
		}
	}
	return b.String()
}

func importCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import completion logs from JSON documents",
		Long: `Import completion logs from JSON documents of the form

  {"item": "Read", "goal": 1, "created": "2026-01-01",
   "records": [{"date": "2026-01-01", "value": 1}]}

Unknown items are created. Records overwrite any value already logged for
the same day.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			for _, path := range args {
				if err := importFile(cmd, s, path, quiet); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "hide the progress bar")
	return cmd
}

func importFile(cmd *cobra.Command, s *store.Store, path string, quiet bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := importer.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	var progress func()
	if !quiet && len(doc.Records) > 0 {
		bar := newProgressBar(cmd.ErrOrStderr(), len(doc.Records), doc.Item)
		progress = func() {
			if err := bar.Add(1); err != nil {
				slog.Warn("failed to update progress bar", "error", err)
			}
		}
	}

	res, err := importer.Apply(cmd.Context(), s, doc, today(), progress)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	verb := "into"
	if res.Created {
		verb = "into new item"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records %s %q\n", res.Imported, verb, res.Item.Name)
	return nil
}

func newProgressBar(w io.Writer, total int, item string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]Importing %s[reset]", item)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}

func exportCmd() *cobra.Command {
	var (
		format string
		out    string
		window int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export completion logs and summaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format = strings.ToLower(format)
			if format == "yml" {
				format = "yaml"
			}
			if out == "" {
				out = fmt.Sprintf("habitr-export-%s.%s", today(), format)
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if !cmd.Flags().Changed("window") {
				window = s.GetInt("window_days", streak.DefaultWindow)
			}

			data, err := export.Collect(s, today(), window)
			if err != nil {
				return err
			}
			if err := export.Write(data, format, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(data.Completions), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "export format ("+strings.Join(export.Formats, ", ")+")")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: habitr-export-<date>.<format>)")
	cmd.Flags().IntVar(&window, "window", streak.DefaultWindow, "days in each summary's activity window")
	return cmd
}

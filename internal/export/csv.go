package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// ToCSV writes one row per completion record.
func ToCSV(d *Data, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Item", "Item ID", "Date", "Value", "Goal", "Satisfied"}); err != nil {
		return err
	}

	if d != nil {
		for _, c := range d.Completions {
			r := d.record(c)
			row := []string{
				r.Item,
				strconv.FormatInt(r.ItemID, 10),
				r.Date,
				r.Value,
				r.Goal,
				strconv.FormatBool(r.Satisfied),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

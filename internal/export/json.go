package export

import (
	"encoding/json"
	"fmt"
	"os"
)

// ToJSON writes the records plus per-item summaries as indented JSON.
func ToJSON(d *Data, path string) error {
	data, err := json.MarshalIndent(d.document(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

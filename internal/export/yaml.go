package export

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ToYAML writes the same document as ToJSON in YAML form.
func ToYAML(d *Data, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create yaml file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(d.document()); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

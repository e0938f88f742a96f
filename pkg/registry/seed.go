package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed populates the registry from a YAML document mapping keys to scalar
// values. Booleans, integers, floats and strings are supported; integers are
// stored as int64. A key that already exists with the matching type keeps
// its current value (GetOrCreate semantics). Any other value type fails the
// whole seed.
func Seed(r *Registry, data []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse seed document: %w", err)
	}

	for key, value := range doc {
		switch v := value.(type) {
		case bool:
			Bool(r, key, v)
		case int:
			Int(r, key, int64(v))
		case int64:
			Int(r, key, v)
		case float64:
			Float(r, key, v)
		case string:
			String(r, key, v)
		default:
			return fmt.Errorf("seed key %q: unsupported value type %T", key, value)
		}
	}
	return nil
}

// SeedFile populates the registry from the YAML file at path.
func SeedFile(r *Registry, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	return Seed(r, data)
}

// Package store persists a book snapshot as a YAML file.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/pocketbook/internal/model"
)

// Load reads a snapshot from path.
func Load(path string) (model.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("reading book: %w", err)
	}
	var snap model.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("parsing book %s: %w", path, err)
	}
	return snap, nil
}

// Save writes snap to path. The file is replaced atomically so a failed
// write never leaves a truncated book behind.
func Save(path string, snap model.Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling book: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".book-*.yaml")
	if err != nil {
		return fmt.Errorf("writing book: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing book: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing book: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing book: %w", err)
	}
	return nil
}

package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads a snapshot from a JSON file. It returns nil, nil if the file doesn't exist.
func Load(filePath string) (*Snapshot, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	if snap.Version != Version {
		return nil, fmt.Errorf("state file version %d, want %d", snap.Version, Version)
	}
	snap.normalize()
	return &snap, nil
}

// Save writes the snapshot to a JSON file, creating parent directories.
func Save(filePath string, snap *Snapshot) error {
	snap.Version = Version
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filePath)
}

package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Row is one backed-up record, keyed by column name.
type Row = map[string]any

// Snapshot is the on-disk backup format. Limit is null when the export
// ran without a row cap.
type Snapshot struct {
	GeneratedAt    time.Time        `json:"generatedAt"`
	Limit          *int             `json:"limit"`
	SourceDatabase string           `json:"sourceDatabase"`
	Authenticated  bool             `json:"authenticated"`
	Tables         map[string][]Row `json:"tables"`
}

// Filename derives the snapshot filename from the generation time.
// Colons are swapped for dashes so the name survives every filesystem.
func Filename(at time.Time) string {
	stamp := strings.ReplaceAll(at.UTC().Format(time.RFC3339), ":", "-")
	return "latest-backup-" + stamp + ".json"
}

// Write persists the snapshot under dir and returns the full path.
func (s *Snapshot) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}
	path := filepath.Join(dir, Filename(s.GeneratedAt))

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing snapshot %q: %w", path, err)
	}
	return path, nil
}

// Load reads a snapshot file from disk.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %q: %w", path, err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decoding snapshot %q: %w", path, err)
	}
	if snapshot.Tables == nil {
		snapshot.Tables = map[string][]Row{}
	}
	return &snapshot, nil
}

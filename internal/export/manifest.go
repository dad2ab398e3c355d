package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const (
	// ManifestFileName is written next to the snapshot.
	ManifestFileName    = ".export-manifest.json"
	manifestFileVersion = 1
)

// Manifest records the outcome of the last successful export.
type Manifest struct {
	Version     int            `json:"version"`
	BuildID     string         `json:"build_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Output      string         `json:"output"`
	PostCount   int            `json:"post_count"`
	Categories  map[string]int `json:"categories"`
	Checksum    string         `json:"checksum"`
}

func newManifest(buildID string, generatedAt time.Time, output string, entries []Entry, checksum string) Manifest {
	categories := map[string]int{}
	for _, entry := range entries {
		categories[entry.Category]++
	}
	return Manifest{
		Version:     manifestFileVersion,
		BuildID:     buildID,
		GeneratedAt: generatedAt.UTC(),
		Output:      output,
		PostCount:   len(entries),
		Categories:  categories,
		Checksum:    checksum,
	}
}

// json.Marshal sorts map keys, so the output is deterministic.
func (m Manifest) marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: encode manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// ReadManifest loads a manifest written by a previous export.
func ReadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("export: read manifest: %w", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return Manifest{}, fmt.Errorf("export: parse manifest: %w", err)
	}
	if manifest.Version == 0 {
		manifest.Version = manifestFileVersion
	}
	return manifest, nil
}

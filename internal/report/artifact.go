package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sentinel-sec/sentinel-cli/internal/scan"
)

// ArtifactPrefix is the fixed prefix of persisted scan artifacts. The full
// name embeds the report's Unix-epoch-millisecond timestamp so repeated
// runs in the same directory never collide.
const ArtifactPrefix = "behavior_scan_"

// WriteArtifact persists the report as JSON under dir and returns the full
// path of the written file.
func WriteArtifact(r *scan.ScanReport, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := fmt.Sprintf("%s%d.json", ArtifactPrefix, r.Timestamp.UnixMilli())
	path := filepath.Join(dir, filename)

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	return path, nil
}

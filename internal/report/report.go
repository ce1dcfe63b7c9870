// Package report renders a review run for files and the terminal.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/eddiefleurent/commodity-review/internal/models"
)

// Renderer produces one output form of a review run.
type Renderer interface {
	Render(run *models.ReviewRun) ([]byte, error)
	Extension() string
}

// Filename returns the canonical report file name for a run, e.g.
// "review_20250102_090000.json".
func Filename(run *models.ReviewRun, ext string) string {
	return fmt.Sprintf("review_%s.%s", run.GeneratedAt.Format("20060102_150405"), ext)
}

// Save renders the run and writes it under dir, returning the full path.
func Save(r Renderer, run *models.ReviewRun, dir string) (string, error) {
	data, err := r.Render(run)
	if err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	path := filepath.Join(dir, Filename(run, r.Extension()))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

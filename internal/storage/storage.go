// Package storage persists review run history as a single JSON file.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/eddiefleurent/commodity-review/internal/models"
)

// maxStoredRuns bounds the on-disk history. Older runs roll off.
const maxStoredRuns = 100

// JSONStorage keeps the full history in memory and rewrites the file on
// every mutation. Review runs are small and infrequent, so the simplicity
// wins over an incremental store.
type JSONStorage struct {
	mu       sync.RWMutex
	filepath string
	data     *storageData
}

type storageData struct {
	Runs        []models.ReviewRun `json:"runs"`
	Statistics  *Statistics        `json:"statistics"`
	LastUpdated time.Time          `json:"last_updated"`
}

// Statistics aggregates recommendation counts across all stored runs.
type Statistics struct {
	TotalRuns         int     `json:"total_runs"`
	TotalPositions    int     `json:"total_positions"`
	HoldCount         int     `json:"hold_count"`
	AdjustCount       int     `json:"adjust_count"`
	CloseCount        int     `json:"close_count"`
	AverageConfidence float64 `json:"average_confidence"`
}

// NewJSONStorage opens or creates the store at filepath.
func NewJSONStorage(path string) (*JSONStorage, error) {
	s := &JSONStorage{
		filepath: path,
		data: &storageData{
			Statistics: &Statistics{},
		},
	}

	// Load existing data if file exists
	if _, err := os.Stat(path); err == nil {
		if err := s.Load(); err != nil {
			return nil, fmt.Errorf("loading storage: %w", err)
		}
	}

	return s, nil
}

// Load replaces the in-memory state with the file contents.
func (s *JSONStorage) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filepath)
	if err != nil {
		return err
	}

	loaded := &storageData{}
	if err := json.Unmarshal(data, loaded); err != nil {
		return fmt.Errorf("parsing storage file: %w", err)
	}
	if loaded.Statistics == nil {
		loaded.Statistics = &Statistics{}
	}
	s.data = loaded

	return nil
}

// Save writes the current state to disk atomically.
func (s *JSONStorage) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *JSONStorage) saveLocked() error {
	s.data.LastUpdated = time.Now()

	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.filepath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}

	// Write to temp file first
	tmpFile := s.filepath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o600); err != nil {
		return err
	}

	// Atomic rename
	return os.Rename(tmpFile, s.filepath)
}

// AppendRun stores a completed run, updates aggregates, and persists.
func (s *JSONStorage) AppendRun(run models.ReviewRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Runs = append(s.data.Runs, run)
	if len(s.data.Runs) > maxStoredRuns {
		s.data.Runs = s.data.Runs[len(s.data.Runs)-maxStoredRuns:]
	}
	s.recomputeStatisticsLocked()

	return s.saveLocked()
}

// LatestRun returns the most recently appended run.
func (s *JSONStorage) LatestRun() (*models.ReviewRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.data.Runs) == 0 {
		return nil, ErrNoRuns
	}
	run := s.data.Runs[len(s.data.Runs)-1]
	return &run, nil
}

// RunByID returns the stored run with the given ID.
func (s *JSONStorage) RunByID(id string) (*models.ReviewRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.data.Runs {
		if s.data.Runs[i].ID == id {
			run := s.data.Runs[i]
			return &run, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
}

// Runs returns a copy of the stored run history, oldest first.
func (s *JSONStorage) Runs() []models.ReviewRun {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]models.ReviewRun, len(s.data.Runs))
	copy(runs, s.data.Runs)
	return runs
}

// GetStatistics returns a copy of the aggregate counters.
func (s *JSONStorage) GetStatistics() *Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := *s.data.Statistics
	return &stats
}

// recomputeStatisticsLocked rebuilds aggregates from the retained runs so
// the counters stay consistent with the rolled-off history.
func (s *JSONStorage) recomputeStatisticsLocked() {
	stats := &Statistics{TotalRuns: len(s.data.Runs)}

	confidenceSum := 0.0
	for i := range s.data.Runs {
		run := &s.data.Runs[i]
		stats.TotalPositions += run.Summary.Total
		stats.HoldCount += run.Summary.Hold
		stats.AdjustCount += run.Summary.Adjust
		stats.CloseCount += run.Summary.Close
		for j := range run.Positions {
			confidenceSum += run.Positions[j].Confidence
		}
	}
	if stats.TotalPositions > 0 {
		stats.AverageConfidence = confidenceSum / float64(stats.TotalPositions)
	}

	s.data.Statistics = stats
}

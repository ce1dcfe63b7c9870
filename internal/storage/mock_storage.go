package storage

import (
	"sync"

	"github.com/eddiefleurent/commodity-review/internal/models"
)

// MockStorage is an in-memory Interface implementation for tests.
type MockStorage struct {
	mu   sync.RWMutex
	runs []models.ReviewRun

	// SaveErr, when set, is returned by Save and AppendRun.
	SaveErr error
}

var _ Interface = (*MockStorage)(nil)

// NewMockStorage creates an empty in-memory store.
func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (m *MockStorage) AppendRun(run models.ReviewRun) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *MockStorage) LatestRun() (*models.ReviewRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.runs) == 0 {
		return nil, ErrNoRuns
	}
	run := m.runs[len(m.runs)-1]
	return &run, nil
}

func (m *MockStorage) RunByID(id string) (*models.ReviewRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.runs {
		if m.runs[i].ID == id {
			run := m.runs[i]
			return &run, nil
		}
	}
	return nil, ErrRunNotFound
}

func (m *MockStorage) Runs() []models.ReviewRun {
	m.mu.RLock()
	defer m.mu.RUnlock()
	runs := make([]models.ReviewRun, len(m.runs))
	copy(runs, m.runs)
	return runs
}

func (m *MockStorage) Save() error { return m.SaveErr }

func (m *MockStorage) Load() error { return nil }

func (m *MockStorage) GetStatistics() *Statistics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := &Statistics{TotalRuns: len(m.runs)}
	for i := range m.runs {
		stats.TotalPositions += m.runs[i].Summary.Total
		stats.HoldCount += m.runs[i].Summary.Hold
		stats.AdjustCount += m.runs[i].Summary.Adjust
		stats.CloseCount += m.runs[i].Summary.Close
	}
	return stats
}

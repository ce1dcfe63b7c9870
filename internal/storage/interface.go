package storage

import (
	"github.com/eddiefleurent/commodity-review/internal/models"
)

// Interface defines the contract for review run persistence.
//
// Implementations must be safe for concurrent use - callers can assume all
// methods are goroutine-safe and can safely call these methods from multiple
// goroutines.
//
// The provided JSONStorage implementation uses sync.RWMutex to serialize
// access, ensuring all Interface methods are protected for concurrent
// readers and writers.
type Interface interface {
	// Run history
	AppendRun(run models.ReviewRun) error
	LatestRun() (*models.ReviewRun, error)
	RunByID(id string) (*models.ReviewRun, error)
	Runs() []models.ReviewRun

	// Data persistence
	Save() error
	Load() error

	// Aggregates across stored runs
	GetStatistics() *Statistics
}

// NewStorage creates a new storage implementation (currently JSON-based).
// In the future, this can be extended to support different storage backends.
func NewStorage(filepath string) (Interface, error) {
	return NewJSONStorage(filepath)
}

// Ensure JSONStorage implements Interface
var _ Interface = (*JSONStorage)(nil)

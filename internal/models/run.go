package models

import (
	"time"

	"github.com/google/uuid"
)

// ReviewRun is one complete review pass over a holdings batch, as persisted
// and reported.
type ReviewRun struct {
	ID          string             `json:"id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Positions   []PositionAnalysis `json:"positions"`
	Summary     RunSummary         `json:"summary"`
}

// RunSummary counts the recommendations issued in one run.
type RunSummary struct {
	Total  int `json:"total"`
	Hold   int `json:"hold"`
	Adjust int `json:"adjust"`
	Close  int `json:"close"`
}

// NewReviewRun assembles a run document with a fresh ID and summary.
func NewReviewRun(positions []PositionAnalysis, generatedAt time.Time) ReviewRun {
	return ReviewRun{
		ID:          uuid.New().String(),
		GeneratedAt: generatedAt,
		Positions:   positions,
		Summary:     SummarizeRun(positions),
	}
}

// SummarizeRun tallies recommendations across a batch of analyses.
func SummarizeRun(positions []PositionAnalysis) RunSummary {
	summary := RunSummary{Total: len(positions)}
	for i := range positions {
		switch positions[i].Recommendation {
		case RecommendHold:
			summary.Hold++
		case RecommendAdjust:
			summary.Adjust++
		case RecommendClose:
			summary.Close++
		}
	}
	return summary
}

package models

// Signal is the coarse directional classification derived from the overall
// review score.
type Signal string

const (
	// SignalBullish means the position aligns with an upward outlook.
	SignalBullish Signal = "bullish"
	// SignalBearish means the position aligns with a downward outlook.
	SignalBearish Signal = "bearish"
	// SignalNeutral means no clear directional edge.
	SignalNeutral Signal = "neutral"
)

// Valid returns true if the Signal is one of the defined constants.
func (s Signal) Valid() bool {
	switch s {
	case SignalBullish, SignalBearish, SignalNeutral:
		return true
	default:
		return false
	}
}

// Recommendation is the action classification for an existing position.
type Recommendation string

const (
	// RecommendHold keeps the position as-is.
	RecommendHold Recommendation = "HOLD"
	// RecommendAdjust suggests rolling or resizing the position.
	RecommendAdjust Recommendation = "ADJUST"
	// RecommendClose suggests exiting the position.
	RecommendClose Recommendation = "CLOSE"
)

// Valid returns true if the Recommendation is one of the defined constants.
func (r Recommendation) Valid() bool {
	switch r {
	case RecommendHold, RecommendAdjust, RecommendClose:
		return true
	default:
		return false
	}
}

// DimensionScores holds the four 0-100 sub-scores for one position.
type DimensionScores struct {
	Greeks    int `json:"greeks"`
	Technical int `json:"technical"`
	Time      int `json:"time"`
	News      int `json:"news"`
}

// PositionAnalysis is the review output for one holding. Produced fresh per
// run; it has no identity beyond the report it belongs to.
type PositionAnalysis struct {
	PositionCode   string          `json:"position_code"`
	Signal         Signal          `json:"signal"`
	Confidence     float64         `json:"confidence"` // overall/100, 2dp
	Scores         DimensionScores `json:"scores"`
	Metrics        map[string]any  `json:"metrics"`
	Recommendation Recommendation  `json:"recommendation"`
	Reason         string          `json:"reason"`
}

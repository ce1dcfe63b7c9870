package review

import (
	"fmt"
	"math"
	"strings"

	"github.com/eddiefleurent/commodity-review/internal/models"
	"github.com/eddiefleurent/commodity-review/internal/util"
)

// Signal and recommendation thresholds on the weighted overall score. Both
// sets are inclusive at the stated boundaries.
const (
	signalBullishMin = 65.0
	signalBearishMax = 40.0
	recommendHoldMin = 65.0
	recommendAdjMin  = 45.0
)

// Delta exposure bands used in generated rationale text.
const (
	deltaLowMax  = 0.3
	deltaHighMin = 0.7
)

// Weights maps each scoring dimension to its integer percentage weight.
// The four weights are taken at face value: they are not normalized, so a
// set that does not sum to 100 shifts every overall score proportionally.
type Weights struct {
	Greeks    int `yaml:"greeks" json:"greeks"`
	Technical int `yaml:"technical" json:"technical"`
	Time      int `yaml:"time" json:"time"`
	News      int `yaml:"news" json:"news"`
}

// DefaultWeights is the balanced configuration used when none is supplied.
var DefaultWeights = Weights{Greeks: 30, Technical: 30, Time: 20, News: 20}

// Sum returns the total of the four weights.
func (w Weights) Sum() int {
	return w.Greeks + w.Technical + w.Time + w.News
}

// Validate rejects negative weights and an all-zero configuration.
func (w Weights) Validate() error {
	if w.Greeks < 0 || w.Technical < 0 || w.Time < 0 || w.News < 0 {
		return fmt.Errorf("weights must be non-negative: %+v", w)
	}
	if w.Sum() <= 0 {
		return fmt.Errorf("weights must sum to a positive value: %+v", w)
	}
	return nil
}

// Overall combines the four sub-scores into the weighted overall score.
func (w Weights) Overall(s models.DimensionScores) float64 {
	return float64(s.Greeks)*float64(w.Greeks)/100 +
		float64(s.Technical)*float64(w.Technical)/100 +
		float64(s.Time)*float64(w.Time)/100 +
		float64(s.News)*float64(w.News)/100
}

// ClassifySignal maps the overall score to a directional signal.
func ClassifySignal(overall float64) models.Signal {
	switch {
	case overall >= signalBullishMin:
		return models.SignalBullish
	case overall <= signalBearishMax:
		return models.SignalBearish
	default:
		return models.SignalNeutral
	}
}

// ClassifyRecommendation maps the overall score to an action. The
// thresholds are independent of the signal thresholds: a neutral signal can
// still warrant an adjustment.
func ClassifyRecommendation(overall float64) models.Recommendation {
	switch {
	case overall >= recommendHoldMin:
		return models.RecommendHold
	case overall >= recommendAdjMin:
		return models.RecommendAdjust
	default:
		return models.RecommendClose
	}
}

// Confidence converts the overall score to a 0.0-1.0 confidence, 2dp.
func Confidence(overall float64) float64 {
	return util.Round2(overall / 100)
}

// BuildReason generates the per-dimension rationale: one short clause per
// dimension, joined with period separators.
func BuildReason(scores models.DimensionScores, contract *models.OptionContract, dte int, trend models.TrendDirection) string {
	parts := make([]string, 0, 4)

	absDelta := math.Abs(contract.Delta)
	deltaDesc := "Moderate"
	if absDelta < deltaLowMax {
		deltaDesc = "Low"
	} else if absDelta > deltaHighMin {
		deltaDesc = "High"
	}
	parts = append(parts, fmt.Sprintf("Greeks: %d/100 - %s delta exposure", scores.Greeks, deltaDesc))

	switch {
	case scores.Technical >= 70:
		parts = append(parts, fmt.Sprintf("Technical: %d/100 - Strong %s setup", scores.Technical, trend))
	case scores.Technical <= 40:
		parts = append(parts, fmt.Sprintf("Technical: %d/100 - Weak technicals", scores.Technical))
	default:
		parts = append(parts, fmt.Sprintf("Technical: %d/100 - Mixed signals", scores.Technical))
	}

	switch {
	case dte < urgentDTE:
		parts = append(parts, fmt.Sprintf("Time: %d/100 - Urgent (%d DTE)", scores.Time, dte))
	case dte < decayZoneDTE:
		parts = append(parts, fmt.Sprintf("Time: %d/100 - Decay zone (%d DTE)", scores.Time, dte))
	default:
		parts = append(parts, fmt.Sprintf("Time: %d/100 - Optimal (%d DTE)", scores.Time, dte))
	}

	switch {
	case scores.News >= 70:
		parts = append(parts, fmt.Sprintf("News: %d/100 - Supportive headlines", scores.News))
	case scores.News <= 40:
		parts = append(parts, fmt.Sprintf("News: %d/100 - Negative sentiment", scores.News))
	default:
		parts = append(parts, fmt.Sprintf("News: %d/100 - Neutral to mixed", scores.News))
	}

	return strings.Join(parts, ". ") + "."
}

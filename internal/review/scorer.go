// Package review implements the position review core: four dimension
// scorers, the weighted recommendation engine, and the orchestrator that
// fans analysis out across a holdings batch.
package review

import (
	"math"
	"time"

	"github.com/eddiefleurent/commodity-review/internal/models"
	"github.com/eddiefleurent/commodity-review/internal/util"
)

const baselineScore = 50

// Greeks scoring thresholds. Gamma bands are sized for futures options,
// where per-point gamma runs far smaller than equity options.
const (
	alignedDeltaMin  = 0.3
	highGammaAbs     = 0.00005
	lowGammaAbs      = 0.00001
	expensiveIV      = 0.30
	cheapIV          = 0.15
	urgentDTE        = 7
	decayZoneDTE     = 21
	optimalDTEMin    = 30
	optimalDTEMax    = 60
	lateDTEMax       = 90
	staleCapitalDTE  = 180
	newsImpactWeight = 30.0
)

// Scorer computes the four dimension scores for one holding against its
// matched market data. All scores start at a baseline of 50, apply
// additive adjustments, and clamp to [0, 100]. Scoring is pure: same
// inputs, same outputs.
type Scorer struct {
	now time.Time
}

// NewScorer creates a scorer evaluating days-to-expiry against now.
func NewScorer(now time.Time) *Scorer {
	return &Scorer{now: now}
}

// ScoreGreeks scores the holding's Greeks alignment with the underlying
// trend, plus gamma risk, theta decay urgency, and volatility cost.
func (s *Scorer) ScoreGreeks(holding *models.HoldingPosition, contract *models.OptionContract, trend models.TrendDirection) int {
	score := baselineScore

	// Delta alignment with trend.
	switch trend {
	case models.TrendBullish:
		if holding.Type == models.OptionCall && contract.Delta > alignedDeltaMin {
			score += 20
		} else if holding.Type == models.OptionPut {
			score -= 30
		}
	case models.TrendBearish:
		if holding.Type == models.OptionPut && contract.Delta < -alignedDeltaMin {
			score += 20
		} else if holding.Type == models.OptionCall {
			score -= 30
		}
	}

	// Gamma risk: high convexity cuts both ways.
	if math.Abs(contract.Gamma) > highGammaAbs {
		score -= 15
	} else if math.Abs(contract.Gamma) < lowGammaAbs {
		score += 10
	}

	// Theta urgency.
	dte := contract.DaysToExpiry(s.now)
	if dte < urgentDTE {
		score -= 25 // last week burn
	} else if dte < decayZoneDTE {
		score -= 10
	}

	// IV cost.
	if contract.IV > expensiveIV {
		score -= 10
	} else if contract.IV < cheapIV {
		score += 10
	}

	return util.ClampScore(score)
}

// ScoreTechnical scores the underlying's technical setup. A nil bundle
// yields the neutral baseline with no further adjustment.
func (s *Scorer) ScoreTechnical(technical *models.TechnicalSignals) int {
	if technical == nil {
		return baselineScore
	}

	score := baselineScore

	// Strength 1-10 contributes heavily; 5 is the neutral midpoint.
	score += (technical.Strength - 5) * 5

	switch technical.OverallTrend {
	case models.TrendBullish:
		score += 10
	case models.TrendBearish:
		score -= 10
	}

	// RSI in the healthy band is good; extremes carry reversal risk.
	switch {
	case technical.RSIValue >= 40 && technical.RSIValue <= 60:
		score += 10
	case technical.RSIValue > 70:
		score -= 15
	case technical.RSIValue < 30:
		score -= 15
	}

	// MA and MACD agreeing on buy is a confirmation bonus.
	if technical.MASignal == "buy" && technical.MACDSignal == "buy" {
		score += 10
	}

	return util.ClampScore(score)
}

// ScoreTime scores the holding purely by days to expiry.
func (s *Scorer) ScoreTime(contract *models.OptionContract) int {
	dte := contract.DaysToExpiry(s.now)
	score := baselineScore

	switch {
	case dte >= optimalDTEMin && dte <= optimalDTEMax:
		score += 30
	case dte >= decayZoneDTE && dte < optimalDTEMin:
		score += 20
	case dte > optimalDTEMax && dte <= lateDTEMax:
		score += 15
	}

	if dte < urgentDTE {
		score -= 30
	} else if dte < decayZoneDTE {
		score -= 15
	}

	// Far-dated contracts tie up capital without decay edge.
	if dte > staleCapitalDTE {
		score -= 10
	}

	return util.ClampScore(score)
}

// ScoreNews scores aggregate news sentiment. An empty list yields the
// neutral baseline.
func (s *Scorer) ScoreNews(news []models.NewsItem) int {
	if len(news) == 0 {
		return baselineScore
	}

	var positive, negative int
	for _, n := range news {
		switch n.Sentiment {
		case models.SentimentPositive:
			positive++
		case models.SentimentNegative:
			negative++
		}
	}

	total := float64(len(news))
	positiveRatio := float64(positive) / total
	negativeRatio := float64(negative) / total
	score := baselineScore + positiveRatio*newsImpactWeight - negativeRatio*newsImpactWeight

	return util.ClampScore(int(math.Round(score)))
}

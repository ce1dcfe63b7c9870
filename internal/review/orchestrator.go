package review

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/eddiefleurent/commodity-review/internal/marketdata"
	"github.com/eddiefleurent/commodity-review/internal/models"
	"github.com/eddiefleurent/commodity-review/internal/util"
)

// missingDataReason is the fixed explanation attached when a holding's
// option contract is absent from the snapshot.
const missingDataReason = "Insufficient market data available for analysis"

// Orchestrator fans position analysis out across a holdings batch. Each
// holding's analysis is a pure function of the holding and the immutable
// snapshot, so the pool needs no shared-state coordination; it exists to
// overlap work, not for correctness.
type Orchestrator struct {
	weights    Weights
	maxWorkers int
	logger     zerolog.Logger
	clock      func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock pins the orchestrator's clock, used by tests to make
// days-to-expiry deterministic.
func WithClock(clock func() time.Time) Option {
	return func(o *Orchestrator) { o.clock = clock }
}

// NewOrchestrator creates an orchestrator with the given weights and
// worker bound. maxWorkers below 1 falls back to 1.
func NewOrchestrator(weights Weights, maxWorkers int, logger zerolog.Logger, opts ...Option) *Orchestrator {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	o := &Orchestrator{
		weights:    weights,
		maxWorkers: maxWorkers,
		logger:     logger.With().Str("component", "review").Logger(),
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run analyzes every holding against the snapshot and returns one analysis
// per holding, in input order. A holding with missing market data degrades
// to the fail-safe CLOSE result; it never aborts the batch. Only context
// cancellation returns an error.
func (o *Orchestrator) Run(ctx context.Context, holdings []models.HoldingPosition, snap *marketdata.Snapshot) ([]models.PositionAnalysis, error) {
	o.logger.Info().Int("holdings", len(holdings)).Msg("starting position review")

	now := o.clock()
	results := make([]models.PositionAnalysis, len(holdings))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.maxWorkers)

	for i := range holdings {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = o.analyzeOne(&holdings[i], snap, now)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	o.logger.Info().Int("positions", len(results)).Msg("position review complete")
	return results, nil
}

// analyzeOne scores a single holding. Pure: reads only the holding and the
// snapshot, writes only its own result.
func (o *Orchestrator) analyzeOne(holding *models.HoldingPosition, snap *marketdata.Snapshot, now time.Time) models.PositionAnalysis {
	o.logger.Debug().Str("code", holding.Code).Msg("analyzing position")

	contract := snap.FindContract(holding.Symbol, holding.Code)
	if contract == nil {
		o.logger.Warn().Str("code", holding.Code).Msg("no option contract found")
		return missingDataAnalysis(holding.Code)
	}

	spot, _ := snap.SpotPrice(holding.Symbol) // zero when the commodity is absent
	technical := snap.TechnicalFor(holding.Symbol)
	trend := models.TrendNeutral
	if technical != nil {
		trend = technical.OverallTrend
	}

	scorer := NewScorer(now)
	scores := models.DimensionScores{
		Greeks:    scorer.ScoreGreeks(holding, contract, trend),
		Technical: scorer.ScoreTechnical(technical),
		Time:      scorer.ScoreTime(contract),
		News:      scorer.ScoreNews(snap.NewsFor(holding.Symbol)),
	}

	overall := o.weights.Overall(scores)
	dte := contract.DaysToExpiry(now)

	return models.PositionAnalysis{
		PositionCode:   holding.Code,
		Signal:         ClassifySignal(overall),
		Confidence:     Confidence(overall),
		Scores:         scores,
		Metrics:        buildMetrics(holding, contract, spot, technical, dte),
		Recommendation: ClassifyRecommendation(overall),
		Reason:         BuildReason(scores, contract, dte, trend),
	}
}

// missingDataAnalysis is the fail-safe result for a holding whose contract
// is absent from the snapshot. "No data" is treated as a risk signal, not a
// silent success: the position surfaces in the report with a forced CLOSE.
func missingDataAnalysis(code string) models.PositionAnalysis {
	return models.PositionAnalysis{
		PositionCode:   code,
		Signal:         models.SignalNeutral,
		Confidence:     0.0,
		Scores:         models.DimensionScores{},
		Metrics:        map[string]any{},
		Recommendation: models.RecommendClose,
		Reason:         missingDataReason,
	}
}

// buildMetrics assembles the flattened numeric snapshot for display.
func buildMetrics(holding *models.HoldingPosition, contract *models.OptionContract, spot float64, technical *models.TechnicalSignals, dte int) map[string]any {
	itmAmount := spot - contract.Strike
	if holding.Type == models.OptionPut {
		itmAmount = contract.Strike - spot
	}
	if itmAmount < 0 {
		itmAmount = 0
	}

	metrics := map[string]any{
		"delta":      contract.Delta,
		"gamma":      contract.Gamma,
		"theta":      contract.Theta,
		"vega":       contract.Vega,
		"iv":         util.Round1(contract.IV * 100), // as percentage
		"iv_rank":    "N/A",                          // would need historical IV data
		"spot":       spot,
		"strike":     contract.Strike,
		"dte":        dte,
		"itm_amount": itmAmount,
	}

	if technical != nil {
		metrics["rsi"] = technical.RSIValue
		metrics["trend"] = string(technical.OverallTrend)
	}

	return metrics
}

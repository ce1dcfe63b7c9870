package marketdata

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/eddiefleurent/commodity-review/internal/models"
)

// CircuitBreakerProvider wraps a Provider with circuit breaker
// functionality so a wedged or flapping skill stops being invoked for a
// cool-down period instead of stalling every symbol in the run.
type CircuitBreakerProvider struct {
	provider Provider
	breaker  *gobreaker.CircuitBreaker
}

// Compile-time interface compliance check.
var _ Provider = (*CircuitBreakerProvider)(nil)

// CircuitBreakerSettings configures circuit breaker behavior.
type CircuitBreakerSettings struct {
	MaxRequests  uint32        // Max requests when half-open
	Interval     time.Duration // Reset counts interval
	Timeout      time.Duration // Open circuit duration
	MinRequests  uint32        // Min requests before tripping
	FailureRatio float64       // Failure ratio threshold
}

// NewCircuitBreakerProvider creates a CircuitBreakerProvider with sensible defaults.
func NewCircuitBreakerProvider(p Provider, logger zerolog.Logger) *CircuitBreakerProvider {
	return NewCircuitBreakerProviderWithSettings(p, logger, CircuitBreakerSettings{
		MaxRequests:  3,                // Allow 3 requests when half-open
		Interval:     60 * time.Second, // Reset counts every minute
		Timeout:      30 * time.Second, // Open circuit for 30 seconds
		MinRequests:  5,                // Minimum requests before tripping
		FailureRatio: 0.6,              // Trip if 60% failure rate
	})
}

// NewCircuitBreakerProviderWithSettings creates a CircuitBreakerProvider with custom settings.
func NewCircuitBreakerProviderWithSettings(p Provider, logger zerolog.Logger, settings CircuitBreakerSettings) *CircuitBreakerProvider {
	gbSettings := gobreaker.Settings{
		Name:        "MarketDataCircuitBreaker",
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 || counts.Requests < settings.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= settings.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &CircuitBreakerProvider{
		provider: p,
		breaker:  gobreaker.NewCircuitBreaker(gbSettings),
	}
}

// execBreaker is a generic helper for circuit breaker wrapper methods.
func execBreaker[T any](
	breaker *gobreaker.CircuitBreaker,
	provider Provider,
	fn func(Provider) (T, error),
) (T, error) {
	var zero T
	res, err := breaker.Execute(func() (interface{}, error) { return fn(provider) })
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	v, ok := res.(T)
	if !ok {
		return zero, errors.New("circuit breaker: type assertion failed")
	}
	return v, nil
}

// GetCommodity wraps the underlying provider call with circuit breaker.
func (c *CircuitBreakerProvider) GetCommodity(ctx context.Context, symbol string) (*models.Commodity, error) {
	return execBreaker(c.breaker, c.provider, func(p Provider) (*models.Commodity, error) {
		return p.GetCommodity(ctx, symbol)
	})
}

// GetTechnicalSignals wraps the underlying provider call with circuit breaker.
func (c *CircuitBreakerProvider) GetTechnicalSignals(ctx context.Context, symbol string) (*models.TechnicalSignals, error) {
	return execBreaker(c.breaker, c.provider, func(p Provider) (*models.TechnicalSignals, error) {
		return p.GetTechnicalSignals(ctx, symbol)
	})
}

// GetOptionContracts wraps the underlying provider call with circuit breaker.
func (c *CircuitBreakerProvider) GetOptionContracts(ctx context.Context, symbol string) ([]models.OptionContract, error) {
	return execBreaker(c.breaker, c.provider, func(p Provider) ([]models.OptionContract, error) {
		return p.GetOptionContracts(ctx, symbol)
	})
}

// GetNews wraps the underlying provider call with circuit breaker.
func (c *CircuitBreakerProvider) GetNews(ctx context.Context, symbol string) ([]models.NewsItem, error) {
	return execBreaker(c.breaker, c.provider, func(p Provider) ([]models.NewsItem, error) {
		return p.GetNews(ctx, symbol)
	})
}

// Package retry wraps a market data provider with bounded retries for
// transient failures. Skill subprocesses die for flaky reasons (network
// hiccups inside the script, rate limits on upstream feeds); a short
// backoff-and-retry recovers most of them without surfacing the failure to
// the review run.
package retry

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eddiefleurent/commodity-review/internal/marketdata"
	"github.com/eddiefleurent/commodity-review/internal/models"
)

// Config controls retry behavior.
type Config struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Timeout        time.Duration
}

// DefaultConfig is used when no config is supplied.
var DefaultConfig = Config{
	MaxRetries:     3,
	InitialBackoff: 1 * time.Second,
	MaxBackoff:     30 * time.Second,
	Timeout:        2 * time.Minute,
}

// Provider decorates a marketdata.Provider with retries.
type Provider struct {
	inner  marketdata.Provider
	logger zerolog.Logger
	config Config
}

// Compile-time interface compliance check.
var _ marketdata.Provider = (*Provider)(nil)

// NewProvider wraps inner with retry behavior.
func NewProvider(inner marketdata.Provider, logger zerolog.Logger, config ...Config) *Provider {
	cfg := DefaultConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	return &Provider{
		inner:  inner,
		logger: logger.With().Str("component", "retry_provider").Logger(),
		config: cfg,
	}
}

// doWithRetry runs fn with exponential backoff, retrying transient errors
// only. Each whole operation is bounded by the configured timeout.
func doWithRetry[T any](ctx context.Context, p *Provider, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	opCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	var lastErr error
	backoff := p.config.InitialBackoff

	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		if err := opCtx.Err(); err != nil {
			return zero, fmt.Errorf("%s timed out after %v: %w", op, p.config.Timeout, err)
		}

		result, err := fn(opCtx)
		if err == nil {
			if attempt > 0 {
				p.logger.Info().Str("op", op).Int("attempt", attempt+1).Msg("succeeded after retry")
			}
			return result, nil
		}

		lastErr = err
		p.logger.Debug().Str("op", op).Int("attempt", attempt+1).Err(err).Msg("attempt failed")

		if !isTransientError(err) || attempt == p.config.MaxRetries {
			break
		}

		select {
		case <-time.After(backoff):
			backoff = p.nextBackoff(backoff)
		case <-opCtx.Done():
			return zero, fmt.Errorf("%s timed out during backoff: %w", op, opCtx.Err())
		}
	}

	return zero, fmt.Errorf("%s failed after %d attempts: %w", op, p.config.MaxRetries+1, lastErr)
}

func (p *Provider) nextBackoff(current time.Duration) time.Duration {
	backoff := time.Duration(float64(current) * 1.5)
	if backoff > p.config.MaxBackoff {
		backoff = p.config.MaxBackoff
	}

	maxJitter := int64(backoff / 4)
	if maxJitter > 0 {
		jitterVal, err := rand.Int(rand.Reader, big.NewInt(maxJitter))
		if err != nil {
			p.logger.Warn().Err(err).Msg("failed to generate jitter")
		} else {
			backoff += time.Duration(jitterVal.Int64())
		}
	}

	return backoff
}

func isTransientError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	transientPatterns := []string{
		"timeout",
		"deadline exceeded",
		"connection refused",
		"connection reset",
		"temporary failure",
		"resource temporarily unavailable",
		"server error",
		"rate limit",
		"429",
		"502",
		"503",
		"504",
		"network",
		"dns",
		"tcp",
		"signal: killed",
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// GetCommodity retries the wrapped call on transient failure.
func (p *Provider) GetCommodity(ctx context.Context, symbol string) (*models.Commodity, error) {
	return doWithRetry(ctx, p, "get commodity "+symbol, func(c context.Context) (*models.Commodity, error) {
		return p.inner.GetCommodity(c, symbol)
	})
}

// GetTechnicalSignals retries the wrapped call on transient failure.
func (p *Provider) GetTechnicalSignals(ctx context.Context, symbol string) (*models.TechnicalSignals, error) {
	return doWithRetry(ctx, p, "get technical "+symbol, func(c context.Context) (*models.TechnicalSignals, error) {
		return p.inner.GetTechnicalSignals(c, symbol)
	})
}

// GetOptionContracts retries the wrapped call on transient failure.
func (p *Provider) GetOptionContracts(ctx context.Context, symbol string) ([]models.OptionContract, error) {
	return doWithRetry(ctx, p, "get options "+symbol, func(c context.Context) ([]models.OptionContract, error) {
		return p.inner.GetOptionContracts(c, symbol)
	})
}

// GetNews retries the wrapped call on transient failure.
func (p *Provider) GetNews(ctx context.Context, symbol string) ([]models.NewsItem, error) {
	return doWithRetry(ctx, p, "get news "+symbol, func(c context.Context) ([]models.NewsItem, error) {
		return p.inner.GetNews(c, symbol)
	})
}

// Package marketdata supplies the read-only market inputs for one review
// run: spot prices, technical signal bundles, option chains with Greeks,
// and scraped news, keyed by underlying symbol.
package marketdata

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/eddiefleurent/commodity-review/internal/models"
)

// Provider fetches market data for a single underlying. Absent optional
// data is not an error: GetCommodity and GetTechnicalSignals return
// (nil, nil) and GetNews returns an empty slice when the upstream source
// has nothing for the symbol.
type Provider interface {
	GetCommodity(ctx context.Context, symbol string) (*models.Commodity, error)
	GetTechnicalSignals(ctx context.Context, symbol string) (*models.TechnicalSignals, error)
	GetOptionContracts(ctx context.Context, symbol string) ([]models.OptionContract, error)
	GetNews(ctx context.Context, symbol string) ([]models.NewsItem, error)
}

// Snapshot is an immutable per-run view of market data. Concurrent readers
// are safe once construction completes; nothing mutates it afterwards.
type Snapshot struct {
	Commodities map[string]*models.Commodity
	Technical   map[string]*models.TechnicalSignals
	Options     map[string][]models.OptionContract
	News        map[string][]models.NewsItem
}

// NewSnapshot returns an empty snapshot with initialized maps.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Commodities: make(map[string]*models.Commodity),
		Technical:   make(map[string]*models.TechnicalSignals),
		Options:     make(map[string][]models.OptionContract),
		News:        make(map[string][]models.NewsItem),
	}
}

// SpotPrice returns the current price for a symbol, or ok=false when the
// snapshot has no commodity entry.
func (s *Snapshot) SpotPrice(symbol string) (float64, bool) {
	c, ok := s.Commodities[symbol]
	if !ok || c == nil {
		return 0, false
	}
	return c.Price, true
}

// TechnicalFor returns the technical bundle for a symbol, nil when absent.
func (s *Snapshot) TechnicalFor(symbol string) *models.TechnicalSignals {
	return s.Technical[symbol]
}

// ContractsFor returns the option contracts for a symbol.
func (s *Snapshot) ContractsFor(symbol string) []models.OptionContract {
	return s.Options[symbol]
}

// NewsFor returns the news items for a symbol.
func (s *Snapshot) NewsFor(symbol string) []models.NewsItem {
	return s.News[symbol]
}

// FindContract returns the contract whose code matches exactly, or nil.
func (s *Snapshot) FindContract(symbol, code string) *models.OptionContract {
	for i := range s.Options[symbol] {
		if s.Options[symbol][i].Code == code {
			return &s.Options[symbol][i]
		}
	}
	return nil
}

// BuildSnapshot fetches all four data kinds for every symbol concurrently
// and assembles them into one snapshot. A symbol whose fetches fail is
// logged and left absent rather than aborting the run: downstream scoring
// treats missing data as a risk signal, so degrading here keeps the batch
// alive. Only context cancellation fails the build.
func BuildSnapshot(ctx context.Context, p Provider, symbols []string, logger zerolog.Logger) (*Snapshot, error) {
	snap := NewSnapshot()
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4 * maxFetchParallelism(len(symbols)))

	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			c, err := p.GetCommodity(gctx, symbol)
			if err != nil {
				logger.Warn().Err(err).Str("symbol", symbol).Msg("commodity fetch failed")
			}
			mu.Lock()
			if c != nil {
				snap.Commodities[symbol] = c
			}
			mu.Unlock()
			return gctx.Err()
		})
		g.Go(func() error {
			ts, err := p.GetTechnicalSignals(gctx, symbol)
			if err != nil {
				logger.Warn().Err(err).Str("symbol", symbol).Msg("technical fetch failed")
			}
			mu.Lock()
			if ts != nil {
				snap.Technical[symbol] = ts
			}
			mu.Unlock()
			return gctx.Err()
		})
		g.Go(func() error {
			contracts, err := p.GetOptionContracts(gctx, symbol)
			if err != nil {
				logger.Warn().Err(err).Str("symbol", symbol).Msg("options fetch failed")
			}
			mu.Lock()
			snap.Options[symbol] = contracts
			mu.Unlock()
			return gctx.Err()
		})
		g.Go(func() error {
			news, err := p.GetNews(gctx, symbol)
			if err != nil {
				logger.Warn().Err(err).Str("symbol", symbol).Msg("news fetch failed")
			}
			mu.Lock()
			snap.News[symbol] = news
			mu.Unlock()
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func maxFetchParallelism(symbols int) int {
	if symbols < 1 {
		return 1
	}
	if symbols > 8 {
		return 8
	}
	return symbols
}

// Symbols returns the distinct underlying symbols of a holdings batch, in
// first-seen order.
func Symbols(holdings []models.HoldingPosition) []string {
	seen := make(map[string]struct{}, len(holdings))
	out := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if _, ok := seen[h.Symbol]; ok {
			continue
		}
		seen[h.Symbol] = struct{}{}
		out = append(out, h.Symbol)
	}
	return out
}

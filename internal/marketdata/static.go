package marketdata

import (
	"context"

	"github.com/eddiefleurent/commodity-review/internal/models"
)

// StaticProvider serves market data from in-memory maps. Used by tests and
// by offline runs that replay a previously captured snapshot.
type StaticProvider struct {
	Commodities map[string]*models.Commodity
	Technical   map[string]*models.TechnicalSignals
	Options     map[string][]models.OptionContract
	NewsItems   map[string][]models.NewsItem

	// Err, when set, is returned by every call. Lets tests exercise the
	// retry and breaker decorators.
	Err error
}

// Compile-time interface compliance check.
var _ Provider = (*StaticProvider)(nil)

// NewStaticProvider returns an empty static provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		Commodities: make(map[string]*models.Commodity),
		Technical:   make(map[string]*models.TechnicalSignals),
		Options:     make(map[string][]models.OptionContract),
		NewsItems:   make(map[string][]models.NewsItem),
	}
}

// GetCommodity returns the configured commodity, nil when absent.
func (s *StaticProvider) GetCommodity(_ context.Context, symbol string) (*models.Commodity, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Commodities[symbol], nil
}

// GetTechnicalSignals returns the configured bundle, nil when absent.
func (s *StaticProvider) GetTechnicalSignals(_ context.Context, symbol string) (*models.TechnicalSignals, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Technical[symbol], nil
}

// GetOptionContracts returns the configured chain.
func (s *StaticProvider) GetOptionContracts(_ context.Context, symbol string) ([]models.OptionContract, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Options[symbol], nil
}

// GetNews returns the configured news items.
func (s *StaticProvider) GetNews(_ context.Context, symbol string) ([]models.NewsItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.NewsItems[symbol], nil
}

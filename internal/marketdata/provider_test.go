package marketdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddiefleurent/commodity-review/internal/models"
)

func populatedProvider() *StaticProvider {
	p := NewStaticProvider()
	p.Commodities["CU"] = &models.Commodity{Code: "cu2501", Price: 75100}
	p.Technical["CU"] = &models.TechnicalSignals{CommodityCode: "CU", OverallTrend: models.TrendBullish}
	p.Options["CU"] = []models.OptionContract{
		{Code: "CU2501-C-75000", Strike: 75000, Type: models.OptionCall},
		{Code: "CU2501-P-73000", Strike: 73000, Type: models.OptionPut},
	}
	p.NewsItems["CU"] = []models.NewsItem{{Title: "copper rally"}}
	return p
}

func TestBuildSnapshot(t *testing.T) {
	snap, err := BuildSnapshot(context.Background(), populatedProvider(), []string{"CU"}, zerolog.Nop())
	require.NoError(t, err)

	price, ok := snap.SpotPrice("CU")
	assert.True(t, ok)
	assert.Equal(t, 75100.0, price)
	assert.Equal(t, models.TrendBullish, snap.TechnicalFor("CU").OverallTrend)
	assert.Len(t, snap.ContractsFor("CU"), 2)
	assert.Len(t, snap.NewsFor("CU"), 1)
}

func TestBuildSnapshotDegradesOnFetchFailure(t *testing.T) {
	p := populatedProvider()
	p.Err = errors.New("feed offline")

	snap, err := BuildSnapshot(context.Background(), p, []string{"CU"}, zerolog.Nop())
	require.NoError(t, err)

	_, ok := snap.SpotPrice("CU")
	assert.False(t, ok)
	assert.Nil(t, snap.TechnicalFor("CU"))
	assert.Empty(t, snap.ContractsFor("CU"))
	assert.Empty(t, snap.NewsFor("CU"))
}

func TestBuildSnapshotCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildSnapshot(ctx, populatedProvider(), []string{"CU"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestBuildSnapshotUnknownSymbol(t *testing.T) {
	snap, err := BuildSnapshot(context.Background(), populatedProvider(), []string{"AU"}, zerolog.Nop())
	require.NoError(t, err)

	_, ok := snap.SpotPrice("AU")
	assert.False(t, ok)
	assert.Nil(t, snap.TechnicalFor("AU"))
}

func TestFindContract(t *testing.T) {
	snap, err := BuildSnapshot(context.Background(), populatedProvider(), []string{"CU"}, zerolog.Nop())
	require.NoError(t, err)

	found := snap.FindContract("CU", "CU2501-P-73000")
	require.NotNil(t, found)
	assert.Equal(t, 73000.0, found.Strike)

	assert.Nil(t, snap.FindContract("CU", "CU2501-C-99000"))
	assert.Nil(t, snap.FindContract("AU", "CU2501-P-73000"))
}

func TestSymbols(t *testing.T) {
	holdings := []models.HoldingPosition{
		{Code: "CU2501-C-75000", Symbol: "CU"},
		{Code: "AU2502-P-560", Symbol: "AU"},
		{Code: "CU2503-P-73000", Symbol: "CU"},
		{Code: "RB2505-C-3500", Symbol: "RB"},
	}

	assert.Equal(t, []string{"CU", "AU", "RB"}, Symbols(holdings))
	assert.Empty(t, Symbols(nil))
}

func TestMaxFetchParallelism(t *testing.T) {
	assert.Equal(t, 1, maxFetchParallelism(0))
	assert.Equal(t, 3, maxFetchParallelism(3))
	assert.Equal(t, 8, maxFetchParallelism(20))
}

func TestCircuitBreakerPassthrough(t *testing.T) {
	cb := NewCircuitBreakerProvider(populatedProvider(), zerolog.Nop())

	c, err := cb.GetCommodity(context.Background(), "CU")
	require.NoError(t, err)
	assert.Equal(t, 75100.0, c.Price)

	contracts, err := cb.GetOptionContracts(context.Background(), "CU")
	require.NoError(t, err)
	assert.Len(t, contracts, 2)

	news, err := cb.GetNews(context.Background(), "CU")
	require.NoError(t, err)
	assert.Len(t, news, 1)
}

func TestCircuitBreakerTripsAfterRepeatedFailures(t *testing.T) {
	p := NewStaticProvider()
	p.Err = errors.New("feed offline")

	cb := NewCircuitBreakerProviderWithSettings(p, zerolog.Nop(), CircuitBreakerSettings{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  3,
		FailureRatio: 0.6,
	})

	for i := 0; i < 3; i++ {
		_, err := cb.GetCommodity(context.Background(), "CU")
		require.Error(t, err)
	}

	// Circuit is open now: failures surface without hitting the provider.
	p.Err = nil
	_, err := cb.GetCommodity(context.Background(), "CU")
	assert.Error(t, err)
}

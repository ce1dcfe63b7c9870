package marketdata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddiefleurent/commodity-review/internal/models"
)

// writeSkillScript drops a shell script at the path the provider resolves
// for the given skill. The provider runs it via the configured interpreter,
// so tests use sh instead of python.
func writeSkillScript(t *testing.T, dir, skill, script, body string) {
	t.Helper()
	scriptDir := filepath.Join(dir, skill, "scripts")
	require.NoError(t, os.MkdirAll(scriptDir, 0o750))
	path := filepath.Join(scriptDir, script+".py")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func shellProvider(t *testing.T, dir string) *SkillProvider {
	t.Helper()
	return NewSkillProvider(SkillConfig{
		Interpreter: "sh",
		SkillsDir:   dir,
		Timeout:     10 * time.Second,
	}, zerolog.Nop())
}

func TestSkillGetCommodity(t *testing.T) {
	dir := t.TempDir()
	writeSkillScript(t, dir, skillFutures, "main_contracts",
		`echo '[{"code":"cu2501","name":"Copper","exchange":"SHFE","main_contract":"cu2501","price":75100.0,"change_1d":0.4}]'`)

	c, err := shellProvider(t, dir).GetCommodity(context.Background(), "CU")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "cu2501", c.Code)
	assert.Equal(t, 75100.0, c.Price)
	assert.Equal(t, 0.4, c.Change1D)
}

func TestSkillGetCommodityNoListing(t *testing.T) {
	dir := t.TempDir()
	writeSkillScript(t, dir, skillFutures, "main_contracts", `echo '[]'`)

	c, err := shellProvider(t, dir).GetCommodity(context.Background(), "XX")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestSkillGetTechnicalSignalsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeSkillScript(t, dir, skillTechnical, "analyze", `echo '{"ma_signal":"buy"}'`)

	ts, err := shellProvider(t, dir).GetTechnicalSignals(context.Background(), "CU")
	require.NoError(t, err)
	assert.Equal(t, "buy", ts.MASignal)
	assert.Equal(t, "neutral", ts.MACDSignal)
	assert.Equal(t, 50.0, ts.RSIValue)
	assert.Equal(t, 5, ts.Strength)
	assert.Equal(t, models.TrendNeutral, ts.OverallTrend)
}

func TestSkillGetTechnicalSignalsFull(t *testing.T) {
	dir := t.TempDir()
	writeSkillScript(t, dir, skillTechnical, "analyze",
		`echo '{"ma_signal":"buy","macd_signal":"buy","rsi_value":62.5,"overall_trend":"BULLISH","strength":8}'`)

	ts, err := shellProvider(t, dir).GetTechnicalSignals(context.Background(), "CU")
	require.NoError(t, err)
	assert.Equal(t, 62.5, ts.RSIValue)
	assert.Equal(t, 8, ts.Strength)
	assert.Equal(t, models.TrendBullish, ts.OverallTrend)
}

func TestSkillGetOptionContractsSkipsBadRows(t *testing.T) {
	dir := t.TempDir()
	writeSkillScript(t, dir, skillOptions, "chain",
		`echo '[`+
			`{"code":"CU2501-C-75000","strike":75000,"expiry_date":"2025-01-25","option_type":"call","iv":0.185,"delta":0.52},`+
			`{"code":"CU2501-C-76000","strike":76000,"expiry_date":"soon","option_type":"call"},`+
			`{"code":"CU2501-X-77000","strike":77000,"expiry_date":"2025-01-25","option_type":"straddle"}`+
			`]'`)

	contracts, err := shellProvider(t, dir).GetOptionContracts(context.Background(), "CU")
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	assert.Equal(t, "CU2501-C-75000", contracts[0].Code)
	assert.Equal(t, time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC), contracts[0].Expiry)
	assert.Equal(t, models.OptionCall, contracts[0].Type)
}

func TestSkillGetNews(t *testing.T) {
	dir := t.TempDir()
	writeSkillScript(t, dir, skillNews, "scrape",
		`echo '[{"title":"copper rally","source":"wire","published":"2025-01-01","sentiment":"POSITIVE"}]'`)

	items, err := shellProvider(t, dir).GetNews(context.Background(), "CU")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.SentimentPositive, items[0].Sentiment)
	assert.Equal(t, 2025, items[0].Published.Year())
}

func TestSkillFailureCarriesStderr(t *testing.T) {
	dir := t.TempDir()
	writeSkillScript(t, dir, skillNews, "scrape", `echo 'scraper blew up' >&2; exit 3`)

	_, err := shellProvider(t, dir).GetNews(context.Background(), "CU")
	require.Error(t, err)

	var skillErr *SkillError
	require.True(t, errors.As(err, &skillErr))
	assert.Equal(t, skillNews, skillErr.Skill)
	assert.Contains(t, skillErr.Message, "scraper blew up")
}

func TestSkillMalformedOutput(t *testing.T) {
	dir := t.TempDir()
	writeSkillScript(t, dir, skillFutures, "main_contracts", `echo 'not json'`)

	_, err := shellProvider(t, dir).GetCommodity(context.Background(), "CU")
	require.Error(t, err)

	var skillErr *SkillError
	require.True(t, errors.As(err, &skillErr))
	assert.Contains(t, skillErr.Message, "malformed JSON")
}

package marketdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eddiefleurent/commodity-review/internal/models"
)

// Skill script locations relative to the skills directory. Each skill is an
// out-of-process script that accepts CLI flags and prints JSON to stdout.
const (
	skillFutures   = "china-futures"
	skillTechnical = "technical-analysis"
	skillOptions   = "options"
	skillNews      = "news"
)

// SkillError reports a failed skill subprocess invocation.
type SkillError struct {
	Skill   string
	Message string
}

func (e *SkillError) Error() string {
	return fmt.Sprintf("skill %q failed: %s", e.Skill, e.Message)
}

// SkillConfig configures how skill subprocesses are invoked.
type SkillConfig struct {
	Interpreter string        // e.g. "python3"
	SkillsDir   string        // root directory containing one dir per skill
	Timeout     time.Duration // per-invocation timeout
}

// SkillProvider implements Provider by shelling out to the skill scripts
// and decoding their JSON output. The skills own all pricing and indicator
// math; this type only sequences calls and parses results.
type SkillProvider struct {
	cfg    SkillConfig
	logger zerolog.Logger
}

// Compile-time interface compliance check.
var _ Provider = (*SkillProvider)(nil)

// NewSkillProvider creates a subprocess-backed market data provider.
func NewSkillProvider(cfg SkillConfig, logger zerolog.Logger) *SkillProvider {
	if cfg.Interpreter == "" {
		cfg.Interpreter = "python3"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &SkillProvider{cfg: cfg, logger: logger.With().Str("component", "skill_provider").Logger()}
}

// run invokes one skill script and decodes its stdout JSON into out.
func (p *SkillProvider) run(ctx context.Context, skill, script string, args []string, out any) error {
	runCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	scriptPath := filepath.Join(p.cfg.SkillsDir, skill, "scripts", script+".py")
	cmdArgs := append([]string{scriptPath}, args...)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, p.cfg.Interpreter, cmdArgs...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	p.logger.Debug().Str("skill", skill).Str("script", script).Strs("args", args).Msg("invoking skill")

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return &SkillError{Skill: skill, Message: msg}
	}

	if err := json.Unmarshal(stdout.Bytes(), out); err != nil {
		return &SkillError{Skill: skill, Message: fmt.Sprintf("malformed JSON output: %v", err)}
	}
	return nil
}

// GetCommodity returns main-contract info for a symbol, or (nil, nil) when
// the futures skill has no listing for it.
func (p *SkillProvider) GetCommodity(ctx context.Context, symbol string) (*models.Commodity, error) {
	var wire []struct {
		Code         string  `json:"code"`
		Name         string  `json:"name"`
		Exchange     string  `json:"exchange"`
		MainContract string  `json:"main_contract"`
		Price        float64 `json:"price"`
		Change1D     float64 `json:"change_1d"`
		Change3D     float64 `json:"change_3d"`
		Change5D     float64 `json:"change_5d"`
	}
	err := p.run(ctx, skillFutures, "main_contracts",
		[]string{"--symbol", strings.ToLower(symbol), "--json"}, &wire)
	if err != nil {
		return nil, err
	}
	if len(wire) == 0 {
		return nil, nil
	}
	c := wire[0]
	return &models.Commodity{
		Code:         c.Code,
		Name:         c.Name,
		Exchange:     c.Exchange,
		MainContract: c.MainContract,
		Price:        c.Price,
		Change1D:     c.Change1D,
		Change3D:     c.Change3D,
		Change5D:     c.Change5D,
	}, nil
}

// GetTechnicalSignals runs the technical analysis skill for a symbol.
// Fields the skill omits fall back to neutral defaults.
func (p *SkillProvider) GetTechnicalSignals(ctx context.Context, symbol string) (*models.TechnicalSignals, error) {
	var wire struct {
		MASignal     string   `json:"ma_signal"`
		MACDSignal   string   `json:"macd_signal"`
		RSIValue     *float64 `json:"rsi_value"`
		RSISignal    string   `json:"rsi_signal"`
		BollPosition string   `json:"boll_position"`
		KDJSignal    string   `json:"kdj_signal"`
		ATRValue     float64  `json:"atr_value"`
		OBVTrend     string   `json:"obv_trend"`
		CCISignal    string   `json:"cci_signal"`
		OverallTrend string   `json:"overall_trend"`
		Strength     *int     `json:"strength"`
	}
	err := p.run(ctx, skillTechnical, "analyze",
		[]string{"--symbol", strings.ToLower(symbol), "--json"}, &wire)
	if err != nil {
		return nil, err
	}

	ts := &models.TechnicalSignals{
		CommodityCode: symbol,
		MASignal:      defaultStr(wire.MASignal, "neutral"),
		MACDSignal:    defaultStr(wire.MACDSignal, "neutral"),
		RSIValue:      50,
		RSISignal:     defaultStr(wire.RSISignal, "neutral"),
		BollPosition:  defaultStr(wire.BollPosition, "middle"),
		KDJSignal:     defaultStr(wire.KDJSignal, "neutral"),
		ATRValue:      wire.ATRValue,
		OBVTrend:      defaultStr(wire.OBVTrend, "flat"),
		CCISignal:     defaultStr(wire.CCISignal, "neutral"),
		OverallTrend:  models.TrendNeutral,
		Strength:      5,
	}
	if wire.RSIValue != nil {
		ts.RSIValue = *wire.RSIValue
	}
	if wire.Strength != nil {
		ts.Strength = *wire.Strength
	}
	if trend := models.TrendDirection(strings.ToLower(wire.OverallTrend)); trend.Valid() {
		ts.OverallTrend = trend
	}
	return ts, nil
}

// GetOptionContracts returns the option chain for a symbol with Greeks and
// model pricing attached by the options skill.
func (p *SkillProvider) GetOptionContracts(ctx context.Context, symbol string) ([]models.OptionContract, error) {
	var wire []struct {
		Code        string  `json:"code"`
		Underlying  string  `json:"underlying"`
		Strike      float64 `json:"strike"`
		ExpiryDate  string  `json:"expiry_date"`
		Type        string  `json:"option_type"`
		MarketPrice float64 `json:"market_price"`
		Volume      int64   `json:"volume"`
		IV          float64 `json:"iv"`
		Delta       float64 `json:"delta"`
		Gamma       float64 `json:"gamma"`
		Theta       float64 `json:"theta"`
		Vega        float64 `json:"vega"`
		Rho         float64 `json:"rho"`
		BSValue     float64 `json:"bs_value"`
		Mispricing  float64 `json:"mispricing"`
	}
	err := p.run(ctx, skillOptions, "chain",
		[]string{"--underlying", strings.ToLower(symbol), "--json"}, &wire)
	if err != nil {
		return nil, err
	}

	contracts := make([]models.OptionContract, 0, len(wire))
	for _, w := range wire {
		expiry, perr := time.Parse("2006-01-02", w.ExpiryDate)
		if perr != nil {
			p.logger.Warn().Str("code", w.Code).Str("expiry", w.ExpiryDate).Msg("skipping contract with bad expiry")
			continue
		}
		optType := models.OptionType(strings.ToLower(w.Type))
		if !optType.Valid() {
			p.logger.Warn().Str("code", w.Code).Str("type", w.Type).Msg("skipping contract with bad type")
			continue
		}
		contracts = append(contracts, models.OptionContract{
			Code:        w.Code,
			Underlying:  w.Underlying,
			Strike:      w.Strike,
			Expiry:      expiry,
			Type:        optType,
			MarketPrice: w.MarketPrice,
			Volume:      w.Volume,
			IV:          w.IV,
			Delta:       w.Delta,
			Gamma:       w.Gamma,
			Theta:       w.Theta,
			Vega:        w.Vega,
			Rho:         w.Rho,
			BSValue:     w.BSValue,
			Mispricing:  w.Mispricing,
		})
	}
	return contracts, nil
}

// GetNews returns scraped headlines for a symbol. An empty result is valid.
func (p *SkillProvider) GetNews(ctx context.Context, symbol string) ([]models.NewsItem, error) {
	var wire []struct {
		Title     string `json:"title"`
		Source    string `json:"source"`
		URL       string `json:"url"`
		Published string `json:"published"`
		Summary   string `json:"summary"`
		Sentiment string `json:"sentiment"`
	}
	err := p.run(ctx, skillNews, "scrape",
		[]string{"--symbol", strings.ToLower(symbol), "--json"}, &wire)
	if err != nil {
		return nil, err
	}

	items := make([]models.NewsItem, 0, len(wire))
	for _, w := range wire {
		published, _ := time.Parse("2006-01-02", w.Published)
		items = append(items, models.NewsItem{
			Title:     w.Title,
			Source:    w.Source,
			URL:       w.URL,
			Published: published,
			Summary:   w.Summary,
			Sentiment: models.Sentiment(strings.ToLower(w.Sentiment)),
		})
	}
	return items, nil
}

func defaultStr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

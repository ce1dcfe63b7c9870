package models

import "time"

// TrendDirection is the overall trend classification from technical analysis.
type TrendDirection string

const (
	// TrendBullish indicates an upward trend.
	TrendBullish TrendDirection = "bullish"
	// TrendBearish indicates a downward trend.
	TrendBearish TrendDirection = "bearish"
	// TrendNeutral indicates no clear direction.
	TrendNeutral TrendDirection = "neutral"
)

// Valid returns true if the TrendDirection is one of the defined constants.
func (d TrendDirection) Valid() bool {
	switch d {
	case TrendBullish, TrendBearish, TrendNeutral:
		return true
	default:
		return false
	}
}

// Sentiment is the tone attached to a news item. The empty value means the
// upstream scraper did not tag the item.
type Sentiment string

const (
	// SentimentPositive marks supportive headlines.
	SentimentPositive Sentiment = "positive"
	// SentimentNegative marks adverse headlines.
	SentimentNegative Sentiment = "negative"
	// SentimentNeutral marks headlines with no directional read.
	SentimentNeutral Sentiment = "neutral"
)

// Commodity holds main-contract info and recent price changes for one
// underlying, as reported by the futures data skill.
type Commodity struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Exchange     string  `json:"exchange"`
	MainContract string  `json:"main_contract"`
	Price        float64 `json:"price"`
	Change1D     float64 `json:"change_1d"`
	Change3D     float64 `json:"change_3d"`
	Change5D     float64 `json:"change_5d"`
}

// TechnicalSignals is the indicator bundle produced by the technical
// analysis skill for one underlying.
type TechnicalSignals struct {
	CommodityCode string         `json:"commodity_code"`
	MASignal      string         `json:"ma_signal"`
	MACDSignal    string         `json:"macd_signal"`
	RSIValue      float64        `json:"rsi_value"`
	RSISignal     string         `json:"rsi_signal"`
	BollPosition  string         `json:"boll_position"`
	KDJSignal     string         `json:"kdj_signal"`
	ATRValue      float64        `json:"atr_value"`
	OBVTrend      string         `json:"obv_trend"`
	CCISignal     string         `json:"cci_signal"`
	OverallTrend  TrendDirection `json:"overall_trend"`
	Strength      int            `json:"strength"` // 1-10, 5 is neutral
}

// OptionContract is one contract from the options skill, carrying market
// pricing, Greeks, and the model comparison produced upstream.
type OptionContract struct {
	Code        string     `json:"code"`
	Underlying  string     `json:"underlying"`
	Strike      float64    `json:"strike"`
	Expiry      time.Time  `json:"expiry"`
	Type        OptionType `json:"option_type"`
	MarketPrice float64    `json:"market_price"`
	Volume      int64      `json:"volume"`
	IV          float64    `json:"iv"` // decimal, 0.20 = 20%
	Delta       float64    `json:"delta"`
	Gamma       float64    `json:"gamma"`
	Theta       float64    `json:"theta"`
	Vega        float64    `json:"vega"`
	Rho         float64    `json:"rho"`
	BSValue     float64    `json:"bs_value"`
	Mispricing  float64    `json:"mispricing"`
}

// DaysToExpiry returns calendar days from now to the contract expiry.
func (c *OptionContract) DaysToExpiry(now time.Time) int {
	return DaysBetween(now, c.Expiry)
}

// NewsItem is one scraped headline for an underlying.
type NewsItem struct {
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	URL       string    `json:"url"`
	Published time.Time `json:"published"`
	Summary   string    `json:"summary,omitempty"`
	Sentiment Sentiment `json:"sentiment,omitempty"`
}

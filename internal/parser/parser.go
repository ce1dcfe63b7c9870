// Package parser decodes exchange option identifiers like "CU2501-C-75000"
// into structured fields and enriches raw holdings with them.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/eddiefleurent/commodity-review/internal/models"
)

// codePattern matches SYMBOL(1-4 letters) + YYMM + optional "M" marker +
// optional separator + C/P + optional separator + STRIKE digits. Input is
// upper-cased and stripped of whitespace before matching.
var codePattern = regexp.MustCompile(`^([A-Z]{1,4})(\d{4})M?[-_]?([CP])[-_]?(\d+)$`)

// ParseError reports an option code that does not match the grammar.
type ParseError struct {
	Code string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid option code format: %q", e.Code)
}

// ParsedCode is the structured form of an option identifier.
type ParsedCode struct {
	Symbol  string
	Expiry  string // "YYYY-MM"
	Strike  float64
	Type    models.OptionType
	RawCode string
}

// Parse decodes an option code using the current clock for year resolution.
func Parse(code string) (*ParsedCode, error) {
	return ParseAt(code, time.Now())
}

// ParseAt decodes an option code, resolving the two-digit year against the
// supplied clock: YY <= 50 maps to 2000+YY, otherwise 1900+YY, and a
// resolved year before the current one is pushed forward a full contract
// cycle (4 years). The rollover is a heuristic for rolled-forward contracts
// and can misread codes for long-expired holdings.
func ParseAt(code string, now time.Time) (*ParsedCode, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(code, " ", ""))
	m := codePattern.FindStringSubmatch(normalized)
	if m == nil {
		return nil, &ParseError{Code: code}
	}

	symbol := m[1]
	yearMonth := m[2]
	typeChar := m[3]
	strike, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return nil, &ParseError{Code: code}
	}

	year, _ := strconv.Atoi(yearMonth[:2])
	month, _ := strconv.Atoi(yearMonth[2:])
	if month < 1 || month > 12 {
		return nil, &ParseError{Code: code}
	}

	if year <= 50 {
		year += 2000
	} else {
		year += 1900
	}
	if year < now.Year() {
		year += 4
	}

	optType := models.OptionCall
	if typeChar == "P" {
		optType = models.OptionPut
	}

	return &ParsedCode{
		Symbol:  symbol,
		Expiry:  fmt.Sprintf("%04d-%02d", year, month),
		Strike:  strike,
		Type:    optType,
		RawCode: code,
	}, nil
}

// RawHolding is a caller-supplied position before enrichment. Only Code is
// required; the remaining fields pass through to the parsed holding.
type RawHolding struct {
	Code     string    `json:"code"`
	Quantity int       `json:"quantity"`
	AvgCost  float64   `json:"avg_cost"`
	OpenDate time.Time `json:"open_date,omitempty"`
}

// EnrichHoldings parses every raw holding's code and returns fully populated
// positions. The whole batch fails on the first unparseable code: a holding
// that cannot be parsed cannot be scored, and silently dropping it would
// misstate the portfolio.
func EnrichHoldings(raw []RawHolding, now time.Time) ([]models.HoldingPosition, error) {
	out := make([]models.HoldingPosition, 0, len(raw))
	for i, h := range raw {
		if strings.TrimSpace(h.Code) == "" {
			return nil, fmt.Errorf("holding %d: missing code", i)
		}
		parsed, err := ParseAt(h.Code, now)
		if err != nil {
			return nil, fmt.Errorf("holding %d: %w", i, err)
		}
		out = append(out, models.HoldingPosition{
			Code:     parsed.RawCode,
			Symbol:   parsed.Symbol,
			Expiry:   parsed.Expiry,
			Strike:   parsed.Strike,
			Type:     parsed.Type,
			Quantity: h.Quantity,
			AvgCost:  h.AvgCost,
			OpenDate: h.OpenDate,
		})
	}
	return out, nil
}

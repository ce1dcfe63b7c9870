package report

import (
	"fmt"
	"strings"

	"github.com/eddiefleurent/commodity-review/internal/models"
)

// ANSI escape sequences used by the terminal renderer.
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiBold   = "\033[1m"
)

// TerminalReport renders a compact colored summary for interactive use.
// With Color disabled the same layout is emitted without escape codes.
type TerminalReport struct {
	Color bool
}

var _ Renderer = (*TerminalReport)(nil)

func (TerminalReport) Extension() string { return "txt" }

func (t TerminalReport) Render(run *models.ReviewRun) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "%sPosition Review %s%s\n", t.style(ansiBold),
		run.GeneratedAt.UTC().Format("2006-01-02 15:04"), t.style(ansiReset))
	fmt.Fprintf(&b, "%d positions: %d hold, %d adjust, %d close\n\n",
		run.Summary.Total, run.Summary.Hold, run.Summary.Adjust, run.Summary.Close)

	for i := range run.Positions {
		p := &run.Positions[i]
		fmt.Fprintf(&b, "%-18s %s%-7s%s conf %.2f  G%3d T%3d D%3d N%3d  %s%s%s\n",
			p.PositionCode,
			t.recommendationColor(p.Recommendation), p.Recommendation, t.style(ansiReset),
			p.Confidence,
			p.Scores.Greeks, p.Scores.Technical, p.Scores.Time, p.Scores.News,
			t.signalColor(p.Signal), p.Signal, t.style(ansiReset))
		fmt.Fprintf(&b, "    %s\n", p.Reason)
	}

	return []byte(b.String()), nil
}

func (t TerminalReport) style(code string) string {
	if !t.Color {
		return ""
	}
	return code
}

func (t TerminalReport) recommendationColor(r models.Recommendation) string {
	switch r {
	case models.RecommendHold:
		return t.style(ansiGreen)
	case models.RecommendAdjust:
		return t.style(ansiYellow)
	case models.RecommendClose:
		return t.style(ansiRed)
	default:
		return ""
	}
}

func (t TerminalReport) signalColor(s models.Signal) string {
	switch s {
	case models.SignalBullish:
		return t.style(ansiGreen)
	case models.SignalBearish:
		return t.style(ansiRed)
	default:
		return t.style(ansiYellow)
	}
}

package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/eddiefleurent/commodity-review/internal/models"
)

// MarkdownReport renders the run as a human-readable document with one
// section per position.
type MarkdownReport struct{}

var _ Renderer = (*MarkdownReport)(nil)

func (MarkdownReport) Extension() string { return "md" }

func (MarkdownReport) Render(run *models.ReviewRun) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Position Review\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", run.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "Positions: %d (hold %d, adjust %d, close %d)\n",
		run.Summary.Total, run.Summary.Hold, run.Summary.Adjust, run.Summary.Close)

	for i := range run.Positions {
		writePositionSection(&b, &run.Positions[i])
	}

	return []byte(b.String()), nil
}

func writePositionSection(b *strings.Builder, p *models.PositionAnalysis) {
	fmt.Fprintf(b, "\n## %s\n\n", p.PositionCode)
	fmt.Fprintf(b, "**Signal:** %s | **Recommendation:** %s | **Confidence:** %.2f\n\n",
		p.Signal, p.Recommendation, p.Confidence)

	b.WriteString("| Dimension | Score |\n|-----------|------:|\n")
	fmt.Fprintf(b, "| Greeks | %d |\n", p.Scores.Greeks)
	fmt.Fprintf(b, "| Technical | %d |\n", p.Scores.Technical)
	fmt.Fprintf(b, "| Time | %d |\n", p.Scores.Time)
	fmt.Fprintf(b, "| News | %d |\n", p.Scores.News)

	if len(p.Metrics) > 0 {
		b.WriteString("\n")
		keys := make([]string, 0, len(p.Metrics))
		for k := range p.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(b, "- %s: %s\n", k, formatMetric(p.Metrics[k]))
		}
	}

	fmt.Fprintf(b, "\n%s\n", p.Reason)
}

func formatMetric(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}

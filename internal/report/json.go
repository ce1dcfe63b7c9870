package report

import (
	"encoding/json"

	"github.com/eddiefleurent/commodity-review/internal/models"
)

// JSONReport renders the run document verbatim, indented. This is the
// machine-readable form other tools consume.
type JSONReport struct{}

var _ Renderer = (*JSONReport)(nil)

func (JSONReport) Extension() string { return "json" }

func (JSONReport) Render(run *models.ReviewRun) ([]byte, error) {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

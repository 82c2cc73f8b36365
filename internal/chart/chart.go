// Package chart turns a result's raw label/score arrays into renderable point
// series. It is a pure transform: no state, no clamping, no rescaling (scores
// arrive normalized to 0-100 from the server).
package chart

import (
	"fmt"

	"github.com/danielsouzza/momu-go/internal/api"
	"github.com/danielsouzza/momu-go/internal/model"
)

// palette cycles per input index. Colors are deliberately deterministic so two
// renders of the same data look identical.
var palette = [...]string{
	"#4E79A7",
	"#F28E2B",
	"#E15759",
	"#76B7B2",
	"#59A14F",
	"#EDC948",
	"#B07AA1",
	"#FF9DA7",
}

// Point is one renderable datum. Index is the input position and doubles as
// the display position: neither series is sorted by value.
type Point struct {
	Index int
	Label string
	Value float64
	Color string
}

// Projection carries the two series a result renders as. Radar preserves
// input order as the polygon's vertex sequence; Bar preserves input order as
// display order.
type Projection struct {
	Radar []Point
	Bar   []Point
}

// Project builds both series from parallel label/score arrays. A length
// mismatch is a data-contract violation, never silently truncated.
func Project(labels []string, scores []float64) (Projection, error) {
	if len(labels) != len(scores) {
		return Projection{}, &api.DataContractError{Reason: fmt.Sprintf(
			"chart has %d labels but %d scores", len(labels), len(scores))}
	}
	radar := make([]Point, len(labels))
	bar := make([]Point, len(labels))
	for i := range labels {
		point := Point{
			Index: i,
			Label: labels[i],
			Value: scores[i],
			Color: ColorToken(i),
		}
		radar[i] = point
		bar[i] = point
	}
	return Projection{Radar: radar, Bar: bar}, nil
}

// FromChart projects a wire-level chart payload.
func FromChart(data model.ChartData) (Projection, error) {
	return Project(data.Labels, data.Scores)
}

// ColorToken returns the palette color for an input index.
func ColorToken(index int) string {
	return palette[index%len(palette)]
}

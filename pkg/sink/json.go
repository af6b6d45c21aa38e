package sink

import (
	"encoding/json"

	"github.com/matzehuels/vizbind/pkg/chart"
)

type jsonScene struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Title      string  `json:"title,omitempty"`
	Background string  `json:"background,omitempty"`
	Marks      []Mark  `json:"marks"`
}

// RenderJSON exports the retained marks of s with the canvas settings.
func RenderJSON(s *Scene, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	out := jsonScene{
		Width:      o.width,
		Height:     o.height,
		Title:      o.title,
		Background: o.background,
		Marks:      s.Marks(),
	}
	return json.MarshalIndent(out, "", "  ")
}

// RenderCommandsJSON exports recorded batches, one array per draw call.
func RenderCommandsJSON(batches [][]chart.Command) ([]byte, error) {
	if batches == nil {
		batches = [][]chart.Command{}
	}
	return json.MarshalIndent(batches, "", "  ")
}

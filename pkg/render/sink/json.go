package sink

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/wordmosaic/pkg/layout"
)

// RenderJSON exports res as a pretty-printed JSON document. The output
// round-trips through [ParseJSON], which the pipeline relies on to cache
// layouts.
func RenderJSON(res layout.Result) ([]byte, error) {
	return json.MarshalIndent(res, "", "  ")
}

// ParseJSON reads a layout written by RenderJSON.
func ParseJSON(data []byte) (layout.Result, error) {
	var res layout.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return layout.Result{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if res.Canvas.Width <= 0 || res.Canvas.Height <= 0 {
		return layout.Result{}, fmt.Errorf("unmarshal layout: missing canvas dimensions")
	}
	if res.Placements == nil {
		res.Placements = []layout.Placement{}
	}
	if res.Unplaced == nil {
		res.Unplaced = []layout.Unplaced{}
	}
	return res, nil
}

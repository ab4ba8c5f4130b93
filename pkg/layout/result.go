package layout

import "github.com/matzehuels/wordmosaic/pkg/freq"

// Orientation angles in degrees.
const (
	Horizontal = 0
	Vertical   = 90
)

// Reasons a word is missing from the cloud.
const (
	ReasonMaxWords = "max_words" // cut by the word cap before layout
	ReasonNoSpace  = "no_space"  // no free position even at the minimum size
)

// Placement is the resolved position of one word.
type Placement struct {
	Word     string  `json:"word"`
	X        float64 `json:"x"` // left edge of the bounding box
	Y        float64 `json:"y"` // bottom edge of the bounding box
	FontSize float64 `json:"font_size"`
	Angle    int     `json:"angle"`
	Color    string  `json:"color"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Descent  float64 `json:"descent"`
	Rank     int     `json:"rank"`
	Count    int     `json:"count"`
}

// Box returns the placement's bounding box.
func (p Placement) Box() Box {
	return Box{Left: p.X, Top: p.Y - p.Height, Right: p.X + p.Width, Bottom: p.Y}
}

// Baseline returns the text origin and the rotation to apply around it.
// Horizontal words start at the left end of the baseline. Vertical words are
// rotated -90 degrees so they read upward from the box bottom.
func (p Placement) Baseline() (x, y, rotate float64) {
	if p.Angle == Vertical {
		return p.X + p.Width - p.Descent, p.Y, -90
	}
	return p.X, p.Y - p.Descent, 0
}

// Unplaced is a word left out of the cloud.
type Unplaced struct {
	Word   string `json:"word"`
	Count  int    `json:"count"`
	Rank   int    `json:"rank"`
	Reason string `json:"reason"`
}

// Result is the outcome of one layout run.
type Result struct {
	Canvas     Canvas      `json:"canvas"`
	Placements []Placement `json:"placements"` // largest first
	Unplaced   []Unplaced  `json:"unplaced"`
	Scale      float64     `json:"scale"` // smallest placed/mapped size ratio
	Seed       uint64      `json:"seed"`
	Palette    string      `json:"palette"`
}

// WithDropped returns r with the words cut by the word cap appended to
// Unplaced.
func (r Result) WithDropped(dropped freq.Table) Result {
	if len(dropped) == 0 {
		return r
	}
	out := make([]Unplaced, len(r.Unplaced), len(r.Unplaced)+len(dropped))
	copy(out, r.Unplaced)
	for _, w := range dropped {
		out = append(out, Unplaced{Word: w.Word, Count: w.Count, Rank: w.Rank, Reason: ReasonMaxWords})
	}
	r.Unplaced = out
	return r
}

package layout

import (
	"cmp"
	"context"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/wordmosaic/pkg/palette"
	"github.com/matzehuels/wordmosaic/pkg/scale"
)

// cancelEvery is the number of spiral steps between context checks.
const cancelEvery = 512

// subpixel is the coordinate resolution of emitted boxes, the 26.6
// fixed-point unit of font metrics. Multiples of it are exact in float64, so
// a Placement rebuilds the searched box bit for bit.
const subpixel = 64

// snapUp rounds v up to the next subpixel.
func snapUp(v float64) float64 { return math.Ceil(v*subpixel) / subpixel }

// snapDown rounds v down to the previous subpixel.
func snapDown(v float64) float64 { return math.Floor(v*subpixel) / subpixel }

// colorSpan is the fraction of the palette used, from the dark end, so the
// smallest words stay readable on a light background.
const colorSpan = 0.8

// Build lays out words on canvas. Words are placed in descending size order,
// ties by rank. Invalid canvas or options return a configuration error
// before any work is done; words that do not fit are reported in
// Result.Unplaced.
func Build(ctx context.Context, canvas Canvas, words []scale.Sized, opts Options) (Result, error) {
	opts = opts.WithDefaults()
	if err := canvas.Validate(); err != nil {
		return Result{}, err
	}
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	pal, err := palette.Get(opts.Palette)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{
		Canvas:     canvas,
		Placements: []Placement{},
		Unplaced:   []Unplaced{},
		Scale:      1,
		Seed:       opts.Seed,
		Palette:    opts.Palette,
	}
	if len(words) == 0 {
		return res, nil
	}

	order := slices.Clone(words)
	slices.SortStableFunc(order, func(a, b scale.Sized) int {
		if c := cmp.Compare(b.Size, a.Size); c != 0 {
			return c
		}
		return cmp.Compare(a.Rank, b.Rank)
	})

	floor := opts.MinFontSize
	if floor <= 0 {
		floor = order[len(order)-1].Size
	}

	e := &engine{
		canvas:  canvas,
		opts:    opts,
		grid:    NewGrid(canvas, opts.CellSize),
		rng:     rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5eed)),
		ceiling: math.Inf(1),
		floor:   floor,
	}

	last := float64(max(len(order)-1, 1))
	for i, w := range order {
		p, ok, err := e.place(ctx, w)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			res.Unplaced = append(res.Unplaced, Unplaced{
				Word: w.Word, Count: w.Count, Rank: w.Rank, Reason: ReasonNoSpace,
			})
			continue
		}
		p.Color = pal.Hex(colorSpan * float64(i) / last)
		if w.Size > 0 {
			res.Scale = min(res.Scale, p.FontSize/w.Size)
		}
		res.Placements = append(res.Placements, p)
	}
	return res, nil
}

type engine struct {
	canvas  Canvas
	opts    Options
	grid    *Grid
	rng     *rand.Rand
	ceiling float64 // size of the last placed word
	floor   float64
	steps   int
}

// place finds a position for w, trying both orientations at each size and
// shrinking until the floor is reached.
func (e *engine) place(ctx context.Context, w scale.Sized) (Placement, bool, error) {
	angles := []int{Horizontal, Vertical}
	if e.rng.Float64() >= e.opts.PreferHorizontal {
		angles = []int{Vertical, Horizontal}
	}
	if e.opts.PreferHorizontal >= 1 {
		angles = angles[:1]
	}

	size := min(w.Size, e.ceiling)
	for {
		m := e.opts.Measurer.Measure(w.Word, size)
		for _, angle := range angles {
			bw, bh := snapUp(m.Width), snapUp(m.Height())
			if angle == Vertical {
				bw, bh = bh, bw
			}
			box, ok, err := e.search(ctx, bw, bh)
			if err != nil {
				return Placement{}, false, err
			}
			if !ok {
				continue
			}
			e.grid.Mark(e.grid.Cells(box, 0))
			e.ceiling = size
			return Placement{
				Word:     w.Word,
				X:        box.Left,
				Y:        box.Bottom,
				FontSize: size,
				Angle:    angle,
				Width:    bw,
				Height:   bh,
				Descent:  m.Descent,
				Rank:     w.Rank,
				Count:    w.Count,
			}, true, nil
		}
		if !e.opts.Shrink || size-e.opts.ShrinkStep < e.floor {
			return Placement{}, false, nil
		}
		size -= e.opts.ShrinkStep
	}
}

// search walks the spiral for a free, in-bounds position of a w x h box.
func (e *engine) search(ctx context.Context, w, h float64) (Box, bool, error) {
	cw, ch := float64(e.canvas.Width), float64(e.canvas.Height)
	if w > cw || h > ch || w <= 0 || h <= 0 {
		return Box{}, false, nil
	}

	cell := e.opts.CellSize
	budget := e.opts.StepFactor * int(math.Ceil(e.canvas.Area()/max(w*h, cell*cell)))
	limit := reach(e.canvas)
	sp := newSpiral(e.canvas, cell)

	for range budget {
		e.steps++
		if e.steps%cancelEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Box{}, false, err
			}
		}

		x, y, r := sp.next()
		if r > limit {
			break
		}
		left := snapDown(math.Floor((x-w/2)/cell) * cell)
		top := snapDown(math.Floor((y-h/2)/cell) * cell)
		if left < 0 || top < 0 || left+w > cw || top+h > ch {
			continue
		}
		box := Box{Left: left, Top: top, Right: left + w, Bottom: top + h}
		if e.grid.Free(e.grid.Cells(box, e.opts.Margin)) {
			return box, true, nil
		}
	}
	return Box{}, false, nil
}

package layout

import "math"

// Cells is a half-open rectangle of grid cells: columns [Col0, Col1) and
// rows [Row0, Row1).
type Cells struct {
	Col0, Row0 int
	Col1, Row1 int
}

// Empty reports whether the rectangle covers no cells.
func (c Cells) Empty() bool { return c.Col0 >= c.Col1 || c.Row0 >= c.Row1 }

// Grid is an occupancy bitmap over square cells with a summed-area table for
// constant-time rectangle queries. A Grid belongs to a single layout run and
// is not safe for concurrent use.
type Grid struct {
	cell       float64
	cols, rows int
	occ        []bool
	sat        []int32 // (rows+1) x (cols+1), sat[r][c] = occupied cells above-left
}

// NewGrid returns an empty grid covering canvas with cells of cellSize
// pixels. Partial cells at the right and bottom edges are included.
func NewGrid(canvas Canvas, cellSize float64) *Grid {
	cols := int(math.Ceil(float64(canvas.Width) / cellSize))
	rows := int(math.Ceil(float64(canvas.Height) / cellSize))
	return &Grid{
		cell: cellSize,
		cols: cols,
		rows: rows,
		occ:  make([]bool, cols*rows),
		sat:  make([]int32, (cols+1)*(rows+1)),
	}
}

// Size returns the grid dimensions in cells.
func (g *Grid) Size() (cols, rows int) { return g.cols, g.rows }

// Cells returns the cells covered by b grown by pad pixels on every side,
// clipped to the grid. The result always contains b.
func (g *Grid) Cells(b Box, pad float64) Cells {
	return Cells{
		Col0: max(int(math.Floor((b.Left-pad)/g.cell)), 0),
		Row0: max(int(math.Floor((b.Top-pad)/g.cell)), 0),
		Col1: min(int(math.Ceil((b.Right+pad)/g.cell)), g.cols),
		Row1: min(int(math.Ceil((b.Bottom+pad)/g.cell)), g.rows),
	}
}

// Free reports whether no cell in c is occupied.
func (g *Grid) Free(c Cells) bool {
	if c.Empty() {
		return true
	}
	return g.sum(c) == 0
}

// Occupied returns the number of occupied cells.
func (g *Grid) Occupied() int {
	return int(g.sat[len(g.sat)-1])
}

// Mark sets every cell in c as occupied.
func (g *Grid) Mark(c Cells) {
	if c.Empty() {
		return
	}
	for r := c.Row0; r < c.Row1; r++ {
		for col := c.Col0; col < c.Col1; col++ {
			g.occ[r*g.cols+col] = true
		}
	}
	// Only entries below and right of the marked corner change.
	w := g.cols + 1
	for r := c.Row0; r < g.rows; r++ {
		for col := c.Col0; col < g.cols; col++ {
			var v int32
			if g.occ[r*g.cols+col] {
				v = 1
			}
			g.sat[(r+1)*w+col+1] = v + g.sat[r*w+col+1] + g.sat[(r+1)*w+col] - g.sat[r*w+col]
		}
	}
}

func (g *Grid) sum(c Cells) int32 {
	w := g.cols + 1
	return g.sat[c.Row1*w+c.Col1] - g.sat[c.Row0*w+c.Col1] - g.sat[c.Row1*w+c.Col0] + g.sat[c.Row0*w+c.Col0]
}

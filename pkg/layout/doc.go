// Package layout places sized words on a canvas without overlap.
//
// # Algorithm
//
// Words are placed greedily, largest first. For each word the engine walks an
// archimedean spiral outward from the canvas center, stretched to the
// canvas aspect ratio, and accepts the first position where the word's
// bounding box lies inside the canvas and does not touch any earlier word.
// Collision tests run against an occupancy [Grid] of CellSize pixel cells
// backed by a summed-area table, so each test costs O(1).
//
// A word that finds no position within its step budget is tried in the other
// orientation, then shrunk by ShrinkStep pixels and retried, down to
// MinFontSize. Words that still do not fit are reported in
// [Result.Unplaced]; they never cause an error. The only errors are invalid
// configuration and context cancellation.
//
// # Determinism
//
// Orientation choices come from a PCG generator seeded with [Options.Seed],
// and colors depend only on placement order, so identical inputs and options
// produce identical results.
//
// # Coordinates
//
// Canvas coordinates are y-down with the origin at the top-left corner.
// [Placement.X] and [Placement.Y] are the bottom-left corner of the word's
// bounding box. A word with Angle 90 reads bottom to top.
//
// # Usage
//
//	kept, dropped, _ := scale.Map(table, scale.DefaultOptions())
//	res, err := layout.Build(ctx, layout.Canvas{Width: 1200, Height: 800}, kept, layout.DefaultOptions())
//	if err != nil {
//	    return err // configuration error or cancellation
//	}
//	res = res.WithDropped(dropped)
package layout

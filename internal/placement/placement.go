// Package placement picks where a patch lands on a background.
package placement

import (
	"image"

	"github.com/bagtoad/defectgen/internal/rng"
)

// Plan draws a top-left corner uniformly from every position that keeps a
// patch of size patch entirely inside a canvas of size canvas. It reports
// false when the patch is not strictly smaller than the canvas on both axes.
func Plan(canvas, patch image.Point, r rng.Source) (image.Rectangle, bool) {
	if !Feasible(canvas, patch) {
		return image.Rectangle{}, false
	}
	x := r.IntN(canvas.X - patch.X + 1)
	y := r.IntN(canvas.Y - patch.Y + 1)
	return image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x+patch.X, y+patch.Y)}, true
}

// Feasible reports whether a patch can be placed on the canvas at all.
func Feasible(canvas, patch image.Point) bool {
	return patch.X > 0 && patch.Y > 0 && patch.X < canvas.X && patch.Y < canvas.Y
}

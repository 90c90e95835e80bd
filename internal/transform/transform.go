// Package transform applies the random geometric augmentation used on defect
// patches: independent horizontal and vertical flips, a rotation that grows
// the canvas so no corner is clipped, and an anisotropic rescale.
package transform

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/bagtoad/defectgen/internal/rng"
)

const (
	// FlipProbability is the chance of each independent flip.
	FlipProbability = 0.5
	// MinScale and MaxScale bound the per-axis scale factors.
	MinScale = 0.5
	MaxScale = 1.2
	// MinSide is the smallest width or height a transformed patch may have.
	MinSide = 10
)

// Func transforms one patch using r. Implementations must not modify src.
type Func func(src *image.NRGBA, r rng.Source) *image.NRGBA

// Apply runs flip, rotate and scale on src and returns a new image. src is
// never modified. Random draws happen in a fixed order so a seeded source
// always yields the same patch.
func Apply(src *image.NRGBA, r rng.Source) *image.NRGBA {
	out := src
	if r.Float64() < FlipProbability {
		out = imaging.FlipH(out)
	}
	if r.Float64() < FlipProbability {
		out = imaging.FlipV(out)
	}

	out = Rotate(out, rng.Uniform(r, 0, 360))

	sx := rng.Uniform(r, MinScale, MaxScale)
	sy := rng.Uniform(r, MinScale, MaxScale)
	return Scale(out, sx, sy)
}

// RotatedSize returns the canvas needed to hold a w×h image rotated by degrees:
// h·|sin θ| + w·|cos θ| by h·|cos θ| + w·|sin θ|, truncated to whole pixels.
func RotatedSize(w, h int, degrees float64) (int, int) {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	sin, cos = math.Abs(sin), math.Abs(cos)

	// The epsilon absorbs the residue of sin/cos at multiples of 90 degrees.
	nw := int(float64(h)*sin + float64(w)*cos + 1e-9)
	nh := int(float64(h)*cos + float64(w)*sin + 1e-9)
	return max(nw, 1), max(nh, 1)
}

// Rotate turns src counter-clockwise by degrees about its centre onto a canvas
// sized by RotatedSize. Pixels not covered by the rotated source are fully
// transparent.
func Rotate(src *image.NRGBA, degrees float64) *image.NRGBA {
	b := src.Bounds()
	nw, nh := RotatedSize(b.Dx(), b.Dy(), degrees)
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))

	sin, cos := math.Sincos(degrees * math.Pi / 180)
	cx := float64(b.Min.X) + float64(b.Dx())/2
	cy := float64(b.Min.Y) + float64(b.Dy())/2
	ncx, ncy := float64(nw)/2, float64(nh)/2

	// Source to destination: move the source centre to the origin, rotate
	// (y grows downwards), then move the origin to the new canvas centre.
	s2d := f64.Aff3{
		cos, sin, ncx - cos*cx - sin*cy,
		-sin, cos, ncy + sin*cx - cos*cy,
	}
	draw.BiLinear.Transform(dst, s2d, src, b, draw.Src, nil)
	return dst
}

// ScaledSize returns w·sx by h·sy truncated, with each side clamped to MinSide.
func ScaledSize(w, h int, sx, sy float64) (int, int) {
	return max(MinSide, int(float64(w)*sx)), max(MinSide, int(float64(h)*sy))
}

// Scale resizes src by independent horizontal and vertical factors.
func Scale(src *image.NRGBA, sx, sy float64) *image.NRGBA {
	b := src.Bounds()
	nw, nh := ScaledSize(b.Dx(), b.Dy(), sx, sy)
	return imaging.Resize(src, nw, nh, imaging.Linear)
}

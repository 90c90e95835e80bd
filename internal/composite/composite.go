// Package composite alpha-blends transformed patches onto scene canvases.
package composite

import (
	"image"

	"github.com/disintegration/imaging"
)

// NewCanvas returns a private, writable copy of a background. Backgrounds are
// shared between scenes, so blending always targets a canvas from here.
func NewCanvas(background image.Image) *image.NRGBA {
	return imaging.Clone(background)
}

// Blend composites patch onto dst with the patch's top-left corner at at:
//
//	out = a·patch + (1-a)·dst, a = patch alpha / 255
//
// Only the colour channels of dst change; its alpha is kept. The patch is
// clipped to dst, and the clipped rectangle in dst coordinates is returned.
// An empty rectangle means nothing was drawn.
func Blend(dst, patch *image.NRGBA, at image.Point) image.Rectangle {
	pb := patch.Bounds()
	r := image.Rectangle{Min: at, Max: at.Add(pb.Size())}.Intersect(dst.Bounds())
	if r.Empty() {
		return image.Rectangle{}
	}

	// Offset from dst coordinates to patch coordinates.
	off := pb.Min.Sub(at)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := dst.PixOffset(r.Min.X, y)
		si := patch.PixOffset(r.Min.X+off.X, y+off.Y)
		for x := r.Min.X; x < r.Max.X; x++ {
			switch a := patch.Pix[si+3]; a {
			case 0:
			case 0xff:
				copy(dst.Pix[di:di+3], patch.Pix[si:si+3])
			default:
				alpha := float64(a) / 0xff
				for c := 0; c < 3; c++ {
					v := alpha*float64(patch.Pix[si+c]) + (1-alpha)*float64(dst.Pix[di+c])
					dst.Pix[di+c] = uint8(v + 0.5)
				}
			}
			di += 4
			si += 4
		}
	}
	return r
}

// Package label encodes placements as normalised detection boxes and formats
// them as detection label files: one "<class> <cx> <cy> <w> <h>" line per box.
package label

import (
	"bytes"
	"fmt"
	"image"
)

// Detection is one object box. All coordinates are fractions of the image size.
type Detection struct {
	ClassID int
	CX, CY  float64
	W, H    float64
}

// Encode converts a pixel rectangle on a canvas of the given size into a Detection.
func Encode(classID int, rect image.Rectangle, canvas image.Point) Detection {
	w, h := float64(canvas.X), float64(canvas.Y)
	pw, ph := float64(rect.Dx()), float64(rect.Dy())
	return Detection{
		ClassID: classID,
		CX:      (float64(rect.Min.X) + pw/2) / w,
		CY:      (float64(rect.Min.Y) + ph/2) / h,
		W:       pw / w,
		H:       ph / h,
	}
}

// Valid reports whether the box lies inside the unit square with a positive size.
func (d Detection) Valid() bool {
	return d.CX > 0 && d.CX < 1 && d.CY > 0 && d.CY < 1 &&
		d.W > 0 && d.W <= 1 && d.H > 0 && d.H <= 1
}

// String formats the detection as a label line without the trailing newline.
func (d Detection) String() string {
	return fmt.Sprintf("%d %.6f %.6f %.6f %.6f", d.ClassID, d.CX, d.CY, d.W, d.H)
}

// Format renders detections as label-file content, each line newline-terminated.
func Format(dets []Detection) []byte {
	var buf bytes.Buffer
	for _, d := range dets {
		buf.WriteString(d.String())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

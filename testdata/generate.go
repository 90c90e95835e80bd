// This program generates a small sample data directory for trying defectgen:
// striped bamboo-like backgrounds, round insect-hole patches and ragged
// missing-wall patches on transparent canvases.
//
//	go run testdata/generate.go && go run ./cmd/defectgen testdata/make_data -n 20
//
//go:build ignore

package main

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
)

func main() {
	root := filepath.Join("testdata", "make_data")
	bgDir := filepath.Join(root, "backgrounds")
	holeDir := filepath.Join(root, "patches", "holes")
	missingDir := filepath.Join(root, "patches", "missing")
	for _, dir := range []string{bgDir, holeDir, missingDir} {
		os.MkdirAll(dir, 0755)
	}

	// Bamboo strips in three shades
	generateBamboo(filepath.Join(bgDir, "bamboo_light.jpg"), 640, 480, color.RGBA{210, 190, 120, 255})
	generateBamboo(filepath.Join(bgDir, "bamboo_green.jpg"), 640, 480, color.RGBA{150, 170, 90, 255})
	generateBamboo(filepath.Join(bgDir, "bamboo_dark.jpg"), 800, 600, color.RGBA{160, 130, 80, 255})

	// Insect holes of a few sizes
	generateHole(filepath.Join(holeDir, "hole_small.png"), 14)
	generateHole(filepath.Join(holeDir, "hole_medium.png"), 22)
	generateHole(filepath.Join(holeDir, "hole_large.png"), 30)

	// Missing wall regions
	generateMissing(filepath.Join(missingDir, "missing_wide.png"), 180, 70)
	generateMissing(filepath.Join(missingDir, "missing_tall.png"), 90, 160)

	// A file the patch loader has to skip
	os.WriteFile(filepath.Join(holeDir, "readme.txt"), []byte("not an image"), 0644)
}

func generateBamboo(path string, w, h int, base color.RGBA) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Vertical fibres plus a node every 160 rows
			fibre := int(12 * math.Sin(float64(x)/3))
			node := 0
			if y%160 < 6 {
				node = -40
			}
			img.Set(x, y, color.RGBA{
				clamp(int(base.R) + fibre + node),
				clamp(int(base.G) + fibre + node),
				clamp(int(base.B) + fibre/2 + node),
				255,
			})
		}
	}
	f, _ := os.Create(path)
	defer f.Close()
	jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
}

func generateHole(path string, size int) {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c)
			if d > c {
				continue
			}
			// Dark core with a soft rim
			a := 255.0
			if d > c-2 {
				a = 255 * (c - d) / 2
			}
			img.Set(x, y, color.NRGBA{40, 25, 15, uint8(a)})
		}
	}
	savePNG(path, img)
}

func generateMissing(path string, w, h int) {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		// Ragged left and right edges
		left := int(8 + 6*math.Sin(float64(y)/7))
		right := w - int(8+6*math.Cos(float64(y)/5))
		for x := left; x < right; x++ {
			img.Set(x, y, color.NRGBA{70, 55, 35, 255})
		}
	}
	savePNG(path, img)
}

func clamp(v int) uint8 {
	return uint8(max(0, min(255, v)))
}

func savePNG(path string, img image.Image) {
	f, _ := os.Create(path)
	defer f.Close()
	png.Encode(f, img)
}

// Package asset loads background images and defect patches into memory.
//
// Every asset is normalised to *image.NRGBA anchored at the origin. Sources
// without an alpha channel come out fully opaque. Loaded assets are shared by
// all scenes and must be treated as read-only.
package asset

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/bagtoad/defectgen/internal/scanner"
)

// ErrNoBackgrounds is returned when no usable background image could be loaded.
var ErrNoBackgrounds = errors.New("no usable background images")

// Asset is one decoded image and the file it came from.
type Asset struct {
	Path  string
	Image *image.NRGBA
}

// Size returns the asset dimensions.
func (a *Asset) Size() image.Point {
	return a.Image.Bounds().Size()
}

// Decode reads and decodes the image at path.
func Decode(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open image")
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, "cannot decode image")
	}
	if img.Bounds().Empty() {
		return nil, errors.Errorf("image %s has no pixels", path)
	}
	return imaging.Clone(img), nil
}

// LoadPatches decodes every visible file in dir as a patch of the given
// category. A missing directory yields an empty set: the category is simply
// unavailable. Files that fail to decode are logged and skipped.
func LoadPatches(dir, category string, logger *zap.SugaredLogger) ([]*Asset, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		logger.Warnw("patch directory missing; category unavailable", "category", category, "dir", dir)
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read patch directory for %q", category)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	patches := loadAll(dirPaths(dir, names), logger.With("category", category))
	logger.Debugw("loaded patches", "category", category, "count", len(patches))
	return patches, nil
}

// LoadBackgrounds decodes the raster files in dir. It fails when the directory
// is missing, holds no raster files, or none of them decode.
func LoadBackgrounds(dir string, logger *zap.SugaredLogger) ([]*Asset, error) {
	res, err := scanner.Scan(dir)
	if err != nil {
		return nil, errors.Wrapf(ErrNoBackgrounds, "scanning %s: %v", dir, err)
	}
	if res.SkippedCount > 0 {
		logger.Infow("ignoring non-image files in background directory", "dir", dir, "count", res.SkippedCount)
	}

	backgrounds := loadAll(res.ImagePaths, logger.With("kind", "background"))
	if len(backgrounds) == 0 {
		return nil, errors.Wrapf(ErrNoBackgrounds, "in %s", dir)
	}
	return backgrounds, nil
}

func loadAll(paths []string, logger *zap.SugaredLogger) []*Asset {
	assets := make([]*Asset, 0, len(paths))
	for _, p := range paths {
		img, err := Decode(p)
		if err != nil {
			logger.Warnw("skipping unreadable image", "path", p, "error", err)
			continue
		}
		assets = append(assets, &Asset{Path: p, Image: img})
	}
	return assets
}

func dirPaths(dir string, names []string) []string {
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths
}

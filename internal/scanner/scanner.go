// Package scanner lists the raster files in an asset directory.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// SupportedExtensions contains the set of raster extensions the asset decoder understands.
var SupportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tiff": true,
	".tif":  true,
}

// ErrNoImages is returned when a directory holds no supported raster files.
var ErrNoImages = errors.New("no image files found")

// Result holds the output of scanning a directory.
type Result struct {
	ImagePaths   []string
	SkippedCount int
}

// Scan lists the given directory (non-recursive) and returns raster file paths
// in lexical order plus a count of skipped non-image files. Hidden files are
// ignored entirely.
func Scan(dir string) (*Result, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(err, "cannot access directory")
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read directory")
	}

	result := &Result{}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if IsImage(entry.Name()) {
			result.ImagePaths = append(result.ImagePaths, filepath.Join(dir, entry.Name()))
		} else {
			result.SkippedCount++
		}
	}

	if len(result.ImagePaths) == 0 {
		return nil, errors.Wrapf(ErrNoImages, "in %s", dir)
	}

	// os.ReadDir already sorts, but callers index into this slice with a
	// seeded random source, so the order is part of the contract.
	sort.Strings(result.ImagePaths)
	return result, nil
}

// IsImage reports whether name carries a supported raster extension.
func IsImage(name string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(name))]
}

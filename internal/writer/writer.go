// Package writer persists generated scenes as paired image and label files.
package writer

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/bagtoad/defectgen/internal/generator"
	"github.com/bagtoad/defectgen/internal/label"
)

// Output subdirectories, matching the usual detection dataset layout.
const (
	ImagesDir = "images"
	LabelsDir = "labels"
)

// Options controls how scenes are written.
type Options struct {
	// Format is the image file extension without the dot: "jpg" or "png".
	Format string
	// Quality is the JPEG quality, 1-100.
	Quality int
	// DryRun computes destination paths without touching the filesystem.
	DryRun bool
}

// Result records where a scene was written.
type Result struct {
	ImagePath string
	// LabelPath is empty when the scene has no detections.
	LabelPath string
}

// Validate checks the image format and quality.
func (o Options) Validate() error {
	if _, err := imaging.FormatFromExtension(o.Format); err != nil {
		return errors.Errorf("unsupported output format %q", o.Format)
	}
	if o.Quality < 1 || o.Quality > 100 {
		return errors.Errorf("JPEG quality %d outside 1-100", o.Quality)
	}
	return nil
}

// Prepare creates the image and label directories under outDir.
func Prepare(outDir string, dryRun bool) error {
	if dryRun {
		return nil
	}
	for _, sub := range []string{ImagesDir, LabelsDir} {
		dir := filepath.Join(outDir, sub)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "cannot create output folder %q", dir)
		}
	}
	return nil
}

// Write saves the scene image and, only if the scene has detections, its
// label file. A stale label left by an earlier run under the same name is
// removed so images and labels never disagree. Files are written to a
// temporary name and renamed into place.
func Write(outDir string, scene *generator.Scene, opts Options) (*Result, error) {
	res := &Result{
		ImagePath: filepath.Join(outDir, ImagesDir, scene.Name+"."+strings.ToLower(opts.Format)),
	}
	labelPath := filepath.Join(outDir, LabelsDir, scene.Name+".txt")
	if len(scene.Detections) > 0 {
		res.LabelPath = labelPath
	}
	if opts.DryRun {
		return res, nil
	}

	format, err := imaging.FormatFromExtension(opts.Format)
	if err != nil {
		return nil, errors.Wrap(err, "cannot choose image encoder")
	}
	err = writeFile(res.ImagePath, func(w io.Writer) error {
		return imaging.Encode(w, scene.Image, format, imaging.JPEGQuality(opts.Quality))
	})
	if err != nil {
		return nil, errors.Wrapf(err, "cannot write image %s", res.ImagePath)
	}

	if res.LabelPath == "" {
		if err := os.Remove(labelPath); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "cannot remove stale label %s", labelPath)
		}
		return res, nil
	}

	content := label.Format(scene.Detections)
	err = writeFile(res.LabelPath, func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(content))
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "cannot write label %s", res.LabelPath)
	}
	return res, nil
}

func writeFile(path string, fill func(w io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := f.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpPath) // clean up if not renamed
		}
	}()

	if err = fill(f); err != nil {
		return multierr.Combine(err, f.Close())
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// Package generator builds synthetic defect scenes: it pastes randomly
// transformed patches of one category onto a copy of a background image and
// records a detection box for every patch that fits.
package generator

import (
	"fmt"
	"image"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bagtoad/defectgen/internal/asset"
	"github.com/bagtoad/defectgen/internal/categories"
	"github.com/bagtoad/defectgen/internal/composite"
	"github.com/bagtoad/defectgen/internal/label"
	"github.com/bagtoad/defectgen/internal/placement"
	"github.com/bagtoad/defectgen/internal/rng"
	"github.com/bagtoad/defectgen/internal/transform"
)

// ErrNoPatches is returned when no category has a single usable patch.
var ErrNoPatches = errors.New("no usable patch assets in any category")

// MinDigits is the smallest zero-padding width of scene numbers.
const MinDigits = 4

// Pool holds the loaded patches of one category.
type Pool struct {
	Category categories.Category
	Patches  []*asset.Asset
}

// Scene is one generated sample. Image is owned by the scene.
type Scene struct {
	Index      int
	Name       string
	Background string
	Category   categories.Category
	Image      *image.NRGBA
	Detections []label.Detection
	// Attempted counts instance attempts; attempts whose patch did not fit
	// the background are dropped without a detection.
	Attempted int
}

// Stats is the image-free record of a finished scene.
type Stats struct {
	Index      int
	Name       string
	Category   string
	ClassID    int
	Attempted  int
	Detections int
}

// Stats summarises the scene.
func (s *Scene) Stats() Stats {
	return Stats{
		Index:      s.Index,
		Name:       s.Name,
		Category:   s.Category.Name,
		ClassID:    s.Category.ClassID,
		Attempted:  s.Attempted,
		Detections: len(s.Detections),
	}
}

// Dropped returns the number of instances that could not be placed.
func (s Stats) Dropped() int {
	return s.Attempted - s.Detections
}

// Generator produces scenes from a read-only set of backgrounds and patch pools.
// It is safe for concurrent use: every scene works on its own canvas and its
// own random source.
type Generator struct {
	backgrounds []*asset.Asset
	pools       []Pool
	seed        uint64
	prefix      string
	digits      int
	transform   transform.Func
	source      func(index int) rng.Source
	logger      *zap.SugaredLogger
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the run seed. Scene i draws from rng.ForScene(seed, i).
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.seed = seed }
}

// WithPrefix sets the base-name prefix shared by scene images and labels.
func WithPrefix(prefix string) Option {
	return func(g *Generator) { g.prefix = prefix }
}

// WithDigits sets the zero-padding width of scene numbers.
func WithDigits(n int) Option {
	return func(g *Generator) { g.digits = max(n, 1) }
}

// WithTransform replaces the patch transform.
func WithTransform(fn transform.Func) Option {
	return func(g *Generator) { g.transform = fn }
}

// WithSource replaces the per-scene random source.
func WithSource(fn func(index int) rng.Source) Option {
	return func(g *Generator) { g.source = fn }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(g *Generator) { g.logger = logger }
}

// New returns a Generator. Categories without patches are never selected;
// if none has any, New fails with ErrNoPatches.
func New(backgrounds []*asset.Asset, pools []Pool, opts ...Option) (*Generator, error) {
	g := &Generator{
		backgrounds: backgrounds,
		prefix:      "aug_adv",
		digits:      MinDigits,
		transform:   transform.Apply,
		logger:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.source == nil {
		seed := g.seed
		g.source = func(index int) rng.Source { return rng.ForScene(seed, index) }
	}

	if len(backgrounds) == 0 {
		return nil, asset.ErrNoBackgrounds
	}
	for _, p := range pools {
		if len(p.Patches) == 0 {
			g.logger.Warnw("category has no patches and will not be generated", "category", p.Category.Name)
			continue
		}
		g.pools = append(g.pools, p)
	}
	if len(g.pools) == 0 {
		return nil, ErrNoPatches
	}
	return g, nil
}

// Categories returns the categories that can be selected.
func (g *Generator) Categories() []categories.Category {
	cats := make([]categories.Category, len(g.pools))
	for i, p := range g.pools {
		cats[i] = p.Category
	}
	return cats
}

// Name returns the base file name of scene index.
func (g *Generator) Name(index int) string {
	return fmt.Sprintf("%s_%0*d", g.prefix, g.digits, index)
}

// Scene generates scene index. The result depends only on the generator's
// inputs, its seed and index.
func (g *Generator) Scene(index int) *Scene {
	r := g.source(index)

	bg := g.backgrounds[r.IntN(len(g.backgrounds))]
	canvas := composite.NewCanvas(bg.Image)
	size := canvas.Bounds().Size()

	pool := g.pools[r.IntN(len(g.pools))]
	lo, hi := pool.Category.InstanceRange()
	n := rng.IntRange(r, lo, hi)

	scene := &Scene{
		Index:      index,
		Name:       g.Name(index),
		Background: bg.Path,
		Category:   pool.Category,
		Image:      canvas,
		Attempted:  n,
	}
	for i := 0; i < n; i++ {
		src := pool.Patches[r.IntN(len(pool.Patches))]
		patch := g.transform(src.Image, r)

		rect, ok := placement.Plan(size, patch.Bounds().Size(), r)
		if !ok {
			g.logger.Debugw("patch does not fit background; dropping instance",
				"scene", scene.Name, "patch", src.Path, "patch_size", patch.Bounds().Size(), "background_size", size)
			continue
		}
		composite.Blend(canvas, patch, rect.Min)
		scene.Detections = append(scene.Detections, label.Encode(pool.Category.ClassID, rect, size))
	}
	return scene
}

// Digits returns the zero-padding width needed to number count scenes.
func Digits(count int) int {
	return max(MinDigits, len(strconv.Itoa(max(count-1, 0))))
}

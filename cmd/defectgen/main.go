package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bagtoad/defectgen/internal/asset"
	"github.com/bagtoad/defectgen/internal/categories"
	"github.com/bagtoad/defectgen/internal/config"
	"github.com/bagtoad/defectgen/internal/generator"
	"github.com/bagtoad/defectgen/internal/report"
	"github.com/bagtoad/defectgen/internal/writer"
)

// runOptions carries the flags that are not part of config.Config.
type runOptions struct {
	minInstances int
	maxInstances int
	dryRun       bool
	progress     bool
}

func main() {
	cfg := config.Load()
	var opts runOptions
	var verbose, quiet bool

	rootCmd := &cobra.Command{
		Use:   "defectgen [data-dir]",
		Short: "Synthesize labelled defect images by pasting patches onto clean backgrounds",
		Long: `defectgen builds an object-detection training set from clean background
images and small transparent defect patches. Each scene pastes randomly
flipped, rotated and rescaled patches of one category onto a background and
writes the image to <output>/images and, when at least one patch was placed,
a label file with one "<class> <cx> <cy> <w> <h>" line per patch to
<output>/labels.

Relative paths resolve against the data directory (default ./make_data).
Categories come from --categories, ~/.defectgen/categories.yaml, or the
built-in hole/missing set. Defaults can also be set in .env with
DEFECTGEN_* variables.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.DataDir = args[0]
			}
			logger, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			opts.progress = !quiet
			return run(cmd.Context(), cfg, opts, logger, os.Stdout)
		},
		SilenceUsage: true,
	}

	flags := rootCmd.Flags()
	flags.StringVar(&cfg.BackgroundsDir, "backgrounds", cfg.BackgroundsDir, "Directory of clean background images")
	flags.StringVar(&cfg.OutputDir, "output", cfg.OutputDir, "Output directory (images/ and labels/ are created inside)")
	flags.StringVar(&cfg.CategoriesFile, "categories", cfg.CategoriesFile, "YAML file defining defect categories")
	flags.IntVarP(&cfg.Count, "count", "n", cfg.Count, "Number of scenes to generate")
	flags.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 picks one from the clock)")
	flags.IntVarP(&cfg.Workers, "workers", "j", cfg.Workers, "Number of scenes generated in parallel")
	flags.StringVar(&cfg.Prefix, "prefix", cfg.Prefix, "Base-name prefix of generated files")
	flags.StringVar(&cfg.Format, "format", cfg.Format, "Image format: jpg or png")
	flags.IntVar(&cfg.Quality, "quality", cfg.Quality, "JPEG quality (1-100)")
	flags.IntVar(&opts.minInstances, "min-instances", 0, "Override the minimum instances per multi-instance scene")
	flags.IntVar(&opts.maxInstances, "max-instances", 0, "Override the maximum instances per multi-instance scene")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Generate and report without writing files")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log debug details such as dropped instances")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Hide the progress bar")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.DisableStacktrace = true
	zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if !verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "cannot build logger")
	}
	return logger.Sugar(), nil
}

func run(ctx context.Context, cfg *config.Config, opts runOptions, logger *zap.SugaredLogger, stdout io.Writer) error {
	if cfg.Count < 0 {
		return errors.Errorf("scene count must not be negative, got %d", cfg.Count)
	}
	wopts := writer.Options{Format: cfg.Format, Quality: cfg.Quality, DryRun: opts.dryRun}
	if err := wopts.Validate(); err != nil {
		return err
	}

	// Resolve categories
	cats, err := categories.Resolve(cfg.CategoriesFile)
	if err != nil {
		return errors.Wrap(err, "cannot resolve categories")
	}
	if opts.minInstances > 0 || opts.maxInstances > 0 {
		lo, hi := opts.minInstances, opts.maxInstances
		if lo == 0 {
			lo = min(categories.DefaultMinInstances, hi)
		}
		if hi == 0 {
			hi = max(categories.DefaultMaxInstances, lo)
		}
		if cats, err = categories.WithInstanceRange(cats, lo, hi); err != nil {
			return err
		}
	}

	// Load assets
	bgDir := cfg.Resolve(cfg.BackgroundsDir)
	logger.Infow("loading backgrounds", "dir", bgDir)
	backgrounds, err := asset.LoadBackgrounds(bgDir, logger)
	if err != nil {
		return err
	}

	pools := make([]generator.Pool, 0, len(cats))
	for _, c := range cats {
		patches, err := asset.LoadPatches(cfg.Resolve(c.Dir), c.Name, logger)
		if err != nil {
			return err
		}
		logger.Infow("loaded category", "category", c.Name, "class_id", c.ClassID, "patches", len(patches))
		pools = append(pools, generator.Pool{Category: c, Patches: patches})
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	gen, err := generator.New(backgrounds, pools,
		generator.WithSeed(seed),
		generator.WithPrefix(cfg.Prefix),
		generator.WithDigits(generator.Digits(cfg.Count)),
		generator.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	outDir := cfg.Resolve(cfg.OutputDir)
	if err := writer.Prepare(outDir, opts.dryRun); err != nil {
		return err
	}
	if opts.dryRun {
		logger.Infow("dry run mode; no files will be written")
	}

	logger.Infow("generating scenes", "count", cfg.Count, "workers", cfg.Workers, "seed", seed, "backgrounds", len(backgrounds))
	progressFn := func(current, total int) {}
	var bar *pterm.ProgressbarPrinter
	if opts.progress && cfg.Count > 0 {
		if bar, err = pterm.DefaultProgressbar.WithTotal(cfg.Count).WithTitle("Generating scenes").Start(); err != nil {
			logger.Debugw("progress bar unavailable", "error", err)
			bar = nil
		} else {
			progressFn = func(current, total int) { bar.Increment() }
		}
	}

	sink := func(_ context.Context, scene *generator.Scene) error {
		_, err := writer.Write(outDir, scene, wopts)
		return err
	}
	scenes, runErr := gen.Run(ctx, cfg.Count, cfg.Workers, sink, progressFn)
	if bar != nil {
		_, _ = bar.Stop()
	}

	report.Print(stdout, report.Summary{
		Seed:        seed,
		Requested:   cfg.Count,
		OutputDir:   outDir,
		DryRun:      opts.dryRun,
		Interrupted: errors.Is(runErr, context.Canceled),
		Scenes:      scenes,
	})
	return runErr
}

package generator

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Sink persists a finished scene. It is called concurrently from the workers.
type Sink func(ctx context.Context, scene *Scene) error

// Run generates scenes 0..count-1 on up to workers goroutines and hands each
// one to sink. Cancelling ctx stops new scenes from starting; scenes already
// handed to sink are complete. Run returns the stats of every scene that
// reached the sink, ordered by index, together with the first error.
func (g *Generator) Run(ctx context.Context, count, workers int, sink Sink, progressFn func(current, total int)) ([]Stats, error) {
	if count < 0 {
		return nil, errors.Errorf("invalid scene count %d", count)
	}
	if workers < 1 {
		workers = 1
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	results := make([]Stats, count)
	finished := make([]bool, count)
	var mu sync.Mutex
	done := 0

	for i := 0; i < count; i++ {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			scene := g.Scene(i)
			if err := sink(egCtx, scene); err != nil {
				return errors.Wrapf(err, "cannot save scene %s", scene.Name)
			}

			mu.Lock()
			defer mu.Unlock()
			results[i] = scene.Stats()
			finished[i] = true
			done++
			if progressFn != nil {
				progressFn(done, count)
			}
			return nil
		})
	}

	err := eg.Wait()
	if err == nil {
		err = ctx.Err()
	}

	completed := make([]Stats, 0, done)
	for i, ok := range finished {
		if ok {
			completed = append(completed, results[i])
		}
	}
	return completed, err
}

package core

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/skyweave/constellation/orbitrt/rt/orbit"
)

// CountVisible runs the host mirror of the visibility stage over every body and returns how
// many survive. Chunks run on up to workers goroutines and never share counters.
func CountVisible(ctx context.Context, positions []orbit.BodyPosition, f *FrameUniform, workers int) (int, error) {
	n := len(positions)
	if n == 0 {
		return 0, nil
	}
	workers = max(workers, 1)
	chunk := (n + workers - 1) / workers
	counts := make([]int, (n+chunk-1)/chunk)

	g, ctx := errgroup.WithContext(ctx)
	for c := range counts {
		lo, hi := c*chunk, min((c+1)*chunk, n)
		g.Go(func() error {
			visible := 0
			for i := lo; i < hi; i++ {
				if i&0xffff == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if f.Visible(positions[i].Position) {
					visible++
				}
			}
			counts[c] = visible
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	return total, nil
}

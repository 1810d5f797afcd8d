package simplify

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// parallelCutoff is the smallest span handed to another goroutine; shorter
// spans stay on the current worker.
const parallelCutoff = 2048

// SimplifyParallel produces the same indices as SimplifyIndices, examining
// the independent sub-ranges created by each split on up to workers
// goroutines. workers <= 0 means GOMAXPROCS.
func SimplifyParallel(ctx context.Context, points []Point, epsilon float64, workers int) ([]int, error) {
	if err := validate(points, epsilon); err != nil {
		return nil, err
	}

	n := len(points)
	if n <= 2 {
		return allIndices(n), nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Each split index lies strictly inside exactly one span, so goroutines
	// never write the same element.
	keep := make([]bool, n)
	keep[0] = true
	keep[n-1] = true

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var process func(root span) error
	process = func(root span) error {
		stack := []span{root}
		for len(stack) > 0 {
			if err := gctx.Err(); err != nil {
				return err
			}

			s := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			idx, dmax := farthest(points, s.first, s.last)
			if dmax <= epsilon {
				continue
			}
			keep[idx] = true

			left := span{first: s.first, last: idx}
			right := span{first: idx, last: s.last}
			if right.last-right.first > parallelCutoff && g.TryGo(func() error { return process(right) }) {
				stack = append(stack, left)
				continue
			}
			stack = append(stack, right, left)
		}
		return nil
	}

	g.Go(func() error { return process(span{first: 0, last: n - 1}) })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return collect(keep), nil
}

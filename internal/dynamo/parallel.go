package dynamo

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelFor runs fn over [0, n) in contiguous chunks of at least minChunk
// indices, at most GOMAXPROCS at a time, and returns when all chunks are done.
// Small ranges run inline.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	if minChunk < 1 {
		minChunk = 1
	}
	procs := runtime.GOMAXPROCS(0)
	if n <= minChunk || procs <= 1 {
		fn(0, n)
		return
	}

	chunks := min(procs, n/minChunk)
	size := (n + chunks - 1) / chunks

	var g errgroup.Group
	g.SetLimit(procs)
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}

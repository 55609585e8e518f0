package solve

import "sync"

// ParallelFor executes fn over disjoint chunks of the row range [0, n)
// concurrently. Row order inside a chunk is preserved; only the order in
// which chunks run relative to each other is unspecified, so callers
// reducing with an associative operator (sum, min, max) are safe.
func ParallelFor(n, minChunk, workers int, fn func(start, end int)) {
	if workers < 1 {
		workers = 1
	}
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			wg.Done()
			continue
		}

		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

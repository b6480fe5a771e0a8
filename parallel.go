package infraformat

import (
	"context"
	"io"
	"runtime"
	"sync"
)

// LoadOptions controls parallel multi-file reading.
//
// Parallelism is a throughput optimization only: every file is parsed
// sequentially by one worker (line order is semantically required within
// a file) and workers share nothing mutable, so results are identical to
// a serial read. Output order follows input path order regardless of
// which worker finished first.
type LoadOptions struct {
	// Parallel enables concurrent file reading. When false files are
	// read serially in order.
	Parallel bool

	// Workers is the number of reader goroutines, defaulting to
	// runtime.NumCPU() when 0.
	Workers int

	// SkipErrors continues past files that fail to read; their errors
	// are collected and returned. When false the first error stops the
	// whole read.
	SkipErrors bool

	// Progress, when set, is called after each file finishes with the
	// counts (done, total).
	Progress func(done, total int)

	// ErrorLog, when set, receives one line per failed file.
	ErrorLog io.Writer
}

// DefaultLoadOptions returns load options with sensible defaults.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Parallel:   true,
		Workers:    runtime.NumCPU(),
		SkipErrors: true,
	}
}

// ReadFiles reads multiple infraformat files, optionally in parallel,
// concatenating the holes in input path order. Cancellation is per file:
// after ctx is done no further file is started, and the context error is
// reported.
func ReadFiles(ctx context.Context, paths []string, load LoadOptions, opts ...ReadOption) (Holes, []error) {
	if len(paths) == 0 {
		return nil, nil
	}
	cfg := newReadConfig(opts)
	if !load.Parallel {
		return readFilesSerial(ctx, paths, load, cfg)
	}

	workers := load.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	type result struct {
		index int
		holes Holes
		err   error
	}

	jobs := make(chan int, len(paths))
	results := make(chan result, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{index: index, err: err}
					continue
				}
				holes, err := readFile(paths[index], cfg)
				results <- result{index: index, holes: holes, err: err}
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	go func() {
		wg.Wait()
		close(results)
	}()

	perFile := make([]Holes, len(paths))
	var errs []error
	done := 0
	for res := range results {
		done++
		if load.Progress != nil {
			load.Progress(done, len(paths))
		}
		if res.err != nil {
			logReadError(load, paths[res.index], res.err)
			errs = append(errs, res.err)
			continue
		}
		perFile[res.index] = res.holes
	}

	var holes Holes
	for _, fileHoles := range perFile {
		holes = append(holes, fileHoles...)
	}
	if !load.SkipErrors && len(errs) > 0 {
		return nil, errs[:1]
	}
	return holes, errs
}

// readFilesSerial is the non-parallel fallback with identical semantics.
func readFilesSerial(ctx context.Context, paths []string, load LoadOptions, cfg readConfig) (Holes, []error) {
	var holes Holes
	var errs []error
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		fileHoles, err := readFile(path, cfg)
		if load.Progress != nil {
			load.Progress(i+1, len(paths))
		}
		if err != nil {
			logReadError(load, path, err)
			errs = append(errs, err)
			if !load.SkipErrors {
				return nil, errs
			}
			continue
		}
		holes = append(holes, fileHoles...)
	}
	return holes, errs
}

func logReadError(load LoadOptions, path string, err error) {
	if load.ErrorLog != nil {
		io.WriteString(load.ErrorLog, path+": "+err.Error()+"\n")
	}
}

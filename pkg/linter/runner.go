package linter

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/suffolklitlab/dalint/pkg/logger"
)

var runnerLog = logger.New("linter:runner")

// CheckFiles checks the given files concurrently with at most maxProcs
// goroutines (GOMAXPROCS when maxProcs is not positive). Results come back
// in input order regardless of completion order. Cancelling the context
// stops new files from being scheduled; files already being checked finish,
// and the returned slice covers only the files that were scheduled.
func (lint *Linter) CheckFiles(ctx context.Context, paths []string, maxProcs int) []FileResult {
	if maxProcs <= 0 {
		maxProcs = runtime.GOMAXPROCS(0)
	}
	runnerLog.Printf("Checking %d files with %d workers", len(paths), maxProcs)

	results := make([]FileResult, len(paths))
	p := pool.New().WithMaxGoroutines(maxProcs)

	scheduled := 0
	for i, path := range paths {
		if ctx.Err() != nil {
			runnerLog.Printf("Context cancelled after scheduling %d of %d files", scheduled, len(paths))
			break
		}
		p.Go(func() {
			results[i] = lint.CheckFile(path)
		})
		scheduled++
	}
	p.Wait()
	return results[:scheduled]
}

// Package pipeline orchestrates session loading, caching, aggregation
// and export.
package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"dburn/internal/model"
	"dburn/internal/source"
)

// LoadResult holds the output of the full loading pass.
type LoadResult struct {
	Sessions     []model.Session
	TotalPairs   int
	SkippedUnits int // malformed artifacts and log lines, best-effort counter
	ProjectCount int
}

// ProgressFunc is called during loading to report progress.
type ProgressFunc func(current, total int)

// Load discovers and parses every artifact pair under the sessions
// directory. Pairs parse independently on a bounded worker pool; the
// result is deterministic regardless of scheduling because dedup by
// session id happens after collection, in discovery order.
func Load(sessionsDir string, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", sessionsDir, err)
	}

	result := &LoadResult{
		TotalPairs:   len(files),
		ProjectCount: source.CountProjects(files),
	}
	if len(files) == 0 {
		return result, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]source.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseSession(files[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(files))
				}
			}
		}()
	}
	wg.Wait()

	result.Sessions, result.SkippedUnits = collect(results)
	return result, nil
}

// collect dedupes parse results by session id, first encountered wins.
func collect(results []source.ParseResult) ([]model.Session, int) {
	seen := make(map[string]struct{}, len(results))
	sessions := make([]model.Session, 0, len(results))
	skipped := 0

	for _, pr := range results {
		skipped += pr.Skipped
		if _, dup := seen[pr.Session.ID]; dup {
			continue
		}
		seen[pr.Session.ID] = struct{}{}
		sessions = append(sessions, pr.Session)
	}
	return sessions, skipped
}

// FilterEmpty drops sessions with neither tokens nor messages, per the
// hide_empty_sessions display setting.
func FilterEmpty(sessions []model.Session) []model.Session {
	out := make([]model.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Tokens.Total() == 0 && s.MessageCount == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"dburn/internal/source"
	"dburn/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHits int
	Reparsed  int
}

// LoadWithCache discovers session pairs, diffs their artifact fingerprints
// against the cache, parses only changed pairs, and returns the combined
// result set. A pair is reparsed when either artifact's mtime or size
// moved, or when an artifact appeared or disappeared.
func LoadWithCache(sessionsDir string, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	files, err := source.ScanDir(sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", sessionsDir, err)
	}

	result := &CachedLoadResult{
		LoadResult: LoadResult{
			TotalPairs:   len(files),
			ProjectCount: source.CountProjects(files),
		},
	}
	if len(files) == 0 {
		return result, nil
	}

	tracked, err := cache.Fingerprints()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	var toReparse []source.SessionFiles
	unchanged := make(map[string]struct{})

	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		if _, dup := seen[f.SessionID]; dup {
			continue
		}
		seen[f.SessionID] = struct{}{}

		fp := fingerprintOf(f)
		if cached, ok := tracked[f.SessionID]; ok && cached == fp {
			unchanged[f.SessionID] = struct{}{}
		} else {
			toReparse = append(toReparse, f)
		}
	}

	result.CacheHits = len(unchanged)
	result.Reparsed = len(toReparse)

	if len(unchanged) > 0 {
		cached, err := cache.LoadSessions(unchanged)
		if err != nil {
			return nil, fmt.Errorf("loading cached sessions: %w", err)
		}
		for _, cs := range cached {
			result.Sessions = append(result.Sessions, cs.Session)
			result.SkippedUnits += cs.Skipped
		}
	}

	if len(toReparse) > 0 {
		numWorkers := runtime.GOMAXPROCS(0)
		if numWorkers < 1 {
			numWorkers = 4
		}
		if numWorkers > len(toReparse) {
			numWorkers = len(toReparse)
		}

		work := make(chan int, len(toReparse))
		results := make([]source.ParseResult, len(toReparse))
		var wg sync.WaitGroup
		var processed atomic.Int64

		for i := range toReparse {
			work <- i
		}
		close(work)

		wg.Add(numWorkers)
		for w := 0; w < numWorkers; w++ {
			go func() {
				defer wg.Done()
				for idx := range work {
					results[idx] = source.ParseSession(toReparse[idx])
					n := processed.Add(1)
					if progressFn != nil {
						progressFn(int(n)+result.CacheHits, result.TotalPairs)
					}
				}
			}()
		}
		wg.Wait()

		for i, pr := range results {
			result.Sessions = append(result.Sessions, pr.Session)
			result.SkippedUnits += pr.Skipped

			// Re-stat after parsing so a write that lands mid-parse
			// shows up as changed on the next run.
			fp := fingerprintOf(toReparse[i])
			_ = cache.SaveSession(pr.Session, pr.Skipped, toReparse[i].ProjectDir, fp)
		}
	}

	return result, nil
}

func fingerprintOf(f source.SessionFiles) store.Fingerprint {
	return store.Fingerprint{
		Settings: statArtifact(f.SettingsPath),
		Log:      statArtifact(f.LogPath),
	}
}

func statArtifact(path string) store.ArtifactInfo {
	if path == "" {
		return store.ArtifactInfo{}
	}
	info, err := os.Stat(path)
	if err != nil {
		return store.ArtifactInfo{}
	}
	return store.ArtifactInfo{MtimeNs: info.ModTime().UnixNano(), SizeBytes: info.Size()}
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "dburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "dburn")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "sessions.db")
}

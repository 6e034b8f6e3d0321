package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDir walks the droid sessions directory and discovers artifact pairs.
// Layout: <sessionsDir>/<encoded-project-dir>/<session-id>.settings.json
// plus <session-id>.jsonl. A pair is keyed by the filename stem; either
// file may be missing. A missing or unreadable sessions directory is an
// error; unreadable project subdirectories are skipped.
func ScanDir(sessionsDir string) ([]SessionFiles, error) {
	entries, err := os.ReadDir(sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("reading sessions dir %s: %w", sessionsDir, err)
	}

	var files []SessionFiles
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}

		projectDir := e.Name()
		dirPath := filepath.Join(sessionsDir, projectDir)
		sub, err := os.ReadDir(dirPath)
		if err != nil {
			continue
		}

		// Collect stems per directory so settings and log pair up.
		pairs := make(map[string]*SessionFiles)
		var order []string
		record := func(id string) *SessionFiles {
			sf, ok := pairs[id]
			if !ok {
				sf = &SessionFiles{SessionID: id, ProjectDir: projectDir}
				pairs[id] = sf
				order = append(order, id)
			}
			return sf
		}

		for _, f := range sub {
			if f.IsDir() {
				continue
			}
			name := f.Name()
			switch {
			case strings.HasSuffix(name, ".settings.json"):
				id := strings.TrimSuffix(name, ".settings.json")
				record(id).SettingsPath = filepath.Join(dirPath, name)
			case strings.HasSuffix(name, ".jsonl"):
				id := strings.TrimSuffix(name, ".jsonl")
				record(id).LogPath = filepath.Join(dirPath, name)
			}
		}

		sort.Strings(order)
		for _, id := range order {
			files = append(files, *pairs[id])
		}
	}

	return files, nil
}

// DecodeDirPath converts an encoded project directory name back to an
// absolute path: "-Users-alice-projects-blog" -> "/Users/alice/projects/blog".
// The encoding is lossy (dashes inside segment names are indistinguishable
// from separators); the result is only used as a fallback cwd when the
// event log carries none.
func DecodeDirPath(dirName string) string {
	path := strings.ReplaceAll(dirName, "-", "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// CountProjects returns the number of unique project directories in a scan.
func CountProjects(files []SessionFiles) int {
	seen := make(map[string]struct{})
	for _, f := range files {
		seen[f.ProjectDir] = struct{}{}
	}
	return len(seen)
}

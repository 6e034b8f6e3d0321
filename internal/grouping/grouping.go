// Package grouping derives project and group names from session working
// directories.
package grouping

import (
	"strings"

	"dburn/internal/model"
)

// Sentinel names for sessions without a usable cwd. These never collide
// with real directory-derived names because empty input is the only way
// to reach them.
const (
	UnknownProject = "unknown"
	UnknownGroup   = "unknown"
)

// Ungrouped is the fallback group when no directory pattern matches.
const Ungrouped = "ungrouped"

// Strategy maps a working directory to a (project, group) pair. Must be
// pure: identical input always yields the identical pair.
type Strategy interface {
	Derive(cwd string) (project, group string)
}

// MarkerStrategy names the project after the leaf directory and the
// group after the path segment following the last known parent marker
// ("/Users/alice/projects/acme/api" -> project "api", group "acme").
// No marker in the path means the session lands in Ungrouped.
type MarkerStrategy struct {
	Markers []string
}

// Default returns the marker strategy with the standard parent markers.
func Default() Strategy {
	return MarkerStrategy{
		Markers: []string{"projects", "repos", "src", "code", "workspace", "dev"},
	}
}

// Derive implements Strategy.
func (m MarkerStrategy) Derive(cwd string) (string, string) {
	segments := splitPath(cwd)
	if len(segments) == 0 {
		return UnknownProject, UnknownGroup
	}

	project := segments[len(segments)-1]

	group := Ungrouped
	for i := len(segments) - 2; i >= 0; i-- {
		if m.isMarker(segments[i]) {
			group = segments[i+1]
			break
		}
	}

	return project, group
}

func (m MarkerStrategy) isMarker(segment string) bool {
	lower := strings.ToLower(segment)
	for _, marker := range m.Markers {
		if lower == marker {
			return true
		}
	}
	return false
}

func splitPath(cwd string) []string {
	var segments []string
	for _, s := range strings.Split(cwd, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// Annotate stamps Project and Group on every session in place.
func Annotate(sessions []model.Session, strategy Strategy) {
	for i := range sessions {
		sessions[i].Project, sessions[i].Group = strategy.Derive(sessions[i].Cwd)
	}
}

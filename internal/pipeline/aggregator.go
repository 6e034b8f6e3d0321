package pipeline

import (
	"sort"
	"time"

	"dburn/internal/config"
	"dburn/internal/model"
)

// TopProjectCount is how many projects the top list carries.
const TopProjectCount = 10

// Aggregate reduces an annotated session list into a DashboardStats
// snapshot with the heatmap window ending today.
func Aggregate(sessions []model.Session, est *config.Estimator, heatmapWeeks int) model.DashboardStats {
	return AggregateAt(sessions, est, heatmapWeeks, time.Now())
}

// AggregateAt is Aggregate with an explicit reference time, which makes
// the reduction fully deterministic: identical inputs produce identical
// snapshots, and a second call is bit-identical to the first. The
// session list is never mutated; every call builds a fresh snapshot.
func AggregateAt(sessions []model.Session, est *config.Estimator, heatmapWeeks int, now time.Time) model.DashboardStats {
	var stats model.DashboardStats
	stats.TotalSessions = len(sessions)

	type projKey struct{ group, name string }
	projects := make(map[projKey]*model.ProjectStats)
	groups := make(map[string]*model.GroupStats)
	models := make(map[string]int)
	groupMembers := make(map[string]map[string]struct{})

	for _, s := range sessions {
		cost := est.SessionCost(s)

		stats.Tokens = stats.Tokens.Add(s.Tokens)
		stats.TotalActiveTime += s.ActiveTime
		stats.EstimatedCost += cost
		models[s.Model]++

		if !s.StartedAt.IsZero() {
			if stats.FirstSession.IsZero() || s.StartedAt.Before(stats.FirstSession) {
				stats.FirstSession = s.StartedAt
			}
			if stats.LastSession.IsZero() || s.StartedAt.After(stats.LastSession) {
				stats.LastSession = s.StartedAt
			}
		}

		pk := projKey{group: s.Group, name: s.Project}
		ps, ok := projects[pk]
		if !ok {
			ps = &model.ProjectStats{Name: s.Project, Group: s.Group}
			projects[pk] = ps
		}
		ps.Sessions++
		ps.Prompts += len(s.Prompts)
		ps.Tokens = ps.Tokens.Add(s.Tokens)
		ps.ActiveTime += s.ActiveTime
		ps.EstimatedCost += cost

		gs, ok := groups[s.Group]
		if !ok {
			gs = &model.GroupStats{Name: s.Group}
			groups[s.Group] = gs
			groupMembers[s.Group] = make(map[string]struct{})
		}
		gs.Sessions++
		gs.Tokens = gs.Tokens.Add(s.Tokens)
		gs.ActiveTime += s.ActiveTime
		gs.EstimatedCost += cost
		groupMembers[s.Group][s.Project] = struct{}{}
	}

	stats.TotalProjects = len(projects)
	stats.TotalGroups = len(groups)
	stats.CacheHitRatio = stats.Tokens.CacheHitRatio()

	totalTokens := stats.Tokens.Total()
	for _, ps := range projects {
		ps.TokenShare = share(float64(ps.Tokens.Total()), float64(totalTokens))
		ps.CostShare = share(ps.EstimatedCost, stats.EstimatedCost)
		ps.TimeShare = share(float64(ps.ActiveTime), float64(stats.TotalActiveTime))
		stats.Projects = append(stats.Projects, *ps)
	}
	for name, gs := range groups {
		gs.TokenShare = share(float64(gs.Tokens.Total()), float64(totalTokens))
		gs.CostShare = share(gs.EstimatedCost, stats.EstimatedCost)
		gs.TimeShare = share(float64(gs.ActiveTime), float64(stats.TotalActiveTime))
		for member := range groupMembers[name] {
			gs.Projects = append(gs.Projects, member)
		}
		sort.Strings(gs.Projects)
		stats.Groups = append(stats.Groups, *gs)
	}

	sortProjects(stats.Projects)
	sortGroups(stats.Groups)

	if len(stats.Projects) > 0 {
		n := TopProjectCount
		if n > len(stats.Projects) {
			n = len(stats.Projects)
		}
		stats.TopProjects = append([]model.ProjectStats(nil), stats.Projects[:n]...)
	}

	for name, count := range models {
		stats.Models = append(stats.Models, model.ModelCount{Model: name, Sessions: count})
	}
	sort.Slice(stats.Models, func(i, j int) bool {
		a, b := stats.Models[i], stats.Models[j]
		if a.Sessions != b.Sessions {
			return a.Sessions > b.Sessions
		}
		return a.Model < b.Model
	})

	stats.Heatmap = heatmap(sessions, heatmapWeeks, now)

	return stats
}

// share is a ratio of part to total, 0 when the total is 0.
func share(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total
}

// sortProjects orders by total tokens desc, then sessions desc, then name.
func sortProjects(ps []model.ProjectStats) {
	sort.Slice(ps, func(i, j int) bool {
		a, b := ps[i], ps[j]
		if at, bt := a.Tokens.Total(), b.Tokens.Total(); at != bt {
			return at > bt
		}
		if a.Sessions != b.Sessions {
			return a.Sessions > b.Sessions
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Group < b.Group
	})
}

func sortGroups(gs []model.GroupStats) {
	sort.Slice(gs, func(i, j int) bool {
		a, b := gs[i], gs[j]
		if at, bt := a.Tokens.Total(), b.Tokens.Total(); at != bt {
			return at > bt
		}
		if a.Sessions != b.Sessions {
			return a.Sessions > b.Sessions
		}
		return a.Name < b.Name
	})
}

// heatmap buckets session counts by local calendar day over a trailing
// window of weeks ending at now. Days without sessions appear as zeros;
// sessions outside the window or without a timestamp are not bucketed.
func heatmap(sessions []model.Session, weeks int, now time.Time) []model.HeatmapDay {
	if weeks <= 0 {
		return nil
	}

	end := now.Local()
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.Local)
	days := weeks * 7
	startDay := endDay.AddDate(0, 0, -(days - 1))

	counts := make(map[string]int)
	for _, s := range sessions {
		if s.StartedAt.IsZero() {
			continue
		}
		local := s.StartedAt.Local()
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
		if day.Before(startDay) || day.After(endDay) {
			continue
		}
		counts[day.Format("2006-01-02")]++
	}

	out := make([]model.HeatmapDay, 0, days)
	for d := startDay; !d.After(endDay); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		out = append(out, model.HeatmapDay{Date: key, Sessions: counts[key]})
	}
	return out
}

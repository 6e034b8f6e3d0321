package pipeline

import (
	"sync"

	"dburn/internal/model"
)

// Refresher publishes aggregation snapshots with snapshot-and-swap
// semantics. A refresh either completes and atomically replaces the last
// snapshot or is abandoned because a newer refresh started in the
// meantime; readers never observe a partial snapshot.
type Refresher struct {
	mu     sync.Mutex
	gen    uint64
	latest *model.DashboardStats
}

// Begin marks the start of a refresh and returns its generation token.
func (r *Refresher) Begin() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	return r.gen
}

// Publish installs a completed snapshot if gen still identifies the most
// recently started refresh. Returns whether the snapshot was installed.
func (r *Refresher) Publish(gen uint64, stats model.DashboardStats) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		return false
	}
	r.latest = &stats
	return true
}

// Latest returns the last published snapshot, if any. The returned value
// is a copy; callers cannot corrupt the published state.
func (r *Refresher) Latest() (model.DashboardStats, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latest == nil {
		return model.DashboardStats{}, false
	}
	return *r.latest, true
}

// Refresh runs compute under a fresh generation and publishes its result
// unless a newer refresh has started. Compute errors leave the last
// snapshot untouched.
func (r *Refresher) Refresh(compute func() (model.DashboardStats, error)) (bool, error) {
	gen := r.Begin()
	stats, err := compute()
	if err != nil {
		return false, err
	}
	return r.Publish(gen, stats), nil
}

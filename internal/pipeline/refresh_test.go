package pipeline

import (
	"errors"
	"testing"

	"dburn/internal/model"
)

func TestRefresher_PublishAndLatest(t *testing.T) {
	var r Refresher

	if _, ok := r.Latest(); ok {
		t.Fatal("fresh refresher has a snapshot")
	}

	gen := r.Begin()
	if !r.Publish(gen, model.DashboardStats{TotalSessions: 3}) {
		t.Fatal("current-generation publish rejected")
	}

	got, ok := r.Latest()
	if !ok || got.TotalSessions != 3 {
		t.Fatalf("Latest = %+v, %v", got, ok)
	}
}

func TestRefresher_StaleGenerationDropped(t *testing.T) {
	var r Refresher

	old := r.Begin()
	if !r.Publish(old, model.DashboardStats{TotalSessions: 1}) {
		t.Fatal("first publish rejected")
	}

	stale := r.Begin()
	fresh := r.Begin()

	if r.Publish(stale, model.DashboardStats{TotalSessions: 99}) {
		t.Error("stale publish accepted")
	}
	got, _ := r.Latest()
	if got.TotalSessions != 1 {
		t.Errorf("stale publish replaced snapshot: %+v", got)
	}

	if !r.Publish(fresh, model.DashboardStats{TotalSessions: 2}) {
		t.Error("current publish rejected")
	}
	got, _ = r.Latest()
	if got.TotalSessions != 2 {
		t.Errorf("snapshot = %+v", got)
	}
}

func TestRefresher_ComputeErrorKeepsSnapshot(t *testing.T) {
	var r Refresher
	if _, err := r.Refresh(func() (model.DashboardStats, error) {
		return model.DashboardStats{TotalSessions: 5}, nil
	}); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	wantErr := errors.New("scan failed")
	published, err := r.Refresh(func() (model.DashboardStats, error) {
		return model.DashboardStats{}, wantErr
	})
	if published || !errors.Is(err, wantErr) {
		t.Fatalf("Refresh = %v, %v", published, err)
	}

	got, ok := r.Latest()
	if !ok || got.TotalSessions != 5 {
		t.Errorf("failed refresh disturbed snapshot: %+v, %v", got, ok)
	}
}

func TestRefresher_LatestReturnsCopy(t *testing.T) {
	var r Refresher
	gen := r.Begin()
	r.Publish(gen, model.DashboardStats{TotalProjects: 7})

	got, _ := r.Latest()
	got.TotalProjects = 0

	again, _ := r.Latest()
	if again.TotalProjects != 7 {
		t.Error("caller mutation leaked into published snapshot")
	}
}

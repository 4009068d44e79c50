package workspace

import (
	"errors"
	"sync"
	"testing"
	"time"

	"prom_seating_console/dashboard"
)

type fakeGauge struct {
	mu sync.Mutex
	v  float64
}

func (g *fakeGauge) Set(v float64) {
	g.mu.Lock()
	g.v = v
	g.mu.Unlock()
}

func (g *fakeGauge) get() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.v
}

func testBuilder() Builder {
	return Builder{
		BackendURL: "http://backend.invalid/api",
		Timeout:    time.Second,
		Admin:      dashboard.AdminOptions{Bounds: dashboard.Bounds{Min: 1, Max: 55}},
	}
}

func TestGetCreatesOnce(t *testing.T) {
	g := &fakeGauge{}
	builds := 0
	b := testBuilder()
	r := NewRegistry(func(id string) (*Workspace, error) {
		builds++
		return b.Build(id)
	}, time.Hour, g, nil)

	w1, err := r.Get("a")
	if err != nil {
		t.Fatal(err)
	}
	w2, _ := r.Get("a")
	if w1 != w2 || builds != 1 {
		t.Fatalf("workspace rebuilt: builds=%d", builds)
	}
	if _, err := r.Get("b"); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 2 || g.get() != 2 {
		t.Fatalf("len=%d gauge=%v", r.Len(), g.get())
	}
	if w1.Student == nil || w1.Admin == nil || w1.Login == nil || w1.Session == nil {
		t.Fatal("workspace not fully wired")
	}

	r.Drop("a")
	if r.Len() != 1 || g.get() != 1 {
		t.Fatalf("after drop len=%d gauge=%v", r.Len(), g.get())
	}
}

func TestWorkspacesDoNotShareSessions(t *testing.T) {
	b := testBuilder()
	r := NewRegistry(b.Build, time.Hour, nil, nil)
	a, _ := r.Get("a")
	c, _ := r.Get("c")
	if a.Session == c.Session || a.API == c.API {
		t.Fatal("workspaces share state")
	}
}

func TestSweepEvictsIdle(t *testing.T) {
	now := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	b := testBuilder()
	r := NewRegistry(b.Build, 30*time.Minute, nil, nil)
	r.now = func() time.Time { return now }

	_, _ = r.Get("old")
	now = now.Add(20 * time.Minute)
	_, _ = r.Get("fresh")
	now = now.Add(15 * time.Minute)

	if n := r.Sweep(); n != 1 {
		t.Fatalf("Sweep = %d", n)
	}
	r.mu.Lock()
	_, oldOK := r.items["old"]
	_, freshOK := r.items["fresh"]
	r.mu.Unlock()
	if oldOK || !freshOK {
		t.Fatalf("old kept=%v fresh kept=%v", oldOK, freshOK)
	}
}

func TestBuildErrorIsReturned(t *testing.T) {
	b := testBuilder()
	b.BackendURL = "not a url"
	r := NewRegistry(b.Build, time.Hour, nil, nil)
	if _, err := r.Get("x"); err == nil {
		t.Fatal("want error")
	}
	if r.Len() != 0 {
		t.Fatal("broken workspace stored")
	}

	boom := errors.New("boom")
	r = NewRegistry(func(string) (*Workspace, error) { return nil, boom }, time.Hour, nil, nil)
	if _, err := r.Get("x"); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

// Package workspace holds the live console state of every browser session.
package workspace

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"prom_seating_console/backend"
	"prom_seating_console/dashboard"
	"prom_seating_console/logger"
	"prom_seating_console/session"
)

// Workspace is one browser's backend client plus its dashboards.
type Workspace struct {
	ID      string
	API     *backend.Client
	Session *dashboard.Session
	Login   *dashboard.Login
	Student *dashboard.Student
	Admin   *dashboard.Admin

	lastSeen atomic.Int64
}

func (w *Workspace) touch(now time.Time) { w.lastSeen.Store(now.UnixNano()) }

func (w *Workspace) LastSeen() time.Time { return time.Unix(0, w.lastSeen.Load()) }

// Builder creates workspaces. All clients share Transport.
type Builder struct {
	BackendURL string
	Timeout    time.Duration
	Transport  http.RoundTripper
	Handoffs   *session.HandoffStore
	Recorder   dashboard.Recorder
	Admin      dashboard.AdminOptions
	Log        *logger.Logger
}

func (b Builder) Build(id string) (*Workspace, error) {
	log := b.Log
	if log == nil {
		log = logger.Discard()
	}
	api, err := backend.New(backend.Config{
		BaseURL:   b.BackendURL,
		Timeout:   b.Timeout,
		Transport: b.Transport,
		Log:       log.With("backend"),
	})
	if err != nil {
		return nil, fmt.Errorf("workspace %s: %w", id, err)
	}
	var carry dashboard.CarryOver
	if b.Handoffs != nil {
		carry = b.Handoffs.For(id)
	}
	sess := dashboard.NewSession()
	verifier := dashboard.NewVerifier(api, carry, log.With("verify"))
	return &Workspace{
		ID:      id,
		API:     api,
		Session: sess,
		Login:   dashboard.NewLogin(api, carry, b.Recorder, log.With("login")),
		Student: dashboard.NewStudent(api, sess, verifier, b.Recorder, log.With("student")),
		Admin:   dashboard.NewAdmin(api, sess, verifier, b.Recorder, log.With("admin"), b.Admin),
	}, nil
}

// Gauge is the subset of prometheus.Gauge the registry reports to.
type Gauge interface {
	Set(float64)
}

// Registry maps browser session ids to workspaces and evicts idle ones.
type Registry struct {
	build func(id string) (*Workspace, error)
	idle  time.Duration
	gauge Gauge
	log   *logger.Logger
	now   func() time.Time

	mu    sync.Mutex
	items map[string]*Workspace
}

func NewRegistry(build func(id string) (*Workspace, error), idle time.Duration, gauge Gauge, log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Discard()
	}
	return &Registry{
		build: build,
		idle:  idle,
		gauge: gauge,
		log:   log,
		now:   time.Now,
		items: make(map[string]*Workspace),
	}
}

// Get returns the workspace for id, creating it on first use.
func (r *Registry) Get(id string) (*Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.items[id]; ok {
		w.touch(r.now())
		return w, nil
	}
	w, err := r.build(id)
	if err != nil {
		return nil, err
	}
	w.touch(r.now())
	r.items[id] = w
	r.report()
	r.log.Debugf("workspace %s created", id)
	return w, nil
}

func (r *Registry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; ok {
		delete(r.items, id)
		r.report()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Sweep drops workspaces idle longer than the idle window.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, w := range r.items {
		if w.LastSeen().Before(cutoff) {
			delete(r.items, id)
			n++
		}
	}
	if n > 0 {
		r.report()
		r.log.Infof("evicted %d idle workspaces", n)
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep()
		}
	}
}

// report must be called with r.mu held.
func (r *Registry) report() {
	if r.gauge != nil {
		r.gauge.Set(float64(len(r.items)))
	}
}

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"prom_seating_console/models"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestAppSessionLifecycle(t *testing.T) {
	mr, rdb := newRedis(t)
	store := NewAppSessionStore(rdb, time.Hour)
	ctx := context.Background()

	if _, err := store.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing = %v", err)
	}
	if _, err := store.Create(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	as, err := store.Get(ctx, "s1")
	if err != nil || as.ID != "s1" {
		t.Fatalf("Get = %+v, %v", as, err)
	}

	mr.FastForward(50 * time.Minute)
	if err := store.Touch(ctx, "s1"); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	mr.FastForward(50 * time.Minute)
	if _, err := store.Get(ctx, "s1"); err != nil {
		t.Fatalf("touched session expired: %v", err)
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if err := store.Touch(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Touch deleted = %v", err)
	}
}

func TestAppSessionExpires(t *testing.T) {
	mr, rdb := newRedis(t)
	store := NewAppSessionStore(rdb, time.Minute)
	ctx := context.Background()

	if _, err := store.Create(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get expired = %v", err)
	}
}

func TestHandoffIsOneShot(t *testing.T) {
	_, rdb := newRedis(t)
	h := NewHandoffStore(rdb, time.Minute).For("s1")
	ctx := context.Background()
	table := 7

	if err := h.Put(ctx, models.Principal{ID: 4, Role: models.RoleStudent, AssignedTableID: &table}); err != nil {
		t.Fatal(err)
	}
	p, ok := h.Take(ctx)
	if !ok || p.ID != 4 || !p.HasTable(7) {
		t.Fatalf("Take = %+v, %v", p, ok)
	}
	if _, ok := h.Take(ctx); ok {
		t.Fatal("handoff taken twice")
	}
}

func TestHandoffIsPerSession(t *testing.T) {
	_, rdb := newRedis(t)
	store := NewHandoffStore(rdb, time.Minute)
	ctx := context.Background()

	_ = store.Save(ctx, "a", models.Principal{ID: 1, Role: models.RoleAdmin})
	if _, err := store.Take(ctx, "b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other session saw handoff: %v", err)
	}
	store.Discard(ctx, "a")
	if _, ok := store.For("a").Take(ctx); ok {
		t.Fatal("discarded handoff returned")
	}
}

func TestHandoffExpires(t *testing.T) {
	mr, rdb := newRedis(t)
	h := NewHandoffStore(rdb, 30*time.Second).For("s1")
	ctx := context.Background()

	_ = h.Put(ctx, models.Principal{ID: 1, Role: models.RoleStudent})
	mr.FastForward(time.Minute)
	if _, ok := h.Take(ctx); ok {
		t.Fatal("expired handoff returned")
	}
}

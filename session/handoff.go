package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"prom_seating_console/models"
)

// HandoffStore keeps the principal returned by a login until the next
// dashboard load picks it up. GETDEL makes the pick-up one-shot.
type HandoffStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewHandoffStore(rdb *redis.Client, ttl time.Duration) *HandoffStore {
	return &HandoffStore{rdb: rdb, ttl: ttl}
}

func handoffKey(sid string) string { return fmt.Sprintf("seat:handoff:%s", sid) }

func (s *HandoffStore) Save(ctx context.Context, sid string, p models.Principal) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, handoffKey(sid), b, s.ttl).Err()
}

// Take returns and deletes the stored principal.
func (s *HandoffStore) Take(ctx context.Context, sid string) (models.Principal, error) {
	b, err := s.rdb.GetDel(ctx, handoffKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Principal{}, ErrNotFound
	}
	if err != nil {
		return models.Principal{}, err
	}
	var p models.Principal
	if err := json.Unmarshal(b, &p); err != nil {
		return models.Principal{}, err
	}
	return p, nil
}

func (s *HandoffStore) Discard(ctx context.Context, sid string) {
	_ = s.rdb.Del(ctx, handoffKey(sid)).Err()
}

// For binds the store to one browser session.
func (s *HandoffStore) For(sid string) *Handoff {
	return &Handoff{store: s, sid: sid}
}

type Handoff struct {
	store *HandoffStore
	sid   string
}

func (h *Handoff) Put(ctx context.Context, p models.Principal) error {
	return h.store.Save(ctx, h.sid, p)
}

// Take reports false on a miss or a redis error; either way the caller
// verifies over the network.
func (h *Handoff) Take(ctx context.Context) (models.Principal, bool) {
	p, err := h.store.Take(ctx, h.sid)
	if err != nil {
		return models.Principal{}, false
	}
	return p, true
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound 会话不存在或已过期
var ErrNotFound = errors.New("session: not found")

// AppSessionStore keeps one record per browser. The record only proves the
// cookie was issued by us; who is logged in lives in the backend session.
type AppSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAppSessionStore(rdb *redis.Client, ttl time.Duration) *AppSessionStore {
	return &AppSessionStore{rdb: rdb, ttl: ttl}
}

type AppSession struct {
	ID        string `json:"sid"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

func key(id string) string { return fmt.Sprintf("seat:sess:%s", id) }

func (s *AppSessionStore) TTL() time.Duration { return s.ttl }

func (s *AppSessionStore) Create(ctx context.Context, id string) (*AppSession, error) {
	now := time.Now()
	as := &AppSession{ID: id, IssuedAt: now.Unix(), ExpiresAt: now.Add(s.ttl).Unix()}
	b, _ := json.Marshal(as)
	if err := s.rdb.Set(ctx, key(id), b, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return as, nil
}

func (s *AppSessionStore) Get(ctx context.Context, id string) (*AppSession, error) {
	b, err := s.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var as AppSession
	if err := json.Unmarshal(b, &as); err != nil {
		return nil, err
	}
	return &as, nil
}

// Touch 续期（滑动过期）
func (s *AppSessionStore) Touch(ctx context.Context, id string) error {
	as, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	as.ExpiresAt = time.Now().Add(s.ttl).Unix()
	b, _ := json.Marshal(as)
	return s.rdb.SetArgs(ctx, key(id), b, redis.SetArgs{Mode: "XX", TTL: s.ttl}).Err()
}

func (s *AppSessionStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, key(id)).Err()
}

package services

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"attesta/internal/utils"
)

// SessionStore keeps server-side admin sessions keyed by an opaque cookie
// value.
type SessionStore interface {
	Create(ctx context.Context, ttl time.Duration) (string, error)
	Valid(ctx context.Context, token string) bool
	Delete(ctx context.Context, token string) error
}

// RedisSessions stores sessions in redis with a TTL.
type RedisSessions struct {
	client *redis.Client
}

func NewRedisSessions(client *redis.Client) *RedisSessions {
	return &RedisSessions{client: client}
}

func sessionKey(token string) string { return "admin:session:" + token }

func (s *RedisSessions) Create(ctx context.Context, ttl time.Duration) (string, error) {
	token, err := utils.GenerateNanoID()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, sessionKey(token), "1", ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisSessions) Valid(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	res, err := s.client.Exists(ctx, sessionKey(token)).Result()
	return err == nil && res > 0
}

func (s *RedisSessions) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}

// MemorySessions is the fallback store used when no REDIS_URL is set.
// Sessions do not survive a restart.
type MemorySessions struct {
	mu       sync.Mutex
	sessions map[string]time.Time
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[string]time.Time)}
}

func (s *MemorySessions) Create(ctx context.Context, ttl time.Duration) (string, error) {
	token, err := utils.GenerateNanoID()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.sessions[token] = time.Now().Add(ttl)
	s.mu.Unlock()
	return token, nil
}

func (s *MemorySessions) Valid(ctx context.Context, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.sessions[token]
	if !ok {
		return false
	}
	if time.Now().After(exp) {
		delete(s.sessions, token)
		return false
	}
	return true
}

func (s *MemorySessions) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

var (
	_ SessionStore = (*RedisSessions)(nil)
	_ SessionStore = (*MemorySessions)(nil)
)

package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type MemoryTokenStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

func (m *MemoryTokenStore) Get(_ context.Context, token string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNoSession
	}
	if s.Expired(m.now()) {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return nil, ErrExpired
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryTokenStore) Put(_ context.Context, s *Session, ttl time.Duration) error {
	if s == nil || s.Token == "" {
		return errors.New("session token is required")
	}
	cp := *s
	if ttl > 0 {
		cp.ExpiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.sessions[cp.Token] = &cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryTokenStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
	return nil
}

const redisKeyPrefix = "relationships:session:"

// RedisTokenStore shares sessions across server replicas; expiry is delegated to redis TTLs.
type RedisTokenStore struct {
	client redis.UniversalClient
}

func NewRedisTokenStore(client redis.UniversalClient) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func redisKey(token string) string {
	return redisKeyPrefix + token
}

func (r *RedisTokenStore) Get(ctx context.Context, token string) (*Session, error) {
	b, err := r.client.Get(ctx, redisKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisTokenStore) Put(ctx context.Context, s *Session, ttl time.Duration) error {
	if s == nil || s.Token == "" {
		return errors.New("session token is required")
	}
	cp := *s
	if ttl > 0 {
		cp.ExpiresAt = time.Now().Add(ttl)
	}
	b, err := json.Marshal(cp)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisKey(cp.Token), b, ttl).Err()
}

func (r *RedisTokenStore) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, redisKey(token)).Err()
}

// NewRedisClient accepts either a redis:// URL or a bare host:port address.
func NewRedisClient(url string) (*redis.Client, error) {
	if strings.Contains(url, "://") {
		opts, err := redis.ParseURL(url)
		if err != nil {
			return nil, err
		}
		return redis.NewClient(opts), nil
	}
	if url == "" {
		return nil, errors.New("redis url is empty")
	}
	return redis.NewClient(&redis.Options{Addr: url}), nil
}

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/matst80/node-finder/pkg/types"
	"github.com/redis/go-redis/v9"
)

// RedisPreferenceStore keeps the per-user settings bags as JSON strings.
type RedisPreferenceStore struct {
	client *redis.Client
}

func NewRedisPreferenceStore(addr, password string, db int) *RedisPreferenceStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisPreferenceStore{client: rdb}
}

func NewRedisPreferenceStoreWithClient(client *redis.Client) *RedisPreferenceStore {
	return &RedisPreferenceStore{client: client}
}

func (s *RedisPreferenceStore) Load(ctx context.Context, key string) (types.Preferences, error) {
	data, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return types.Preferences{}, types.ErrNotFound
	}
	if err != nil {
		return types.Preferences{}, fmt.Errorf("load preferences %s: %w", key, err)
	}
	var prefs types.Preferences
	if err := json.Unmarshal([]byte(data), &prefs); err != nil {
		return types.Preferences{}, fmt.Errorf("decode preferences %s: %w", key, err)
	}
	return prefs, nil
}

func (s *RedisPreferenceStore) Save(ctx context.Context, key string, prefs types.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, 0).Err()
}

func (s *RedisPreferenceStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisPreferenceStore) Close() error {
	return s.client.Close()
}

// MemoryPreferenceStore keeps preferences for the lifetime of the process.
type MemoryPreferenceStore struct {
	mu    sync.RWMutex
	prefs map[string]types.Preferences
}

func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{prefs: make(map[string]types.Preferences)}
}

func (s *MemoryPreferenceStore) Load(_ context.Context, key string) (types.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prefs[key]
	if !ok {
		return types.Preferences{}, types.ErrNotFound
	}
	return p, nil
}

func (s *MemoryPreferenceStore) Save(_ context.Context, key string, prefs types.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[key] = prefs
	return nil
}

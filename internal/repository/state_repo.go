package repository

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	redis "github.com/redis/go-redis/v9"
)

// Record names for the per-user state blobs. Each is an independently
// read/written JSON blob, loaded in full at session start and rewritten in
// full on every mutation.
const (
	RecordUser        = "user"
	RecordWallet      = "wallet"
	RecordDailyStreak = "dailyStreak"
	RecordFreeMinutes = "freeMinutes"
	RecordOnboarding  = "hasSeenOnboarding"
)

// StateStore persists per-user state records as whole blobs, overwrite-by-key.
// Writes are independent and idempotent; no retries.
type StateStore interface {
	Save(ctx context.Context, userID int64, record string, v any) error
	Load(ctx context.Context, userID int64, record string, v any) (bool, error)
	Delete(ctx context.Context, userID int64, records ...string) error
}

func stateKey(userID int64, record string) string {
	return "state:" + strconv.FormatInt(userID, 10) + ":" + record
}

// RedisStateStore is the production StateStore backed by Redis.
type RedisStateStore struct {
	client *redis.Client
}

func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

func (s *RedisStateStore) Save(ctx context.Context, userID int64, record string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, stateKey(userID, record), data, 0).Err()
}

func (s *RedisStateStore) Load(ctx context.Context, userID int64, record string, v any) (bool, error) {
	data, err := s.client.Get(ctx, stateKey(userID, record)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStateStore) Delete(ctx context.Context, userID int64, records ...string) error {
	keys := make([]string, 0, len(records))
	for _, r := range records {
		keys = append(keys, stateKey(userID, r))
	}
	return s.client.Del(ctx, keys...).Err()
}

// MemoryStateStore keeps blobs in-process. Used in tests and as the fallback
// when Redis is not configured.
type MemoryStateStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{data: make(map[string][]byte)}
}

func (s *MemoryStateStore) Save(_ context.Context, userID int64, record string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[stateKey(userID, record)] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStateStore) Load(_ context.Context, userID int64, record string, v any) (bool, error) {
	s.mu.RLock()
	data, ok := s.data[stateKey(userID, record)]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryStateStore) Delete(_ context.Context, userID int64, records ...string) error {
	s.mu.Lock()
	for _, r := range records {
		delete(s.data, stateKey(userID, r))
	}
	s.mu.Unlock()
	return nil
}

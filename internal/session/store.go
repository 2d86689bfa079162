// Package session stores the in-progress checkout selection per user so
// the booking flow survives across requests.  Selections are advisory
// state only; they hold no seats and nothing here is authoritative, so a
// lost entry just restarts the flow.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkrishnan-dev/movie-ticket-booking/internal/model"
)

// Selection is the durable slice of a checkout: the chosen showtime and,
// once picked, the chosen seat labels.  A nil ShowtimeKey means the user
// has not selected a showtime yet.
type Selection struct {
	ShowtimeKey *model.ShowtimeKey `json:"showtime_key,omitempty"`
	Seats       []string           `json:"seats,omitempty"`
}

// Store keeps one Selection per user.  Get returns a zero Selection when
// none is stored.
type Store interface {
	Get(ctx context.Context, userID uint64) (Selection, error)
	Set(ctx context.Context, userID uint64, sel Selection) error
	Clear(ctx context.Context, userID uint64) error
}

// RedisStore keeps selections in Redis as JSON with a TTL, so abandoned
// checkouts expire on their own.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore builds a RedisStore.  A zero or negative ttl falls back
// to 30 minutes.
func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "checkout"
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(userID uint64) string {
	return s.prefix + ":" + strconv.FormatUint(userID, 10)
}

// Get loads the user's selection.  A missing key yields a zero Selection.
func (s *RedisStore) Get(ctx context.Context, userID uint64) (Selection, error) {
	raw, err := s.rdb.Get(ctx, s.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Selection{}, nil
		}
		return Selection{}, err
	}
	var sel Selection
	if err := json.Unmarshal(raw, &sel); err != nil {
		// Unreadable payloads are treated as absent so the user can
		// restart the flow instead of being stuck.
		return Selection{}, nil
	}
	return sel, nil
}

// Set stores the user's selection and refreshes the TTL.
func (s *RedisStore) Set(ctx context.Context, userID uint64, sel Selection) error {
	raw, err := json.Marshal(sel)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(userID), raw, s.ttl).Err()
}

// Clear removes the user's selection.
func (s *RedisStore) Clear(ctx context.Context, userID uint64) error {
	return s.rdb.Del(ctx, s.key(userID)).Err()
}

// MemoryStore is a process-local Store used when no Redis client is
// available and in tests.  Entries do not expire.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[uint64]Selection
}

// NewMemoryStore builds an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[uint64]Selection)}
}

func (s *MemoryStore) Get(_ context.Context, userID uint64) (Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[userID], nil
}

func (s *MemoryStore) Set(_ context.Context, userID uint64, sel Selection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = sel
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, userID)
	return nil
}

// New picks the Redis-backed store when a client is configured and falls
// back to the in-memory store otherwise.
func New(rdb *redis.Client, prefix string, ttl time.Duration) Store {
	if rdb == nil {
		return NewMemoryStore()
	}
	return NewRedisStore(rdb, prefix, ttl)
}

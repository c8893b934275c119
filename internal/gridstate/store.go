package gridstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists grid state per user. Update runs fn against the current
// state and saves the result as one step; if fn fails nothing is saved.
type Store interface {
	Get(ctx context.Context, userKey string) (State, error)
	Save(ctx context.Context, userKey string, s State) error
	Update(ctx context.Context, userKey string, fn func(*State) error) (State, error)
}

// ── In-memory ────────────────────────────────────────

type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

// Get returns the saved state, or New() if the user has none
func (m *MemoryStore) Get(_ context.Context, userKey string) (State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.load(userKey), nil
}

func (m *MemoryStore) Save(_ context.Context, userKey string, s State) error {
	m.mu.Lock()
	m.states[userKey] = s
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Update(_ context.Context, userKey string, fn func(*State) error) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.load(userKey)
	if err := fn(&s); err != nil {
		return s, err
	}
	m.states[userKey] = s
	return s, nil
}

func (m *MemoryStore) load(userKey string) State {
	if s, ok := m.states[userKey]; ok {
		return s
	}
	return New()
}

// ── Redis ────────────────────────────────────────────

const (
	redisKeyPrefix   = "gridstate:"
	redisMaxAttempts = 10
)

// ErrConflict is returned when Update keeps losing to concurrent writers
var ErrConflict = errors.New("grid state changed concurrently")

// stringGetter is satisfied by both *redis.Client and *redis.Tx
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore keeps each user's state as a JSON value with a sliding TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, userKey string) (State, error) {
	return r.read(ctx, r.client, redisKeyPrefix+userKey)
}

func (r *RedisStore) Save(ctx context.Context, userKey string, s State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding grid state: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+userKey, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("writing grid state: %w", err)
	}
	return nil
}

// Update is an optimistic WATCH/MULTI loop; a write that lands between the
// read and the EXEC forces a retry.
func (r *RedisStore) Update(ctx context.Context, userKey string, fn func(*State) error) (State, error) {
	key := redisKeyPrefix + userKey
	var out State

	txf := func(tx *redis.Tx) error {
		s, err := r.read(ctx, tx, key)
		if err != nil {
			return err
		}
		if err := fn(&s); err != nil {
			return err
		}
		raw, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("encoding grid state: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, r.ttl)
			return nil
		})
		if err == nil {
			out = s
		}
		return err
	}

	for attempt := 0; attempt < redisMaxAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return out, err
	}
	return out, ErrConflict
}

func (r *RedisStore) read(ctx context.Context, c stringGetter, key string) (State, error) {
	raw, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		return State{}, fmt.Errorf("reading grid state: %w", err)
	}

	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}, fmt.Errorf("decoding grid state: %w", err)
	}
	return s, nil
}

// Package session is the server-side replacement for the device-local
// key/value store: every diner session gets a namespaced bucket holding its
// preferences, cart, consent flag, table selection and guest order tokens.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key namespaces. One session id owns one value per namespace.
const (
	NamespacePreferences = "preferences"
	NamespaceCart        = "cart"
	NamespaceGuestTokens = "guestOrderTokens"
	NamespaceSelection   = "selection"
	NamespaceConsent     = "consentAccepted"
)

type (
	// Store is the injected key/value collaborator. Implementations must
	// return (nil, nil) for missing keys so read paths can degrade to
	// zero values without error handling at every call site.
	Store interface {
		Get(ctx context.Context, sessionID, namespace string) ([]byte, error)
		Set(ctx context.Context, sessionID, namespace string, value []byte) error
		Remove(ctx context.Context, sessionID, namespace string) error
	}

	redisStore struct {
		client *redis.Client
		ttl    time.Duration
	}
)

func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func sessionKey(sessionID, namespace string) string {
	return "safedine:" + sessionID + ":" + namespace
}

func (s *redisStore) Get(ctx context.Context, sessionID, namespace string) ([]byte, error) {
	val, err := s.client.Get(ctx, sessionKey(sessionID, namespace)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *redisStore) Set(ctx context.Context, sessionID, namespace string, value []byte) error {
	return s.client.Set(ctx, sessionKey(sessionID, namespace), value, s.ttl).Err()
}

func (s *redisStore) Remove(ctx context.Context, sessionID, namespace string) error {
	return s.client.Del(ctx, sessionKey(sessionID, namespace)).Err()
}

// GetJSON unmarshals the stored value into out. A missing key or a corrupt
// payload leaves out untouched and returns false; storage corruption is
// treated as absence, never surfaced to the caller.
func GetJSON(ctx context.Context, store Store, sessionID, namespace string, out interface{}) bool {
	raw, err := store.Get(ctx, sessionID, namespace)
	if err != nil || len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return true
}

// SetJSON marshals value and persists it under the session's namespace.
func SetJSON(ctx context.Context, store Store, sessionID, namespace string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.Set(ctx, sessionID, namespace, raw)
}

// MemoryStore is an in-process Store used in tests and as a fallback when no
// redis address is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, sessionID, namespace string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[sessionKey(sessionID, namespace)]
	if !ok {
		return nil, nil
	}
	cp := make([]byte, len(val))
	copy(cp, val)
	return cp, nil
}

func (m *MemoryStore) Set(ctx context.Context, sessionID, namespace string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[sessionKey(sessionID, namespace)] = cp
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, sessionID, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionKey(sessionID, namespace))
	return nil
}

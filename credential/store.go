package credential

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

const (
	// TokenKey names the persisted raw bearer token.
	TokenKey = "auth_token"
	// SnapshotKey names the persisted session snapshot.
	SnapshotKey = "auth-storage"
)

var (
	// ErrNotFound is returned by Get when no live entry exists for the key.
	ErrNotFound = errors.New("credential not found")
	// ErrUnavailable wraps backend failures (connection loss, I/O errors).
	ErrUnavailable = errors.New("credential store unavailable")
)

// Store is durable key-value persistence for auth material. Sweep removes
// every key matching the auth naming convention, catching orphaned entries
// left behind by superseded schema versions.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Sweep(ctx context.Context) error
}

// matchesAuthConvention reports whether a key belongs to the auth namespace.
// Kept deliberately broad so renamed keys from older deployments are still
// swept.
func matchesAuthConvention(key string) bool {
	return strings.Contains(key, "auth") || strings.Contains(key, "token")
}

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// MemoryStore is an in-process [Store]. A fresh instance models a fresh tab
// with no shared credential; it is also the default store wired by the
// builder and the test double for the durable backends.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	s.entries[key] = entry
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return "", ErrNotFound
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return "", ErrNotFound
	}
	return entry.value, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) Sweep(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.entries {
		if matchesAuthConvention(key) {
			delete(s.entries, key)
		}
	}
	return nil
}

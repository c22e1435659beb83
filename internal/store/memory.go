package store

import (
	"context"
	"sync"
	"time"
)

// memoryEntry is a stored value plus its expiration deadline.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-process Store for tests and local development.
// Expired entries are dropped lazily on access.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// SetClock overrides the time source. Tests use this to cross TTL deadlines
// without sleeping.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// Put stores value under key with the given TTL.
func (s *MemoryStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(value))
	copy(buf, value)
	s.entries[key] = memoryEntry{
		value:     buf,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

// Get returns the value for key, or ErrKeyNotFound.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return nil, ErrKeyNotFound
	}

	buf := make([]byte, len(entry.value))
	copy(buf, entry.value)
	return buf, nil
}

// Exists reports whether key holds a live value.
func (s *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Get(ctx, key)
	if err == ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Close clears the store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.entries = make(map[string]memoryEntry)
	s.mu.Unlock()
	return nil
}

// Len returns the number of entries, live or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

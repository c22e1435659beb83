package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, "abcde", []byte(`{"url":"https://example.com"}`), time.Hour))

	val, err := s.Get(ctx, "abcde")
	require.NoError(t, err)
	assert.Equal(t, `{"url":"https://example.com"}`, string(val))
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), "nope1")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, "abcde", []byte("first"), time.Hour))
	require.NoError(t, s.Put(ctx, "abcde", []byte("second"), time.Hour))

	val, err := s.Get(ctx, "abcde")
	require.NoError(t, err)
	assert.Equal(t, "second", string(val))
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	now := time.Now()
	s.SetClock(func() time.Time { return now })

	require.NoError(t, s.Put(ctx, "abcde", []byte("v"), time.Minute))

	// Still live just before the deadline.
	now = now.Add(59 * time.Second)
	s.SetClock(func() time.Time { return now })
	_, err := s.Get(ctx, "abcde")
	require.NoError(t, err)

	// Gone at the deadline, indistinguishable from never existing.
	now = now.Add(time.Second)
	s.SetClock(func() time.Time { return now })
	_, err = s.Get(ctx, "abcde")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	exists, err := s.Exists(ctx, "abcde")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryStore_Exists(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	exists, err := s.Exists(ctx, "abcde")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.Put(ctx, "abcde", []byte("v"), time.Hour))

	exists, err = s.Exists(ctx, "abcde")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryStore_ValueIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	original := []byte("abc")
	require.NoError(t, s.Put(ctx, "k1234", original, time.Hour))
	original[0] = 'x'

	val, err := s.Get(ctx, "k1234")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(val))

	// Mutating the returned slice must not corrupt the stored copy.
	val[0] = 'y'
	val2, err := s.Get(ctx, "k1234")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(val2))
}

func TestMemoryStore_PingAndClose(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, "abcde", []byte("v"), time.Hour))
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Close())

	_, err := s.Get(ctx, "abcde")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

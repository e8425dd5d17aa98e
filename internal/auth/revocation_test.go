package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevocationAddHas(t *testing.T) {
	store := NewMemoryRevocationStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "tok-1", time.Minute))

	revoked, err := store.Has(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.Has(ctx, "tok-unknown")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryRevocationLazyExpiry(t *testing.T) {
	now := time.Now()
	store := NewMemoryRevocationStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "tok-1", time.Minute))

	revoked, err := store.Has(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(time.Minute + time.Second)

	// Expired revocation answers false and stays false on repeated lookups.
	for i := 0; i < 3; i++ {
		revoked, err = store.Has(ctx, "tok-1")
		require.NoError(t, err)
		assert.False(t, revoked)
	}

	store.mu.Lock()
	_, present := store.entries["tok-1"]
	store.mu.Unlock()
	assert.False(t, present, "expired entry should be purged on lookup")
}

func TestMemoryRevocationSweepOnAdd(t *testing.T) {
	now := time.Now()
	store := NewMemoryRevocationStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "short", time.Second))
	require.NoError(t, store.Add(ctx, "long", time.Hour))

	now = now.Add(time.Minute)
	require.NoError(t, store.Add(ctx, "fresh", time.Minute))

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.NotContains(t, store.entries, "short")
	assert.Contains(t, store.entries, "long")
	assert.Contains(t, store.entries, "fresh")
}

func TestMemoryRevocationOverwriteExtends(t *testing.T) {
	now := time.Now()
	store := NewMemoryRevocationStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "tok-1", time.Second))
	require.NoError(t, store.Add(ctx, "tok-1", time.Hour))

	now = now.Add(time.Minute)
	revoked, err := store.Has(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

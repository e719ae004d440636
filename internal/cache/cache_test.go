package cache_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/seiru/msdcalc/internal/cache"
	"github.com/seiru/msdcalc/internal/skillset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.Open(filepath.Join(t.TempDir(), "ratings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleScores(base float64) skillset.ScoreSet {
	return skillset.ScoreSet{
		Overall:    base + 1.0,
		Stream:     base,
		Jumpstream: base * 0.9,
		Handstream: base * 0.8,
		Stamina:    base * 0.7,
		JackSpeed:  base * 0.3,
		Chordjack:  base * 0.2,
		Technical:  base * 0.6,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	digest := cache.Digest([]byte("0.0 1\n0.2 2\n"))
	scores := sampleScores(12.0)

	require.NoError(t, store.Put(ctx, digest, 1.0, "fp-a", scores))

	got, ok, err := store.Get(ctx, digest, 1.0, "fp-a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, scores, got)
}

func TestStoreMisses(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	digest := cache.Digest([]byte("0.0 1\n"))
	require.NoError(t, store.Put(ctx, digest, 1.0, "fp-a", sampleScores(10.0)))

	t.Run("unknown digest", func(t *testing.T) {
		_, ok, err := store.Get(ctx, cache.Digest([]byte("other")), 1.0, "fp-a")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("different rate", func(t *testing.T) {
		_, ok, err := store.Get(ctx, digest, 1.1, "fp-a")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("different fingerprint", func(t *testing.T) {
		_, ok, err := store.Get(ctx, digest, 1.0, "fp-b")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestStoreReplace(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	digest := cache.Digest([]byte("0.0 1\n"))
	require.NoError(t, store.Put(ctx, digest, 1.0, "fp-a", sampleScores(10.0)))
	require.NoError(t, store.Put(ctx, digest, 1.0, "fp-a", sampleScores(11.0)))

	got, ok, err := store.Get(ctx, digest, 1.0, "fp-a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleScores(11.0), got)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestStorePurgeStale(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	digest := cache.Digest([]byte("0.0 1\n"))
	require.NoError(t, store.Put(ctx, digest, 1.0, "fp-old", sampleScores(9.0)))
	require.NoError(t, store.Put(ctx, digest, 1.0, "fp-new", sampleScores(10.0)))
	require.NoError(t, store.Put(ctx, digest, 1.5, "fp-new", sampleScores(13.0)))

	purged, err := store.PurgeStale(ctx, "fp-new")
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	_, ok, err := store.Get(ctx, digest, 1.0, "fp-old")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestDigest(t *testing.T) {
	a := cache.Digest([]byte("chart one"))
	b := cache.Digest([]byte("chart one"))
	c := cache.Digest([]byte("chart two"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "ratings.db")
	store, err := cache.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

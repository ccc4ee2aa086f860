// marciomma | 2026
// store_test.go

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marciomma/latam-portifolio-status-sub001/internal/config"
	"github.com/marciomma/latam-portifolio-status-sub001/internal/core"
	"github.com/marciomma/latam-portifolio-status-sub001/internal/store"
)

type widget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestStore(
	t *testing.T,
	cacheTTL time.Duration,
) (*store.Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	rdb, err := core.NewRedis(context.Background(), config.RedisConfig{
		URL:      "redis://" + mr.Addr(),
		PoolSize: 2,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	return store.New(rdb, cacheTTL), mr
}

func TestGetCollectionMissingKeyIsEmpty(t *testing.T) {
	s, _ := newTestStore(t, 0)

	var items []widget
	err := s.GetCollection(context.Background(), "nope", &items)

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSetGetRoundTrip(t *testing.T) {
	s, _ := newTestStore(t, 0)
	ctx := context.Background()

	in := []widget{{ID: "w1", Name: "first"}, {ID: "w2", Name: "second"}}
	require.NoError(t, s.SetCollection(ctx, "widgets", in))

	var out []widget
	require.NoError(t, s.GetCollection(ctx, "widgets", &out))
	assert.Equal(t, in, out)
}

func TestGetCollectionMalformedPayload(t *testing.T) {
	s, mr := newTestStore(t, 0)
	require.NoError(t, mr.Set("widgets", `[{"id": "w1",`))

	var out []widget
	err := s.GetCollection(context.Background(), "widgets", &out)

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
}

func TestGetCollectionNonArrayPayload(t *testing.T) {
	s, mr := newTestStore(t, 0)
	require.NoError(t, mr.Set("widgets", `{"id": "w1"}`))

	var out []widget
	err := s.GetCollection(context.Background(), "widgets", &out)

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
}

func TestSetCollectionRejectsNonArray(t *testing.T) {
	s, _ := newTestStore(t, 0)

	err := s.SetCollection(
		context.Background(),
		"widgets",
		map[string]string{"id": "w1"},
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestGetCollectionBackendDown(t *testing.T) {
	s, mr := newTestStore(t, 0)
	mr.Close()

	var out []widget
	err := s.GetCollection(context.Background(), "widgets", &out)

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
}

func TestCachedReadServesStalePayloadUntilFlush(t *testing.T) {
	s, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.SetCollection(ctx, "widgets", []widget{{ID: "w1"}}))

	// Mutate behind the cache's back.
	require.NoError(t, mr.Set("widgets", `[{"id": "w2"}]`))

	var stale []widget
	require.NoError(t, s.GetCollection(ctx, "widgets", &stale))
	require.Len(t, stale, 1)
	assert.Equal(t, "w1", stale[0].ID)

	assert.True(t, s.FlushCache())

	var fresh []widget
	require.NoError(t, s.GetCollection(ctx, "widgets", &fresh))
	require.Len(t, fresh, 1)
	assert.Equal(t, "w2", fresh[0].ID)
}

func TestWriteRefreshesCachedKey(t *testing.T) {
	s, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.SetCollection(ctx, "widgets", []widget{{ID: "w1"}}))
	require.NoError(t, s.SetCollection(ctx, "widgets", []widget{{ID: "w2"}}))

	var out []widget
	require.NoError(t, s.GetCollection(ctx, "widgets", &out))
	require.Len(t, out, 1)
	assert.Equal(t, "w2", out[0].ID)
}

func TestDeleteRemovesKeyAndCacheEntry(t *testing.T) {
	s, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.SetCollection(ctx, "widgets", []widget{{ID: "w1"}}))
	require.NoError(t, s.Delete(ctx, "widgets"))

	var out []widget
	require.NoError(t, s.GetCollection(ctx, "widgets", &out))
	assert.Empty(t, out)
}

func TestKeysListsStoredCollections(t *testing.T) {
	s, _ := newTestStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.SetCollection(ctx, store.KeyCountries, []widget{}))
	require.NoError(t, s.SetCollection(ctx, store.KeyProducts, []widget{}))

	keys, err := s.Keys(ctx, "*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{store.KeyCountries, store.KeyProducts}, keys)
}

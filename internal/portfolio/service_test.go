// marciomma | 2026
// service_test.go

package portfolio

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marciomma/latam-portifolio-status-sub001/internal/config"
	"github.com/marciomma/latam-portifolio-status-sub001/internal/core"
	"github.com/marciomma/latam-portifolio-status-sub001/internal/store"
)

func newTestService(t *testing.T) (*Service, Repository) {
	t.Helper()

	mr := miniredis.RunT(t)

	rdb, err := core.NewRedis(context.Background(), config.RedisConfig{
		URL:      "redis://" + mr.Addr(),
		PoolSize: 2,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	collections := store.New(rdb, 0)
	repo := NewRepository(collections)

	return NewService(repo, collections), repo
}

func seedBaseCollections(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	products, procedures, productTypes, countries, statuses, rows := viewFixtures()

	require.NoError(t, repo.ReplaceProducts(ctx, products))
	require.NoError(t, repo.ReplaceProcedures(ctx, procedures))
	require.NoError(t, repo.ReplaceProductTypes(ctx, productTypes))
	require.NoError(t, repo.ReplaceCountries(ctx, countries))
	require.NoError(t, repo.ReplaceStatuses(ctx, statuses))
	require.NoError(t, repo.ReplaceStatusPortfolios(ctx, rows))
}

func TestUpdateStatusInsertsNewAssignment(t *testing.T) {
	svc, repo := newTestService(t)
	seedBaseCollections(t, repo)
	ctx := context.Background()

	resp, err := svc.UpdateStatus(ctx, UpdateStatusRequest{
		ProductID: "p2",
		CountryID: "c2",
		StatusID:  "s1",
		SetsQty:   "4",
	}, "admin@example.com")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Assignment.ID)
	assert.Equal(t, "admin@example.com", resp.Assignment.UpdatedBy)
	assert.False(t, resp.Assignment.LastUpdated.IsZero())

	rows, err := repo.StatusPortfolios(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	// The rebuild ran as part of the update.
	entries, err := repo.StatusView(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Len(t, entries[1].CountryStatuses, 1)
	assert.Equal(t, "Mexico", entries[1].CountryStatuses[0].CountryName)
	assert.Equal(t, "AVL", entries[1].CountryStatuses[0].StatusCode)
}

func TestUpdateStatusReplacesExistingPair(t *testing.T) {
	svc, repo := newTestService(t)
	seedBaseCollections(t, repo)
	ctx := context.Background()

	resp, err := svc.UpdateStatus(ctx, UpdateStatusRequest{
		ProductID: "p1",
		CountryID: "c1",
		StatusID:  "s2",
	}, "admin@example.com")
	require.NoError(t, err)

	// Upserting an existing pair keeps the stored row ID.
	assert.Equal(t, "sp1", resp.Assignment.ID)

	rows, err := repo.StatusPortfolios(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	entries, err := repo.StatusView(ctx)
	require.NoError(t, err)
	require.Len(t, entries[0].CountryStatuses, 2)
	assert.Equal(t, "s2", entries[0].CountryStatuses[0].StatusID)
}

func TestUpdateStatusRejectsUnknownReferences(t *testing.T) {
	svc, repo := newTestService(t)
	seedBaseCollections(t, repo)
	ctx := context.Background()

	cases := []struct {
		name string
		req  UpdateStatusRequest
	}{
		{"unknown product", UpdateStatusRequest{
			ProductID: "p-missing", CountryID: "c1", StatusID: "s1",
		}},
		{"unknown country", UpdateStatusRequest{
			ProductID: "p1", CountryID: "c-missing", StatusID: "s1",
		}},
		{"unknown status", UpdateStatusRequest{
			ProductID: "p1", CountryID: "c1", StatusID: "s-missing",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UpdateStatus(ctx, tc.req, "admin@example.com")
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrInvalidInput)
		})
	}
}

func TestRebuildViewIsIdempotent(t *testing.T) {
	svc, repo := newTestService(t)
	seedBaseCollections(t, repo)
	ctx := context.Background()

	statsA, err := svc.RebuildView(ctx)
	require.NoError(t, err)

	entriesA, err := repo.StatusView(ctx)
	require.NoError(t, err)

	statsB, err := svc.RebuildView(ctx)
	require.NoError(t, err)

	entriesB, err := repo.StatusView(ctx)
	require.NoError(t, err)

	assert.Equal(t, statsA, statsB)
	assert.Equal(t, entriesA, entriesB)
}

func TestRebuildViewCountsDanglingReferences(t *testing.T) {
	svc, repo := newTestService(t)
	seedBaseCollections(t, repo)
	ctx := context.Background()

	rows, err := repo.StatusPortfolios(ctx)
	require.NoError(t, err)
	rows = append(rows, StatusPortfolio{
		ID:        "sp-dangling",
		ProductID: "p1",
		CountryID: "c-gone",
		StatusID:  "s1",
	})
	require.NoError(t, repo.ReplaceStatusPortfolios(ctx, rows))

	stats, err := svc.RebuildView(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 1, stats.SkippedRows)
	assert.Zero(t, stats.SkippedProducts)
}

func TestProductsByProcedure(t *testing.T) {
	svc, repo := newTestService(t)
	seedBaseCollections(t, repo)
	ctx := context.Background()

	matched, err := svc.ProductsByProcedure(ctx, "pr1")
	require.NoError(t, err)
	assert.Len(t, matched, 2)

	none, err := svc.ProductsByProcedure(ctx, "pr-unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReplaceProductsValidatesEnums(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	err := svc.ReplaceProducts(ctx, []Product{{
		Name:             "Bad Tier",
		ProductTier:      "Tier 9",
		ProductLifeCycle: LifeCycleMaintain,
	}})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	err = svc.ReplaceProducts(ctx, []Product{{
		Name:             "Bad Cycle",
		ProductTier:      TierOne,
		ProductLifeCycle: "Sunset",
	}})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestReplaceCountriesAssignsIDsAndRejectsDuplicates(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.ReplaceCountries(ctx, []Country{
		{Name: "Chile", Code: "CL"},
	}))

	stored, err := repo.Countries(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.NotEmpty(t, stored[0].ID)

	err = svc.ReplaceCountries(ctx, []Country{
		{ID: "c1", Name: "Chile", Code: "CL"},
		{ID: "c1", Name: "Colombia", Code: "CO"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestSummaryCountsCollections(t *testing.T) {
	svc, repo := newTestService(t)
	seedBaseCollections(t, repo)
	ctx := context.Background()

	_, err := svc.RebuildView(ctx)
	require.NoError(t, err)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Countries)
	assert.Equal(t, 1, summary.Procedures)
	assert.Equal(t, 1, summary.ProductTypes)
	assert.Equal(t, 2, summary.Products)
	assert.Equal(t, 2, summary.Statuses)
	assert.Equal(t, 2, summary.StatusPortfolios)
	assert.Equal(t, 2, summary.ViewEntries)
}

// marciomma | 2026
// view_test.go

package portfolio

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewFixtures() (
	[]Product,
	[]Procedure,
	[]ProductType,
	[]Country,
	[]Status,
	[]StatusPortfolio,
) {
	products := []Product{
		{
			ID:               "p1",
			Name:             "Hip Stem Alpha",
			ProductTypeID:    "pt1",
			ProcedureID:      "pr1",
			ProductTier:      TierOne,
			ProductLifeCycle: LifeCycleFlagship,
			IsActive:         true,
		},
		{
			ID:               "p2",
			Name:             "Knee Plate Beta",
			ProductTypeID:    "pt1",
			ProcedureID:      "pr1",
			ProductTier:      TierTwo,
			ProductLifeCycle: LifeCycleMaintain,
			IsActive:         true,
		},
	}
	procedures := []Procedure{
		{ID: "pr1", Name: "Hip Replacement", Category: "Ortho", IsActive: true},
	}
	productTypes := []ProductType{
		{ID: "pt1", Name: "Implant", IsActive: true},
	}
	countries := []Country{
		{ID: "c1", Name: "Brazil", Code: "BR", IsActive: true},
		{ID: "c2", Name: "Mexico", Code: "MX", IsActive: true},
	}
	statuses := []Status{
		{ID: "s1", Code: "AVL", Name: "Available", Color: "#00AA00", IsActive: true},
		{ID: "s2", Code: "REG", Name: "In Registration", Color: "#FFAA00", IsActive: true},
	}
	rows := []StatusPortfolio{
		{
			ID:          "sp1",
			ProductID:   "p1",
			CountryID:   "c1",
			StatusID:    "s1",
			SetsQty:     "12",
			LastUpdated: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "sp2",
			ProductID:   "p1",
			CountryID:   "c2",
			StatusID:    "s2",
			LastUpdated: time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC),
		},
	}

	return products, procedures, productTypes, countries, statuses, rows
}

func TestBuildStatusViewJoinsBaseCollections(t *testing.T) {
	products, procedures, productTypes, countries, statuses, rows := viewFixtures()

	entries, stats := buildStatusView(
		products, procedures, productTypes, countries, statuses, rows,
	)

	require.Len(t, entries, 2)
	assert.Equal(t, 2, stats.Entries)
	assert.Zero(t, stats.SkippedProducts)
	assert.Zero(t, stats.SkippedRows)

	first := entries[0]
	assert.Equal(t, "p1", first.ProductID)
	assert.Equal(t, "Hip Stem Alpha", first.ProductName)
	assert.Equal(t, "Implant", first.ProductType)
	assert.Equal(t, "Hip Replacement", first.Procedure)
	assert.Equal(t, TierOne, first.ProductTier)
	assert.Equal(t, LifeCycleFlagship, first.ProductLifeCycle)

	require.Len(t, first.CountryStatuses, 2)
	assert.Equal(t, "Brazil", first.CountryStatuses[0].CountryName)
	assert.Equal(t, "AVL", first.CountryStatuses[0].StatusCode)
	assert.Equal(t, "#00AA00", first.CountryStatuses[0].StatusColor)
	assert.Equal(t, "12", first.CountryStatuses[0].SetsQty)

	// A product with no assignments still appears, with an empty grid row.
	second := entries[1]
	assert.Equal(t, "p2", second.ProductID)
	require.NotNil(t, second.CountryStatuses)
	assert.Empty(t, second.CountryStatuses)
}

func TestBuildStatusViewIsDeterministic(t *testing.T) {
	products, procedures, productTypes, countries, statuses, rows := viewFixtures()

	entriesA, statsA := buildStatusView(
		products, procedures, productTypes, countries, statuses, rows,
	)
	entriesB, statsB := buildStatusView(
		products, procedures, productTypes, countries, statuses, rows,
	)

	jsonA, err := json.Marshal(entriesA)
	require.NoError(t, err)
	jsonB, err := json.Marshal(entriesB)
	require.NoError(t, err)

	assert.Equal(t, jsonA, jsonB)
	assert.Equal(t, statsA, statsB)
}

func TestBuildStatusViewSkipsDanglingProductRefs(t *testing.T) {
	products, procedures, productTypes, countries, statuses, rows := viewFixtures()

	products = append(products,
		Product{
			ID:            "p-bad-proc",
			Name:          "Orphan A",
			ProductTypeID: "pt1",
			ProcedureID:   "pr-missing",
		},
		Product{
			ID:            "p-bad-type",
			Name:          "Orphan B",
			ProductTypeID: "pt-missing",
			ProcedureID:   "pr1",
		},
	)

	entries, stats := buildStatusView(
		products, procedures, productTypes, countries, statuses, rows,
	)

	assert.Len(t, entries, 2)
	assert.Equal(t, 2, stats.SkippedProducts)
	for _, entry := range entries {
		assert.NotContains(
			t,
			[]string{"p-bad-proc", "p-bad-type"},
			entry.ProductID,
		)
	}
}

func TestBuildStatusViewSkipsDanglingRowRefs(t *testing.T) {
	products, procedures, productTypes, countries, statuses, rows := viewFixtures()

	rows = append(rows,
		StatusPortfolio{
			ID:        "sp-bad-country",
			ProductID: "p1",
			CountryID: "c-missing",
			StatusID:  "s1",
		},
		StatusPortfolio{
			ID:        "sp-bad-status",
			ProductID: "p1",
			CountryID: "c1",
			StatusID:  "s-missing",
		},
	)

	entries, stats := buildStatusView(
		products, procedures, productTypes, countries, statuses, rows,
	)

	require.Len(t, entries, 2)
	assert.Equal(t, 2, stats.SkippedRows)
	assert.Len(t, entries[0].CountryStatuses, 2)
}

func TestBuildStatusViewDuplicatePairLastRowWins(t *testing.T) {
	products, procedures, productTypes, countries, statuses, rows := viewFixtures()

	rows = append(rows, StatusPortfolio{
		ID:          "sp3",
		ProductID:   "p1",
		CountryID:   "c1",
		StatusID:    "s2",
		SetsQty:     "3",
		LastUpdated: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})

	entries, _ := buildStatusView(
		products, procedures, productTypes, countries, statuses, rows,
	)

	require.Len(t, entries[0].CountryStatuses, 2)

	// The later row replaced the earlier cell in place, keeping first-seen
	// country order.
	cell := entries[0].CountryStatuses[0]
	assert.Equal(t, "c1", cell.CountryID)
	assert.Equal(t, "s2", cell.StatusID)
	assert.Equal(t, "3", cell.SetsQty)
}

func TestFilterViewByCountryKeepsAllEntries(t *testing.T) {
	products, procedures, productTypes, countries, statuses, rows := viewFixtures()

	entries, _ := buildStatusView(
		products, procedures, productTypes, countries, statuses, rows,
	)

	filtered := filterViewByCountry(entries, "c1")

	require.Len(t, filtered, len(entries))

	require.Len(t, filtered[0].CountryStatuses, 1)
	assert.Equal(t, "c1", filtered[0].CountryStatuses[0].CountryID)

	// p2 has no cell for c1 but its entry survives with an empty list.
	assert.Empty(t, filtered[1].CountryStatuses)
}

func TestFilterViewByCountryUnknownCountry(t *testing.T) {
	products, procedures, productTypes, countries, statuses, rows := viewFixtures()

	entries, _ := buildStatusView(
		products, procedures, productTypes, countries, statuses, rows,
	)

	filtered := filterViewByCountry(entries, "c-unknown")

	require.Len(t, filtered, len(entries))
	for _, entry := range filtered {
		assert.Empty(t, entry.CountryStatuses)
	}
}

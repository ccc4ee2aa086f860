// marciomma | 2026
// service.go

package portfolio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/marciomma/latam-portifolio-status-sub001/internal/core"
)

// Cache is the slice of the store the service needs for the refresh-cache
// operation.
type Cache interface {
	FlushCache() bool
}

type Service struct {
	repo  Repository
	cache Cache
}

func NewService(repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

func (s *Service) Countries(ctx context.Context) ([]Country, error) {
	return s.repo.Countries(ctx)
}

func (s *Service) Procedures(ctx context.Context) ([]Procedure, error) {
	return s.repo.Procedures(ctx)
}

func (s *Service) ProductTypes(ctx context.Context) ([]ProductType, error) {
	return s.repo.ProductTypes(ctx)
}

func (s *Service) Products(ctx context.Context) ([]Product, error) {
	return s.repo.Products(ctx)
}

func (s *Service) Statuses(ctx context.Context) ([]Status, error) {
	return s.repo.Statuses(ctx)
}

func (s *Service) StatusPortfolios(
	ctx context.Context,
) ([]StatusPortfolio, error) {
	return s.repo.StatusPortfolios(ctx)
}

func (s *Service) StatusView(ctx context.Context) ([]StatusViewEntry, error) {
	return s.repo.StatusView(ctx)
}

// ProductsByProcedure returns products in stored order; the empty slice
// means no product references the procedure.
func (s *Service) ProductsByProcedure(
	ctx context.Context,
	procedureID string,
) ([]Product, error) {
	products, err := s.repo.Products(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]Product, 0, len(products))
	for _, p := range products {
		if p.ProcedureID == procedureID {
			matched = append(matched, p)
		}
	}

	return matched, nil
}

// StatusViewByCountry keeps every product entry and narrows each one's
// countryStatuses to the requested country; see filterViewByCountry.
func (s *Service) StatusViewByCountry(
	ctx context.Context,
	countryID string,
) ([]StatusViewEntry, error) {
	entries, err := s.repo.StatusView(ctx)
	if err != nil {
		return nil, err
	}

	return filterViewByCountry(entries, countryID), nil
}

// RebuildView recomputes the denormalized view from the base collections
// and replaces the stored copy in one write. Callers that mutate any base
// collection are responsible for invoking it; nothing rebuilds
// automatically.
func (s *Service) RebuildView(ctx context.Context) (RebuildStats, error) {
	products, err := s.repo.Products(ctx)
	if err != nil {
		return RebuildStats{}, fmt.Errorf("rebuild view: %w", err)
	}

	procedures, err := s.repo.Procedures(ctx)
	if err != nil {
		return RebuildStats{}, fmt.Errorf("rebuild view: %w", err)
	}

	productTypes, err := s.repo.ProductTypes(ctx)
	if err != nil {
		return RebuildStats{}, fmt.Errorf("rebuild view: %w", err)
	}

	countries, err := s.repo.Countries(ctx)
	if err != nil {
		return RebuildStats{}, fmt.Errorf("rebuild view: %w", err)
	}

	statuses, err := s.repo.Statuses(ctx)
	if err != nil {
		return RebuildStats{}, fmt.Errorf("rebuild view: %w", err)
	}

	rows, err := s.repo.StatusPortfolios(ctx)
	if err != nil {
		return RebuildStats{}, fmt.Errorf("rebuild view: %w", err)
	}

	entries, stats := buildStatusView(
		products,
		procedures,
		productTypes,
		countries,
		statuses,
		rows,
	)

	if err := s.repo.ReplaceStatusView(ctx, entries); err != nil {
		return RebuildStats{}, fmt.Errorf("rebuild view: %w", err)
	}

	if stats.SkippedProducts > 0 || stats.SkippedRows > 0 {
		slog.Warn("view rebuild skipped dangling references",
			"skipped_products", stats.SkippedProducts,
			"skipped_rows", stats.SkippedRows,
		)
	}

	return stats, nil
}

// RefreshCache drops the read-through cache so the next read refetches from
// the backend. The boolean is advisory.
func (s *Service) RefreshCache() bool {
	return s.cache.FlushCache()
}

// UpdateStatus upserts the assignment for a (product, country) pair,
// replaces the statusPortfolios collection in full, and rebuilds the view
// so the dashboard sees the change on its next read.
func (s *Service) UpdateStatus(
	ctx context.Context,
	req UpdateStatusRequest,
	updatedBy string,
) (*UpdateStatusResponse, error) {
	if err := s.checkStatusReferences(ctx, req); err != nil {
		return nil, err
	}

	rows, err := s.repo.StatusPortfolios(ctx)
	if err != nil {
		return nil, err
	}

	updated := StatusPortfolio{
		ID:          uuid.New().String(),
		ProductID:   req.ProductID,
		CountryID:   req.CountryID,
		StatusID:    req.StatusID,
		SetsQty:     req.SetsQty,
		Notes:       req.Notes,
		UpdatedBy:   updatedBy,
		LastUpdated: time.Now().UTC(),
	}

	replaced := false
	for i, row := range rows {
		if row.ProductID == req.ProductID && row.CountryID == req.CountryID {
			updated.ID = row.ID
			rows[i] = updated
			replaced = true
			break
		}
	}
	if !replaced {
		rows = append(rows, updated)
	}

	if err := s.repo.ReplaceStatusPortfolios(ctx, rows); err != nil {
		return nil, err
	}

	stats, err := s.RebuildView(ctx)
	if err != nil {
		return nil, err
	}

	return &UpdateStatusResponse{Assignment: updated, Rebuild: stats}, nil
}

func (s *Service) checkStatusReferences(
	ctx context.Context,
	req UpdateStatusRequest,
) error {
	products, err := s.repo.Products(ctx)
	if err != nil {
		return err
	}
	if !containsID(products, req.ProductID, func(p Product) string { return p.ID }) {
		return core.ValidationError("unknown productId " + req.ProductID)
	}

	countries, err := s.repo.Countries(ctx)
	if err != nil {
		return err
	}
	if !containsID(countries, req.CountryID, func(c Country) string { return c.ID }) {
		return core.ValidationError("unknown countryId " + req.CountryID)
	}

	statuses, err := s.repo.Statuses(ctx)
	if err != nil {
		return err
	}
	if !containsID(statuses, req.StatusID, func(s Status) string { return s.ID }) {
		return core.ValidationError("unknown statusId " + req.StatusID)
	}

	return nil
}

func containsID[T any](items []T, id string, idOf func(T) string) bool {
	for _, item := range items {
		if idOf(item) == id {
			return true
		}
	}
	return false
}

// ReplaceCountries and its siblings are the admin editors: whole-collection
// replacement, validated before any store mutation. They do NOT rebuild the
// view; the handler triggers that after a successful write.
func (s *Service) ReplaceCountries(
	ctx context.Context,
	countries []Country,
) error {
	seen := make(map[string]struct{}, len(countries))
	for i := range countries {
		if countries[i].ID == "" {
			countries[i].ID = uuid.New().String()
		}
		if countries[i].Name == "" {
			return core.ValidationError("country name is required")
		}
		if countries[i].Code == "" {
			return core.ValidationError("country code is required")
		}
		if _, dup := seen[countries[i].ID]; dup {
			return core.ValidationError("duplicate country id " + countries[i].ID)
		}
		seen[countries[i].ID] = struct{}{}
	}

	return s.repo.ReplaceCountries(ctx, countries)
}

func (s *Service) ReplaceProcedures(
	ctx context.Context,
	procedures []Procedure,
) error {
	seen := make(map[string]struct{}, len(procedures))
	for i := range procedures {
		if procedures[i].ID == "" {
			procedures[i].ID = uuid.New().String()
		}
		if procedures[i].Name == "" {
			return core.ValidationError("procedure name is required")
		}
		if _, dup := seen[procedures[i].ID]; dup {
			return core.ValidationError(
				"duplicate procedure id " + procedures[i].ID,
			)
		}
		seen[procedures[i].ID] = struct{}{}
	}

	return s.repo.ReplaceProcedures(ctx, procedures)
}

func (s *Service) ReplaceProductTypes(
	ctx context.Context,
	types []ProductType,
) error {
	seen := make(map[string]struct{}, len(types))
	for i := range types {
		if types[i].ID == "" {
			types[i].ID = uuid.New().String()
		}
		if types[i].Name == "" {
			return core.ValidationError("product type name is required")
		}
		if _, dup := seen[types[i].ID]; dup {
			return core.ValidationError("duplicate product type id " + types[i].ID)
		}
		seen[types[i].ID] = struct{}{}
	}

	return s.repo.ReplaceProductTypes(ctx, types)
}

func (s *Service) ReplaceProducts(
	ctx context.Context,
	products []Product,
) error {
	seen := make(map[string]struct{}, len(products))
	for i := range products {
		if products[i].ID == "" {
			products[i].ID = uuid.New().String()
		}
		if products[i].Name == "" {
			return core.ValidationError("product name is required")
		}
		if products[i].ProductTier != TierOne &&
			products[i].ProductTier != TierTwo {
			return core.ValidationError(
				"invalid productTier " + products[i].ProductTier,
			)
		}
		switch products[i].ProductLifeCycle {
		case LifeCycleMaintain, LifeCycleFlagship, LifeCycleDeEmphasize:
		default:
			return core.ValidationError(
				"invalid productLifeCycle " + products[i].ProductLifeCycle,
			)
		}
		if _, dup := seen[products[i].ID]; dup {
			return core.ValidationError("duplicate product id " + products[i].ID)
		}
		seen[products[i].ID] = struct{}{}
	}

	return s.repo.ReplaceProducts(ctx, products)
}

func (s *Service) ReplaceStatuses(
	ctx context.Context,
	statuses []Status,
) error {
	seen := make(map[string]struct{}, len(statuses))
	for i := range statuses {
		if statuses[i].ID == "" {
			statuses[i].ID = uuid.New().String()
		}
		if statuses[i].Name == "" {
			return core.ValidationError("status name is required")
		}
		if statuses[i].Code == "" {
			return core.ValidationError("status code is required")
		}
		if _, dup := seen[statuses[i].ID]; dup {
			return core.ValidationError("duplicate status id " + statuses[i].ID)
		}
		seen[statuses[i].ID] = struct{}{}
	}

	return s.repo.ReplaceStatuses(ctx, statuses)
}

// Summary is a cheap aggregate for the admin dashboard header.
func (s *Service) Summary(ctx context.Context) (*CollectionsSummary, error) {
	countries, err := s.repo.Countries(ctx)
	if err != nil {
		return nil, err
	}
	procedures, err := s.repo.Procedures(ctx)
	if err != nil {
		return nil, err
	}
	productTypes, err := s.repo.ProductTypes(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.Products(ctx)
	if err != nil {
		return nil, err
	}
	statuses, err := s.repo.Statuses(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.StatusPortfolios(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.StatusView(ctx)
	if err != nil {
		return nil, err
	}

	return &CollectionsSummary{
		Countries:        len(countries),
		Procedures:       len(procedures),
		ProductTypes:     len(productTypes),
		Products:         len(products),
		Statuses:         len(statuses),
		StatusPortfolios: len(rows),
		ViewEntries:      len(entries),
		GeneratedAt:      time.Now().UTC(),
	}, nil
}

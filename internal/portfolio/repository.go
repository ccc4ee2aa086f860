// marciomma | 2026
// repository.go

package portfolio

import (
	"context"
	"fmt"

	"github.com/marciomma/latam-portifolio-status-sub001/internal/store"
)

// Repository gives typed access to the portfolio collections. Reads never
// mutate the store and never synthesize defaults: a failing backend surfaces
// as a wrapped core.ErrStoreUnavailable, an absent key as an empty slice.
type Repository interface {
	Countries(ctx context.Context) ([]Country, error)
	Procedures(ctx context.Context) ([]Procedure, error)
	ProductTypes(ctx context.Context) ([]ProductType, error)
	Products(ctx context.Context) ([]Product, error)
	Statuses(ctx context.Context) ([]Status, error)
	StatusPortfolios(ctx context.Context) ([]StatusPortfolio, error)
	StatusView(ctx context.Context) ([]StatusViewEntry, error)

	ReplaceCountries(ctx context.Context, countries []Country) error
	ReplaceProcedures(ctx context.Context, procedures []Procedure) error
	ReplaceProductTypes(ctx context.Context, types []ProductType) error
	ReplaceProducts(ctx context.Context, products []Product) error
	ReplaceStatuses(ctx context.Context, statuses []Status) error
	ReplaceStatusPortfolios(ctx context.Context, rows []StatusPortfolio) error
	ReplaceStatusView(ctx context.Context, entries []StatusViewEntry) error
}

type repository struct {
	store *store.Store
}

func NewRepository(s *store.Store) Repository {
	return &repository{store: s}
}

func (r *repository) Countries(ctx context.Context) ([]Country, error) {
	var countries []Country
	if err := r.store.GetCollection(ctx, store.KeyCountries, &countries); err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}
	return countries, nil
}

func (r *repository) Procedures(ctx context.Context) ([]Procedure, error) {
	var procedures []Procedure
	if err := r.store.GetCollection(ctx, store.KeyProcedures, &procedures); err != nil {
		return nil, fmt.Errorf("load procedures: %w", err)
	}
	return procedures, nil
}

func (r *repository) ProductTypes(ctx context.Context) ([]ProductType, error) {
	var types []ProductType
	if err := r.store.GetCollection(ctx, store.KeyProductTypes, &types); err != nil {
		return nil, fmt.Errorf("load product types: %w", err)
	}
	return types, nil
}

func (r *repository) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := r.store.GetCollection(ctx, store.KeyProducts, &products); err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return products, nil
}

func (r *repository) Statuses(ctx context.Context) ([]Status, error) {
	var statuses []Status
	if err := r.store.GetCollection(ctx, store.KeyStatuses, &statuses); err != nil {
		return nil, fmt.Errorf("load statuses: %w", err)
	}
	return statuses, nil
}

func (r *repository) StatusPortfolios(
	ctx context.Context,
) ([]StatusPortfolio, error) {
	var rows []StatusPortfolio
	if err := r.store.GetCollection(ctx, store.KeyPortfolios, &rows); err != nil {
		return nil, fmt.Errorf("load status portfolios: %w", err)
	}
	return rows, nil
}

func (r *repository) StatusView(ctx context.Context) ([]StatusViewEntry, error) {
	var entries []StatusViewEntry
	if err := r.store.GetCollection(ctx, store.KeyStatusView, &entries); err != nil {
		return nil, fmt.Errorf("load status view: %w", err)
	}
	return entries, nil
}

func (r *repository) ReplaceCountries(
	ctx context.Context,
	countries []Country,
) error {
	if err := r.store.SetCollection(ctx, store.KeyCountries, countries); err != nil {
		return fmt.Errorf("replace countries: %w", err)
	}
	return nil
}

func (r *repository) ReplaceProcedures(
	ctx context.Context,
	procedures []Procedure,
) error {
	if err := r.store.SetCollection(ctx, store.KeyProcedures, procedures); err != nil {
		return fmt.Errorf("replace procedures: %w", err)
	}
	return nil
}

func (r *repository) ReplaceProductTypes(
	ctx context.Context,
	types []ProductType,
) error {
	if err := r.store.SetCollection(ctx, store.KeyProductTypes, types); err != nil {
		return fmt.Errorf("replace product types: %w", err)
	}
	return nil
}

func (r *repository) ReplaceProducts(
	ctx context.Context,
	products []Product,
) error {
	if err := r.store.SetCollection(ctx, store.KeyProducts, products); err != nil {
		return fmt.Errorf("replace products: %w", err)
	}
	return nil
}

func (r *repository) ReplaceStatuses(
	ctx context.Context,
	statuses []Status,
) error {
	if err := r.store.SetCollection(ctx, store.KeyStatuses, statuses); err != nil {
		return fmt.Errorf("replace statuses: %w", err)
	}
	return nil
}

func (r *repository) ReplaceStatusPortfolios(
	ctx context.Context,
	rows []StatusPortfolio,
) error {
	if err := r.store.SetCollection(ctx, store.KeyPortfolios, rows); err != nil {
		return fmt.Errorf("replace status portfolios: %w", err)
	}
	return nil
}

func (r *repository) ReplaceStatusView(
	ctx context.Context,
	entries []StatusViewEntry,
) error {
	if err := r.store.SetCollection(ctx, store.KeyStatusView, entries); err != nil {
		return fmt.Errorf("replace status view: %w", err)
	}
	return nil
}

// marciomma | 2026
// repository.go

package directory

import (
	"context"
	"fmt"

	"github.com/marciomma/latam-portifolio-status-sub001/internal/store"
)

type Repository interface {
	PendingUsers(ctx context.Context) ([]User, error)
	ApprovedUsers(ctx context.Context) ([]User, error)
	ReplacePendingUsers(ctx context.Context, users []User) error
	ReplaceApprovedUsers(ctx context.Context, users []User) error
}

type repository struct {
	store *store.Store
}

func NewRepository(s *store.Store) Repository {
	return &repository{store: s}
}

func (r *repository) PendingUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := r.store.GetCollection(ctx, store.KeyPendingUsers, &users); err != nil {
		return nil, fmt.Errorf("load pending users: %w", err)
	}
	return users, nil
}

func (r *repository) ApprovedUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := r.store.GetCollection(ctx, store.KeyApprovedUsers, &users); err != nil {
		return nil, fmt.Errorf("load approved users: %w", err)
	}
	return users, nil
}

func (r *repository) ReplacePendingUsers(
	ctx context.Context,
	users []User,
) error {
	if err := r.store.SetCollection(ctx, store.KeyPendingUsers, users); err != nil {
		return fmt.Errorf("replace pending users: %w", err)
	}
	return nil
}

func (r *repository) ReplaceApprovedUsers(
	ctx context.Context,
	users []User,
) error {
	if err := r.store.SetCollection(ctx, store.KeyApprovedUsers, users); err != nil {
		return fmt.Errorf("replace approved users: %w", err)
	}
	return nil
}

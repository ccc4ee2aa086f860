// marciomma | 2026
// service.go

package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marciomma/latam-portifolio-status-sub001/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// FindUserByEmail matches case-sensitively, exactly as stored, across the
// pending pool first and the approved pool second. A missing user is
// (nil, nil), not an error; only store failures surface.
func (s *Service) FindUserByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	pending, err := s.repo.PendingUsers(ctx)
	if err != nil {
		return nil, err
	}

	for i := range pending {
		if pending[i].Email == email {
			return &pending[i], nil
		}
	}

	approved, err := s.repo.ApprovedUsers(ctx)
	if err != nil {
		return nil, err
	}

	for i := range approved {
		if approved[i].Email == email {
			return &approved[i], nil
		}
	}

	return nil, nil
}

// TouchLastLogin stamps lastLogin on the matching approved record and
// writes the whole collection back. Concurrent logins that both read before
// either writes lose the earlier writer's stamp (last write wins); accepted
// for the single-admin usage pattern and covered by a test.
func (s *Service) TouchLastLogin(
	ctx context.Context,
	userID string,
) (*User, error) {
	approved, err := s.repo.ApprovedUsers(ctx)
	if err != nil {
		return nil, err
	}

	var updated *User
	for i := range approved {
		if approved[i].ID == userID {
			now := time.Now().UTC()
			approved[i].LastLogin = &now
			updated = &approved[i]
			break
		}
	}

	if updated == nil {
		return nil, fmt.Errorf("touch last login: %w", core.ErrNotFound)
	}

	if err := s.repo.ReplaceApprovedUsers(ctx, approved); err != nil {
		return nil, err
	}

	return updated, nil
}

// Register appends a pending record. Emails must be unique across both
// pools, compared exactly as stored.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*User, error) {
	existing, err := s.FindUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("register: %w", core.ErrDuplicateKey)
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Email:       req.Email,
		Password:    hash,
		RequestedAt: time.Now().UTC(),
		Status:      StatusPending,
		Role:        RoleUser,
	}

	pending, err := s.repo.PendingUsers(ctx)
	if err != nil {
		return nil, err
	}

	pending = append(pending, user)
	if err := s.repo.ReplacePendingUsers(ctx, pending); err != nil {
		return nil, err
	}

	return &user, nil
}

// Approve moves a pending record into the approved pool. Both pools are
// replaced in full; the pending write happens second so a failure between
// the two writes leaves the user approved rather than lost.
func (s *Service) Approve(ctx context.Context, userID string) (*User, error) {
	pending, err := s.repo.PendingUsers(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range pending {
		if pending[i].ID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("approve user: %w", core.ErrNotFound)
	}

	user := pending[idx]
	now := time.Now().UTC()
	user.Status = StatusApproved
	user.ApprovedAt = &now

	approved, err := s.repo.ApprovedUsers(ctx)
	if err != nil {
		return nil, err
	}

	approved = append(approved, user)
	if err := s.repo.ReplaceApprovedUsers(ctx, approved); err != nil {
		return nil, err
	}

	remaining := append(pending[:idx:idx], pending[idx+1:]...)
	if err := s.repo.ReplacePendingUsers(ctx, remaining); err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *Service) ListUsers(
	ctx context.Context,
) (pending, approved []User, err error) {
	pending, err = s.repo.PendingUsers(ctx)
	if err != nil {
		return nil, nil, err
	}

	approved, err = s.repo.ApprovedUsers(ctx)
	if err != nil {
		return nil, nil, err
	}

	return pending, approved, nil
}

// marciomma | 2026
// service_test.go

package directory

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

func newTestDirectory(t *testing.T) (*Service, Repository) {
	t.Helper()

	mr := miniredis.RunT(t)

	rdb, err := core.NewRedis(context.Background(), config.RedisConfig{
		URL:      "redis://" + mr.Addr(),
		PoolSize: 2,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	repo := NewRepository(store.New(rdb, 0))
	return NewService(repo), repo
}

func seedUsers(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	requested := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	approvedAt := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	pending := []User{
		{
			ID:          "u-pending",
			Name:        "Paula Nova",
			Email:       "paula@example.com",
			Password:    "$argon2id$stub",
			RequestedAt: requested,
			Status:      StatusPending,
			Role:        RoleUser,
		},
	}
	approved := []User{
		{
			ID:          "u-approved",
			Name:        "Marco Silva",
			Email:       "marco@example.com",
			Password:    "$argon2id$stub",
			RequestedAt: requested,
			ApprovedAt:  &approvedAt,
			Status:      StatusApproved,
			Role:        RoleAdmin,
		},
	}

	require.NoError(t, repo.ReplacePendingUsers(ctx, pending))
	require.NoError(t, repo.ReplaceApprovedUsers(ctx, approved))
}

func TestFindUserByEmail(t *testing.T) {
	svc, repo := newTestDirectory(t)
	seedUsers(t, repo)
	ctx := context.Background()

	user, err := svc.FindUserByEmail(ctx, "marco@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u-approved", user.ID)

	user, err = svc.FindUserByEmail(ctx, "paula@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u-pending", user.ID)
}

func TestFindUserByEmailIsCaseSensitive(t *testing.T) {
	svc, repo := newTestDirectory(t)
	seedUsers(t, repo)

	user, err := svc.FindUserByEmail(context.Background(), "Marco@Example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestFindUserByEmailChecksPendingPoolFirst(t *testing.T) {
	svc, repo := newTestDirectory(t)
	ctx := context.Background()

	// Same email in both pools; the pending record wins the lookup.
	require.NoError(t, repo.ReplacePendingUsers(ctx, []User{
		{ID: "u1-pending", Email: "dup@example.com", Status: StatusPending},
	}))
	require.NoError(t, repo.ReplaceApprovedUsers(ctx, []User{
		{ID: "u1-approved", Email: "dup@example.com", Status: StatusApproved},
	}))

	user, err := svc.FindUserByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u1-pending", user.ID)
}

func TestFindUserByEmailMissingIsNotAnError(t *testing.T) {
	svc, repo := newTestDirectory(t)
	seedUsers(t, repo)

	user, err := svc.FindUserByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestTouchLastLogin(t *testing.T) {
	svc, repo := newTestDirectory(t)
	seedUsers(t, repo)
	ctx := context.Background()

	updated, err := svc.TouchLastLogin(ctx, "u-approved")
	require.NoError(t, err)
	require.NotNil(t, updated.LastLogin)

	stored, err := repo.ApprovedUsers(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.NotNil(t, stored[0].LastLogin)
	assert.WithinDuration(t, time.Now().UTC(), *stored[0].LastLogin, time.Minute)
}

func TestTouchLastLoginUnknownUser(t *testing.T) {
	svc, repo := newTestDirectory(t)
	seedUsers(t, repo)

	_, err := svc.TouchLastLogin(context.Background(), "u-missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

// TestConcurrentLoginStampsLastWriteWins documents the lost-update window in
// the whole-collection write-back: two writers that both read before either
// writes will drop the earlier writer's stamp.
func TestConcurrentLoginStampsLastWriteWins(t *testing.T) {
	_, repo := newTestDirectory(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceApprovedUsers(ctx, []User{
		{ID: "u1", Email: "a@example.com", Status: StatusApproved},
		{ID: "u2", Email: "b@example.com", Status: StatusApproved},
	}))

	snapshotA, err := repo.ApprovedUsers(ctx)
	require.NoError(t, err)
	snapshotB, err := repo.ApprovedUsers(ctx)
	require.NoError(t, err)

	stampA := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	snapshotA[0].LastLogin = &stampA
	require.NoError(t, repo.ReplaceApprovedUsers(ctx, snapshotA))

	stampB := time.Date(2026, 4, 1, 10, 0, 1, 0, time.UTC)
	snapshotB[1].LastLogin = &stampB
	require.NoError(t, repo.ReplaceApprovedUsers(ctx, snapshotB))

	final, err := repo.ApprovedUsers(ctx)
	require.NoError(t, err)
	require.Len(t, final, 2)

	// u1's stamp from the first write is gone; the second snapshot never
	// saw it.
	assert.Nil(t, final[0].LastLogin)
	require.NotNil(t, final[1].LastLogin)
	assert.True(t, final[1].LastLogin.Equal(stampB))
}

func TestRegisterAppendsPendingUser(t *testing.T) {
	svc, repo := newTestDirectory(t)
	seedUsers(t, repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{
		Name:     "Nina Costa",
		Email:    "nina@example.com",
		Password: "long-enough-password",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, StatusPending, user.Status)
	assert.Equal(t, RoleUser, user.Role)
	assert.NotEqual(t, "long-enough-password", user.Password)

	pending, err := repo.PendingUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, repo := newTestDirectory(t)
	seedUsers(t, repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Impostor",
		Email:    "marco@example.com",
		Password: "long-enough-password",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestApproveMovesUserBetweenPools(t *testing.T) {
	svc, repo := newTestDirectory(t)
	seedUsers(t, repo)
	ctx := context.Background()

	user, err := svc.Approve(ctx, "u-pending")
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, user.Status)
	require.NotNil(t, user.ApprovedAt)

	pending, err := repo.PendingUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	approved, err := repo.ApprovedUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, approved, 2)
}

func TestApproveUnknownUser(t *testing.T) {
	svc, repo := newTestDirectory(t)
	seedUsers(t, repo)

	_, err := svc.Approve(context.Background(), "u-missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

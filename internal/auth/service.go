// marciomma | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marciomma/latam-portifolio-status-sub001/internal/core"
	"github.com/marciomma/latam-portifolio-status-sub001/internal/directory"
	"github.com/marciomma/latam-portifolio-status-sub001/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountPending     = errors.New("account pending approval")
)

const blacklistPrefix = "auth:blacklist:"

type Service struct {
	users *directory.Service
	jwt   *JWTManager
	redis *core.Redis
}

func NewService(
	users *directory.Service,
	jwtManager *JWTManager,
	rdb *core.Redis,
) *Service {
	return &Service{
		users: users,
		jwt:   jwtManager,
		redis: rdb,
	}
}

// Login verifies credentials and issues a session token. Password
// verification always runs, even for unknown emails, so response timing
// does not reveal whether an account exists. The pending check happens
// only after the password matched, for the same reason.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*SessionResponse, error) {
	user, err := s.users.FindUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	var storedHash *string
	if user != nil {
		storedHash = &user.Password
	}

	match, err := core.VerifyPasswordTimingSafe(req.Password, storedHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if user == nil || !match {
		return nil, ErrInvalidCredentials
	}

	if !user.IsApproved() {
		return nil, ErrAccountPending
	}

	stamped, err := s.users.TouchLastLogin(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("touch last login: %w", err)
	}

	token, expiresAt, err := s.jwt.CreateSessionToken(stamped)
	if err != nil {
		return nil, fmt.Errorf("create session token: %w", err)
	}

	return &SessionResponse{
		User:      ToSessionUser(stamped),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout blacklists the token's jti for its remaining lifetime.
func (s *Service) Logout(
	ctx context.Context,
	claims *middleware.SessionClaims,
) error {
	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	key := blacklistPrefix + claims.TokenID
	if err := s.redis.Client().Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	return nil
}

// VerifySessionToken implements middleware.TokenVerifier: signature and
// claim checks first, then the revocation list.
func (s *Service) VerifySessionToken(
	ctx context.Context,
	token string,
) (*middleware.SessionClaims, error) {
	claims, err := s.jwt.ParseSessionToken(token)
	if err != nil {
		return nil, err
	}

	key := blacklistPrefix + claims.TokenID
	_, err = s.redis.Client().Get(ctx, key).Result()
	switch {
	case err == nil:
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	case errors.Is(err, redis.Nil):
		return claims, nil
	default:
		return nil, fmt.Errorf("check blacklist: %w", err)
	}
}

// marciomma | 2026
// dto.go

package auth

import (
	"time"

	"github.com/marciomma/latam-portifolio-status-sub001/internal/directory"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

// SessionUser is the identity payload returned alongside the token.
type SessionUser struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	Role       string     `json:"role"`
}

type SessionResponse struct {
	User      SessionUser `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

func ToSessionUser(user *directory.User) SessionUser {
	return SessionUser{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		ApprovedAt: user.ApprovedAt,
		LastLogin:  user.LastLogin,
		Role:       user.Role,
	}
}

// marciomma | 2026
// entity.go

package directory

import (
	"time"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User lives in one of two pools: auth:pendingUsers until an admin approves
// the account, auth:approvedUsers afterwards. Password holds the argon2id
// encoded hash, never plaintext.
type User struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	RequestedAt time.Time  `json:"requestedAt"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
	Status      string     `json:"status"`
	Role        string     `json:"role"`
}

func (u *User) IsApproved() bool {
	return u.Status == StatusApproved
}

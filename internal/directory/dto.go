// marciomma | 2026
// dto.go

package directory

import (
	"time"
)

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// UserResponse is the outward shape of a user record; the password hash
// never leaves the service.
type UserResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	RequestedAt time.Time  `json:"requestedAt"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
	Status      string     `json:"status"`
	Role        string     `json:"role"`
}

type UserListResponse struct {
	Pending  []UserResponse `json:"pending"`
	Approved []UserResponse `json:"approved"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		RequestedAt: u.RequestedAt,
		ApprovedAt:  u.ApprovedAt,
		LastLogin:   u.LastLogin,
		Status:      u.Status,
		Role:        u.Role,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}

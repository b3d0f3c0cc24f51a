package dto

import (
	"time"

	"staycal/internal/domain/user"
)

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func MapUser(u *user.User) User {
	if u == nil {
		return User{}
	}
	return User{
		ID:        string(u.ID),
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func MapUsers(users []*user.User) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		out = append(out, MapUser(u))
	}
	return out
}

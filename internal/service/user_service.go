package service

import (
	"github.com/Tomlord1122/todo-server/internal/domain"
)

// UserDetailsRequest is the body accepted by the POST user lookup.
type UserDetailsRequest struct {
	UserID uint32 `json:"user_id"`
}

type UserResponse struct {
	ID       uint32 `json:"id"`
	Username string `json:"username"`
}

// FetchUser echoes id back with the placeholder username. Nothing is read
// from storage, so it cannot fail.
func FetchUser(id uint32) UserResponse {
	user := domain.User{ID: id, Username: domain.PlaceholderUsername}
	return UserResponse{ID: user.ID, Username: user.Username}
}

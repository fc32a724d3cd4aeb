// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/formdrop/formdrop/internal/model"
)

// SubmitRequest is the JSON body accepted by POST /submit.
type SubmitRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Message  string `json:"message,omitempty"`
}

// UserResponse represents a user in the debug listing.
// It has no password hash field.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   *string   `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Message:   user.Message,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserResponses converts users, always returning a non-nil slice.
func ToUserResponses(users []*model.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = ToUserResponse(user)
	}
	return responses
}

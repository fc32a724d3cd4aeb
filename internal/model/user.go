// Package model defines domain entities for the application.
package model

import "time"

// User is a persisted form submission.
// ID and CreatedAt are assigned by storage on insert.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Message      *string   `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}

package models

import "time"

// RoleAdmin grants access to the content-management screens.
const RoleAdmin = "admin"

// User is an account that can sign in.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserRole grants a role to a user.
type UserRole struct {
	UserID string `db:"user_id" json:"user_id"`
	Role   string `db:"role" json:"role"`
}

// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an identity record. Email and Name are unique across all users.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Verified     bool
	CreatedAt    time.Time
}

// UserPatch is a partial update of a user profile. Nil fields are left
// untouched; Password, when present, is the new plaintext to be hashed.
type UserPatch struct {
	Email    *string
	Name     *string
	Password *string
	Verified *bool
}

package models

import "time"

// AccessToken is an issued bearer credential bound to one user. Its presence
// in the store is what keeps a session alive; logout deletes the row, which
// revokes the token even while its embedded expiry is still valid.
type AccessToken struct {
	ID        string
	UserID    string
	Token     string
	CreatedAt time.Time
}

// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account identified by its CNIC. Username and PasswordHash are
// only set for accounts that log in with a password (the admin, and users in
// password mode).
type User struct {
	ID           int64     `json:"id"`
	CNIC         string    `json:"cnic"`
	Username     *string   `json:"username,omitempty"`
	PasswordHash *string   `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasPassword reports whether the account carries a password hash.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// Package model defines the data structures used throughout the application.
package model

import "time"

// User is a registered account and the identity anchor for ownership.
//
// PasswordHash never leaves the server: the json:"-" tag keeps it out of every
// response even if a handler encodes a User by mistake.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

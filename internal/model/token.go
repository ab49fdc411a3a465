package model

import "time"

// AuthToken is an opaque bearer credential bound to one user.
//
// Key is generated server-side and is globally unique. A user may hold any
// number of tokens at once (one per login). Tokens are never updated, only
// created and deleted.
type AuthToken struct {
	Key       string    `json:"token"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

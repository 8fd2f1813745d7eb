package domain

import "time"

// User represents a named account stored in the users table. The id and both
// timestamps are assigned by the storage layer.
type User struct {
	ID        int64     `json:"id"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

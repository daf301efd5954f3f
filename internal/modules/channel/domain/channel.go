package domain

import "time"

// Channel is a platform channel participating in the global chat
type Channel struct {
	ID           int64     `json:"id"`
	RegisteredAt time.Time `json:"registered_at"`
}

package model

import "time"

// PlayerID uniquely identifies a player. IDs are assigned by storage starting at 1.
type PlayerID int64

// Player is a registered competitor
type Player struct {
	ID        PlayerID  `json:"id"`
	Username  string    `json:"username"` // unique, immutable
	CreatedAt time.Time `json:"created_at"`
}

package model

import "time"

// ScoreID uniquely identifies a recorded score
type ScoreID int64

// Score is a single recorded result belonging to one player.
// Scores are append-only; nothing updates or deletes them.
type Score struct {
	ID         ScoreID   `json:"id"`
	PlayerID   PlayerID  `json:"player_id"`
	Value      int64     `json:"value"`
	RecordedAt time.Time `json:"recorded_at"`
}

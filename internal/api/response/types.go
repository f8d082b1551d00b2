package response

import (
	"time"

	"github.com/mcoot/leaderboard/internal/model"
)

// Messages returned on successful writes
const (
	MessagePlayerRegistered = "Player registered successfully"
	MessageScoreAdded       = "Score added successfully"
)

// Message is a bare acknowledgement
type Message struct {
	Message string `json:"message"`
}

// RegisterResponse is the response for player registration
type RegisterResponse struct {
	Message  string `json:"message"`
	PlayerID int64  `json:"player_id"`
}

// Player represents a player in API responses
type Player struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:       int64(p.ID),
		Username: p.Username,
	}
}

// Score is one entry of a player's score history
type Score struct {
	ID        int64     `json:"id"`
	Score     int64     `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// ScoresFromModel converts scores, keeping their order. Never returns nil,
// so an empty history encodes as [].
func ScoresFromModel(scores []*model.Score) []Score {
	out := make([]Score, len(scores))
	for i, s := range scores {
		out[i] = Score{
			ID:        int64(s.ID),
			Score:     s.Value,
			Timestamp: s.RecordedAt,
		}
	}
	return out
}

// Health is the response of the health check
type Health struct {
	Status string `json:"status"`
}

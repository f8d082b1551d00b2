package storage

import (
	"context"

	"github.com/mcoot/leaderboard/internal/model"
)

// Storage defines the interface for leaderboard persistence.
//
// Implementations must enforce username uniqueness atomically on write and must
// refuse scores whose player does not exist. Records are never updated or deleted.
type Storage interface {
	// Player operations

	// CreatePlayer inserts the player and sets player.ID.
	// Returns model.ErrUsernameExists if the username is taken.
	CreatePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error)

	// Score operations

	// CreateScore inserts the score and sets score.ID.
	// Returns model.ErrPlayerNotFound if score.PlayerID does not exist.
	CreateScore(ctx context.Context, score *model.Score) error
	// ListScoresByPlayer returns the player's scores in insertion order.
	// An unknown player yields an empty slice; existence is the caller's concern.
	ListScoresByPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Score, error)

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error
}

package directory

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mcoot/leaderboard/internal/dependencies/clock"
	"github.com/mcoot/leaderboard/internal/model"
	"github.com/mcoot/leaderboard/internal/storage"
)

// Service owns player identity and username uniqueness
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new player directory
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Register creates a player with the given username and returns its ID.
//
// A username that is empty or only whitespace fails with
// model.ErrUsernameRequired: it would render as a blank name on a leaderboard
// and could not be told apart from an unfilled form field.
//
// Uniqueness is left to the storage layer, which rejects a duplicate atomically
// with model.ErrUsernameExists; there is no separate existence check.
func (s *Service) Register(ctx context.Context, username string) (model.PlayerID, error) {
	if strings.TrimSpace(username) == "" {
		return 0, model.ErrUsernameRequired
	}

	player := &model.Player{
		Username:  username,
		CreatedAt: s.clock.Now(),
	}
	if err := s.storage.CreatePlayer(ctx, player); err != nil {
		return 0, err
	}

	s.logger.Info("player registered",
		slog.Int64("player_id", int64(player.ID)),
		slog.String("username", player.Username),
	)
	return player.ID, nil
}

// FindByUsername returns the player registered under username
func (s *Service) FindByUsername(ctx context.Context, username string) (*model.Player, error) {
	if username == "" {
		return nil, model.ErrUsernameRequired
	}
	return s.storage.GetPlayerByUsername(ctx, username)
}

// Get returns the player with the given ID. Zero is the unset ID; negative
// IDs are never assigned and resolve to model.ErrPlayerNotFound.
func (s *Service) Get(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	if id == 0 {
		return nil, model.ErrPlayerIDRequired
	}
	return s.storage.GetPlayer(ctx, id)
}

package ledger

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/mcoot/leaderboard/internal/dependencies/clock"
	"github.com/mcoot/leaderboard/internal/model"
	"github.com/mcoot/leaderboard/internal/services/directory"
	"github.com/mcoot/leaderboard/internal/storage"
)

// Service records scores and serves per-player score histories
type Service struct {
	storage   storage.Storage
	directory *directory.Service
	clock     clock.Clock
	logger    *slog.Logger
}

// New creates a new score ledger
func New(storage storage.Storage, directory *directory.Service, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:   storage,
		directory: directory,
		clock:     clock,
		logger:    logger,
	}
}

// Submit records value for the player. Any integer, zero included, is a valid value.
// A zero playerID counts as missing; any other ID without a player is not found.
func (s *Service) Submit(ctx context.Context, playerID model.PlayerID, value int64) (*model.Score, error) {
	if playerID == 0 {
		return nil, model.ErrScoreFieldsRequired
	}
	if _, err := s.directory.Get(ctx, playerID); err != nil {
		return nil, err
	}

	score := &model.Score{
		PlayerID:   playerID,
		Value:      value,
		RecordedAt: s.clock.Now(),
	}
	// Storage re-checks the player reference, so a lookup race cannot leave an orphan
	if err := s.storage.CreateScore(ctx, score); err != nil {
		return nil, err
	}

	s.logger.Info("score submitted",
		slog.Int64("player_id", int64(playerID)),
		slog.Int64("score_id", int64(score.ID)),
		slog.Int64("value", value),
	)
	return score, nil
}

// ListByPlayer returns the player's scores, highest first. Equal values keep
// storage order. A player with no scores gets an empty slice.
func (s *Service) ListByPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Score, error) {
	if playerID <= 0 {
		return nil, model.ErrPlayerNotFound
	}
	if _, err := s.directory.Get(ctx, playerID); err != nil {
		return nil, err
	}

	scores, err := s.storage.ListScoresByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	SortDescending(scores)
	return scores, nil
}

// SortDescending orders scores by value, highest first, preserving the
// relative order of equal values.
func SortDescending(scores []*model.Score) {
	slices.SortStableFunc(scores, func(a, b *model.Score) int {
		return cmp.Compare(b.Value, a.Value)
	})
}

package memory

import (
	"context"
	"sync"

	"github.com/mcoot/leaderboard/internal/model"
	"github.com/mcoot/leaderboard/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players       map[model.PlayerID]*model.Player
	usernameIndex map[string]model.PlayerID
	scores        map[model.PlayerID][]*model.Score

	lastPlayerID model.PlayerID
	lastScoreID  model.ScoreID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:       make(map[model.PlayerID]*model.Player),
		usernameIndex: make(map[string]model.PlayerID),
		scores:        make(map[model.PlayerID][]*model.Score),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.usernameIndex[player.Username]; ok {
		return model.ErrUsernameExists
	}
	s.lastPlayerID++
	player.ID = s.lastPlayerID

	stored := *player
	s.players[stored.ID] = &stored
	s.usernameIndex[stored.Username] = stored.ID
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	out := *player
	return &out, nil
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	out := *s.players[id]
	return &out, nil
}

// Score operations

func (s *Storage) CreateScore(ctx context.Context, score *model.Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[score.PlayerID]; !ok {
		return model.ErrPlayerNotFound
	}
	s.lastScoreID++
	score.ID = s.lastScoreID

	stored := *score
	s.scores[stored.PlayerID] = append(s.scores[stored.PlayerID], &stored)
	return nil
}

func (s *Storage) ListScoresByPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.scores[playerID]
	result := make([]*model.Score, len(stored))
	for i, sc := range stored {
		out := *sc
		result[i] = &out
	}
	return result, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return nil
}

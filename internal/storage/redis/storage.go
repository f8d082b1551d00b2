package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/leaderboard/internal/model"
	"github.com/mcoot/leaderboard/internal/storage"
)

// createPlayerScript claims the username index and writes the player in one step.
// KEYS[1] username index, KEYS[2] player key; ARGV[1] player ID, ARGV[2] player JSON.
var createPlayerScript = redis.NewScript(`
if redis.call('SETNX', KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2])
return 1
`)

// createScoreScript appends a score only if its player exists.
// KEYS[1] player key, KEYS[2] player score list; ARGV[1] score JSON.
var createScoreScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('RPUSH', KEYS[2], ARGV[1])
return 1
`)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	keys   keys
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		keys:   keys{prefix: prefix},
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	id, err := s.client.Incr(ctx, s.keys.playerSeq()).Result()
	if err != nil {
		return fmt.Errorf("allocate player id: %w", err)
	}

	stored := *player
	stored.ID = model.PlayerID(id)
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	created, err := createPlayerScript.Run(ctx, s.client,
		[]string{s.keys.usernameIndex(stored.Username), s.keys.player(stored.ID)},
		strconv.FormatInt(id, 10), data,
	).Int()
	if err != nil {
		return fmt.Errorf("create player: %w", err)
	}
	if created == 0 {
		return model.ErrUsernameExists
	}

	player.ID = stored.ID
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, s.keys.player(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	// Look up player ID from username index
	id, err := s.client.Get(ctx, s.keys.usernameIndex(username)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetPlayer(ctx, model.PlayerID(id))
}

// Score operations

func (s *Storage) CreateScore(ctx context.Context, score *model.Score) error {
	id, err := s.client.Incr(ctx, s.keys.scoreSeq()).Result()
	if err != nil {
		return fmt.Errorf("allocate score id: %w", err)
	}

	stored := *score
	stored.ID = model.ScoreID(id)
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	created, err := createScoreScript.Run(ctx, s.client,
		[]string{s.keys.player(stored.PlayerID), s.keys.playerScores(stored.PlayerID)},
		data,
	).Int()
	if err != nil {
		return fmt.Errorf("create score: %w", err)
	}
	if created == 0 {
		return model.ErrPlayerNotFound
	}

	score.ID = stored.ID
	return nil
}

func (s *Storage) ListScoresByPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Score, error) {
	values, err := s.client.LRange(ctx, s.keys.playerScores(playerID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	scores := make([]*model.Score, 0, len(values))
	for _, val := range values {
		var score model.Score
		if err := json.Unmarshal([]byte(val), &score); err != nil {
			return nil, fmt.Errorf("decode score: %w", err)
		}
		scores = append(scores, &score)
	}
	return scores, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

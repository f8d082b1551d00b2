// Package sqlite provides a SQLite-backed leaderboard storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/mcoot/leaderboard/internal/model"
	"github.com/mcoot/leaderboard/internal/storage"
	"github.com/mcoot/leaderboard/internal/storage/sqlite/migrations"
)

// Store persists players and scores in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Ensure Store implements the interface
var _ storage.Storage = (*Store)(nil)

func toMicros(value time.Time) int64 {
	return value.UTC().UnixMicro()
}

func fromMicros(value int64) time.Time {
	return time.UnixMicro(value).UTC()
}

// Open opens a SQLite store at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreatePlayer inserts one player row; the UNIQUE constraint on username
// rejects duplicates even under concurrent registration.
func (s *Store) CreatePlayer(ctx context.Context, player *model.Player) error {
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO players (username, created_at) VALUES (?, ?)`,
		player.Username, toMicros(player.CreatedAt),
	)
	if err != nil {
		if hasConstraintCode(err, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, "unique constraint failed") {
			return model.ErrUsernameExists
		}
		return fmt.Errorf("create player: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create player: %w", err)
	}
	player.ID = model.PlayerID(id)
	return nil
}

// GetPlayer returns one player by ID.
func (s *Store) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, username, created_at FROM players WHERE id = ?`, int64(id))
	return scanPlayer(row)
}

// GetPlayerByUsername returns one player by username.
func (s *Store) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, username, created_at FROM players WHERE username = ?`, username)
	return scanPlayer(row)
}

func scanPlayer(row *sql.Row) (*model.Player, error) {
	var (
		player    model.Player
		createdAt int64
	)
	if err := row.Scan(&player.ID, &player.Username, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("get player: %w", err)
	}
	player.CreatedAt = fromMicros(createdAt)
	return &player, nil
}

// CreateScore inserts one score row; the foreign key on player_id rejects orphans.
func (s *Store) CreateScore(ctx context.Context, score *model.Score) error {
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO scores (player_id, score, recorded_at) VALUES (?, ?, ?)`,
		int64(score.PlayerID), score.Value, toMicros(score.RecordedAt),
	)
	if err != nil {
		if hasConstraintCode(err, sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY, "foreign key constraint failed") {
			return model.ErrPlayerNotFound
		}
		return fmt.Errorf("create score: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create score: %w", err)
	}
	score.ID = model.ScoreID(id)
	return nil
}

// ListScoresByPlayer returns a player's scores in insertion order.
func (s *Store) ListScoresByPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Score, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, player_id, score, recorded_at FROM scores WHERE player_id = ? ORDER BY id`,
		int64(playerID),
	)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	scores := []*model.Score{}
	for rows.Next() {
		var (
			score      model.Score
			recordedAt int64
		)
		if err := rows.Scan(&score.ID, &score.PlayerID, &score.Value, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		score.RecordedAt = fromMicros(recordedAt)
		scores = append(scores, &score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return scores, nil
}

// Ping verifies the database handle is usable.
func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

func hasConstraintCode(err error, code int, message string) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == code {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), message)
}

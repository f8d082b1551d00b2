// Package postgres provides a PostgreSQL-backed leaderboard storage implementation using bun.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"github.com/mcoot/leaderboard/internal/model"
	"github.com/mcoot/leaderboard/internal/storage"
	"github.com/mcoot/leaderboard/internal/storage/postgres/migrations"
)

// SQLSTATE codes reported by postgres for constraint violations
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Store persists players and scores in PostgreSQL.
type Store struct {
	db *bun.DB
}

// Ensure Store implements the interface
var _ storage.Storage = (*Store)(nil)

// Open connects to dsn, verifies the connection and applies pending migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	if err := migrateUp(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func migrateUp(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	if err := migrator.Lock(ctx); err != nil {
		return fmt.Errorf("failed to lock migrations: %w", err)
	}
	defer func() { _ = migrator.Unlock(ctx) }()

	if _, err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// DB returns the underlying bun handle.
func (s *Store) DB() *bun.DB {
	return s.db
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreatePlayer inserts a player; the players_username_key constraint
// rejects duplicates.
func (s *Store) CreatePlayer(ctx context.Context, player *model.Player) error {
	row := &playerRow{
		Username:  player.Username,
		CreatedAt: player.CreatedAt,
	}
	if _, err := s.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		if hasSQLState(err, codeUniqueViolation) {
			return model.ErrUsernameExists
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	player.ID = model.PlayerID(row.ID)
	return nil
}

// GetPlayer retrieves a player by ID.
func (s *Store) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	row := &playerRow{}
	err := s.db.NewSelect().Model(row).Where("id = ?", int64(id)).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return row.toModel(), nil
}

// GetPlayerByUsername retrieves a player by username.
func (s *Store) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	row := &playerRow{}
	err := s.db.NewSelect().Model(row).Where("username = ?", username).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player by username: %w", err)
	}
	return row.toModel(), nil
}

// CreateScore inserts a score; the foreign key on player_id rejects orphans.
func (s *Store) CreateScore(ctx context.Context, score *model.Score) error {
	row := &scoreRow{
		PlayerID:   int64(score.PlayerID),
		Value:      score.Value,
		RecordedAt: score.RecordedAt,
	}
	if _, err := s.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		if hasSQLState(err, codeForeignKeyViolation) {
			return model.ErrPlayerNotFound
		}
		return fmt.Errorf("failed to create score: %w", err)
	}
	score.ID = model.ScoreID(row.ID)
	return nil
}

// ListScoresByPlayer returns a player's scores in insertion order.
func (s *Store) ListScoresByPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Score, error) {
	var rows []scoreRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("player_id = ?", int64(playerID)).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}

	scores := make([]*model.Score, len(rows))
	for i := range rows {
		scores[i] = rows[i].toModel()
	}
	return scores, nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func hasSQLState(err error, code string) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == code
}

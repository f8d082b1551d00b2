package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS players (
				id BIGSERIAL PRIMARY KEY,
				username TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT players_username_key UNIQUE (username)
			);

			CREATE TABLE IF NOT EXISTS scores (
				id BIGSERIAL PRIMARY KEY,
				player_id BIGINT NOT NULL REFERENCES players (id),
				score BIGINT NOT NULL,
				recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_scores_player_id ON scores (player_id, id);
		`)
		if err != nil {
			return fmt.Errorf("failed to create players and scores tables: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS scores;
			DROP TABLE IF EXISTS players;
		`)
		if err != nil {
			return fmt.Errorf("failed to drop players and scores tables: %w", err)
		}
		return nil
	})
}

package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/mcoot/leaderboard/internal/model"
)

// playerRow is the players table
type playerRow struct {
	bun.BaseModel `bun:"table:players,alias:p"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Username      string    `bun:"username,notnull,unique"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
}

func (r *playerRow) toModel() *model.Player {
	return &model.Player{
		ID:        model.PlayerID(r.ID),
		Username:  r.Username,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

// scoreRow is the scores table. Scores are always fetched by player_id,
// so no bun relation is declared.
type scoreRow struct {
	bun.BaseModel `bun:"table:scores,alias:s"`
	ID            int64     `bun:"id,pk,autoincrement"`
	PlayerID      int64     `bun:"player_id,notnull"`
	Value         int64     `bun:"score,notnull"`
	RecordedAt    time.Time `bun:"recorded_at,notnull"`
}

func (r *scoreRow) toModel() *model.Score {
	return &model.Score{
		ID:         model.ScoreID(r.ID),
		PlayerID:   model.PlayerID(r.PlayerID),
		Value:      r.Value,
		RecordedAt: r.RecordedAt.UTC(),
	}
}

package migrations

import "embed"

// FS contains embedded SQLite migrations for leaderboard storage.
//
//go:embed *.sql
var FS embed.FS

package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/leaderboard/internal/model"
	"github.com/mcoot/leaderboard/internal/storage/storagetest"
)

type StoreSuite struct {
	storagetest.Suite
	store *Store
	path  string
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "leaderboard.db")
	store, err := Open(context.Background(), s.path)
	s.Require().NoError(err)
	s.store = store
	s.Storage = store
	s.Suite.SetupTest()
}

func (s *StoreSuite) TearDownTest() {
	_ = s.store.Close()
}

func (s *StoreSuite) TestDataSurvivesReopen() {
	player := &model.Player{Username: "alice"}
	s.Require().NoError(s.store.CreatePlayer(s.Ctx, player))
	s.Require().NoError(s.store.CreateScore(s.Ctx, &model.Score{PlayerID: player.ID, Value: 77}))
	s.Require().NoError(s.store.Close())

	reopened, err := Open(s.Ctx, s.path)
	s.Require().NoError(err)
	s.store = reopened

	retrieved, err := reopened.GetPlayerByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)

	scores, err := reopened.ListScoresByPlayer(s.Ctx, player.ID)
	s.Require().NoError(err)
	s.Require().Len(scores, 1)
	s.Equal(int64(77), scores[0].Value)
}

func (s *StoreSuite) TestMigrationsRecordedOnce() {
	var count int
	err := s.store.sqlDB.QueryRowContext(s.Ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count)

	s.Require().NoError(applyMigrations(s.Ctx, s.store.sqlDB, fstest.MapFS{
		"0001_players_scores.sql": {Data: []byte("-- +migrate Up\nTHIS IS NOT SQL;")},
	}))
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "  ")
	require.Error(t, err)
}

func TestExtractUpMigration(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (id INTEGER);\n-- +migrate Down\nDROP TABLE a;\n"
	assert.Equal(t, "\nCREATE TABLE a (id INTEGER);\n", extractUpMigration(content))
	assert.Equal(t, "SELECT 1;", extractUpMigration("SELECT 1;"))
	assert.Equal(t, "\nSELECT 1;", extractUpMigration("-- +migrate Up\nSELECT 1;"))
}

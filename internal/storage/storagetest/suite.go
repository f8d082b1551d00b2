// Package storagetest holds the behaviour every storage backend must share.
// Backend packages embed Suite in their own test suites.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/leaderboard/internal/model"
	"github.com/mcoot/leaderboard/internal/storage"
)

// Suite runs the storage contract against Storage, which the embedding suite
// must set in its SetupTest before calling Suite.SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func (s *Suite) SetupTest() {
	s.Ctx = context.Background()
}

func (s *Suite) createPlayer(username string) *model.Player {
	player := &model.Player{Username: username, CreatedAt: baseTime}
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, player))
	return player
}

// Player tests

func (s *Suite) TestCreatePlayerAssignsID() {
	player := s.createPlayer("alice")
	s.Equal(model.PlayerID(1), player.ID)

	second := s.createPlayer("bob")
	s.Greater(second.ID, player.ID)
}

func (s *Suite) TestGetPlayer() {
	created := s.createPlayer("alice")

	retrieved, err := s.Storage.GetPlayer(s.Ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, retrieved.ID)
	s.Equal("alice", retrieved.Username)
	s.True(baseTime.Equal(retrieved.CreatedAt))
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.Ctx, 999)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestGetPlayerByUsername() {
	created := s.createPlayer("alice")

	retrieved, err := s.Storage.GetPlayerByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(created.ID, retrieved.ID)
}

func (s *Suite) TestGetPlayerByUsernameNotFound() {
	_, err := s.Storage.GetPlayerByUsername(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestCreatePlayerDuplicateUsername() {
	first := s.createPlayer("alice")

	err := s.Storage.CreatePlayer(s.Ctx, &model.Player{Username: "alice", CreatedAt: baseTime})
	s.ErrorIs(err, model.ErrUsernameExists)
	s.ErrorIs(err, model.ErrConflict)

	retrieved, err := s.Storage.GetPlayerByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(first.ID, retrieved.ID)
}

func (s *Suite) TestUsernamesAreCaseSensitive() {
	s.createPlayer("alice")
	s.createPlayer("Alice")
}

func (s *Suite) TestConcurrentRegistrationOfSameUsername() {
	const workers = 8

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.Storage.CreatePlayer(s.Ctx, &model.Player{Username: "racer", CreatedAt: baseTime})
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, model.ErrUsernameExists)
	}
	s.Equal(1, succeeded)
}

// Score tests

func (s *Suite) TestCreateScore() {
	player := s.createPlayer("alice")

	score := &model.Score{PlayerID: player.ID, Value: 50, RecordedAt: baseTime}
	s.Require().NoError(s.Storage.CreateScore(s.Ctx, score))
	s.NotZero(score.ID)

	scores, err := s.Storage.ListScoresByPlayer(s.Ctx, player.ID)
	s.Require().NoError(err)
	s.Require().Len(scores, 1)
	s.Equal(score.ID, scores[0].ID)
	s.Equal(player.ID, scores[0].PlayerID)
	s.Equal(int64(50), scores[0].Value)
	s.True(baseTime.Equal(scores[0].RecordedAt))
}

func (s *Suite) TestCreateScoreUnknownPlayer() {
	err := s.Storage.CreateScore(s.Ctx, &model.Score{PlayerID: 42, Value: 10, RecordedAt: baseTime})
	s.ErrorIs(err, model.ErrPlayerNotFound)

	scores, err := s.Storage.ListScoresByPlayer(s.Ctx, 42)
	s.Require().NoError(err)
	s.Empty(scores)
}

func (s *Suite) TestCreateScoreAcceptsZeroAndNegative() {
	player := s.createPlayer("alice")

	s.Require().NoError(s.Storage.CreateScore(s.Ctx, &model.Score{PlayerID: player.ID, Value: 0, RecordedAt: baseTime}))
	s.Require().NoError(s.Storage.CreateScore(s.Ctx, &model.Score{PlayerID: player.ID, Value: -5, RecordedAt: baseTime}))

	scores, err := s.Storage.ListScoresByPlayer(s.Ctx, player.ID)
	s.Require().NoError(err)
	s.Require().Len(scores, 2)
	s.Equal(int64(0), scores[0].Value)
	s.Equal(int64(-5), scores[1].Value)
}

func (s *Suite) TestListScoresByPlayerInsertionOrder() {
	player := s.createPlayer("alice")
	values := []int64{50, 90, 30, 90}
	for i, v := range values {
		recordedAt := baseTime.Add(time.Duration(i) * time.Second)
		s.Require().NoError(s.Storage.CreateScore(s.Ctx, &model.Score{PlayerID: player.ID, Value: v, RecordedAt: recordedAt}))
	}

	scores, err := s.Storage.ListScoresByPlayer(s.Ctx, player.ID)
	s.Require().NoError(err)
	s.Require().Len(scores, len(values))
	for i, sc := range scores {
		s.Equal(values[i], sc.Value, fmt.Sprintf("score %d", i))
		if i > 0 {
			s.Greater(sc.ID, scores[i-1].ID)
		}
	}
}

func (s *Suite) TestListScoresOnlyReturnsOwnScores() {
	alice := s.createPlayer("alice")
	bob := s.createPlayer("bob")
	s.Require().NoError(s.Storage.CreateScore(s.Ctx, &model.Score{PlayerID: alice.ID, Value: 1, RecordedAt: baseTime}))
	s.Require().NoError(s.Storage.CreateScore(s.Ctx, &model.Score{PlayerID: bob.ID, Value: 2, RecordedAt: baseTime}))

	scores, err := s.Storage.ListScoresByPlayer(s.Ctx, alice.ID)
	s.Require().NoError(err)
	s.Require().Len(scores, 1)
	s.Equal(int64(1), scores[0].Value)
}

func (s *Suite) TestListScoresEmptyIsNotNil() {
	player := s.createPlayer("alice")

	scores, err := s.Storage.ListScoresByPlayer(s.Ctx, player.ID)
	s.Require().NoError(err)
	s.NotNil(scores)
	s.Empty(scores)
}

func (s *Suite) TestPing() {
	s.NoError(s.Storage.Ping(s.Ctx))
}

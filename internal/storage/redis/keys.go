package redis

import (
	"fmt"

	"github.com/mcoot/leaderboard/internal/model"
)

// keys builds Redis keys under a common prefix
type keys struct {
	prefix string
}

// playerSeq is the counter INCR'd to allocate player IDs
func (k keys) playerSeq() string {
	return fmt.Sprintf("%s:seq:player", k.prefix)
}

// scoreSeq is the counter INCR'd to allocate score IDs
func (k keys) scoreSeq() string {
	return fmt.Sprintf("%s:seq:score", k.prefix)
}

// player returns the key holding a Player as JSON
func (k keys) player(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%d", k.prefix, id)
}

// usernameIndex returns the key mapping a username to its player ID
func (k keys) usernameIndex(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", k.prefix, username)
}

// playerScores returns the LIST of JSON scores for a player, oldest first
func (k keys) playerScores(id model.PlayerID) string {
	return fmt.Sprintf("%s:scores:%d", k.prefix, id)
}

package request

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username string `json:"username"`
}

// SubmitScoreRequest is the request body for submitting a score.
// Pointers distinguish an absent field from a zero value.
type SubmitScoreRequest struct {
	PlayerID *int64 `json:"player_id"`
	Score    *int64 `json:"score"`
}

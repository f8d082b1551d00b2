package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/leaderboard/internal/api/request"
	"github.com/mcoot/leaderboard/internal/api/response"
	"github.com/mcoot/leaderboard/internal/metrics"
	"github.com/mcoot/leaderboard/internal/model"
	"github.com/mcoot/leaderboard/internal/services/ledger"
)

// ScoreHandler handles score submission and history endpoints
type ScoreHandler struct {
	ledger  *ledger.Service
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(ledger *ledger.Service, metrics *metrics.Metrics, logger *slog.Logger) *ScoreHandler {
	return &ScoreHandler{
		ledger:  ledger,
		metrics: metrics,
		logger:  logger,
	}
}

// Submit handles POST /api/scores
func (h *ScoreHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.RecordSubmission(metrics.OutcomeRejected)
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.PlayerID == nil || req.Score == nil {
		h.metrics.RecordSubmission(metrics.OutcomeRejected)
		WriteError(w, model.ErrScoreFieldsRequired)
		return
	}

	_, err := h.ledger.Submit(r.Context(), model.PlayerID(*req.PlayerID), *req.Score)
	h.metrics.RecordSubmission(outcomeOf(err))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.Message{Message: response.MessageScoreAdded})
}

// List handles GET /api/players/{player_id}/scores
func (h *ScoreHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["player_id"], 10, 64)
	if err != nil {
		// The route only matches digits, so this is an out-of-range ID
		WriteError(w, model.ErrPlayerNotFound)
		return
	}

	scores, err := h.ledger.ListByPlayer(r.Context(), model.PlayerID(id))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ScoresFromModel(scores))
}

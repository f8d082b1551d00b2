package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mcoot/leaderboard/internal/api/request"
	"github.com/mcoot/leaderboard/internal/api/response"
	"github.com/mcoot/leaderboard/internal/metrics"
	"github.com/mcoot/leaderboard/internal/services/directory"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	directory *directory.Service
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(directory *directory.Service, metrics *metrics.Metrics, logger *slog.Logger) *PlayerHandler {
	return &PlayerHandler{
		directory: directory,
		metrics:   metrics,
		logger:    logger,
	}
}

// Register handles POST /api/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.RecordRegistration(metrics.OutcomeRejected)
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	id, err := h.directory.Register(r.Context(), req.Username)
	h.metrics.RecordRegistration(outcomeOf(err))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RegisterResponse{
		Message:  response.MessagePlayerRegistered,
		PlayerID: int64(id),
	})
}

// GetByUsername handles GET /api/players?username=...
func (h *PlayerHandler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	player, err := h.directory.FindByUsername(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

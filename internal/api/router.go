package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/leaderboard/internal/api/apierr"
	"github.com/mcoot/leaderboard/internal/api/handler"
	apimiddleware "github.com/mcoot/leaderboard/internal/api/middleware"
	"github.com/mcoot/leaderboard/internal/metrics"
	"github.com/mcoot/leaderboard/internal/middleware"
	"github.com/mcoot/leaderboard/internal/services/directory"
	"github.com/mcoot/leaderboard/internal/services/ledger"
	"github.com/mcoot/leaderboard/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger    *slog.Logger
	Storage   storage.Storage
	Directory *directory.Service
	Ledger    *ledger.Service
	// Metrics is optional; when nil no instrumentation is recorded and
	// /metrics is not served
	Metrics *metrics.Metrics
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.Directory, cfg.Metrics, cfg.Logger)
	scoreHandler := handler.NewScoreHandler(cfg.Ledger, cfg.Metrics, cfg.Logger)
	healthHandler := handler.NewHealthHandler(cfg.Storage, cfg.Logger)

	// Routes live on the root router: mux only reports a method mismatch
	// for routes on the router that serves the request.
	chain := middlewareChain(cfg.Logger, cfg.Metrics)
	r.Use(chain)

	// Player directory
	r.HandleFunc("/api/register", playerHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/players", playerHandler.GetByUsername).Methods(http.MethodGet)

	// Score ledger
	r.HandleFunc("/api/scores", scoreHandler.Submit).Methods(http.MethodPost)
	r.HandleFunc("/api/players/{player_id:[0-9]+}/scores", scoreHandler.List).Methods(http.MethodGet)

	r.HandleFunc("/api/health", healthHandler.Check).Methods(http.MethodGet)

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	// mux skips Use middleware for unmatched requests, so wrap these directly
	r.NotFoundHandler = chain(http.HandlerFunc(notFound))
	r.MethodNotAllowedHandler = chain(http.HandlerFunc(methodNotAllowed))

	return r
}

// middlewareChain wraps a handler with metrics (outermost), request logging
// and panic recovery (innermost), so a recovered panic is still logged and
// counted as a 500.
func middlewareChain(logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	recovery := apimiddleware.Recovery(logger)
	logging := middleware.Logging(logger)
	return func(next http.Handler) http.Handler {
		h := logging(recovery(next))
		if m != nil {
			h = apimiddleware.Metrics(m)(h)
		}
		return h
	}
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	apierr.WriteError(w, apierr.NewNotFoundError("route not found"))
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	apierr.WriteError(w, apierr.NewMethodNotAllowedError())
}

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/leaderboard/internal/api"
	"github.com/mcoot/leaderboard/internal/api/apierr"
	"github.com/mcoot/leaderboard/internal/api/response"
	"github.com/mcoot/leaderboard/internal/factory"
	"github.com/mcoot/leaderboard/internal/middleware"
	"github.com/mcoot/leaderboard/internal/model"
	"github.com/mcoot/leaderboard/internal/storage"
	"github.com/mcoot/leaderboard/internal/storage/memory"
	"github.com/mcoot/leaderboard/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithStorage(t, memory.New())
}

func newTestServerWithStorage(t *testing.T, store storage.Storage) *testServer {
	t.Helper()

	app := factory.NewTestAppWithStorage(store)
	router := api.NewRouter(api.RouterConfig{
		Logger:    testutil.NopLogger(),
		Storage:   app.Storage,
		Directory: app.Directory,
		Ledger:    app.Ledger,
		Metrics:   app.Metrics,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		encoded, _ := json.Marshal(b)
		reqBody = bytes.NewBuffer(encoded)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) register(t *testing.T, username string) int64 {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/register", map[string]string{"username": username})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp response.RegisterResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp.PlayerID
}

func (ts *testServer) submit(t *testing.T, playerID, score int64) {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/scores", map[string]int64{"player_id": playerID, "score": score})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()
	var apiErr apierr.APIError
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&apiErr))
	return apiErr
}

func TestRegister(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/register", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))

	var resp response.RegisterResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Player registered successfully", resp.Message)
	assert.Equal(t, int64(1), resp.PlayerID)
}

func TestRegisterMissingUsername(t *testing.T) {
	ts := newTestServer(t)

	for _, body := range []any{map[string]string{}, map[string]string{"username": ""}, `{"username": null}`} {
		rr := ts.request(http.MethodPost, "/api/register", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		apiErr := decodeError(t, rr)
		assert.Equal(t, apierr.CodeUsernameRequired, apiErr.Code)
		assert.Equal(t, "Username is required", apiErr.Message)
	}

	// Nothing was created
	_, err := ts.app.Storage.GetPlayer(context.Background(), 1)
	assert.ErrorIs(t, err, model.ErrPlayerNotFound)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts := newTestServer(t)
	first := ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/register", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	apiErr := decodeError(t, rr)
	assert.Equal(t, apierr.CodeUsernameExists, apiErr.Code)
	assert.Equal(t, "Username already exists", apiErr.Message)

	// The original registration is untouched
	rr = ts.request(http.MethodGet, "/api/players?username=alice", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var player response.Player
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&player))
	assert.Equal(t, first, player.ID)
}

func TestRegisterMalformedJSON(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/register", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)
}

func TestGetPlayerByUsername(t *testing.T) {
	ts := newTestServer(t)
	id := ts.register(t, "bob")

	rr := ts.request(http.MethodGet, "/api/players?username=bob", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var player response.Player
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&player))
	assert.Equal(t, response.Player{ID: id, Username: "bob"}, player)
}

func TestGetPlayerErrors(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/players", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeUsernameRequired, decodeError(t, rr).Code)

	rr = ts.request(http.MethodGet, "/api/players?username=nobody", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	apiErr := decodeError(t, rr)
	assert.Equal(t, apierr.CodePlayerNotFound, apiErr.Code)
	assert.Equal(t, "Player not found", apiErr.Message)
}

func TestSubmitScore(t *testing.T) {
	ts := newTestServer(t)
	id := ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/scores", map[string]int64{"player_id": id, "score": 50})
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp response.Message
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Score added successfully", resp.Message)
}

func TestSubmitZeroScoreIsAccepted(t *testing.T) {
	ts := newTestServer(t)
	id := ts.register(t, "alice")

	ts.submit(t, id, 0)

	rr := ts.request(http.MethodGet, "/api/players/1/scores", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var scores []response.Score
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&scores))
	require.Len(t, scores, 1)
	assert.Equal(t, int64(0), scores[0].Score)
}

func TestSubmitScoreMissingFields(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice")

	bodies := []any{
		`{}`,
		`{"player_id": 1}`,
		`{"score": 10}`,
		`{"player_id": null, "score": 10}`,
		`{"player_id": 0, "score": 10}`,
	}
	for _, body := range bodies {
		rr := ts.request(http.MethodPost, "/api/scores", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)

		apiErr := decodeError(t, rr)
		assert.Equal(t, apierr.CodeFieldsRequired, apiErr.Code, body)
		assert.Equal(t, "Player ID and score are required", apiErr.Message, body)
	}
}

func TestSubmitScoreUnknownPlayer(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/scores", map[string]int64{"player_id": 99, "score": 10})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodePlayerNotFound, decodeError(t, rr).Code)

	scores, err := ts.app.Storage.ListScoresByPlayer(context.Background(), 99)
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestSubmitScoreNegativePlayerID(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/scores", map[string]int64{"player_id": -5, "score": 10})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	apiErr := decodeError(t, rr)
	assert.Equal(t, apierr.CodePlayerNotFound, apiErr.Code)
	assert.Equal(t, "Player not found", apiErr.Message)
}

func TestSubmitScoreWrongType(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/scores", `{"player_id": 1, "score": "lots"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)
}

func TestListScoresSortedDescending(t *testing.T) {
	ts := newTestServer(t)
	id := ts.register(t, "alice")
	for _, v := range []int64{50, 90, 30} {
		ts.submit(t, id, v)
	}

	rr := ts.request(http.MethodGet, "/api/players/1/scores", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var scores []response.Score
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&scores))
	require.Len(t, scores, 3)
	assert.Equal(t, int64(90), scores[0].Score)
	assert.Equal(t, int64(50), scores[1].Score)
	assert.Equal(t, int64(30), scores[2].Score)
	for _, s := range scores {
		assert.NotZero(t, s.ID)
		assert.False(t, s.Timestamp.IsZero())
	}
}

func TestListScoresEmptyHistory(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice")

	rr := ts.request(http.MethodGet, "/api/players/1/scores", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestListScoresUnknownPlayer(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/players/7/scores", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodePlayerNotFound, decodeError(t, rr).Code)

	// Out of int64 range still reads as an unknown player
	rr = ts.request(http.MethodGet, "/api/players/99999999999999999999/scores", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Non-numeric IDs do not match the route
	rr = ts.request(http.MethodGet, "/api/players/abc/scores", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeNotFound, decodeError(t, rr).Code)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/leaderboard", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeNotFound, decodeError(t, rr).Code)

	wrongMethods := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/register"},
		{http.MethodPut, "/api/register"},
		{http.MethodDelete, "/api/register"},
		{http.MethodDelete, "/api/scores"},
		{http.MethodPost, "/api/players/1/scores"},
	}
	for _, tc := range wrongMethods {
		rr = ts.request(tc.method, tc.path, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code, tc.method+" "+tc.path)
		assert.Equal(t, apierr.CodeMethodNotAllowed, decodeError(t, rr).Code, tc.method+" "+tc.path)
	}
}

func TestUnmatchedRequestsAreLoggedAndCounted(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/leaderboard", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))

	rr = ts.request(http.MethodDelete, "/api/scores", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))

	rr = ts.request(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `leaderboard_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.Contains(t, body, `leaderboard_http_requests_total{method="DELETE",route="unmatched",status="405"} 1`)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var health response.Health
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
}

// unreachableStorage is memory storage whose Ping always fails
type unreachableStorage struct {
	*memory.Storage
}

func (unreachableStorage) Ping(context.Context) error {
	return errors.New("connection refused")
}

func TestHealthCheckUnavailable(t *testing.T) {
	ts := newTestServerWithStorage(t, unreachableStorage{memory.New()})

	rr := ts.request(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, apierr.CodeUnavailable, decodeError(t, rr).Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, "req-123", rr.Header().Get(middleware.RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	id := ts.register(t, "alice")
	ts.submit(t, id, 10)
	ts.request(http.MethodPost, "/api/register", map[string]string{"username": "alice"})

	rr := ts.request(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, `leaderboard_registrations_total{outcome="success"} 1`)
	assert.Contains(t, body, `leaderboard_registrations_total{outcome="rejected"} 1`)
	assert.Contains(t, body, `leaderboard_score_submissions_total{outcome="success"} 1`)
	assert.True(t, strings.Contains(body, `route="/api/register"`), "requests are labelled by route template")
}

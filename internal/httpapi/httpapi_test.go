package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripforge/planner/internal/config"
	"github.com/tripforge/planner/internal/model"
	"github.com/tripforge/planner/internal/routing"
	"github.com/tripforge/planner/orchestrator"
)

type fakeWalk struct{}

func (fakeWalk) Walk(ctx context.Context, from, to model.LatLng) (*routing.WalkResult, error) {
	return &routing.WalkResult{TotalDurationMin: 5, TotalDistanceM: 200}, nil
}

type fakeTransit struct{}

func (fakeTransit) Transit(ctx context.Context, from, to model.LatLng) (*routing.TransitResult, error) {
	return &routing.TransitResult{TotalDurationMin: 15, TotalDistanceM: 3000}, nil
}

func testEngine() *orchestrator.Engine {
	knobs := config.Default()
	stop := make(chan struct{})
	cache := routing.NewCache(knobs.CacheSize, knobs.CacheTTL, time.Hour, stop)
	breaker := routing.NewBreaker(knobs.BreakerThreshold, knobs.BreakerTimeout)
	limiter := routing.NewLimiter(knobs.ConcurrencyCap)
	client := routing.NewClient(cache, breaker, limiter, fakeWalk{}, fakeTransit{}, knobs.WalkModeCutoffMeters, knobs.RetryCount, time.Millisecond, knobs.RequestTimeout)
	return orchestrator.New(knobs, client)
}

func newTestRouter(engine *orchestrator.Engine) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/plan", planHandler(engine)).Methods(http.MethodPost)
	router.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)
	return router
}

func TestPlanHandler_ReturnsTripOutputForValidInput(t *testing.T) {
	input := model.TripInput{
		TripID: "t1",
		Days:   1,
		Start:  model.LatLng{Lat: 35.0, Lng: 139.0},
		Waypoints: []model.Waypoint{
			{ID: "a", Coord: model.LatLng{Lat: 35.01, Lng: 139.0}},
			{ID: "b", Coord: model.LatLng{Lat: 35.02, Lng: 139.0}},
		},
	}
	body, err := json.Marshal(input)
	require.NoError(t, err)

	router := newTestRouter(testEngine())
	req := httptest.NewRequest(http.MethodPost, "/plan", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out model.TripOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "t1", out.TripID)
}

func TestPlanHandler_RejectsMalformedBody(t *testing.T) {
	router := newTestRouter(testEngine())
	req := httptest.NewRequest(http.MethodPost, "/plan", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanHandler_RejectsInvalidTripInput(t *testing.T) {
	input := model.TripInput{TripID: "t1", Days: 0}
	body, _ := json.Marshal(input)

	router := newTestRouter(testEngine())
	req := httptest.NewRequest(http.MethodPost, "/plan", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthHandler_ReturnsOK(t *testing.T) {
	router := newTestRouter(testEngine())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

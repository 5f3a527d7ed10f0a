package routing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripforge/planner/internal/model"
)

type fakeWalker struct {
	calls int
	err   error
	res   *WalkResult
}

func (f *fakeWalker) Walk(ctx context.Context, from, to model.LatLng) (*WalkResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.res, nil
}

type fakeTransit struct {
	calls int
	err   error
	res   *TransitResult
}

func (f *fakeTransit) Transit(ctx context.Context, from, to model.LatLng) (*TransitResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.res, nil
}

func newTestClient(walker WalkingProvider, transit TransitProvider) *Client {
	stop := make(chan struct{})
	cache := NewCache(100, time.Minute, time.Hour, stop)
	breaker := NewBreaker(3, time.Minute)
	limiter := NewLimiter(4)
	return NewClient(cache, breaker, limiter, walker, transit, 700.0, 2, time.Millisecond, time.Second)
}

func TestPrice_ShortHopRoutesToWalkingProvider(t *testing.T) {
	w := &fakeWalker{res: &WalkResult{TotalDurationMin: 3, TotalDistanceM: 200}}
	tr := &fakeTransit{}
	c := newTestClient(w, tr)

	reqs := []Req{{
		Key:  model.SegmentKey{FromID: "a", ToID: "b"},
		From: model.LatLng{Lat: 35.0, Lng: 139.0},
		To:   model.LatLng{Lat: 35.0015, Lng: 139.0},
	}}
	out, err := c.Price(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 1, w.calls)
	assert.Equal(t, 0, tr.calls)
	assert.False(t, out[0].Fallback)
	assert.Equal(t, 3.0, out[0].DurationMinutes)
}

func TestPrice_LongHopRoutesToTransitProvider(t *testing.T) {
	w := &fakeWalker{}
	tr := &fakeTransit{res: &TransitResult{TotalDurationMin: 20, TotalDistanceM: 5000, TransferCount: 1}}
	c := newTestClient(w, tr)

	reqs := []Req{{
		Key:  model.SegmentKey{FromID: "a", ToID: "b"},
		From: model.LatLng{Lat: 35.0, Lng: 139.0},
		To:   model.LatLng{Lat: 35.05, Lng: 139.0},
	}}
	out, err := c.Price(context.Background(), reqs)
	require.NoError(t, err)
	assert.Equal(t, 0, w.calls)
	assert.GreaterOrEqual(t, tr.calls, 1)
	require.NotNil(t, out[0].Transfers)
	assert.Equal(t, 1, *out[0].Transfers)
}

func TestPrice_TransitFailureFallsBackAndOpensBreaker(t *testing.T) {
	w := &fakeWalker{}
	tr := &fakeTransit{err: errors.New("boom")}
	c := newTestClient(w, tr)
	c.breaker = NewBreaker(1, time.Hour)

	req := Req{
		Key:  model.SegmentKey{FromID: "a", ToID: "b"},
		From: model.LatLng{Lat: 35.0, Lng: 139.0},
		To:   model.LatLng{Lat: 35.05, Lng: 139.0},
	}

	out, err := c.Price(context.Background(), []Req{req})
	require.NoError(t, err)
	assert.True(t, out[0].Fallback)
	assert.Equal(t, StateOpen, c.breaker.State())

	tr2 := &fakeTransit{res: &TransitResult{TotalDurationMin: 10, TotalDistanceM: 3000}}
	c.transit = tr2
	req.Key.ToID = "c"
	req.To = model.LatLng{Lat: 35.06, Lng: 139.0}
	out2, err := c.Price(context.Background(), []Req{req})
	require.NoError(t, err)
	assert.True(t, out2[0].Fallback, "breaker still open, must not call provider")
	assert.Equal(t, 0, tr2.calls)
}

func TestPrice_CacheHitAvoidsSecondProviderCall(t *testing.T) {
	w := &fakeWalker{res: &WalkResult{TotalDurationMin: 2, TotalDistanceM: 100}}
	tr := &fakeTransit{}
	c := newTestClient(w, tr)

	req := Req{
		Key:  model.SegmentKey{FromID: "a", ToID: "b"},
		From: model.LatLng{Lat: 35.0, Lng: 139.0},
		To:   model.LatLng{Lat: 35.0010, Lng: 139.0},
	}
	_, err := c.Price(context.Background(), []Req{req})
	require.NoError(t, err)

	req2 := req
	req2.Key.FromID = "x"
	req2.Key.ToID = "y"
	out, err := c.Price(context.Background(), []Req{req2})
	require.NoError(t, err)
	assert.Equal(t, 1, w.calls, "second identical-coordinate request should hit cache")
	assert.Equal(t, "x", out[0].Key.FromID, "cached cost must be rekeyed to caller's segment key")
}

func TestPrice_WalkingFailureSynthesizesEstimate(t *testing.T) {
	w := &fakeWalker{err: errors.New("down")}
	tr := &fakeTransit{}
	c := newTestClient(w, tr)

	req := Req{
		Key:  model.SegmentKey{FromID: "a", ToID: "b"},
		From: model.LatLng{Lat: 35.0, Lng: 139.0},
		To:   model.LatLng{Lat: 35.002, Lng: 139.0},
	}
	out, err := c.Price(context.Background(), []Req{req})
	require.NoError(t, err)
	assert.True(t, out[0].Fallback)
	assert.Greater(t, out[0].DurationMinutes, 0.0)
}

func TestPostProcessTransit_FillsEndpointsFromOriginAndAdjacent(t *testing.T) {
	w := &fakeWalker{res: &WalkResult{TotalDurationMin: 1, TotalDistanceM: 50}}
	c := newTestClient(w, &fakeTransit{})

	origin := model.LatLng{Lat: 35.0, Lng: 139.0}
	dest := model.LatLng{Lat: 35.01, Lng: 139.0}
	mid := model.LatLng{Lat: 35.005, Lng: 139.0}

	raw := &TransitDetailsRaw{
		TransferCount: 1,
		SubPaths: []SubPathRaw{
			{TrafficType: int(model.TrafficWalk)},
			{TrafficType: int(model.TrafficSubway), StartCoord: &mid, EndCoord: &dest},
		},
	}
	details := c.postProcessTransit(context.Background(), raw, origin, dest)
	require.Len(t, details.SubPaths, 2)
	require.NotNil(t, details.SubPaths[0].StartCoord)
	assert.Equal(t, origin.Lat, details.SubPaths[0].StartCoord.Lat)
	require.NotNil(t, details.SubPaths[0].EndCoord)
	assert.Equal(t, mid.Lat, details.SubPaths[0].EndCoord.Lat)
}

package routing

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	polyline "github.com/twpayne/go-polyline"

	"github.com/tripforge/planner/internal/geo"
	"github.com/tripforge/planner/internal/model"
)

var logger = log.New(log.Writer(), "[routing] ", log.LstdFlags)

// ErrNoRoute is returned by a provider when it has no path between two
// points (the wire-level "null" response of spec §6).
var ErrNoRoute = errors.New("routing: provider returned no route")

// Client is the bounded-concurrency, cached, circuit-broken routing client
// of spec §4.7. It is safe for concurrent use by multiple trip plans; the
// cache, breaker, and limiter it wraps are the process-wide singletons
// described in spec §9, injected here for testability.
type Client struct {
	cache   *Cache
	breaker *Breaker
	limiter *Limiter
	walker  WalkingProvider
	transit TransitProvider

	walkCutoffMeters float64
	retryCount       int
	backoffBase      time.Duration
	requestTimeout   time.Duration
}

// NewClient wires a Client from its process-wide collaborators and knobs.
func NewClient(cache *Cache, breaker *Breaker, limiter *Limiter, walker WalkingProvider, transit TransitProvider, walkCutoffMeters float64, retryCount int, backoffBase, requestTimeout time.Duration) *Client {
	return &Client{
		cache:            cache,
		breaker:          breaker,
		limiter:          limiter,
		walker:           walker,
		transit:          transit,
		walkCutoffMeters: walkCutoffMeters,
		retryCount:       retryCount,
		backoffBase:      backoffBase,
		requestTimeout:   requestTimeout,
	}
}

// Req is one (SegmentKey, fromCoord, toCoord) routing request.
type Req struct {
	Key  model.SegmentKey
	From model.LatLng
	To   model.LatLng
}

// Price returns a SegmentCost per request, in the same order as reqs (spec
// §4.7 "Interface"). Each request fetches independently, bounded by the
// shared concurrency limiter; individual provider failures degrade to a
// fallback cost and never fail the overall call.
func (c *Client) Price(ctx context.Context, reqs []Req) ([]model.SegmentCost, error) {
	out := make([]model.SegmentCost, len(reqs))
	errs := make([]error, len(reqs))

	type job struct {
		idx int
		req Req
	}
	jobs := make(chan job)
	done := make(chan struct{})

	workers := len(reqs)
	if workers == 0 {
		return out, nil
	}

	go func() {
		defer close(jobs)
		for i, r := range reqs {
			select {
			case jobs <- job{idx: i, req: r}:
			case <-ctx.Done():
				return
			}
		}
	}()

	resultsLeft := len(reqs)
	resultCh := make(chan int, len(reqs))

	for w := 0; w < workers; w++ {
		go func() {
			for j := range jobs {
				release, err := c.limiter.Acquire(ctx)
				if err != nil {
					errs[j.idx] = err
					resultCh <- j.idx
					continue
				}
				cost := c.priceOne(ctx, j.req)
				release()
				out[j.idx] = cost
				resultCh <- j.idx
			}
		}()
	}

	go func() {
		defer close(done)
		for resultsLeft > 0 {
			select {
			case <-resultCh:
				resultsLeft--
			case <-ctx.Done():
				return
			}
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return nil, model.ErrCancelled
	}

	for _, e := range errs {
		if e != nil {
			return nil, model.ErrCancelled
		}
	}
	return out, nil
}

// priceOne resolves a single request: cache, then mode routing, then retry,
// then breaker-guarded provider call, then fallback.
func (c *Client) priceOne(ctx context.Context, r Req) model.SegmentCost {
	key := CacheKey(r.From, r.To)
	if cached, ok := c.cache.Get(key, r.Key); ok {
		return cached
	}

	var cost model.SegmentCost
	distM := geo.HaversineMeters(r.From, r.To)
	if distM <= c.walkCutoffMeters {
		cost = c.priceWalk(ctx, r)
	} else {
		cost = c.priceTransit(ctx, r)
	}
	c.cache.Set(key, cost)
	return cost
}

func (c *Client) priceWalk(ctx context.Context, r Req) model.SegmentCost {
	res, err := c.retryWalk(ctx, r.From, r.To)
	if err != nil || res == nil {
		return synthesizeWalk(r.Key, r.From, r.To)
	}
	return model.SegmentCost{
		Key:             r.Key,
		DurationMinutes: res.TotalDurationMin,
		DistanceMeters:  res.TotalDistanceM,
		Polyline:        res.Polyline,
		TransitDetails: &model.TransitDetails{
			SubPaths: []model.SubPath{{
				TrafficType:    model.TrafficWalk,
				DistanceMeters: res.TotalDistanceM,
				SectionMinutes: res.TotalDurationMin,
			}},
		},
	}
}

func (c *Client) priceTransit(ctx context.Context, r Req) model.SegmentCost {
	if !c.breaker.Allow() {
		return fallbackCost(r.Key, r.From, r.To, "circuit breaker open")
	}

	res, err := c.retryTransit(ctx, r.From, r.To)
	if err != nil || res == nil {
		c.breaker.RecordFailure()
		logger.Printf("transit fetch failed for %s->%s: %v", r.Key.FromID, r.Key.ToID, err)
		return fallbackCost(r.Key, r.From, r.To, "transit provider unavailable after retries")
	}
	c.breaker.RecordSuccess()

	cost := model.SegmentCost{
		Key:             r.Key,
		DurationMinutes: res.TotalDurationMin,
		DistanceMeters:  res.TotalDistanceM,
		Polyline:        res.Polyline,
	}
	if res.TransferCount > 0 {
		tc := res.TransferCount
		cost.Transfers = &tc
	}
	if res.Details != nil {
		cost.TransitDetails = c.postProcessTransit(ctx, res.Details, r.From, r.To)
	}
	return cost
}

func (c *Client) retryWalk(ctx context.Context, from, to model.LatLng) (*WalkResult, error) {
	var res *WalkResult
	op := func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
		r, err := c.walker.Walk(callCtx, from, to)
		if err != nil {
			return err
		}
		if r == nil {
			return ErrNoRoute
		}
		res = r
		return nil
	}
	err := backoff.Retry(op, c.retryPolicy(ctx))
	return res, err
}

func (c *Client) retryTransit(ctx context.Context, from, to model.LatLng) (*TransitResult, error) {
	var res *TransitResult
	op := func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
		r, err := c.transit.Transit(callCtx, from, to)
		if err != nil {
			return err
		}
		if r == nil {
			return ErrNoRoute
		}
		res = r
		return nil
	}
	err := backoff.Retry(op, c.retryPolicy(ctx))
	return res, err
}

// retryPolicy implements spec §4.7 "Retry": up to retryCount retries with
// backoff base*2^attempt, expressed via cenkalti/backoff's exponential
// backoff with a capped number of retries and the process-wide base.
func (c *Client) retryPolicy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.backoffBase
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.retryCount)), ctx)
}

// postProcessTransit implements spec §4.7 "Post-processing": walking
// subpaths lacking stop coordinates inherit from adjacent non-walking
// subpaths; the first/last subpath's endpoints fall back to the request's
// origin/destination; inner walking subpaths may be best-effort enriched
// with a polyline. Enrichment only runs on walking subpaths whose start and
// end are both known, so the recoverEndpoints pass that follows it leaves
// those coordinates as they are.
func (c *Client) postProcessTransit(ctx context.Context, details *TransitDetailsRaw, origin, destination model.LatLng) *model.TransitDetails {
	subPaths := make([]model.SubPath, len(details.SubPaths))
	for i, sp := range details.SubPaths {
		subPaths[i] = model.SubPath{
			TrafficType:    model.TrafficType(sp.TrafficType),
			DistanceMeters: sp.DistanceM,
			SectionMinutes: sp.SectionMin,
			StartCoord:     sp.StartCoord,
			EndCoord:       sp.EndCoord,
			StationCount:   sp.StationCount,
			Lane:           sp.Lane,
			Way:            sp.Way,
		}
	}

	for i := range subPaths {
		if subPaths[i].StartCoord == nil && subPaths[i].TrafficType == model.TrafficWalk && i > 0 {
			subPaths[i].StartCoord = subPaths[i-1].EndCoord
		}
		if subPaths[i].EndCoord == nil && subPaths[i].TrafficType == model.TrafficWalk && i+1 < len(subPaths) {
			subPaths[i].EndCoord = subPaths[i+1].StartCoord
		}
	}
	if len(subPaths) > 0 {
		if subPaths[0].StartCoord == nil {
			subPaths[0].StartCoord = &origin
		}
		last := len(subPaths) - 1
		if subPaths[last].EndCoord == nil {
			subPaths[last].EndCoord = &destination
		}
	}

	for i := range subPaths {
		if subPaths[i].TrafficType != model.TrafficWalk {
			continue
		}
		if subPaths[i].StartCoord == nil || subPaths[i].EndCoord == nil {
			continue
		}
		enriched, err := c.retryWalk(ctx, *subPaths[i].StartCoord, *subPaths[i].EndCoord)
		if err != nil || enriched == nil {
			continue // best-effort; failures are silent per spec §4.7
		}
		subPaths[i].Polyline = enriched.Polyline
		recoverEndpoints(&subPaths[i])
	}

	return &model.TransitDetails{
		TotalFare: details.TotalFare,
		Transfers: details.TransferCount,
		SubPaths:  subPaths,
	}
}

// recoverEndpoints fills in start/end coordinates from an encoded polyline
// when a subpath carries one but lacks explicit endpoint coordinates.
func recoverEndpoints(sp *model.SubPath) {
	if sp.Polyline == "" || (sp.StartCoord != nil && sp.EndCoord != nil) {
		return
	}
	coords, _, err := polyline.DecodeCoords([]byte(sp.Polyline))
	if err != nil || len(coords) == 0 {
		return
	}
	if sp.StartCoord == nil {
		first := model.LatLng{Lat: coords[0][0], Lng: coords[0][1]}
		sp.StartCoord = &first
	}
	if sp.EndCoord == nil {
		last := coords[len(coords)-1]
		end := model.LatLng{Lat: last[0], Lng: last[1]}
		sp.EndCoord = &end
	}
}

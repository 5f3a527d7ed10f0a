package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tripforge/planner/internal/model"
)

// HTTPProvider calls the black-box walking/transit routing endpoints over
// HTTP (spec §1 "Out of scope": routing providers are invoked only through
// their interfaces). Request/response shaping follows the client.Do +
// io.ReadAll + json.Unmarshal pattern the example pack's Cabeda-porto-realtime
// worker uses for its own outbound fetches (worker/collector.go's FIWARE client).
type HTTPProvider struct {
	Client     *http.Client
	WalkURL    string
	TransitURL string
	UserAgent  string
}

type walkWireResponse struct {
	TotalDurationMin float64 `json:"totalDurationMin"`
	TotalDistanceM   float64 `json:"totalDistanceM"`
	Polyline         string  `json:"polyline"`
}

type transitWireResponse struct {
	TotalDurationMin float64             `json:"totalDurationMin"`
	TotalDistanceM   float64             `json:"totalDistanceM"`
	TransferCount    int                 `json:"transferCount"`
	Polyline         string              `json:"polyline"`
	Details          *transitWireDetails `json:"details"`
}

type transitWireDetails struct {
	TotalFare       int                  `json:"totalFare"`
	TransferCount   int                  `json:"transferCount"`
	WalkingTimeMin  float64              `json:"walkingTimeMin"`
	WalkingDistance float64              `json:"walkingDistance"`
	SubPaths        []transitWireSubPath `json:"subPaths"`
}

type transitWireSubPath struct {
	TrafficType  int           `json:"trafficType"`
	DistanceM    float64       `json:"distance"`
	SectionMin   float64       `json:"sectionTime"`
	StartCoord   *model.LatLng `json:"startCoord"`
	EndCoord     *model.LatLng `json:"endCoord"`
	StationCount int           `json:"stationCount"`
	Lane         string        `json:"lane"`
	Way          string        `json:"way"`
}

// Walk implements WalkingProvider against WalkURL. A "no route" response is
// communicated by the server returning 404, mapped to (nil, nil).
func (p *HTTPProvider) Walk(ctx context.Context, from, to model.LatLng) (*WalkResult, error) {
	var wire walkWireResponse
	ok, err := p.fetch(ctx, p.WalkURL, from, to, &wire)
	if err != nil || !ok {
		return nil, err
	}
	return &WalkResult{
		TotalDurationMin: wire.TotalDurationMin,
		TotalDistanceM:   wire.TotalDistanceM,
		Polyline:         wire.Polyline,
	}, nil
}

// Transit implements TransitProvider against TransitURL.
func (p *HTTPProvider) Transit(ctx context.Context, from, to model.LatLng) (*TransitResult, error) {
	var wire transitWireResponse
	ok, err := p.fetch(ctx, p.TransitURL, from, to, &wire)
	if err != nil || !ok {
		return nil, err
	}
	res := &TransitResult{
		TotalDurationMin: wire.TotalDurationMin,
		TotalDistanceM:   wire.TotalDistanceM,
		TransferCount:    wire.TransferCount,
		Polyline:         wire.Polyline,
	}
	if wire.Details != nil {
		res.Details = &TransitDetailsRaw{
			TotalFare:       wire.Details.TotalFare,
			TransferCount:   wire.Details.TransferCount,
			WalkingTimeMin:  wire.Details.WalkingTimeMin,
			WalkingDistance: wire.Details.WalkingDistance,
		}
		for _, sp := range wire.Details.SubPaths {
			res.Details.SubPaths = append(res.Details.SubPaths, SubPathRaw{
				TrafficType:  sp.TrafficType,
				DistanceM:    sp.DistanceM,
				SectionMin:   sp.SectionMin,
				StartCoord:   sp.StartCoord,
				EndCoord:     sp.EndCoord,
				StationCount: sp.StationCount,
				Lane:         sp.Lane,
				Way:          sp.Way,
			})
		}
	}
	return res, nil
}

func (p *HTTPProvider) fetch(ctx context.Context, baseURL string, from, to model.LatLng, out interface{}) (bool, error) {
	url := fmt.Sprintf("%s?fromLat=%f&fromLng=%f&toLat=%f&toLng=%f", baseURL, from.Lat, from.Lng, to.Lat, to.Lng)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("routing: build request: %w", err)
	}
	req.Header.Set("User-Agent", p.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return false, fmt.Errorf("routing: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("routing: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("routing: read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, fmt.Errorf("routing: parse response: %w", err)
	}
	return true, nil
}

package enrich

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"time"
)

// Geocoder resolves an address to coordinates. Implementations must
// return (nil, nil) on any failure — rate limits, bad status, empty
// results — so the pipeline keeps going with null coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng *float64)
}

const defaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleGeocoder calls the Google Maps geocoding endpoint.
type GoogleGeocoder struct {
	APIKey  string
	BaseURL string // override in tests
	hc      *http.Client
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		APIKey:  apiKey,
		BaseURL: defaultGeocodeURL,
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (*float64, *float64) {
	if address == "" || g.APIKey == "" {
		return nil, nil
	}

	base := g.BaseURL
	if base == "" {
		base = defaultGeocodeURL
	}
	u := base + "?address=" + url.QueryEscape(address) + "&key=" + url.QueryEscape(g.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, nil
	}

	hc := g.hc
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		log.Printf("[geocode] request failed addr=%q err=%v", address, err)
		return nil, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("[geocode] status %d addr=%q", resp.StatusCode, address)
		return nil, nil
	}

	var body struct {
		Status  string `json:"status"`
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, nil
	}
	// OVER_QUERY_LIMIT, ZERO_RESULTS etc. all look the same up here
	if body.Status != "OK" || len(body.Results) == 0 {
		return nil, nil
	}

	loc := body.Results[0].Geometry.Location
	return &loc.Lat, &loc.Lng
}

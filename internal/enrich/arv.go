package enrich

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"time"
)

// ARVEstimator returns an estimated after-repair value for a location,
// or nil when no comparables are available. Zero is a legitimate
// average, never a sentinel.
type ARVEstimator interface {
	EstimateARV(ctx context.Context, location string) *int64
}

const defaultCompsURL = "https://zillow-com1.p.rapidapi.com/propertyExtendedSearch"

// CompsEstimator averages recently-sold comparable prices from a
// RapidAPI comps search endpoint. No caching; callers wanting a cache
// put one in front.
type CompsEstimator struct {
	APIKey    string
	BaseURL   string // override in tests
	MaxComps  int    // 0 means default 10
	hc        *http.Client
	RapidHost string
}

func NewCompsEstimator(apiKey string) *CompsEstimator {
	return &CompsEstimator{
		APIKey:    apiKey,
		BaseURL:   defaultCompsURL,
		MaxComps:  10,
		RapidHost: "zillow-com1.p.rapidapi.com",
		hc:        &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *CompsEstimator) EstimateARV(ctx context.Context, location string) *int64 {
	if location == "" || c.APIKey == "" {
		return nil
	}

	base := c.BaseURL
	if base == "" {
		base = defaultCompsURL
	}
	u := base + "?location=" + url.QueryEscape(location) + "&status_type=RecentlySold"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("X-RapidAPI-Key", c.APIKey)
	if c.RapidHost != "" {
		req.Header.Set("X-RapidAPI-Host", c.RapidHost)
	}

	hc := c.hc
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		log.Printf("[arv] request failed loc=%q err=%v", location, err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("[arv] status %d loc=%q", resp.StatusCode, location)
		return nil
	}

	var body struct {
		Props []struct {
			Price float64 `json:"price"`
		} `json:"props"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil
	}
	if len(body.Props) == 0 {
		return nil
	}

	max := c.MaxComps
	if max <= 0 {
		max = 10
	}

	var sum float64
	n := 0
	for _, p := range body.Props {
		if n >= max {
			break
		}
		sum += p.Price
		n++
	}
	if n == 0 {
		return nil
	}
	avg := int64(sum / float64(n))
	return &avg
}

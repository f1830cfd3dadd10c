package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"leadengine/internal/config"
	"leadengine/internal/domain"
	"leadengine/internal/lead"
	"leadengine/internal/scrape/types"
	"leadengine/internal/scrape/util"
)

const rapidHost = "facebook-marketplace1.p.rapidapi.com"

// Scraper queries the facebook-marketplace1 RapidAPI search endpoint
// for property listings in the configured city.
type Scraper struct {
	cfg     config.FacebookSource
	apiKey  string
	limiter *util.HostLimiter
	hc      *http.Client
	baseURL string // override in tests
}

func New(cfg config.FacebookSource, apiKey string, limiter *util.HostLimiter) *Scraper {
	return &Scraper{
		cfg:     cfg,
		apiKey:  apiKey,
		limiter: limiter,
		hc:      &http.Client{Timeout: 20 * time.Second},
	}
}

func (s *Scraper) Name() string { return "facebook" }

type searchResponse struct {
	Listings []struct {
		Title     string `json:"marketplace_listing_title"`
		Price     struct {
			AmountWithOffset string `json:"amount_with_offset_in_currency"`
			Formatted        string `json:"formatted_amount"`
		} `json:"listing_price"`
		Permalink string `json:"permalink"`
	} `json:"listings"`
}

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: "facebook"}
	if s.apiKey == "" {
		return res, fmt.Errorf("facebook: rapidapi key not set")
	}

	base := s.baseURL
	host := rapidHost
	if base == "" {
		base = "https://" + rapidHost + "/search"
	} else if u, err := url.Parse(base); err == nil {
		host = u.Host
	}

	days := s.cfg.DaysSinceListed
	if days <= 0 {
		days = 7
	}

	q := url.Values{}
	q.Set("query", "house for sale")
	q.Set("city", s.cfg.City)
	q.Set("daysSinceListed", fmt.Sprint(days))
	reqURL := base + "?" + q.Encode()

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, reqURL); err != nil {
			return res, err
		}
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	req.Header.Set("X-RapidAPI-Key", s.apiKey)
	req.Header.Set("X-RapidAPI-Host", host)

	resp, err := s.hc.Do(req)
	if err != nil {
		return res, fmt.Errorf("facebook search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return res, fmt.Errorf("facebook search status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return res, fmt.Errorf("facebook decode: %w", err)
	}

	now := time.Now().UTC()
	for _, l := range body.Listings {
		title := lead.NormalizeAddress(l.Title)
		if title == "" {
			continue
		}

		price := lead.ParsePrice(l.Price.Formatted)
		if price == nil {
			// amount_with_offset is cents as a string
			if cents := lead.ParsePrice(l.Price.AmountWithOffset); cents != nil {
				v := *cents / 100
				price = &v
			}
		}

		res.Leads = append(res.Leads, domain.Lead{
			Title:       title,
			Link:        l.Permalink,
			Description: "Facebook Marketplace listing",
			City:        s.cfg.City,
			Price:       price,
			Source:      "facebook",
			CreatedAt:   now,
		})
	}

	return res, nil
}

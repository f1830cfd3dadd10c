package zillowfsbo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"leadengine/internal/config"
	"leadengine/internal/domain"
	"leadengine/internal/lead"
	"leadengine/internal/scrape/types"
	"leadengine/internal/scrape/util"
)

const rapidHost = "zillow-com1.p.rapidapi.com"

// Scraper pulls for-sale-by-owner listings from the zillow-com1
// RapidAPI propertyExtendedSearch endpoint.
type Scraper struct {
	cfg     config.ZillowSource
	apiKey  string
	limiter *util.HostLimiter
	hc      *http.Client
	baseURL string // override in tests
}

func New(cfg config.ZillowSource, apiKey string, limiter *util.HostLimiter) *Scraper {
	return &Scraper{
		cfg:     cfg,
		apiKey:  apiKey,
		limiter: limiter,
		hc:      &http.Client{Timeout: 20 * time.Second},
	}
}

func (s *Scraper) Name() string { return "zillow_fsbo" }

type searchResponse struct {
	Props []struct {
		AddressStreet  string   `json:"addressStreet"`
		AddressCity    string   `json:"addressCity"`
		AddressState   string   `json:"addressState"`
		AddressZipcode string   `json:"addressZipcode"`
		Address        string   `json:"address"`
		Price          *float64 `json:"price"`
		Bedrooms       *float64 `json:"bedrooms"`
		Bathrooms      *float64 `json:"bathrooms"`
		LivingArea     *float64 `json:"livingArea"`
		Latitude       *float64 `json:"latitude"`
		Longitude      *float64 `json:"longitude"`
		DetailURL      string   `json:"detailUrl"`
		Zpid           json.Number `json:"zpid"`
	} `json:"props"`
}

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: "zillow_fsbo"}
	if s.apiKey == "" {
		return res, fmt.Errorf("zillow: rapidapi key not set")
	}

	location := s.cfg.Location
	if s.cfg.Zip != "" {
		location = s.cfg.Zip
	}

	base := s.baseURL
	host := rapidHost
	if base == "" {
		base = "https://" + rapidHost + "/propertyExtendedSearch"
	} else if u, err := url.Parse(base); err == nil {
		host = u.Host
	}

	q := url.Values{}
	q.Set("location", location)
	q.Set("listing_type", "by_owner")
	q.Set("status_type", "ForSale")
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
		return res, fmt.Errorf("zillow search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return res, fmt.Errorf("zillow search status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return res, fmt.Errorf("zillow decode: %w", err)
	}

	limit := s.cfg.Limit
	if limit <= 0 {
		limit = 25
	}

	now := time.Now().UTC()
	for _, p := range body.Props {
		if len(res.Leads) >= limit {
			break
		}
		street := lead.NormalizeAddress(p.AddressStreet)
		if street == "" {
			street = lead.NormalizeAddress(p.Address)
		}
		if street == "" {
			continue
		}

		link := p.DetailURL
		if link != "" && strings.HasPrefix(link, "/") {
			link = "https://www.zillow.com" + link
		}

		var desc []string
		if p.Bedrooms != nil {
			desc = append(desc, fmt.Sprintf("%.0f bd", *p.Bedrooms))
		}
		if p.Bathrooms != nil {
			desc = append(desc, fmt.Sprintf("%.1f ba", *p.Bathrooms))
		}
		if p.LivingArea != nil {
			desc = append(desc, fmt.Sprintf("%.0f sqft", *p.LivingArea))
		}

		res.Leads = append(res.Leads, domain.Lead{
			Title:       street,
			Link:        link,
			Description: strings.Join(desc, ", "),
			City:        p.AddressCity,
			State:       p.AddressState,
			Zip:         p.AddressZipcode,
			Price:       priceFromFloatPtr(p.Price),
			Latitude:    p.Latitude,
			Longitude:   p.Longitude,
			Source:      "zillow_fsbo",
			CreatedAt:   now,
		})
	}

	return res, nil
}

func priceFromFloatPtr(f *float64) *int64 {
	if f == nil || *f <= 0 {
		return nil
	}
	v := int64(*f)
	return &v
}

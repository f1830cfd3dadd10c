package craigslist

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"leadengine/internal/config"
	"leadengine/internal/domain"
	"leadengine/internal/lead"
	"leadengine/internal/scrape/types"
	"leadengine/internal/scrape/util"
)

// Scraper walks the regional real-estate search page
// (https://<region>.craigslist.org/search/rea) and lifts title, link,
// price, and posting time off each result row.
type Scraper struct {
	cfg     config.CraigslistSource
	limiter *util.HostLimiter
	hc      *http.Client
	baseURL string // override in tests
}

func New(cfg config.CraigslistSource, limiter *util.HostLimiter) *Scraper {
	return &Scraper{
		cfg:     cfg,
		limiter: limiter,
		hc:      &http.Client{Timeout: 20 * time.Second},
	}
}

func (s *Scraper) Name() string { return "craigslist" }

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: "craigslist"}

	searchURL := s.baseURL
	if searchURL == "" {
		searchURL = fmt.Sprintf("https://%s.craigslist.org/search/rea?sort=date&hasPic=1", s.cfg.Region)
	}

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, searchURL); err != nil {
			return res, err
		}
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.hc.Do(req)
	if err != nil {
		return res, fmt.Errorf("craigslist get search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return res, fmt.Errorf("craigslist search status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return res, fmt.Errorf("craigslist parse html: %w", err)
	}

	limit := s.cfg.Limit
	if limit <= 0 {
		limit = 25
	}

	now := time.Now().UTC()
	doc.Find("li.result-row").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if len(res.Leads) >= limit {
			return false
		}

		titleEl := row.Find("a.result-title").First()
		title := lead.NormalizeAddress(titleEl.Text())
		if title == "" {
			return true
		}
		link, _ := titleEl.Attr("href")
		link = strings.TrimSpace(link)

		var posted *time.Time
		if dt, ok := row.Find("time").First().Attr("datetime"); ok {
			if t, err := time.Parse("2006-01-02 15:04", dt); err == nil {
				posted = &t
			} else if t, err := time.Parse(time.RFC3339, dt); err == nil {
				posted = &t
			}
		}

		price := lead.ParsePrice(util.CleanText(row.Find("span.result-price").First().Text()))

		res.Leads = append(res.Leads, domain.Lead{
			Title:       title,
			Link:        link,
			Description: "Craigslist link: " + link,
			City:        s.cfg.City,
			State:       s.cfg.State,
			Price:       price,
			Source:      "craigslist",
			DatePosted:  posted,
			CreatedAt:   now,
		})
		return true
	})

	return res, nil
}

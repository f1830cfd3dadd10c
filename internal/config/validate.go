package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus everything a UI
// should show the user before saving.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Filters.ZipsAllow = trimList(out.Filters.ZipsAllow)
	out.Filters.ZipsBlock = trimList(out.Filters.ZipsBlock)
	out.Filters.CitiesBlock = trimList(out.Filters.CitiesBlock)
	out.Scoring.HotWords = trimList(out.Scoring.HotWords)

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Polling.ScrapeMinutes <= 0 {
		res.addErr("polling.scrape_minutes must be > 0")
	} else if out.Polling.ScrapeMinutes < 5 {
		res.addWarn("polling.scrape_minutes is very low (%d) and may trip source rate limits.", out.Polling.ScrapeMinutes)
	}
	if out.Polling.MaxLeadAgeDays < 0 {
		res.addErr("polling.max_lead_age_days must be >= 0 (0 disables cleanup)")
	}

	switch out.Scoring.Policy {
	case "", "threshold":
		out.Scoring.Policy = "threshold"
		if out.Scoring.MinEquityRatio < 0 || out.Scoring.MinEquityRatio > 1 {
			res.addErr("scoring.min_equity_ratio must be within 0..1")
		}
		if out.Scoring.MinARV < 0 {
			res.addErr("scoring.min_arv must be >= 0")
		}
		if out.Scoring.MinEquity < 0 {
			res.addErr("scoring.min_equity must be >= 0")
		}
	case "price_ceiling":
		if out.Scoring.PriceCeiling <= 0 {
			res.addErr("scoring.price_ceiling must be > 0 for the price_ceiling policy")
		}
	case "keyword":
		if len(out.Scoring.HotWords) == 0 {
			res.addErr("scoring.hot_words must have at least 1 term for the keyword policy")
		}
	default:
		res.addErr("scoring.policy must be threshold, price_ceiling, or keyword (got %q)", out.Scoring.Policy)
	}

	if out.Sources.Craigslist.Enabled && strings.TrimSpace(out.Sources.Craigslist.Region) == "" {
		res.addErr("sources.craigslist.region is required when craigslist is enabled")
	}
	if out.Sources.ZillowFSBO.Enabled &&
		strings.TrimSpace(out.Sources.ZillowFSBO.Location) == "" &&
		strings.TrimSpace(out.Sources.ZillowFSBO.Zip) == "" {
		res.addErr("sources.zillow_fsbo needs a location or zip when enabled")
	}
	if out.Sources.Facebook.Enabled && strings.TrimSpace(out.Sources.Facebook.City) == "" {
		res.addErr("sources.facebook.city is required when facebook is enabled")
	}

	if out.Enrichment.CompsLimit < 0 {
		res.addErr("enrichment.comps_limit must be >= 0")
	} else if out.Enrichment.CompsLimit > 50 {
		res.addWarn("enrichment.comps_limit of %d is high; comps services rarely return that many.", out.Enrichment.CompsLimit)
	}

	// simple conflict check
	blockSet := map[string]bool{}
	for _, b := range out.Filters.ZipsBlock {
		blockSet[strings.ToLower(b)] = true
	}
	for _, a := range out.Filters.ZipsAllow {
		if blockSet[strings.ToLower(a)] {
			res.addWarn("zip appears in both allow and block: %q", a)
		}
	}

	return out, res
}

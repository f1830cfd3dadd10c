package scrape

import (
	"strings"

	"leadengine/internal/config"
	"leadengine/internal/domain"
)

// KeepLead applies the configured geography filters. An allow-list on
// zips wins over everything else; block lists drop matches.
func KeepLead(cfg config.Config, l domain.Lead) bool {
	zip := strings.TrimSpace(l.Zip)
	city := strings.ToLower(strings.TrimSpace(l.City))

	if len(cfg.Filters.ZipsAllow) > 0 {
		if zip == "" {
			// no zip on the lead; keep it rather than silently
			// dropping craigslist rows that never carry one
			return true
		}
		for _, z := range cfg.Filters.ZipsAllow {
			if zip == strings.TrimSpace(z) {
				return true
			}
		}
		return false
	}

	for _, z := range cfg.Filters.ZipsBlock {
		if zip != "" && zip == strings.TrimSpace(z) {
			return false
		}
	}
	for _, c := range cfg.Filters.CitiesBlock {
		if city != "" && city == strings.ToLower(strings.TrimSpace(c)) {
			return false
		}
	}
	return true
}

package enrich

import (
	"context"
	"fmt"

	"leadengine/internal/domain"
)

// Enricher runs geocoding then ARV lookup over a lead in place. Either
// adapter may be nil (disabled in config), and either may come back
// empty — both are "enrichment unavailable", never fatal.
type Enricher struct {
	Geocoder  Geocoder
	Estimator ARVEstimator
}

func (e Enricher) Enrich(ctx context.Context, l *domain.Lead) {
	if e.Geocoder != nil && l.Latitude == nil {
		lat, lng := e.Geocoder.Geocode(ctx, l.FullAddress())
		l.Latitude, l.Longitude = lat, lng
	}

	if e.Estimator != nil && l.ARV == nil {
		loc := compsLocation(l)
		if loc != "" {
			l.ARV = e.Estimator.EstimateARV(ctx, loc)
		}
	}
}

// compsLocation prefers coordinates, falling back to city/state text.
func compsLocation(l *domain.Lead) string {
	if l.Latitude != nil && l.Longitude != nil {
		return fmt.Sprintf("%f,%f", *l.Latitude, *l.Longitude)
	}
	if l.City != "" && l.State != "" {
		return l.City + ", " + l.State
	}
	if l.Zip != "" {
		return l.Zip
	}
	return ""
}

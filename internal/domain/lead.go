package domain

import "time"

// Lead is the canonical record every source shape is mapped into
// before it enters the pipeline.
type Lead struct {
	Title       string // listing title or street address
	Link        string // source URL; preferred dedupe key when present
	Description string

	City  string
	State string
	Zip   string

	Price     *int64
	Latitude  *float64
	Longitude *float64
	ARV       *int64
	Equity    *int64

	HotLead    bool
	Score      float64
	Motivation []string

	Source     string // craigslist/zillow_fsbo/facebook/csv_upload
	DatePosted *time.Time
	CreatedAt  time.Time
}

// FullAddress joins the address parts into the string handed to the
// geocoder. Missing parts are simply skipped.
func (l Lead) FullAddress() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{l.Title, l.City, l.State, l.Zip} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

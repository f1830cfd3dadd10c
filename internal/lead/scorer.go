package lead

import "strings"

// MotivationVocabulary is the fixed tag vocabulary matched against a
// lead's free text. Results always come back in this order.
var MotivationVocabulary = []string{"vacant", "divorce", "fire", "urgent"}

// Policy picks which hot-lead rule applies. The sources never agreed
// on one, so the rule is injected instead of hard-coded.
type Policy string

const (
	PolicyThreshold    Policy = "threshold"
	PolicyPriceCeiling Policy = "price_ceiling"
	PolicyKeyword      Policy = "keyword"
)

// Thresholds are the knobs of the combined threshold rule and its
// simpler variants.
type Thresholds struct {
	MinEquityRatio float64  // equity/arv, e.g. 0.25
	MinARV         int64    // e.g. 100000
	MinEquity      int64    // e.g. 30000
	PriceCeiling   int64    // price_ceiling policy only
	HotWords       []string // keyword policy only
}

// Result is everything the scorer derives from one lead.
type Result struct {
	Equity     *int64
	HotLead    bool
	Score      float64
	Motivation []string
}

// Scorer computes equity, the hot-lead flag, the numeric score, and
// motivation tags. Pure: no I/O, deterministic.
type Scorer struct {
	Policy     Policy
	Thresholds Thresholds
}

func (s Scorer) Score(price, arv *int64, text string) Result {
	var r Result

	if price != nil && arv != nil {
		eq := *arv - *price
		r.Equity = &eq
	}

	r.HotLead = s.hot(price, arv, r.Equity, text)

	// score = (equity/arv)*100 + arv/1000, guarded against arv <= 0
	if arv != nil && *arv > 0 && r.Equity != nil && *r.Equity > 0 {
		r.Score = (float64(*r.Equity)/float64(*arv))*100 + float64(*arv)/1000
	}

	r.Motivation = MotivationTags(text)
	return r
}

func (s Scorer) hot(price, arv, equity *int64, text string) bool {
	switch s.Policy {
	case PolicyPriceCeiling:
		return price != nil && *price <= s.Thresholds.PriceCeiling
	case PolicyKeyword:
		low := strings.ToLower(text)
		for _, w := range s.Thresholds.HotWords {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" && strings.Contains(low, w) {
				return true
			}
		}
		return false
	default: // threshold
		if equity == nil || arv == nil || *arv <= 0 {
			return false
		}
		return float64(*equity)/float64(*arv) >= s.Thresholds.MinEquityRatio &&
			*arv >= s.Thresholds.MinARV &&
			*equity >= s.Thresholds.MinEquity
	}
}

// MotivationTags matches text against the vocabulary, case-insensitive,
// returning hits in vocabulary order.
func MotivationTags(text string) []string {
	if text == "" {
		return nil
	}
	low := strings.ToLower(text)
	var tags []string
	for _, w := range MotivationVocabulary {
		if strings.Contains(low, w) {
			tags = append(tags, w)
		}
	}
	return tags
}

// DefaultThresholds matches the dominant rule across the sources.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinEquityRatio: 0.25,
		MinARV:         100000,
		MinEquity:      30000,
		PriceCeiling:   150000,
		HotWords: []string{
			"motivated", "cash", "as-is", "urgent",
			"must sell", "investor", "fast", "cheap",
		},
	}
}

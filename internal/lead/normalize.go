package lead

import "strings"

// NormalizeAddress cleans a raw address/title string: trims, collapses
// whitespace runs (including non-breaking spaces), and strips trailing
// punctuation. Case is preserved; callers needing a dedupe key must
// lowercase the result themselves. Idempotent.
func NormalizeAddress(raw string) string {
	s := strings.ReplaceAll(raw, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimRight(s, ".,;:!- ")
	return s
}

// DedupeKey returns the natural key for a candidate: the link when
// non-empty, else the normalized title lowercased.
func DedupeKey(title, link string) string {
	if l := strings.TrimSpace(link); l != "" {
		return l
	}
	return strings.ToLower(NormalizeAddress(title))
}

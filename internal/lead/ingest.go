package lead

import "leadengine/internal/domain"

// Ingest filters candidates against the known-key set and returns only
// new leads, preserving candidate order. Duplicates within the batch
// itself are also dropped (first one wins). existingKeys is never
// mutated; the caller refreshes it from the store after persisting.
func Ingest(candidates []domain.Lead, existingKeys map[string]struct{}) []domain.Lead {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]domain.Lead, 0, len(candidates))

	for _, c := range candidates {
		key := DedupeKey(c.Title, c.Link)
		if key == "" {
			continue
		}
		if _, ok := existingKeys[key]; ok {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

package dedupe

import "jobsearch-engine/internal/domain"

// Postings collapses repeated postings by canonical URL. The first
// occurrence wins and the relative order of survivors is preserved.
//
// Postings without a URL are always kept: an empty key identifies nothing,
// so merging such records would collapse unrelated jobs. Known gap carried
// over from the original behavior.
func Postings(in []domain.Posting) []domain.Posting {
	seen := make(map[string]bool, len(in))
	out := make([]domain.Posting, 0, len(in))
	for _, p := range in {
		key := p.CanonicalURL()
		if key != "" {
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, p)
	}
	return out
}

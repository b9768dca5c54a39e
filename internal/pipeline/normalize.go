package pipeline

import (
	"strings"
	"time"

	"jobsearch-engine/internal/domain"
	"jobsearch-engine/internal/recency"
)

// Normalize turns a provider's raw records into the canonical posting
// shape, resolving recency text against ref. Unresolvable text leaves
// PostedAt nil; the filter decides what that means.
func Normalize(raw []domain.RawPosting, ref time.Time) []domain.Posting {
	out := make([]domain.Posting, 0, len(raw))
	for _, r := range raw {
		p := domain.Posting{
			Title:       strings.TrimSpace(r.Title),
			Company:     strings.TrimSpace(r.Company),
			Location:    strings.TrimSpace(r.Location),
			PostedRaw:   strings.TrimSpace(r.PostedRaw),
			Description: r.Description,
			URL:         strings.TrimSpace(r.URL),
			JobType:     strings.TrimSpace(r.JobType),
			Salary:      strings.TrimSpace(r.Salary),
			Source:      r.Source,
		}
		if t, ok := recency.Normalize(p.PostedRaw, ref); ok {
			p.PostedAt = &t
		}
		out = append(out, p)
	}
	return out
}

package pipeline

import (
	"context"

	"jobsearch-engine/internal/domain"
)

// Provider is one upstream source of raw postings. Implementations keep
// their own calls sequential and rate-limited; new upstreams slot in
// without touching the pipeline.
type Provider interface {
	Name() string
	Search(ctx context.Context, crit domain.Criteria) ([]domain.RawPosting, error)
}

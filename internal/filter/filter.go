package filter

import (
	"strings"
	"time"

	"jobsearch-engine/internal/domain"
)

// UnknownPolicy decides what happens to postings whose recency text could
// not be resolved. The two originating script variants disagreed; the
// policy is explicit here so the two behaviors are never mixed silently.
type UnknownPolicy int

const (
	// UnknownExclude drops postings with an unresolved date. Default.
	UnknownExclude UnknownPolicy = iota
	// UnknownAssumeRecent keeps them; only sensible when the query itself
	// already carried an absolute cutoff date.
	UnknownAssumeRecent
)

type Options struct {
	Ref      time.Time
	Window   time.Duration
	Keywords []string // job-type/keyword inclusion terms; empty means no filtering
	Unknown  UnknownPolicy
}

// Apply runs the recency-window and keyword predicates over postings,
// preserving order. Input records are never mutated.
func Apply(in []domain.Posting, opt Options) []domain.Posting {
	out := make([]domain.Posting, 0, len(in))
	for _, p := range in {
		if keep, _ := Keep(p, opt); keep {
			out = append(out, p)
		}
	}
	return out
}

// Keep reports whether one posting passes, with a reason when it does not.
func Keep(p domain.Posting, opt Options) (bool, string) {
	if !passesWindow(p, opt) {
		return false, "window"
	}
	if !matchesKeywords(p, opt.Keywords) {
		return false, "no_keyword_match"
	}
	return true, ""
}

func passesWindow(p domain.Posting, opt Options) bool {
	if p.PostedAt == nil {
		return opt.Unknown == UnknownAssumeRecent
	}
	cutoff := opt.Ref.Add(-opt.Window)
	// inclusive lower bound: exactly ref-window still passes
	return !p.PostedAt.Before(cutoff)
}

func matchesKeywords(p domain.Posting, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}

	desc := strings.ToLower(p.Description)
	jobType := strings.ToLower(p.JobType)

	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(desc, kw) || strings.Contains(jobType, kw) {
			return true
		}
	}
	return false
}

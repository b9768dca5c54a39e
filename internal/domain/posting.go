package domain

import (
	"strings"
	"time"
)

// RawPosting is what a provider adapter hands back before normalization.
// Every field is optional; adapters fill whatever the upstream exposed and
// leave the rest empty.
type RawPosting struct {
	Title       string
	Company     string
	Location    string
	PostedRaw   string // free text, e.g. "3 days ago"
	Description string
	URL         string
	JobType     string
	Salary      string
	Source      string // serp/board
}

// Posting is the canonical internal record. PostedAt is nil when the
// upstream recency text could not be resolved.
type Posting struct {
	Title       string
	Company     string
	Location    string
	PostedAt    *time.Time
	PostedRaw   string
	Description string
	URL         string
	JobType     string
	Salary      string
	Source      string
}

// CanonicalURL is the posting's deduplication identity: lower-cased and
// whitespace-trimmed. Empty means the posting cannot be identified.
func (p Posting) CanonicalURL() string {
	return CanonicalURL(p.URL)
}

func CanonicalURL(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

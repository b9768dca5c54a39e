package domain

import "time"

// Criteria is the immutable per-title search input. Built once from config
// for each job title, never mutated by the pipeline.
type Criteria struct {
	JobTitle string
	Keywords []string
	Regions  []string
	Sites    []string
	Window   time.Duration
	JobTypes []string  // job-type filter keywords; empty means no filtering
	Ref      time.Time // reference time for recency cutoffs; zero means now
}

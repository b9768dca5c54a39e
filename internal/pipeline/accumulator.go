package pipeline

import "jobsearch-engine/internal/domain"

// ResultSet folds the filtered output of every chunk/region/job-type
// combination for one job title. Unique by canonical URL across the whole
// run, insertion-ordered, first occurrence wins. Postings without a URL
// are kept as-is since an empty key identifies nothing.
type ResultSet struct {
	seen     map[string]bool
	postings []domain.Posting
}

func NewResultSet() *ResultSet {
	return &ResultSet{seen: make(map[string]bool)}
}

func (r *ResultSet) Add(postings ...domain.Posting) {
	for _, p := range postings {
		key := p.CanonicalURL()
		if key != "" {
			if r.seen[key] {
				continue
			}
			r.seen[key] = true
		}
		r.postings = append(r.postings, p)
	}
}

// HasResults gates artifact creation: an empty set produces no files.
func (r *ResultSet) HasResults() bool { return len(r.postings) > 0 }

func (r *ResultSet) Len() int { return len(r.postings) }

// Postings returns the ordered unique postings for the report writers.
func (r *ResultSet) Postings() []domain.Posting { return r.postings }

package pipeline

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"jobsearch-engine/internal/config"
	"jobsearch-engine/internal/dedupe"
	"jobsearch-engine/internal/domain"
	"jobsearch-engine/internal/filter"
	"jobsearch-engine/internal/report"
)

const providerTimeout = 5 * time.Minute

// Runner drives one full run: every job title in order, each title fanned
// out across the enabled providers, results filtered, deduplicated, and
// handed to the report writers. The workbook is an explicit accumulator
// owned by the run and saved after every title, so a crash on one title
// never corrupts what earlier titles already wrote.
type Runner struct {
	Cfg       config.Config
	Providers []Provider
	Workbook  *report.Workbook
	OutputDir string
	Unknown   filter.UnknownPolicy

	// Now is swapped out in tests
	Now func() time.Time
}

// Run processes the configured job titles sequentially. Cancellation is
// honored between titles; a cancelled run still reports how far it got.
func (r *Runner) Run(ctx context.Context) error {
	now := r.now()

	for _, title := range r.Cfg.Search.JobTitles {
		select {
		case <-ctx.Done():
			log.Printf("[run] aborted before %q: %v", title, ctx.Err())
			return ctx.Err()
		default:
		}

		log.Printf("[run] processing %q", title)
		rs := r.runTitle(ctx, title)

		if !rs.HasResults() {
			log.Printf("[run] %q: no results, skipping report files", title)
			continue
		}

		path, err := report.WriteText(r.OutputDir, title, rs.Postings(), now)
		if err != nil {
			log.Printf("[run] %q: text report failed: %v", title, err)
		} else {
			log.Printf("[run] %q: saved %d postings to %s", title, rs.Len(), path)
		}

		if r.Workbook != nil {
			if err := r.Workbook.AddSheet(title, rs.Postings()); err != nil {
				log.Printf("[run] %q: workbook sheet failed: %v", title, err)
				continue
			}
			if err := r.Workbook.Save(); err != nil {
				log.Printf("[run] %q: workbook save failed: %v", title, err)
			}
		}
	}

	return nil
}

// runTitle fans the title out across providers. Each provider stays
// strictly sequential and paced internally; only independent providers
// overlap, so per-provider request ordering is preserved.
func (r *Runner) runTitle(ctx context.Context, title string) *ResultSet {
	crit := r.Cfg.CriteriaFor(title)
	ref := r.now()
	crit.Ref = ref // query cutoff dates and the result filter share one clock

	collected := make([][]domain.RawPosting, len(r.Providers))

	var g errgroup.Group
	for i, p := range r.Providers {
		i, p := i, p
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, providerTimeout)
			defer cancel()

			raw, err := p.Search(pctx, crit)
			if err != nil {
				// best effort: keep partial results, never fail the title
				log.Printf("[%s] %q: %v", p.Name(), title, err)
			}
			collected[i] = raw
			return nil
		})
	}
	_ = g.Wait()

	opts := filter.Options{
		Ref:      ref,
		Window:   crit.Window,
		Keywords: crit.JobTypes,
		Unknown:  r.Unknown,
	}

	rs := NewResultSet()
	for i, raw := range collected {
		if len(raw) == 0 {
			continue
		}
		posts := Normalize(raw, ref)
		posts = filter.Apply(posts, opts)
		posts = dedupe.Postings(posts)
		log.Printf("[run] %q source=%s kept %d of %d", title, r.Providers[i].Name(), len(posts), len(raw))
		rs.Add(posts...)
	}
	return rs
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

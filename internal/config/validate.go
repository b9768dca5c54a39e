package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string
	Warnings []string
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a cleaned copy of cfg plus everything wrong
// with it. Errors abort the run; warnings are only logged.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Search.JobTitles = trimList(out.Search.JobTitles)
	out.Search.Keywords = trimList(out.Search.Keywords)
	out.Search.Regions = trimList(out.Search.Regions)
	out.Search.Sites = trimList(out.Search.Sites)
	out.Sources.Board.Regions = trimList(out.Sources.Board.Regions)

	// sites become site-scoped query terms, so only bare domains are usable
	var sites []string
	for _, s := range out.Search.Sites {
		if strings.Contains(s, "://") || strings.ContainsAny(s, " \t") || !strings.Contains(s, ".") {
			res.addWarn("search.sites: dropping %q (not a bare domain)", s)
			continue
		}
		sites = append(sites, s)
	}
	out.Search.Sites = sites

	// defaults for optional knobs
	if out.Search.ChunkSize == 0 {
		out.Search.ChunkSize = 50
	}
	if out.Search.DaysBack == 0 {
		out.Search.DaysBack = 7
	}
	if out.Sources.Serp.MaxPages == 0 {
		out.Sources.Serp.MaxPages = 3
	}
	if out.Sources.Serp.PageDelaySecs == 0 {
		out.Sources.Serp.PageDelaySecs = 2
	}
	if out.Sources.Serp.Engine == "" {
		out.Sources.Serp.Engine = "google_jobs"
	}
	if out.Sources.Serp.UnknownPosted == "" {
		out.Sources.Serp.UnknownPosted = "exclude"
	}
	if out.Retry.MaxAttempts == 0 {
		out.Retry.MaxAttempts = 5
	}
	if out.Retry.RateLimitBaseSecs == 0 {
		out.Retry.RateLimitBaseSecs = 5
	}
	if out.Retry.TransientBaseSecs == 0 {
		out.Retry.TransientBaseSecs = 3
	}

	// ---- Validation rules ----

	if len(out.Search.JobTitles) == 0 {
		res.addErr("search.job_titles must have at least one title")
	}
	if len(out.Search.Regions) == 0 && len(out.Search.Sites) == 0 {
		res.addErr("search.regions or search.sites must be non-empty")
	}
	if out.Search.ChunkSize < 0 {
		res.addErr("search.chunk_size must be > 0")
	}
	if out.Search.DaysBack < 0 {
		res.addErr("search.days_back must be > 0")
	}

	if !out.Sources.Serp.Enabled && !out.Sources.Board.Enabled {
		res.addErr("no sources enabled: enable sources.serp or sources.board")
	}

	switch out.Sources.Serp.Engine {
	case "google", "google_jobs":
	default:
		res.addErr("sources.serp.engine must be google or google_jobs, got %q", out.Sources.Serp.Engine)
	}
	switch out.Sources.Serp.UnknownPosted {
	case "exclude", "assume_recent":
	default:
		res.addErr("sources.serp.unknown_posted must be exclude or assume_recent, got %q", out.Sources.Serp.UnknownPosted)
	}

	if out.Sources.Board.Enabled {
		if strings.TrimSpace(out.Sources.Board.BaseURL) == "" {
			res.addErr("sources.board.base_url is required when the board source is enabled")
		}
		if len(out.Sources.Board.JobTypes) == 0 {
			res.addWarn("sources.board.job_types is empty; the board search may find nothing")
		}
		if out.Sources.Board.PostedHours <= 0 {
			res.addWarn("sources.board.posted_hours not set; defaulting to the search window")
		}
	}

	if out.Sources.Serp.PageDelaySecs < 1 {
		res.addWarn("sources.serp.page_delay_seconds is very low (%d) and may cause rate limits.", out.Sources.Serp.PageDelaySecs)
	}
	if len(out.Search.Sites) > 500 {
		res.addWarn("search.sites has %d entries; expect %d query chunks per title.",
			len(out.Search.Sites), (len(out.Search.Sites)+out.Search.ChunkSize-1)/out.Search.ChunkSize)
	}

	return out, res
}

package serp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobsearch-engine/internal/domain"
	"jobsearch-engine/internal/fetch"
	"jobsearch-engine/internal/plan"
	"jobsearch-engine/internal/report"
)

const (
	EngineGoogle     = "google"
	EngineGoogleJobs = "google_jobs"

	defaultBaseURL = "https://serpapi.com/search"
)

type Config struct {
	APIKey    string
	Engine    string // EngineGoogle or EngineGoogleJobs
	BaseURL   string // overridden in tests
	MaxPages  int
	ChunkSize int
}

// Client is the search-API provider adapter: it turns one planned chunk
// into a paginated upstream query and hands back raw postings.
type Client struct {
	cfg     Config
	hc      *http.Client
	pacer   *fetch.Pacer
	retry   fetch.Policy
	queries *report.QueryLog
}

func New(cfg Config, pacer *fetch.Pacer, retry fetch.Policy, queries *report.QueryLog) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Engine == "" {
		cfg.Engine = EngineGoogleJobs
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 3
	}
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 30 * time.Second},
		pacer:   pacer,
		retry:   retry,
		queries: queries,
	}
}

func (c *Client) Name() string { return "serp" }

type response struct {
	OrganicResults []organicResult `json:"organic_results"`
	JobsResults    []jobsResult    `json:"jobs_results"`
	Pagination     struct {
		NextPageToken string `json:"next_page_token"`
	} `json:"serpapi_pagination"`
}

type organicResult struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Source   string `json:"source"`
	Date     string `json:"date"`
	Location string `json:"location"`
	Address  struct {
		Locality string `json:"locality"`
	} `json:"address"`
}

type jobsResult struct {
	Title              string `json:"title"`
	CompanyName        string `json:"company_name"`
	Location           string `json:"location"`
	Description        string `json:"description"`
	Link               string `json:"link"`
	DetectedExtensions struct {
		PostedAt     string `json:"posted_at"`
		ScheduleType string `json:"schedule_type"`
		Salary       string `json:"salary"`
	} `json:"detected_extensions"`
	ApplyOptions []struct {
		Link string `json:"link"`
	} `json:"apply_options"`
}

// Search plans the title's site chunks and fetches each one sequentially,
// so the provider never sees concurrent calls from one run.
func (c *Client) Search(ctx context.Context, crit domain.Criteria) ([]domain.RawPosting, error) {
	var out []domain.RawPosting
	for _, ch := range plan.Plan(crit, c.cfg.ChunkSize) {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}

		batch := c.searchChunk(ctx, crit, ch)
		log.Printf("[serp] %q chunk %d: %d postings", crit.JobTitle, ch.Index, len(batch))
		out = append(out, batch...)
	}
	return out, nil
}

// searchChunk fetches every page for one chunk, following the provider's
// continuation token. It stops on an empty page, a missing token, or the
// page cap. When retries run out the query is abandoned and whatever pages
// were already collected are returned; upstream trouble never fails the run.
func (c *Client) searchChunk(ctx context.Context, crit domain.Criteria, ch plan.Chunk) []domain.RawPosting {
	ref := crit.Ref
	if ref.IsZero() {
		ref = time.Now()
	}
	after := ref.Add(-crit.Window).Format("2006-01-02")
	query := BuildQuery(c.cfg.Engine, ch, after)
	if c.queries != nil {
		c.queries.Add(crit.JobTitle, fmt.Sprintf("chunk %d", ch.Index), query)
	}

	var out []domain.RawPosting
	token := ""

	for page := 1; page <= c.cfg.MaxPages; page++ {
		resp, err := c.fetchPage(ctx, crit, query, token)
		if err != nil {
			log.Printf("[serp] %q chunk %d page %d abandoned: %v", crit.JobTitle, ch.Index, page, err)
			return out
		}

		batch := c.extract(resp)
		if len(batch) == 0 {
			break
		}
		out = append(out, batch...)

		token = resp.Pagination.NextPageToken
		if token == "" {
			break
		}
	}

	return out
}

func (c *Client) fetchPage(ctx context.Context, crit domain.Criteria, query, token string) (*response, error) {
	q := url.Values{}
	q.Set("engine", c.cfg.Engine)
	q.Set("q", query)
	q.Set("hl", "en")
	q.Set("api_key", c.cfg.APIKey)
	if c.cfg.Engine == EngineGoogleJobs {
		q.Set("date_posted", datePostedParam(crit.Window))
	} else {
		q.Set("num", "10")
	}
	if token != "" {
		q.Set("next_page_token", token)
	}
	pageURL := c.cfg.BaseURL + "?" + q.Encode()

	var out *response
	err := c.retry.Do(ctx, "serp", func(ctx context.Context) error {
		if c.pacer != nil {
			if err := c.pacer.WaitURL(ctx, pageURL); err != nil {
				return err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", "JobSearch/1.0 (+local)")

		res, err := c.hc.Do(req)
		if err != nil {
			return fmt.Errorf("%w: serp get: %v", fetch.ErrTransient, err)
		}
		defer res.Body.Close()

		switch {
		case res.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: serp status 429", fetch.ErrRateLimited)
		case res.StatusCode >= 500:
			return fmt.Errorf("%w: serp status %d", fetch.ErrTransient, res.StatusCode)
		case res.StatusCode >= 400:
			return fmt.Errorf("serp status %d", res.StatusCode)
		}

		var body response
		if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
			return fmt.Errorf("%w: serp decode: %v", fetch.ErrTransient, err)
		}
		out = &body
		return nil
	})
	return out, err
}

func (c *Client) extract(r *response) []domain.RawPosting {
	if r == nil {
		return nil
	}

	if c.cfg.Engine == EngineGoogleJobs {
		out := make([]domain.RawPosting, 0, len(r.JobsResults))
		for _, item := range r.JobsResults {
			link := item.Link
			if len(item.ApplyOptions) > 0 && item.ApplyOptions[0].Link != "" {
				link = item.ApplyOptions[0].Link
			}
			out = append(out, domain.RawPosting{
				Title:       item.Title,
				Company:     item.CompanyName,
				Location:    item.Location,
				PostedRaw:   item.DetectedExtensions.PostedAt,
				Description: item.Description,
				URL:         link,
				JobType:     item.DetectedExtensions.ScheduleType,
				Salary:      item.DetectedExtensions.Salary,
				Source:      c.Name(),
			})
		}
		return out
	}

	out := make([]domain.RawPosting, 0, len(r.OrganicResults))
	for _, item := range r.OrganicResults {
		loc := item.Location
		if loc == "" {
			loc = item.Address.Locality
		}
		out = append(out, domain.RawPosting{
			Title:       item.Title,
			Company:     item.Source,
			Location:    loc,
			PostedRaw:   item.Date,
			Description: item.Snippet,
			URL:         item.Link,
			Source:      c.Name(),
		})
	}
	return out
}

// BuildQuery serializes one chunk into the provider's boolean query syntax:
// the job title as a mandatory quoted phrase, then OR-groups for keywords,
// regions, job-type terms, and the chunk's sites.
func BuildQuery(engine string, ch plan.Chunk, after string) string {
	crit := ch.Criteria

	var parts []string
	parts = append(parts, quote(crit.JobTitle))

	if g := orGroup(quoteAll(crit.Keywords)); g != "" {
		parts = append(parts, g)
	}
	if g := orGroup(quoteAll(crit.Regions)); g != "" {
		parts = append(parts, g)
	}
	if engine == EngineGoogleJobs {
		if g := orGroup(quoteAll(crit.JobTypes)); g != "" {
			parts = append(parts, g)
		}
	}

	if len(ch.Sites) > 0 {
		terms := make([]string, 0, len(ch.Sites))
		for _, s := range ch.Sites {
			if engine == EngineGoogle {
				terms = append(terms, "site:"+s)
			} else {
				terms = append(terms, quote(s))
			}
		}
		parts = append(parts, orGroup(terms))
	}

	if after != "" {
		if engine == EngineGoogle {
			parts = append(parts, "after:"+after)
		} else {
			parts = append(parts, fmt.Sprintf(`(%s OR %s OR %s)`,
				quote("posted after "+after), quote("posted on "+after), quote(after)))
		}
	}

	return strings.Join(parts, " ")
}

func datePostedParam(window time.Duration) string {
	switch {
	case window <= 24*time.Hour:
		return "24hr"
	case window <= 7*24*time.Hour:
		return "7days"
	default:
		return "30days"
	}
}

func quote(s string) string { return `"` + s + `"` }

func quoteAll(xs []string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if strings.TrimSpace(x) == "" {
			continue
		}
		out = append(out, quote(x))
	}
	return out
}

func orGroup(terms []string) string {
	if len(terms) == 0 {
		return ""
	}
	return "(" + strings.Join(terms, " OR ") + ")"
}

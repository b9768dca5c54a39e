package board

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobsearch-engine/internal/domain"
	"jobsearch-engine/internal/fetch"
	"jobsearch-engine/internal/report"
)

type Config struct {
	BaseURL     string // search endpoint, e.g. https://www.linkedin.com/jobs/search/
	Location    string
	PostedHours int      // posted-within filter; falls back to the criteria window
	JobTypes    []string // provider job-type codes (F, C, ...)
	Regions     []string // search regions; "Remote" switches the remote filter on
	RateScrape  bool     // fetch detail pages to extract a salary rate
}

// Client is the HTML job-board provider adapter. One search page per
// (job type x region) pair, parsed with fixed card selectors; missing
// selectors yield empty fields, never an error.
type Client struct {
	cfg     Config
	hc      *http.Client
	pacer   *fetch.Pacer
	retry   fetch.Policy
	queries *report.QueryLog
}

func New(cfg Config, pacer *fetch.Pacer, retry fetch.Policy, queries *report.QueryLog) *Client {
	if len(cfg.Regions) == 0 {
		cfg.Regions = []string{"United States", "Remote"}
	}
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 15 * time.Second},
		pacer:   pacer,
		retry:   retry,
		queries: queries,
	}
}

func (c *Client) Name() string { return "board" }

// Search runs every (job type x region) combination for the title,
// sequentially so the board never sees concurrent calls from one run.
// A failed combination is logged and skipped; partial results survive.
func (c *Client) Search(ctx context.Context, crit domain.Criteria) ([]domain.RawPosting, error) {
	jobTypes := c.cfg.JobTypes
	if len(jobTypes) == 0 {
		jobTypes = []string{""}
	}

	var out []domain.RawPosting
	for _, jobType := range jobTypes {
		for _, region := range c.cfg.Regions {
			select {
			case <-ctx.Done():
				return out, ctx.Err()
			default:
			}

			searchURL := c.buildURL(crit, region, jobType)
			if c.queries != nil {
				c.queries.Add(crit.JobTitle, fmt.Sprintf("board %s/%s", jobType, region), searchURL)
			}

			doc, err := c.fetchDoc(ctx, searchURL)
			if err != nil {
				log.Printf("[board] %q type=%q region=%q skipped: %v", crit.JobTitle, jobType, region, err)
				continue
			}

			rows := c.parseCards(ctx, doc, jobType, strings.EqualFold(region, "remote"))
			out = append(out, rows...)
		}
	}
	return out, nil
}

func (c *Client) buildURL(crit domain.Criteria, region, jobType string) string {
	postedSecs := c.cfg.PostedHours * 3600
	if postedSecs <= 0 {
		postedSecs = int(crit.Window.Seconds())
	}

	q := url.Values{}
	q.Set("keywords", crit.JobTitle)
	location := c.cfg.Location
	if location == "" {
		location = region
	}
	q.Set("location", location)
	if jobType != "" {
		q.Set("f_JT", jobType)
	}
	if strings.EqualFold(region, "remote") {
		q.Set("f_WT", "2")
	}
	q.Set("f_TPR", fmt.Sprintf("r%d", postedSecs))

	return strings.TrimRight(c.cfg.BaseURL, "?") + "?" + q.Encode()
}

func (c *Client) fetchDoc(ctx context.Context, pageURL string) (*goquery.Document, error) {
	var doc *goquery.Document
	err := c.retry.Do(ctx, "board", func(ctx context.Context) error {
		if c.pacer != nil {
			if err := c.pacer.WaitURL(ctx, pageURL); err != nil {
				return err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36")

		res, err := c.hc.Do(req)
		if err != nil {
			return fmt.Errorf("%w: board get: %v", fetch.ErrTransient, err)
		}
		defer res.Body.Close()

		switch {
		case res.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: board status 429", fetch.ErrRateLimited)
		case res.StatusCode >= 500:
			return fmt.Errorf("%w: board status %d", fetch.ErrTransient, res.StatusCode)
		case res.StatusCode >= 400:
			return fmt.Errorf("board status %d", res.StatusCode)
		}

		d, err := goquery.NewDocumentFromReader(res.Body)
		if err != nil {
			return fmt.Errorf("%w: board parse html: %v", fetch.ErrTransient, err)
		}
		doc = d
		return nil
	})
	return doc, err
}

func (c *Client) parseCards(ctx context.Context, doc *goquery.Document, jobType string, remote bool) []domain.RawPosting {
	var rows []domain.RawPosting

	doc.Find("div.base-card").Each(func(_ int, card *goquery.Selection) {
		title := cleanText(card.Find("h3").First().Text())
		company := cleanText(card.Find("h4").First().Text())
		location := cleanText(card.Find("span.job-search-card__location").First().Text())

		postedRaw := cleanText(card.Find("time").First().Text())
		if postedRaw == "" {
			postedRaw = cleanText(card.Find("span.job-search-card__listdate").First().Text())
		}

		jobURL := ""
		if href, ok := card.Find("a.base-card__full-link").First().Attr("href"); ok {
			jobURL = strings.SplitN(strings.TrimSpace(href), "?", 2)[0]
		}

		if remote {
			location = "Remote"
		}

		salary := ""
		if c.cfg.RateScrape && jobURL != "" {
			salary = c.scrapeRate(ctx, jobURL)
		}

		rows = append(rows, domain.RawPosting{
			Title:     title,
			Company:   company,
			Location:  location,
			PostedRaw: postedRaw,
			URL:       jobURL,
			JobType:   jobType,
			Salary:    salary,
			Source:    c.Name(),
		})
	})

	return rows
}

var rateRegex = regexp.MustCompile(
	`(?i)(\$[\d,]+(?:\.\d+)?\s*(?:-|to)?\s*\$?[\d,]+(?:\.\d+)?\s*(?:/hr|per hour|hourly|/year|per year|annually|k))`)

// scrapeRate pulls the detail page and looks for a salary figure in the
// description. Best effort only; any failure yields an empty rate.
func (c *Client) scrapeRate(ctx context.Context, jobURL string) string {
	doc, err := c.fetchDoc(ctx, jobURL)
	if err != nil {
		return ""
	}

	desc := cleanText(doc.Find("div.show-more-less-html__markup").First().Text())
	if desc == "" {
		return ""
	}
	if m := rateRegex.FindString(desc); m != "" {
		return m
	}
	return ""
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

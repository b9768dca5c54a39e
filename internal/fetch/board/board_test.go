package board_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jobsearch-engine/internal/domain"
	"jobsearch-engine/internal/fetch"
	"jobsearch-engine/internal/fetch/board"
)

const cardHTML = `<html><body>
<div class="base-card">
  <h3> Data  Analyst </h3>
  <h4>Acme&nbsp;Corp</h4>
  <span class="job-search-card__location">Austin, TX</span>
  <time>2 days ago</time>
  <a class="base-card__full-link" href="https://jobs.example.com/view/123?refId=abc&trk=x">apply</a>
</div>
<div class="base-card">
  <h3>SQL Developer</h3>
</div>
</body></html>`

func newClient(t *testing.T, cfg board.Config, handler http.HandlerFunc) *board.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg.BaseURL = srv.URL
	return board.New(cfg, nil, fetch.NewPolicy(1, 0, 0), nil)
}

func criteria() domain.Criteria {
	return domain.Criteria{JobTitle: "Data Analyst", Window: 7 * 24 * time.Hour}
}

func TestSearchParsesCards(t *testing.T) {
	client := newClient(t, board.Config{Regions: []string{"United States"}},
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, cardHTML)
		})

	out, err := client.Search(context.Background(), criteria())
	require.NoError(t, err)
	require.Len(t, out, 2)

	first := out[0]
	require.Equal(t, "Data Analyst", first.Title, "whitespace collapsed")
	require.Equal(t, "Acme Corp", first.Company, "non-breaking space normalized")
	require.Equal(t, "Austin, TX", first.Location)
	require.Equal(t, "2 days ago", first.PostedRaw)
	require.Equal(t, "https://jobs.example.com/view/123", first.URL, "tracking query string stripped")
	require.Equal(t, "board", first.Source)

	sparse := out[1]
	require.Equal(t, "SQL Developer", sparse.Title)
	require.Empty(t, sparse.Company, "missing selectors yield empty fields, not errors")
	require.Empty(t, sparse.Location)
	require.Empty(t, sparse.PostedRaw)
	require.Empty(t, sparse.URL)
}

func TestSearchRunsEveryTypeRegionCombination(t *testing.T) {
	var urls []string
	client := newClient(t, board.Config{
		JobTypes: []string{"F", "C"},
		Regions:  []string{"United States", "Remote"},
	}, func(w http.ResponseWriter, r *http.Request) {
		urls = append(urls, r.URL.RawQuery)
		fmt.Fprint(w, cardHTML)
	})

	out, err := client.Search(context.Background(), criteria())
	require.NoError(t, err)
	require.Len(t, urls, 4, "one page per (job type x region) pair")
	require.Len(t, out, 8)
}

func TestSearchSkipsFailedCombination(t *testing.T) {
	calls := 0
	client := newClient(t, board.Config{Regions: []string{"United States", "Remote"}},
		func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			fmt.Fprint(w, cardHTML)
		})

	out, err := client.Search(context.Background(), criteria())
	require.NoError(t, err, "a bad combination is skipped, not fatal")
	require.Equal(t, 2, calls)
	require.Len(t, out, 2, "surviving combination still contributes")
}

func TestSearchRemoteRegionOverridesLocation(t *testing.T) {
	var query string
	client := newClient(t, board.Config{Regions: []string{"Remote"}, JobTypes: []string{"C"}},
		func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.RawQuery
			fmt.Fprint(w, cardHTML)
		})

	out, err := client.Search(context.Background(), criteria())
	require.NoError(t, err)
	require.Contains(t, query, "f_WT=2")
	require.Contains(t, query, "f_JT=C")
	require.Contains(t, query, "f_TPR=r604800", "seven-day window in seconds")
	require.Equal(t, "Remote", out[0].Location)
	require.Equal(t, "C", out[0].JobType)
}

func TestSearchPostedHoursOverridesWindow(t *testing.T) {
	var query string
	client := newClient(t, board.Config{Regions: []string{"United States"}, PostedHours: 24},
		func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.RawQuery
			fmt.Fprint(w, cardHTML)
		})

	_, err := client.Search(context.Background(), criteria())
	require.NoError(t, err)
	require.Contains(t, query, "f_TPR=r86400")
}

func TestSearchScrapesRateFromDetailPage(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/view/123" {
			fmt.Fprint(w, `<html><body><div class="show-more-less-html__markup">
				Great role paying $40 - $55/hr with benefits.</div></body></html>`)
			return
		}
		fmt.Fprintf(w, `<html><body><div class="base-card">
			<h3>Data Analyst</h3>
			<a class="base-card__full-link" href="%s/view/123"></a>
		</div></body></html>`, srv.URL)
	}))
	defer srv.Close()

	client := board.New(board.Config{
		BaseURL:    srv.URL,
		Regions:    []string{"United States"},
		RateScrape: true,
	}, nil, fetch.NewPolicy(1, 0, 0), nil)

	out, err := client.Search(context.Background(), criteria())
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "$40 - $55/hr", out[0].Salary)
}

func TestSearchCancelledContextStopsEarly(t *testing.T) {
	client := newClient(t, board.Config{Regions: []string{"United States"}},
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, cardHTML)
		})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := client.Search(ctx, criteria())
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, out)
}

package report_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"jobsearch-engine/internal/domain"
	"jobsearch-engine/internal/report"
)

var now = time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

func posting(url string) domain.Posting {
	at := now.AddDate(0, 0, -2)
	return domain.Posting{
		Title:       "Data Analyst",
		Company:     "Acme",
		Location:    "Remote",
		PostedAt:    &at,
		PostedRaw:   "2 days ago",
		Description: "Analyze data.",
		URL:         url,
		Source:      "serp",
	}
}

func TestSlug(t *testing.T) {
	require.Equal(t, "DataAnalyst", report.Slug("Data Analyst"))
	require.Equal(t, "SQLServerDeveloper", report.Slug("SQL Server Developer"))
}

func TestPostedDisplay(t *testing.T) {
	p := posting("https://x/1")
	require.Equal(t, "2026-03-13", report.PostedDisplay(p))

	p.PostedAt = nil
	require.Equal(t, "2 days ago", report.PostedDisplay(p), "raw text survives when the date is unknown")

	p.PostedRaw = ""
	require.Equal(t, "N/A", report.PostedDisplay(p))
}

func TestFormatText(t *testing.T) {
	p := posting("https://x/1")
	p.Salary = "$50/hr"
	p.JobType = "Contractor"

	text := report.FormatText("Data Analyst", []domain.Posting{p}, now)

	require.Contains(t, text, "JOB SEARCH RESULTS FOR: Data Analyst")
	require.Contains(t, text, "Search Date: 2026-03-15 09:30:00")
	require.Contains(t, text, "--- Job 1 ---")
	require.Contains(t, text, "Title: Data Analyst")
	require.Contains(t, text, "Posted: 2026-03-13")
	require.Contains(t, text, "Salary: $50/hr")
	require.Contains(t, text, "JobType: Contractor")
	require.Contains(t, text, "URL: https://x/1")
	require.Contains(t, text, "  Analyze data.")
}

func TestFormatTextOmitsEmptyOptionalLines(t *testing.T) {
	p := posting("https://x/1")
	p.Company = ""
	p.Description = ""

	text := report.FormatText("Data Analyst", []domain.Posting{p}, now)

	require.NotContains(t, text, "Salary:")
	require.NotContains(t, text, "JobType:")
	require.Contains(t, text, "Company: N/A")
	require.Contains(t, text, "No description available.")
}

func TestFormatTextTruncatesLongDescriptions(t *testing.T) {
	p := posting("https://x/1")
	p.Description = strings.Repeat("x", 500)

	text := report.FormatText("Data Analyst", []domain.Posting{p}, now)
	require.Contains(t, text, strings.Repeat("x", 400)+"...")
	require.NotContains(t, text, strings.Repeat("x", 401))
}

func TestWriteTextEmptySetWritesNothing(t *testing.T) {
	dir := t.TempDir()

	path, err := report.WriteText(dir, "Data Analyst", nil, now)
	require.NoError(t, err)
	require.Empty(t, path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestWriteTextPath(t *testing.T) {
	dir := t.TempDir()

	path, err := report.WriteText(dir, "Data Analyst", []domain.Posting{posting("https://x/1")}, now)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "DataAnalyst-results.txt"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "https://x/1")
}

func TestWorkbookLazyCreation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log", "all-job-results.xlsx")
	wb := report.NewWorkbook(path)

	require.NoError(t, wb.AddSheet("Data Analyst", nil))
	require.False(t, wb.Created(), "empty result sets never touch disk")
	require.NoError(t, wb.Save())
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestWorkbookOneSheetPerTitle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "all-job-results.xlsx")
	wb := report.NewWorkbook(path)

	require.NoError(t, wb.AddSheet("Data Analyst", []domain.Posting{posting("https://x/1")}))
	require.NoError(t, wb.AddSheet("SQL Developer", []domain.Posting{posting("https://x/2")}))
	require.NoError(t, wb.Save())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	require.ElementsMatch(t, []string{"DataAnalyst", "SQLDeveloper"}, f.GetSheetList())

	rows, err := f.GetRows("DataAnalyst")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Title", rows[0][0])
	require.Equal(t, "Data Analyst", rows[1][0])
	require.Equal(t, "2026-03-13", rows[1][3])
	require.Equal(t, "https://x/1", rows[1][6])
}

func TestWorkbookReplacesSameDaySheet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "all-job-results.xlsx")

	wb := report.NewWorkbook(path)
	require.NoError(t, wb.AddSheet("Data Analyst", []domain.Posting{
		posting("https://x/old-1"),
		posting("https://x/old-2"),
		posting("https://x/old-3"),
	}))
	require.NoError(t, wb.Save())

	// a later run of the same day reopens the file and overwrites the sheet;
	// fewer postings than before must not leave the earlier rows behind
	wb = report.NewWorkbook(path)
	require.NoError(t, wb.AddSheet("Data Analyst", []domain.Posting{posting("https://x/new")}))
	require.NoError(t, wb.Save())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"DataAnalyst"}, f.GetSheetList())
	rows, err := f.GetRows("DataAnalyst")
	require.NoError(t, err)
	require.Len(t, rows, 2, "stale rows from the larger earlier run must be gone")
	require.Equal(t, "https://x/new", rows[1][6])
}

func TestWorkbookReplacesSheetAmongOthers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "all-job-results.xlsx")

	wb := report.NewWorkbook(path)
	require.NoError(t, wb.AddSheet("Data Analyst", []domain.Posting{
		posting("https://x/old-1"),
		posting("https://x/old-2"),
	}))
	require.NoError(t, wb.AddSheet("SQL Developer", []domain.Posting{posting("https://x/sql")}))
	require.NoError(t, wb.Save())

	wb = report.NewWorkbook(path)
	require.NoError(t, wb.AddSheet("Data Analyst", []domain.Posting{posting("https://x/new")}))
	require.NoError(t, wb.Save())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	require.ElementsMatch(t, []string{"DataAnalyst", "SQLDeveloper"}, f.GetSheetList())
	rows, err := f.GetRows("DataAnalyst")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "https://x/new", rows[1][6])

	rows, err = f.GetRows("SQLDeveloper")
	require.NoError(t, err)
	require.Len(t, rows, 2, "untouched sheets survive the rerun")
}

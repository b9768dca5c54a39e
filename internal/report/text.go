package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jobsearch-engine/internal/domain"
)

const descriptionLimit = 400

// Slug is the per-title file/sheet name: spaces stripped, nothing else.
func Slug(jobTitle string) string {
	return strings.ReplaceAll(jobTitle, " ", "")
}

// PostedDisplay prefers the resolved date and falls back to the provider's
// raw text when the date is unknown.
func PostedDisplay(p domain.Posting) string {
	if p.PostedAt != nil {
		return p.PostedAt.Format("2006-01-02")
	}
	if p.PostedRaw != "" {
		return p.PostedRaw
	}
	return "N/A"
}

// FormatText renders the per-title human-readable report.
func FormatText(jobTitle string, postings []domain.Posting, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "JOB SEARCH RESULTS FOR: %s\n", jobTitle)
	fmt.Fprintf(&b, "Search Date: %s\n", now.Format("2006-01-02 15:04:05"))
	b.WriteString(strings.Repeat("=", 80) + "\n\n")

	if len(postings) == 0 {
		b.WriteString("NO RESULTS FOUND\n")
		return b.String()
	}

	for i, p := range postings {
		fmt.Fprintf(&b, "--- Job %d ---\n", i+1)
		fmt.Fprintf(&b, "Title: %s\n", orNA(p.Title))
		fmt.Fprintf(&b, "Company: %s\n", orNA(p.Company))
		fmt.Fprintf(&b, "Location: %s\n", orNA(p.Location))
		fmt.Fprintf(&b, "Posted: %s\n", PostedDisplay(p))
		if p.Salary != "" {
			fmt.Fprintf(&b, "Salary: %s\n", p.Salary)
		}
		if p.JobType != "" {
			fmt.Fprintf(&b, "JobType: %s\n", p.JobType)
		}
		fmt.Fprintf(&b, "URL: %s\n", orNA(p.URL))
		b.WriteString("Description:\n")
		fmt.Fprintf(&b, "  %s\n", truncate(p.Description))
		b.WriteString(strings.Repeat("-", 80) + "\n\n")
	}

	return b.String()
}

// WriteText saves the text report under dir and returns the path. Callers
// gate on non-empty results; an empty set produces no file at all.
func WriteText(dir, jobTitle string, postings []domain.Posting, now time.Time) (string, error) {
	if len(postings) == 0 {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, Slug(jobTitle)+"-results.txt")
	if err := os.WriteFile(path, []byte(FormatText(jobTitle, postings, now)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func truncate(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if s == "" {
		return "No description available."
	}
	runes := []rune(s)
	if len(runes) <= descriptionLimit {
		return s
	}
	return string(runes[:descriptionLimit]) + "..."
}

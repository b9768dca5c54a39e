package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"jobsearch-engine/internal/domain"
)

type Config struct {
	App struct {
		DataDir    string `yaml:"data_dir"`
		OutputRoot string `yaml:"output_root"`
	} `yaml:"app"`

	Search struct {
		JobTitles []string `yaml:"job_titles"`
		Keywords  []string `yaml:"keywords"`
		Regions   []string `yaml:"regions"`
		Sites     []string `yaml:"sites"` // usually overlaid from sites.txt
		ChunkSize int      `yaml:"chunk_size"`
		DaysBack  int      `yaml:"days_back"`
	} `yaml:"search"`

	JobType struct {
		Modes           string              `yaml:"modes"` // comma-separated, e.g. "remote, contract"
		IncludeKeywords map[string][]string `yaml:"include_keywords"`
	} `yaml:"job_type"`

	Sources struct {
		Serp struct {
			Enabled       bool   `yaml:"enabled"`
			Engine        string `yaml:"engine"` // google or google_jobs
			MaxPages      int    `yaml:"max_pages"`
			PageDelaySecs int    `yaml:"page_delay_seconds"`
			UnknownPosted string `yaml:"unknown_posted"` // exclude or assume_recent
		} `yaml:"serp"`

		Board struct {
			Enabled     bool     `yaml:"enabled"`
			BaseURL     string   `yaml:"base_url"`
			Location    string   `yaml:"location"`
			PostedHours int      `yaml:"posted_hours"`
			JobTypes    []string `yaml:"job_types"` // provider codes, e.g. F / C
			Regions     []string `yaml:"regions"`
			RateScrape  bool     `yaml:"rate_scrape"`
		} `yaml:"board"`
	} `yaml:"sources"`

	Retry struct {
		MaxAttempts       int `yaml:"max_attempts"`
		RateLimitBaseSecs int `yaml:"rate_limit_base_seconds"`
		TransientBaseSecs int `yaml:"transient_base_seconds"`
	} `yaml:"retry"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Window converts days_back into the recency window duration.
func (c Config) Window() time.Duration {
	days := c.Search.DaysBack
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

// JobTypeKeywords flattens the selected job-type modes into one keyword
// list for the result filter. Unknown modes contribute nothing.
func (c Config) JobTypeKeywords() []string {
	var out []string
	for _, mode := range splitAndTrim(c.JobType.Modes) {
		for _, kw := range c.JobType.IncludeKeywords[mode] {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				out = append(out, kw)
			}
		}
	}
	return out
}

// CriteriaFor builds the immutable per-title search criteria.
func (c Config) CriteriaFor(title string) domain.Criteria {
	return domain.Criteria{
		JobTitle: title,
		Keywords: c.Search.Keywords,
		Regions:  c.Search.Regions,
		Sites:    c.Search.Sites,
		Window:   c.Window(),
		JobTypes: c.JobTypeKeywords(),
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, strings.ToLower(trimmed))
		}
	}
	return out
}

package config

import (
	"os"
	"strings"
)

// OverlaySites replaces cfg.Search.Sites with the contents of a one-domain-
// per-line sites file when it exists. A missing file is not an error so the
// pipeline can run on keywords/regions alone.
func OverlaySites(cfg *Config, sitesPath string) error {
	b, err := os.ReadFile(sitesPath)
	if err != nil {
		return nil
	}

	var sites []string
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sites = append(sites, line)
	}

	if len(sites) > 0 {
		cfg.Search.Sites = sites
	}
	return nil
}

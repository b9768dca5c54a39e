package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"jobsearch-engine/internal/config"
	"jobsearch-engine/internal/fetch"
	"jobsearch-engine/internal/fetch/board"
	"jobsearch-engine/internal/fetch/serp"
	"jobsearch-engine/internal/filter"
	"jobsearch-engine/internal/pipeline"
	"jobsearch-engine/internal/report"
	"jobsearch-engine/internal/scheduler"
	"jobsearch-engine/internal/secrets"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "path to config.yml (default: bootstrapped into the data dir)")
		sites   = flag.String("sites", "", "path to a one-domain-per-line sites file")
		every   = flag.Duration("every", 0, "rerun the whole search on this interval (0 = run once)")
	)
	flag.Parse()

	// Data dir: env if provided, else local folder.
	dataDir := os.Getenv("JOBSEARCH_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	userCfgPath := *cfgPath
	if userCfgPath == "" {
		var err error
		userCfgPath, err = config.EnsureUserConfig(dataDir, filepath.Join("config", "config.yml"))
		if err != nil {
			log.Fatalf("config bootstrap failed: %v", err)
		}
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}

	sitesPath := *sites
	if sitesPath == "" {
		sitesPath = filepath.Join(filepath.Dir(userCfgPath), "sites.txt")
	}
	if err := config.OverlaySites(&cfg, sitesPath); err != nil {
		log.Fatalf("sites overlay failed (%s): %v", sitesPath, err)
	}

	cfg, res := config.NormalizeAndValidate(cfg)
	for _, w := range res.Warnings {
		log.Printf("[config] warning: %s", w)
	}
	if !res.OK() {
		for _, e := range res.Errors {
			log.Printf("[config] error: %s", e)
		}
		os.Exit(1)
	}

	// Precondition: the serp source cannot run without a credential.
	apiKey := ""
	if cfg.Sources.Serp.Enabled {
		apiKey, err = secrets.GetAPIKey()
		if err != nil {
			log.Fatalf("[config] %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	task := func(ctx context.Context) error {
		return runOnce(ctx, cfg, apiKey)
	}

	if *every > 0 {
		scheduler.Every(ctx, *every, "run", task)
		return
	}
	if err := task(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("[run] %v", err)
	}
}

func runOnce(ctx context.Context, cfg config.Config, apiKey string) error {
	queries := report.NewQueryLog()
	pacer := fetch.NewPacer(time.Duration(cfg.Sources.Serp.PageDelaySecs) * time.Second)
	retry := fetch.NewPolicy(
		cfg.Retry.MaxAttempts,
		time.Duration(cfg.Retry.RateLimitBaseSecs)*time.Second,
		time.Duration(cfg.Retry.TransientBaseSecs)*time.Second,
	)

	var providers []pipeline.Provider
	if cfg.Sources.Serp.Enabled {
		providers = append(providers, serp.New(serp.Config{
			APIKey:    apiKey,
			Engine:    cfg.Sources.Serp.Engine,
			MaxPages:  cfg.Sources.Serp.MaxPages,
			ChunkSize: cfg.Search.ChunkSize,
		}, pacer, retry, queries))
	}
	if cfg.Sources.Board.Enabled {
		providers = append(providers, board.New(board.Config{
			BaseURL:     cfg.Sources.Board.BaseURL,
			Location:    cfg.Sources.Board.Location,
			PostedHours: cfg.Sources.Board.PostedHours,
			JobTypes:    cfg.Sources.Board.JobTypes,
			Regions:     cfg.Sources.Board.Regions,
			RateScrape:  cfg.Sources.Board.RateScrape,
		}, pacer, retry, queries))
	}

	outputRoot := cfg.App.OutputRoot
	if outputRoot == "" {
		outputRoot = "results"
	}
	outputDir := filepath.Join(outputRoot, time.Now().Format("2006-01-02"))
	logDir := filepath.Join(outputDir, "log")

	unknown := filter.UnknownExclude
	if cfg.Sources.Serp.UnknownPosted == "assume_recent" {
		unknown = filter.UnknownAssumeRecent
	}

	runner := &pipeline.Runner{
		Cfg:       cfg,
		Providers: providers,
		Workbook:  report.NewWorkbook(filepath.Join(logDir, "all-job-results.xlsx")),
		OutputDir: outputDir,
		Unknown:   unknown,
	}

	runErr := runner.Run(ctx)

	if err := queries.Save(filepath.Join(logDir, "queries.txt")); err != nil {
		log.Printf("[run] queries log failed: %v", err)
	}

	return runErr
}

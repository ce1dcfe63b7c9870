// Command review scores open commodity option positions and recommends
// whether to hold, adjust, or close each one.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/eddiefleurent/commodity-review/internal/config"
	"github.com/eddiefleurent/commodity-review/internal/dashboard"
	"github.com/eddiefleurent/commodity-review/internal/marketdata"
	"github.com/eddiefleurent/commodity-review/internal/models"
	"github.com/eddiefleurent/commodity-review/internal/parser"
	"github.com/eddiefleurent/commodity-review/internal/report"
	"github.com/eddiefleurent/commodity-review/internal/retry"
	"github.com/eddiefleurent/commodity-review/internal/review"
	"github.com/eddiefleurent/commodity-review/internal/storage"
)

func main() {
	var (
		configPath   = flag.String("config", "config.yaml", "Path to configuration file")
		holdingsPath = flag.String("holdings", "holdings.json", "Path to holdings JSON file")
		outputDir    = flag.String("output-dir", "", "Override configured report directory")
		noTerminal   = flag.Bool("no-terminal", false, "Suppress the terminal summary")
		noFiles      = flag.Bool("no-files", false, "Skip writing report files")
		serve        = flag.Bool("serve", false, "Serve the dashboard after the review")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Environment.LogLevel)

	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *noTerminal {
		cfg.Output.Terminal = false
	}
	if *noFiles {
		cfg.Output.Files = false
	}
	if *serve {
		cfg.Dashboard.Enabled = true
		if cfg.Dashboard.Addr == "" {
			cfg.Dashboard.Addr = "127.0.0.1:9847"
		}
	}

	if err := run(cfg, *holdingsPath, logger); err != nil {
		logger.Fatal().Err(err).Msg("review failed")
	}
}

// loadConfig falls back to built-in defaults when the default config file
// is simply absent. An explicitly broken file still fails.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}

func run(cfg *config.Config, holdingsPath string, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	holdings, err := loadHoldings(holdingsPath)
	if err != nil {
		return fmt.Errorf("loading holdings: %w", err)
	}
	logger.Info().Int("holdings", len(holdings)).Str("file", holdingsPath).Msg("holdings loaded")

	// Provider chain: skill subprocesses, retried, behind a breaker.
	var provider marketdata.Provider = marketdata.NewSkillProvider(marketdata.SkillConfig{
		Interpreter: cfg.Skills.Interpreter,
		SkillsDir:   cfg.Skills.Dir,
		Timeout:     cfg.SkillTimeout(),
	}, logger)
	provider = retry.NewProvider(provider, logger)
	provider = marketdata.NewCircuitBreakerProvider(provider, logger)

	snapshot, err := marketdata.BuildSnapshot(ctx, provider, marketdata.Symbols(holdings), logger)
	if err != nil {
		return fmt.Errorf("building market snapshot: %w", err)
	}

	orch := review.NewOrchestrator(cfg.Review.Weights, cfg.Review.MaxWorkers, logger)
	analyses, err := orch.Run(ctx, holdings, snapshot)
	if err != nil {
		return fmt.Errorf("running review: %w", err)
	}

	reviewRun := models.NewReviewRun(analyses, time.Now().UTC())

	if cfg.Output.Terminal {
		out, err := report.TerminalReport{Color: cfg.Output.Color}.Render(&reviewRun)
		if err != nil {
			return fmt.Errorf("rendering terminal report: %w", err)
		}
		fmt.Print(string(out))
	}

	if cfg.Output.Files {
		for _, r := range []report.Renderer{report.JSONReport{}, report.MarkdownReport{}} {
			path, err := report.Save(r, &reviewRun, cfg.Output.Dir)
			if err != nil {
				return err
			}
			logger.Info().Str("path", path).Msg("report written")
		}
	}

	store, err := storage.NewStorage(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	if err := store.AppendRun(reviewRun); err != nil {
		return fmt.Errorf("storing run: %w", err)
	}

	if cfg.Dashboard.Enabled {
		return serveDashboard(ctx, cfg.Dashboard.Addr, store, logger)
	}
	return nil
}

func loadHoldings(path string) ([]models.HoldingPosition, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the -holdings flag
	if err != nil {
		return nil, err
	}

	var raw []parser.RawHolding
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing holdings file: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("holdings file is empty")
	}

	return parser.EnrichHoldings(raw, time.Now())
}

// serveDashboard blocks until the context is canceled, then drains the
// server.
func serveDashboard(ctx context.Context, addr string, store storage.Interface, logger zerolog.Logger) error {
	srv := dashboard.NewServer(addr, store, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dashboard shutdown: %w", err)
	}
	return <-errCh
}

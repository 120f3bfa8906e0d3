package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haukened/rr-names/internal/names/common/clock"
	"github.com/haukened/rr-names/internal/names/common/log"
	"github.com/haukened/rr-names/internal/names/config"
	"github.com/haukened/rr-names/internal/names/domain"
	"github.com/haukened/rr-names/internal/names/repos/blacklist"
	"github.com/haukened/rr-names/internal/names/repos/blacklist/bloom"
	"github.com/haukened/rr-names/internal/names/repos/blacklist/bolt"
	"github.com/haukened/rr-names/internal/names/repos/blacklist/lru"
	"github.com/haukened/rr-names/internal/names/repos/blacklist/parsers"
	"github.com/haukened/rr-names/internal/names/services/checker"
	"github.com/haukened/rr-names/pkg/names"
)

const (
	version = "0.1.0-dev"
	appName = "rr-names"

	embeddedSource = "embedded:names.yaml"
)

// errChecksFailed is returned when a command ran but some names did not pass.
var errChecksFailed = errors.New("checks failed")

// Application holds the loaded blacklist and the services built on it.
type Application struct {
	config    *config.AppConfig
	clock     clock.Clock
	blacklist *domain.Blacklist
	repo      blacklist.Repository
	checker   *checker.Checker
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errChecksFailed) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var app *Application

	root := &cobra.Command{
		Use:   appName,
		Short: "Check names against lint rules and a reserved-name blacklist",
		Long: `rr-names validates candidate identifiers such as usernames.

Run without a subcommand to execute the built-in self-test battery.
Configuration is read from NAMES_* environment variables.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
				return fmt.Errorf("logging configuration error: %w", err)
			}
			log.Debug(map[string]any{
				"version":       version,
				"env":           cfg.Env,
				"log_level":     cfg.LogLevel,
				"source":        sourceName(cfg.Source),
				"collection":    cfg.Collection,
				"cache_size":    cfg.CacheSize,
				"bloom_fp_rate": cfg.BloomFPRate,
			}, "Starting rr-names")

			app, err = buildApplication(cfg)
			if err != nil {
				return fmt.Errorf("failed to build application: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelfTest(cmd, app)
		},
	}

	root.AddCommand(
		newSelfTestCmd(&app),
		newValidCmd(&app),
		newAllowedCmd(&app),
		newCollectionsCmd(&app),
		newCompileCmd(&app),
	)
	return root
}

// buildApplication loads the blacklist and wires the repository and checker.
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	logger := log.GetLogger()

	bl, err := loadBlacklist(cfg.Source, logger)
	if err != nil {
		return nil, err
	}
	if !bl.Has(cfg.Collection) {
		return nil, fmt.Errorf("%w: default collection %q", domain.ErrUnknownCollection, cfg.Collection)
	}

	log.Info(map[string]any{
		"source":      sourceName(cfg.Source),
		"collections": bl.Len(),
		"entries":     bl.EntryCount(),
	}, "Blacklist loaded")

	repo, err := buildRepository(cfg, bl, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	svc, err := checker.NewChecker(checker.Options{
		Decider:    repo,
		Logger:     logger,
		Collection: cfg.Collection,
	})
	if err != nil {
		return nil, err
	}

	return &Application{
		config:    cfg,
		clock:     clock.RealClock{},
		blacklist: bl,
		repo:      repo,
		checker:   svc,
	}, nil
}

// loadBlacklist reads the configured source: the embedded document when
// empty, a compiled bbolt snapshot for .db, a parsed document otherwise.
func loadBlacklist(source string, logger log.Logger) (*domain.Blacklist, error) {
	switch {
	case source == "":
		return parsers.ParseBytes(names.Document(), parsers.FormatYAML, embeddedSource, logger)
	case strings.EqualFold(filepath.Ext(source), ".db"):
		// bolt.New would create a missing file
		if _, err := os.Stat(source); err != nil {
			return nil, fmt.Errorf("failed to open snapshot: %w", err)
		}
		st, err := bolt.New(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot: %w", err)
		}
		defer st.Close()
		stats := st.Stats()
		logger.Debug(map[string]any{
			"path":    source,
			"version": stats.Version,
			"updated": stats.UpdatedUnix,
		}, "Snapshot opened")
		return st.Load()
	default:
		return parsers.ParseFile(source, logger)
	}
}

// buildRepository creates the decision cache and bloom prefilters.
func buildRepository(cfg *config.AppConfig, bl *domain.Blacklist, logger log.Logger) (blacklist.Repository, error) {
	cache, err := lru.New(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create decision cache: %w", err)
	}
	if cfg.CacheSize == 0 {
		log.Info(map[string]any{"disabled": true}, "Decision caching disabled")
	}
	return blacklist.NewRepository(blacklist.Options{
		Blacklist: bl,
		Cache:     cache,
		Factory:   bloom.NewFactory(),
		FPRate:    cfg.BloomFPRate,
		Logger:    logger,
	})
}

func sourceName(source string) string {
	if source == "" {
		return embeddedSource
	}
	return source
}

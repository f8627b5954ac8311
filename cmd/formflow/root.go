package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formflow/internal/config"
	"github.com/goliatone/go-formflow/internal/logging"
	"github.com/goliatone/go-formflow/pkg/flow"
	"github.com/goliatone/go-formflow/pkg/orchestrator"
	"github.com/goliatone/go-formflow/pkg/render/tui"
	"github.com/goliatone/go-formflow/pkg/source"
)

// app carries what every command shares once the root command has set up
// configuration.
type app struct {
	cfg        config.Config
	logger     *slog.Logger
	fetcher    *source.Fetcher
	closeCache func() error

	logLevel    string
	logFormat   string
	cache       string
	timeout     time.Duration
	concurrency int

	// driver replaces the survey prompts, used by tests.
	driver tui.PromptDriver
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "formflow",
		Short:         "Bind external data to form flows",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (env FORMFLOW_LOG_LEVEL)")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text or json (env FORMFLOW_LOG_FORMAT)")
	flags.StringVar(&a.cache, "cache", "", "payload cache: memory, redis or none (env FORMFLOW_CACHE)")
	flags.DurationVar(&a.timeout, "timeout", 0, "timeout per external data request (env FORMFLOW_HTTP_TIMEOUT)")
	flags.IntVar(&a.concurrency, "concurrency", 0, "parallel step fetches (env FORMFLOW_FETCH_CONCURRENCY)")

	root.AddCommand(
		newBindCmd(a),
		newPrefillCmd(a),
		newRunCmd(a),
		newPreviewCmd(a),
		newWatchCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	if flags.Changed("cache") {
		cfg.Cache = a.cache
	}
	if flags.Changed("timeout") {
		cfg.HTTPTimeout = a.timeout
	}
	if flags.Changed("concurrency") {
		cfg.FetchConcurrency = a.concurrency
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	cache, closeCache, err := cfg.NewCache(cmd.Context())
	if err != nil {
		return err
	}

	options := []source.Option{
		source.WithTimeout(cfg.HTTPTimeout),
		source.WithLogger(logger),
	}
	if cache != nil {
		options = append(options, source.WithCache(cache, cfg.CacheTTL))
	}

	a.cfg = cfg
	a.logger = logger
	a.fetcher = source.NewFetcher(options...)
	a.closeCache = closeCache
	return nil
}

func (a *app) close() error {
	if a.closeCache == nil {
		return nil
	}
	err := a.closeCache()
	a.closeCache = nil
	return err
}

// loadFlow reads and validates the flow at location, a path or URL. The
// returned directory resolves relative demo files.
func (a *app) loadFlow(cmd *cobra.Command, location string) (*flow.Flow, string, error) {
	if location == "" {
		return nil, "", errors.New("--flow is required")
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", err
	}
	src, err := source.Parse(location, cwd)
	if err != nil {
		return nil, "", err
	}

	f, err := flow.Load(cmd.Context(), a.fetcher, src)
	if err != nil {
		return nil, "", err
	}
	if err := flow.Validate(f); err != nil {
		return nil, "", err
	}

	var baseDir string
	if src.Kind() == source.SourceKindFile {
		baseDir = filepath.Dir(src.Location())
	}
	return f, baseDir, nil
}

func (a *app) orchestrator(baseDir string) *orchestrator.Orchestrator {
	return orchestrator.New(
		orchestrator.WithFetcher(a.fetcher),
		orchestrator.WithLogger(a.logger),
		orchestrator.WithConcurrency(a.cfg.FetchConcurrency),
		orchestrator.WithBaseDir(baseDir),
	)
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

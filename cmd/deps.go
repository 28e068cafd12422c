package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/scholar/internal/config"
	"github.com/abhisek/scholar/internal/content"
	"github.com/abhisek/scholar/internal/history"
	"github.com/abhisek/scholar/internal/llm"
	"github.com/abhisek/scholar/internal/logging"
	"github.com/abhisek/scholar/internal/platform/cache"
	"github.com/abhisek/scholar/internal/platform/database"
	"github.com/abhisek/scholar/internal/store"
)

// deps holds everything a command may need. Close releases it in reverse
// order of acquisition.
type deps struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *store.Store
	history *history.Store
	content *content.Service
	demo    bool
	health  func(ctx context.Context) error
	errOut  io.Writer

	closers []io.Closer
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// setupOpts select which collaborators to build.
type setupOpts struct {
	logToFile bool
	content   bool
}

// setup loads configuration and opens the stores. The LLM provider is only
// built when opts.content is set.
func setup(cmd *cobra.Command, opts setupOpts) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, logCloser, err := logging.Setup(cfg.Log, opts.logToFile)
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	d := &deps{cfg: cfg, logger: logger, errOut: cmd.ErrOrStderr(), closers: []io.Closer{logCloser}}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	d.store = st
	d.closers = append(d.closers, st)
	d.health = st.HealthCheck

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	kv, err := d.openHistoryKV(ctx)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("open %s history backend: %w", cfg.History.Backend, err)
	}
	d.history = history.NewStore(kv, history.WithKey(cfg.History.Key), history.WithLogger(logger))

	if opts.content {
		d.content, d.demo = d.newContentService(ctx)
	}
	return d, nil
}

func (d *deps) openHistoryKV(ctx context.Context) (history.KV, error) {
	switch d.cfg.History.Backend {
	case config.BackendFile:
		dir, err := d.cfg.HistoryDir()
		if err != nil {
			return nil, err
		}
		return history.NewFileKV(dir)
	case config.BackendMemory:
		return history.NewMemoryKV(), nil
	case config.BackendRedis:
		c, err := cache.New(ctx, d.cfg.History.Redis.URL)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, c)
		d.health = c.HealthCheck
		return c, nil
	case config.BackendPostgres:
		pg := d.cfg.History.Postgres
		db, err := database.New(ctx, pg.URL, pg.MaxConns, pg.MinConns)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, closerFunc(func() error { db.Close(); return nil }))
		d.health = db.HealthCheck
		return db, nil
	default:
		return d.store.KVRepo(), nil
	}
}

// newContentService builds the provider chain. Without a configured
// provider it falls back to the mock provider serving demo content, and
// reports demo mode.
func (d *deps) newContentService(ctx context.Context) (*content.Service, bool) {
	cfg := content.DefaultConfig()
	cfg.DefaultQuizCount = d.cfg.Quiz.Count

	provider, err := llm.NewProviderFromEnv(ctx, d.store.EventRepo(), d.logger)
	if err != nil {
		fmt.Fprintln(d.errOut, "LLM provider not configured:", err)
		fmt.Fprintln(d.errOut, "Using built-in demo content.")
		provider = llm.NewMockProvider()
	}

	demo := false
	if mock, ok := provider.(*llm.MockProvider); ok {
		mock.Fallback = content.DemoContent
		cfg = cfg.WithoutModels()
		demo = true
	}
	return content.NewService(provider, cfg, d.logger), demo
}

// Close releases every resource, newest first.
func (d *deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

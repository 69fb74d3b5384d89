package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/abhisek/pytutor/internal/app"
	"github.com/abhisek/pytutor/internal/config"
	"github.com/abhisek/pytutor/internal/content"
	"github.com/abhisek/pytutor/internal/gamification"
	"github.com/abhisek/pytutor/internal/llm"
	"github.com/abhisek/pytutor/internal/logging"
	"github.com/abhisek/pytutor/internal/progression"
	"github.com/abhisek/pytutor/internal/session"
	"github.com/abhisek/pytutor/internal/store"
	"github.com/abhisek/pytutor/internal/tutor"
)

// runtime holds what every command needs: configuration, logging and the
// database.
type runtime struct {
	cfg     *config.Config
	store   *store.Store
	closers []func() error
}

// setup loads configuration, installs the logger and opens the store. In
// console mode logs go to a file beside the database unless one is
// configured, so they don't draw over the chat.
func setup(cmd *cobra.Command, console bool) (*runtime, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}

	logOpts := logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File}
	if console && logOpts.File == "" {
		logOpts.File = filepath.Join(filepath.Dir(dbPath), "pytutor.log")
	}
	closeLog, err := logging.Init(logOpts)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug().Str("db", dbPath).Msg("Store opened")

	return &runtime{cfg: cfg, store: st, closers: []func() error{closeLog, st.Close}}, nil
}

// Close releases resources in reverse order of acquisition.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			log.Warn().Err(err).Msg("Failed to release resource")
		}
	}
}

func (rt *runtime) catalog() (*content.Catalog, error) {
	if rt.cfg.Content.File != "" {
		return content.LoadFile(rt.cfg.Content.File)
	}
	return content.Default()
}

// sessions returns the Redis session store when an address is configured
// and the in-process store otherwise.
func (rt *runtime) sessions(ctx context.Context) (session.Store, error) {
	if rt.cfg.Redis.Addr == "" {
		return session.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     rt.cfg.Redis.Addr,
		Password: rt.cfg.Redis.Password,
		DB:       rt.cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", rt.cfg.Redis.Addr, err)
	}
	rt.closers = append(rt.closers, client.Close)
	log.Info().Str("addr", rt.cfg.Redis.Addr).Msg("Using Redis session store")
	return session.NewRedisStore(client, rt.cfg.Redis.TTL), nil
}

// explainer builds the LLM-backed explainer, or returns nil when no
// provider is configured or it cannot be created.
func (rt *runtime) explainer(ctx context.Context) progression.Explainer {
	cfg := rt.cfg.LLM.Discover()
	if !cfg.Enabled() {
		log.Debug().Msg("No LLM provider configured; explanations disabled")
		return nil
	}
	provider, err := llm.NewProvider(ctx, cfg, rt.store.EventRepo())
	if err != nil {
		log.Warn().Err(err).Str("provider", cfg.Provider).Msg("LLM provider unavailable; explanations disabled")
		return nil
	}
	log.Info().Str("provider", cfg.Provider).Msg("LLM explanations enabled")
	return tutor.NewExplainer(provider, tutor.DefaultConfig())
}

// engine wires the progression engine from configuration.
func (rt *runtime) engine(ctx context.Context) (*progression.Engine, error) {
	cat, err := rt.catalog()
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	sessions, err := rt.sessions(ctx)
	if err != nil {
		return nil, err
	}

	opts := []progression.Option{
		progression.WithTestResults(rt.store.TestResultRepo()),
		progression.WithTestQuestionCount(rt.cfg.Test.Questions),
	}
	if x := rt.explainer(ctx); x != nil {
		opts = append(opts, progression.WithExplainer(x))
	}

	ledger := gamification.NewLedger(rt.store.ProgressRepo(), cat)
	return progression.NewEngine(cat, ledger, sessions, opts...), nil
}

// runConsole launches the chat TUI.
func runConsole(cmd *cobra.Command) error {
	rt, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	engine, err := rt.engine(ctx)
	if err != nil {
		return err
	}

	userID, _ := cmd.Flags().GetString("user")
	log.Info().Str("user", userID).Msg("Console started")
	return app.Run(ctx, engine, userID)
}

package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/script2sound/script2sound/internal/eventlog"
	"github.com/script2sound/script2sound/internal/httpapi"
	"github.com/script2sound/script2sound/internal/presets"
	"github.com/script2sound/script2sound/internal/tts"
)

type App struct {
	cfg      Config
	logger   *log.Logger
	db       *pgxpool.Pool
	synth    tts.Synthesizer
	presets  []presets.Preset
	eventLog *eventlog.Logger
}

func New(ctx context.Context, cfg Config, logger *log.Logger) (*App, error) {
	// The event log database is optional; without DATABASE_URL the
	// logger degrades to a no-op.
	var db *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		pool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := pool.Ping(dbCtx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		db = pool
	}

	presetList, err := presets.Load(cfg.PresetsPath)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("load presets: %w", err)
	}

	synth, err := tts.NewGoogleClient(ctx, tts.GoogleConfig{Timeout: cfg.ProviderTimeout})
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("init tts client: %w", err)
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		synth:    synth,
		presets:  presetList,
		eventLog: eventlog.New(db),
	}, nil
}

func (a *App) Router() http.Handler {
	return httpapi.NewRouter(httpapi.RouterConfig{
		AllowedOrigins:      a.cfg.AllowedOrigins,
		DefaultVoice:        a.cfg.DefaultVoice,
		DefaultLanguageCode: a.cfg.DefaultLanguageCode,
		DefaultSpeakingRate: a.cfg.DefaultSpeakingRate,
		StreamChunkChars:    a.cfg.StreamChunkChars,
		AdminAPIKey:         a.cfg.AdminAPIKey,
		JWTSecret:           a.cfg.JWTSecret,
		JWTExpiry:           a.cfg.JWTExpiry,
	}, a.logger, a.synth, a.presets, a.eventLog)
}

func (a *App) Close() error {
	if c, ok := a.synth.(io.Closer); ok {
		_ = c.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	return nil
}

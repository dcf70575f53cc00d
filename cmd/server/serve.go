package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soaringjerry/ahpsurvey/internal/api"
	"github.com/soaringjerry/ahpsurvey/internal/config"
	"github.com/soaringjerry/ahpsurvey/internal/db"
	"github.com/soaringjerry/ahpsurvey/internal/metrics"
	"github.com/soaringjerry/ahpsurvey/internal/middleware"
	"github.com/soaringjerry/ahpsurvey/internal/services"
	"github.com/soaringjerry/ahpsurvey/internal/survey"
	"github.com/soaringjerry/ahpsurvey/internal/utils"
)

const shutdownTimeout = 10 * time.Second

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	def, err := survey.Load(cfg.SurveyPath)
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(cfg, store, def, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("ahpsurvey listening", "addr", cfg.Addr, "sqlite", cfg.DBPath != "", "admin", cfg.AdminEnabled())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore picks SQLite when AHP_DB_PATH is set and the in-memory store
// otherwise. The returned func releases the backend; for the memory store it
// writes the snapshot when AHP_SNAPSHOT_PATH is set.
func openStore(cfg *config.Config, logger *slog.Logger) (api.Store, func(), error) {
	if cfg.DBPath != "" {
		conn, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		applied, err := db.RunMigrations(conn, cfg.MigrationsDir)
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		if len(applied) > 0 {
			logger.Info("applied migrations", "names", applied)
		}
		st, err := db.NewSQLiteStore(conn)
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return st, func() {
			if err := conn.Close(); err != nil {
				logger.Warn("close sqlite", "err", err)
			}
		}, nil
	}

	st, err := api.NewMemoryStoreFromPath(cfg.SnapshotPath)
	switch {
	case err == nil:
		logger.Info("loaded snapshot", "path", cfg.SnapshotPath, "responses", st.CountResponses())
	case errors.Is(err, os.ErrNotExist):
		st = api.NewMemoryStore()
	default:
		return nil, nil, err
	}
	return st, func() {
		if cfg.SnapshotPath == "" {
			return
		}
		if err := api.SaveMemoryStore(st, cfg.SnapshotPath); err != nil {
			logger.Error("save snapshot", "path", cfg.SnapshotPath, "err", err)
			return
		}
		logger.Info("saved snapshot", "path", cfg.SnapshotPath)
	}, nil
}

// newHandler assembles the API, health and metrics routes behind the
// middleware chain.
func newHandler(cfg *config.Config, store api.Store, def *survey.Definition, logger *slog.Logger) http.Handler {
	var admin services.AdminAccount
	if cfg.AdminEnabled() {
		admin = services.AdminAccount{Email: cfg.AdminEmail, PasswordHash: []byte(cfg.AdminPasswordHash)}
	}
	if cfg.JWTSecret == "" && cfg.AdminEnabled() {
		logger.Warn("AHP_JWT_SECRET unset; signing admin tokens with the development secret")
	}

	mux := http.NewServeMux()
	api.NewRouter(store, api.Options{
		Survey:        def,
		Admin:         admin,
		Authenticator: middleware.NewAuthenticator(cfg.Secret()),
		TokenTTL:      cfg.TokenTTL,
		Logger:        logger,
	}).Register(mux)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		locale := middleware.LocaleFromContext(r.Context())
		writeJSON(w, map[string]any{
			"ok":         true,
			"name":       "AHP Survey API",
			"locale":     locale,
			"msg":        utils.T(locale, "health.ok"),
			"responses":  store.CountResponses(),
			"commit":     cfg.Commit,
			"build_time": cfg.BuildTime,
		})
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"commit":     cfg.Commit,
			"build_time": cfg.BuildTime,
		})
	})
	mux.Handle("/metrics", metrics.Handler())
	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	routes := append(api.Routes(), "/health", "/version", "/metrics")
	var h http.Handler = mux
	h = middleware.Locale(cfg.DefaultLocale)(h)
	h = middleware.NoStore(h)
	h = middleware.SecureHeaders(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)
	h = middleware.Observe(logger, routes)(h)
	return h
}

func writeJSON(w http.ResponseWriter, v any) {
	status := http.StatusOK
	b, err := json.Marshal(v)
	if err != nil {
		slog.Default().Error("encode response", "err", err)
		b, _ = json.Marshal(map[string]string{"error": "internal error"})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}

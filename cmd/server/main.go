package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"directory/internal/adapters/email"
	web "directory/internal/adapters/http"
	"directory/internal/adapters/http/middleware"
	"directory/internal/adapters/http/perf"
	"directory/internal/adapters/objectstore"
	"directory/internal/adapters/storage"
	businessStore "directory/internal/adapters/storage/business"
	doctorStore "directory/internal/adapters/storage/doctor"
	donationStore "directory/internal/adapters/storage/donation"
	eventStore "directory/internal/adapters/storage/event"
	hostelStore "directory/internal/adapters/storage/hostel"
	memberStore "directory/internal/adapters/storage/member"
	newsStore "directory/internal/adapters/storage/news"
	"directory/internal/application/listutil"
	"directory/internal/application/orchestrators"
	"directory/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// shutdownGrace bounds how long in-flight requests may finish after a signal.
const shutdownGrace = 20 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_invalid", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := storage.Open(ctx, cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	schema, err := storage.SchemaVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	slog.Info("database_ready", "driver", cfg.DB.Driver, "schema", schema)

	collector := perf.NewCollector()
	timedDB := storage.NewTimedDB(db, collector, cfg.DB.SlowQueryMs)
	stores := web.Stores{
		Members:    memberStore.NewSQLStore(timedDB),
		Businesses: businessStore.NewSQLStore(timedDB),
		Events:     eventStore.NewSQLStore(timedDB),
		Donations:  donationStore.NewSQLStore(timedDB),
		News:       newsStore.NewSQLStore(timedDB),
		Doctors:    doctorStore.NewSQLStore(timedDB),
		Hostel:     hostelStore.NewSQLStore(timedDB),
	}

	objects, localFiles, err := newObjectStore(cfg.Storage)
	if err != nil {
		return err
	}

	csrfKey, err := web.LoadCSRFKey(cfg.HTTP.CSRFKey, cfg.IsProduction())
	if err != nil {
		return err
	}

	handler, err := web.NewMux(stores, web.Options{
		Objects:    objects,
		LocalFiles: localFiles,
		Collector:  collector,
		Notifier: &orchestrators.Notifier{
			Sender: newSender(cfg),
			To:     cfg.Mail.NotifyTo,
		},
		Ping:   timedDB.PingContext,
		Limits: listutil.Limits{Default: cfg.Paging.DefaultSize, Max: cfg.Paging.MaxSize},
		CSRF: middleware.CSRFOptions{
			Key:    csrfKey,
			Secure: cfg.IsProduction(),
		},
		RateLimit:     cfg.HTTP.RateLimit,
		SlowRequestMs: cfg.HTTP.SlowRequestMs,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env, "storage", cfg.Storage.Kind)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newObjectStore selects the attachment store. The local store is also returned so /files can serve it.
func newObjectStore(cfg config.StorageConfig) (objectstore.Store, *objectstore.LocalStore, error) {
	if cfg.Kind == "s3" {
		s3Store, err := objectstore.NewS3Store(objectstore.S3Config{
			Region:       cfg.S3Region,
			Endpoint:     cfg.S3Endpoint,
			BucketPrefix: cfg.S3Prefix,
			PublicBase:   cfg.PublicBaseURL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("object storage: %w", err)
		}
		return s3Store, nil, nil
	}
	local := objectstore.NewLocalStore(cfg.Dir, cfg.PublicBaseURL)
	return local, local, nil
}

func newSender(cfg *config.Config) email.Sender {
	if cfg.Mail.ResendKey != "" {
		slog.Info("email_sender_configured", "provider", "resend")
		return email.NewResendSender(cfg.Mail.ResendKey, cfg.Mail.From)
	}
	if cfg.IsProduction() {
		slog.Warn("email_delivery_disabled", "detail", "DIRECTORY_RESEND_KEY is not set")
	}
	return email.NewNoopSender()
}

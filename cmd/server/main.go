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

	"sportsdesk/internal/adapters/bookingapi"
	"sportsdesk/internal/adapters/broadcast"
	emailPkg "sportsdesk/internal/adapters/email"
	web "sportsdesk/internal/adapters/http"
	"sportsdesk/internal/adapters/http/perf"
	"sportsdesk/internal/adapters/storage"
	"sportsdesk/internal/adapters/storage/collection"
	"sportsdesk/internal/adapters/storage/kv"
	"sportsdesk/internal/adapters/ui"
	"sportsdesk/internal/application/orchestrators"
	"sportsdesk/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: config.LogLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server_terminated", "error", err)
		os.Exit(1)
	}
	slog.Info("server_stopped")
}

func run(ctx context.Context, cfg config.Config) error {
	collector := perf.NewCollector(perf.DefaultRingSize)

	store, closeStore, err := openStore(ctx, cfg, collector)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.User != "" {
		if err := collection.WriteUser(ctx, store, cfg.User); err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
	}

	var mailer emailPkg.Sender
	if cfg.ResendKey != "" {
		mailer = emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
		slog.Info("email_sender_configured", "sender", "resend")
	} else {
		mailer = emailPkg.NewNoopSender()
		slog.Info("email_sender_configured", "sender", "noop")
	}

	var publisher orchestrators.MetricsPublisher = broadcast.NoopPublisher{}
	if cfg.MQTTBroker != "" {
		mqttPub, disconnect, err := broadcast.Dial(broadcast.Options{Broker: cfg.MQTTBroker, Topic: cfg.MQTTTopic})
		if err != nil {
			return err
		}
		defer disconnect()
		publisher = mqttPub
	}

	csrfKey, err := web.DeriveCSRFKey(cfg.Secret)
	if err != nil {
		return err
	}

	desk := orchestrators.NewDesk(orchestrators.DeskDeps{
		Bookings:  bookingapi.NewClient(cfg.BookingAPI, cfg.BookingTimeout),
		Store:     store,
		Events:    cfg.Site.Events,
		Board:     ui.NewBoard(cfg.Site.Slots),
		Publisher: publisher,
		Mailer:    mailer,
		ReplyTo:   cfg.ReplyTo,
		Collector: collector,
	})

	defer desk.Refresher().Flush()

	if res := desk.Refresh(ctx); res.Err != nil {
		slog.Warn("initial_refresh_failed", "error", res.Err)
	}
	if cfg.RefreshInterval > 0 {
		stopCh := make(chan struct{})
		orchestrators.StartRefreshWorker(desk, cfg.RefreshInterval, stopCh)
		defer close(stopCh)
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: web.NewRouter(web.Deps{
			Desk:               desk,
			Collector:          collector,
			Sports:             cfg.Site.Sports,
			CSRFKey:            csrfKey,
			SecureCookies:      cfg.SecureCookies,
			TrustedOrigins:     cfg.TrustedOrigins,
			TrustProxy:         cfg.TrustProxy,
			SlowRequest:        cfg.SlowRequest,
			RateLimitPerSecond: cfg.RateLimit,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_starting", "version", version, "addr", cfg.Addr, "store", cfg.Store,
			"booking_api", cfg.BookingAPI, "schema", storage.LatestSchemaVersion())
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore selects the local store backend.
func openStore(ctx context.Context, cfg config.Config, collector *perf.Collector) (kv.Store, func(), error) {
	switch cfg.Store {
	case config.StoreRedis:
		client := kv.NewRedisClient(kv.RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		store := kv.NewRedisStore(client, cfg.RedisNamespace)
		if err := store.Ping(ctx); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis unreachable at %s: %w", cfg.RedisAddr, err)
		}
		slog.Info("store_opened", "backend", "redis", "addr", cfg.RedisAddr)
		return store, func() { client.Close() }, nil

	case config.StoreMemory:
		slog.Warn("store_opened", "backend", "memory", "note", "registrations are lost on exit")
		return kv.NewMemoryStore(), func() {}, nil

	default:
		db, err := storage.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := storage.MigrateDB(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
		timed := storage.NewTimedDB(db, collector, cfg.SlowQuery)
		slog.Info("store_opened", "backend", "sqlite", "path", cfg.DBPath)
		return kv.NewSQLiteStore(timed), func() { timed.Close() }, nil
	}
}

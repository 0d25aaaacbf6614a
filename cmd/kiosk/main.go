package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"frontdesk_kiosk/internal/adapters/dialog"
	server "frontdesk_kiosk/internal/adapters/http_server"
	"frontdesk_kiosk/internal/adapters/notify"
	"frontdesk_kiosk/internal/adapters/observability"
	redisad "frontdesk_kiosk/internal/adapters/redis"
	"frontdesk_kiosk/internal/adapters/scanner"
	"frontdesk_kiosk/internal/app"
	"frontdesk_kiosk/internal/domain"
	"frontdesk_kiosk/internal/flow"
	"frontdesk_kiosk/internal/shared"
	"frontdesk_kiosk/internal/storage/memory"
	mysqlrepo "frontdesk_kiosk/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// registry
	var registry domain.GuestRegistry
	switch cfg.RegistryBackend {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		registry = mysqlrepo.New(db)
	case "memory", "":
		registry = memory.New()
	default:
		log.Fatal().Str("backend", cfg.RegistryBackend).Msg("unknown REGISTRY_BACKEND")
	}

	// optional lookup cache
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, lookups go to the registry")
		}
		cache = rc
	}

	guests := app.NewGuestService(registry, cache, cfg.CacheTTL)
	if cfg.SeedRegistry {
		seeded, err := guests.Seed(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("seed registry failed")
		}
		log.Info().Bool("seeded", seeded).Msg("guest registry ready")
	}

	notes := notify.NewSnackbar(cfg.NotifyTTL)
	modal := dialog.NewModal()
	feed := scanner.NewFeed()
	poller := scanner.NewPoller(feed, scanner.NewPDF417(true), scanner.NewPDF417(false), cfg.ScanInterval)
	defer poller.Stop()

	fcfg := flow.DefaultConfig()
	fcfg.ProcessingDelay = cfg.ProcessingDelay
	fcfg.SuccessRate = cfg.PaymentSuccessRate
	fcfg.DedupWindow = cfg.ScanDedupWindow
	fcfg.CheckCapacity = cfg.CheckCapacity
	machine := flow.New(fcfg, flow.Deps{
		Guests:    guests,
		Scanner:   poller,
		Notifier:  notes,
		Confirmer: modal,
	})

	// http
	srv := server.New(cfg.HTTPTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Kiosk:         machine,
		Camera:        feed,
		Dialog:        modal,
		Notes:         notes,
		DialogTimeout: cfg.DialogTimeout,
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("registry", cfg.RegistryBackend).Msg("kiosk listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("kiosk stopped")
}

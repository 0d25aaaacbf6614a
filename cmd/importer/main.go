package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"frontdesk_kiosk/internal/adapters/observability"
	redisad "frontdesk_kiosk/internal/adapters/redis"
	"frontdesk_kiosk/internal/app"
	"frontdesk_kiosk/internal/domain"
	"frontdesk_kiosk/internal/shared"
	mysqlrepo "frontdesk_kiosk/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if len(os.Args) != 2 {
		log.Fatal().Msg("usage: importer <dir>")
	}
	dir := os.Args[1]
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("read import dir")
	}

	log.Info().
		Str("dir", dir).
		Int("files", len(entries)).
		Int("workers", cfg.ImportWorkers).
		Msg("importer starting")

	// the importer always writes to the shared registry
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}
	imp := app.NewImportService(mysqlrepo.New(db), cache)

	sem := semaphore.NewWeighted(int64(cfg.ImportWorkers))
	var (
		wg            sync.WaitGroup
		saved, failed atomic.Int64
	)

	for _, e := range entries {
		e := e // per-iteration copy; go directive is 1.21 (pre-1.22 loop semantics)
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("import interrupted")
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			data, err := os.ReadFile(path)
			if err != nil {
				failed.Add(1)
				log.Warn().Err(err).Str("file", path).Msg("read failed")
				return
			}
			n, err := imp.ImportFile(ctx, e.Name(), data)
			saved.Add(int64(n))
			if err != nil {
				failed.Add(1)
				log.Warn().Err(err).Str("file", path).Msg("import failed")
				return
			}
			log.Debug().Str("file", path).Int("profiles", n).Msg("import ok")
		}()
	}

	wg.Wait()
	log.Info().Int64("saved", saved.Load()).Int64("failed", failed.Load()).Msg("import completed")
	if failed.Load() > 0 {
		os.Exit(1)
	}
}

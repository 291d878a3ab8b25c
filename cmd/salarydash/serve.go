package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"salarydash/internal/config"
	"salarydash/internal/dashboard"
	"salarydash/internal/events"
	"salarydash/internal/httpapi"
	"salarydash/internal/scheduler"
	"salarydash/internal/source"
	"salarydash/internal/store"
)

const lockName = "salarydash.lock"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard service (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	log := a.log

	lock := flock.New(filepath.Join(a.dataDir, lockName))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock data dir: %w", err)
	}
	if !locked {
		return fmt.Errorf("another salarydash is already using %s", a.dataDir)
	}
	defer lock.Unlock()

	db, err := store.OpenDir(a.storeDir())
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer db.Close()

	var cfgVal atomic.Value // stores config.Config
	cfgVal.Store(a.cfg)

	client := newClient(a.cfg, log)
	var srcURL atomic.Value
	srcURL.Store(client.URL())

	cache := source.NewCache(client, a.cfg.CacheTTL())
	hub := events.NewHub()
	dash := dashboard.New(cache, log, dashboard.Options{
		Store:     db,
		Publisher: hub,
		SourceURL: func() string { return srcURL.Load().(string) },
	})
	refresher := httpapi.NewRefresher(dash)

	applyConfig := func(cfg config.Config) {
		c := newClient(cfg, log)
		srcURL.Store(c.URL())
		cache.SetSource(c, cfg.CacheTTL())
		log.Info().Str("url", c.URL()).Dur("ttl", cfg.CacheTTL()).Msg("data source reconfigured")
	}

	handler := httpapi.Handler(httpapi.Deps{
		Dashboard:   dash,
		Cache:       cache,
		Refresher:   refresher,
		Hub:         hub,
		DB:          db,
		Log:         log,
		CfgVal:      &cfgVal,
		UserCfgPath: a.cfgPath,
		LoadCfg:     func() (config.Config, error) { return loadConfig(a.cfgPath) },
		ApplyConfig: applyConfig,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// refresh_seconds is read once; changing it takes a restart.
	if every := a.cfg.RefreshInterval(); every > 0 {
		go scheduler.Every(ctx, log, every, "refresh", refresher.Run)
	} else {
		go func() { _ = dash.Load(ctx) }()
	}

	ln, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return err
	}
	log.Info().
		Str("addr", "http://"+ln.Addr().String()).
		Str("config", a.cfgPath).
		Str("db", filepath.Join(a.storeDir(), store.FileName)).
		Msg("salarydash listening")

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"salarydash/internal/config"
	"salarydash/internal/domain"
	"salarydash/internal/logging"
	"salarydash/internal/secrets"
	"salarydash/internal/source"
	"salarydash/internal/store"
)

// app is what every subcommand needs after bootstrapping.
type app struct {
	dataDir string
	cfgPath string
	cfg     config.Config
	log     zerolog.Logger
}

func bootstrap() (*app, error) {
	dataDir := rootArgs.dataDir
	if dataDir == "" {
		dataDir = config.DataDirFromEnv(".")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	cfgPath, err := config.EnsureUserConfig(dataDir, filepath.Join("config", config.FileName))
	if err != nil {
		return nil, fmt.Errorf("config bootstrap failed: %w", err)
	}
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	if rootArgs.logLevel != "" {
		cfg.App.LogLevel = rootArgs.logLevel
	}

	log := logging.New(os.Stderr, cfg.App.LogLevel, rootArgs.pretty)
	return &app{dataDir: dataDir, cfgPath: cfgPath, cfg: cfg, log: log}, nil
}

// loadConfig reads path, applies env overrides and rejects invalid results.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := config.OverlayEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}
	cfg, vr := config.NormalizeAndValidate(cfg)
	if !vr.OK() {
		return cfg, fmt.Errorf("invalid config %s: %v", path, vr.Errors)
	}
	return cfg, nil
}

// storeDir resolves app.data_dir against the data directory.
func (a *app) storeDir() string {
	d := a.cfg.App.DataDir
	if d == "" || d == "." {
		return a.dataDir
	}
	if filepath.IsAbs(d) {
		return d
	}
	return filepath.Join(a.dataDir, d)
}

func newClient(cfg config.Config, log zerolog.Logger) *source.Client {
	return source.New(source.Options{
		URL:     cfg.Source.URL,
		Timeout: cfg.Timeout(),
		MaxRPS:  cfg.Source.MaxRPS,
		Burst:   cfg.Source.Burst,
		Token:   secrets.TokenFunc(cfg.Source.KeyringAccount),
	}, log)
}

// records fetches the dataset once. When offline, or when the fetch fails and
// a stored snapshot exists, the snapshot is used instead.
func (a *app) records(ctx context.Context, offline bool) ([]domain.Record, string, error) {
	if !offline {
		p, err := newClient(a.cfg, a.log).Fetch(ctx)
		if err == nil {
			return p.Records, a.cfg.Source.URL, nil
		}
		a.log.Warn().Err(err).Msg("error fetching data, trying stored snapshot")
	}

	db, err := store.OpenDir(a.storeDir())
	if err != nil {
		return nil, "", err
	}
	defer db.Close()
	s, found, err := db.LoadSnapshot(ctx)
	if err != nil {
		return nil, "", err
	}
	if !found {
		return nil, "", fmt.Errorf("%w: no snapshot in %s", source.ErrNoData, filepath.Join(a.storeDir(), store.FileName))
	}
	return s.Records, "snapshot " + s.FetchedAt.Format("2006-01-02 15:04"), nil
}

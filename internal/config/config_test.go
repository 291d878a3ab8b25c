package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if cfg.Source.URL != "http://localhost:7000/data" {
		t.Fatalf("default source.url = %q", cfg.Source.URL)
	}
	if _, vr := NormalizeAndValidate(cfg); !vr.OK() {
		t.Fatalf("default config invalid: %v", vr.Errors)
	}
}

func TestEnsureUserConfigWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path, err := EnsureUserConfig(dir, filepath.Join(dir, "missing.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, FileName) {
		t.Fatalf("path = %s", path)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.App.Port != Default().App.Port {
		t.Fatalf("port = %d", cfg.App.Port)
	}
}

func TestEnsureUserConfigCopiesDefaultPath(t *testing.T) {
	dir := t.TempDir()
	def := filepath.Join(dir, "seed.yml")
	if err := os.WriteFile(def, []byte("app:\n  port: 9999\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	userDir := filepath.Join(dir, "data")
	path, err := EnsureUserConfig(userDir, def)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.App.Port != 9999 {
		t.Fatalf("port = %d, want 9999", cfg.App.Port)
	}
	if cfg.Source.URL != Default().Source.URL {
		t.Fatalf("partial file should keep default source.url, got %q", cfg.Source.URL)
	}

	// second call keeps the existing file
	if err := os.WriteFile(def, []byte("app:\n  port: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := EnsureUserConfig(userDir, def); err != nil {
		t.Fatal(err)
	}
	if cfg, _ := Load(path); cfg.App.Port != 9999 {
		t.Fatalf("existing config overwritten, port = %d", cfg.App.Port)
	}
}

func TestNormalizeAndValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantErr  string
		wantWarn string
	}{
		{name: "bad port", mutate: func(c *Config) { c.App.Port = 0 }, wantErr: "app.port"},
		{name: "relative url", mutate: func(c *Config) { c.Source.URL = "/data" }, wantErr: "source.url"},
		{name: "ftp url", mutate: func(c *Config) { c.Source.URL = "ftp://x/data" }, wantErr: "source.url"},
		{name: "missing url", mutate: func(c *Config) { c.Source.URL = "  " }, wantErr: "source.url is required"},
		{name: "bad level", mutate: func(c *Config) { c.App.LogLevel = "loud" }, wantErr: "app.log_level"},
		{name: "zero timeout", mutate: func(c *Config) { c.Source.TimeoutSeconds = 0 }, wantErr: "timeout_seconds"},
		{name: "negative ttl", mutate: func(c *Config) { c.Source.CacheTTLSeconds = -1 }, wantErr: "cache_ttl_seconds"},
		{name: "fast refresh", mutate: func(c *Config) { c.Source.RefreshSeconds = 1 }, wantWarn: "refresh_seconds"},
		{name: "public host", mutate: func(c *Config) { c.App.Host = "0.0.0.0" }, wantWarn: "app.host"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			_, vr := NormalizeAndValidate(cfg)
			if tt.wantErr != "" && !containsAny(vr.Errors, tt.wantErr) {
				t.Errorf("errors %v missing %q", vr.Errors, tt.wantErr)
			}
			if tt.wantErr == "" && !vr.OK() {
				t.Errorf("unexpected errors %v", vr.Errors)
			}
			if tt.wantWarn != "" && !containsAny(vr.Warnings, tt.wantWarn) {
				t.Errorf("warnings %v missing %q", vr.Warnings, tt.wantWarn)
			}
		})
	}
}

func TestNormalizeTrims(t *testing.T) {
	cfg := Default()
	cfg.Source.URL = "  http://localhost:7000/data  "
	cfg.App.LogLevel = " DEBUG "
	cfg.App.Host = ""
	out, vr := NormalizeAndValidate(cfg)
	if !vr.OK() {
		t.Fatal(vr.Errors)
	}
	if out.Source.URL != "http://localhost:7000/data" || out.App.LogLevel != "debug" || out.App.Host != "127.0.0.1" {
		t.Fatalf("normalized = %+v", out)
	}
}

func TestSaveAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	cfg := Default()
	cfg.App.Port = 40000
	if err := SaveAtomic(path, cfg); err != nil {
		t.Fatal(err)
	}
	cfg.App.Port = 40001
	if err := SaveAtomic(path, cfg); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil || got.App.Port != 40001 {
		t.Fatalf("Load = %d, %v", got.App.Port, err)
	}
	bak, err := Load(path + ".bak")
	if err != nil || bak.App.Port != 40000 {
		t.Fatalf("backup = %d, %v", bak.App.Port, err)
	}

	cfg.App.Port = -1
	if err := SaveAtomic(path, cfg); err == nil || !strings.Contains(err.Error(), "app.port") {
		t.Fatalf("SaveAtomic invalid = %v", err)
	}
}

func TestOverlayEnv(t *testing.T) {
	env := map[string]string{
		"SALARYDASH_SOURCE_URL":      "http://data.internal:7000/data",
		"SALARYDASH_PORT":            "8081",
		"SALARYDASH_LOG_LEVEL":       "debug",
		"SALARYDASH_REFRESH_SECONDS": "60",
	}
	cfg := Default()
	if err := OverlayEnv(&cfg, func(k string) string { return env[k] }); err != nil {
		t.Fatal(err)
	}
	if cfg.Source.URL != env["SALARYDASH_SOURCE_URL"] || cfg.App.Port != 8081 || cfg.App.LogLevel != "debug" || cfg.Source.RefreshSeconds != 60 {
		t.Fatalf("overlay = %+v", cfg)
	}

	env["SALARYDASH_PORT"] = "eighty"
	if err := OverlayEnv(&cfg, func(k string) string { return env[k] }); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
}

func containsAny(xs []string, sub string) bool {
	for _, x := range xs {
		if strings.Contains(x, sub) {
			return true
		}
	}
	return false
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const envPrefix = "SALARYDASH_"

// DataDirFromEnv returns the data directory override, or def.
func DataDirFromEnv(def string) string {
	if v := strings.TrimSpace(os.Getenv(envPrefix + "DATA_DIR")); v != "" {
		return v
	}
	return def
}

// OverlayEnv applies SALARYDASH_* environment overrides on top of cfg.
// Unset variables leave the file values alone.
func OverlayEnv(cfg *Config, getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	str := func(name string, dst *string) {
		if v := strings.TrimSpace(getenv(envPrefix + name)); v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v := strings.TrimSpace(getenv(envPrefix + name))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = n
		return nil
	}

	str("HOST", &cfg.App.Host)
	str("LOG_LEVEL", &cfg.App.LogLevel)
	str("SOURCE_URL", &cfg.Source.URL)
	str("KEYRING_ACCOUNT", &cfg.Source.KeyringAccount)
	if err := num("PORT", &cfg.App.Port); err != nil {
		return err
	}
	if err := num("CACHE_TTL_SECONDS", &cfg.Source.CacheTTLSeconds); err != nil {
		return err
	}
	return num("REFRESH_SECONDS", &cfg.Source.RefreshSeconds)
}

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims string fields, fills empty ones that have an
// obvious default and reports what is still wrong.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	out.App.Host = strings.TrimSpace(out.App.Host)
	out.App.DataDir = strings.TrimSpace(out.App.DataDir)
	out.App.LogLevel = strings.ToLower(strings.TrimSpace(out.App.LogLevel))
	out.Source.URL = strings.TrimSpace(out.Source.URL)
	out.Source.KeyringAccount = strings.TrimSpace(out.Source.KeyringAccount)

	if out.App.Host == "" {
		out.App.Host = "127.0.0.1"
	}
	if out.App.LogLevel == "" {
		out.App.LogLevel = "info"
	}

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}
	if _, err := zerolog.ParseLevel(out.App.LogLevel); err != nil {
		res.addErr("app.log_level %q is not a known level", out.App.LogLevel)
	}
	if out.App.Host != "127.0.0.1" && out.App.Host != "localhost" && out.App.Host != "::1" {
		res.addWarn("app.host is %q; the dashboard will be reachable from other machines.", out.App.Host)
	}

	if out.Source.URL == "" {
		res.addErr("source.url is required")
	} else if u, err := url.Parse(out.Source.URL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		res.addErr("source.url must be an absolute http(s) URL, got %q", out.Source.URL)
	}

	if out.Source.TimeoutSeconds <= 0 {
		res.addErr("source.timeout_seconds must be > 0")
	}
	if out.Source.CacheTTLSeconds < 0 {
		res.addErr("source.cache_ttl_seconds must be >= 0")
	} else if out.Source.CacheTTLSeconds == 0 {
		res.addWarn("source.cache_ttl_seconds is 0; the dataset is only refetched on refresh.")
	}
	if out.Source.RefreshSeconds < 0 {
		res.addErr("source.refresh_seconds must be >= 0")
	} else if out.Source.RefreshSeconds > 0 && out.Source.RefreshSeconds < 5 {
		res.addWarn("source.refresh_seconds is very low (%d) and may hammer the data API.", out.Source.RefreshSeconds)
	}
	if out.Source.MaxRPS < 0 {
		res.addErr("source.max_rps must be >= 0")
	}
	if out.Source.Burst < 0 {
		res.addErr("source.burst must be >= 0")
	}

	return out, res
}

package httpapi

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"salarydash/internal/config"
	"salarydash/internal/dashboard"
	"salarydash/internal/events"
	"salarydash/internal/source"
	"salarydash/internal/store"
)

type Deps struct {
	Dashboard *dashboard.Dashboard
	Cache     *source.Cache
	Refresher *Refresher
	Hub       *events.Hub
	DB        *store.DB // optional
	Log       zerolog.Logger

	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// ApplyConfig rebuilds whatever depends on a freshly saved config.
	ApplyConfig func(cfg config.Config)
}

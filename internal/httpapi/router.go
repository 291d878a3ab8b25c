package httpapi

import "net/http"

// NewMux registers every route. Handler wraps it with the middleware chain.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Dashboard page
	dh := DashboardHandler{Dash: d.Dashboard, Cache: d.Cache, Log: d.Log}
	mux.HandleFunc("/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: dh.Page,
	}))
	mux.HandleFunc("/sort/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: dh.SortPage, // /sort/{key}
	}))
	mux.HandleFunc("/year/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: dh.YearPage, // /year/{year}
	}))
	mux.HandleFunc("/chart.png", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: dh.ChartPNG,
	}))

	// Dashboard API
	mux.HandleFunc("/api/summary", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: dh.Summary,
	}))
	mux.HandleFunc("/api/sort", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dh.Sort,
	}))
	mux.HandleFunc("/api/select", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dh.Select,
	}))
	mux.HandleFunc("/api/titles", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: dh.Titles,
	}))
	mux.HandleFunc("/api/chart", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: dh.Chart,
	}))
	mux.HandleFunc("/api/records", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: dh.Records,
	}))

	rh := RefreshHandler{Refresher: d.Refresher, Dash: d.Dashboard}
	mux.HandleFunc("/api/refresh", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: rh.Run,
	}))
	mux.HandleFunc("/api/refresh/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.Status,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		Apply:       d.ApplyConfig,
		Hub:         d.Hub,
		Log:         d.Log,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets (use cfgVal, NOT a snapshot cfg)
	sh := SecretsHandler{CfgVal: d.CfgVal, Cache: d.Cache}
	mux.HandleFunc("/api/secrets/token", methodMux(map[string]http.HandlerFunc{
		http.MethodPost:   sh.SetToken,
		http.MethodDelete: sh.DeleteToken,
	}))

	// Snapshot store
	dbh := DBHandler{DB: d.DB}
	mux.HandleFunc("/db/snapshot", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: dbh.Snapshot,
	}))
	mux.HandleFunc("/db/checkpoint", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dbh.Checkpoint,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	hh := HealthHandler{Dash: d.Dashboard, Hub: d.Hub}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}

func Handler(d Deps) http.Handler {
	return Chain(NewMux(d), RequestID, Recover(d.Log), AccessLog(d.Log), Cors)
}

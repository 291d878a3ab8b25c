package httpapi

import (
	"net/http"
	"time"

	"salarydash/internal/dashboard"
	"salarydash/internal/events"
)

type HealthHandler struct {
	Dash *dashboard.Dashboard
	Hub  *events.Hub
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.Dash.State()
	out := map[string]any{
		"ok":       true,
		"time":     time.Now().UTC().Format(time.RFC3339),
		"loaded":   !st.LoadedAt.IsZero(),
		"snapshot": st.FromSnapshot,
		"events":   h.Hub.Stats(),
	}
	if st.LoadError != "" {
		out["last_error"] = st.LoadError
	}
	writeJSON(w, out)
}

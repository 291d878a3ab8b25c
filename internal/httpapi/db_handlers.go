package httpapi

import (
	"net/http"

	"salarydash/internal/store"
)

type DBHandler struct {
	DB *store.DB
}

// Checkpoint folds the WAL back into the snapshot database. Loopback only.
func (h DBHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	if !isLocal(r) {
		WriteError(w, r, http.StatusForbidden, "forbidden", "forbidden")
		return
	}
	if h.DB == nil {
		WriteError(w, r, http.StatusServiceUnavailable, "no_store", "snapshot store disabled")
		return
	}
	if _, err := h.DB.Pool.ExecContext(r.Context(), `PRAGMA wal_checkpoint(FULL);`); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "checkpoint_failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Snapshot reports what the store holds, per year.
func (h DBHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		WriteError(w, r, http.StatusServiceUnavailable, "no_store", "snapshot store disabled")
		return
	}
	s, found, err := h.DB.LoadSnapshot(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_failed", err.Error())
		return
	}
	counts, err := store.YearCounts(r.Context(), h.DB.Pool)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_failed", err.Error())
		return
	}
	out := map[string]any{"found": found, "records": len(s.Records), "years": counts}
	if found {
		out["fetched_at"] = s.FetchedAt
		out["source_url"] = s.SourceURL
		out["rejected"] = s.Rejected
	}
	writeJSON(w, out)
}

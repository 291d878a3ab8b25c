package httpapi

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"salarydash/internal/dashboard"
)

var ErrRefreshRunning = errors.New("refresh already running")

// Refresher runs forced reloads one at a time and remembers how the last one
// went. The HTTP handler and the background schedule share it.
type Refresher struct {
	dash    *dashboard.Dashboard
	running atomic.Bool
	status  atomic.Value // RefreshStatus
	now     func() time.Time
}

func NewRefresher(d *dashboard.Dashboard) *Refresher {
	r := &Refresher{dash: d, now: time.Now}
	r.status.Store(RefreshStatus{})
	return r
}

func (r *Refresher) Status() RefreshStatus {
	return r.status.Load().(RefreshStatus)
}

// Run reloads the dataset from the data API.
func (r *Refresher) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrRefreshRunning
	}
	defer r.running.Store(false)

	st := r.Status()
	st.Running = true
	st.LastRunAt = r.now().Format(time.RFC3339)
	r.status.Store(st)

	err := r.dash.Reload(ctx)

	next := r.Status()
	next.Running = false
	next.LastRunAt = r.now().Format(time.RFC3339)
	next.Years = len(r.dash.State().Jobs)
	if err != nil {
		next.LastError = err.Error()
	} else {
		next.LastError = ""
		next.LastOkAt = next.LastRunAt
	}
	r.status.Store(next)
	return err
}

type RefreshHandler struct {
	Refresher *Refresher
	Dash      *dashboard.Dashboard
}

func (h RefreshHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Refresher.Status())
}

func (h RefreshHandler) Run(w http.ResponseWriter, r *http.Request) {
	if err := h.Refresher.Run(r.Context()); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, h.Dash.State())
}

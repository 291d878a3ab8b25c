package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"salarydash/internal/dashboard"
	"salarydash/internal/domain"
	"salarydash/internal/render"
	"salarydash/internal/source"
)

// DashboardHandler serves the dashboard both as an HTML page and as JSON.
// Page routes answer with a redirect back to "/" so links work without
// scripting.
type DashboardHandler struct {
	Dash  *dashboard.Dashboard
	Cache *source.Cache
	Log   zerolog.Logger
}

func (h DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	// Load failures are logged by the dashboard and the page shows whatever
	// state it has.
	_ = h.Dash.EnsureLoaded(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := render.WritePage(w, h.Dash.State()); err != nil {
		h.Log.Error().Err(err).Msg("render page")
	}
}

func (h DashboardHandler) SortPage(w http.ResponseWriter, r *http.Request) {
	key, err := domain.ParseSortKey(strings.TrimPrefix(r.URL.Path, "/sort/"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	h.Dash.Sort(r.Context(), key)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h DashboardHandler) YearPage(w http.ResponseWriter, r *http.Request) {
	year, ok := pathYear(r.URL.Path, "/year/")
	if !ok {
		http.Error(w, "invalid year", http.StatusNotFound)
		return
	}
	// A failed drill-down stays empty on the page.
	_, _ = h.Dash.Select(r.Context(), year)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h DashboardHandler) ChartPNG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if err := render.ChartPNG(w, h.Dash.State().Jobs); err != nil {
		h.Log.Warn().Err(err).Msg("chart fell back to blank image")
	}
}

func (h DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	_ = h.Dash.EnsureLoaded(r.Context())
	writeJSON(w, h.Dash.State())
}

func (h DashboardHandler) Sort(w http.ResponseWriter, r *http.Request) {
	key, err := domain.ParseSortKey(r.URL.Query().Get("key"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, h.Dash.Sort(r.Context(), key))
}

func (h DashboardHandler) Select(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("year")))
	if err != nil {
		writeErr(w, r, errInvalidYear)
		return
	}
	st, err := h.Dash.Select(r.Context(), year)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, st)
}

func (h DashboardHandler) Titles(w http.ResponseWriter, r *http.Request) {
	st := h.Dash.State()
	total := 0
	for _, t := range st.Titles {
		total += t.Count
	}
	titles := st.Titles
	if titles == nil {
		titles = []domain.TitleCount{}
	}
	writeJSON(w, titlesResponse{
		Selected: st.Selected,
		Year:     st.SelectedYear,
		Token:    st.TitlesToken,
		Titles:   titles,
		Total:    total,
	})
}

func (h DashboardHandler) Chart(w http.ResponseWriter, r *http.Request) {
	_ = h.Dash.EnsureLoaded(r.Context())
	writeJSON(w, render.NewChartData(h.Dash.State().Jobs))
}

// Records exports the dataset currently held, passthrough fields included.
func (h DashboardHandler) Records(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Cache.Current()
	if err != nil {
		writeErr(w, r, err)
		return
	}
	b, err := source.EncodeRecords(snap.Records)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Record-Count", strconv.Itoa(len(snap.Records)))
	_, _ = w.Write(b)
}

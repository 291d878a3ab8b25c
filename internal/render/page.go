// Package render turns dashboard state into HTML and chart images.
package render

import (
	_ "embed"
	"html/template"
	"io"
	"strconv"
	"time"

	"salarydash/internal/dashboard"
	"salarydash/internal/domain"
)

//go:embed page.html.tmpl
var pageTmpl string

var page = template.Must(template.New("page").Parse(pageTmpl))

var headerLabels = map[domain.SortKey]string{
	domain.SortYear:          "Year",
	domain.SortTotalJobs:     "Number of Jobs",
	domain.SortAverageSalary: "Average Salary (USD)",
}

type Header struct {
	Key    string
	Label  string
	Symbol string
	Href   string
}

type Row struct {
	domain.YearSummary
	Href     string
	Selected bool
}

type Page struct {
	Title        string
	Headers      []Header
	Rows         []Row
	ChartSrc     string
	Selected     bool
	SelectedYear int
	Titles       []domain.TitleCount
	LoadedAt     string
	FromSnapshot bool
}

// NewPage builds the view model for s.
func NewPage(s dashboard.State) Page {
	p := Page{
		Title:        "Main Table",
		ChartSrc:     "/chart.png",
		Selected:     s.Selected,
		SelectedYear: s.SelectedYear,
		Titles:       s.Titles,
		FromSnapshot: s.FromSnapshot,
	}
	if !s.LoadedAt.IsZero() {
		p.LoadedAt = s.LoadedAt.UTC().Format(time.RFC3339)
		p.ChartSrc += "?v=" + strconv.FormatInt(s.LoadedAt.UnixNano(), 36)
	}
	for _, k := range domain.SortKeys {
		p.Headers = append(p.Headers, Header{
			Key:    string(k),
			Label:  headerLabels[k],
			Symbol: s.Sort.Symbol(k),
			Href:   "/sort/" + string(k),
		})
	}
	for _, r := range s.Sorted {
		p.Rows = append(p.Rows, Row{
			YearSummary: r,
			Href:        "/year/" + strconv.Itoa(r.Year),
			Selected:    s.Selected && s.SelectedYear == r.Year,
		})
	}
	return p
}

// WritePage renders the dashboard page for s.
func WritePage(w io.Writer, s dashboard.State) error {
	return page.Execute(w, NewPage(s))
}

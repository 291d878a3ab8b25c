package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"salarydash/internal/dashboard"
	"salarydash/internal/domain"
)

func loadedState() dashboard.State {
	recs := []domain.Record{
		{Year: 2021, Salary: "100.00", Title: "Analyst"},
		{Year: 2020, Salary: "50", Title: "Data <Scientist>"},
		{Year: 2020, Salary: "0", Title: "Intern"},
	}
	return dashboard.Loaded(dashboard.Initial(), recs, nil, time.Unix(1700000000, 0))
}

func renderDoc(t *testing.T, s dashboard.State) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	if err := WritePage(&buf, s); err != nil {
		t.Fatalf("WritePage: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestWritePageSummaryTable(t *testing.T) {
	doc := renderDoc(t, loadedState())

	var headers []string
	doc.Find("#summary thead th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(th.Text()))
	})
	want := []string{"Year ↑", "Number of Jobs", "Average Salary (USD)"}
	if strings.Join(headers, "|") != strings.Join(want, "|") {
		t.Fatalf("headers = %q, want %q", headers, want)
	}

	rows := doc.Find("#summary tbody tr")
	if rows.Length() != 2 {
		t.Fatalf("rows = %d", rows.Length())
	}
	first := rows.First()
	if y, _ := first.Attr("data-year"); y != "2021" {
		t.Fatalf("first row year = %s", y)
	}
	cells := first.Find("td")
	if cells.Eq(1).Text() != "1" || cells.Eq(2).Text() != "100.00" {
		t.Fatalf("first row = %q %q", cells.Eq(1).Text(), cells.Eq(2).Text())
	}
	if href, _ := first.Find("a").Attr("href"); href != "/year/2021" {
		t.Fatalf("row link = %s", href)
	}
	if doc.Find("#drilldown").Length() != 0 {
		t.Fatal("drill-down shown without a selection")
	}
	if src, _ := doc.Find("img#chart").Attr("src"); !strings.HasPrefix(src, "/chart.png?v=") {
		t.Fatalf("chart src = %s", src)
	}
}

func TestWritePageSortSymbol(t *testing.T) {
	s := dashboard.SortedBy(loadedState(), domain.SortAverageSalary)
	s = dashboard.SortedBy(s, domain.SortAverageSalary)
	doc := renderDoc(t, s)

	th := doc.Find(`#summary th[data-key="averageSalary"]`)
	if got := strings.TrimSpace(th.Text()); got != "Average Salary (USD) ↓" {
		t.Fatalf("header = %q", got)
	}
	if got := strings.TrimSpace(doc.Find(`#summary th[data-key="year"]`).Text()); got != "Year" {
		t.Fatalf("year header = %q", got)
	}
	if y, _ := doc.Find("#summary tbody tr").First().Attr("data-year"); y != "2021" {
		t.Fatalf("first row after descending sort = %s", y)
	}
}

func TestWritePageDrillDown(t *testing.T) {
	s := dashboard.Selected(loadedState(), 2020, 1)
	s, _ = dashboard.TitlesLoaded(s, 1, []domain.TitleCount{
		{Title: "Data <Scientist>", Count: 1},
		{Title: "Intern", Count: 1},
	})
	doc := renderDoc(t, s)

	if got := doc.Find("#drilldown h2").Text(); got != "Job Titles for 2020" {
		t.Fatalf("subtitle = %q", got)
	}
	rows := doc.Find("#titles tbody tr")
	if rows.Length() != 2 {
		t.Fatalf("title rows = %d", rows.Length())
	}
	if got := rows.First().Find("td").First().Text(); got != "Data <Scientist>" {
		t.Fatalf("escaped title = %q", got)
	}
	if !doc.Find(`#summary tr[data-year="2020"]`).HasClass("selected") {
		t.Fatal("selected row not marked")
	}
}

func TestWritePageEmpty(t *testing.T) {
	doc := renderDoc(t, dashboard.Initial())
	if n := doc.Find("#summary tbody tr").Length(); n != 0 {
		t.Fatalf("rows = %d", n)
	}
	if src, _ := doc.Find("img#chart").Attr("src"); src != "/chart.png" {
		t.Fatalf("chart src = %s", src)
	}
}

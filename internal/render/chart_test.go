package render

import (
	"bytes"
	"image/png"
	"reflect"
	"testing"

	"salarydash/internal/domain"
)

func TestNewChartData(t *testing.T) {
	rows := []domain.YearSummary{
		{Year: 2022, TotalJobs: 4},
		{Year: 2020, TotalJobs: 1},
	}
	got := NewChartData(rows)
	if !reflect.DeepEqual(got.Labels, []int{2022, 2020}) {
		t.Fatalf("labels = %v", got.Labels)
	}
	if len(got.Datasets) != 1 {
		t.Fatalf("datasets = %d", len(got.Datasets))
	}
	ds := got.Datasets[0]
	if ds.Label != "Total Jobs" || ds.Fill || ds.BorderColor != "rgba(75,192,192,1)" || !reflect.DeepEqual(ds.Data, []int{4, 1}) {
		t.Fatalf("dataset = %+v", ds)
	}

	empty := NewChartData(nil)
	if len(empty.Labels) != 0 || len(empty.Datasets[0].Data) != 0 {
		t.Fatalf("empty = %+v", empty)
	}
}

func TestChartPNG(t *testing.T) {
	tests := []struct {
		name string
		rows []domain.YearSummary
	}{
		{name: "empty"},
		{name: "single year", rows: []domain.YearSummary{{Year: 2020, TotalJobs: 3}}},
		{name: "all zero", rows: []domain.YearSummary{{Year: 2020}, {Year: 2021}}},
		{name: "several years", rows: []domain.YearSummary{
			{Year: 2020, TotalJobs: 10}, {Year: 2021, TotalJobs: 40}, {Year: 2022, TotalJobs: 25},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := ChartPNG(&buf, tt.rows); err != nil {
				t.Fatalf("ChartPNG: %v", err)
			}
			img, err := png.Decode(&buf)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if b := img.Bounds(); b.Dx() != ChartWidth || b.Dy() != ChartHeight {
				t.Fatalf("size = %v", b)
			}
		})
	}
}

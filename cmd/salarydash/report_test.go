package main

import (
	"os"
	"path/filepath"
	"testing"

	"salarydash/internal/config"
	"salarydash/internal/domain"
)

func TestSummaryTable(t *testing.T) {
	data := summaryTable([]domain.YearSummary{
		{Year: 2020, TotalJobs: 1234, AverageSalary: "100000.50"},
		{Year: 2021, TotalJobs: 0, AverageSalary: "0.00"},
	})
	if len(data) != 3 {
		t.Fatalf("rows = %d", len(data))
	}
	if got := data[0]; got[0] != "Year" || got[1] != "Number of Jobs" || got[2] != "Average Salary (USD)" {
		t.Fatalf("header = %v", got)
	}
	if got := data[1]; got[0] != "2020" || got[1] != "1,234" || got[2] != "$100,000.50" {
		t.Fatalf("row = %v", got)
	}
	if got := data[2][2]; got != "$0.00" {
		t.Fatalf("zero average = %q", got)
	}
}

func TestTitlesTable(t *testing.T) {
	data := titlesTable([]domain.TitleCount{{Title: "Analyst", Count: 2}})
	if len(data) != 2 || data[0][0] != "Job Title" || data[0][1] != "No. Of Jobs" || data[1][1] != "2" {
		t.Fatalf("table = %v", data)
	}
}

func TestStoreDir(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "db")
	tests := []struct {
		cfgDir string
		want   string
	}{
		{".", "/data"},
		{"", "/data"},
		{"snap", filepath.Join("/data", "snap")},
		{abs, abs},
	}
	for _, tt := range tests {
		a := &app{dataDir: "/data"}
		a.cfg.App.DataDir = tt.cfgDir
		if got := a.storeDir(); got != tt.want {
			t.Errorf("storeDir(%q) = %q, want %q", tt.cfgDir, got, tt.want)
		}
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	if err := os.WriteFile(path, []byte("app:\n  port: 70000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Fatal("expected invalid port to be rejected")
	}

	if err := os.WriteFile(path, []byte("source:\n  url: http://example.test/data\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Source.URL != "http://example.test/data" || cfg.App.Port != 38472 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

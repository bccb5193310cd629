package service

import (
	"testing"
	"time"

	"github.com/pixelpulse/internal/db"
)

func TestOverviewAggregatesAllLabels(t *testing.T) {
	gdb, cleanup := setupVisitTestDB(t)
	defer cleanup()

	visits := NewVisitService(gdb)
	stats := NewStatsService(visits)

	day := time.Date(2026, 8, 10, 8, 0, 0, 0, time.UTC)
	seedVisit(t, visits, db.Visit{Label: "big", IPHash: "h1", CreatedAt: day})
	seedVisit(t, visits, db.Visit{Label: "big", IPHash: "h1", CreatedAt: day})
	seedVisit(t, visits, db.Visit{Label: "big", IPHash: "h2", IsBot: true, BotName: strPtr("curl"), CreatedAt: day})
	seedVisit(t, visits, db.Visit{Label: "small", IPHash: "h3", CreatedAt: day})

	overview, err := stats.Overview()
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}

	if overview.TotalVisits != 4 || overview.UniqueVisitors != 3 || overview.BotVisits != 1 {
		t.Fatalf("unexpected overview: %+v", overview)
	}

	if len(overview.Labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(overview.Labels))
	}
	if overview.Labels[0].Label != "big" || overview.Labels[0].Total != 3 || overview.Labels[0].Unique != 2 || overview.Labels[0].Bots != 1 {
		t.Fatalf("unexpected first label: %+v", overview.Labels[0])
	}
	if overview.Labels[1].Label != "small" {
		t.Fatalf("unexpected second label: %+v", overview.Labels[1])
	}
}

func TestLabelReportTimelineAndBreakdowns(t *testing.T) {
	gdb, cleanup := setupVisitTestDB(t)
	defer cleanup()

	visits := NewVisitService(gdb)
	stats := NewStatsService(visits)

	day1 := time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	seedVisit(t, visits, db.Visit{Label: "repo-x", IPHash: "h1", Country: strPtr("US"), Browser: strPtr("Chrome 120"), Referer: strPtr("https://github.com"), CreatedAt: day1})
	seedVisit(t, visits, db.Visit{Label: "repo-x", IPHash: "h2", Country: strPtr("US"), CreatedAt: day1})
	seedVisit(t, visits, db.Visit{Label: "repo-x", IPHash: "h1", CreatedAt: day2})
	// 其它标签的访问不应混入
	seedVisit(t, visits, db.Visit{Label: "other", IPHash: "h9", CreatedAt: day1})

	report, err := stats.LabelReport("repo-x", ScanWindow{}, true)
	if err != nil {
		t.Fatalf("LabelReport returned error: %v", err)
	}

	if report.Total != 3 || report.Unique != 2 || report.Bots != 0 {
		t.Fatalf("unexpected label report: %+v", report)
	}

	if len(report.Timeline) != 2 {
		t.Fatalf("expected 2 timeline days, got %d", len(report.Timeline))
	}
	if report.Timeline[0].Date != "2026-08-10" || report.Timeline[0].Visits != 2 || report.Timeline[0].Unique != 2 {
		t.Fatalf("unexpected first day: %+v", report.Timeline[0])
	}
	if report.Timeline[1].Date != "2026-08-11" || report.Timeline[1].Visits != 1 || report.Timeline[1].Unique != 1 {
		t.Fatalf("unexpected second day: %+v", report.Timeline[1])
	}

	countries := make(map[string]int)
	for _, entry := range report.Countries {
		countries[entry.Name] = entry.Visits
	}
	if countries["US"] != 2 || countries["Unknown"] != 1 {
		t.Fatalf("unexpected countries: %+v", report.Countries)
	}

	if len(report.Referers) != 1 || report.Referers[0].Name != "https://github.com" {
		t.Fatalf("unexpected referers: %+v", report.Referers)
	}
}

func TestLabelReportExcludesBots(t *testing.T) {
	gdb, cleanup := setupVisitTestDB(t)
	defer cleanup()

	visits := NewVisitService(gdb)
	stats := NewStatsService(visits)

	day := time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC)
	seedVisit(t, visits, db.Visit{Label: "repo-x", IPHash: "h1", CreatedAt: day})
	seedVisit(t, visits, db.Visit{Label: "repo-x", IPHash: "h2", IsBot: true, BotName: strPtr("Googlebot"), CreatedAt: day})

	report, err := stats.LabelReport("repo-x", ScanWindow{}, false)
	if err != nil {
		t.Fatalf("LabelReport returned error: %v", err)
	}

	if report.Total != 1 || report.Bots != 0 {
		t.Fatalf("expected bots excluded, got %+v", report)
	}
	if len(report.TopBots) != 0 {
		t.Fatalf("expected empty bot breakdown, got %+v", report.TopBots)
	}
}

func TestLabelReportWindowFilter(t *testing.T) {
	gdb, cleanup := setupVisitTestDB(t)
	defer cleanup()

	visits := NewVisitService(gdb)
	stats := NewStatsService(visits)

	day := time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC)
	seedVisit(t, visits, db.Visit{Label: "repo-x", IPHash: "h1", CreatedAt: day})
	seedVisit(t, visits, db.Visit{Label: "repo-x", IPHash: "h2", CreatedAt: day.AddDate(0, 0, 5)})

	window := ScanWindow{Since: day.AddDate(0, 0, 2)}
	report, err := stats.LabelReport("repo-x", window, true)
	if err != nil {
		t.Fatalf("LabelReport returned error: %v", err)
	}

	if report.Total != 1 || report.Unique != 1 {
		t.Fatalf("expected windowed report with 1 visit, got %+v", report)
	}
}

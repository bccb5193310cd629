package service

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/pixelpulse/internal/db"
)

// LabelSummary 是总览里单个标签的计数。
type LabelSummary struct {
	Label  string `json:"label"`
	Total  int    `json:"total"`
	Unique int    `json:"unique"`
	Bots   int    `json:"bots"`
}

// Overview 汇总全部标签的整体数据。
type Overview struct {
	TotalVisits    int            `json:"totalVisits"`
	UniqueVisitors int            `json:"uniqueVisitors"`
	BotVisits      int            `json:"botVisits"`
	Labels         []LabelSummary `json:"labels"`
}

// LabelTimelinePoint 是单标签报告时间线上的一天（UTC 日期）。
type LabelTimelinePoint struct {
	Date   string `json:"date"`
	Visits int    `json:"visits"`
	Unique int    `json:"unique"`
}

// LabelReport 是单标签的完整统计。
type LabelReport struct {
	Label     string               `json:"label"`
	Total     int                  `json:"total"`
	Unique    int                  `json:"unique"`
	Bots      int                  `json:"bots"`
	Timeline  []LabelTimelinePoint `json:"timeline"`
	Countries []BreakdownEntry     `json:"countries"`
	Devices   []BreakdownEntry     `json:"devices"`
	Browsers  []BreakdownEntry     `json:"browsers"`
	TopBots   []BreakdownEntry     `json:"topBots"`
	Referers  []BreakdownEntry     `json:"referers"`
}

// StatsService 提供总览与单标签报表查询，每个查询一次流式扫描。
type StatsService struct {
	visits *VisitService
}

// NewStatsService 创建 StatsService。
func NewStatsService(visits *VisitService) *StatsService {
	return &StatsService{visits: visits}
}

// Overview 汇总所有标签的全量数据，不限时间窗。
func (s *StatsService) Overview() (*Overview, error) {
	totalVisits := 0
	botVisits := 0
	uniqueVisitors := make(map[string]struct{})

	type labelCounts struct {
		total  int
		bots   int
		unique map[string]struct{}
	}
	perLabel := make(map[string]*labelCounts)

	err := s.visits.ScanBatches(ScanWindow{}, ScanFilter{}, func(batch []db.Visit) error {
		for i := range batch {
			v := &batch[i]
			totalVisits++
			uniqueVisitors[v.IPHash] = struct{}{}
			if v.IsBot {
				botVisits++
			}

			counts := perLabel[v.Label]
			if counts == nil {
				counts = &labelCounts{unique: make(map[string]struct{})}
				perLabel[v.Label] = counts
			}
			counts.total++
			counts.unique[v.IPHash] = struct{}{}
			if v.IsBot {
				counts.bots++
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan visits: %w", err)
	}

	labels := make([]LabelSummary, 0, len(perLabel))
	for label, counts := range perLabel {
		labels = append(labels, LabelSummary{
			Label:  label,
			Total:  counts.total,
			Unique: len(counts.unique),
			Bots:   counts.bots,
		})
	}
	slices.SortFunc(labels, func(a, b LabelSummary) int {
		if diff := cmp.Compare(b.Total, a.Total); diff != 0 {
			return diff
		}
		return cmp.Compare(a.Label, b.Label)
	})

	return &Overview{
		TotalVisits:    totalVisits,
		UniqueVisitors: len(uniqueVisitors),
		BotVisits:      botVisits,
		Labels:         labels,
	}, nil
}

// LabelReport 统计单个标签在窗口内的时间线与分布。
// includeBots 为 false 时自动化流量完全不参与统计。
func (s *StatsService) LabelReport(label string, window ScanWindow, includeBots bool) (*LabelReport, error) {
	totalVisits := 0
	botVisits := 0
	uniqueVisitors := make(map[string]struct{})

	type timelineCounts struct {
		visits int
		unique map[string]struct{}
	}
	days := make(map[string]*timelineCounts)

	countries := newCategoryCounter(countryLimit, countryOf)
	devices := newCategoryCounter(deviceLimit, deviceOf)
	browsers := newCategoryCounter(browserLimit, browserOf)
	topBots := newCategoryCounter(botLimit, botNameOf)
	referers := newCategoryCounter(refererLimit, refererOf)

	filter := ScanFilter{Label: label, ExcludeBots: !includeBots}
	err := s.visits.ScanBatches(window, filter, func(batch []db.Visit) error {
		for i := range batch {
			v := &batch[i]
			totalVisits++
			uniqueVisitors[v.IPHash] = struct{}{}
			if v.IsBot {
				botVisits++
			}

			day := days[dayKey(v.CreatedAt)]
			if day == nil {
				day = &timelineCounts{unique: make(map[string]struct{})}
				days[dayKey(v.CreatedAt)] = day
			}
			day.visits++
			day.unique[v.IPHash] = struct{}{}

			countries.observe(v)
			devices.observe(v)
			browsers.observe(v)
			topBots.observe(v)
			referers.observe(v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan visits: %w", err)
	}

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	slices.Sort(dates)

	timeline := make([]LabelTimelinePoint, 0, len(dates))
	for _, date := range dates {
		day := days[date]
		timeline = append(timeline, LabelTimelinePoint{
			Date:   date,
			Visits: day.visits,
			Unique: len(day.unique),
		})
	}

	return &LabelReport{
		Label:     label,
		Total:     totalVisits,
		Unique:    len(uniqueVisitors),
		Bots:      botVisits,
		Timeline:  timeline,
		Countries: countries.entries(),
		Devices:   devices.entries(),
		Browsers:  browsers.entries(),
		TopBots:   topBots.entries(),
		Referers:  referers.entries(),
	}, nil
}

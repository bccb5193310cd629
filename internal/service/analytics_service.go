package service

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/pixelpulse/internal/db"
)

// timelineTopLabels 限定时间线按标签展开的条数，
// 由整个报告的标签总量选出，而不是逐日选取。
const timelineTopLabels = 8

// AnalyticsSummary 汇总窗口内的整体计数。
type AnalyticsSummary struct {
	TotalVisits    int `json:"totalVisits"`
	UniqueVisitors int `json:"uniqueVisitors"`
	BotVisits      int `json:"botVisits"`
	HumanVisits    int `json:"humanVisits"`
	TotalLabels    int `json:"totalLabels"`
}

// LabelRollup 是单个标签在窗口内的聚合结果。
// Growth 比较窗口前后两半的访问量（含自动化流量）。
type LabelRollup struct {
	Label  string `json:"label"`
	Total  int    `json:"total"`
	Unique int    `json:"unique"`
	Bots   int    `json:"bots"`
	Growth int    `json:"growth"`
}

// TimelinePoint 是时间线上的一天（UTC 日期）。
// Labels 只包含整窗 Top-N 标签，其余计入 Other，
// 任何一天都满足 Other + ΣLabels == Total。
type TimelinePoint struct {
	Date   string         `json:"date"`
	Total  int            `json:"total"`
	Labels map[string]int `json:"labels"`
	Other  int            `json:"other"`
}

// HourlyPoint 是 24 小时直方图中的一格（UTC 小时）。
type HourlyPoint struct {
	Hour   int `json:"hour"`
	Visits int `json:"visits"`
}

// CrossLabelReport 聚合全部标签的分析报告。
type CrossLabelReport struct {
	Summary          AnalyticsSummary `json:"summary"`
	Labels           []LabelRollup    `json:"labels"`
	TopLabels        []string         `json:"topLabels"`
	Timeline         []TimelinePoint  `json:"timeline"`
	Countries        []BreakdownEntry `json:"countries"`
	Browsers         []BreakdownEntry `json:"browsers"`
	OperatingSystems []BreakdownEntry `json:"operatingSystems"`
	Devices          []BreakdownEntry `json:"devices"`
	Bots             []BreakdownEntry `json:"bots"`
	Referers         []BreakdownEntry `json:"referers"`
	Hourly           []HourlyPoint    `json:"hourly"`
}

// AnalyticsService 是跨标签的聚合引擎。
// 每次调用都对窗口做一次升序流式扫描，所有累加器在同一遍内更新；
// 不持快照锁，报告是 read-committed 语义的咨询性数据。
type AnalyticsService struct {
	visits *VisitService
}

// NewAnalyticsService 创建聚合引擎。
func NewAnalyticsService(visits *VisitService) *AnalyticsService {
	return &AnalyticsService{visits: visits}
}

type labelAccumulator struct {
	total    int
	bots     int
	recent   int
	previous int
	unique   map[string]struct{}
}

type dayBucket struct {
	total    int
	perLabel map[string]int
}

// CrossLabelReport 在单次扫描内同时计算摘要、标签聚合、
// 时间线、分类分布和小时直方图。空窗口返回全零结果而不是错误；
// 扫描失败则整体失败，不返回半份报告。
func (s *AnalyticsService) CrossLabelReport(window ScanWindow) (*CrossLabelReport, error) {
	midpoint := windowMidpoint(window)

	totalVisits := 0
	botVisits := 0
	uniqueVisitors := make(map[string]struct{})
	labelAccs := make(map[string]*labelAccumulator)
	days := make(map[string]*dayBucket)
	var hourly [24]int

	countries := newCategoryCounter(countryLimit, countryOf)
	browsers := newCategoryCounter(browserLimit, browserOf)
	oses := newCategoryCounter(osLimit, osOf)
	devices := newCategoryCounter(deviceLimit, deviceOf)
	bots := newCategoryCounter(botLimit, botNameOf)
	referers := newCategoryCounter(refererLimit, refererOf)

	err := s.visits.ScanBatches(window, ScanFilter{}, func(batch []db.Visit) error {
		for i := range batch {
			v := &batch[i]

			totalVisits++
			uniqueVisitors[v.IPHash] = struct{}{}
			if v.IsBot {
				botVisits++
			}

			acc := labelAccs[v.Label]
			if acc == nil {
				acc = &labelAccumulator{unique: make(map[string]struct{})}
				labelAccs[v.Label] = acc
			}
			acc.total++
			acc.unique[v.IPHash] = struct{}{}
			if v.IsBot {
				acc.bots++
			}
			if v.CreatedAt.Before(midpoint) {
				acc.previous++
			} else {
				acc.recent++
			}

			day := days[dayKey(v.CreatedAt)]
			if day == nil {
				day = &dayBucket{perLabel: make(map[string]int)}
				days[dayKey(v.CreatedAt)] = day
			}
			day.total++
			day.perLabel[v.Label]++

			countries.observe(v)
			browsers.observe(v)
			oses.observe(v)
			devices.observe(v)
			bots.observe(v)
			referers.observe(v)

			hourly[hourOf(v.CreatedAt)]++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan visits: %w", err)
	}

	labels := buildRollups(labelAccs)

	topLabels := make([]string, 0, timelineTopLabels)
	for i := 0; i < len(labels) && i < timelineTopLabels; i++ {
		topLabels = append(topLabels, labels[i].Label)
	}

	return &CrossLabelReport{
		Summary: AnalyticsSummary{
			TotalVisits:    totalVisits,
			UniqueVisitors: len(uniqueVisitors),
			BotVisits:      botVisits,
			HumanVisits:    totalVisits - botVisits,
			TotalLabels:    len(labelAccs),
		},
		Labels:           labels,
		TopLabels:        topLabels,
		Timeline:         buildTimeline(days, topLabels),
		Countries:        countries.entries(),
		Browsers:         browsers.entries(),
		OperatingSystems: oses.entries(),
		Devices:          devices.entries(),
		Bots:             bots.entries(),
		Referers:         referers.entries(),
		Hourly:           hourlyPoints(hourly),
	}, nil
}

// buildRollups 按总量降序输出标签聚合，平局时按标签名升序，保证结果确定。
func buildRollups(labelAccs map[string]*labelAccumulator) []LabelRollup {
	labels := make([]LabelRollup, 0, len(labelAccs))
	for label, acc := range labelAccs {
		labels = append(labels, LabelRollup{
			Label:  label,
			Total:  acc.total,
			Unique: len(acc.unique),
			Bots:   acc.bots,
			Growth: growth(acc.previous, acc.recent),
		})
	}
	slices.SortFunc(labels, func(a, b LabelRollup) int {
		if diff := cmp.Compare(b.Total, a.Total); diff != 0 {
			return diff
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return labels
}

// buildTimeline 按日期升序输出时间线，没有访问的日期不补零。
func buildTimeline(days map[string]*dayBucket, topLabels []string) []TimelinePoint {
	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	slices.Sort(dates)

	timeline := make([]TimelinePoint, 0, len(dates))
	for _, date := range dates {
		bucket := days[date]
		point := TimelinePoint{
			Date:   date,
			Total:  bucket.total,
			Labels: make(map[string]int, len(topLabels)),
		}
		topSum := 0
		for _, label := range topLabels {
			count := bucket.perLabel[label]
			point.Labels[label] = count
			topSum += count
		}
		point.Other = bucket.total - topSum
		timeline = append(timeline, point)
	}
	return timeline
}

// hourlyPoints 输出零填充的 24 小时直方图。
func hourlyPoints(hourly [24]int) []HourlyPoint {
	points := make([]HourlyPoint, 24)
	for hour, visits := range hourly {
		points[hour] = HourlyPoint{Hour: hour, Visits: visits}
	}
	return points
}

// growth 比较窗口前后两半的访问量，返回取整百分比。
// 前半为零时：后半有量记 100，否则记 0。
func growth(previous, recent int) int {
	if previous > 0 {
		return int(math.Round(float64(recent-previous) / float64(previous) * 100))
	}
	if recent > 0 {
		return 100
	}
	return 0
}

// windowMidpoint 取窗口的时间中点；Until 为零值时以当前时间封口。
func windowMidpoint(window ScanWindow) time.Time {
	until := window.Until
	if until.IsZero() {
		until = time.Now().UTC()
	}
	since := window.Since
	if since.IsZero() {
		return until
	}
	return since.Add(until.Sub(since) / 2)
}

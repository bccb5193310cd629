package service

import (
	"cmp"
	"slices"
	"time"

	"github.com/pixelpulse/internal/db"
)

// BreakdownEntry 是分类统计中的一行。
type BreakdownEntry struct {
	Name   string `json:"name"`
	Visits int    `json:"visits"`
}

// 各分类的输出上限，0 表示不截断。
const (
	countryLimit = 100
	browserLimit = 20
	osLimit      = 20
	deviceLimit  = 10
	refererLimit = 15
	botLimit     = 0
)

// categoryCounter 对单个分类字段做频次统计。
// extract 返回该记录的取值，第二个返回值为 false 时跳过该记录。
// 每个分类一个类型化的取值函数，避免反射式的按字段名分组。
type categoryCounter struct {
	counts  map[string]int
	extract func(v *db.Visit) (string, bool)
	limit   int
}

func newCategoryCounter(limit int, extract func(v *db.Visit) (string, bool)) *categoryCounter {
	return &categoryCounter{
		counts:  make(map[string]int),
		extract: extract,
		limit:   limit,
	}
}

func (c *categoryCounter) observe(v *db.Visit) {
	if key, ok := c.extract(v); ok {
		c.counts[key]++
	}
}

// entries 按次数降序输出，名称升序打破平局，超出上限截断。
func (c *categoryCounter) entries() []BreakdownEntry {
	result := make([]BreakdownEntry, 0, len(c.counts))
	for name, visits := range c.counts {
		result = append(result, BreakdownEntry{Name: name, Visits: visits})
	}
	slices.SortFunc(result, func(a, b BreakdownEntry) int {
		if diff := cmp.Compare(b.Visits, a.Visits); diff != 0 {
			return diff
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if c.limit > 0 && len(result) > c.limit {
		result = result[:c.limit]
	}
	return result
}

// 各分类的取值函数。空值按分类各自的哨兵处理：
// 国家/浏览器/系统归入 "Unknown"，设备类型归入 "unknown"，
// 爬虫名与来源页为空时直接跳过。

func countryOf(v *db.Visit) (string, bool) {
	return orUnknown(v.Country, "Unknown")
}

func browserOf(v *db.Visit) (string, bool) {
	return orUnknown(v.Browser, "Unknown")
}

func osOf(v *db.Visit) (string, bool) {
	return orUnknown(v.OS, "Unknown")
}

func deviceOf(v *db.Visit) (string, bool) {
	if v.DeviceType == "" {
		return "unknown", true
	}
	return v.DeviceType, true
}

func botNameOf(v *db.Visit) (string, bool) {
	if !v.IsBot || v.BotName == nil || *v.BotName == "" {
		return "", false
	}
	return *v.BotName, true
}

func refererOf(v *db.Visit) (string, bool) {
	if v.Referer == nil || *v.Referer == "" {
		return "", false
	}
	return *v.Referer, true
}

func orUnknown(value *string, sentinel string) (string, bool) {
	if value == nil || *value == "" {
		return sentinel, true
	}
	return *value, true
}

// dayKey 统一按 UTC 日期分桶，与小时直方图保持同一时区口径。
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func hourOf(t time.Time) int {
	return t.UTC().Hour()
}

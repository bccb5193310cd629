package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pixelpulse/internal/service"
)

// StatsOverview 处理 GET /api/stats，返回所有标签的总览。
func (a *API) StatsOverview(c *gin.Context) {
	overview, err := a.stats.Overview()
	if err != nil {
		a.log.WithError(err).Error("failed to fetch stats overview")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stats"})
		return
	}
	c.JSON(http.StatusOK, overview)
}

// StatsLabel 处理 GET /api/stats/:label?from=&to=&includeBots=。
func (a *API) StatsLabel(c *gin.Context) {
	label := c.Param("label")

	window, ok := parseWindow(c.Query("from"), c.Query("to"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date range"})
		return
	}

	includeBots := c.DefaultQuery("includeBots", "true") != "false"

	report, err := a.stats.LabelReport(label, window, includeBots)
	if err != nil {
		a.log.WithError(err).WithField("label", label).Error("failed to fetch label stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stats"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// Analytics 处理 GET /api/analytics?days=30，返回跨标签聚合报告。
func (a *API) Analytics(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			days = parsed
		}
	}
	if days < 1 {
		days = 1
	}
	if days > 365 {
		days = 365
	}

	now := time.Now().UTC()
	window := service.ScanWindow{
		Since: now.Add(-time.Duration(days) * 24 * time.Hour),
		Until: now,
	}

	report, err := a.analytics.CrossLabelReport(window)
	if err != nil {
		a.log.WithError(err).Error("failed to fetch analytics")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch analytics"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// DeleteLabels 处理 DELETE /api/labels，按标签批量删除访问记录。
func (a *API) DeleteLabels(c *gin.Context) {
	var req struct {
		Labels []string `json:"labels"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Labels) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "labels required"})
		return
	}

	deleted, err := a.visits.DeleteByLabels(req.Labels)
	if err != nil {
		a.log.WithError(err).Error("failed to delete labels")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete labels"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// parseWindow 解析查询窗口。接受 RFC3339 或 2006-01-02 两种格式；
// 起止颠倒时交换边界，聚合引擎假定拿到的窗口总是合法的。
func parseWindow(from, to string) (service.ScanWindow, bool) {
	var window service.ScanWindow

	if from != "" {
		parsed, ok := parseDate(from)
		if !ok {
			return window, false
		}
		window.Since = parsed
	}
	if to != "" {
		parsed, ok := parseDate(to)
		if !ok {
			return window, false
		}
		window.Until = parsed
	}

	if !window.Since.IsZero() && !window.Until.IsZero() && window.Until.Before(window.Since) {
		window.Since, window.Until = window.Until, window.Since
	}
	return window, true
}

func parseDate(raw string) (time.Time, bool) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse("2006-01-02", raw); err == nil {
		return parsed.UTC(), true
	}
	return time.Time{}, false
}

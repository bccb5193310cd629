package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pixelpulse/internal/badge"
	"github.com/pixelpulse/internal/service"
	"github.com/sirupsen/logrus"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	ingest    *service.IngestService
	visits    *service.VisitService
	stats     *service.StatsService
	analytics *service.AnalyticsService
	logos     *badge.LogoCache
	log       *logrus.Logger
}

// NewAPI constructs a handler set with shared services.
func NewAPI(ingest *service.IngestService, visits *service.VisitService, stats *service.StatsService, analytics *service.AnalyticsService, logos *badge.LogoCache, log *logrus.Logger) *API {
	return &API{
		ingest:    ingest,
		visits:    visits,
		stats:     stats,
		analytics: analytics,
		logos:     logos,
		log:       log,
	}
}

// Health 健康检查。
func (a *API) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// enqueueVisit 把当前请求登记为一次访问，立即返回不等待落库。
func (a *API) enqueueVisit(c *gin.Context, label string) {
	a.ingest.Enqueue(label, c.ClientIP(), c.Request.UserAgent(), c.Request.Referer())
}

// splitLabelExt 把路径段 "repo-x.svg" 拆成标签与扩展名。
func splitLabelExt(file string) (label, ext string, ok bool) {
	dot := strings.LastIndex(file, ".")
	if dot <= 0 || dot == len(file)-1 {
		return "", "", false
	}
	return file[:dot], file[dot+1:], true
}

// setNoCache 让客户端每次都重新请求，保证计数与徽章实时。
func setNoCache(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
}

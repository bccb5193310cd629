package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pixelpulse/internal/badge"
	"github.com/pixelpulse/internal/service"
)

const defaultBadgeLabel = "visits"

// Badge 处理 GET /badge/:label.svg，输出带实时计数的动态徽章。
//
// shields.io 兼容的查询参数：
//
//	style      — flat | flat-square
//	label      — 左半边文字，"" 渲染单段徽章
//	labelColor — 左半边背景色
//	color      — 右半边背景色，默认 blue
//	message    — 右半边文字，默认 "{count} views"
//	logo       — simple-icons 图标名（如 "github"）
//	logoColor  — 图标颜色，默认 white
//	preview    — "true" 时不登记访问
func (a *API) Badge(c *gin.Context) {
	label, ext, ok := splitLabelExt(c.Param("file"))
	if !ok || ext != "svg" || label == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	// 徽章计数排除自动化流量
	count, err := a.visits.Count(service.ScanWindow{}, service.ScanFilter{Label: label, ExcludeBots: true})
	if err != nil {
		a.log.WithError(err).WithField("label", label).Error("failed to serve badge")
		c.Status(http.StatusInternalServerError)
		return
	}

	message := strings.TrimSpace(c.Query("message"))
	if message == "" {
		message = badge.FormatCount(count) + " views"
	}

	labelText := defaultBadgeLabel
	if raw, exists := c.GetQuery("label"); exists {
		labelText = strings.TrimSpace(raw)
	}

	var logoURI string
	if slug := c.Query("logo"); slug != "" {
		logoURI = a.logos.Fetch(slug, c.DefaultQuery("logoColor", "white"))
	}

	svg := badge.Render(badge.Options{
		Label:       labelText,
		Message:     message,
		Color:       c.Query("color"),
		LabelColor:  c.Query("labelColor"),
		Style:       c.Query("style"),
		LogoDataURI: logoURI,
	})

	setNoCache(c)
	c.Data(http.StatusOK, "image/svg+xml", []byte(svg))

	if c.Query("preview") != "true" {
		a.enqueueVisit(c, label)
	}
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pixelpulse/internal/pixel"
)

// Pixel 处理 GET /pixel/:label.gif 与 /pixel/:label.svg。
// 先把透明图完整发出，再异步登记访问：埋点永远不拖慢访客。
func (a *API) Pixel(c *gin.Context) {
	label, ext, ok := splitLabelExt(c.Param("file"))
	if !ok || label == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	setNoCache(c)
	switch ext {
	case "gif":
		c.Data(http.StatusOK, "image/gif", pixel.TransparentGIF)
	case "svg":
		c.Data(http.StatusOK, "image/svg+xml", []byte(pixel.TransparentSVG))
	default:
		c.Status(http.StatusBadRequest)
		return
	}

	a.enqueueVisit(c, label)
}

package badge

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
)

const (
	logoCacheSize    = 256
	logoFetchTimeout = 4 * time.Second
	maxLogoBytes     = 64 << 10
)

const simpleIconsBaseURL = "https://cdn.simpleicons.org"

// LogoCache 从 cdn.simpleicons.org 拉取图标并缓存为 data URI。
// 缓存有界，查不到的图标也会缓存空结果，避免反复请求。
type LogoCache struct {
	cache   *lru.Cache[string, string]
	client  *http.Client
	baseURL string
	log     *logrus.Logger
}

// NewLogoCache 创建 logo 缓存，拉取超时固定为 4 秒，超时放行不阻塞徽章渲染。
func NewLogoCache(log *logrus.Logger) *LogoCache {
	cache, _ := lru.New[string, string](logoCacheSize)
	return &LogoCache{
		cache:   cache,
		client:  &http.Client{Timeout: logoFetchTimeout},
		baseURL: simpleIconsBaseURL,
		log:     log,
	}
}

// Fetch 返回 base64 data URI，找不到或拉取失败返回空串。
func (l *LogoCache) Fetch(slug, color string) string {
	normalizedSlug := strings.ToLower(strings.Join(strings.Fields(slug), ""))
	normalizedColor := strings.TrimPrefix(strings.TrimSpace(color), "#")
	if normalizedColor == "" {
		normalizedColor = "white"
	}

	key := normalizedSlug + ":" + normalizedColor
	if cached, ok := l.cache.Get(key); ok {
		return cached
	}

	uri := l.fetch(normalizedSlug, normalizedColor)
	l.cache.Add(key, uri)
	return uri
}

func (l *LogoCache) fetch(slug, color string) string {
	endpoint := fmt.Sprintf("%s/%s/%s", l.baseURL, url.PathEscape(slug), url.PathEscape(color))

	resp, err := l.client.Get(endpoint)
	if err != nil {
		l.log.WithError(err).WithField("slug", slug).Debug("failed to fetch logo")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.log.WithFields(logrus.Fields{"slug": slug, "status": resp.StatusCode}).Debug("logo not found")
		return ""
	}

	svg, err := io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))
	if err != nil {
		l.log.WithError(err).WithField("slug", slug).Debug("failed to read logo body")
		return ""
	}

	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg)
}

package agent

import (
	"strings"

	"github.com/mileusna/useragent"
)

// Classification 描述一次 User-Agent 解析的结构化结果。
// 自动化流量的记录仍然会带上能解析出来的浏览器与系统信息。
type Classification struct {
	Browser    *string
	OS         *string
	DeviceType string
	IsBot      bool
	BotName    *string
}

// Classifier 把原始 User-Agent 字符串解析为浏览器、系统与设备信息。
type Classifier interface {
	Classify(rawAgent string) Classification
}

// botSignatures 给常见爬虫一个稳定的展示名。
// 顺序即优先级，具名条目在前、泛化规则兜底。
var botSignatures = []struct {
	substr string
	name   string
}{
	{"googlebot", "Googlebot"},
	{"bingbot", "Bingbot"},
	{"duckduckbot", "DuckDuckBot"},
	{"baiduspider", "Baiduspider"},
	{"yandexbot", "YandexBot"},
	{"applebot", "Applebot"},
	{"twitterbot", "Twitterbot"},
	{"facebookexternalhit", "FacebookBot"},
	{"linkedinbot", "LinkedInBot"},
	{"telegrambot", "TelegramBot"},
	{"discordbot", "Discordbot"},
	{"slackbot", "Slackbot"},
	{"whatsapp", "WhatsApp"},
	{"semrushbot", "SemrushBot"},
	{"ahrefsbot", "AhrefsBot"},
	{"mj12bot", "MJ12bot"},
	{"petalbot", "PetalBot"},
	{"gptbot", "GPTBot"},
	{"claudebot", "ClaudeBot"},
	{"bytespider", "Bytespider"},
	{"headlesschrome", "HeadlessChrome"},
	{"lighthouse", "Lighthouse"},
	{"uptimerobot", "UptimeRobot"},
	{"curl/", "curl"},
	{"wget/", "Wget"},
	{"python-requests", "python-requests"},
	{"go-http-client", "Go-http-client"},
}

// genericBotTokens 是未具名爬虫的泛化特征。
var genericBotTokens = []string{"bot", "crawler", "spider", "scraper"}

// UAClassifier 基于 mileusna/useragent 做结构化解析。
// 自动化检测先行且独立于结构化解析，两者互不影响。
type UAClassifier struct{}

// Classify 解析 User-Agent；空串只能给出默认设备类型。
func (UAClassifier) Classify(rawAgent string) Classification {
	classification := Classification{DeviceType: "desktop"}
	if strings.TrimSpace(rawAgent) == "" {
		return classification
	}

	lower := strings.ToLower(rawAgent)
	if isBot, name := detectBot(lower); isBot {
		classification.IsBot = true
		classification.BotName = &name
	}

	ua := useragent.Parse(rawAgent)
	if ua.Name != "" {
		browser := ua.Name
		if ua.Version != "" {
			browser += " " + ua.Version
		}
		classification.Browser = &browser
	}
	if ua.OS != "" {
		osName := ua.OS
		if ua.OSVersion != "" {
			osName += " " + ua.OSVersion
		}
		classification.OS = &osName
	}

	// 库只区分桌面/手机/平板，游戏机和电视等类别靠特征串补充
	switch {
	case deviceOverride(lower) != "":
		classification.DeviceType = deviceOverride(lower)
	case ua.Tablet:
		classification.DeviceType = "tablet"
	case ua.Mobile:
		classification.DeviceType = "mobile"
	}

	if !classification.IsBot && ua.Bot {
		classification.IsBot = true
		name := ua.Name
		if name == "" {
			name = unknownBotName
		}
		classification.BotName = &name
	}

	return classification
}

const unknownBotName = "Unknown Bot"

func detectBot(lower string) (bool, string) {
	for _, signature := range botSignatures {
		if strings.Contains(lower, signature.substr) {
			return true, signature.name
		}
	}

	// CUBOT 手机的 UA 包含 "bot"，不能按泛化规则误判
	if strings.Contains(lower, "cubot") {
		return false, ""
	}
	for _, token := range genericBotTokens {
		if strings.Contains(lower, token) {
			return true, unknownBotName
		}
	}
	return false, ""
}

func deviceOverride(lower string) string {
	switch {
	case strings.Contains(lower, "smart-tv"),
		strings.Contains(lower, "smarttv"),
		strings.Contains(lower, "googletv"),
		strings.Contains(lower, "appletv"):
		return "smarttv"
	case strings.Contains(lower, "playstation"),
		strings.Contains(lower, "xbox"),
		strings.Contains(lower, "nintendo"):
		return "console"
	case strings.Contains(lower, "watch os"),
		strings.Contains(lower, "watchos"):
		return "wearable"
	}
	return ""
}

// Package badge 生成 shields.io 风格的 SVG 徽章。
// 支持 flat 与 flat-square 两种样式、命名颜色和内嵌 logo；
// 文本宽度用固定字宽字体估算，与 shields 的排版足够接近。
package badge

import (
	"fmt"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Options 是 shields.io 兼容的徽章参数。
type Options struct {
	Label       string
	Message     string
	Color       string
	LabelColor  string
	Style       string
	LogoDataURI string
}

const (
	defaultColor      = "#007ec6"
	defaultLabelColor = "#555"
	horizontalPadding = 5
	logoWidth         = 14
	logoPadding       = 3
)

// colorAliases 把 shields.io 命名颜色映射到十六进制。
var colorAliases = map[string]string{
	"brightgreen": "#4c1",
	"green":       "#97ca00",
	"yellow":      "#dfb317",
	"yellowgreen": "#a4a61d",
	"orange":      "#fe7d37",
	"red":         "#e05d44",
	"blue":        "#007ec6",
	"grey":        "#555",
	"gray":        "#555",
	"lightgrey":   "#9f9f9f",
	"lightgray":   "#9f9f9f",
	"purple":      "#9f78c4",
	"pink":        "#e44b8d",
	"cyan":        "#24b3a6",
	"black":       "#333",
	"white":       "#fff",
}

// ResolveColor 解析命名颜色或十六进制值，无法识别时回退默认。
func ResolveColor(input, fallback string) string {
	if input == "" {
		return fallback
	}
	if named, ok := colorAliases[strings.ToLower(input)]; ok {
		return named
	}
	if isHexColor(input) {
		if strings.HasPrefix(input, "#") {
			return input
		}
		return "#" + input
	}
	return fallback
}

func isHexColor(input string) bool {
	hex := strings.TrimPrefix(input, "#")
	if n := len(hex); n != 3 && n != 4 && n != 6 && n != 8 {
		return false
	}
	for _, r := range strings.TrimPrefix(input, "#") {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// FormatCount 把访问量格式化为 1.2k / 3.4M 的短形式。
func FormatCount(count int64) string {
	switch {
	case count >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(count)/1_000_000)
	case count >= 1_000:
		return fmt.Sprintf("%.1fk", float64(count)/1_000)
	default:
		return fmt.Sprintf("%d", count)
	}
}

// Render 生成 SVG 徽章。Label 为空时渲染只有右半边的单段徽章。
func Render(opts Options) string {
	color := ResolveColor(opts.Color, defaultColor)
	labelColor := ResolveColor(opts.LabelColor, defaultLabelColor)

	labelWidth := 0
	if opts.Label != "" || opts.LogoDataURI != "" {
		labelWidth = textWidth(opts.Label) + 2*horizontalPadding
		if opts.LogoDataURI != "" {
			labelWidth += logoWidth + logoPadding
			if opts.Label == "" {
				labelWidth -= horizontalPadding
			}
		}
	}
	messageWidth := textWidth(opts.Message) + 2*horizontalPadding
	totalWidth := labelWidth + messageWidth

	flatSquare := strings.EqualFold(opts.Style, "flat-square")
	radius := 3
	if flatSquare {
		radius = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b,
		`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%d" height="20" role="img" aria-label="%s">`,
		totalWidth, xmlEscape(strings.TrimSpace(opts.Label+" "+opts.Message)))

	if !flatSquare {
		b.WriteString(`<linearGradient id="s" x2="0" y2="100%">` +
			`<stop offset="0" stop-color="#bbb" stop-opacity=".1"/>` +
			`<stop offset="1" stop-opacity=".1"/>` +
			`</linearGradient>`)
	}
	fmt.Fprintf(&b, `<clipPath id="r"><rect width="%d" height="20" rx="%d" fill="#fff"/></clipPath>`, totalWidth, radius)

	b.WriteString(`<g clip-path="url(#r)">`)
	if labelWidth > 0 {
		fmt.Fprintf(&b, `<rect width="%d" height="20" fill="%s"/>`, labelWidth, labelColor)
	}
	fmt.Fprintf(&b, `<rect x="%d" width="%d" height="20" fill="%s"/>`, labelWidth, messageWidth, color)
	if !flatSquare {
		fmt.Fprintf(&b, `<rect width="%d" height="20" fill="url(#s)"/>`, totalWidth)
	}
	b.WriteString(`</g>`)

	b.WriteString(`<g fill="#fff" text-anchor="middle" font-family="Verdana,Geneva,DejaVu Sans,sans-serif" font-size="110" text-rendering="geometricPrecision">`)
	if opts.LogoDataURI != "" {
		fmt.Fprintf(&b, `<image x="%d" y="3" width="%d" height="%d" xlink:href="%s"/>`,
			horizontalPadding, logoWidth, logoWidth, xmlEscape(opts.LogoDataURI))
	}
	if opts.Label != "" {
		textStart := horizontalPadding
		if opts.LogoDataURI != "" {
			textStart += logoWidth + logoPadding
		}
		labelX := (textStart + labelWidth - horizontalPadding) * 10 / 2
		fmt.Fprintf(&b, `<text x="%d" y="140" transform="scale(.1)" textLength="%d">%s</text>`,
			labelX, textWidth(opts.Label)*10, xmlEscape(opts.Label))
	}
	messageX := (labelWidth*2 + messageWidth) * 10 / 2
	fmt.Fprintf(&b, `<text x="%d" y="140" transform="scale(.1)" textLength="%d">%s</text>`,
		messageX, textWidth(opts.Message)*10, xmlEscape(opts.Message))
	b.WriteString(`</g></svg>`)

	return b.String()
}

func textWidth(s string) int {
	if s == "" {
		return 0
	}
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}

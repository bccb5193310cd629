package badge

import (
	"strings"
	"testing"
)

func TestResolveColor(t *testing.T) {
	cases := []struct {
		input    string
		fallback string
		want     string
	}{
		{"", "#007ec6", "#007ec6"},
		{"blue", "#000", "#007ec6"},
		{"BrightGreen", "#000", "#4c1"},
		{"ff0000", "#000", "#ff0000"},
		{"#abc", "#000", "#abc"},
		{"not-a-color", "#007ec6", "#007ec6"},
	}

	for _, tc := range cases {
		if got := ResolveColor(tc.input, tc.fallback); got != tc.want {
			t.Errorf("ResolveColor(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	cases := []struct {
		count int64
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0k"},
		{1500, "1.5k"},
		{2_500_000, "2.5M"},
	}

	for _, tc := range cases {
		if got := FormatCount(tc.count); got != tc.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tc.count, got, tc.want)
		}
	}
}

func TestRenderContainsTexts(t *testing.T) {
	svg := Render(Options{Label: "visits", Message: "42 views"})

	if !strings.HasPrefix(svg, "<svg ") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("expected an svg document")
	}
	if !strings.Contains(svg, ">visits</text>") {
		t.Fatal("label text missing")
	}
	if !strings.Contains(svg, ">42 views</text>") {
		t.Fatal("message text missing")
	}
}

func TestRenderMessageOnly(t *testing.T) {
	svg := Render(Options{Label: "", Message: "hello"})

	if strings.Contains(svg, "</text><text") {
		// 单段徽章只应有一个文本节点
		t.Fatal("expected a single text node")
	}
	if !strings.Contains(svg, ">hello</text>") {
		t.Fatal("message text missing")
	}
}

func TestRenderEscapesMarkup(t *testing.T) {
	svg := Render(Options{Label: "<script>", Message: `a&"b`})

	if strings.Contains(svg, "<script>") {
		t.Fatal("label not escaped")
	}
	if !strings.Contains(svg, "&lt;script&gt;") {
		t.Fatal("expected escaped label")
	}
	if !strings.Contains(svg, "a&amp;&quot;b") {
		t.Fatal("expected escaped message")
	}
}

func TestRenderEmbedsLogo(t *testing.T) {
	uri := "data:image/svg+xml;base64,AAAA"
	svg := Render(Options{Label: "visits", Message: "1", LogoDataURI: uri})

	if !strings.Contains(svg, `<image `) || !strings.Contains(svg, uri) {
		t.Fatal("expected embedded logo image")
	}
}

func TestRenderFlatSquareSkipsGradient(t *testing.T) {
	flat := Render(Options{Label: "a", Message: "b"})
	square := Render(Options{Label: "a", Message: "b", Style: "flat-square"})

	if !strings.Contains(flat, "linearGradient") {
		t.Fatal("flat style should carry the gradient overlay")
	}
	if strings.Contains(square, "linearGradient") {
		t.Fatal("flat-square style must not carry the gradient overlay")
	}
}

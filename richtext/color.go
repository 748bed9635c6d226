package richtext

import "strings"

const (
	// DefaultColor 색상 없음을 나타내는 Notion 색상 이름
	DefaultColor = "default"

	backgroundSuffix = "_background"

	fallbackSolid      = "#111827"
	fallbackBackground = "#F3F4F6"
)

// 팔레트는 읽기 전용입니다. 조회는 CSSColor를 통해서만 합니다.
var (
	solidPalette = map[string]string{
		"gray":   "#6B7280",
		"red":    "#DC2626",
		"yellow": "#FBBF24",
		"green":  "#16A34A",
		"blue":   "#2563EB",
		"purple": "#7C3AED",
		"pink":   "#EC4899",
		"brown":  "#92400E",
	}

	backgroundPalette = map[string]string{
		"gray":   "#E5E7EB",
		"red":    "#FECACA",
		"yellow": "#FEF3C7",
		"green":  "#D1FAE5",
		"blue":   "#DBEAFE",
		"purple": "#EDE9FE",
		"pink":   "#FCE7F3",
		"brown":  "#F3E8E0",
	}
)

// CSSColor 색상 이름을 CSS 색상 코드로 변환합니다. 모르는 이름은 기본값으로 대체합니다.
func CSSColor(name string, background bool) string {
	if background {
		if c, ok := backgroundPalette[name]; ok {
			return c
		}
		return fallbackBackground
	}
	if c, ok := solidPalette[name]; ok {
		return c
	}
	return fallbackSolid
}

// colorStyle 세그먼트 색상에 해당하는 inline style을 만듭니다 (없으면 빈 문자열)
func colorStyle(color string) string {
	switch {
	case strings.HasSuffix(color, backgroundSuffix):
		base := strings.Replace(color, backgroundSuffix, "", 1)
		return "background-color: " + CSSColor(base, true) + "; color: black;"
	case color != "" && color != DefaultColor:
		return "color: " + CSSColor(color, false) + ";"
	default:
		return ""
	}
}

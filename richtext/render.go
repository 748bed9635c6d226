// Package richtext Notion rich text와 rollup 값을 HTML 마크업 문자열로 변환합니다.
package richtext

import (
	"html"
	"strings"
)

// Style 세그먼트 서식 플래그
type Style uint8

const (
	Code Style = 1 << iota
	Bold
	Italic
	Underline
	Strikethrough
)

// Has 플래그 포함 여부를 반환합니다
func (s Style) Has(f Style) bool {
	return s&f != 0
}

// LineBreak 줄바꿈 문자 대신 삽입되는 토큰
const LineBreak = "<br>"

const linkClass = "underline text-blue-600"

// wrappers 안쪽부터 바깥쪽 순서입니다.
var wrappers = []struct {
	flag Style
	open string
	end  string
}{
	{Code, "<code>", "</code>"},
	{Bold, "<strong>", "</strong>"},
	{Italic, "<em>", "</em>"},
	{Underline, "<u>", "</u>"},
	{Strikethrough, "<s>", "</s>"},
}

// Segment 서식 정보가 붙은 텍스트 한 조각
type Segment struct {
	Text  string
	Style Style
	Color string // 팔레트 이름, "<이름>_background", "default" 또는 빈 문자열
	Link  string
}

// TextEncoder 원문 텍스트를 마크업에 넣기 전에 가공하는 함수
type TextEncoder func(string) string

// Verbatim 텍스트를 그대로 둡니다 (기본 동작)
func Verbatim(s string) string { return s }

// Escaped HTML 특수문자를 이스케이프합니다
func Escaped(s string) string { return html.EscapeString(s) }

// Renderer 세그먼트를 마크업으로 렌더링합니다. 상태가 없으므로 동시에 사용해도 안전합니다.
type Renderer struct {
	encode TextEncoder
}

// Option Renderer 설정 함수
type Option func(*Renderer)

// WithEscaping 텍스트, 링크 주소를 HTML 이스케이프하도록 설정합니다
func WithEscaping() Option {
	return func(r *Renderer) { r.encode = Escaped }
}

// WithEncoder 임의의 TextEncoder를 사용합니다
func WithEncoder(enc TextEncoder) Option {
	return func(r *Renderer) {
		if enc != nil {
			r.encode = enc
		}
	}
}

// NewRenderer 새로운 Renderer를 생성합니다
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{encode: Verbatim}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRenderer = NewRenderer()

// Render 기본 Renderer(이스케이프 없음)로 렌더링합니다
func Render(segments []Segment) string {
	return defaultRenderer.Render(segments)
}

// Render 세그먼트들을 각각 렌더링한 뒤 구분자 없이 이어 붙입니다
func (r *Renderer) Render(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(r.renderSegment(seg))
	}
	return b.String()
}

func (r *Renderer) renderSegment(seg Segment) string {
	if seg.Text == "" {
		return ""
	}

	text := strings.ReplaceAll(r.encode(seg.Text), "\n", LineBreak)

	for _, w := range wrappers {
		if seg.Style.Has(w.flag) {
			text = w.open + text + w.end
		}
	}

	if style := colorStyle(seg.Color); style != "" {
		text = `<span style="` + style + `">` + text + `</span>`
	}

	if seg.Link != "" {
		text = r.anchor(seg.Link, text)
	}

	return text
}

// anchor 새 창으로 열리는 링크로 감쌉니다
func (r *Renderer) anchor(href, inner string) string {
	return `<a href="` + r.encode(href) + `" target="_blank" class="` + linkClass + `">` + inner + `</a>`
}

package richtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEmptyTextIgnoresStyling(t *testing.T) {
	segs := []Segment{{
		Text:  "",
		Style: Code | Bold | Italic | Underline | Strikethrough,
		Color: "red_background",
		Link:  "https://example.com",
	}}
	assert.Equal(t, "", Render(segs))
	assert.Equal(t, "", Render(nil))
}

func TestRenderBoldWithNewline(t *testing.T) {
	got := Render([]Segment{{Text: "Hello\nWorld", Style: Bold, Color: "default"}})
	assert.Equal(t, "<strong>Hello<br>World</strong>", got)
}

func TestRenderReplacesOnlyNewlines(t *testing.T) {
	got := Render([]Segment{{Text: "a\n\nb <i>&\"c\"\t", Color: "default"}})
	assert.Equal(t, "a<br><br>b <i>&\"c\"\t", got)
}

func TestRenderWrapperOrder(t *testing.T) {
	all := Code | Bold | Italic | Underline | Strikethrough
	got := Render([]Segment{{Text: "x", Style: all}})
	assert.Equal(t, "<s><u><em><strong><code>x</code></strong></em></u></s>", got)

	// 플래그 조합 순서와 상관없이 같은 결과
	assert.Equal(t, Render([]Segment{{Text: "x", Style: Italic | Code}}),
		Render([]Segment{{Text: "x", Style: Code | Italic}}))
	assert.Equal(t, "<em><code>x</code></em>", Render([]Segment{{Text: "x", Style: Italic | Code}}))
	assert.Equal(t, "<s><strong>x</strong></s>", Render([]Segment{{Text: "x", Style: Strikethrough | Bold}}))
}

func TestRenderColors(t *testing.T) {
	tests := []struct {
		name  string
		color string
		want  string
	}{
		{"default", "default", "x"},
		{"empty", "", "x"},
		{"solid", "red", `<span style="color: #DC2626;">x</span>`},
		{"background", "blue_background", `<span style="background-color: #DBEAFE; color: black;">x</span>`},
		{"unknown solid", "orange", `<span style="color: #111827;">x</span>`},
		{"unknown background", "orange_background", `<span style="background-color: #F3F4F6; color: black;">x</span>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render([]Segment{{Text: "x", Color: tt.color}}))
		})
	}
}

func TestRenderStyleInsideColorInsideLink(t *testing.T) {
	got := Render([]Segment{{Text: "go", Style: Bold, Color: "green", Link: "https://go.dev"}})
	want := `<a href="https://go.dev" target="_blank" class="underline text-blue-600">` +
		`<span style="color: #16A34A;"><strong>go</strong></span></a>`
	assert.Equal(t, want, got)
}

func TestRenderConcatenatesInOrder(t *testing.T) {
	segs := []Segment{
		{Text: "A", Color: "default"},
		{Text: ""},
		{Text: "B", Style: Italic},
		{Text: "C"},
	}
	assert.Equal(t, "A<em>B</em>C", Render(segs))
}

func TestRenderIsRepeatable(t *testing.T) {
	segs := []Segment{{Text: "one\ntwo", Style: Underline, Color: "pink_background", Link: "http://x"}}
	first := Render(segs)
	require.NotEmpty(t, first)
	assert.Equal(t, first, Render(segs))
}

func TestRenderWithEscaping(t *testing.T) {
	r := NewRenderer(WithEscaping())
	got := r.Render([]Segment{{Text: "<b>1 & 2</b>\nok", Link: `http://x/?a=1&b="2"`}})
	want := `<a href="http://x/?a=1&amp;b=&#34;2&#34;" target="_blank" class="underline text-blue-600">` +
		`&lt;b&gt;1 &amp; 2&lt;/b&gt;<br>ok</a>`
	assert.Equal(t, want, got)

	// 기본 Renderer는 그대로 둔다
	assert.Equal(t, "<b>1 & 2</b>", Render([]Segment{{Text: "<b>1 & 2</b>"}}))
}

func TestRenderWithEncoder(t *testing.T) {
	r := NewRenderer(WithEncoder(strings.ToUpper))
	assert.Equal(t, "<strong>AB</strong>", r.Render([]Segment{{Text: "ab", Style: Bold}}))
}

func TestCSSColor(t *testing.T) {
	assert.Equal(t, "#6B7280", CSSColor("gray", false))
	assert.Equal(t, "#F3E8E0", CSSColor("brown", true))
	assert.Equal(t, "#111827", CSSColor("", false))
	assert.Equal(t, "#F3F4F6", CSSColor("nope", true))
}

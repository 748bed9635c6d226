package richtext

import "strings"

// EntryKind rollup 배열 원소의 종류
type EntryKind int

const (
	KindOther EntryKind = iota
	KindRichText
	KindTitle
	KindURL
)

// RollupEntry rollup 배열의 원소 하나
type RollupEntry struct {
	Kind     EntryKind
	Segments []Segment // KindRichText, KindTitle
	URL      string    // KindURL
}

// Flatten 기본 Renderer로 rollup 값을 하나의 마크업으로 합칩니다
func Flatten(entries []RollupEntry) string {
	return defaultRenderer.Flatten(entries)
}

// Flatten rich text / title 원소는 하나로 합쳐 한 번에 렌더링하고,
// URL 원소는 링크로 만들어 그 뒤에 <br>로 이어 붙입니다.
func (r *Renderer) Flatten(entries []RollupEntry) string {
	if len(entries) == 0 {
		return ""
	}

	var segments []Segment
	var urls []string
	for _, e := range entries {
		switch e.Kind {
		case KindRichText, KindTitle:
			segments = append(segments, e.Segments...)
		case KindURL:
			if strings.TrimSpace(e.URL) != "" {
				urls = append(urls, e.URL)
			}
		}
	}

	links := make([]string, 0, len(urls))
	for _, u := range urls {
		links = append(links, r.anchor(u, r.encode(u)))
	}

	var parts []string
	if len(segments) > 0 {
		if text := r.Render(segments); text != "" {
			parts = append(parts, text)
		}
	}
	if len(links) > 0 {
		parts = append(parts, strings.Join(links, LineBreak))
	}
	return strings.Join(parts, LineBreak)
}

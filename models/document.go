package models

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Document 검색 인덱스에 저장되는 항목 문서
type Document struct {
	ID      string            // Notion 페이지 ID
	Title   string            // 항목명
	Content string            // 임베딩 대상 텍스트
	Vector  []float32         // 임베딩 벡터
	Meta    map[string]string // 공종, 단계 등
}

// DocumentFromItem 항목을 검색용 평문 문서로 변환합니다
func DocumentFromItem(item BidItem) *Document {
	title := MarkupToText(item.Item)

	var b strings.Builder
	fmt.Fprintf(&b, "항목: %s\n", title)
	if item.WorkType != "" {
		fmt.Fprintf(&b, "공종: %s\n", item.WorkType)
	}
	if item.Stage != "" {
		fmt.Fprintf(&b, "단계: %s\n", item.Stage)
	}
	if item.Qty != nil {
		fmt.Fprintf(&b, "수량: %g %s\n", *item.Qty, item.Unit)
	}
	if spec := MarkupToText(item.Spec); spec != "" {
		fmt.Fprintf(&b, "규격:\n%s\n", spec)
	}
	if note := MarkupToText(item.Note); note != "" {
		fmt.Fprintf(&b, "비고:\n%s\n", note)
	}
	if ref := MarkupToText(item.Reference); ref != "" {
		fmt.Fprintf(&b, "참고:\n%s\n", ref)
	}

	return &Document{
		ID:      item.ID,
		Title:   title,
		Content: strings.TrimSpace(b.String()),
		Meta: map[string]string{
			"item":      title,
			"work_type": item.WorkType,
			"stage":     item.Stage,
			"updated":   item.Updated,
		},
	}
}

// MarkupToText 렌더링된 마크업을 Markdown 텍스트로 되돌립니다.
// 변환에 실패하면 마크업을 그대로 반환합니다.
func MarkupToText(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}
	md, err := htmltomarkdown.ConvertString(markup)
	if err != nil {
		return markup
	}
	return strings.TrimSpace(md)
}

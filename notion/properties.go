package notion

import (
	"time"

	"goc-notion-bidsheet/models"
	"goc-notion-bidsheet/richtext"

	"github.com/jomei/notionapi"
)

// 데이터베이스 컬럼 이름
const (
	PropStage     = "Stage"
	PropWorkType  = "WorkType"
	PropItem      = "Item"
	PropSpec      = "Spec"
	PropNote      = "Note"
	PropQty       = "Qty"
	PropUnit      = "Unit"
	PropUnitPrice = "UnitPrice"
	PropAmount    = "Amount"
	PropOrder     = "Order"
	PropReference = "Reference"
)

// MapPage 페이지 속성을 BidItem으로 변환합니다. 없거나 타입이 다른 속성은 기본값이 됩니다.
func (l *Loader) MapPage(page notionapi.Page) models.BidItem {
	props := page.Properties

	qty := numberValue(props, PropQty)
	unitPrice := numberValue(props, PropUnitPrice)

	item := models.BidItem{
		ID:        string(page.ID),
		Stage:     selectName(props, PropStage),
		WorkType:  selectName(props, PropWorkType),
		Item:      firstPlainText(titleText(props, PropItem)),
		Spec:      l.renderer.Render(Segments(richTextValue(props, PropSpec))),
		Note:      l.renderer.Render(Segments(richTextValue(props, PropNote))),
		Qty:       qty,
		Unit:      firstPlainText(richTextValue(props, PropUnit)),
		Amount:    models.ComputeAmount(numberValue(props, PropAmount), qty, unitPrice),
		Order:     numberValue(props, PropOrder),
		Reference: l.renderer.Flatten(RollupEntries(props[PropReference])),
	}
	if unitPrice != nil {
		item.UnitPrice = *unitPrice
	}
	if !page.LastEditedTime.IsZero() {
		item.Updated = page.LastEditedTime.UTC().Format(time.RFC3339)
	}
	return item
}

// Segments Notion RichText 배열을 렌더링용 세그먼트로 변환합니다
func Segments(rts []notionapi.RichText) []richtext.Segment {
	if len(rts) == 0 {
		return nil
	}
	segs := make([]richtext.Segment, 0, len(rts))
	for _, rt := range rts {
		seg := richtext.Segment{
			Text:  rt.PlainText,
			Color: richtext.DefaultColor,
			Link:  rt.Href,
		}
		if a := rt.Annotations; a != nil {
			if a.Code {
				seg.Style |= richtext.Code
			}
			if a.Bold {
				seg.Style |= richtext.Bold
			}
			if a.Italic {
				seg.Style |= richtext.Italic
			}
			if a.Underline {
				seg.Style |= richtext.Underline
			}
			if a.Strikethrough {
				seg.Style |= richtext.Strikethrough
			}
			if a.Color != "" {
				seg.Color = string(a.Color)
			}
		}
		segs = append(segs, seg)
	}
	return segs
}

// RollupEntries 배열형 rollup 속성을 RollupEntry로 변환합니다.
// rollup이 아니거나 배열형이 아니면 nil을 반환합니다.
func RollupEntries(prop notionapi.Property) []richtext.RollupEntry {
	rp, ok := prop.(*notionapi.RollupProperty)
	if !ok || rp == nil || string(rp.Rollup.Type) != "array" {
		return nil
	}

	entries := make([]richtext.RollupEntry, 0, len(rp.Rollup.Array))
	for _, el := range rp.Rollup.Array {
		switch v := el.(type) {
		case *notionapi.RichTextProperty:
			entries = append(entries, richtext.RollupEntry{Kind: richtext.KindRichText, Segments: Segments(v.RichText)})
		case *notionapi.TitleProperty:
			entries = append(entries, richtext.RollupEntry{Kind: richtext.KindTitle, Segments: Segments(v.Title)})
		case *notionapi.URLProperty:
			entries = append(entries, richtext.RollupEntry{Kind: richtext.KindURL, URL: v.URL})
		default:
			entries = append(entries, richtext.RollupEntry{Kind: richtext.KindOther})
		}
	}
	return entries
}

func selectName(props notionapi.Properties, name string) string {
	if p, ok := props[name].(*notionapi.SelectProperty); ok && p != nil {
		return p.Select.Name
	}
	return ""
}

func titleText(props notionapi.Properties, name string) []notionapi.RichText {
	if p, ok := props[name].(*notionapi.TitleProperty); ok && p != nil {
		return p.Title
	}
	return nil
}

func richTextValue(props notionapi.Properties, name string) []notionapi.RichText {
	if p, ok := props[name].(*notionapi.RichTextProperty); ok && p != nil {
		return p.RichText
	}
	return nil
}

// numberValue 숫자 속성 값. 속성이 없거나 숫자형이 아니면 nil입니다.
// 빈 숫자 셀은 nullNumberTransport가 응답에서 미리 지워 두므로 여기서는 없는 속성으로 보입니다.
func numberValue(props notionapi.Properties, name string) *float64 {
	if p, ok := props[name].(*notionapi.NumberProperty); ok && p != nil {
		n := p.Number
		return &n
	}
	return nil
}

func firstPlainText(rts []notionapi.RichText) string {
	if len(rts) == 0 {
		return ""
	}
	return rts[0].PlainText
}

package sheet

import (
	"fmt"
	"strings"

	"goc-notion-bidsheet/models"
)

// Markdown 페이지를 Markdown 문서로 변환합니다. 터미널 출력과 내보내기에 사용합니다.
func Markdown(p *Page) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", p.Title)
	if desc := models.MarkupToText(p.Description); desc != "" {
		b.WriteString(desc)
		b.WriteString("\n\n")
	}
	if p.UpdatedDate != "" {
		fmt.Fprintf(&b, "最後更新日期：%s\n\n", p.UpdatedDate)
	}

	for _, g := range p.Visible {
		fmt.Fprintf(&b, "## %s\n\n", g.Heading)
		for i, it := range g.Items {
			fmt.Fprintf(&b, "%d. **%s** (%s %s)", i+1, models.MarkupToText(it.Item), FormatQty(it.Qty), it.Unit)
			if p.ShowPrices {
				fmt.Fprintf(&b, " %s × %s = %s", FormatQty(it.Qty), FormatMoney(it.UnitPrice), FormatMoney(it.Amount))
			}
			b.WriteString("\n")
			writeField(&b, "規格描述", it.Spec)
			writeField(&b, "備註", it.Note)
			writeField(&b, "連結", it.Reference)
		}
		if p.ShowPrices {
			fmt.Fprintf(&b, "\n小計：%s\n", FormatMoney(g.Total))
		}
		b.WriteString("\n")
	}

	if p.ShowPrices {
		fmt.Fprintf(&b, "**金額總計：** %s\n", FormatMoney(p.Total))
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeField(b *strings.Builder, label, markup string) {
	text := models.MarkupToText(markup)
	if text == "" {
		return
	}
	text = strings.ReplaceAll(text, "\n", "\n     ")
	fmt.Fprintf(b, "   - %s：%s\n", label, text)
}

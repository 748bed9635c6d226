package sheet

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed page.html
var pageHTML string

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

type pageView struct {
	Title       string
	Description template.HTML
	UpdatedDate string
	Filters     []FilterLink
	Groups      []groupView
	ShowPrices  bool
	Total       string
}

type groupView struct {
	Heading string
	Rows    []rowView
	Total   string
}

type rowView struct {
	Order     string
	Item      string
	Spec      template.HTML
	Note      template.HTML
	Qty       string
	Pending   bool
	Unit      string
	UnitPrice string
	Amount    string
	Reference template.HTML
}

// RenderHTML 페이지를 HTML 문서로 씁니다. 마크업 필드(설명, 규격, 비고, 링크)는 그대로 삽입됩니다.
func RenderHTML(w io.Writer, p *Page, basePath string) error {
	view := pageView{
		Title:       p.Title,
		Description: template.HTML(p.Description),
		UpdatedDate: p.UpdatedDate,
		Filters:     p.FilterLinks(basePath),
		ShowPrices:  p.ShowPrices,
		Total:       FormatMoney(p.Total),
	}
	for _, g := range p.Visible {
		gv := groupView{Heading: g.Heading, Total: FormatMoney(g.Total)}
		for _, it := range g.Items {
			gv.Rows = append(gv.Rows, rowView{
				Order:     FormatNumber(it.Order),
				Item:      it.Item,
				Spec:      template.HTML(it.Spec),
				Note:      template.HTML(it.Note),
				Qty:       FormatQty(it.Qty),
				Pending:   it.Qty == nil,
				Unit:      it.Unit,
				UnitPrice: FormatMoney(it.UnitPrice),
				Amount:    FormatMoney(it.Amount),
				Reference: template.HTML(it.Reference),
			})
		}
		view.Groups = append(view.Groups, gv)
	}

	if err := pageTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("페이지 렌더링 실패: %w", err)
	}
	return nil
}

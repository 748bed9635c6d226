package sheet

import (
	"net/url"

	"goc-notion-bidsheet/models"
)

// Options 입찰표 표시 옵션
type Options struct {
	Stage         string   // 비어 있으면 모든 단계
	WorkTypeOrder []string // 공종 표시 순서
	ShowPrices    bool     // 단가, 금액, 소계 표시
}

// Page 화면 한 장 분량의 표시 모델
type Page struct {
	Title       string
	Description string // 마크업
	UpdatedDate string
	Groups      []Group // 항목이 있는 모든 공종
	Visible     []Group // 선택된 공종 (번호 포함)
	Selection   *Selection
	Total       float64
	ShowPrices  bool
}

// FilterLink 공종 필터 버튼 하나
type FilterLink struct {
	Name   string
	Active bool
	Href   string
}

// Build 단계 필터 → 공종별 그룹 → 선택 필터 순서로 표시 모델을 만듭니다
func Build(s *models.Sheet, opts Options, sel *Selection) *Page {
	if sel == nil {
		sel = SelectAll()
	}
	p := &Page{Selection: sel, ShowPrices: opts.ShowPrices}
	if s == nil {
		return p
	}

	items := FilterStage(s.Items, opts.Stage)
	p.Title = s.Title
	p.Description = s.Description
	p.UpdatedDate = UpdatedDate(items)
	p.Groups = GroupByWorkType(items, opts.WorkTypeOrder)
	p.Visible = sel.Visible(p.Groups)
	p.Total = Total(p.Visible)
	return p
}

// FilterLinks basePath 기준으로 각 공종의 선택을 뒤집는 링크를 만듭니다
func (p *Page) FilterLinks(basePath string) []FilterLink {
	links := make([]FilterLink, 0, len(p.Groups))
	for _, g := range p.Groups {
		next := p.Selection.Clone()
		next.Toggle(g.Name, p.Groups)
		links = append(links, FilterLink{
			Name:   g.Name,
			Active: p.Selection.Has(g.Name),
			Href:   selectionHref(basePath, next, p.Groups),
		})
	}
	return links
}

// TypeParam 공종 선택을 표현하는 쿼리 파라미터 이름
const TypeParam = "type"

func selectionHref(basePath string, sel *Selection, groups []Group) string {
	if sel.All(groups) {
		return basePath
	}
	names := sel.Names(groups)
	if len(names) == 0 {
		return basePath + "?" + TypeParam + "="
	}
	return basePath + "?" + url.Values{TypeParam: names}.Encode()
}

// SelectionFromQuery 쿼리 파라미터에서 선택을 만듭니다. 파라미터가 없으면 전부 선택합니다.
func SelectionFromQuery(q url.Values) *Selection {
	raw, ok := q[TypeParam]
	if !ok {
		return SelectAll()
	}
	names := make([]string, 0, len(raw))
	for _, n := range raw {
		if n != "" {
			names = append(names, n)
		}
	}
	return SelectOnly(names)
}

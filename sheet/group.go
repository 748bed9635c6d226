// Package sheet 입찰표 항목을 공종별로 묶고 정렬, 필터링하여 표시용 구조를 만듭니다.
package sheet

import (
	"slices"
	"strconv"

	"goc-notion-bidsheet/models"
)

const (
	// DefaultStage 기본으로 표시하는 단계 (발주 항목)
	DefaultStage = "發包項"
	// Uncategorized 공종이 비어 있는 항목의 그룹 이름
	Uncategorized = "未分類"

	unorderedRank = 999
)

var chineseNumerals = []string{
	"一", "二", "三", "四", "五", "六", "七", "八", "九", "十",
	"十一", "十二", "十三", "十四", "十五", "十六", "十七", "十八", "十九", "二十",
}

// Group 공종 하나에 속한 항목들
type Group struct {
	Name    string
	Heading string // "一、水電" 형식. Visible에서 채워집니다.
	Items   []models.BidItem
	Total   float64
}

// FilterStage 단계가 일치하는 항목만 남깁니다. stage가 비어 있으면 전부 남깁니다.
func FilterStage(items []models.BidItem, stage string) []models.BidItem {
	if stage == "" {
		return slices.Clone(items)
	}
	out := make([]models.BidItem, 0, len(items))
	for _, it := range items {
		if it.Stage == stage {
			out = append(out, it)
		}
	}
	return out
}

// GroupByWorkType 공종별로 묶습니다. 그룹 순서는 workTypeOrder를 따르고,
// 목록에 없는 공종은 처음 등장한 순서대로 뒤에 둡니다.
func GroupByWorkType(items []models.BidItem, workTypeOrder []string) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, it := range items {
		name := it.WorkType
		if name == "" {
			name = Uncategorized
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name})
		}
		groups[i].Items = append(groups[i].Items, it)
		groups[i].Total += it.Amount
	}

	rank := func(name string) int {
		if i := slices.Index(workTypeOrder, name); i >= 0 {
			return i
		}
		return unorderedRank
	}
	slices.SortStableFunc(groups, func(a, b Group) int {
		return rank(a.Name) - rank(b.Name)
	})

	for i := range groups {
		SortByOrder(groups[i].Items)
	}
	return groups
}

// SortByOrder Order가 있는 항목을 오름차순으로 앞에 두고, 없는 항목은 원래 순서로 뒤에 둡니다
func SortByOrder(items []models.BidItem) {
	slices.SortStableFunc(items, func(a, b models.BidItem) int {
		switch {
		case a.Order != nil && b.Order != nil:
			switch {
			case *a.Order < *b.Order:
				return -1
			case *a.Order > *b.Order:
				return 1
			}
			return 0
		case a.Order != nil:
			return -1
		case b.Order != nil:
			return 1
		}
		return 0
	})
}

// Numeral n번째(0부터) 그룹의 번호. 二十 이후는 아라비아 숫자를 씁니다.
func Numeral(n int) string {
	if n >= 0 && n < len(chineseNumerals) {
		return chineseNumerals[n]
	}
	return strconv.Itoa(n + 1)
}

// UpdatedDate 첫 항목의 수정일(YYYY-MM-DD)을 반환합니다
func UpdatedDate(items []models.BidItem) string {
	if len(items) == 0 {
		return ""
	}
	u := items[0].Updated
	if len(u) > 10 {
		u = u[:10]
	}
	return u
}

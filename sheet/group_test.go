package sheet

import (
	"net/url"
	"testing"

	"goc-notion-bidsheet/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ord(f float64) *float64 { return &f }

func names(items []models.BidItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Item)
	}
	return out
}

func groupNames(groups []Group) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Name)
	}
	return out
}

func sampleItems() []models.BidItem {
	return []models.BidItem{
		{Item: "a", Stage: "發包項", WorkType: "油漆", Amount: 10, Updated: "2024-05-01T08:30:00Z"},
		{Item: "b", Stage: "自辦", WorkType: "水電", Amount: 100},
		{Item: "c", Stage: "發包項", WorkType: "水電", Amount: 20, Order: ord(2)},
		{Item: "d", Stage: "發包項", WorkType: "", Amount: 1},
		{Item: "e", Stage: "發包項", WorkType: "水電", Amount: 5, Order: ord(1)},
		{Item: "f", Stage: "發包項", WorkType: "水電", Amount: 3},
		{Item: "g", Stage: "發包項", WorkType: "木作", Amount: 7},
	}
}

func TestFilterStage(t *testing.T) {
	items := sampleItems()
	assert.Len(t, FilterStage(items, ""), len(items))
	got := FilterStage(items, DefaultStage)
	assert.Equal(t, []string{"a", "c", "d", "e", "f", "g"}, names(got))
}

func TestGroupByWorkTypeOrdering(t *testing.T) {
	items := FilterStage(sampleItems(), DefaultStage)
	groups := GroupByWorkType(items, []string{"水電", "木作"})

	// 목록에 있는 공종이 먼저, 나머지는 처음 등장한 순서
	assert.Equal(t, []string{"水電", "木作", "油漆", Uncategorized}, groupNames(groups))

	// Order 오름차순, Order 없는 항목은 원래 순서로 뒤에
	assert.Equal(t, []string{"e", "c", "f"}, names(groups[0].Items))
	assert.Equal(t, 28.0, groups[0].Total)
	assert.Equal(t, 1.0, groups[3].Total)
}

func TestGroupByWorkTypeWithoutOrderList(t *testing.T) {
	groups := GroupByWorkType(FilterStage(sampleItems(), DefaultStage), nil)
	assert.Equal(t, []string{"油漆", "水電", Uncategorized, "木作"}, groupNames(groups))
}

func TestSortByOrderStable(t *testing.T) {
	items := []models.BidItem{
		{Item: "x"}, {Item: "y", Order: ord(3)}, {Item: "z"}, {Item: "w", Order: ord(3)}, {Item: "v", Order: ord(-1)},
	}
	SortByOrder(items)
	assert.Equal(t, []string{"v", "y", "w", "x", "z"}, names(items))
}

func TestNumeral(t *testing.T) {
	assert.Equal(t, "一", Numeral(0))
	assert.Equal(t, "十一", Numeral(10))
	assert.Equal(t, "二十", Numeral(19))
	assert.Equal(t, "21", Numeral(20))
}

func TestUpdatedDate(t *testing.T) {
	assert.Equal(t, "", UpdatedDate(nil))
	assert.Equal(t, "2024-05-01", UpdatedDate(sampleItems()))
	assert.Equal(t, "2024", UpdatedDate([]models.BidItem{{Updated: "2024"}}))
}

func TestSelectionVisibleNumbering(t *testing.T) {
	groups := GroupByWorkType(FilterStage(sampleItems(), DefaultStage), []string{"水電", "木作"})

	all := SelectAll()
	visible := all.Visible(groups)
	require.Len(t, visible, 4)
	assert.Equal(t, "一、水電", visible[0].Heading)
	assert.Equal(t, "四、"+Uncategorized, visible[3].Heading)
	assert.Equal(t, 46.0, Total(visible))

	sel := SelectAll()
	sel.Toggle("水電", groups)
	visible = sel.Visible(groups)
	assert.Equal(t, []string{"木作", "油漆", Uncategorized}, groupNames(visible))
	assert.Equal(t, "一、木作", visible[0].Heading)

	sel.Toggle("水電", groups)
	assert.True(t, sel.All(groups))
}

func TestSelectionFromQuery(t *testing.T) {
	assert.True(t, SelectionFromQuery(url.Values{}).Has("anything"))

	none := SelectionFromQuery(url.Values{"type": {""}})
	assert.False(t, none.Has("水電"))

	some := SelectionFromQuery(url.Values{"type": {"水電", "木作"}})
	assert.True(t, some.Has("水電"))
	assert.False(t, some.Has("油漆"))
}

func TestFilterLinks(t *testing.T) {
	sheet := &models.Sheet{Title: "T", Items: []models.BidItem{
		{Item: "a", WorkType: "A"},
		{Item: "b", WorkType: "B"},
	}}
	p := Build(sheet, Options{}, SelectAll())
	links := p.FilterLinks("/")
	require.Len(t, links, 2)
	assert.True(t, links[0].Active)
	assert.Equal(t, "/?type=B", links[0].Href)

	p = Build(sheet, Options{}, SelectOnly([]string{"B"}))
	links = p.FilterLinks("/")
	assert.False(t, links[0].Active)
	assert.Equal(t, "/", links[0].Href)
	assert.Equal(t, "/?type=", links[1].Href)
}

func TestBuildNilSheet(t *testing.T) {
	p := Build(nil, Options{}, nil)
	require.NotNil(t, p)
	assert.Empty(t, p.Visible)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$1,234,567", FormatMoney(1234567))
	assert.Equal(t, "$1,234.5", FormatMoney(1234.5))
	assert.Equal(t, "$0", FormatMoney(0))
	assert.Equal(t, PendingQty, FormatQty(nil))
	assert.Equal(t, "2.5", FormatQty(ord(2.5)))
	assert.Equal(t, "", FormatNumber(nil))
}

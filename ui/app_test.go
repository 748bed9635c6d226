package ui

import (
	"context"
	"errors"
	"testing"

	"goc-notion-bidsheet/models"
	"goc-notion-bidsheet/sheet"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAsker struct {
	question string
	answer   string
	err      error
}

func (f *fakeAsker) Ask(ctx context.Context, q string) (string, error) {
	f.question = q
	return f.answer, f.err
}

func testSheet() *models.Sheet {
	return &models.Sheet{
		Title: "A 案標單",
		Items: []models.BidItem{
			{Item: "給水管", Stage: sheet.DefaultStage, WorkType: "水電"},
			{Item: "天花板", Stage: sheet.DefaultStage, WorkType: "木作"},
		},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestToggleWorkType(t *testing.T) {
	m := NewModel(testSheet(), sheet.Options{Stage: sheet.DefaultStage}, nil)
	require.Len(t, m.page.Visible, 2)

	m.Update(key("tab"))
	assert.Equal(t, 1, m.cursor)
	m.Update(key("space"))
	require.Len(t, m.page.Visible, 1)
	assert.Equal(t, "水電", m.page.Visible[0].Name)

	m.Update(key("space"))
	assert.Len(t, m.page.Visible, 2)

	m.Update(key("tab"))
	assert.Equal(t, 0, m.cursor)
}

func TestViewShowsSheet(t *testing.T) {
	m := NewModel(testSheet(), sheet.Options{}, nil)
	view := m.View()
	assert.Contains(t, view, "A 案標單")
	assert.Contains(t, view, "給水管")
	assert.NotContains(t, view, "/: 질문")
}

func TestAskFlow(t *testing.T) {
	asker := &fakeAsker{answer: "수량은 12m입니다."}
	m := NewModel(testSheet(), sheet.Options{}, asker)

	m.Update(key("/"))
	require.Equal(t, modeAsk, m.mode)
	m.Update(key("水"))
	m.Update(key("電x"))
	m.Update(key("backspace"))
	assert.Equal(t, "水電", m.input.Value())

	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.loading)

	m.Update(cmd())
	assert.False(t, m.loading)
	assert.Equal(t, "水電", asker.question)
	assert.Equal(t, "수량은 12m입니다.", m.answer)
	assert.Equal(t, "", m.input.Value())

	m.Update(key("esc"))
	assert.Equal(t, modeBrowse, m.mode)
}

func TestAskError(t *testing.T) {
	m := NewModel(testSheet(), sheet.Options{}, &fakeAsker{err: errors.New("boom")})
	m.Update(key("/"))
	m.Update(key("q"))
	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	m.Update(cmd())
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "boom")
}

func TestQuit(t *testing.T) {
	m := NewModel(testSheet(), sheet.Options{}, nil)
	m.Update(key("/")) // asker가 없으면 무시된다
	assert.Equal(t, modeBrowse, m.mode)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
}

func TestRendererRebuiltOnlyOnResize(t *testing.T) {
	m := NewModel(testSheet(), sheet.Options{}, &fakeAsker{answer: "**12m**"})
	r := m.glam
	require.NotNil(t, r)

	m.Update(key("tab"))
	m.Update(key("space"))
	m.Update(key("/"))
	m.Update(key("q"))
	_, cmd := m.Update(key("enter"))
	m.Update(cmd())
	m.View()
	assert.Same(t, r, m.glam)
	assert.Contains(t, m.answerMD, "12m")

	m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	assert.NotSame(t, r, m.glam)
	assert.Contains(t, m.answerMD, "12m")
}

package ui

import (
	"context"
	"fmt"
	"strings"

	"goc-notion-bidsheet/models"
	"goc-notion-bidsheet/sheet"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			MarginBottom(1)

	activeTypeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#111827")).
			Background(lipgloss.Color("#E5E7EB")).
			Padding(0, 1)

	inactiveTypeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6B7280")).
				Strikethrough(true).
				Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().Underline(true).Bold(true)

	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			PaddingLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			PaddingLeft(2)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD93D")).
			PaddingLeft(2)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

const (
	defaultWidth  = 100
	defaultHeight = 40

	// 제목, 필터, 답변, 도움말 줄
	chromeHeight = 8
)

// Asker 질문에 답하는 기능 (rag.Asker)
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

type mode int

const (
	modeBrowse mode = iota
	modeAsk
)

// Model TUI 애플리케이션 모델
type Model struct {
	sheet     *models.Sheet
	opts      sheet.Options
	page      *sheet.Page
	selection *sheet.Selection
	asker     Asker
	glamStyle string
	glam      *glamour.TermRenderer

	mode   mode
	cursor int
	vp     viewport.Model
	input  textinput.Model

	answer   string
	answerMD string // glamour로 렌더링한 answer
	err      error
	loading  bool
	quitting bool
	width    int
	height   int
}

// NewModel 새로운 TUI 모델을 생성합니다. asker가 nil이면 질문 모드를 쓰지 않습니다.
func NewModel(s *models.Sheet, opts sheet.Options, asker Asker) *Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "예: 給水管 수량은?"
	ti.CharLimit = 200

	m := &Model{
		sheet:     s,
		opts:      opts,
		selection: sheet.SelectAll(),
		asker:     asker,
		glamStyle: "dark",
		input:     ti,
		vp:        viewport.New(defaultWidth, defaultHeight-chromeHeight),
		width:     defaultWidth,
		height:    defaultHeight,
	}
	m.resetRenderer()
	m.rebuild()
	return m
}

// Init bubbletea 초기화 함수
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update bubbletea 업데이트 함수
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.vp.Height = max(msg.Height-chromeHeight, 3)
		m.input.Width = max(msg.Width-4, 10)
		m.resetRenderer()
		m.rebuild()
		if m.answer != "" {
			m.answerMD = m.renderMarkdown(m.answer)
		}
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		if m.mode == modeAsk {
			return m.updateAsk(msg)
		}
		return m.updateBrowse(msg)

	case answerMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.answer = msg.answer
			m.answerMD = m.renderMarkdown(msg.answer)
		}
		m.input.Reset()
		return m, nil
	}

	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	groups := m.page.Groups
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "tab", "right", "l":
		if len(groups) > 0 {
			m.cursor = (m.cursor + 1) % len(groups)
		}
		return m, nil
	case "shift+tab", "left", "h":
		if len(groups) > 0 {
			m.cursor = (m.cursor - 1 + len(groups)) % len(groups)
		}
		return m, nil
	case " ":
		if m.cursor < len(groups) {
			m.selection.Toggle(groups[m.cursor].Name, groups)
			m.rebuild()
		}
		return m, nil
	case "/":
		if m.asker != nil {
			m.mode = modeAsk
			m.err = nil
			return m, m.input.Focus()
		}
		return m, nil
	}

	// 나머지 키는 스크롤 (j/k, pgup/pgdown 등)
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *Model) updateAsk(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Reset()
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		q := strings.TrimSpace(m.input.Value())
		if q == "" {
			return m, nil
		}
		m.loading = true
		m.answer = ""
		m.answerMD = ""
		m.err = nil
		return m, m.ask(q)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// rebuild 선택이나 화면 크기가 바뀌면 표시 내용을 다시 만듭니다
func (m *Model) rebuild() {
	m.page = sheet.Build(m.sheet, m.opts, m.selection)
	if m.cursor >= len(m.page.Groups) {
		m.cursor = 0
	}
	m.vp.SetContent(m.renderMarkdown(sheet.Markdown(m.page)))
}

// resetRenderer 현재 너비에 맞는 glamour 렌더러를 만듭니다. 실패하면 nil로 두고 원문을 출력합니다.
func (m *Model) resetRenderer() {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.glamStyle),
		glamour.WithWordWrap(m.width),
	)
	if err != nil {
		m.glam = nil
		return
	}
	m.glam = r
}

// renderMarkdown Markdown을 터미널용으로 렌더링합니다. 실패하면 원문을 반환합니다.
func (m *Model) renderMarkdown(md string) string {
	if m.glam == nil {
		return md
	}
	out, err := m.glam.Render(md)
	if err != nil {
		return md
	}
	return out
}

// View bubbletea 뷰 함수
func (m *Model) View() string {
	if m.quitting {
		return "\n👋 안녕히 가세요!\n\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("📋 " + m.page.Title))
	b.WriteString("\n")
	b.WriteString(m.filterBar())
	b.WriteString("\n\n")
	b.WriteString(m.vp.View())
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(loadingStyle.Render("🔍 검색 중..."))
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("❌ 오류: %v", m.err)))
		b.WriteString("\n")
	case m.answer != "":
		b.WriteString(questionStyle.Render("💬 답변:"))
		b.WriteString("\n")
		b.WriteString(m.answerMD)
	}

	if m.mode == modeAsk {
		b.WriteString("질문 입력 (Enter: 검색, Esc: 돌아가기):\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	} else {
		help := "tab/shift+tab: 공종 이동 · space: 표시 전환 · ↑/↓: 스크롤 · q: 종료"
		if m.asker != nil {
			help += " · /: 질문"
		}
		b.WriteString(helpStyle.Render(help))
		b.WriteString("\n")
	}

	return b.String()
}

func (m *Model) filterBar() string {
	parts := make([]string, 0, len(m.page.Groups))
	for i, g := range m.page.Groups {
		style := activeTypeStyle
		if !m.selection.Has(g.Name) {
			style = inactiveTypeStyle
		}
		if i == m.cursor {
			style = style.Inherit(cursorStyle)
		}
		parts = append(parts, style.Render(g.Name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// answerMsg 답변 결과 메시지
type answerMsg struct {
	answer string
	err    error
}

func (m *Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.asker.Ask(context.Background(), question)
		return answerMsg{answer: answer, err: err}
	}
}

// Run TUI 애플리케이션을 실행합니다
func Run(s *models.Sheet, opts sheet.Options, asker Asker) error {
	p := tea.NewProgram(NewModel(s, opts, asker), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Package statsui provides the Bubble Tea stats browser.
package statsui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkranz/cubetimer/internal/goals"
	"github.com/dkranz/cubetimer/internal/model"
	"github.com/dkranz/cubetimer/internal/stats"
	"github.com/dkranz/cubetimer/internal/timefmt"
)

const (
	tabOverview = iota
	tabSolves
	tabGoals
)

const plotHeight = 10

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats browser over an in-memory
// collection.
type Model struct {
	collection *model.Collection
	bench      goals.Benchmark

	sessionIdx int

	tabs        int
	activeTab   int
	viewports   []viewport.Model
	solveTable  table.Model
	solveLayout tableLayout

	width  int
	height int
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

var tabTitles = []string{"Overview", "Solves", "Goals"}

// NewModel constructs a stats browser over the given collection.
func NewModel(collection *model.Collection, bench goals.Benchmark) *Model {
	m := &Model{
		collection: collection,
		bench:      bench,
		tabs:       len(tabTitles),
	}
	for i, s := range collection.Sessions {
		if s.ID == collection.CurrentID {
			m.sessionIdx = i
			break
		}
	}
	m.viewports = make([]viewport.Model, m.tabs)
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.solveTable = buildSolveTable(nil, 0, 1)
	m.renderTabContents()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEscape || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabSolves {
			m.solveTable.Focus()
		} else {
			m.solveTable.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "tab", "]":
			m.moveSession(1)
			return m, tea.ClearScreen
		case "shift+tab", "[":
			m.moveSession(-1)
			return m, tea.ClearScreen
		case "g", "home":
			if m.activeTab == tabSolves {
				m.solveTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabSolves {
				m.solveTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabSolves {
				var cmd tea.Cmd
				m.solveTable, cmd = m.solveTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderHelp(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) session() *model.Session {
	sessions := m.collection.Sessions
	if len(sessions) == 0 {
		return nil
	}
	if m.sessionIdx < 0 || m.sessionIdx >= len(sessions) {
		m.sessionIdx = 0
	}
	return sessions[m.sessionIdx]
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.setSolveTableSize(m.width, bodyHeight)
}

func (m *Model) moveTab(delta int) {
	next := m.activeTab + delta
	if next < 0 {
		next = m.tabs - 1
	}
	if next >= m.tabs {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabSolves {
		m.solveTable.Focus()
	} else {
		m.solveTable.Blur()
	}
}

func (m *Model) moveSession(delta int) {
	count := len(m.collection.Sessions)
	if count == 0 {
		return
	}
	m.sessionIdx = ((m.sessionIdx+delta)%count + count) % count
	m.renderTabContents()
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, m.tabs)
	for i, tab := range tabTitles {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	line := "No sessions."
	if s := m.session(); s != nil {
		line = fmt.Sprintf("Session: %s (%s)  %d/%d", s.Name, s.Type, m.sessionIdx+1, len(m.collection.Sessions))
	}
	line = truncateLine(line, m.width)
	return tabs + "\n" + padLines(headerStyle.Render(line), m.width)
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Tabs: left/right  Session: tab/[ ]  Scroll: up/down/pgup/pgdn  Quit: q")
}

func (m *Model) renderBody() string {
	if m.activeTab == tabSolves {
		s := m.session()
		if s == nil || len(s.Results) == 0 {
			return "No solves recorded."
		}
		return tableMutedStyle.Render(m.solveTable.View())
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderTabContents() {
	s := m.session()
	width := m.width
	if width <= 0 {
		width = 80
	}
	if s == nil {
		for i := range m.viewports {
			m.viewports[i].SetContent("No sessions.")
		}
		return
	}
	m.viewports[tabOverview].SetContent(renderOverview(s, width))
	m.viewports[tabGoals].SetContent(renderGoals(s, m.bench))
	_, bodyHeight, _ := m.layoutHeights()
	m.applySolveTable(s, width, bodyHeight)
}

func renderOverview(s *model.Session, width int) string {
	sum := stats.Summarize(s.Results)
	if sum.Count == 0 {
		return "No solves yet."
	}
	cards := renderSummaryCards(sum, width)
	trend := renderTrend(s, width)
	if trend == "" {
		return strings.TrimRight(cards, "\n")
	}
	return strings.TrimRight(cards+"\n\n"+trend, "\n")
}

func renderSummaryCards(sum stats.Summary, width int) string {
	cards := []string{
		metricCard("Solves", fmt.Sprintf("%d (%d DNF)", sum.Count, sum.Voids)),
		metricCard("Best", optionalCard(sum.Best, sum.HasBest)),
		metricCard("Mean", optionalCard(sum.Mean, sum.HasMean)),
	}
	for _, rv := range sum.Rolling[:2] {
		cards = append(cards, metricCard(
			fmt.Sprintf("ao%d", rv.N),
			optionalCard(rv.Current, rv.HasCur),
		))
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func optionalCard(ms float64, ok bool) string {
	if !ok {
		return "-"
	}
	return timefmt.FormatValue(ms)
}

func renderTrend(s *model.Session, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderTrend(&buf, s, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render trend: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderGoals(s *model.Session, bench goals.Benchmark) string {
	var buf bytes.Buffer
	if err := stats.RenderGoals(&buf, s, bench); err != nil {
		return fmt.Sprintf("Failed to render goals: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func buildSolveTable(results []model.Result, width, height int) table.Model {
	cols, rows := buildSolveTableData(results)
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(solveTableStyles())
	return t
}

func buildSolveTableData(results []model.Result) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Time", Width: 9},
		{Title: "Source", Width: 6},
		{Title: "Splits", Width: 11},
		{Title: "Scramble", Width: 60},
	}
	rows := make([]table.Row, 0, len(results))
	for i, r := range results {
		splitsCell := "-"
		if r.Splits != nil {
			splitsCell = fmt.Sprintf("%.2f/%.2f", r.Splits.R1, r.Splits.R2)
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			timefmt.FormatResult(r),
			r.Source.String(),
			splitsCell,
			r.Scramble,
		})
	}
	return columns, rows
}

func (m *Model) applySolveTable(s *model.Session, width, height int) {
	cols, rows := buildSolveTableData(s.Results)
	viewportHeight := maxInt(1, height-1)
	if m.solveLayout.width == width &&
		m.solveLayout.height == viewportHeight &&
		m.solveLayout.rowCount == len(rows) {
		return
	}
	m.solveTable.SetColumns(cols)
	m.solveTable.SetRows(rows)
	m.solveLayout.rowCount = len(rows)
	m.setSolveTableSize(width, height)
	m.solveTable.GotoBottom()
}

func (m *Model) setSolveTableSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	m.solveLayout.width = width
	m.solveLayout.height = viewportHeight
	m.solveTable.SetWidth(width)
	m.solveTable.SetHeight(viewportHeight)
}

func solveTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

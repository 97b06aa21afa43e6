// Package tui provides the Bubble Tea timer interface.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkranz/cubetimer/internal/model"
	"github.com/dkranz/cubetimer/internal/scramble"
	"github.com/dkranz/cubetimer/internal/session"
	"github.com/dkranz/cubetimer/internal/splits"
	"github.com/dkranz/cubetimer/internal/stats"
	"github.com/dkranz/cubetimer/internal/store"
	"github.com/dkranz/cubetimer/internal/timefmt"
	"github.com/dkranz/cubetimer/internal/timer"
)

const ratioStep = 0.05

type inputMode int

const (
	modeNone inputMode = iota
	modeManualEntry
	modeRename
	modeMetrics
)

// metric form steps, in entry order.
const (
	stepMoves = iota
	stepPhase1Rotations
	stepPhase2Rotations
	stepPhase2Pause
	stepPhase3Recognition
	stepCount
)

type countdownTickMsg struct{ gen uint64 }

type runTickMsg struct{ gen uint64 }

type saveDoneMsg struct{ err error }

var (
	scrambleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	clockStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	countdownStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	messageStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	overlayStyle    = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#C89A3A"))
	phaseValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
)

// Model implements the Bubble Tea timer UI.
type Model struct {
	collection *model.Collection
	st         *store.Store
	gen        *scramble.Generator
	machine    *timer.Machine

	width  int
	height int

	scramble string
	message  string

	pending       *splits.Pending
	pendingPhases model.PhaseDurations

	mode       inputMode
	input      textinput.Model
	metricStep int
	metrics    model.Metrics
}

// NewModel constructs the timer TUI model.
func NewModel(collection *model.Collection, st *store.Store, gen *scramble.Generator) *Model {
	input := textinput.New()
	input.CharLimit = 32
	m := &Model{
		collection: collection,
		st:         st,
		gen:        gen,
		machine:    timer.New(timer.SystemClock()),
		input:      input,
	}
	m.scramble = gen.Generate()
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
		return m, nil
	case countdownTickMsg:
		return m.handleCountdownTick(msg.gen)
	case runTickMsg:
		return m.handleRunTick(msg.gen)
	case saveDoneMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("save failed: %v", msg.err)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.mode != modeNone {
		return m.handleInputKey(msg)
	}
	if m.pending != nil {
		return m.handleOverlayKey(msg)
	}

	// A running solve stops on any key, matching stackmat habits.
	if m.machine.State() == timer.StateRunning {
		return m.stopSolve()
	}

	switch msg.String() {
	case " ":
		return m.handleSpace()
	case "esc":
		if m.machine.State() != timer.StateIdle {
			m.machine.Cancel()
			m.message = "cancelled"
		}
		return m, nil
	case "q":
		return m, tea.Quit
	case "t":
		m.enterInput(modeManualEntry, "time> ", "e.g. 12.34, 1:05.32, 9.87+, dnf")
		return m, nil
	case "r":
		m.enterInput(modeRename, "name> ", session.Current(m.collection).Name)
		return m, nil
	case "2":
		return m.applyPenalty(model.PenaltyPlusTwo)
	case "d":
		return m.applyPenalty(model.PenaltyVoid)
	case "x", "backspace":
		return m.deleteLast()
	case "n":
		session.Create(m.collection, model.SessionNormal)
		m.message = fmt.Sprintf("session %q", session.Current(m.collection).Name)
		return m, m.saveCmd()
	case "tab":
		return m.cycleSession()
	case "[":
		return m.nudgeRatio(0, -ratioStep)
	case "]":
		return m.nudgeRatio(0, ratioStep)
	case "{":
		return m.nudgeRatio(1, -ratioStep)
	case "}":
		return m.nudgeRatio(1, ratioStep)
	case "s":
		m.scramble = m.gen.Generate()
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) handleSpace() (tea.Model, tea.Cmd) {
	switch m.machine.State() {
	case timer.StateIdle, timer.StateReady:
		if m.collection.Settings.InspectionEnabled {
			gen, ok := m.machine.StartCountdown(m.collection.Settings.InspectionSeconds)
			if !ok {
				return m, nil
			}
			m.message = ""
			return m, countdownTickCmd(gen)
		}
		return m.startSolve()
	case timer.StateCountdown:
		return m.startSolve()
	default:
		return m, nil
	}
}

func (m *Model) startSolve() (tea.Model, tea.Cmd) {
	gen, ok := m.machine.Start()
	if !ok {
		return m, nil
	}
	m.message = ""
	return m, runTickCmd(gen)
}

func (m *Model) stopSolve() (tea.Model, tea.Cmd) {
	durationMs, plusTwo, ok := m.machine.Stop()
	if !ok {
		return m, nil
	}
	penalty := model.PenaltyNone
	if plusTwo {
		penalty = model.PenaltyPlusTwo
	}
	if m.collection.Settings.SplitsEnabled {
		pending, phases := splits.BeginCompletion(durationMs, m.scramble, m.collection.MeshSplits)
		m.pending = pending.WithPenalty(penalty)
		m.pendingPhases = phases
		m.metrics = model.Metrics{}
		return m, nil
	}
	return m.appendResult(splits.TimedResult(durationMs, m.scramble, penalty), true)
}

func (m *Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.finishPending(m.pending.Finalize())
	case "s", "esc":
		return m.finishPending(m.pending.Skip())
	case "m":
		m.metricStep = stepMoves
		m.enterInput(modeMetrics, metricPrompt(stepMoves), "")
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) finishPending(r model.Result) (tea.Model, tea.Cmd) {
	m.pending = nil
	return m.appendResult(r, true)
}

// appendResult appends to the current session, optionally advances the
// scramble, and schedules a best-effort save.
func (m *Model) appendResult(r model.Result, nextScramble bool) (tea.Model, tea.Cmd) {
	cur := session.Current(m.collection)
	appended, err := session.Append(m.collection, cur.ID, r)
	if err != nil {
		m.message = err.Error()
		return m, nil
	}
	m.message = timefmt.FormatResult(appended)
	if nextScramble {
		m.scramble = m.gen.Generate()
	}
	return m, m.saveCmd()
}

func (m *Model) applyPenalty(p model.Penalty) (tea.Model, tea.Cmd) {
	cur := session.Current(m.collection)
	if len(cur.Results) == 0 {
		m.message = "no solve to penalize"
		return m, nil
	}
	last := cur.Results[len(cur.Results)-1]
	if err := session.SetPenalty(m.collection, cur.ID, last.ID, p); err != nil {
		m.message = err.Error()
		return m, nil
	}
	m.message = fmt.Sprintf("%s applied", p)
	return m, m.saveCmd()
}

func (m *Model) deleteLast() (tea.Model, tea.Cmd) {
	cur := session.Current(m.collection)
	removed, err := session.RemoveLast(m.collection, cur.ID)
	if err != nil {
		m.message = "nothing to delete"
		return m, nil
	}
	m.message = fmt.Sprintf("deleted %s", timefmt.FormatResult(removed))
	return m, m.saveCmd()
}

func (m *Model) cycleSession() (tea.Model, tea.Cmd) {
	sessions := m.collection.Sessions
	if len(sessions) < 2 {
		return m, nil
	}
	for i, s := range sessions {
		if s.ID == m.collection.CurrentID {
			next := sessions[(i+1)%len(sessions)]
			if err := session.SetCurrent(m.collection, next.ID); err == nil {
				m.message = fmt.Sprintf("session %q", next.Name)
			}
			break
		}
	}
	return m, m.saveCmd()
}

func (m *Model) nudgeRatio(index int, delta float64) (tea.Model, tea.Cmd) {
	current := m.collection.MeshSplits
	proposed := current.R1 + delta
	if index == 1 {
		proposed = current.R2 + delta
	}
	m.collection.MeshSplits = splits.ClampRatio(current, index, proposed)
	r := m.collection.MeshSplits
	m.message = fmt.Sprintf("splits %.2f / %.2f", r.R1, r.R2)
	return m, m.saveCmd()
}

func (m *Model) enterInput(mode inputMode, prompt, placeholder string) {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.input.Focus()
}

func (m *Model) leaveInput() {
	m.mode = modeNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		if m.mode == modeMetrics && m.pending != nil {
			// Abandoning the form still stores the solve, without metrics.
			m.leaveInput()
			return m.finishPending(m.pending.Skip())
		}
		m.leaveInput()
		return m, nil
	case tea.KeyEnter:
		return m.submitInput()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submitInput() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	switch m.mode {
	case modeManualEntry:
		m.leaveInput()
		if value == "" {
			return m, nil
		}
		durationMs, penalty, err := timefmt.ParseEntry(value)
		if err != nil {
			m.message = err.Error()
			return m, nil
		}
		return m.appendResult(splits.TypedResult(durationMs, penalty), false)
	case modeRename:
		m.leaveInput()
		cur := session.Current(m.collection)
		if err := session.Rename(m.collection, cur.ID, value); err != nil {
			m.message = err.Error()
			return m, nil
		}
		m.message = fmt.Sprintf("renamed to %q", value)
		return m, m.saveCmd()
	case modeMetrics:
		return m.submitMetricStep(value)
	default:
		m.leaveInput()
		return m, nil
	}
}

func (m *Model) submitMetricStep(value string) (tea.Model, tea.Cmd) {
	if value != "" {
		if !m.recordMetric(value) {
			m.message = "invalid value"
			m.input.SetValue("")
			return m, nil
		}
	}
	m.metricStep++
	if m.metricStep < stepCount {
		m.input.Prompt = metricPrompt(m.metricStep)
		m.input.SetValue("")
		return m, nil
	}
	m.leaveInput()
	pending := m.pending
	if pending == nil {
		return m, nil
	}
	if err := pending.AttachMetrics(m.metrics); err != nil {
		m.message = err.Error()
	}
	return m.finishPending(pending.Finalize())
}

// recordMetric parses one form value; blank fields never reach here and
// stay unrecorded.
func (m *Model) recordMetric(value string) bool {
	switch m.metricStep {
	case stepMoves:
		v, err := strconv.Atoi(value)
		if err != nil || v < 0 {
			return false
		}
		m.metrics.Phase1Moves = &v
	case stepPhase1Rotations:
		v, err := strconv.Atoi(value)
		if err != nil || v < 0 || v > 3 {
			return false
		}
		m.metrics.Phase1Rotations = &v
	case stepPhase2Rotations:
		v, err := strconv.Atoi(value)
		if err != nil || v < 0 || v > 6 {
			return false
		}
		m.metrics.Phase2Rotations = &v
	case stepPhase2Pause:
		v, ok := parseYesNo(value)
		if !ok {
			return false
		}
		m.metrics.Phase2Pause = &v
	case stepPhase3Recognition:
		v, ok := parseYesNo(value)
		if !ok {
			return false
		}
		m.metrics.Phase3RecognitionDelay = &v
	}
	return true
}

func parseYesNo(value string) (bool, bool) {
	switch strings.ToLower(value) {
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	default:
		return false, false
	}
}

func metricPrompt(step int) string {
	switch step {
	case stepMoves:
		return "phase 1 moves> "
	case stepPhase1Rotations:
		return "phase 1 rotations (0-3)> "
	case stepPhase2Rotations:
		return "phase 2 rotations (0-6)> "
	case stepPhase2Pause:
		return "phase 2 pause (y/n)> "
	default:
		return "phase 3 recognition delay (y/n)> "
	}
}

func (m *Model) handleCountdownTick(gen uint64) (tea.Model, tea.Cmd) {
	if _, live := m.machine.CountdownTick(gen); !live {
		if m.machine.State() == timer.StateIdle {
			m.message = "inspection expired"
		}
		return m, nil
	}
	return m, countdownTickCmd(gen)
}

func (m *Model) handleRunTick(gen uint64) (tea.Model, tea.Cmd) {
	if _, live := m.machine.RunningTick(gen); !live {
		return m, nil
	}
	return m, runTickCmd(gen)
}

func countdownTickCmd(gen uint64) tea.Cmd {
	return tea.Tick(timer.CountdownTickInterval, func(time.Time) tea.Msg {
		return countdownTickMsg{gen: gen}
	})
}

func runTickCmd(gen uint64) tea.Cmd {
	return tea.Tick(timer.RunningTickInterval, func(time.Time) tea.Msg {
		return runTickMsg{gen: gen}
	})
}

// saveCmd schedules a best-effort snapshot write. Failures surface on the
// message line and never roll back in-memory state.
func (m *Model) saveCmd() tea.Cmd {
	if m.st == nil {
		return nil
	}
	st := m.st
	collection := m.collection
	return func() tea.Msg {
		return saveDoneMsg{err: st.Save(context.Background(), collection)}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	cur := session.Current(m.collection)
	header := headerStyle.Render(fmt.Sprintf("%s (%s) · %d solves", cur.Name, cur.Type, len(cur.Results)))
	scrambleLine := scrambleStyle.Render(m.scramble)
	clock := m.renderClock()
	footer := footerStyle.Render(m.renderFooter(cur))

	var body string
	switch {
	case m.mode != modeNone:
		body = joinLines(header, scrambleLine, clock, m.input.View())
	case m.pending != nil:
		body = joinLines(header, m.renderOverlay())
	default:
		body = joinLines(header, scrambleLine, clock)
	}
	if m.message != "" {
		body = joinLines(body, messageStyle.Render(m.message))
	}

	if m.width == 0 || m.height == 0 {
		return body + "\n" + footer
	}
	content := lipgloss.NewStyle().Width(contentWidth(m.width)).Render(body)
	placed := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return placed + "\n" + footerLine
}

func contentWidth(width int) int {
	w := int(float64(width) * 0.80)
	if w < 1 {
		w = 1
	}
	return w
}

func (m *Model) renderClock() string {
	switch m.machine.State() {
	case timer.StateRunning:
		return clockStyle.Render(timefmt.Format(m.machine.ElapsedMs()))
	case timer.StateCountdown:
		remaining := m.machine.InspectionRemaining()
		if remaining <= 0 {
			return countdownStyle.Render(fmt.Sprintf("%d (+2)", remaining))
		}
		return countdownStyle.Render(strconv.Itoa(remaining))
	default:
		cur := session.Current(m.collection)
		if len(cur.Results) > 0 {
			return clockStyle.Render(timefmt.FormatResult(cur.Results[len(cur.Results)-1]))
		}
		return clockStyle.Render("0.00")
	}
}

func (m *Model) renderOverlay() string {
	lines := []string{
		"Solve " + phaseValueStyle.Render(timefmt.Format(durationOf(m.pendingPhases))),
		fmt.Sprintf("phase 1  %s", phaseValueStyle.Render(timefmt.FormatValue(m.pendingPhases.Phase1Ms))),
		fmt.Sprintf("phase 2  %s", phaseValueStyle.Render(timefmt.FormatValue(m.pendingPhases.Phase2Ms))),
		fmt.Sprintf("phase 3  %s", phaseValueStyle.Render(timefmt.FormatValue(m.pendingPhases.Phase3Ms))),
		"",
		"[enter] save  [m] metrics  [s] skip",
	}
	return overlayStyle.Render(strings.Join(lines, "\n"))
}

func durationOf(p model.PhaseDurations) int64 {
	return int64(p.Phase1Ms + p.Phase2Ms + p.Phase3Ms + 0.5)
}

func (m *Model) renderFooter(cur *model.Session) string {
	sum := stats.Summarize(cur.Results)
	segments := []string{
		"best " + optionalValue(sum.Best, sum.HasBest),
	}
	for _, rv := range sum.Rolling[:2] {
		segments = append(segments, fmt.Sprintf("ao%d %s", rv.N, optionalValue(rv.Current, rv.HasCur)))
	}
	r := m.collection.MeshSplits
	segments = append(segments, fmt.Sprintf("splits %.2f/%.2f", r.R1, r.R2))
	return strings.Join(segments, "  ")
}

func optionalValue(ms float64, ok bool) string {
	if !ok {
		return "-"
	}
	return timefmt.FormatValue(ms)
}

func joinLines(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, "\n\n")
}

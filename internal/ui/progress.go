// Package ui renders replay progress in the terminal.
package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"ember/internal/pipeline"
)

// maxVisible bounds the entry list; older finished entries scroll away.
const maxVisible = 20

type progressModel struct {
	title    string
	events   <-chan pipeline.Event
	spinner  spinner.Model
	prog     progress.Model
	items    []entry
	index    map[string]int
	verdicts map[string]int
	finished int
	width    int
	done     bool
}

type entry struct {
	path   string
	status string
	stage  pipeline.Stage
	final  bool
}

type eventMsg pipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders replay progress
// for files. It quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan pipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]entry, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items = append(items, entry{path: file, status: "queued"})
		index[file] = i
	}
	return &progressModel{
		title:    title,
		events:   events,
		spinner:  sp,
		prog:     prog,
		items:    items,
		index:    index,
		verdicts: make(map[string]int),
		width:    80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(pipeline.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s %d/%d", m.title, m.finished, len(m.items))
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	if counts := m.countsLine(); counts != "" {
		b.WriteString("  ")
		b.WriteString(counts)
	}
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := max(m.width-statusWidth-4, 20)
	for _, it := range m.visible() {
		status := styleStatus(it.status).Render(fmt.Sprintf("%12s", it.status))
		b.WriteString("  ")
		b.WriteString(status)
		b.WriteString(" ")
		b.WriteString(truncate(it.path, nameWidth))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

// visible keeps running and queued entries in view ahead of finished ones.
func (m *progressModel) visible() []entry {
	if len(m.items) <= maxVisible {
		return m.items
	}
	out := make([]entry, 0, maxVisible)
	for _, it := range m.items {
		if !it.final {
			out = append(out, it)
			if len(out) == maxVisible {
				return out
			}
		}
	}
	for i := len(m.items) - 1; i >= 0 && len(out) < maxVisible; i-- {
		if m.items[i].final {
			out = append(out, m.items[i])
		}
	}
	return out
}

func (m *progressModel) countsLine() string {
	if len(m.verdicts) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m.verdicts))
	for k := range m.verdicts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, styleStatus(k).Render(fmt.Sprintf("%s=%d", k, m.verdicts[k])))
	}
	return strings.Join(parts, " ")
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	it := &m.items[idx]
	if it.final {
		return nil
	}
	it.stage = ev.Stage
	switch {
	case ev.Verdict != "":
		it.status = ev.Verdict
		it.final = true
		m.verdicts[ev.Verdict]++
		m.finished++
	case ev.Status == pipeline.StatusError:
		it.status = "error"
		it.final = true
		m.finished++
	default:
		if label := statusLabel(ev.Stage, ev.Status); label != "" {
			it.status = label
		}
	}

	total := 0.0
	for _, item := range m.items {
		if item.final {
			total += 1.0
		} else {
			total += progressFromStage(item.stage)
		}
	}
	return m.prog.SetPercent(total / float64(len(m.items)))
}

func progressFromStage(stage pipeline.Stage) float64 {
	switch stage {
	case pipeline.StageLoad:
		return 0.1
	case pipeline.StageRender, pipeline.StageParse:
		return 0.3
	case pipeline.StagePrelude, pipeline.StageAnalyze:
		return 0.5
	case pipeline.StageExecute:
		return 0.8
	default:
		return 0.0
	}
}

func statusLabel(stage pipeline.Stage, status pipeline.Status) string {
	switch status {
	case pipeline.StatusQueued:
		return "queued"
	case pipeline.StatusDone:
		return "done"
	case pipeline.StatusError:
		return "error"
	case pipeline.StatusWorking:
		return stageLabel(stage)
	default:
		return ""
	}
}

func stageLabel(stage pipeline.Stage) string {
	switch stage {
	case pipeline.StageLoad:
		return "loading"
	case pipeline.StageRender, pipeline.StageParse:
		return "parsing"
	case pipeline.StagePrelude, pipeline.StageAnalyze:
		return "analyzing"
	case pipeline.StageExecute:
		return "running"
	default:
		return ""
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "ok", "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "syntax":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case "semantic":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	case "runtime", "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "loading", "parsing", "analyzing", "running":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	// keep the file name, drop the front of the path
	tail := []rune(value)
	for runewidth.StringWidth(string(tail)) > width-3 {
		tail = tail[1:]
	}
	return "..." + string(tail)
}

package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cloud-filemanager/go/internal/types"
	"github.com/cloud-filemanager/go/internal/ui"
)

// ErrInterrupted is returned by Run when the user quits before every task ran.
var ErrInterrupted = errors.New("interrupted")

var (
	titleStyle  = ui.TitleStyle
	statusStyle = ui.MutedStyle
	checkMark   = ui.SuccessStyle.Render(ui.IconSuccess)
	crossMark   = ui.ErrorStyle.Render(ui.IconError)
)

// Task is one file operation run by the batch model
type Task struct {
	Label string
	Run   func() (types.OperationResult, error)
}

// Result pairs the outcome of a task with its error
type Result struct {
	types.OperationResult
	Err error
}

type taskDoneMsg struct {
	index  int
	result types.OperationResult
	err    error
}

// Model runs tasks one after the other, showing a spinner on the running
// task and a log of finished ones.
type Model struct {
	title       string
	tasks       []Task
	current     int
	results     []Result
	spinner     spinner.Model
	viewport    viewport.Model
	progress    *ui.ProgressBar
	logs        []string
	interrupted bool
}

func NewModel(title string, tasks []Task) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ui.ColorSecondary)

	vp := viewport.New(80, 6)
	vp.Style = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorMuted).
		PaddingRight(2)

	return Model{
		title:    title,
		tasks:    tasks,
		spinner:  s,
		viewport: vp,
		progress: ui.NewProgressBar(len(tasks), title),
	}
}

func (m Model) Init() tea.Cmd {
	if len(m.tasks) == 0 {
		return tea.Quit
	}
	return tea.Batch(
		m.spinner.Tick,
		m.runTask(0),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.interrupted = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	case taskDoneMsg:
		m.results = append(m.results, Result{OperationResult: msg.result, Err: msg.err})
		m.logs = append(m.logs, logLine(m.tasks[msg.index].Label, msg.err))
		m.progress.Increment()
		m.current = msg.index + 1
		if m.Done() {
			cmds = append(cmds, tea.Quit)
		} else {
			cmds = append(cmds, m.runTask(m.current))
		}
	}

	m.viewport.SetContent(strings.Join(m.logs, "\n"))
	m.viewport.GotoBottom()
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(titleStyle.Render(m.title) + "\n")

	for i, task := range m.tasks {
		switch {
		case i < len(m.results) && m.results[i].Err != nil:
			sb.WriteString(fmt.Sprintf(" %s %s\n", crossMark, task.Label))
		case i < len(m.results):
			sb.WriteString(fmt.Sprintf(" %s %s\n", checkMark, task.Label))
		case i == m.current && !m.interrupted:
			sb.WriteString(fmt.Sprintf(" %s %s\n", m.spinner.View(), task.Label))
		default:
			sb.WriteString(fmt.Sprintf("   %s\n", statusStyle.Render(task.Label)))
		}
	}

	sb.WriteString("\n" + m.progress.View() + "\n")
	if len(m.logs) > 0 {
		sb.WriteString(m.viewport.View() + "\n")
	}
	if !m.Done() && !m.interrupted {
		sb.WriteString(statusStyle.Render("Press q to quit.") + "\n")
	}

	return sb.String()
}

// Done reports whether every task has run
func (m Model) Done() bool {
	return m.current >= len(m.tasks)
}

// Results returns the results of the tasks that ran, in order
func (m Model) Results() []Result {
	return m.results
}

func (m Model) runTask(i int) tea.Cmd {
	task := m.tasks[i]
	return func() tea.Msg {
		result, err := task.Run()
		return taskDoneMsg{index: i, result: result, err: err}
	}
}

func logLine(label string, err error) string {
	if err != nil {
		return fmt.Sprintf("%s %s: %v", ui.IconError, label, err)
	}
	return fmt.Sprintf("%s %s", ui.IconSuccess, label)
}

// Run executes tasks behind an interactive progress display on out.
func Run(title string, tasks []Task, out io.Writer) ([]Result, error) {
	p := tea.NewProgram(NewModel(title, tasks), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress display failed: %w", err)
	}

	m := final.(Model)
	if m.interrupted && !m.Done() {
		return m.Results(), ErrInterrupted
	}
	return m.Results(), nil
}

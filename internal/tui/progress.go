// internal/tui/progress.go
//
// A small progress view for interactive builds: one row per pipeline
// stage, driven by the pipeline's progress events. The pipeline result is
// exactly the same with or without this view; it only changes what the
// terminal shows while the remote renders are in flight.

package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docsmith/internal/pipeline"
)

var (
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
)

type stageState int

const (
	statePending stageState = iota
	stateRunning
	stateDone
)

type stageRow struct {
	key   string
	label string
	state stageState
}

type eventMsg pipeline.Event

type doneMsg struct {
	result pipeline.Result
	err    error
}

// Model is the bubbletea model for one build run.
type Model struct {
	spinner  spinner.Model
	rows     []stageRow
	finished bool
	result   pipeline.Result
	err      error
	canceled bool
}

func newModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = runningStyle
	return Model{
		spinner: s,
		rows: []stageRow{
			{key: "load", label: "Load requirements and diagram sources"},
			{key: "validate", label: "Validate traceability"},
			{key: "render:runtime", label: "Render runtime diagram"},
			{key: "render:class", label: "Render class diagram"},
			{key: "render:block", label: "Render block diagram"},
			{key: "compose", label: "Compose site"},
		},
	}
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles progress events, completion and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.setStage(stageKey(pipeline.Event(msg)), pipeline.Event(msg).Done)
		return m, nil
	case doneMsg:
		m.finished = true
		m.result = msg.result
		m.err = msg.err
		for i := range m.rows {
			if msg.err == nil {
				m.rows[i].state = stateDone
			}
		}
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.canceled = true
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

// View renders the stage list.
func (m Model) View() string {
	var out string
	for _, row := range m.rows {
		switch row.state {
		case stateDone:
			out += fmt.Sprintf("%s %s\n", doneStyle.Render("✓"), row.label)
		case stateRunning:
			out += fmt.Sprintf("%s%s\n", m.spinner.View(), row.label)
		default:
			out += pendingStyle.Render(fmt.Sprintf("· %s", row.label)) + "\n"
		}
	}
	if !m.finished {
		out += pendingStyle.Render("press q to abort") + "\n"
	}
	return out
}

func (m *Model) setStage(key string, done bool) {
	for i := range m.rows {
		if m.rows[i].key != key {
			continue
		}
		if done {
			m.rows[i].state = stateDone
		} else if m.rows[i].state != stateDone {
			m.rows[i].state = stateRunning
		}
		return
	}
}

func stageKey(ev pipeline.Event) string {
	if ev.Stage == pipeline.StageRender && ev.Detail != "" {
		return string(ev.Stage) + ":" + ev.Detail
	}
	return string(ev.Stage)
}

// Run executes the build behind the progress view. The run callback
// receives the observer to hand to the pipeline and is executed on its
// own goroutine; its outcome is returned once the view has quit.
func Run(run func(pipeline.Observer) (pipeline.Result, error)) (pipeline.Result, error) {
	prog := tea.NewProgram(newModel())

	go func() {
		result, err := run(func(ev pipeline.Event) {
			prog.Send(eventMsg(ev))
		})
		prog.Send(doneMsg{result: result, err: err})
	}()

	final, err := prog.Run()
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("tui: %w", err)
	}
	model, ok := final.(Model)
	if !ok {
		return pipeline.Result{}, fmt.Errorf("tui: unexpected final model %T", final)
	}
	if model.canceled {
		return pipeline.Result{}, fmt.Errorf("tui: build aborted")
	}
	return model.result, model.err
}

package app

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/placement/internal/audio"
	"github.com/abhisek/placement/internal/flow"
	"github.com/abhisek/placement/internal/quiz"
	"github.com/abhisek/placement/internal/review"
	"github.com/abhisek/placement/internal/router"
	"github.com/abhisek/placement/internal/scoring"
	"github.com/abhisek/placement/internal/screen"
	"github.com/abhisek/placement/internal/screens/dashboard"
	"github.com/abhisek/placement/internal/screens/intake"
	"github.com/abhisek/placement/internal/screens/questions"
	"github.com/abhisek/placement/internal/screens/results"
	"github.com/abhisek/placement/internal/speech"
	"github.com/abhisek/placement/internal/store"
	"github.com/abhisek/placement/internal/ui/layout"
)

// Options holds the dependencies of the TUI. Any field may be left
// zero; features that need a missing piece are then unavailable.
type Options struct {
	History   store.HistoryRepo
	Reviews   store.ReviewRepo
	Reviewer  *review.Service
	Synth     speech.Synthesizer
	OpenAudio audio.OpenFunc
	Bank      []quiz.Question
	Scorer    *scoring.Scorer

	// StartAt is the initial state. Only intake and dashboard can be
	// entered without session data.
	StartAt flow.State

	// LogFile receives the standard logger while the TUI runs. When
	// empty the logger is left alone.
	LogFile string
}

// AppModel is the root Bubble Tea model. It owns the flow machine and
// shows the screen of the current state.
type AppModel struct {
	opts    Options
	machine *flow.Machine
	router  *router.Router
	width   int
	height  int
}

// New creates an AppModel positioned at opts.StartAt.
func New(opts Options) AppModel {
	if opts.Bank == nil {
		opts.Bank = quiz.Bank()
	}
	if opts.Scorer == nil {
		opts.Scorer = scoring.NewScorer()
	}
	m := AppModel{opts: opts, machine: flow.NewAt(opts.StartAt)}
	m.router = router.New(m.screenFor(m.machine.State()))
	return m
}

// State returns the current flow state.
func (m AppModel) State() flow.State {
	return m.machine.State()
}

// Active returns the screen on top of the stack.
func (m AppModel) Active() screen.Screen {
	return m.router.Active()
}

func (m AppModel) screenFor(s flow.State) screen.Screen {
	switch s {
	case flow.StateTesting:
		student, _ := m.machine.Student()
		return questions.New(student, questions.Options{
			Bank:      m.opts.Bank,
			Scorer:    m.opts.Scorer,
			Synth:     m.opts.Synth,
			OpenAudio: m.opts.OpenAudio,
		})
	case flow.StateResults:
		result, _ := m.machine.Result()
		return results.New(result, m.opts.History != nil)
	case flow.StateDashboard:
		return dashboard.New(m.dashboardOptions())
	default:
		return intake.New()
	}
}

func (m AppModel) dashboardOptions() dashboard.Options {
	return dashboard.Options{
		History:  m.opts.History,
		Reviews:  m.opts.Reviews,
		Reviewer: m.opts.Reviewer,
		Bank:     m.opts.Bank,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.Close()
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}

	case flow.StartTestMsg, flow.ViewDashboardMsg, flow.RestartMsg:
		state, _ := m.machine.Apply(msg)
		return m, m.router.Reset(m.screenFor(state))

	case flow.TestCompletedMsg:
		state, _ := m.machine.Apply(msg)
		cmd := m.router.Reset(m.screenFor(state))
		if state != flow.StateResults {
			return m, cmd
		}
		return m, tea.Batch(cmd, m.save(msg.Result))
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// save appends r to the history. The outcome is reported to the results
// screen; a failure never blocks the learner.
func (m AppModel) save(r quiz.TestResult) tea.Cmd {
	repo := m.opts.History
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		err := repo.Append(context.Background(), r)
		if err != nil {
			log.Printf("save result %s: %v", r.ID, err)
		}
		return results.SavedMsg{ID: r.ID, Err: err}
	}
}

// Close releases the screens' resources.
func (m AppModel) Close() {
	for m.router.Depth() > 1 {
		m.router.Pop()
	}
	screen.Release(m.router.Active())
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the frame: header, active screen and footer.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	status := ""
	if student, ok := m.machine.Student(); ok && m.machine.State() == flow.StateTesting {
		status = student.FullName + "  "
	}
	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Enter", Description: "Выбрать"},
			{Key: "Ctrl+C", Description: "Выход"},
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.LogFile != "" {
		f, err := tea.LogToFile(opts.LogFile, "placement")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	}

	m := New(opts)
	p := tea.NewProgram(m)
	final, err := p.Run()
	if fm, ok := final.(AppModel); ok {
		fm.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

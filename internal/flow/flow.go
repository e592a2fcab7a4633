// Package flow is the navigation state machine of a placement session.
package flow

import "github.com/abhisek/placement/internal/quiz"

// State is one of the four session screens.
type State int

const (
	StateIntake State = iota
	StateTesting
	StateResults
	StateDashboard
)

func (s State) String() string {
	switch s {
	case StateIntake:
		return "intake"
	case StateTesting:
		return "testing"
	case StateResults:
		return "results"
	case StateDashboard:
		return "dashboard"
	default:
		return "unknown"
	}
}

// Messages screens send to request a transition.
type (
	// StartTestMsg is sent by the intake screen with validated data.
	StartTestMsg struct{ Student quiz.StudentData }

	// TestCompletedMsg carries the scored result of a finished test.
	TestCompletedMsg struct{ Result quiz.TestResult }

	// ViewDashboardMsg opens the teacher dashboard.
	ViewDashboardMsg struct{}

	// RestartMsg discards the session and returns to intake.
	RestartMsg struct{}
)

// Machine holds the current state and the data each state needs. A
// transition whose precondition does not hold lands on intake.
type Machine struct {
	state   State
	student *quiz.StudentData
	result  *quiz.TestResult
}

// New returns a machine at intake.
func New() *Machine {
	return &Machine{state: StateIntake}
}

// NewAt returns a machine positioned at s. States that need data the
// machine cannot have yet resolve to intake.
func NewAt(s State) *Machine {
	m := &Machine{state: s}
	m.resolve()
	return m
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Student returns the learner of the running session, if any.
func (m *Machine) Student() (quiz.StudentData, bool) {
	if m.student == nil {
		return quiz.StudentData{}, false
	}
	return *m.student, true
}

// Result returns the result of the finished test, if any.
func (m *Machine) Result() (quiz.TestResult, bool) {
	if m.result == nil {
		return quiz.TestResult{}, false
	}
	return *m.result, true
}

// Start moves from intake to testing.
func (m *Machine) Start(sd quiz.StudentData) State {
	if m.state != StateIntake {
		return m.reset()
	}
	m.student = &sd
	m.result = nil
	m.state = StateTesting
	return m.state
}

// Complete moves from testing to results.
func (m *Machine) Complete(r quiz.TestResult) State {
	if m.state != StateTesting || m.student == nil {
		return m.reset()
	}
	m.result = &r
	m.state = StateResults
	return m.state
}

// OpenDashboard moves to the dashboard. It is reachable from results and,
// for the standalone dashboard command, from a fresh intake.
func (m *Machine) OpenDashboard() State {
	switch m.state {
	case StateResults, StateIntake, StateDashboard:
		m.state = StateDashboard
	default:
		return m.reset()
	}
	return m.state
}

// Restart discards the session and returns to intake.
func (m *Machine) Restart() State {
	return m.reset()
}

// Apply dispatches one of the flow messages. ok is false for other messages.
func (m *Machine) Apply(msg any) (s State, ok bool) {
	switch msg := msg.(type) {
	case StartTestMsg:
		return m.Start(msg.Student), true
	case TestCompletedMsg:
		return m.Complete(msg.Result), true
	case ViewDashboardMsg:
		return m.OpenDashboard(), true
	case RestartMsg:
		return m.Restart(), true
	}
	return m.state, false
}

// resolve routes a state that lacks its data back to intake.
func (m *Machine) resolve() State {
	switch {
	case m.state == StateTesting && m.student == nil:
		return m.reset()
	case m.state == StateResults && m.result == nil:
		return m.reset()
	case m.state < StateIntake || m.state > StateDashboard:
		return m.reset()
	}
	return m.state
}

func (m *Machine) reset() State {
	m.state = StateIntake
	m.student = nil
	m.result = nil
	return m.state
}

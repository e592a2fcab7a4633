// Package dashboard is the teacher's view of finished tests.
package dashboard

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/placement/internal/flow"
	"github.com/abhisek/placement/internal/quiz"
	"github.com/abhisek/placement/internal/review"
	"github.com/abhisek/placement/internal/router"
	"github.com/abhisek/placement/internal/screen"
	"github.com/abhisek/placement/internal/store"
	"github.com/abhisek/placement/internal/ui/layout"
	"github.com/abhisek/placement/internal/ui/theme"
)

// Options configures the dashboard. Reviews and Reviewer may be nil; the
// review assistant is then unavailable.
type Options struct {
	History  store.HistoryRepo
	Reviews  store.ReviewRepo
	Reviewer *review.Service
	Bank     []quiz.Question
}

type historyLoadedMsg struct {
	Results []quiz.TestResult
	Err     error
}

// DashboardScreen lists finished tests, newest first.
type DashboardScreen struct {
	opts     Options
	results  []quiz.TestResult
	selected int
	offset   int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)

// New creates a DashboardScreen.
func New(opts Options) *DashboardScreen {
	if opts.Bank == nil {
		opts.Bank = quiz.Bank()
	}
	return &DashboardScreen{opts: opts}
}

func (s *DashboardScreen) Init() tea.Cmd {
	repo := s.opts.History
	return func() tea.Msg {
		if repo == nil {
			return historyLoadedMsg{}
		}
		results, err := repo.All(context.Background())
		return historyLoadedMsg{Results: results, Err: err}
	}
}

func (s *DashboardScreen) Title() string {
	return "Панель преподавателя"
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Выбор"},
		{Key: "Enter", Description: "Посмотреть детали"},
		{Key: "Esc", Description: "← На главную"},
	}
}

// Results returns the loaded history, newest first.
func (s *DashboardScreen) Results() []quiz.TestResult {
	return s.results
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.results = slices.Clone(msg.Results)
		slices.Reverse(s.results)
		s.selected = 0
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc", "h":
			return s, func() tea.Msg { return flow.RestartMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
		case "enter":
			return s, s.openSelected()
		}
	}
	return s, nil
}

func (s *DashboardScreen) openSelected() tea.Cmd {
	if s.selected < 0 || s.selected >= len(s.results) {
		return nil
	}
	detail := NewDetail(s.results[s.selected], s.opts)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: detail}
	}
}

func (s *DashboardScreen) View(width, height int) string {
	dim := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim)

	switch {
	case s.errMsg != "":
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\nОшибка: " + s.errMsg)
	case !s.loaded:
		return dim.Render("\n\nЗагрузка...")
	case len(s.results) == 0:
		return dim.Italic(true).Render("\n\nПока нет завершенных тестов.")
	}

	// Each entry takes three lines.
	visible := max((height-2)/3, 1)
	if s.selected < s.offset {
		s.offset = s.selected
	}
	if s.selected >= s.offset+visible {
		s.offset = s.selected - visible + 1
	}
	end := min(s.offset+visible, len(s.results))

	w := min(width-4, 90)
	var b strings.Builder
	b.WriteString("\n")
	for i := s.offset; i < end; i++ {
		r := s.results[i]
		name := theme.Body.Bold(true).Render(r.StudentData.FullName)
		meta := theme.Hint.Render(fmt.Sprintf("%s - Уровень: %s", r.CompletedAt, r.PreliminaryLevel))

		prefix := "  "
		if i == s.selected {
			prefix = theme.Selected.Render("▸ ")
			name = theme.Selected.Render(r.StudentData.FullName)
			meta += "  " + theme.Selected.Render("[Посмотреть детали]")
		}
		entry := lipgloss.NewStyle().Width(w).Render(prefix + name + "\n  " + meta)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, entry))
		b.WriteString("\n\n")
	}
	return b.String()
}

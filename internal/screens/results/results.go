// Package results shows the preliminary level after a finished test.
package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/placement/internal/flow"
	"github.com/abhisek/placement/internal/quiz"
	"github.com/abhisek/placement/internal/screen"
	"github.com/abhisek/placement/internal/ui/components"
	"github.com/abhisek/placement/internal/ui/layout"
	"github.com/abhisek/placement/internal/ui/theme"
)

// Disclaimer marks the level as provisional.
const Disclaimer = "Это предварительная оценка. Окончательный результат будет определен преподавателем после детальной проверки ваших ответов, особенно в секциях \"Письмо\" и \"Говорение\"."

// SavedMsg reports the outcome of writing the result to history.
type SavedMsg struct {
	ID  string
	Err error
}

// dashboardItem is the menu index of the dashboard action.
const dashboardItem = 1

// ResultsScreen thanks the learner and offers a new test or the dashboard.
// While the result is being written to history the dashboard action is
// disabled, so the dashboard never loads a history without it.
type ResultsScreen struct {
	result  quiz.TestResult
	menu    components.Menu
	saving  bool
	saveErr error
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen for result. saving is true when a history
// write is in flight and a SavedMsg for result will follow.
func New(result quiz.TestResult, saving bool) *ResultsScreen {
	return &ResultsScreen{
		result: result,
		saving: saving,
		menu: components.NewMenu([]components.MenuItem{
			{Label: "Пройти новый тест", Action: func() tea.Cmd {
				return func() tea.Msg { return flow.RestartMsg{} }
			}},
			{Label: "Панель преподавателя", Disabled: saving, Action: func() tea.Cmd {
				return func() tea.Msg { return flow.ViewDashboardMsg{} }
			}},
		}),
	}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Результаты"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Выбор"},
		{Key: "Enter", Description: "Открыть"},
		{Key: "Ctrl+C", Description: "Выход"},
	}
}

// Saving reports whether the history write is still pending.
func (s *ResultsScreen) Saving() bool {
	return s.saving
}

// SaveErr returns the error of the history write, if it failed.
func (s *ResultsScreen) SaveErr() error {
	return s.saveErr
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case SavedMsg:
		if msg.ID == s.result.ID {
			s.saving = false
			s.saveErr = msg.Err
			s.menu.Items[dashboardItem].Disabled = false
		}
		return s, nil
	case tea.KeyPressMsg:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	w := min(width-4, 76)
	center := lipgloss.NewStyle().Width(w).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString(theme.Title.Width(w).Render("Тест завершен!"))
	b.WriteString("\n\n")
	b.WriteString(center.Render(theme.Body.Render(fmt.Sprintf("Спасибо, %s!", s.result.StudentData.FullName))))
	b.WriteString("\n\n")

	var card strings.Builder
	card.WriteString(center.Render(theme.Label.Render("Ваш предполагаемый уровень:")))
	card.WriteString("\n")
	card.WriteString(center.Render(theme.Level.Render(s.result.PreliminaryLevel)))
	b.WriteString(theme.Card.Width(w).Render(card.String()))
	b.WriteString("\n\n")

	if !layout.IsCompactHeight(height) {
		b.WriteString(theme.Hint.Width(w).Render(Disclaimer))
		b.WriteString("\n\n")
	}

	if s.saving {
		b.WriteString(theme.Hint.Width(w).Render("Сохранение результата..."))
		b.WriteString("\n\n")
	}
	if s.saveErr != nil {
		b.WriteString(theme.WarningText.Width(w).Render("Не удалось сохранить результат: " + s.saveErr.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(s.menu.View())
	return layout.Center(b.String(), width)
}

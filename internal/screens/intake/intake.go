// Package intake is the form a learner fills in before the test.
package intake

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/placement/internal/flow"
	form "github.com/abhisek/placement/internal/intake"
	"github.com/abhisek/placement/internal/quiz"
	"github.com/abhisek/placement/internal/screen"
	"github.com/abhisek/placement/internal/ui/components"
	"github.com/abhisek/placement/internal/ui/layout"
	"github.com/abhisek/placement/internal/ui/theme"
)

// Focus order of the form.
const (
	focusName = iota
	focusAge
	focusGoals
	focusFears
	focusSkill
	focusLesson
	focusSubmit
	focusCount
)

// IntakeScreen collects StudentData and starts the test.
type IntakeScreen struct {
	fields    []components.Field // name, age, goals, fears, skill
	lesson    components.Choice
	lessonErr string
	focus     int
}

var _ screen.Screen = (*IntakeScreen)(nil)
var _ screen.KeyHintProvider = (*IntakeScreen)(nil)

// New creates the form with the default values.
func New() *IntakeScreen {
	def := quiz.DefaultStudent()

	fields := []components.Field{
		components.NewField("ФИО", "Иванов Иван Иванович", false, 120),
		components.NewField("Ваш возраст", "18", true, 3),
		components.NewField("С какой целью вы хотите изучать английский?", "", false, 500),
		components.NewField("Есть ли у вас страхи или трудности в изучении языка?", "", false, 500),
		components.NewField("Какой навык (чтение, говорение, письмо и т.д.) вы хотели бы улучшить в первую очередь?", "", false, 200),
	}
	fields[focusAge].SetValue(strconv.Itoa(def.Age))

	labels := make([]string, len(quiz.LessonTypes))
	for i, lt := range quiz.LessonTypes {
		labels[i] = lt.Label()
	}

	return &IntakeScreen{
		fields: fields,
		lesson: components.NewChoice(labels, def.LessonType.Label()),
	}
}

func (s *IntakeScreen) Init() tea.Cmd {
	return s.fields[focusName].Focus()
}

func (s *IntakeScreen) Title() string {
	return "Добро пожаловать!"
}

func (s *IntakeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Следующее поле"},
		{Key: "Shift+Tab", Description: "Назад"},
		{Key: "Enter", Description: "Далее"},
		{Key: "Ctrl+C", Description: "Выход"},
	}
}

func (s *IntakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		if s.focus < focusLesson {
			var cmd tea.Cmd
			s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
			return s, cmd
		}
		return s, nil
	}

	switch kmsg.String() {
	case "tab":
		return s, s.setFocus(s.focus + 1)
	case "shift+tab":
		return s, s.setFocus(s.focus - 1)
	case "enter":
		if s.focus == focusSubmit {
			return s, s.submit()
		}
		return s, s.setFocus(s.focus + 1)
	}

	switch {
	case s.focus < focusLesson:
		var cmd tea.Cmd
		s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
		return s, cmd
	case s.focus == focusLesson:
		s.lesson, _ = s.lesson.Update(msg)
	}
	return s, nil
}

// setFocus moves focus to i, wrapping around.
func (s *IntakeScreen) setFocus(i int) tea.Cmd {
	if s.focus < focusLesson {
		s.fields[s.focus].Blur()
	}
	s.focus = (i + focusCount) % focusCount
	if s.focus < focusLesson {
		return s.fields[s.focus].Focus()
	}
	return nil
}

// Student returns the form contents. The age is 0 when it is not a number.
func (s *IntakeScreen) Student() quiz.StudentData {
	age, _ := form.ParseAge(s.fields[focusAge].Value())
	sd := quiz.StudentData{
		FullName:       s.fields[focusName].Value(),
		Age:            age,
		Goals:          s.fields[focusGoals].Value(),
		Fears:          s.fields[focusFears].Value(),
		SkillToImprove: s.fields[focusSkill].Value(),
	}
	if s.lesson.Chosen >= 0 && s.lesson.Chosen < len(quiz.LessonTypes) {
		sd.LessonType = quiz.LessonTypes[s.lesson.Chosen]
	}
	return sd
}

// submit validates the form. On success it asks the app to start the
// test; otherwise the errors are shown next to their fields.
func (s *IntakeScreen) submit() tea.Cmd {
	sd := form.Normalize(s.Student())
	errs := form.Validate(sd)
	if _, err := form.ParseAge(s.fields[focusAge].Value()); err != nil {
		errs[form.FieldAge] = err.Error()
	}

	s.fields[focusName].Err = errs[form.FieldFullName]
	s.fields[focusAge].Err = errs[form.FieldAge]
	s.fields[focusGoals].Err = errs[form.FieldGoals]
	s.lessonErr = errs[form.FieldLessonType]

	if !errs.OK() {
		return nil
	}
	return func() tea.Msg { return flow.StartTestMsg{Student: sd} }
}

func (s *IntakeScreen) View(width, height int) string {
	w := min(width-4, 76)
	var b strings.Builder

	if !layout.IsCompactHeight(height) {
		b.WriteString(theme.Subtitle.Width(w).Render("Пожалуйста, заполните информацию о себе, чтобы мы могли начать тест."))
		b.WriteString("\n\n")
	}

	for i, f := range s.fields {
		if i == focusGoals {
			b.WriteString(theme.Title.Width(w).Align(lipgloss.Left).Render("Немного о ваших целях"))
			b.WriteString("\n")
		}
		b.WriteString(f.View(w))
		b.WriteString("\n")
	}

	label := theme.Label.Render("Какой формат занятий вам наиболее интересен?")
	if s.focus == focusLesson {
		label = theme.Selected.Render("Какой формат занятий вам наиболее интересен?")
	}
	b.WriteString(label + "\n")
	b.WriteString(s.lesson.View(s.focus == focusLesson))
	if s.lessonErr != "" {
		b.WriteString(theme.ErrorText.Render(s.lessonErr) + "\n")
	}
	b.WriteString("\n")

	btn := components.NewButton("Начать тест", s.focus == focusSubmit, nil)
	b.WriteString(btn.View())

	return layout.Center(b.String(), width)
}

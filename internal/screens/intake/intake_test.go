package intake

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/placement/internal/flow"
	form "github.com/abhisek/placement/internal/intake"
	"github.com/abhisek/placement/internal/quiz"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func typeText(s *IntakeScreen, text string) {
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

func focusSubmitRow(s *IntakeScreen) {
	for s.focus != focusSubmit {
		s.Update(specialKey(tea.KeyTab))
	}
}

func TestIntakeScreen_Defaults(t *testing.T) {
	s := New()
	s.Init()

	sd := s.Student()
	assert.Equal(t, 18, sd.Age)
	assert.Equal(t, quiz.LessonIndividual, sd.LessonType)
	assert.Equal(t, "Добро пожаловать!", s.Title())
	assert.Contains(t, s.View(100, 40), "Начать тест")
}

func TestIntakeScreen_SubmitEmptyShowsErrors(t *testing.T) {
	s := New()
	s.Init()
	focusSubmitRow(s)

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Equal(t, form.MsgFullName, s.fields[focusName].Err)
	assert.Equal(t, form.MsgGoals, s.fields[focusGoals].Err)
	assert.Empty(t, s.fields[focusAge].Err)

	view := s.View(100, 60)
	assert.Contains(t, view, form.MsgFullName)
}

func TestIntakeScreen_TypedFormStartsTest(t *testing.T) {
	s := New()
	s.Init()

	typeText(s, "Ann")
	s.Update(specialKey(tea.KeyTab))
	s.Update(specialKey(tea.KeyTab))
	typeText(s, "Travel")
	focusSubmitRow(s)

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	msg, ok := cmd().(flow.StartTestMsg)
	require.True(t, ok)
	assert.Equal(t, "Ann", msg.Student.FullName)
	assert.Equal(t, 18, msg.Student.Age)
	assert.Equal(t, "Travel", msg.Student.Goals)
	assert.Equal(t, quiz.LessonIndividual, msg.Student.LessonType)
}

func TestIntakeScreen_TrimsBeforeSubmit(t *testing.T) {
	s := New()
	s.fields[focusName].SetValue("  Ann  ")
	s.fields[focusGoals].SetValue(" Work ")
	focusSubmitRow(s)

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	msg := cmd().(flow.StartTestMsg)
	assert.Equal(t, "Ann", msg.Student.FullName)
	assert.Equal(t, "Work", msg.Student.Goals)
}

func TestIntakeScreen_BlankNameRejected(t *testing.T) {
	s := New()
	s.fields[focusName].SetValue("   ")
	s.fields[focusGoals].SetValue("Work")
	focusSubmitRow(s)

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Equal(t, form.MsgFullName, s.fields[focusName].Err)
}

func TestIntakeScreen_AgeValidation(t *testing.T) {
	for _, age := range []string{"5", "", "0"} {
		s := New()
		s.fields[focusName].SetValue("Ann")
		s.fields[focusGoals].SetValue("Work")
		s.fields[focusAge].SetValue(age)
		focusSubmitRow(s)

		_, cmd := s.Update(specialKey(tea.KeyEnter))
		assert.Nil(t, cmd, "age %q", age)
		assert.Equal(t, form.MsgAge, s.fields[focusAge].Err, "age %q", age)
	}
}

func TestIntakeScreen_AgeFieldIgnoresLetters(t *testing.T) {
	s := New()
	s.Init()
	s.Update(specialKey(tea.KeyTab))
	s.fields[focusAge].SetValue("")

	typeText(s, "2a0")
	assert.Equal(t, "20", s.fields[focusAge].Value())
}

func TestIntakeScreen_LessonType(t *testing.T) {
	s := New()
	for s.focus != focusLesson {
		s.Update(specialKey(tea.KeyTab))
	}

	s.Update(keyPress('3'))
	assert.Equal(t, quiz.LessonSelfStudy, s.Student().LessonType)
}

func TestIntakeScreen_FocusWraps(t *testing.T) {
	s := New()
	s.Init()

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	assert.Equal(t, focusSubmit, s.focus)

	s.Update(specialKey(tea.KeyTab))
	assert.Equal(t, focusName, s.focus)
}

func TestIntakeScreen_EnterMovesToNextField(t *testing.T) {
	s := New()
	s.Init()

	s.Update(specialKey(tea.KeyEnter))
	assert.Equal(t, focusAge, s.focus)
}

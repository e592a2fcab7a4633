package questions

import (
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/placement/internal/audio"
	"github.com/abhisek/placement/internal/flow"
	"github.com/abhisek/placement/internal/quiz"
	"github.com/abhisek/placement/internal/scoring"
	"github.com/abhisek/placement/internal/screen"
	"github.com/abhisek/placement/internal/speech"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func smallBank() []quiz.Question {
	return []quiz.Question{
		{ID: 1, Type: quiz.TypeGrammar, Level: quiz.LevelA1, SectionTitle: "Грамматика",
			Prompt: "She ___ a teacher.", Options: []string{"am", "is", "are"}, CorrectAnswer: "is", Points: 1},
		{ID: 2, Type: quiz.TypeListening, Level: quiz.LevelA1, SectionTitle: "Аудирование",
			Prompt: "Where is Tom?", Options: []string{"Home", "Work"}, CorrectAnswer: "Work", Points: 1,
			ListeningText: "Tom is at work."},
		{ID: 3, Type: quiz.TypeWriting, Level: quiz.LevelB1, SectionTitle: "Письмо",
			Prompt: "Describe your town.", Points: 5},
	}
}

type fixture struct {
	s     *QuestionScreen
	synth *speech.MockSynthesizer
	dev   *audio.Recorder
	opens int
}

func newFixture() *fixture {
	f := &fixture{synth: &speech.MockSynthesizer{}, dev: &audio.Recorder{}}
	scorer := &scoring.Scorer{
		Now:   func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) },
		NewID: func() string { return "result-1" },
	}
	f.s = New(quiz.StudentData{FullName: "Anna", Age: 20, Goals: "travel", LessonType: quiz.LessonGroup}, Options{
		Bank:   smallBank(),
		Scorer: scorer,
		Synth:  f.synth,
		OpenAudio: func() (audio.Device, error) {
			f.opens++
			return f.dev, nil
		},
	})
	return f
}

func (f *fixture) send(msg tea.Msg) tea.Cmd {
	var scr screen.Screen = f.s
	scr, cmd := scr.Update(msg)
	f.s = scr.(*QuestionScreen)
	return cmd
}

// run delivers msg, then keeps executing the returned commands and
// feeding their messages back until none is left. The last message that
// was not consumed by the screen is returned.
func (f *fixture) run(msg tea.Msg) tea.Msg {
	cmd := f.send(msg)
	var last tea.Msg
	for cmd != nil {
		last = cmd()
		cmd = f.send(last)
	}
	return last
}

func TestQuestionScreen_EnterWithoutAnswerStays(t *testing.T) {
	f := newFixture()

	cmd := f.send(specialKey(tea.KeyEnter))
	assert.Nil(t, cmd)
	index, _ := f.s.Attempt().Progress()
	assert.Equal(t, 0, index)
}

func TestQuestionScreen_NumberKeySelects(t *testing.T) {
	f := newFixture()

	f.send(keyPress('2'))
	assert.Equal(t, "is", f.s.Attempt().Pending())

	f.send(specialKey(tea.KeyEnter))
	index, _ := f.s.Attempt().Progress()
	assert.Equal(t, 1, index)
	assert.Equal(t, "", f.s.Attempt().Pending())
}

func TestQuestionScreen_ArrowsAndSpaceSelect(t *testing.T) {
	f := newFixture()

	f.send(specialKey(tea.KeyDown))
	f.send(specialKey(tea.KeyDown))
	f.send(specialKey(tea.KeySpace))
	assert.Equal(t, "are", f.s.Attempt().Pending())
}

func TestQuestionScreen_CompletesWithResult(t *testing.T) {
	f := newFixture()

	f.send(keyPress('2'))
	f.send(specialKey(tea.KeyEnter))
	f.send(keyPress('1'))
	f.send(specialKey(tea.KeyEnter))

	// Writing question: type, tab to the button, press enter.
	assert.Contains(t, f.s.View(100, 40), "Завершить тест")
	f.send(keyPress('O'))
	f.send(keyPress('k'))
	f.send(specialKey(tea.KeyTab))
	cmd := f.send(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)

	msg, ok := cmd().(flow.TestCompletedMsg)
	require.True(t, ok)
	r := msg.Result
	assert.Equal(t, "result-1", r.ID)
	assert.Equal(t, "Anna", r.StudentData.FullName)
	require.Len(t, r.Answers, 3)
	assert.Equal(t, "is", r.Answers[0].UserAnswer)
	assert.True(t, r.Answers[0].Correct())
	assert.False(t, r.Answers[1].Correct())
	assert.True(t, r.Answers[2].ManuallyGraded())
	assert.Equal(t, "Ok", r.Answers[2].UserAnswer)
	assert.Equal(t, 1, r.Score)
	assert.Equal(t, 7, r.MaxScore)

	assert.Contains(t, f.s.View(100, 40), "Подсчет результатов")
	assert.Nil(t, f.send(keyPress('1')))
}

func TestQuestionScreen_EnterInEditorDoesNotAdvance(t *testing.T) {
	f := newFixture()
	f.send(keyPress('2'))
	f.send(specialKey(tea.KeyEnter))
	f.send(keyPress('2'))
	f.send(specialKey(tea.KeyEnter))

	f.send(specialKey(tea.KeyEnter))
	index, _ := f.s.Attempt().Progress()
	assert.Equal(t, 2, index)
	assert.False(t, f.s.Attempt().Done())
}

func toListening(f *fixture) {
	f.send(keyPress('2'))
	f.send(specialKey(tea.KeyEnter))
}

func TestQuestionScreen_ListeningPlays(t *testing.T) {
	f := newFixture()
	toListening(f)
	require.NotNil(t, f.s.player)
	assert.Contains(t, f.s.View(100, 40), "Прослушать аудио")

	cmd := f.send(keyPress('p'))
	require.NotNil(t, cmd)
	assert.True(t, f.s.player.busy())
	assert.Contains(t, f.s.View(100, 40), "Загрузка...")

	// A second press while loading is ignored.
	assert.Nil(t, f.send(keyPress('p')))

	ready := cmd()
	require.IsType(t, audioReadyMsg{}, ready)
	playCmd := f.send(ready)
	require.NotNil(t, playCmd)
	assert.Contains(t, f.s.View(100, 40), "Воспроизведение...")

	f.send(playCmd())
	assert.False(t, f.s.player.busy())
	assert.Empty(t, f.s.player.err)
	assert.Len(t, f.dev.Played(), 1)
	assert.Equal(t, []string{"Tom is at work."}, f.synth.Texts())
	assert.Equal(t, 1, f.opens)
}

func TestQuestionScreen_ListeningReplayReusesClip(t *testing.T) {
	f := newFixture()
	toListening(f)

	f.run(keyPress('p'))
	f.run(keyPress('p'))

	assert.Len(t, f.dev.Played(), 2)
	assert.Len(t, f.synth.Texts(), 1)
	assert.Equal(t, 1, f.opens)
}

func TestQuestionScreen_ListeningSynthesisError(t *testing.T) {
	f := newFixture()
	f.synth.Err = errors.New("quota")
	toListening(f)

	f.run(keyPress('p'))
	assert.Equal(t, speech.MsgLoadFailed, f.s.player.err)
	assert.False(t, f.s.player.busy())
	assert.Contains(t, f.s.View(100, 40), speech.MsgLoadFailed)

	f.send(keyPress('x'))
	assert.Empty(t, f.s.player.err)
}

func TestQuestionScreen_ListeningEmptyAudio(t *testing.T) {
	f := newFixture()
	f.synth.Err = speech.ErrEmptyAudio
	toListening(f)

	f.run(keyPress('p'))
	assert.Equal(t, speech.MsgEmptyAudio, f.s.player.err)
}

func TestQuestionScreen_ListeningWithoutDevice(t *testing.T) {
	f := newFixture()
	f.s.opts.OpenAudio = func() (audio.Device, error) { return nil, audio.ErrNoPlayer }
	toListening(f)

	f.run(keyPress('p'))
	assert.Equal(t, MsgNoDevice, f.s.player.err)
	assert.False(t, f.s.player.busy())
}

func TestQuestionScreen_ListeningWithoutSynthesizer(t *testing.T) {
	f := newFixture()
	f.s.opts.Synth = nil
	toListening(f)

	assert.Nil(t, f.send(keyPress('p')))
	assert.Equal(t, speech.MsgLoadFailed, f.s.player.err)
}

func TestQuestionScreen_LeavingQuestionClosesDevice(t *testing.T) {
	f := newFixture()
	toListening(f)
	f.run(keyPress('p'))

	f.send(keyPress('1'))
	f.send(specialKey(tea.KeyEnter))
	assert.True(t, f.dev.Closed())
	assert.Nil(t, f.s.player)
}

func TestQuestionScreen_StaleAudioIgnored(t *testing.T) {
	f := newFixture()
	toListening(f)
	cmd := f.send(keyPress('p'))
	require.NotNil(t, cmd)

	f.send(keyPress('1'))
	f.send(specialKey(tea.KeyEnter))

	f.send(cmd())
	assert.Empty(t, f.dev.Played())
	assert.Equal(t, 0, f.opens)
}

func TestQuestionScreen_CloseReleasesDevice(t *testing.T) {
	f := newFixture()
	toListening(f)
	f.run(keyPress('p'))

	screen.Release(f.s)
	assert.True(t, f.dev.Closed())
}

func TestQuestionScreen_KeyHints(t *testing.T) {
	f := newFixture()
	assert.NotEmpty(t, f.s.KeyHints())
	assert.Equal(t, "Тест", f.s.Title())

	toListening(f)
	var found bool
	for _, h := range f.s.KeyHints() {
		if h.Key == "p" {
			found = true
		}
	}
	assert.True(t, found)
}

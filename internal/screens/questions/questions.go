// Package questions walks the learner through the question bank.
package questions

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/placement/internal/audio"
	"github.com/abhisek/placement/internal/flow"
	"github.com/abhisek/placement/internal/quiz"
	"github.com/abhisek/placement/internal/scoring"
	"github.com/abhisek/placement/internal/screen"
	"github.com/abhisek/placement/internal/speech"
	"github.com/abhisek/placement/internal/ui/components"
	"github.com/abhisek/placement/internal/ui/layout"
	"github.com/abhisek/placement/internal/ui/theme"
)

// Options configures a QuestionScreen. Synth and OpenAudio may be nil, in
// which case listening questions show an error when played.
type Options struct {
	Bank      []quiz.Question
	Scorer    *scoring.Scorer
	Synth     speech.Synthesizer
	OpenAudio audio.OpenFunc
}

// QuestionScreen presents one question at a time and emits
// flow.TestCompletedMsg after the last answer.
type QuestionScreen struct {
	student quiz.StudentData
	opts    Options
	attempt *quiz.Attempt

	choice   components.Choice
	editor   components.Editor
	onButton bool // focus is on the next button (writing and speaking)
	player   *listening
	gen      int
	finished bool
}

var _ screen.Screen = (*QuestionScreen)(nil)
var _ screen.KeyHintProvider = (*QuestionScreen)(nil)
var _ screen.Closer = (*QuestionScreen)(nil)

// New starts a test for student.
func New(student quiz.StudentData, opts Options) *QuestionScreen {
	if opts.Bank == nil {
		opts.Bank = quiz.Bank()
	}
	if opts.Scorer == nil {
		opts.Scorer = scoring.NewScorer()
	}
	s := &QuestionScreen{
		student: student,
		opts:    opts,
		attempt: quiz.NewAttempt(opts.Bank),
	}
	s.load()
	return s
}

func (s *QuestionScreen) Init() tea.Cmd {
	if s.manual() {
		return s.editor.Focus()
	}
	return nil
}

func (s *QuestionScreen) Title() string {
	return "Тест"
}

func (s *QuestionScreen) KeyHints() []layout.KeyHint {
	q, ok := s.attempt.Current()
	if !ok {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Выход"}}
	}

	var hints []layout.KeyHint
	if q.Type.AutoGradable() {
		hints = append(hints,
			layout.KeyHint{Key: "1-9", Description: "Выбрать"},
			layout.KeyHint{Key: "↑↓/Space", Description: "Выбор"},
		)
	} else {
		hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Ответ/Кнопка"})
	}
	if s.player != nil {
		hints = append(hints, layout.KeyHint{Key: "p", Description: "Прослушать"})
	}
	return append(hints,
		layout.KeyHint{Key: "Enter", Description: "Далее"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Выход"},
	)
}

// Close releases the audio device.
func (s *QuestionScreen) Close() {
	if s.player != nil {
		s.player.close()
	}
}

// Attempt exposes the running attempt.
func (s *QuestionScreen) Attempt() *quiz.Attempt {
	return s.attempt
}

// manual reports whether the current question takes a free-text answer.
func (s *QuestionScreen) manual() bool {
	q, ok := s.attempt.Current()
	return ok && !q.Type.AutoGradable()
}

// load prepares the widgets for the current question. The player of the
// previous question is closed first.
func (s *QuestionScreen) load() {
	s.Close()
	s.player = nil
	s.onButton = false
	s.gen++

	q, ok := s.attempt.Current()
	if !ok {
		return
	}
	if q.HasOptions() {
		s.choice = components.NewChoice(q.Options, s.attempt.Pending())
	}
	if !q.Type.AutoGradable() {
		s.editor = components.NewEditor("Ваш ответ...", s.attempt.Pending())
	}
	if q.Type == quiz.TypeListening && q.ListeningText != "" {
		s.player = newListening(q.ListeningText, s.opts.Synth, s.opts.OpenAudio, s.gen)
	}
}

func (s *QuestionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.finished {
		return s, nil
	}
	if s.player != nil {
		if cmd, ok := s.player.update(msg); ok {
			return s, cmd
		}
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		if s.manual() {
			var cmd tea.Cmd
			s.editor, cmd = s.editor.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	if s.manual() {
		return s, s.updateManual(kmsg)
	}

	switch kmsg.String() {
	case "enter":
		return s, s.advance()
	case "p":
		if s.player != nil {
			return s, s.player.play()
		}
		return s, nil
	case "x":
		if s.player != nil {
			s.player.dismiss()
		}
		return s, nil
	}

	var changed bool
	s.choice, changed = s.choice.Update(kmsg)
	if changed {
		s.attempt.Select(s.choice.Value())
	}
	return s, nil
}

// updateManual handles keys for writing and speaking questions. Enter in
// the editor starts a new line; Tab moves to the next button.
func (s *QuestionScreen) updateManual(kmsg tea.KeyPressMsg) tea.Cmd {
	switch kmsg.String() {
	case "tab", "shift+tab":
		s.onButton = !s.onButton
		if s.onButton {
			s.editor.Blur()
			return nil
		}
		return s.editor.Focus()
	case "enter":
		if s.onButton {
			return s.advance()
		}
	}
	if s.onButton {
		return nil
	}

	var cmd tea.Cmd
	s.editor, cmd = s.editor.Update(kmsg)
	s.attempt.Select(s.editor.Value())
	return cmd
}

// advance records the pending answer. After the last question it scores
// the attempt and asks the app to show the results.
func (s *QuestionScreen) advance() tea.Cmd {
	if !s.attempt.CanAdvance() {
		return nil
	}
	if !s.attempt.Next() {
		s.load()
		if s.manual() {
			return s.editor.Focus()
		}
		return nil
	}

	s.finished = true
	s.Close()
	result := s.opts.Scorer.Compute(s.opts.Bank, s.attempt.Answers(), s.student)
	return func() tea.Msg { return flow.TestCompletedMsg{Result: result} }
}

func (s *QuestionScreen) View(width, height int) string {
	q, ok := s.attempt.Current()
	if !ok || s.finished {
		return layout.Center(theme.Subtitle.Render("Тест завершен. Подсчет результатов..."), width)
	}

	w := min(width-4, 90)
	index, total := s.attempt.Progress()

	var b strings.Builder
	b.WriteString(components.NewProgressBar(index+1, total, w).View())
	b.WriteString("\n\n")

	var card strings.Builder
	card.WriteString(theme.Subtitle.Render(fmt.Sprintf("%s - %s", q.SectionTitle, q.Level)))
	card.WriteString("\n")
	card.WriteString(theme.Body.Width(w - 4).Render(q.Prompt))
	b.WriteString(theme.Card.Width(w).Render(card.String()))
	b.WriteString("\n\n")

	if s.player != nil {
		b.WriteString(s.playerView())
		b.WriteString("\n")
	}

	switch {
	case q.HasOptions():
		b.WriteString(s.choice.View(true))
	case !q.Type.AutoGradable():
		if q.Type == quiz.TypeSpeaking && !layout.IsCompactHeight(height) {
			b.WriteString(theme.Hint.Render("Запишите свой ответ текстом так, как вы бы его произнесли."))
			b.WriteString("\n")
		}
		b.WriteString(s.editor.View(w))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	label := "Следующий вопрос"
	if s.attempt.IsLast() {
		label = "Завершить тест"
	}
	btn := components.NewButton(label, !s.manual() || s.onButton, nil)
	btn.Disabled = !s.attempt.CanAdvance()
	b.WriteString(btn.View())

	return layout.Center(b.String(), width)
}

func (s *QuestionScreen) playerView() string {
	btn := components.NewButton("▶ "+s.player.label(), true, nil)
	btn.Disabled = s.player.busy()
	view := btn.View()
	if s.player.err != "" {
		view += "\n" + theme.ErrorText.Render(s.player.err) + " " + theme.Hint.Render("(x: скрыть)")
	}
	return view
}

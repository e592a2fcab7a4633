package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/placement/internal/quiz"
	"github.com/abhisek/placement/internal/review"
	"github.com/abhisek/placement/internal/router"
	"github.com/abhisek/placement/internal/scoring"
	"github.com/abhisek/placement/internal/screen"
	"github.com/abhisek/placement/internal/store"
	"github.com/abhisek/placement/internal/ui/layout"
	"github.com/abhisek/placement/internal/ui/theme"
)

const notSpecified = "Не указано"

type (
	notesLoadedMsg struct {
		resultID string
		notes    []store.ReviewNote
		err      error
	}
	reviewDoneMsg struct {
		resultID string
		notes    []store.ReviewNote
		err      error
	}
)

// DetailScreen shows one result: the student, the level and every answer.
type DetailScreen struct {
	result quiz.TestResult
	opts   Options

	// notes holds the latest review note per question.
	notes     map[int]store.ReviewNote
	reviewing bool
	reviewErr string
	scroll    int
}

var _ screen.Screen = (*DetailScreen)(nil)
var _ screen.KeyHintProvider = (*DetailScreen)(nil)

// NewDetail creates a DetailScreen for result.
func NewDetail(result quiz.TestResult, opts Options) *DetailScreen {
	if opts.Bank == nil {
		opts.Bank = quiz.Bank()
	}
	return &DetailScreen{
		result: result,
		opts:   opts,
		notes:  make(map[int]store.ReviewNote),
	}
}

func (d *DetailScreen) Init() tea.Cmd {
	repo, id := d.opts.Reviews, d.result.ID
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		notes, err := repo.ReviewsFor(context.Background(), id)
		return notesLoadedMsg{resultID: id, notes: notes, err: err}
	}
}

func (d *DetailScreen) Title() string {
	return d.result.StudentData.FullName
}

func (d *DetailScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Прокрутка"},
	}
	if d.canReview() {
		hints = append(hints, layout.KeyHint{Key: "r", Description: "AI-заметки"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "← Назад к списку"})
}

// Notes returns the latest review note of questionID.
func (d *DetailScreen) Notes(questionID int) (store.ReviewNote, bool) {
	n, ok := d.notes[questionID]
	return n, ok
}

func (d *DetailScreen) canReview() bool {
	return d.opts.Reviewer != nil && len(review.Pending(d.opts.Bank, d.result)) > 0
}

func (d *DetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case notesLoadedMsg:
		if msg.resultID == d.result.ID && msg.err == nil {
			d.addNotes(msg.notes)
		}
		return d, nil

	case reviewDoneMsg:
		if msg.resultID != d.result.ID {
			return d, nil
		}
		d.reviewing = false
		d.addNotes(msg.notes)
		d.reviewErr = ""
		if msg.err != nil {
			d.reviewErr = msg.err.Error()
		}
		return d, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc", "backspace":
			return d, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if d.scroll > 0 {
				d.scroll--
			}
		case "down", "j":
			d.scroll++
		case "pgup":
			d.scroll = max(d.scroll-10, 0)
		case "pgdown":
			d.scroll += 10
		case "r":
			return d, d.startReview()
		}
	}
	return d, nil
}

// startReview asks the review assistant for notes on every manually
// graded answer. Notes never change the result itself.
func (d *DetailScreen) startReview() tea.Cmd {
	if d.reviewing || !d.canReview() {
		return nil
	}
	d.reviewing = true
	d.reviewErr = ""

	svc, bank, result := d.opts.Reviewer, d.opts.Bank, d.result
	return func() tea.Msg {
		notes, err := svc.ReviewAll(context.Background(), bank, result)
		return reviewDoneMsg{resultID: result.ID, notes: notes, err: err}
	}
}

func (d *DetailScreen) addNotes(notes []store.ReviewNote) {
	for _, n := range notes {
		d.notes[n.QuestionID] = n
	}
}

func (d *DetailScreen) View(width, height int) string {
	w := min(width-4, 90)
	lines := strings.Split(d.render(w), "\n")

	if height > 0 {
		d.scroll = min(d.scroll, max(len(lines)-height, 0))
		lines = lines[d.scroll:min(d.scroll+height, len(lines))]
	}
	return layout.Center(strings.Join(lines, "\n"), width)
}

func (d *DetailScreen) render(w int) string {
	r := d.result
	sd := r.StudentData

	var b strings.Builder
	b.WriteString(theme.Title.Width(w).Align(lipgloss.Left).Render(sd.FullName))
	b.WriteString("\n\n")

	field := func(label, value string) string {
		return theme.Label.Render(label) + " " + theme.Body.Render(value) + "\n"
	}
	var info strings.Builder
	info.WriteString(theme.Selected.Render("Информация о студенте") + "\n")
	info.WriteString(field("Возраст:", strconv.Itoa(sd.Age)))
	info.WriteString(field("Цели:", sd.Goals))
	info.WriteString(field("Страхи:", orNotSpecified(sd.Fears)))
	info.WriteString(field("Навык для улучшения:", orNotSpecified(sd.SkillToImprove)))
	info.WriteString(field("Тип занятий:", sd.LessonType.Label()))
	b.WriteString(theme.Card.Width(w).Render(strings.TrimRight(info.String(), "\n")))
	b.WriteString("\n")

	var level strings.Builder
	level.WriteString(theme.Selected.Render("Предварительный уровень") + "\n")
	level.WriteString(theme.Level.Render(r.PreliminaryLevel) + "\n")
	level.WriteString(theme.Hint.Render(fmt.Sprintf("Авто-оценка (без письма/говорения): %d / %d", r.Score, r.MaxScore)) + "\n")
	for _, ls := range scoring.LevelBreakdown(d.opts.Bank, r.Answers) {
		if ls.Max == 0 {
			continue
		}
		mark := theme.Incorrect.Render("✗")
		if ls.Passed() {
			mark = theme.Correct.Render("✓")
		}
		level.WriteString(fmt.Sprintf("%s %s  %d / %d\n", mark, ls.Level, ls.Score, ls.Max))
	}
	b.WriteString(theme.Card.Width(w).Render(strings.TrimRight(level.String(), "\n")))
	b.WriteString("\n\n")

	switch {
	case d.reviewing:
		b.WriteString(theme.Hint.Render("Запрос AI-заметок...") + "\n\n")
	case d.reviewErr != "":
		b.WriteString(theme.ErrorText.Width(w).Render("Не удалось получить AI-заметки: "+d.reviewErr) + "\n\n")
	}

	b.WriteString(theme.Title.Width(w).Align(lipgloss.Left).Render("Ответы на тест"))
	b.WriteString("\n\n")
	for _, a := range r.Answers {
		q, ok := quiz.Lookup(d.opts.Bank, a.QuestionID)
		if !ok {
			continue
		}
		b.WriteString(d.renderAnswer(q, a, w))
		b.WriteString("\n")
	}
	return b.String()
}

func (d *DetailScreen) renderAnswer(q quiz.Question, a quiz.Answer, w int) string {
	var b strings.Builder
	head := fmt.Sprintf("%d. %s", q.ID, q.Prompt)
	b.WriteString(theme.Body.Bold(true).Width(w-6).Render(head) + " " + theme.Level.Render("["+string(q.Level)+"]"))
	b.WriteString("\n")

	if !q.Type.AutoGradable() {
		b.WriteString(theme.Manual.Render("Ответ для ручной проверки:") + "\n")
		b.WriteString(theme.Body.Width(w - 4).Render(a.UserAnswer))
		if n, ok := d.notes[q.ID]; ok {
			b.WriteString("\n" + renderNote(n, w))
		}
		return theme.Card.Width(w).Render(b.String())
	}

	answerLine := "Ответ студента: " + a.UserAnswer
	if a.Correct() {
		b.WriteString(theme.Correct.Render(answerLine))
	} else {
		b.WriteString(theme.Incorrect.Render(answerLine))
		b.WriteString("\n" + theme.Selected.Render("Правильный ответ: "+q.CorrectAnswer))
	}
	return theme.Card.Width(w).Render(b.String())
}

func renderNote(n store.ReviewNote, w int) string {
	var b strings.Builder
	b.WriteString(theme.Label.Render(fmt.Sprintf("AI-заметка (%s): уровень %s", n.Model, n.SuggestedLevel)) + "\n")
	b.WriteString(theme.Hint.Width(w - 4).Render(n.Feedback))
	for _, s := range n.Strengths {
		b.WriteString("\n" + theme.Correct.Render("+ ") + theme.Body.Render(s))
	}
	for _, s := range n.Issues {
		b.WriteString("\n" + theme.Incorrect.Render("- ") + theme.Body.Render(s))
	}
	return b.String()
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return notSpecified
	}
	return s
}

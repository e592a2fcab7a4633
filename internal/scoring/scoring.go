// Package scoring turns a completed attempt into a TestResult with a
// score, the maximum attainable score and a preliminary CEFR level.
package scoring

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/placement/internal/quiz"
)

// PassThreshold is the minimum per-level ratio of earned to available
// auto-graded points for the level to count as reached.
const PassThreshold = 0.60

// CompletedAtLayout formats completion timestamps for display.
const CompletedAtLayout = "02.01.2006, 15:04:05"

// DefaultLevel is reported when no level reaches the threshold.
const DefaultLevel = "A1 (Beginner)"

var levelLabels = map[quiz.Level]string{
	quiz.LevelA1: "A1 (Beginner)",
	quiz.LevelA2: "A2 (Elementary)",
	quiz.LevelB1: "B1 (Intermediate)",
	quiz.LevelB2: "B2 (Upper-Intermediate)",
	quiz.LevelC1: "C1 (Advanced)",
	quiz.LevelC2: "C2 (Proficient)",
}

// Label returns the display label of a CEFR level.
func Label(l quiz.Level) string {
	if s, ok := levelLabels[l]; ok {
		return s
	}
	return string(l)
}

// LevelScore is the auto-graded tally of one CEFR level.
type LevelScore struct {
	Level quiz.Level
	Score int
	Max   int
}

// Ratio returns Score/Max, or 0 when the level has no auto-graded points.
func (ls LevelScore) Ratio() float64 {
	if ls.Max == 0 {
		return 0
	}
	return float64(ls.Score) / float64(ls.Max)
}

// Passed reports whether the level reaches PassThreshold.
func (ls LevelScore) Passed() bool {
	return ls.Max > 0 && ls.Ratio() >= PassThreshold
}

// Scorer computes results. Now and NewID are injectable for tests.
type Scorer struct {
	Now   func() time.Time
	NewID func() string
}

// NewScorer returns a Scorer using the wall clock and time-ordered ids.
func NewScorer() *Scorer {
	return &Scorer{Now: time.Now, NewID: newResultID}
}

var defaultScorer = NewScorer()

// ComputeResult scores answers against bank using the default scorer.
func ComputeResult(bank []quiz.Question, answers []quiz.Answer, student quiz.StudentData) quiz.TestResult {
	return defaultScorer.Compute(bank, answers, student)
}

// Compute builds the TestResult for a finished attempt. Answers naming a
// question that is not in bank contribute nothing.
func (s *Scorer) Compute(bank []quiz.Question, answers []quiz.Answer, student quiz.StudentData) quiz.TestResult {
	byID := indexBank(bank)

	score := 0
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok || !a.Correct() {
			continue
		}
		score += q.Points
	}

	maxScore := 0
	for _, q := range bank {
		maxScore += q.Points
	}

	now := s.Now()
	return quiz.TestResult{
		ID:               s.NewID(),
		StudentData:      student,
		Answers:          append([]quiz.Answer(nil), answers...),
		Score:            score,
		MaxScore:         maxScore,
		PreliminaryLevel: PreliminaryLevel(bank, answers),
		CompletedAt:      now.Format(CompletedAtLayout),
	}
}

// LevelBreakdown tallies auto-graded points per level in CEFR order.
// Available points come from the bank; earned points from correct answers.
func LevelBreakdown(bank []quiz.Question, answers []quiz.Answer) []LevelScore {
	scores := make(map[quiz.Level]*LevelScore, len(quiz.Levels))
	for _, l := range quiz.Levels {
		scores[l] = &LevelScore{Level: l}
	}

	for _, q := range bank {
		if !q.Type.AutoGradable() {
			continue
		}
		if ls, ok := scores[q.Level]; ok {
			ls.Max += q.Points
		}
	}

	byID := indexBank(bank)
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok || !q.Type.AutoGradable() || !a.Correct() {
			continue
		}
		if ls, ok := scores[q.Level]; ok {
			ls.Score += q.Points
		}
	}

	out := make([]LevelScore, 0, len(quiz.Levels))
	for _, l := range quiz.Levels {
		out = append(out, *scores[l])
	}
	return out
}

// PreliminaryLevel walks the levels from A1 upward. Each level at or above
// the threshold becomes the tentative level; the first level below it ends
// the walk. Levels without auto-graded questions are skipped.
func PreliminaryLevel(bank []quiz.Question, answers []quiz.Answer) string {
	level := DefaultLevel
	for _, ls := range LevelBreakdown(bank, answers) {
		if ls.Max == 0 {
			continue
		}
		if !ls.Passed() {
			break
		}
		level = Label(ls.Level)
	}
	return level
}

func indexBank(bank []quiz.Question) map[int]quiz.Question {
	byID := make(map[int]quiz.Question, len(bank))
	for _, q := range bank {
		byID[q.ID] = q
	}
	return byID
}

// newResultID returns a time-ordered UUIDv7, falling back to the
// completion timestamp if the generator fails.
func newResultID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return time.Now().UTC().Format(time.RFC3339Nano)
	}
	return id.String()
}

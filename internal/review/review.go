// Package review drafts advisory notes on writing and speaking answers.
// Notes never change a result's score or preliminary level.
package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/placement/internal/llm"
	"github.com/abhisek/placement/internal/quiz"
	"github.com/abhisek/placement/internal/store"
)

// Purpose labels review requests in the event log.
const Purpose = "review"

var (
	ErrNotManual  = errors.New("review: question is graded automatically")
	ErrNoQuestion = errors.New("review: question is not in the bank")
	ErrNoAnswer   = errors.New("review: result has no answer to this question")
)

// Config holds generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the settings used by the dashboard.
func DefaultConfig() Config {
	return Config{MaxTokens: 600, Temperature: 0.2}
}

// Service asks the LLM for notes and stores them.
type Service struct {
	provider llm.Provider
	repo     store.ReviewRepo
	cfg      Config
}

// NewService creates a review service.
func NewService(provider llm.Provider, repo store.ReviewRepo, cfg Config) *Service {
	return &Service{provider: provider, repo: repo, cfg: cfg}
}

// Pending lists the manually graded questions of result, in bank order.
func Pending(bank []quiz.Question, result quiz.TestResult) []quiz.Question {
	answered := make(map[int]bool, len(result.Answers))
	for _, a := range result.Answers {
		answered[a.QuestionID] = true
	}
	var out []quiz.Question
	for _, q := range bank {
		if !q.Type.AutoGradable() && answered[q.ID] {
			out = append(out, q)
		}
	}
	return out
}

type noteOutput struct {
	SuggestedLevel string   `json:"suggested_level"`
	Feedback       string   `json:"feedback"`
	Strengths      []string `json:"strengths"`
	Issues         []string `json:"issues"`
}

// Review drafts and saves a note on one answer of result.
func (s *Service) Review(ctx context.Context, bank []quiz.Question, result quiz.TestResult, questionID int) (*store.ReviewNote, error) {
	q, ok := quiz.Lookup(bank, questionID)
	if !ok {
		return nil, ErrNoQuestion
	}
	if q.Type.AutoGradable() {
		return nil, ErrNotManual
	}
	answer, ok := findAnswer(result, questionID)
	if !ok {
		return nil, ErrNoAnswer
	}

	ctx = llm.WithPurpose(ctx, Purpose)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(q, answer.UserAnswer, result.StudentData)}},
		Schema:      NoteSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("review generation: %w", err)
	}

	var out noteOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse review response: %w", err)
	}

	note := store.ReviewNote{
		ResultID:       result.ID,
		QuestionID:     questionID,
		Model:          resp.Model,
		SuggestedLevel: out.SuggestedLevel,
		Feedback:       out.Feedback,
		Strengths:      out.Strengths,
		Issues:         out.Issues,
	}
	if err := s.repo.SaveReview(ctx, note); err != nil {
		return nil, err
	}
	return &note, nil
}

// ReviewAll reviews every manually graded answer of result. It stops at
// the first failure and returns the notes saved so far.
func (s *Service) ReviewAll(ctx context.Context, bank []quiz.Question, result quiz.TestResult) ([]store.ReviewNote, error) {
	var notes []store.ReviewNote
	for _, q := range Pending(bank, result) {
		note, err := s.Review(ctx, bank, result, q.ID)
		if err != nil {
			return notes, fmt.Errorf("question %d: %w", q.ID, err)
		}
		notes = append(notes, *note)
	}
	return notes, nil
}

func findAnswer(result quiz.TestResult, questionID int) (quiz.Answer, bool) {
	for _, a := range result.Answers {
		if a.QuestionID == questionID {
			return a, true
		}
	}
	return quiz.Answer{}, false
}

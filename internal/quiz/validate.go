package quiz

import (
	"fmt"
	"slices"
	"strings"
)

// Validate checks the embedded bank.
func Validate() error {
	return ValidateBank(bank)
}

// ValidateBank runs every structural check on questions and returns one
// error listing all problems found, or nil.
func ValidateBank(questions []Question) error {
	var problems []string

	if len(questions) == 0 {
		problems = append(problems, "bank is empty")
	}

	seen := make(map[int]bool, len(questions))
	for _, q := range questions {
		if seen[q.ID] {
			problems = append(problems, fmt.Sprintf("duplicate question ID: %d", q.ID))
		}
		seen[q.ID] = true

		where := fmt.Sprintf("question %d", q.ID)
		if !q.Type.Valid() {
			problems = append(problems, fmt.Sprintf("%s: unknown type %q", where, q.Type))
		}
		if !q.Level.Valid() {
			problems = append(problems, fmt.Sprintf("%s: unknown level %q", where, q.Level))
		}
		if q.Points <= 0 {
			problems = append(problems, fmt.Sprintf("%s: points must be > 0, got %d", where, q.Points))
		}
		if strings.TrimSpace(q.Prompt) == "" {
			problems = append(problems, fmt.Sprintf("%s: empty prompt", where))
		}

		if q.Type.AutoGradable() {
			switch {
			case q.CorrectAnswer == "":
				problems = append(problems, fmt.Sprintf("%s: auto-graded question has no correct answer", where))
			case !q.HasOptions():
				problems = append(problems, fmt.Sprintf("%s: auto-graded question has no options", where))
			case !slices.Contains(q.Options, q.CorrectAnswer):
				problems = append(problems, fmt.Sprintf("%s: correct answer %q is not among the options", where, q.CorrectAnswer))
			}
		} else if q.CorrectAnswer != "" {
			problems = append(problems, fmt.Sprintf("%s: %s question must not carry a correct answer", where, q.Type))
		}

		if q.Type == TypeListening && strings.TrimSpace(q.ListeningText) == "" {
			problems = append(problems, fmt.Sprintf("%s: listening question has no listening text", where))
		}
		if q.Type != TypeListening && q.ListeningText != "" {
			problems = append(problems, fmt.Sprintf("%s: listening text on a %s question", where, q.Type))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("question bank validation failed:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

package review

import (
	"fmt"
	"strings"

	"github.com/abhisek/placement/internal/quiz"
)

const systemPrompt = `You assist an English teacher who grades placement tests for Russian-speaking learners. You assess one free-text answer at a time on the CEFR scale (A1-C2). Your notes are advisory: the teacher makes the final decision.`

func buildUserMessage(q quiz.Question, answer string, student quiz.StudentData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Task type: %s\n", q.Type)
	fmt.Fprintf(&b, "Task level: %s\n", q.Level)
	fmt.Fprintf(&b, "Task: %s\n", q.Prompt)
	fmt.Fprintf(&b, "Learner age: %d\n", student.Age)
	if student.Goals != "" {
		fmt.Fprintf(&b, "Learner goals: %s\n", student.Goals)
	}

	b.WriteString("\nAnswer:\n")
	if strings.TrimSpace(answer) == "" {
		b.WriteString("(no answer given)\n")
	} else {
		b.WriteString(answer)
		b.WriteString("\n")
	}

	if q.Type == quiz.TypeSpeaking {
		b.WriteString("\nThe speaking task was answered in writing; judge the language, not pronunciation.\n")
	}

	b.WriteString(`
Instructions:
1. Pick the CEFR level the answer demonstrates, regardless of the task level. An empty answer is A1.
2. Write 2-4 sentences of feedback for the teacher in Russian.
3. List 1-3 strengths and up to 4 concrete issues, quoting the learner's words where useful.`)

	return b.String()
}

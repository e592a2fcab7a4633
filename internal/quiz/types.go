package quiz

// QuestionType identifies the skill a question exercises.
type QuestionType string

const (
	TypeGrammar    QuestionType = "grammar"
	TypeVocabulary QuestionType = "vocabulary"
	TypeReading    QuestionType = "reading"
	TypeListening  QuestionType = "listening"
	TypeWriting    QuestionType = "writing"
	TypeSpeaking   QuestionType = "speaking"
)

// AllTypes lists every question type in display order.
var AllTypes = []QuestionType{
	TypeGrammar, TypeVocabulary, TypeReading,
	TypeListening, TypeWriting, TypeSpeaking,
}

// AutoGradable reports whether answers of this type are checked by exact
// match against a correct answer. Writing and speaking answers are left for
// a human reviewer.
func (t QuestionType) AutoGradable() bool {
	return t != TypeWriting && t != TypeSpeaking
}

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	for _, k := range AllTypes {
		if k == t {
			return true
		}
	}
	return false
}

// Level is a CEFR proficiency level.
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
	LevelC2 Level = "C2"
)

// Levels is the fixed ascending CEFR order.
var Levels = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}

// Valid reports whether l is a known CEFR level.
func (l Level) Valid() bool {
	for _, k := range Levels {
		if k == l {
			return true
		}
	}
	return false
}

// Question is one item of the placement bank.
type Question struct {
	ID            int          `json:"id"`
	Type          QuestionType `json:"type"`
	Level         Level        `json:"level"`
	SectionTitle  string       `json:"sectionTitle"`
	Prompt        string       `json:"question"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correctAnswer,omitempty"`
	Points        int          `json:"points"`
	ListeningText string       `json:"listeningText,omitempty"`
}

// HasOptions reports whether the question is answered by picking an option.
func (q Question) HasOptions() bool {
	return len(q.Options) > 0
}

// LessonType is the learner's preferred lesson format.
type LessonType string

const (
	LessonIndividual LessonType = "individual"
	LessonGroup      LessonType = "group"
	LessonSelfStudy  LessonType = "self-study"
)

// LessonTypes lists the lesson formats in form order.
var LessonTypes = []LessonType{LessonIndividual, LessonGroup, LessonSelfStudy}

// Label returns the learner-facing name of the lesson type.
func (lt LessonType) Label() string {
	switch lt {
	case LessonIndividual:
		return "Индивидуальные"
	case LessonGroup:
		return "Групповые"
	case LessonSelfStudy:
		return "Самостоятельное обучение"
	default:
		return string(lt)
	}
}

// StudentData is the intake form submitted before the test.
type StudentData struct {
	FullName       string     `json:"fullName" validate:"required"`
	Age            int        `json:"age" validate:"gte=6"`
	Goals          string     `json:"goals" validate:"required"`
	Fears          string     `json:"fears"`
	SkillToImprove string     `json:"skillToImprove"`
	LessonType     LessonType `json:"lessonType" validate:"oneof=individual group self-study"`
}

// DefaultStudent returns the pre-filled form values.
func DefaultStudent() StudentData {
	return StudentData{Age: 18, LessonType: LessonIndividual}
}

// Answer is the learner's response to one question. IsCorrect is nil for
// questions that require manual grading.
type Answer struct {
	QuestionID int    `json:"questionId"`
	UserAnswer string `json:"userAnswer"`
	IsCorrect  *bool  `json:"isCorrect,omitempty"`
}

// ManuallyGraded reports whether the answer awaits a human reviewer.
func (a Answer) ManuallyGraded() bool {
	return a.IsCorrect == nil
}

// Correct reports whether the answer was auto-graded as correct.
func (a Answer) Correct() bool {
	return a.IsCorrect != nil && *a.IsCorrect
}

// TestResult is the immutable record of one completed attempt.
type TestResult struct {
	ID               string      `json:"id"`
	StudentData      StudentData `json:"studentData"`
	Answers          []Answer    `json:"answers"`
	Score            int         `json:"score"`
	MaxScore         int         `json:"maxScore"`
	PreliminaryLevel string      `json:"preliminaryLevel"`
	CompletedAt      string      `json:"completedAt"`
}

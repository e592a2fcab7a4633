// Package intake validates the student form submitted before a test.
package intake

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/placement/internal/quiz"
)

// Field names a form field that can carry an error.
type Field string

const (
	FieldFullName   Field = "FullName"
	FieldAge        Field = "Age"
	FieldGoals      Field = "Goals"
	FieldLessonType Field = "LessonType"
)

// MinAge is the youngest accepted learner.
const MinAge = 6

// Messages shown under the offending field.
const (
	MsgFullName   = "Пожалуйста, введите ваше ФИО"
	MsgAge        = "Возраст должен быть не менее 6 лет"
	MsgGoals      = "Пожалуйста, опишите ваши цели"
	MsgLessonType = "Пожалуйста, выберите формат занятий"
)

var fieldMessages = map[Field]string{
	FieldFullName:   MsgFullName,
	FieldAge:        MsgAge,
	FieldGoals:      MsgGoals,
	FieldLessonType: MsgLessonType,
}

// FieldErrors maps each invalid field to its message.
type FieldErrors map[Field]string

// OK reports whether no field failed.
func (fe FieldErrors) OK() bool {
	return len(fe) == 0
}

var validate = validator.New()

// Normalize trims the free-text fields.
func Normalize(sd quiz.StudentData) quiz.StudentData {
	sd.FullName = strings.TrimSpace(sd.FullName)
	sd.Goals = strings.TrimSpace(sd.Goals)
	sd.Fears = strings.TrimSpace(sd.Fears)
	sd.SkillToImprove = strings.TrimSpace(sd.SkillToImprove)
	return sd
}

// Validate checks the form. Blank names and goals are rejected after
// trimming.
func Validate(sd quiz.StudentData) FieldErrors {
	errs := FieldErrors{}

	err := validate.Struct(Normalize(sd))
	if err == nil {
		return errs
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		// Only reachable on a programming error in the struct tags.
		errs[FieldFullName] = err.Error()
		return errs
	}
	for _, fe := range ve {
		f := Field(fe.Field())
		if msg, ok := fieldMessages[f]; ok {
			errs[f] = msg
		}
	}
	return errs
}

// ParseAge converts the age field. Anything that is not a whole number is
// reported with the age message.
func ParseAge(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New(MsgAge)
	}
	return n, nil
}

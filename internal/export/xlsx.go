// Package export writes test history as an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/placement/internal/quiz"
	"github.com/abhisek/placement/internal/scoring"
)

// Sheet names.
const (
	SheetResults = "Results"
	SheetAnswers = "Answers"
)

var resultHeader = []any{
	"ID", "Завершён", "ФИО", "Возраст", "Формат занятий", "Цели", "Страхи",
	"Навык для улучшения", "Баллы", "Максимум", "Предварительный уровень",
}

var answerHeader = []any{
	"ID результата", "Вопрос", "Уровень", "Тип", "Задание", "Ответ", "Оценка", "Правильный ответ",
}

// WriteXLSX writes results to w. The Results sheet has one row per test
// followed by the auto-graded ratio of every level; the Answers sheet has
// one row per answer.
func WriteXLSX(w io.Writer, bank []quiz.Question, results []quiz.TestResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetResults); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetAnswers); err != nil {
		return fmt.Errorf("create answers sheet: %w", err)
	}

	header := append([]any(nil), resultHeader...)
	for _, l := range quiz.Levels {
		header = append(header, string(l)+" %")
	}
	if err := writeRow(f, SheetResults, 1, header); err != nil {
		return err
	}
	if err := writeRow(f, SheetAnswers, 1, answerHeader); err != nil {
		return err
	}
	if err := styleHeader(f, len(header), len(answerHeader)); err != nil {
		return err
	}

	answerRow := 2
	for i, r := range results {
		if err := writeRow(f, SheetResults, i+2, resultRow(bank, r)); err != nil {
			return err
		}
		for _, a := range r.Answers {
			if err := writeRow(f, SheetAnswers, answerRow, answerCells(bank, r.ID, a)); err != nil {
				return err
			}
			answerRow++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func resultRow(bank []quiz.Question, r quiz.TestResult) []any {
	s := r.StudentData
	row := []any{
		r.ID, r.CompletedAt, s.FullName, s.Age, s.LessonType.Label(), s.Goals, s.Fears,
		s.SkillToImprove, r.Score, r.MaxScore, r.PreliminaryLevel,
	}
	for _, ls := range scoring.LevelBreakdown(bank, r.Answers) {
		if ls.Max == 0 {
			row = append(row, "")
			continue
		}
		row = append(row, int(ls.Ratio()*100+0.5))
	}
	return row
}

func answerCells(bank []quiz.Question, resultID string, a quiz.Answer) []any {
	row := []any{resultID, a.QuestionID, "", "", "", a.UserAnswer, grade(a), ""}
	if q, ok := quiz.Lookup(bank, a.QuestionID); ok {
		row[2], row[3], row[4] = string(q.Level), string(q.Type), q.Prompt
		if a.IsCorrect != nil && !*a.IsCorrect {
			row[7] = q.CorrectAnswer
		}
	}
	return row
}

func grade(a quiz.Answer) string {
	switch {
	case a.ManuallyGraded():
		return "Требует ручной проверки"
	case a.Correct():
		return "Верно"
	default:
		return "Неверно"
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func styleHeader(f *excelize.File, resultCols, answerCols int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	for sheet, cols := range map[string]int{SheetResults: resultCols, SheetAnswers: answerCols} {
		last, err := excelize.CoordinatesToCellName(cols, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return fmt.Errorf("style %s header: %w", sheet, err)
		}
		if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, Split: false, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return fmt.Errorf("freeze %s header: %w", sheet, err)
		}
	}
	return nil
}

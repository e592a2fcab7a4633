package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/placement/internal/export"
	"github.com/abhisek/placement/internal/llm"
	"github.com/abhisek/placement/internal/quiz"
	"github.com/abhisek/placement/internal/review"
	"github.com/abhisek/placement/internal/scoring"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Browse and export finished tests",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List finished tests, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		all, err := s.History().All(context.Background())
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		if len(all) == 0 {
			fmt.Println("No finished tests yet.")
			return nil
		}

		fmt.Printf("%-36s  %-20s  %-28s  %-9s  %s\n", "ID", "Completed", "Name", "Score", "Level")
		fmt.Println(strings.Repeat("─", 120))
		for i := len(all) - 1; i >= 0; i-- {
			r := all[i]
			fmt.Printf("%-36s  %-20s  %-28s  %-9s  %s\n",
				r.ID, r.CompletedAt, truncate(r.StudentData.FullName, 28),
				fmt.Sprintf("%d/%d", r.Score, r.MaxScore), r.PreliminaryLevel)
		}
		return nil
	},
}

var resultsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one result with every answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		r, err := s.History().Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("get result: %w", err)
		}
		if r == nil {
			return fmt.Errorf("result %s not found", args[0])
		}
		notes, err := s.ReviewRepo().ReviewsFor(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("load review notes: %w", err)
		}

		sd := r.StudentData
		sep := strings.Repeat("─", 60)
		fmt.Printf("ID:         %s\n", r.ID)
		fmt.Printf("Completed:  %s\n", r.CompletedAt)
		fmt.Printf("Name:       %s\n", sd.FullName)
		fmt.Printf("Age:        %d\n", sd.Age)
		fmt.Printf("Goals:      %s\n", sd.Goals)
		fmt.Printf("Fears:      %s\n", orDash(sd.Fears))
		fmt.Printf("Skill:      %s\n", orDash(sd.SkillToImprove))
		fmt.Printf("Lessons:    %s\n", sd.LessonType.Label())
		fmt.Printf("Score:      %d / %d (writing and speaking not graded)\n", r.Score, r.MaxScore)
		fmt.Printf("Level:      %s\n", r.PreliminaryLevel)

		bank := quiz.Bank()
		fmt.Println()
		for _, ls := range scoring.LevelBreakdown(bank, r.Answers) {
			if ls.Max == 0 {
				continue
			}
			mark := "✗"
			if ls.Passed() {
				mark = "✓"
			}
			fmt.Printf("  %s %s  %d/%d\n", mark, ls.Level, ls.Score, ls.Max)
		}

		fmt.Println()
		fmt.Println(sep)
		for _, a := range r.Answers {
			q, ok := quiz.Lookup(bank, a.QuestionID)
			if !ok {
				fmt.Printf("#%d  (unknown question)  %q\n", a.QuestionID, a.UserAnswer)
				continue
			}
			switch {
			case a.ManuallyGraded():
				fmt.Printf("#%-3d %s %-10s manual   %q\n", q.ID, q.Level, q.Type, a.UserAnswer)
			case a.Correct():
				fmt.Printf("#%-3d %s %-10s correct  %q\n", q.ID, q.Level, q.Type, a.UserAnswer)
			default:
				fmt.Printf("#%-3d %s %-10s wrong    %q (expected %q)\n", q.ID, q.Level, q.Type, a.UserAnswer, q.CorrectAnswer)
			}
		}

		if len(notes) > 0 {
			fmt.Println(sep)
			fmt.Println("REVIEW NOTES")
			fmt.Println(sep)
			for _, n := range notes {
				fmt.Printf("#%d  %s  suggested %s\n  %s\n", n.QuestionID, n.Model, n.SuggestedLevel, n.Feedback)
			}
		}
		return nil
	},
}

var resultsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every result to an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		all, err := s.History().All(context.Background())
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		if err := export.WriteXLSX(f, quiz.Bank(), all); err != nil {
			f.Close()
			return fmt.Errorf("write workbook: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", out, err)
		}
		fmt.Printf("Exported %d results to %s\n", len(all), out)
		return nil
	},
}

var resultsReviewCmd = &cobra.Command{
	Use:   "review <id>",
	Short: "Ask the LLM for notes on the writing and speaking answers of a result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if !cfg.LLMConfigured {
			return errors.New("no LLM provider configured (set PLACEMENT_LLM_PROVIDER or an API key)")
		}
		provider, err := llm.NewProvider(ctx, cfg.LLM, s.EventRepo())
		if err != nil {
			return fmt.Errorf("create LLM provider: %w", err)
		}

		r, err := s.History().Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("get result: %w", err)
		}
		if r == nil {
			return fmt.Errorf("result %s not found", args[0])
		}

		bank := quiz.Bank()
		if len(review.Pending(bank, *r)) == 0 {
			fmt.Println("Nothing to review: the result has no writing or speaking answers.")
			return nil
		}

		svc := review.NewService(provider, s.ReviewRepo(), review.DefaultConfig())
		notes, err := svc.ReviewAll(ctx, bank, *r)
		for _, n := range notes {
			fmt.Printf("#%d  suggested %s\n  %s\n", n.QuestionID, n.SuggestedLevel, n.Feedback)
			for _, st := range n.Strengths {
				fmt.Printf("  + %s\n", st)
			}
			for _, is := range n.Issues {
				fmt.Printf("  - %s\n", is)
			}
		}
		if err != nil {
			return fmt.Errorf("review: %w", err)
		}
		return nil
	},
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func init() {
	resultsExportCmd.Flags().StringP("out", "o", "placement-results.xlsx", "Output file")

	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsViewCmd)
	resultsCmd.AddCommand(resultsExportCmd)
	resultsCmd.AddCommand(resultsReviewCmd)
}

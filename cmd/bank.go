package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/placement/internal/quiz"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Browse the question bank",
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List questions (optionally filtered by level or type)",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("level")
		typ, _ := cmd.Flags().GetString("type")

		lvl := quiz.Level(strings.ToUpper(level))
		if level != "" && !lvl.Valid() {
			return fmt.Errorf("unknown level %q (use A1, A2, B1, B2, C1 or C2)", level)
		}
		qt := quiz.QuestionType(strings.ToLower(typ))
		if typ != "" && !qt.Valid() {
			return fmt.Errorf("unknown type %q", typ)
		}

		questions := quiz.Filter(quiz.Bank(), lvl, qt)
		if len(questions) == 0 {
			fmt.Println("No questions match.")
			return nil
		}

		fmt.Printf("%-4s  %-5s  %-10s  %-6s  %s\n", "ID", "Level", "Type", "Points", "Prompt")
		fmt.Println(strings.Repeat("─", 90))
		for _, q := range questions {
			prompt := strings.ReplaceAll(q.Prompt, "\n", " ")
			fmt.Printf("%-4d  %-5s  %-10s  %-6d  %s\n", q.ID, q.Level, q.Type, q.Points, truncate(prompt, 60))
		}
		fmt.Printf("\n%d questions\n", len(questions))
		return nil
	},
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the question bank for structural problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := quiz.Validate(); err != nil {
			return err
		}
		fmt.Printf("Question bank OK (%d questions)\n", len(quiz.Bank()))
		return nil
	},
}

func init() {
	bankListCmd.Flags().String("level", "", "Filter by CEFR level (e.g. B1)")
	bankListCmd.Flags().String("type", "", "Filter by type (grammar, vocabulary, reading, listening, writing, speaking)")

	bankCmd.AddCommand(bankListCmd)
	bankCmd.AddCommand(bankValidateCmd)
}

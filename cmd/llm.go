package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/placement/internal/llm"
	"github.com/abhisek/placement/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect logged LLM and speech requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		kind, _ := cmd.Flags().GetString("kind")

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryRequests(context.Background(), store.QueryOpts{
			Limit:   limit,
			Kind:    kind,
			Purpose: purpose,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No requests found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-6s  %-16s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Kind", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 110))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			fmt.Printf("%-5d  %-19s  %-6s  %-16s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Kind,
				truncate(e.Purpose, 16),
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View the full request and response of one event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetRequest(context.Background(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		sep := strings.Repeat("─", 60)

		fmt.Printf("ID:        %d\n", e.ID)
		fmt.Printf("Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Kind:      %s\n", e.Kind)
		fmt.Printf("Provider:  %s\n", e.Provider)
		fmt.Printf("Model:     %s\n", e.Model)
		fmt.Printf("Purpose:   %s\n", e.Purpose)
		fmt.Printf("Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
		fmt.Printf("Latency:   %dms\n", e.LatencyMs)
		fmt.Printf("Success:   %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Printf("Error:     %s\n", e.ErrorMessage)
		}

		for _, part := range []struct{ title, body string }{
			{"REQUEST", e.RequestBody},
			{"RESPONSE", e.ResponseBody},
		} {
			fmt.Println()
			fmt.Println(sep)
			fmt.Println(part.title)
			fmt.Println(sep)
			if part.body != "" {
				fmt.Println(part.body)
			} else {
				fmt.Println("(not captured)")
			}
		}
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		stats, err := s.EventRepo().UsageBy(ctx, "purpose")
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		if len(stats) == 0 {
			fmt.Println("No usage recorded yet.")
			return nil
		}

		fmt.Println("Usage by Purpose")
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-16s  %6s  %10s  %10s  %10s  %8s\n",
			"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
		fmt.Println(strings.Repeat("─", 72))

		var totalCalls, totalIn, totalOut int
		for _, st := range stats {
			fmt.Printf("%-16s  %6d  %10d  %10d  %10d  %8d\n",
				truncate(st.Key, 16), st.Calls, st.InputTokens, st.OutputTokens,
				st.InputTokens+st.OutputTokens, st.AvgLatencyMs)
			totalCalls += st.Calls
			totalIn += st.InputTokens
			totalOut += st.OutputTokens
		}

		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-16s  %6d  %10d  %10d  %10d\n",
			"TOTAL", totalCalls, totalIn, totalOut, totalIn+totalOut)

		modelUsage, err := s.EventRepo().UsageBy(ctx, "model")
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(modelUsage) == 0 {
			return nil
		}

		fmt.Println()
		fmt.Println("Estimated Cost (USD)")
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n",
			"Model", "Calls", "Input", "Output", "Cost")
		fmt.Println(strings.Repeat("─", 72))

		var totalCost float64
		var unknownModels []string
		for _, mu := range modelUsage {
			cost := llm.LookupCost(mu.Key)
			if cost == nil {
				unknownModels = append(unknownModels, mu.Key)
				fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
					truncate(mu.Key, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, "?")
				continue
			}
			c := cost.Cost(mu.InputTokens, mu.OutputTokens)
			totalCost += c
			fmt.Printf("%-32s  %6d  %10d  %10d  %9s\n",
				truncate(mu.Key, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, formatCost(c))
		}

		fmt.Println(strings.Repeat("─", 72))
		label := "TOTAL"
		if len(unknownModels) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Printf("%-32s  %6s  %10s  %10s  %9s\n", label, "", "", "", formatCost(totalCost))

		if len(unknownModels) > 0 {
			fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
		}
		return nil
	},
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. review, listening-audio)")
	llmListCmd.Flags().StringP("kind", "k", "", "Filter by kind (llm or speech)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}

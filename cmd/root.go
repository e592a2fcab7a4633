package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/placement/internal/config"
	"github.com/abhisek/placement/internal/flow"
	"github.com/abhisek/placement/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "placement",
	Short: "English placement test",
	Long:  "Placement: a terminal English placement test that estimates a CEFR level (A1-C2) and keeps the results for the teacher.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, flow.StateIntake)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PLACEMENT_DB env var)")

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(speakCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PLACEMENT_DB (from the environment or .env), then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore loads the configuration and opens the database.
func openStore(cmd *cobra.Command) (*store.Store, config.Config, error) {
	cfg := config.Load()
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, cfg, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, cfg, fmt.Errorf("open database: %w", err)
	}
	return st, cfg, nil
}

package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	planweave "github.com/petrijr/planweave"
	"github.com/petrijr/planweave/internal/config"
	"github.com/petrijr/planweave/internal/students"
	"github.com/petrijr/planweave/pkg/gate"
	"github.com/petrijr/planweave/pkg/plan"
	"github.com/petrijr/planweave/pkg/reasoner"
)

var runCmd = &cobra.Command{
	Use:   "run <student-id>",
	Short: "Build a lesson plan interactively for one student",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		r, cleanup, err := buildReasoner(cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		db, err := sql.Open("sqlite", cfg.Database.RunsPath)
		if err != nil {
			return fmt.Errorf("open run database: %w", err)
		}
		defer db.Close()

		runner, err := planweave.NewSQLiteRunnerWithObserver(db, planweave.NewLoggingObserver(logger))
		if err != nil {
			return err
		}

		g := gate.NewConsoleGate(os.Stdin, os.Stdout, logger)
		planner, err := plan.NewPlanner(runner, r, g, logger)
		if err != nil {
			return err
		}

		output, rec, err := planner.BuildPlan(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("build plan: %w", err)
		}

		fmt.Printf("\nRun %s completed (visited %d nodes)\n", rec.ID, len(rec.Visited))
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	},
}

// buildReasoner returns a remote client when a base URL is configured,
// otherwise the in-process service over the student database.
func buildReasoner(cfg *config.Config, logger *slog.Logger) (reasoner.Reasoner, func(), error) {
	if cfg.Reasoner.BaseURL != "" {
		client := reasoner.NewClient(cfg.Reasoner.BaseURL, reasoner.WithTimeout(cfg.Reasoner.Timeout))
		return client, func() {}, nil
	}

	store, err := students.NewSQLiteStore(cfg.Database.StudentsPath)
	if err != nil {
		return nil, nil, err
	}
	svc, err := reasoner.NewService(store, logger)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return svc, func() { store.Close() }, nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}

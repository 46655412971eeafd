package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	planweave "github.com/petrijr/planweave"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded workflow runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		db, err := sql.Open("sqlite", cfg.Database.RunsPath)
		if err != nil {
			return fmt.Errorf("open run database: %w", err)
		}
		defer db.Close()

		runner, err := planweave.NewSQLiteRunner(db)
		if err != nil {
			return err
		}

		status, _ := cmd.Flags().GetString("status")
		records, err := runner.ListRuns(cmd.Context(), planweave.RunListOptions{
			Status: planweave.Status(status),
		})
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}
		for _, rec := range records {
			line := fmt.Sprintf("%s  %-10s %s  (%d nodes)", rec.ID, rec.Status, rec.Graph, len(rec.Visited))
			if rec.Err != nil {
				line += "  error: " + rec.Err.Error()
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().String("status", "", "Filter by run status (PENDING, RUNNING, COMPLETED, FAILED)")
	rootCmd.AddCommand(runsCmd)
}

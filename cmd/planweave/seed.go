package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petrijr/planweave/internal/students"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the student database and load the sample roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		store, err := students.NewSQLiteStore(cfg.Database.StudentsPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Seed(cmd.Context()); err != nil {
			return fmt.Errorf("seed students: %w", err)
		}

		ids, err := store.ListIDs(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %d students into %s:\n", len(ids), cfg.Database.StudentsPath)
		for _, id := range ids {
			fmt.Printf("  %s\n", id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

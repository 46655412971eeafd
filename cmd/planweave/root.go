package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/petrijr/planweave/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "planweave",
	Short: "Planweave builds personalized lesson plans through a staged workflow",
	Long: `Planweave drives a multi-stage lesson-plan workflow: it fetches a
student's learning context, recommends a template, and walks each template
stage collecting operator-approved activities.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a planweave.yaml config file")
}

// loadConfig resolves configuration for a command, honoring --config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	loader := config.NewLoader()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return loader.LoadFromFile(path)
	}
	return loader.Load()
}

// newLogger builds the process logger at the configured level.
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

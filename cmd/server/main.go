package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"nutiai.com/nutiai-server/internal/config"
	"nutiai.com/nutiai-server/internal/logging"
	"nutiai.com/nutiai-server/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "nutiai",
	Short: "NutiAI diet and fitness assistant",
	Long: `NutiAI serves the meal diary, AI generated diets and workouts,
photo based nutrition estimates and the nutrition chat over HTTP.
Running it without a subcommand starts the server.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadConfig()
	},
	RunE: runServe,
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(usersCmd)
}

func newLogger() hclog.Logger {
	return logging.New(logging.Options{
		Level: config.AppConfig.LogLevel,
		File:  config.AppConfig.LogFile,
	})
}

// openLocal opens the per-user slot database.
func openLocal() (*store.SQLiteStore, error) {
	local, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local store: %w", err)
	}
	return local, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

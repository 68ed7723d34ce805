package main

import (
	"os"

	"github.com/zero-day-ai/stride/internal/commands"
)

func main() {
	rootCmd := commands.RootCmd()

	rootCmd.AddCommand(commands.AnalyzeCmd())
	rootCmd.AddCommand(commands.SubmitCmd())
	rootCmd.AddCommand(commands.WorkerCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

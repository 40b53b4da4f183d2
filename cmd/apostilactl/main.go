// Package main provides a command line client for the Apostila AI backend.
package main

import (
	"os"

	"apostila-ai/backend/cmd/apostilactl/commands"
	"apostila-ai/backend/pkg/config"

	"github.com/spf13/cobra"
)

func main() {
	cfg := config.New()

	var opts commands.Options
	rootCmd := &cobra.Command{
		Use:   "apostilactl",
		Short: "Apostila AI command line client",
		Long: `Apostila AI command line client

Talks to a running backend: ask questions, generate exercises and
mint development identity tokens for the tutor route.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.Server, "server", "http://localhost:"+cfg.Server.Port, "backend base URL")
	rootCmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", cfg.Chatvolt.Timeout, "request timeout")
	rootCmd.PersistentFlags().StringVar(&opts.Token, "token", "", "bearer token sent with tutor questions")

	rootCmd.AddCommand(commands.ChatCommand(&opts))
	rootCmd.AddCommand(commands.ExercisesCommand(&opts))
	rootCmd.AddCommand(commands.TutorCommand(&opts))
	rootCmd.AddCommand(commands.TokenCommand(cfg))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

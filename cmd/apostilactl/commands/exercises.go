package commands

import (
	"strings"

	"github.com/spf13/cobra"
)

// ExercisesCommand returns the exercises command
func ExercisesCommand(opts *Options) *cobra.Command {
	var (
		difficulty string
		userID     string
	)

	cmd := &cobra.Command{
		Use:   "exercises [topic]",
		Short: "Generate multiple-choice exercises on a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{
				"topic":      strings.Join(args, " "),
				"difficulty": difficulty,
			}
			if userID != "" {
				body["userId"] = userID
			}
			return postJSON(cmd.Context(), opts, "/api/exercises", body, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&difficulty, "difficulty", "medium", "easy, medium or hard")
	cmd.Flags().StringVar(&userID, "user", "", "user id; anonymous when empty")

	return cmd
}

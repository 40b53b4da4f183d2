package commands

import (
	"strings"

	"github.com/spf13/cobra"
)

// TutorCommand returns the tutor command
func TutorCommand(opts *Options) *cobra.Command {
	var feature string

	cmd := &cobra.Command{
		Use:   "tutor [question]",
		Short: "Ask a question that is kept in the conversation log",
		Long: `Ask a question that is kept in the conversation log.

The student is taken from --token when given, otherwise the server's
default student is used.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"message": strings.Join(args, " ")}
			if feature != "" {
				body["type"] = feature
			}
			return postJSON(cmd.Context(), opts, "/api/tutor", body, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&feature, "type", "", "preset to answer with (chat, exercises, apostilas)")

	return cmd
}

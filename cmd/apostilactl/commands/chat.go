package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ChatCommand returns the chat command
func ChatCommand(opts *Options) *cobra.Command {
	var (
		userID       string
		feature      string
		systemPrompt string
		contextJSON  string
	)

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Ask the assistant a question",
		Long: `Ask the assistant a question.

Without --type the simple chat route is used. With --type the question goes
through the parameterized proxy, optionally behind --system-prompt.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")

			if feature == "" {
				return postJSON(cmd.Context(), opts, "/api/chat", map[string]string{
					"message": message,
					"userId":  userID,
				}, cmd.OutOrStdout())
			}

			body := map[string]any{
				"message": message,
				"userId":  userID,
				"type":    feature,
			}
			if systemPrompt != "" {
				body["systemPrompt"] = systemPrompt
			}
			if contextJSON != "" {
				var extra map[string]any
				if err := json.Unmarshal([]byte(contextJSON), &extra); err != nil {
					return fmt.Errorf("--context must be a JSON object: %w", err)
				}
				body["context"] = extra
			}
			return postJSON(cmd.Context(), opts, "/api/chatvolt-proxy", body, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&userID, "user", "cli", "user id sent to the assistant")
	cmd.Flags().StringVar(&feature, "type", "", "feature type for the proxy route (chat, exercises, apostilas)")
	cmd.Flags().StringVar(&systemPrompt, "system-prompt", "", "system prompt prepended to the message")
	cmd.Flags().StringVar(&contextJSON, "context", "", "extra metadata as a JSON object")

	return cmd
}

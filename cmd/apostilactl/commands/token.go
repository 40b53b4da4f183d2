package commands

import (
	"fmt"

	"apostila-ai/backend/pkg/config"
	"apostila-ai/backend/pkg/jwt"

	"github.com/spf13/cobra"
)

// TokenCommand returns the token command
func TokenCommand(cfg *config.Config) *cobra.Command {
	var name, email, class string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a student identity token signed with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tokens := jwt.NewService(cfg.Security.JWTSecret, cfg.Security.JWTExpiry)
			token, err := tokens.GenerateToken(name, email, class)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", cfg.Identity.Name, "student name")
	cmd.Flags().StringVar(&email, "email", cfg.Identity.Email, "student email")
	cmd.Flags().StringVar(&class, "class", cfg.Identity.Class, "student class")

	return cmd
}

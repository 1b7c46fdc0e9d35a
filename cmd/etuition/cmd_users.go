package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/etuition/etuition-api/app/models"
	"github.com/etuition/etuition-api/app/repositories"
	"github.com/etuition/etuition-api/app/services"
	"github.com/etuition/etuition-api/config"
	"github.com/etuition/etuition-api/pkg/auth"
)

// etuition token <email>: sign a token for a registered user.
var tokenCmd = &cobra.Command{
	Use:   "token <email>",
	Short: "Issue an API token for a registered user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		repos := repositories.NewMongo(a.db)
		svc := services.NewAuthService(repos.Users, auth.NewTokenService(config.JWTSecret()), true)
		token, err := svc.IssueToken(cmd.Context(), auth.Identity{Email: args[0]})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

// etuition user:promote <email> [role]: set a user's role, admin by default.
var promoteCmd = &cobra.Command{
	Use:   "user:promote <email> [role]",
	Short: "Change a user's role (default: admin)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := models.RoleAdmin
		if len(args) == 2 {
			role = args[1]
		}

		a, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		svc := services.NewUserService(repositories.NewMongo(a.db).Users)
		if err := svc.Promote(cmd.Context(), args[0], role); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], role)
		return nil
	},
}

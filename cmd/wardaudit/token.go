package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	jwttoken "wardaudit/internal/jwt_token"
)

// tokenCommand mints an actor token signed with the configured key, for local
// development against the API.
func tokenCommand() *cobra.Command {
	var (
		actorID string
		name    string
		role    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := commonRun()
			if err != nil {
				return err
			}
			if cfg.IsProduction() {
				return errors.New("token issuing is disabled in production")
			}
			svc := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
			token, err := svc.GenerateAccessToken(actorID, name, role, ttl)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&actorID, "actor", "dev-actor", "actor id (subject)")
	cmd.Flags().StringVar(&name, "name", "Dev Actor", "actor display name")
	cmd.Flags().StringVar(&role, "role", "national_secretary", "actor role")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}

package main

import (
	"fmt"

	"screenerbot-gateway/internal/pkg/jwt"
	authUsecase "screenerbot-gateway/internal/service/auth"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a session credential without a Google sign-in",
	Long: `Mint a session credential signed with JWT_SECRET.
When --role is omitted the role follows ADMIN_EMAILS.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		role, _ := cmd.Flags().GetString("role")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		jwtManager, err := jwt.LoadAndBuild(cfg.JWT)
		if err != nil {
			return fmt.Errorf("failed to load JWT manager: %w", err)
		}

		authService := authUsecase.NewAuthService(nil, jwtManager, nil, nil, authUsecase.Options{
			GoogleClientID: cfg.GoogleClientID,
			AdminEmails:    cfg.AdminEmails,
		}, zap.NewNop())

		token, err := authService.IssueToken(email, role)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("email", "", "Email the credential is issued to")
	tokenCmd.Flags().String("role", "", "Role to embed (admin or user)")
	_ = tokenCmd.MarkFlagRequired("email")
}

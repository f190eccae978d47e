package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthMeCmd())
	cmd.AddCommand(newAuthPasswordCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var legajo, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login with legajo and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"legajo":   legajo,
				"password": pass,
			}
			var result AuthResult

			if err := client.Post("/api/v1/auth/login", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&legajo, "legajo", "", "Legajo (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("legajo")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/auth/logout", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Logged out")
			return nil
		},
	}
}

func newAuthMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the current user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Profile

			if err := client.Get("/api/v1/auth/me", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAuthPasswordCmd() *cobra.Command {
	var newPass string

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the current user's password",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"new_password": newPass}

			if err := client.Post("/api/v1/auth/password", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Password changed")
			return nil
		},
	}

	cmd.Flags().StringVar(&newPass, "new", "", "New password (required)")
	_ = cmd.MarkFlagRequired("new")

	return cmd
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator commands",
	}

	cmd.AddCommand(newAdminUserCmd())
	cmd.AddCommand(newAdminTriviaCmd())
	cmd.AddCommand(newAdminPrizeCmd())
	cmd.AddCommand(newAdminRaffleCmd())
	cmd.AddCommand(newAdminConfigCmd())

	return cmd
}

// --- Users ---

func newAdminUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User management",
	}

	cmd.AddCommand(newAdminUserCreateCmd())
	cmd.AddCommand(newAdminUserListCmd())
	cmd.AddCommand(newAdminUserDeleteCmd())
	cmd.AddCommand(newAdminUserScoreCmd())
	cmd.AddCommand(newAdminUserResetPasswordCmd())

	return cmd
}

func newAdminUserCreateCmd() *cobra.Command {
	var legajo, username, role, userType, password string
	var seniority int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"legajo":          legajo,
				"username":        username,
				"role":            role,
				"user_type":       userType,
				"seniority_score": seniority,
			}
			if password != "" {
				req["password"] = password
			}

			var result User
			if err := client.Post("/api/v1/admin/users", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&legajo, "legajo", "", "Legajo (required)")
	cmd.Flags().StringVar(&username, "name", "", "Username (required)")
	cmd.Flags().StringVar(&role, "role", "user", "Role: user, admin")
	cmd.Flags().StringVar(&userType, "type", "empleado", "User type: empleado, invitado")
	cmd.Flags().IntVar(&seniority, "seniority", 0, "Seniority score")
	cmd.Flags().StringVar(&password, "pass", "", "Password (defaults to the event password)")
	_ = cmd.MarkFlagRequired("legajo")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newAdminUserListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []User

			if err := client.Get("/api/v1/admin/users", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAdminUserDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/admin/users/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("User deleted")
			return nil
		},
	}
}

func newAdminUserScoreCmd() *cobra.Command {
	var bucket string
	var amount int

	cmd := &cobra.Command{
		Use:   "score <user-id>",
		Short: "Adjust a user's score bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"bucket": bucket,
				"amount": amount,
			}

			var result User
			if err := client.Post("/api/v1/admin/users/"+args[0]+"/score", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Bucket: seniority, pelado, raffle (required)")
	cmd.Flags().IntVar(&amount, "amount", 0, "Amount, may be negative (required)")
	_ = cmd.MarkFlagRequired("bucket")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newAdminUserResetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <user-id>",
		Short: "Reset a user's password to the event default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/admin/users/"+args[0]+"/password-reset", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Password reset to the event default")
			return nil
		},
	}
}

// --- Trivias ---

func newAdminTriviaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trivia",
		Short: "Trivia management",
	}

	cmd.AddCommand(newAdminTriviaCreateCmd())
	cmd.AddCommand(newAdminTriviaUpdateCmd())
	cmd.AddCommand(newAdminTriviaListCmd())
	cmd.AddCommand(newAdminTriviaDeleteCmd())
	cmd.AddCommand(newAdminTriviaResetCmd())

	return cmd
}

// readTriviaFile reads a trivia definition (name + questions) from a JSON file
func readTriviaFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("invalid trivia file: %w", err)
	}
	return body, nil
}

func newAdminTriviaCreateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a trivia from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readTriviaFile(file)
			if err != nil {
				return err
			}

			var result map[string]any
			if err := client.Post("/api/v1/admin/trivias", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON file with name and questions (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newAdminTriviaUpdateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "update <trivia-id>",
		Short: "Replace a trivia from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readTriviaFile(file)
			if err != nil {
				return err
			}

			var result map[string]any
			if err := client.Put("/api/v1/admin/trivias/"+args[0], body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON file with name and questions (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newAdminTriviaListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all trivias with their questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []map[string]any

			if err := client.Get("/api/v1/admin/trivias", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAdminTriviaDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trivia-id>",
		Short: "Delete a trivia",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/admin/trivias/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Trivia deleted")
			return nil
		},
	}
}

func newAdminTriviaResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <trivia-id>",
		Short: "Clear every user's completion and answers for a trivia",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result map[string]int

			if err := client.Post("/api/v1/admin/trivias/"+args[0]+"/reset", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Reset for %d users", result["affected_users"]))
			return nil
		},
	}
}

// --- Prizes ---

func newAdminPrizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prize",
		Short: "Prize management",
	}

	cmd.AddCommand(newAdminPrizeCreateCmd())
	cmd.AddCommand(newAdminPrizeListCmd())
	cmd.AddCommand(newAdminPrizeDeleteCmd())

	return cmd
}

func newAdminPrizeCreateCmd() *cobra.Command {
	var name, description, imageURL, productURL string
	var cost int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a prize",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"name":        name,
				"description": description,
				"image_url":   imageURL,
				"cost":        cost,
				"product_url": productURL,
			}

			var result Prize
			if err := client.Post("/api/v1/admin/prizes", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Prize name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&imageURL, "image", "", "Image URL")
	cmd.Flags().IntVar(&cost, "cost", 0, "Cost in points (required)")
	cmd.Flags().StringVar(&productURL, "url", "", "Product URL")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("cost")

	return cmd
}

func newAdminPrizeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List prizes with product URLs",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Prize

			if err := client.Get("/api/v1/admin/prizes", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAdminPrizeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <prize-id>",
		Short: "Delete a prize",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/admin/prizes/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Prize deleted")
			return nil
		},
	}
}

// --- Raffle ---

func newAdminRaffleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "raffle",
		Short: "Raffle board management",
	}

	cmd.AddCommand(newAdminRaffleDrawCmd())
	cmd.AddCommand(newAdminRaffleFreeCmd())
	cmd.AddCommand(newAdminRaffleResetCmd())

	return cmd
}

func newAdminRaffleDrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draw",
		Short: "Draw a random winner among the taken numbers",
		RunE: func(cmd *cobra.Command, args []string) error {
			var winner RaffleClaim
			if err := client.Post("/api/v1/admin/raffle/draw", nil, &winner); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(winner)
			return nil
		},
	}
}

func newAdminRaffleFreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "free <number>",
		Short: "Free a taken raffle number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("number must be an integer")
			}
			if err := client.Delete("/api/v1/admin/raffle/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Number freed")
			return nil
		},
	}
}

func newAdminRaffleResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the whole raffle board",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/admin/raffle/reset", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Raffle board cleared")
			return nil
		},
	}
}

// --- Config ---

func newAdminConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Global configuration",
	}

	cmd.AddCommand(newAdminConfigShowCmd())
	cmd.AddCommand(newAdminConfigRaffleCmd())
	cmd.AddCommand(newAdminConfigPrizeURLsCmd())
	cmd.AddCommand(newAdminConfigLimitCmd())
	cmd.AddCommand(newAdminConfigActiveCmd())

	return cmd
}

func newAdminConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the global configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ConfigResult

			if err := client.Get("/api/v1/admin/config", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newToggleCmd(use, short, path string) *cobra.Command {
	var enabled bool

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]bool{"enabled": enabled}

			var result ConfigResult
			if err := client.Patch(path, req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&enabled, "enabled", false, "Enable (true) or disable (false)")

	return cmd
}

func newAdminConfigRaffleCmd() *cobra.Command {
	return newToggleCmd("raffle", "Toggle raffle number selection", "/api/v1/admin/config/raffle")
}

func newAdminConfigPrizeURLsCmd() *cobra.Command {
	return newToggleCmd("prize-urls", "Toggle prize product URL visibility", "/api/v1/admin/config/prize-urls")
}

func newAdminConfigLimitCmd() *cobra.Command {
	var limit int
	var remove bool

	cmd := &cobra.Command{
		Use:   "limit",
		Short: "Set or remove the trivia points cap",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if remove {
				req["limit"] = nil
			} else {
				req["limit"] = limit
			}

			var result ConfigResult
			if err := client.Patch("/api/v1/admin/config/points-limit", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "points", 0, "Cap value")
	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the cap")

	return cmd
}

func newAdminConfigActiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "active [trivia-id...]",
		Short: "Replace the set of active trivias",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"trivia_ids": args}

			var result ConfigResult
			if err := client.Patch("/api/v1/admin/config/active-trivias", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

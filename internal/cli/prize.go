package cli

import (
	"github.com/spf13/cobra"
)

func newPrizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prize",
		Short: "Prize catalog commands",
	}

	cmd.AddCommand(newPrizeListCmd())

	return cmd
}

func newPrizeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the prize catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Prize

			if err := client.Get("/api/v1/prizes", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

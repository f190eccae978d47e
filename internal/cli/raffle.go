package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newRaffleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "raffle",
		Short: "Raffle board commands",
	}

	cmd.AddCommand(newRaffleBoardCmd())
	cmd.AddCommand(newRaffleSelectCmd())

	return cmd
}

func newRaffleBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Show the raffle board",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RaffleBoard

			if err := client.Get("/api/v1/raffle", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRaffleSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <number>",
		Short: "Claim a raffle number (releases any previous one)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}

			req := map[string]int{"number": number}
			if err := client.Post("/api/v1/raffle/select", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Number " + args[0] + " is yours")
			return nil
		},
	}
}

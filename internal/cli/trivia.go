package cli

import (
	"github.com/spf13/cobra"
)

func newTriviaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trivia",
		Short: "Trivia playing commands",
	}

	cmd.AddCommand(newTriviaListCmd())
	cmd.AddCommand(newTriviaStartCmd())
	cmd.AddCommand(newTriviaCurrentCmd())
	cmd.AddCommand(newTriviaAnswerCmd())
	cmd.AddCommand(newTriviaAdvanceCmd())
	cmd.AddCommand(newTriviaResultsCmd())

	return cmd
}

func newTriviaListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active trivias",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []TriviaSummary

			if err := client.Get("/api/v1/trivias", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newTriviaStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <trivia-id>",
		Short: "Start or resume a trivia quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result QuizSnapshot

			if err := client.Post("/api/v1/trivias/"+args[0]+"/quiz", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newTriviaCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current <trivia-id>",
		Short: "Show the in-flight quiz state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result QuizSnapshot

			if err := client.Get("/api/v1/trivias/"+args[0]+"/quiz", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newTriviaAnswerCmd() *cobra.Command {
	var answer string
	var timeout bool

	cmd := &cobra.Command{
		Use:   "answer <trivia-id>",
		Short: "Answer the current question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if timeout {
				req["answer"] = nil
			} else {
				req["answer"] = answer
			}

			var result AnswerResult
			if err := client.Post("/api/v1/trivias/"+args[0]+"/quiz/answer", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&answer, "answer", "", "Selected option text")
	cmd.Flags().BoolVar(&timeout, "timeout", false, "Report the countdown expired without an answer")

	return cmd
}

func newTriviaAdvanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance <trivia-id>",
		Short: "Advance to the next question (or finish)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result QuizSnapshot

			if err := client.Post("/api/v1/trivias/"+args[0]+"/quiz/advance", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newTriviaResultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results <trivia-id>",
		Short: "Show per-question results for a trivia",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Results

			if err := client.Get("/api/v1/trivias/"+args[0]+"/results", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

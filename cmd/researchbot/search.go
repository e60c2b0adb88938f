package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"researchbot/pkg/config"
	"researchbot/pkg/logger"
	"researchbot/pkg/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run the search provider chain without the language model",
	Long: `Run Serper, DuckDuckGo and Wikipedia in priority order and print the
first acceptable result together with every attempt. No completion API key
is needed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	addOutputFlag(searchCmd)
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("query must not be empty")
	}

	var orch *search.Orchestrator
	cleanup, err := buildApp(
		config.Module,
		logger.Module,
		search.Module,
		fx.Populate(&orch),
	)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	outcome := orch.PerformSearch(ctx, query)

	out := cmd.OutOrStdout()
	handled, err := printStructured(out, outputFormat, outcome)
	if err != nil || handled {
		return err
	}

	for _, a := range outcome.Attempts {
		mark := "x"
		if a.Succeeded {
			mark = "ok"
		}
		fmt.Fprintf(out, "%d. %-12s %s", a.Position, a.Provider, mark)
		if a.FailureReason != "" {
			fmt.Fprintf(out, "  (%s)", a.FailureReason)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, outcome.FinalResult)
	return nil
}

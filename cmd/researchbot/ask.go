package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"researchbot/pkg/chains"
	"researchbot/pkg/research"
)

var (
	askParallel  bool
	askSummarize bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question",
	Long: `Answer a single question and print the result.

Examples:
  researchbot ask "What is the latest Go release?"
  researchbot ask "Calculate 25 * 4 + 10"
  researchbot ask --parallel "Why is the sky blue?"
  researchbot ask --summarize "$(cat notes.txt)"
  researchbot ask -o json "Who is Ada Lovelace?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askParallel, "parallel", false, "run the Q&A and reasoning chains concurrently")
	askCmd.Flags().BoolVar(&askSummarize, "summarize", false, "summarize the argument instead of answering it")
	addOutputFlag(askCmd)
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("question must not be empty")
	}

	var svc *research.Service
	cleanup, err := buildApp(append(coreModules(), fx.Populate(&svc))...)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var resp chains.Response
	switch {
	case askSummarize:
		resp = svc.Summarize(ctx, query)
	case askParallel:
		resp = svc.ProcessParallel(ctx, query)
	default:
		resp = svc.Process(ctx, query, nil)
	}

	out := cmd.OutOrStdout()
	handled, err := printStructured(out, outputFormat, resp)
	if err != nil {
		return err
	}
	if !handled {
		fmt.Fprintln(out, resp.Summary)
		if resp.OK() {
			fmt.Fprintf(out, "\n[%s", resp.ChainUsed)
			if len(resp.ToolsUsed) > 0 {
				fmt.Fprintf(out, " | tools: %s", strings.Join(resp.ToolsUsed, ", "))
			}
			fmt.Fprintln(out, "]")
		}
	}

	if !resp.OK() {
		return fmt.Errorf("%s", resp.Error)
	}
	return nil
}

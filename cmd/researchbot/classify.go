package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"researchbot/pkg/classifier"
	"researchbot/pkg/config"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <query>",
	Short: "Show which tools a query would trigger",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

func init() {
	addOutputFlag(classifyCmd)
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	cfg, err := config.NewLoader().Load("")
	if err != nil {
		return err
	}
	tags := classifier.ProvideClassifier(cfg).Classify(query)

	out := cmd.OutOrStdout()
	result := map[string]any{"query": query, "tags": tags}
	if tags.NeedsMath {
		result["expression"] = classifier.ExtractExpression(query)
	}
	handled, err := printStructured(out, outputFormat, result)
	if err != nil || handled {
		return err
	}

	fmt.Fprintf(out, "search:    %t\nmath:      %t\nreasoning: %t\n", tags.NeedsSearch, tags.NeedsMath, tags.NeedsReasoning)
	if tags.NeedsMath {
		fmt.Fprintf(out, "expression: %q\n", classifier.ExtractExpression(query))
	}
	return nil
}

// Package main is the entry point for the researchbot CLI.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"researchbot/pkg/config"
	"researchbot/pkg/version"
)

var (
	configPath   string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "researchbot",
	Short: "researchbot - a query-routing research assistant",
	Long: `researchbot classifies a question, gathers web search results and
arithmetic when the question calls for them, and answers with a single
language-model completion.

Run "researchbot serve" for the HTTP API or "researchbot ask" for one-shot use.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			return os.Setenv(config.ConfigPathEnv, configPath)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		handled, err := printStructured(cmd.OutOrStdout(), outputFormat, info)
		if err != nil || handled {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), info)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	addOutputFlag(versionCmd)
	rootCmd.AddCommand(versionCmd)
}

// addOutputFlag registers -o on commands that print structured results.
func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "output format: text, json or yaml")
}

// printStructured writes v as JSON or YAML. It reports false for text output
// so the caller can render its own format.
func printStructured(w io.Writer, format string, v any) (bool, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return false, nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml", "yml":
		// Round-trip through JSON so both formats share the json field names.
		data, err := json.Marshal(v)
		if err != nil {
			return true, err
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return true, err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return true, enc.Encode(generic)
	default:
		return true, fmt.Errorf("unknown output format %q", format)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"researchbot/pkg/config"
)

var (
	configForce      bool
	configShowFormat string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Long: `Write the default configuration to path, or to ~/.researchbot/config.yaml
when no path is given or -c is unset. The format follows the extension (.json, .yaml, .yml).
Existing files are left alone unless --force is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with secrets masked",
	RunE:  runConfigShow,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")
	configShowCmd.Flags().StringVarP(&configShowFormat, "output", "o", "yaml", "output format: json or yaml")
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	target := strings.TrimSpace(configPath)
	if len(args) == 1 {
		target = args[0]
	}
	if target == "" {
		home, err := config.GetConfigHome()
		if err != nil {
			return err
		}
		target = filepath.Join(home, "config.yaml")
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	if _, err := os.Stat(target); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", target)
	}

	if err := config.SaveToFile(config.DefaultConfig(), target); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration written to %s\n\n", target)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Set llm.api_key (or export GOOGLE_API_KEY)")
	fmt.Fprintln(out, "  2. Optionally set search.serper.api_key (or export SERPER_API_KEY)")
	fmt.Fprintln(out, "  3. Run: researchbot serve")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader()
	cfg, err := loader.Load("")
	if err != nil {
		return err
	}

	masked := *cfg
	masked.LLM.APIKey = mask(cfg.LLM.APIKey)
	masked.Search.Serper.APIKey = mask(cfg.Search.Serper.APIKey)

	out := cmd.OutOrStdout()
	if path := loader.GetConfigPath(); path != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "# loaded from %s\n", path)
	}
	handled, err := printStructured(out, configShowFormat, masked)
	if err != nil {
		return err
	}
	if !handled {
		return fmt.Errorf("config show supports json or yaml output")
	}

	if err := config.ValidateConfig(cfg); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "\nvalidation: %v\n", err)
	}
	return nil
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****" + secret[len(secret)-4:]
}

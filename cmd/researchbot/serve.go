package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"researchbot/pkg/config"
	"researchbot/pkg/gateway"
	"researchbot/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the research assistant HTTP API.

Endpoints:
  GET  /                     service banner
  GET  /health               health check
  POST /api/query            {"query": "...", "options": {}}
  POST /api/query/parallel   {"query": "..."}
  POST /api/search           {"query": "..."}
  POST /api/classify         {"query": "..."}
  POST /api/summarize        {"content": "..."}

The server stops gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	opts := append(coreModules(),
		gateway.Module,
		fx.WithLogger(func(log *logger.Logger) fxevent.Logger {
			l := &fxevent.ZapLogger{Logger: log.Named("fx").Logger}
			l.UseLogLevel(zap.DebugLevel)
			return l
		}),
		fx.Invoke(func(cfg *config.Config, log *logger.Logger) {
			log.Info("Research assistant ready",
				zap.String("host", cfg.Server.Host),
				zap.Int("port", cfg.Server.Port),
				zap.String("llm_provider", cfg.LLM.Provider),
				zap.Bool("serper_configured", cfg.Search.Serper.APIKey != ""),
			)
		}),
	)

	app := fx.New(opts...)
	if err := app.Err(); err != nil {
		return err
	}

	// Run blocks until SIGINT/SIGTERM, then stops the lifecycle hooks.
	app.Run()
	return nil
}

package gateway

import (
	"context"
	"time"

	"go.uber.org/fx"

	"researchbot/pkg/config"
	"researchbot/pkg/logger"
	"researchbot/pkg/research"
)

// Module provides the HTTP gateway for fx and binds it to the app lifecycle.
var Module = fx.Module("gateway",
	fx.Provide(ProvideServer),
	fx.Invoke(registerLifecycle),
)

// ProvideServer builds the gateway over the research service.
func ProvideServer(cfg *config.Config, log *logger.Logger, svc *research.Service) *Server {
	return NewServer(cfg, log, svc)
}

func registerLifecycle(lc fx.Lifecycle, s *Server, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.Start()
		},
		OnStop: func(ctx context.Context) error {
			timeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
			if timeout <= 0 {
				timeout = 10 * time.Second
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			return s.Stop(shutdownCtx)
		},
	})
}

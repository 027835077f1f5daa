// File: cmd/serve.go
package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/internal/config"
	"github.com/xkilldash9x/secreport/internal/server"
	"github.com/xkilldash9x/secreport/internal/service"
)

// newServeCmd creates and configures the `serve` command.
func newServeCmd(factory service.ComponentFactory) *cobra.Command {
	var addr string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report trigger endpoint and Prometheus metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd.Context(), factory, func(ctx context.Context, cfg config.Interface, logger *zap.Logger, c *service.Components) error {
				serverCfg := cfg.Server()
				if addr != "" {
					serverCfg.Addr = addr
				}
				return server.New(serverCfg, c.Service, c.Registry, logger).Serve(ctx)
			})
		},
	}

	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return serveCmd
}

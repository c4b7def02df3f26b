package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *options) *cobra.Command {
	var stdio bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run only the MCP tool server",
		Long: `Serve the built-in tools over MCP streamable HTTP on mcp.server_port
(POST /mcp, GET /health), or over stdin/stdout with --stdio.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer a.close()

			srv, err := newToolServer(a.cfg, a.logger)
			if err != nil {
				return err
			}
			if stdio {
				return srv.ServeStdio()
			}

			listener, err := net.Listen("tcp", fmt.Sprintf(":%d", a.cfg.MCP.ServerPort))
			if err != nil {
				return fmt.Errorf("failed to listen on port %d: %w", a.cfg.MCP.ServerPort, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			serverErr := make(chan error, 1)
			go func() {
				serverErr <- srv.Serve(listener)
			}()

			select {
			case <-ctx.Done():
				a.logger.Info().Msg("Received shutdown signal")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
					return fmt.Errorf("failed to stop tool server: %w", err)
				}
			case err := <-serverErr:
				if err != nil {
					return fmt.Errorf("server error: %w", err)
				}
			}

			a.logger.Info().Msg("Tool server shutdown complete")
			return nil
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false, "Serve MCP over stdin/stdout instead of HTTP")
	return cmd
}

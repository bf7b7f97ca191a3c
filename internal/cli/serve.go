package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/coral-mesh/sqlcmd/internal/cli/helpers"
	"github.com/coral-mesh/sqlcmd/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(g *helpers.GlobalFlags) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sqlcmd over HTTP",
		Long: `Starts an HTTP server that runs sqlcmd command lines.

Endpoints:
  POST /v1/sqlcmd   {"line": "test -t orders -c amount --less-than 100"}
                    {"args": ["columns", "-t", "order items"]}
  GET  /healthz

Usage, unknown-command and invalid-filter errors return 400; database
errors return 500.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := helpers.OpenApp(cmd.Context(), cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			addr := a.Config.Server.ListenAddr
			if cmd.Flags().Changed("listen") {
				addr = listen
			}

			srv := server.New(server.Config{
				Addr:       addr,
				Dispatcher: a.Dispatcher,
				Logger:     a.Logger,
			})
			if err := srv.Start(); err != nil {
				return err
			}

			cmd.Printf("Listening on %s\n", srv.URL())

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Stop(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default: server.listen_addr from config)")

	return cmd
}

package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doeshing/rxdbg/internal/app"
	"github.com/doeshing/rxdbg/internal/domain"
	"github.com/doeshing/rxdbg/internal/infrastructure/engine"
	"github.com/doeshing/rxdbg/internal/infrastructure/httpapi"
	"github.com/doeshing/rxdbg/internal/ports"
)

// NewServeCommand creates the serve command
func NewServeCommand(container *app.Container) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analyzer and history over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := container.Config
			if !cmd.Flags().Changed("host") {
				host = cfg.Server.Host
			}
			if !cmd.Flags().Changed("port") {
				port = cfg.Server.Port
			}

			timeout, err := cfg.MatchTimeout()
			if err != nil {
				return err
			}
			factory := func(name string, opts domain.MatchOptions) (ports.Matcher, error) {
				return engine.New(name, opts, timeout)
			}

			server, err := httpapi.NewServer(container.AnalysisService, factory, container.Logger.Underlying(), &httpapi.Config{
				Host: host,
				Port: port,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s:%d\n", host, port)
			return server.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", domain.DefaultServerHost, "Listen host (default from config)")
	cmd.Flags().IntVar(&port, "port", domain.DefaultServerPort, "Listen port (default from config)")
	return cmd
}

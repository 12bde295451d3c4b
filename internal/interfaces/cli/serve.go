package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpapi "github.com/turtacn/SkipTrace-Intelligence/internal/interfaces/http"
	"github.com/turtacn/SkipTrace-Intelligence/pkg/errors"
)

type serveOptions struct {
	host string
	port int
}

// NewServeCmd returns `skiptrace serve`, the HTTP API in the foreground.
func NewServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if cliCtx.Remote() {
				return errors.InvalidParam("serve does not support --server")
			}
			cfg := *cliCtx.Config
			if opts.host != "" {
				cfg.Server.Host = opts.host
			}
			if opts.port > 0 {
				cfg.Server.Port = opts.port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return httpapi.RunFromConfig(ctx, &cfg, cliCtx.Logger, Version)
		},
	}
	cmd.Flags().StringVar(&opts.host, "host", "", "listen host (default: from config)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "listen port (default: from config)")
	return cmd
}

//Personal.AI order the ending

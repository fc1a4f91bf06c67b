package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/skyloom/r2ops/internal/observability"
	"github.com/skyloom/r2ops/internal/server"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the bucket over a local HTTP gateway",
	Long: `Expose the configured bucket through a local HTTP API:

  GET    /healthz               liveness
  GET    /v1/objects            list keys (fixed page of 10)
  GET    /v1/objects/{key}      download
  PUT    /v1/objects/{key}      upload (Content-Type and Cache-Control headers honored)
  DELETE /v1/objects/{key}      delete

The gateway adds no retries or caching; it is a one-call-per-request
translation onto the bucket.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if serveHost != "" {
		settings.Server.Host = serveHost
	}
	if servePort != 0 {
		settings.Server.Port = servePort
	}

	op, err := buildOperator(ctx)
	if err != nil {
		return err
	}

	srv := server.New(op, observability.CLILogger, settings.Server.Host, settings.Server.Port)
	return srv.Run(ctx)
}

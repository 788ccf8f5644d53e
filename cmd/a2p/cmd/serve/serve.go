package serve

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"audio2pdf/cmd/a2p/cmd/shared"
	"audio2pdf/internal/app"
)

var port string

func init() {
	Cmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on, overrides server.port")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the upload page and REST API",
	Long: `Start the HTTP server.

- GET  /                                    upload page
- POST /api/v1/documents                    transcribe an upload and build the PDF
- GET  /api/v1/documents/:run_id/download   fetch a generated PDF
- GET  /health and /metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := shared.Bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if port != "" {
			cfg.Server.Port = port
		}

		srv, err := app.InitializeServer(cfg, logger)
		if err != nil {
			logger.Error("Failed to initialize server", zap.Error(err))
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return srv.Run(ctx)
	},
}

package serve

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"whisper-web/cmd/whisper-web/cmd/flags"
	"whisper-web/internal/api/server"
	"whisper-web/internal/app/api/provider"
)

var (
	host            string
	port            string
	shutdownTimeout time.Duration
)

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Long: `Run the web server until SIGINT or SIGTERM.

The server starts even without an API key; the landing page then reports
the missing key and uploads are refused.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := flags.LoadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = host
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = port
		}

		logger, err := flags.NewLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		if cfg.EnvFile != "" {
			logger.Info("Loaded environment file", zap.String("path", cfg.EnvFile))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		transcriber, err := provider.NewTranscriberFromConfig(ctx, cfg)
		if err != nil {
			return err
		}

		srv, err := server.NewServer(server.ConfigFromApp(cfg), transcriber, logger)
		if err != nil {
			return err
		}
		if err := srv.Start(); err != nil {
			return err
		}

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	Cmd.Flags().StringVar(&host, "host", "", "listen host (overrides server.host)")
	Cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides server.port)")
	Cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "how long to wait for in-flight requests on shutdown")
}

package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/weld/internal/components"
	"github.com/conneroisu/weld/internal/config"
	"github.com/conneroisu/weld/internal/logging"
	"github.com/conneroisu/weld/internal/server"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the development server",
	Long: `Start the weld development server.

The server loads element manifests, registers element classes, and exposes a
WebSocket session protocol for creating elements, mutating their attributes
and properties, and observing rendered output and dispatched events. With hot
reload enabled, manifest edits re-register element classes live.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8338, "server port")
	serveCmd.Flags().String("host", "localhost", "server host")
	serveCmd.Flags().Bool("no-reload", false, "disable manifest hot-reload")
	addManifestFlag(serveCmd.Flags())

	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if noReload, _ := cmd.Flags().GetBool("no-reload"); noReload {
		cfg.Development.HotReload = false
	}

	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, logger, components.Builtin())
	return srv.Start(ctx)
}

// newLogger builds the CLI logger from effective config.
func newLogger(cfg *config.Config) logging.Logger {
	level := logging.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.Logging.Format,
	})
}

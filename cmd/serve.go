package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papajo/schemaGenius/internal/server"
)

var (
	serveAddr   string
	serveConfig string
)

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the schema generation HTTP API",
	Long: "Run an HTTP server exposing schema generation under /api/v1. The listen address " +
		"comes from --addr, the config file, or SCHEMAGENIUS_ADDR, in that order. The server " +
		"shuts down gracefully on SIGINT or SIGTERM.",
	RunE: runServe,
}

func init() {
	ServeCmd.Flags().StringVar(&serveAddr, "addr", server.DefaultAddr, "Listen address")
	ServeCmd.Flags().StringVar(&serveConfig, "config", "", "Path to a YAML config file")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := server.Default()
	if serveConfig != "" {
		loaded, err := server.LoadConfig(serveConfig)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("addr") {
		cfg.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg).Run(ctx)
}

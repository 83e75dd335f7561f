package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/voltiq/evsim/api"
)

var serverConfigPath string // Optional server YAML config

// serveCmd starts the HTTP API used by the dashboard
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve validation and simulation over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := api.LoadServerConfig(serverConfigPath)
		if err != nil {
			return err
		}
		// An explicit --presets flag wins over the config file.
		if cmd.Flags().Changed("presets") {
			cfg.PresetsPath = presetsPath
		}
		// The server config decides the level unless --log was given.
		if !cmd.Flags().Changed("log") {
			if err := setLogLevel(cfg.LogLevel); err != nil {
				return err
			}
		}

		srv, err := api.NewServer(cfg)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return api.Serve(ctx, srv, cfg)
	},
}

func setLogLevel(name string) error {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid log level: %s", name)
	}
	logrus.SetLevel(level)
	return nil
}

func init() {
	serveCmd.Flags().StringVar(&serverConfigPath, "config", "", "Server config file (YAML); EVSIM_* environment variables override it")
}

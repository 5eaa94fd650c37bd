package main

import (
	"time"

	"github.com/dhamidi/glint/ide"
	"github.com/dhamidi/glint/internal/config"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

func newLSPCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, ".")
			if err != nil {
				return err
			}
			var logFile *string
			if cfg.Log.File != "" {
				logFile = &cfg.Log.File
			}
			commonlog.Configure(cfg.Log.Verbosity, logFile)

			server := ide.NewLSPServer("0.1.0")
			interval, err := time.ParseDuration(cfg.Index.PollInterval)
			if err != nil {
				interval = 0
			}
			server.SetWatch(cfg.Server.Watch, interval)
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a .glint.toml")

	return cmd
}

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sunr3d/backup-sanitizer/internal/entrypoint"
)

var flagPort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose scans over HTTP (POST /scan, GET /report)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		if cmd.Flags().Changed("port") {
			cfg.HTTPPort = flagPort
		}
		return entrypoint.Serve(context.Background(), cfg, log)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagPort, "port", "", "HTTP port (env HTTP_PORT)")
	rootCmd.AddCommand(serveCmd)
}

package main

import (
	"github.com/spf13/cobra"

	"slotsync/internal/daemonrun"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var logLevel string
	var autostart bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the slotsync daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{
				LogLevel:  logLevel,
				Autostart: autostart,
			})
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&autostart, "autostart", false, "Mark this instance as launched by the host application")
	return cmd
}

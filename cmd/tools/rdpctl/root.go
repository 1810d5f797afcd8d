package main

import (
	"github.com/rs/zerolog"
	"github.com/soltixdb/rdplines/internal/logging"
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "rdpctl",
		Short: "rdpctl - simplify CSV time series offline",
		Long: `rdpctl runs the Ramer-Douglas-Peucker simplification used by the
rdplines server against local CSV files, without starting the server.`,
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := zerolog.WarnLevel
		if debug {
			level = zerolog.DebugLevel
		}
		logging.SetGlobal(logging.NewWithWriter(cmd.ErrOrStderr(), level))
	}

	cmd.AddCommand(newSimplifyCommand())
	cmd.AddCommand(newStatsCommand())

	return cmd
}

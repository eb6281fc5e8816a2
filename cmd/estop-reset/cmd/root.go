package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gvarobotics/estop-controller/internal/config"
	"github.com/gvarobotics/estop-controller/internal/service/client"
	"github.com/gvarobotics/estop-controller/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// rootCmd represents the base command for recovering from an emergency stop.
	rootCmd = &cobra.Command{
		Use:   "estop-reset [broker-address]",
		Short: "Reset the vehicle to normal operation after an emergency stop.",
		Long: `Sends a recovery command to the vehicle's agent.

The agent transitions through RESTORING, re-energizes the power relay and
returns to NORMAL. If power cannot be confirmed restored the vehicle stays
in RESTORING and the command exits non-zero. Broker address can be provided
as argument to override the configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use broker address argument if provided, otherwise rely on config.
			var brokerAddress string
			if len(args) > 0 {
				brokerAddress = args[0]
			}

			return client.Reset(ctx, &client.Options{
				ConfigPath:    configPath,
				BrokerAddress: brokerAddress,
			})
		},
	}
)

// Execute runs the estop-reset CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
}

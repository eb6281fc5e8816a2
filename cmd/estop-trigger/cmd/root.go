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
	// reason is free-form context recorded with the trigger.
	reason string

	// rootCmd represents the base command for triggering an emergency stop.
	rootCmd = &cobra.Command{
		Use:   "estop-trigger [broker-address]",
		Short: "Trigger the emergency stop of the configured vehicle.",
		Long: `Sends an emergency-stop command to the vehicle's agent.

The agent cuts motive power, records the state transition and notifies
external observers, strictly in that order. The command exits non-zero
unless the agent confirms the stop is active. Broker address can be
provided as argument to override the configuration.`,
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

			return client.Trigger(ctx, &client.Options{
				ConfigPath:    configPath,
				BrokerAddress: brokerAddress,
				Reason:        reason,
			})
		},
	}
)

// Execute runs the estop-trigger CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&reason, "reason", "r", "", "reason recorded with the stop")
}

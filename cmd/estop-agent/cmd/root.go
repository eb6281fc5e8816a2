package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gvarobotics/estop-controller/internal/config"
	"github.com/gvarobotics/estop-controller/internal/service/agent"
	"github.com/gvarobotics/estop-controller/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// rootCmd represents the base command for running the on-vehicle agent.
	rootCmd = &cobra.Command{
		Use:   "estop-agent [broker-address]",
		Short: "Run the on-vehicle emergency-stop agent.",
		Long: `Starts the emergency-stop agent for one cargo vehicle.

The agent connects to the message bus, serves the trigger/reset/state/history
command subjects for its unit and publishes safety events when the state
changes. Broker address can be provided as argument to override the
configuration (e.g. nats://broker.gva-local:4222).`,
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

			return agent.Run(ctx, &agent.Options{
				ConfigPath:    configPath,
				BrokerAddress: brokerAddress,
			})
		},
	}
)

// Execute runs the estop-agent CLI and exits with non-zero status on error.
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

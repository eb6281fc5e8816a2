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

	// rootCmd represents the base command for inspecting a vehicle's safety state.
	rootCmd = &cobra.Command{
		Use:   "estop-status [broker-address]",
		Short: "Show the vehicle's safety state and transition history.",
		Long: `Queries the vehicle's agent for its current safety state and prints the
transition history as a table, oldest entry first. Broker address can be
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

			return client.Status(ctx, &client.Options{
				ConfigPath:    configPath,
				BrokerAddress: brokerAddress,
			})
		},
	}
)

// Execute runs the estop-status CLI and exits with non-zero status on error.
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

package agent

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/gvarobotics/estop-controller/internal/api/bus"
	"github.com/gvarobotics/estop-controller/internal/api/diag"
	"github.com/gvarobotics/estop-controller/internal/config"
	"github.com/gvarobotics/estop-controller/internal/hal"
	"github.com/gvarobotics/estop-controller/internal/logger"
	"github.com/gvarobotics/estop-controller/internal/metrics"
	"github.com/gvarobotics/estop-controller/internal/notifier"
	"github.com/gvarobotics/estop-controller/internal/orchestrator"
)

// Options controls the estop-agent process.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// BrokerAddress overrides the broker address from config when set.
	BrokerAddress string
}

// Run starts the agent and blocks until the context is canceled. It wires
// the orchestrator with the simulated relay and the bus publisher, serves
// the command subjects and the diagnostics endpoint.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "estop-agent")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if opts.BrokerAddress != "" {
		cfg.BrokerAddress = opts.BrokerAddress
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	if cfg.LogFile != "" {
		logger.SetLogger(logger.New(logger.Level(), logger.WithRotatingFile(cfg.LogFile)))
	}

	conn, err := nats.Connect(cfg.BrokerAddress,
		nats.Name("estop-agent-"+cfg.UnitID),
		nats.Timeout(cfg.Timeout),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return fmt.Errorf("connect to broker %s: %w", cfg.BrokerAddress, err)
	}

	defer conn.Close()

	relay := hal.NewSimulatedRelay(cfg.UnitID, hal.WithDelay(cfg.RelayDelay))
	publisher := notifier.NewBusPublisher(conn)

	orch := orchestrator.New(orchestrator.Config{
		BrokerAddress: cfg.BrokerAddress,
		UnitID:        cfg.UnitID,
		Sector:        cfg.Sector,
	}, relay, publisher)

	recorder := metrics.NewRecorder()
	recorder.RecordState(orch.CurrentState())
	orch.Subscribe(recorder)

	handler := bus.NewHandler(orch, recorder)
	if err := handler.Subscribe(ctx, conn, cfg.UnitID); err != nil {
		return fmt.Errorf("subscribe commands: %w", err)
	}

	defer handler.Close()

	logger.InfoKV(ctx, "Agent ready",
		"unit_id", cfg.UnitID,
		"sector", cfg.Sector,
		"broker_address", cfg.BrokerAddress,
		"state", orch.CurrentState(),
	)

	diagServer := diag.NewServer(cfg.DiagAddress, recorder.Registry(), conn)

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- diagServer.Serve(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info(ctx, "Shutting down agent")

		// Let in-flight replies drain before dropping the connection.
		if err := conn.Drain(); err != nil {
			logger.ErrorKV(ctx, "Broker drain failed", "error", err)
		}

		return <-serveErr
	case err := <-serveErr:
		return err
	}
}

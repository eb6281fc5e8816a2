package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/gvarobotics/estop-controller/internal/api/bus"
	"github.com/gvarobotics/estop-controller/internal/config"
)

// Options configures the operator CLI commands.
type Options struct {
	// ConfigPath to the YAML settings file, defaults to the standard
	// filename when empty.
	ConfigPath string
	// BrokerAddress overrides the broker address from config when set.
	BrokerAddress string
	// Reason is free-form context recorded with a trigger.
	Reason string
}

// session is an established broker connection plus the loaded settings.
type session struct {
	cfg  *config.Config
	conn *nats.Conn
}

// connect loads the settings and dials the broker.
func connect(opts *Options) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.BrokerAddress != "" {
		cfg.BrokerAddress = opts.BrokerAddress
	}

	conn, err := nats.Connect(cfg.BrokerAddress,
		nats.Name("estop-cli"),
		nats.Timeout(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to broker %s: %w", cfg.BrokerAddress, err)
	}

	return &session{
		cfg:  cfg,
		conn: conn,
	}, nil
}

// close drops the broker connection.
func (s *session) close() {
	s.conn.Close()
}

// request sends one command to the unit's agent and decodes the reply.
func request[T any](ctx context.Context, s *session, command string, body any) (*T, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	subject := bus.CommandSubject(s.cfg.UnitID, command)

	msg, err := s.conn.RequestWithContext(ctx, subject, data)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", subject, err)
	}

	return decodeReply[T](msg.Data)
}

// decodeReply separates the agent's error reply from a regular reply.
// Only malformed requests get an error reply, which carries no status
// field; sequence replies report rejections and failures through their
// status with the cause alongside, and must decode as such.
func decodeReply[T any](data []byte) (*T, error) {
	var header struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}

	if err := json.Unmarshal(data, &header); err == nil && header.Status == "" && header.Error != "" {
		return nil, fmt.Errorf("agent rejected request: %s", header.Error)
	}

	var reply T
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}

	return &reply, nil
}

// sequenceDuration renders the reply latency for logs.
func sequenceDuration(reply *bus.SequenceReply) time.Duration {
	return time.Duration(reply.DurationMS) * time.Millisecond
}

package client

import (
	"context"
	"errors"

	"github.com/gvarobotics/estop-controller/internal/api/bus"
	"github.com/gvarobotics/estop-controller/internal/logger"
)

// ErrSequenceNotCompleted is returned when the agent reports anything other
// than a successful sequence, so the CLI exits non-zero.
var ErrSequenceNotCompleted = errors.New("sequence not completed")

// Trigger asks the unit's agent to run the emergency-stop sequence.
func Trigger(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "estop-trigger")

	operator, err := DetectOperator()
	if err != nil {
		return err
	}

	s, err := connect(opts)
	if err != nil {
		return err
	}

	defer s.close()

	logger.WarnKV(ctx, "Requesting emergency stop",
		"unit_id", s.cfg.UnitID, "requested_by", operator, "reason", opts.Reason)

	reply, err := request[bus.SequenceReply](ctx, s, bus.CommandTrigger, bus.TriggerRequest{
		RequestedBy: operator,
		Reason:      opts.Reason,
	})
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Agent replied",
		"status", reply.Status,
		"relay", reply.Relay,
		"state", reply.State,
		"duration", sequenceDuration(reply),
	)

	if reply.NotifyError != "" {
		logger.WarnKV(ctx, "Stop is active but observers were not notified", "error", reply.NotifyError)
	}

	if reply.Status != "ACTIVATED" {
		return errorFromReply(reply)
	}

	return nil
}

// Reset asks the unit's agent to run the recovery sequence.
func Reset(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "estop-reset")

	operator, err := DetectOperator()
	if err != nil {
		return err
	}

	s, err := connect(opts)
	if err != nil {
		return err
	}

	defer s.close()

	logger.InfoKV(ctx, "Requesting recovery", "unit_id", s.cfg.UnitID, "requested_by", operator)

	reply, err := request[bus.SequenceReply](ctx, s, bus.CommandReset, bus.ResetRequest{
		RequestedBy: operator,
	})
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Agent replied",
		"status", reply.Status,
		"relay", reply.Relay,
		"state", reply.State,
		"duration", sequenceDuration(reply),
	)

	if reply.Status != "RESTORED" {
		return errorFromReply(reply)
	}

	return nil
}

// Status prints the unit's current state and its transition history.
func Status(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "estop-status")

	s, err := connect(opts)
	if err != nil {
		return err
	}

	defer s.close()

	stateReply, err := request[bus.StateReply](ctx, s, bus.CommandState, struct{}{})
	if err != nil {
		return err
	}

	historyReply, err := request[bus.HistoryReply](ctx, s, bus.CommandHistory, struct{}{})
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Unit status", "unit_id", s.cfg.UnitID, "state", stateReply.State)

	renderHistory(historyReply.Records)

	return nil
}

// errorFromReply converts a non-successful reply into a CLI error.
func errorFromReply(reply *bus.SequenceReply) error {
	if reply.Error != "" {
		return errors.Join(ErrSequenceNotCompleted, errors.New(reply.Error))
	}

	return ErrSequenceNotCompleted
}

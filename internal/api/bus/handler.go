package bus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go"
	"github.com/samber/lo"

	"github.com/gvarobotics/estop-controller/internal/domain/safety"
	"github.com/gvarobotics/estop-controller/internal/logger"
	"github.com/gvarobotics/estop-controller/internal/metrics"
	"github.com/gvarobotics/estop-controller/internal/orchestrator"
)

// Service abstracts the operations the transport layer depends on.
type Service interface {
	Trigger(ctx context.Context) *orchestrator.TriggerResult
	Reset(ctx context.Context) *orchestrator.ResetResult
	CurrentState() safety.State
	History() []safety.TransitionRecord
}

// Handler serves the agent's command subjects over NATS request/reply.
type Handler struct {
	// service runs the safety sequences.
	service Service
	// recorder tracks sequence metrics, optional.
	recorder *metrics.Recorder
	// validate checks request payloads against their struct tags.
	validate *validator.Validate
	// subs are the live subscriptions, kept for Close.
	subs []*nats.Subscription
}

// NewHandler wires the service and an optional metrics recorder.
func NewHandler(service Service, recorder *metrics.Recorder) *Handler {
	return &Handler{
		service:  service,
		recorder: recorder,
		validate: validator.New(),
	}
}

// Subscribe registers the command subjects of the unit on the connection.
func (h *Handler) Subscribe(ctx context.Context, conn *nats.Conn, unitID string) error {
	handlers := map[string]func(context.Context, []byte) any{
		CommandTrigger: h.trigger,
		CommandReset:   h.reset,
		CommandState:   h.state,
		CommandHistory: h.history,
	}

	for command, handle := range handlers {
		command, handle := command, handle
		subject := CommandSubject(unitID, command)

		sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
			respond(ctx, msg, handle(ctx, msg.Data))
		})
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", subject, err)
		}

		h.subs = append(h.subs, sub)

		logger.InfoKV(ctx, "Command subject registered", "subject", subject)
	}

	return nil
}

// Close drops all command subscriptions.
func (h *Handler) Close() {
	for _, sub := range h.subs {
		_ = sub.Unsubscribe()
	}

	h.subs = nil
}

// trigger runs the emergency-stop sequence for a validated request.
func (h *Handler) trigger(ctx context.Context, data []byte) any {
	var req TriggerRequest
	if reply := h.decode(data, &req); reply != nil {
		return reply
	}

	logger.WarnKV(ctx, "Emergency stop requested", "requested_by", req.RequestedBy, "reason", req.Reason)

	result := h.service.Trigger(ctx)

	if h.recorder != nil {
		h.recorder.ObserveSequence("trigger", string(result.Status), result.Duration)
	}

	reply := SequenceReply{
		Status:     string(result.Status),
		State:      h.service.CurrentState().String(),
		DurationMS: result.Duration.Milliseconds(),
	}

	if result.Power != nil {
		reply.Relay = string(result.Power.Relay)
	}

	if result.Err != nil {
		reply.Error = result.Err.Error()
	}

	if result.NotifyErr != nil {
		reply.NotifyError = result.NotifyErr.Error()
	}

	return reply
}

// reset runs the recovery sequence for a validated request.
func (h *Handler) reset(ctx context.Context, data []byte) any {
	var req ResetRequest
	if reply := h.decode(data, &req); reply != nil {
		return reply
	}

	logger.InfoKV(ctx, "Recovery requested", "requested_by", req.RequestedBy)

	result := h.service.Reset(ctx)

	if h.recorder != nil {
		h.recorder.ObserveSequence("reset", string(result.Status), result.Duration)
	}

	reply := SequenceReply{
		Status:     string(result.Status),
		State:      h.service.CurrentState().String(),
		DurationMS: result.Duration.Milliseconds(),
	}

	if result.Power != nil {
		reply.Relay = string(result.Power.Relay)
	}

	if result.Err != nil {
		reply.Error = result.Err.Error()
	}

	if result.NotifyErr != nil {
		reply.NotifyError = result.NotifyErr.Error()
	}

	return reply
}

// state reports the current safety state.
func (h *Handler) state(context.Context, []byte) any {
	return StateReply{
		State: h.service.CurrentState().String(),
	}
}

// history lists the transition history, oldest first.
func (h *Handler) history(context.Context, []byte) any {
	return HistoryReply{
		Records: lo.Map(h.service.History(), func(record safety.TransitionRecord, _ int) HistoryEntry {
			return HistoryEntry{
				From:      record.From.String(),
				To:        record.To.String(),
				Timestamp: record.Timestamp,
			}
		}),
	}
}

// decode unmarshals and validates a request, returning an ErrorReply on failure.
func (h *Handler) decode(data []byte, target any) any {
	if err := json.Unmarshal(data, target); err != nil {
		return ErrorReply{Error: fmt.Sprintf("decode request: %v", err)}
	}

	if err := h.validate.Struct(target); err != nil {
		return ErrorReply{Error: fmt.Sprintf("invalid request: %v", err)}
	}

	return nil
}

// respond marshals the reply and answers the request message.
func respond(ctx context.Context, msg *nats.Msg, reply any) {
	data, err := json.Marshal(reply)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to encode reply", "subject", msg.Subject, "error", err)

		return
	}

	if err := msg.Respond(data); err != nil {
		logger.ErrorKV(ctx, "Failed to respond", "subject", msg.Subject, "error", err)
	}
}

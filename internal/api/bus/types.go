package bus

import "time"

// TriggerRequest asks the agent to run the emergency-stop sequence.
type TriggerRequest struct {
	// RequestedBy identifies the operator or system issuing the command.
	RequestedBy string `json:"requested_by" validate:"required"`
	// Reason is free-form context for the audit log.
	Reason string `json:"reason,omitempty"`
}

// ResetRequest asks the agent to run the recovery sequence.
type ResetRequest struct {
	// RequestedBy identifies the operator issuing the command.
	RequestedBy string `json:"requested_by" validate:"required"`
}

// SequenceReply reports the outcome of a trigger or reset sequence.
type SequenceReply struct {
	// Status is the aggregate outcome (ACTIVATED, RESTORED, REJECTED, FAILED).
	Status string `json:"status"`
	// Relay is the relay position after the sequence, when known.
	Relay string `json:"relay,omitempty"`
	// State is the safety state after the sequence.
	State string `json:"state"`
	// DurationMS is the summed latency of the executed steps.
	DurationMS int64 `json:"duration_ms"`
	// Error is the cause of a rejection or failure, empty on success.
	Error string `json:"error,omitempty"`
	// NotifyError is a non-fatal notification failure, if any.
	NotifyError string `json:"notify_error,omitempty"`
}

// StateReply reports the current safety state.
type StateReply struct {
	State string `json:"state"`
}

// HistoryEntry is one transition of the history, wire form.
type HistoryEntry struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryReply lists the transition history, oldest first.
type HistoryReply struct {
	Records []HistoryEntry `json:"records"`
}

// ErrorReply reports a malformed or invalid request.
type ErrorReply struct {
	Error string `json:"error"`
}

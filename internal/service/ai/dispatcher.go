package ai

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/attention-ai/doubtbuddy/backend/internal/logger"
	"github.com/attention-ai/doubtbuddy/backend/internal/model/chat"
)

// SessionProvider hands out the shared assistant session.
type SessionProvider interface {
	GetOrCreateSession(ctx context.Context) (Session, error)
}

// State is the position of a single dispatch in its lifecycle.
type State string

const (
	StateIdle             State = "idle"
	StateSessionAcquired  State = "session_acquired"
	StateAwaitingResponse State = "awaiting_response"
	StateCompleted        State = "completed"
	StateFailedFallback   State = "failed_fallback"
)

// FailureReason tags why a dispatch fell back.
type FailureReason string

const (
	FailureNone               FailureReason = ""
	FailureConfiguration      FailureReason = "configuration"
	FailureSessionUnavailable FailureReason = "session_unavailable"
	FailureRemoteExchange     FailureReason = "remote_exchange"
)

// Result is the outcome of one dispatched turn.
type Result struct {
	Reply    string
	Fallback string
	Failure  FailureReason
	Err      error
	State    State
}

// OK reports whether the assistant produced a reply.
func (r Result) OK() bool {
	return r.Failure == FailureNone && r.State == StateCompleted
}

// Text returns the reply, or the fallback message when the turn failed.
func (r Result) Text() string {
	if r.OK() {
		return r.Reply
	}
	return r.Fallback
}

// Dispatcher sends one user utterance per call through the shared session.
type Dispatcher struct {
	sessions SessionProvider
	fallback string
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher that answers failed turns with fallback.
func NewDispatcher(sessions SessionProvider, fallback string, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		sessions: sessions,
		fallback: fallback,
		logger:   logger.OrNop(log),
	}
}

// FallbackMessage returns the static reply used for failed turns.
func (d *Dispatcher) FallbackMessage() string {
	return d.fallback
}

// Dispatch sends utterance to the assistant and waits for exactly one reply.
//
// prior is accepted for the caller's bookkeeping but is not forwarded: the
// session keeps its own conversation memory. Once sent, a turn is not aborted
// when ctx is cancelled. Dispatch never panics and never returns an error;
// failures are reported on the Result.
func (d *Dispatcher) Dispatch(ctx context.Context, utterance string, prior []chat.Turn) (result Result) {
	result = Result{State: StateIdle, Fallback: d.fallback}

	defer func() {
		if rec := recover(); rec != nil {
			result = d.fail(result, FailureRemoteExchange, &RemoteExchangeError{Err: fmt.Errorf("session panicked: %v", rec)}, len(prior))
		}
	}()

	ctx = context.WithoutCancel(ctx)

	session, err := d.sessions.GetOrCreateSession(ctx)
	if err != nil {
		reason := FailureSessionUnavailable
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			reason = FailureConfiguration
		}
		return d.fail(result, reason, err, len(prior))
	}
	result.State = StateSessionAcquired
	d.logger.Debug("dispatching turn", zap.Int("priorTurns", len(prior)))

	result.State = StateAwaitingResponse
	reply, err := session.Send(ctx, utterance)
	if err != nil {
		var remoteErr *RemoteExchangeError
		if !errors.As(err, &remoteErr) {
			err = &RemoteExchangeError{Err: err}
		}
		return d.fail(result, FailureRemoteExchange, err, len(prior))
	}

	result.Reply = reply
	result.State = StateCompleted

	d.logger.Debug("assistant replied",
		zap.Int("priorTurns", len(prior)),
		zap.Int("replyLength", len(reply)),
	)
	return result
}

// SendTurn is the UI-facing form of Dispatch: it always yields displayable text.
func (d *Dispatcher) SendTurn(ctx context.Context, utterance string, prior []chat.Turn) string {
	return d.Dispatch(ctx, utterance, prior).Text()
}

func (d *Dispatcher) fail(result Result, reason FailureReason, err error, priorTurns int) Result {
	d.logger.Warn("assistant turn failed, replying with fallback",
		zap.String("reason", string(reason)),
		zap.String("state", string(result.State)),
		zap.Int("priorTurns", priorTurns),
		zap.Error(err),
	)

	result.Reply = ""
	result.Failure = reason
	result.Err = err
	result.State = StateFailedFallback
	return result
}

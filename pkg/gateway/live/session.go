package live

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vocalize-ai/hrscreen/pkg/agent/runloop"
	"github.com/vocalize-ai/hrscreen/pkg/agent/state"
	"github.com/vocalize-ai/hrscreen/pkg/agent/stream"
)

// CheckpointStore persists session state between turns so a dropped
// connection can resume mid-interview. A nil store disables persistence.
type CheckpointStore interface {
	SaveCheckpoint(ctx context.Context, callID string, st state.State) error
	LoadCheckpoint(ctx context.Context, callID string) (state.State, bool, error)
}

// Session drives one interview call over one WebSocket connection. All
// state transitions happen on the session loop goroutine; the reader and
// writer goroutines only move frames.
type Session struct {
	CallID     string
	Controller *runloop.Controller
	Adapter    *stream.Adapter

	Checkpoints CheckpointStore
	Metrics     *Metrics
	Logger      *slog.Logger

	TurnTimeout     time.Duration
	MaxDuration     time.Duration
	PingInterval    time.Duration
	WriteTimeout    time.Duration
	MaxMessageBytes int64

	outbound chan any
	cancel   context.CancelFunc
	endOnce  sync.Once
	ended    chan struct{}
	status   string
}

// Terminate implements the end_call tool's terminator: it announces the end
// to the client and tears the session down. Safe to call more than once and
// from timer goroutines.
func (s *Session) Terminate(reason string) {
	s.endOnce.Do(func() {
		if s.ended != nil {
			close(s.ended)
		}
		if s.outbound != nil {
			select {
			case s.outbound <- CallEnded{Type: FrameCallEnded, Reason: reason}:
			default:
			}
		}
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// Run owns the connection until the call ends. The returned error reports
// abnormal termination only; a clean end_call or client hangup returns nil.
func (s *Session) Run(parent context.Context, conn *websocket.Conn) error {
	started := time.Now()
	s.status = "error"

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if s.MaxDuration > 0 {
		ctx, cancel = context.WithTimeout(parent, s.MaxDuration)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	s.cancel = cancel
	defer cancel()

	s.outbound = make(chan any, 64)
	s.ended = make(chan struct{})

	if s.Metrics != nil {
		s.Metrics.RecordSessionStart()
		defer func() {
			s.Metrics.RecordSessionEnd(s.status, time.Since(started))
		}()
	}

	writer := &outboundWriter{
		ws:           conn,
		frames:       s.outbound,
		pingInterval: s.PingInterval,
		writeTimeout: s.WriteTimeout,
	}
	writerDone := make(chan error, 1)
	go func() {
		writerDone <- writer.Run(ctx)
	}()
	defer func() {
		cancel()
		<-writerDone
	}()

	frames := make(chan ClientFrame)
	readErr := make(chan error, 1)
	go s.readPump(ctx, conn, frames, readErr)

	st, resumed, err := s.restore(ctx)
	if err != nil {
		s.log().Error("checkpoint restore failed", "call_id", s.CallID, "error", err)
		s.send(ErrorFrame{Type: FrameError, Code: "restore_failed", Message: "could not restore call state"})
		return err
	}

	s.send(HelloAck{Type: FrameHelloAck, CallID: s.CallID, Resumed: resumed})
	s.log().Info("call opened", "call_id", s.CallID, "resumed", resumed)

	// A fresh call opens with the agent speaking first.
	if !resumed {
		st, err = s.runTurn(ctx, st, "")
		if err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			s.status = "timeout"
			if s.isEnded() {
				s.status = "ended"
			}
			return nil

		case err := <-readErr:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || errors.Is(err, context.Canceled) {
				s.status = "disconnected"
				if s.isEnded() {
					s.status = "ended"
				}
				s.log().Info("client disconnected", "call_id", s.CallID)
				return nil
			}
			s.log().Warn("read failed", "call_id", s.CallID, "error", err)
			return err

		case frame := <-frames:
			switch {
			case frame.UserTurn != nil:
				st, _ = s.runTurn(ctx, st, frame.UserTurn.Text)
			case frame.Control != nil:
				s.log().Info("client ended call", "call_id", s.CallID)
				s.Terminate("ended by client")
			}
		}
	}
}

func (s *Session) readPump(ctx context.Context, conn *websocket.Conn, frames chan<- ClientFrame, readErr chan<- error) {
	if s.MaxMessageBytes > 0 {
		conn.SetReadLimit(s.MaxMessageBytes)
	}
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			readErr <- err
			return
		}
		frame, err := DecodeClientFrame(data)
		if err != nil {
			s.log().Warn("bad frame", "call_id", s.CallID, "error", err)
			s.send(ErrorFrame{Type: FrameError, Code: "bad_request", Message: err.Error()})
			continue
		}
		select {
		case frames <- frame:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) restore(ctx context.Context) (state.State, bool, error) {
	if s.Checkpoints == nil {
		return state.State{}, false, nil
	}
	return s.Checkpoints.LoadCheckpoint(ctx, s.CallID)
}

func (s *Session) runTurn(ctx context.Context, st state.State, userText string) (state.State, error) {
	turnCtx := ctx
	if s.TurnTimeout > 0 {
		var cancel context.CancelFunc
		turnCtx, cancel = context.WithTimeout(ctx, s.TurnTimeout)
		defer cancel()
	}

	turnStart := time.Now()
	outcome := "complete"

	next, err := s.Controller.RunTurn(turnCtx, st, userText, s.emitFunc())
	if err != nil {
		outcome = "error"
		s.log().Error("turn failed", "call_id", s.CallID, "error", err)
		if s.Metrics != nil {
			s.Metrics.ErrorsTotal.WithLabelValues("runloop").Inc()
		}
		s.send(ErrorFrame{Type: FrameError, Code: "turn_failed", Message: "the agent could not process that turn"})
	}
	if s.Metrics != nil {
		s.Metrics.RecordTurn(outcome, time.Since(turnStart))
	}

	s.checkpoint(ctx, next)
	return next, err
}

func (s *Session) checkpoint(ctx context.Context, st state.State) {
	if s.Checkpoints == nil {
		return
	}
	if err := s.Checkpoints.SaveCheckpoint(ctx, s.CallID, st); err != nil {
		// The call goes on; the next save usually succeeds.
		s.log().Warn("checkpoint save failed", "call_id", s.CallID, "error", err)
		if s.Metrics != nil {
			s.Metrics.ErrorsTotal.WithLabelValues("checkpoint").Inc()
		}
	}
}

// emitFunc fans run loop events into client deltas and metrics.
func (s *Session) emitFunc() runloop.EmitFunc {
	return func(ev runloop.Event) error {
		switch e := ev.(type) {
		case runloop.ToolCallEvent:
			if s.Metrics != nil {
				s.Metrics.ToolCallsTotal.WithLabelValues(e.Name).Inc()
			}
		case runloop.TurnBlockedEvent:
			if s.Metrics != nil {
				s.Metrics.BlockedTurns.WithLabelValues(e.Reason).Inc()
			}
		}
		for _, d := range s.Adapter.Translate(ev) {
			s.send(AssistantDelta{Type: FrameAssistantDelta, ID: d.ID, Content: d.Content})
		}
		return nil
	}
}

func (s *Session) isEnded() bool {
	select {
	case <-s.ended:
		return true
	default:
		return false
	}
}

func (s *Session) send(frame any) {
	select {
	case s.outbound <- frame:
	default:
		s.log().Warn("outbound queue full, dropping frame", "call_id", s.CallID)
	}
}

func (s *Session) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

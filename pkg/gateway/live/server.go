package live

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vocalize-ai/hrscreen/pkg/agent/config"
	"github.com/vocalize-ai/hrscreen/pkg/agent/guardrail"
	"github.com/vocalize-ai/hrscreen/pkg/agent/runloop"
	"github.com/vocalize-ai/hrscreen/pkg/agent/stream"
	"github.com/vocalize-ai/hrscreen/pkg/agent/tools"
	"github.com/vocalize-ai/hrscreen/pkg/llm"
)

const helloTimeout = 5 * time.Second

// CallStore is the persistence surface a session needs: checkpoints plus
// summary writes.
type CallStore interface {
	CheckpointStore
	WriteSummary(ctx context.Context, callID, body string) error
}

// Server accepts interview calls and wires a session per connection.
type Server struct {
	Config config.Config

	Chat       llm.Client
	Structured llm.StructuredClient
	Searcher   llm.Searcher

	// Store is nil when persistence is disabled.
	Store     CallStore
	Documents tools.DocumentStore

	Metrics *Metrics
	Logger  *slog.Logger

	upgrader websocket.Upgrader
}

// Routes returns the gateway's HTTP mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/call", s.handleCall)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.Metrics != nil {
		mux.Handle("/metrics", s.Metrics.Handler())
	}
	return mux
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log().Warn("upgrade failed", "error", err)
		return
	}

	hello, err := s.readHello(conn)
	if err != nil {
		s.log().Warn("handshake failed", "error", err)
		payload := ErrorFrame{Type: FrameError, Code: "bad_request", Message: err.Error()}
		_ = conn.SetWriteDeadline(time.Now().Add(helloTimeout))
		_ = conn.WriteJSON(payload)
		_ = conn.Close()
		return
	}

	sess := s.newSession(hello)
	if err := sess.Run(r.Context(), conn); err != nil {
		s.log().Error("session ended with error", "call_id", sess.CallID, "error", err)
	}
}

func (s *Server) readHello(conn *websocket.Conn) (ClientHello, error) {
	if s.Config.WSMaxMessageBytes > 0 {
		conn.SetReadLimit(s.Config.WSMaxMessageBytes)
	}
	_ = conn.SetReadDeadline(time.Now().Add(helloTimeout))
	defer func() { _ = conn.SetReadDeadline(time.Time{}) }()

	_, data, err := conn.ReadMessage()
	if err != nil {
		return ClientHello{}, err
	}
	return DecodeHello(data)
}

// newSession assembles the per-call object graph: tool registry with the
// session as terminator, guardrail gate, and run loop controller.
func (s *Server) newSession(hello ClientHello) *Session {
	callID := hello.CallID()
	logger := s.log().With("call_id", callID)

	sess := &Session{
		CallID:          callID,
		Adapter:         stream.NewAdapter(),
		Metrics:         s.Metrics,
		Logger:          logger,
		TurnTimeout:     s.Config.TurnTimeout,
		MaxDuration:     s.Config.WSMaxSessionDuration,
		PingInterval:    s.Config.WSPingInterval,
		WriteTimeout:    s.Config.WSWriteTimeout,
		MaxMessageBytes: s.Config.WSMaxMessageBytes,
	}

	var sink tools.SummarySink
	if s.Store != nil {
		sess.Checkpoints = s.Store
		sink = callSink{store: s.Store, callID: callID}
	}

	execs := []tools.Executor{
		tools.ListDocuments{Store: s.Documents},
		tools.ReadDocument{Store: s.Documents},
		tools.StartTimer{},
		tools.CheckTime{Duration: s.Config.InterviewDuration, Warning: s.Config.WarningThreshold},
		tools.WriteSummary{Sink: sink},
		tools.ReadSummary{},
		tools.Think{},
		tools.ClearThoughts{},
		tools.EndCall{Terminator: sess, Delay: s.Config.EndCallDelay, Logger: logger},
	}
	if s.Searcher != nil {
		execs = append(execs, tools.WebSearch{Searcher: s.Searcher})
	}

	gate := &guardrail.Gate{
		Safety:    guardrail.NewSafetyClassifier(s.Structured, s.Config.ClassifierModel),
		Relevance: guardrail.NewRelevanceClassifier(s.Structured, s.Config.ClassifierModel),
		Window:    s.Config.GuardrailWindow,
		Logger:    logger,
	}

	sess.Controller = &runloop.Controller{
		Client:   s.Chat,
		Tools:    tools.NewRegistry(logger, execs...),
		Gate:     gate,
		Model:    s.Config.InterviewModel,
		MaxSteps: s.Config.MaxTurnSteps,
		Logger:   logger,
		System: runloop.BuildSystemPrompt(runloop.InterviewConfig{
			Company:   hello.Company,
			Position:  hello.Position,
			Candidate: hello.Candidate,
			Duration:  s.Config.InterviewDuration,
		}),
	}

	return sess
}

type callSink struct {
	store  CallStore
	callID string
}

func (c callSink) WriteSummary(ctx context.Context, text string) error {
	return c.store.WriteSummary(ctx, c.callID, text)
}

func (s *Server) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

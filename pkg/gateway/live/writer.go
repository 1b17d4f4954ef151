package live

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

type wsConn interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// outboundWriter owns all writes to the socket. Frames are queued on a
// channel so the session loop never blocks on a slow client, and pings keep
// the connection alive between turns.
type outboundWriter struct {
	ws           wsConn
	frames       <-chan any
	pingInterval time.Duration
	writeTimeout time.Duration
}

func (w *outboundWriter) Run(ctx context.Context) error {
	pingInterval := w.pingInterval
	if pingInterval <= 0 {
		pingInterval = 20 * time.Second
	}
	writeTimeout := w.writeTimeout
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.flushOnShutdown(writeTimeout)
			_ = w.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeTimeout))
			_ = w.ws.Close()
			return nil
		case <-ticker.C:
			if err := w.ws.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeTimeout)); err != nil {
				return err
			}
		case frame, ok := <-w.frames:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(frame)
			if err != nil {
				return err
			}
			if err := w.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				return err
			}
			if err := w.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				return err
			}
		}
	}
}

// flushOnShutdown writes frames already queued when the session ends, so a
// final call_ended or error frame still reaches the client.
func (w *outboundWriter) flushOnShutdown(writeTimeout time.Duration) {
	const maxFlushFrames = 8
	for i := 0; i < maxFlushFrames; i++ {
		select {
		case frame, ok := <-w.frames:
			if !ok {
				return
			}
			payload, err := json.Marshal(frame)
			if err != nil {
				return
			}
			_ = w.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			_ = w.ws.WriteMessage(websocket.TextMessage, payload)
		default:
			return
		}
	}
}

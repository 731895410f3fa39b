// internal/transport/session.go
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"settlersync/internal/protocol"
)

// writeTimeout bounds each outbound websocket write.
const writeTimeout = 3 * time.Second

// Handler receives every classified inbound event. All calls happen on the
// session's single read goroutine, so a handler may mutate its state without
// further locking.
type Handler interface {
	HandleEvent(ev protocol.Event)
}

// Session owns one persistent websocket connection to a game. Outbound sends
// are fire-and-forget: a send on a closed session is dropped with a warning,
// never queued or retried; the next snapshot re-asserts the true state.
type Session struct {
	log      *logrus.Logger
	GameID   int
	PlayerID int

	mu      sync.Mutex
	conn    *websocket.Conn
	open    bool
	started bool
	cancel  context.CancelFunc

	// Done is closed when the read loop exits for any reason.
	Done chan struct{}
}

// Dial opens a connection against baseURL (ws:// or wss://) for the given
// game and seat. No events are delivered until Start is called, so the caller
// can finish publishing the session wherever the handler may reach it before
// the first frame arrives.
func Dial(ctx context.Context, log *logrus.Logger, baseURL string, gameID, playerID int) (*Session, error) {
	if log == nil {
		log = logrus.New()
	}
	url := fmt.Sprintf("%s/ws/%d/%d", strings.TrimRight(baseURL, "/"), gameID, playerID)

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	s := &Session{
		log:      log,
		GameID:   gameID,
		PlayerID: playerID,
		conn:     conn,
		open:     true,
		Done:     make(chan struct{}),
	}

	log.WithFields(logrus.Fields{
		"game":   gameID,
		"player": playerID,
	}).Info("session opened")

	return s, nil
}

// Start launches the read loop delivering classified events to h. Starting a
// session twice, or one already closed, is a no-op.
func (s *Session) Start(h Handler) {
	s.mu.Lock()
	if s.started || !s.open {
		s.mu.Unlock()
		return
	}
	s.started = true
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	go s.readLoop(ctx, h)
}

// readLoop reads frames until the connection dies or the session is closed,
// classifying each frame and handing it to the handler. Unrecognized frames
// are dropped silently.
func (s *Session) readLoop(ctx context.Context, h Handler) {
	defer close(s.Done)
	defer s.markClosed()

	for {
		msgType, data, err := s.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || ctx.Err() != nil {
				s.log.WithField("game", s.GameID).Info("session closed")
			} else {
				s.log.WithField("game", s.GameID).Warnf("session read error: %v", err)
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		ev := protocol.Classify(data)
		if ev.Kind == protocol.EventUnknown {
			continue
		}
		h.HandleEvent(ev)
	}
}

// Send serializes and transmits one command. A session that is not open
// drops the command with a diagnostic log; the command model is idempotent
// from the client's perspective, so there is no retry.
func (s *Session) Send(cmd protocol.Command) {
	s.mu.Lock()
	conn, open := s.conn, s.open
	s.mu.Unlock()

	if !open || conn == nil {
		s.log.WithField("command", cmd.Type()).Warn("send dropped: session not open")
		return
	}

	data, err := json.Marshal(cmd)
	if err != nil {
		s.log.WithField("command", cmd.Type()).Warnf("send dropped: marshal failed: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		s.log.WithField("command", cmd.Type()).Warnf("send failed: %v", err)
	}
}

// Open reports whether the session can currently transmit.
func (s *Session) Open() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Close terminates the session and waits for a started read loop to exit, so
// a stale session is fully quiet before its replacement opens. Safe to call
// more than once. Must not be called from the session's own handler.
func (s *Session) Close() {
	s.mu.Lock()
	conn, open, started, cancel := s.conn, s.open, s.started, s.cancel
	s.open = false
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if open && conn != nil {
		conn.Close(websocket.StatusNormalClosure, "client closing")
	}
	if started {
		<-s.Done
	}
}

func (s *Session) markClosed() {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
}

// internal/client/client.go
package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"settlersync/internal/game"
	"settlersync/internal/lobby"
	"settlersync/internal/protocol"
	"settlersync/internal/recorder"
	"settlersync/internal/transport"
)

// Client ties the session-establishment calls, the websocket session, the
// canonical game view and the optional event recorder together. One Client
// tracks one (game, seat) membership at a time.
type Client struct {
	log   *logrus.Logger
	lobby *lobby.Client
	rec   *recorder.Recorder

	wsBaseURL string
	gameID    int
	playerID  int

	View *game.View

	// sessionMu guards session: Do runs on the read goroutine while
	// Connect and Close swap the pointer from the caller's.
	sessionMu sync.Mutex
	session   *transport.Session

	// OnUpdate, when set, is invoked after every applied event on the
	// session's read goroutine. It may safely read the view and send
	// commands; it must not block.
	OnUpdate func()
}

// New creates a Client against the server's HTTP and websocket base URLs.
// rec may be nil to disable recording.
func New(log *logrus.Logger, httpBaseURL, wsBaseURL string, rec *recorder.Recorder) *Client {
	if log == nil {
		log = logrus.New()
	}
	return &Client{
		log:       log,
		lobby:     lobby.NewClient(httpBaseURL),
		rec:       rec,
		wsBaseURL: wsBaseURL,
		View:      game.NewView(log, 0),
	}
}

// CreateGame creates a session and adopts the returned membership.
func (c *Client) CreateGame(ctx context.Context) (int, error) {
	m, err := c.lobby.CreateGame(ctx)
	if err != nil {
		return 0, err
	}
	c.adoptMembership(m)
	return m.GameID, nil
}

// JoinGame joins an existing session and adopts the returned membership.
func (c *Client) JoinGame(ctx context.Context, gameID int) error {
	m, err := c.lobby.JoinGame(ctx, gameID)
	if err != nil {
		return err
	}
	c.adoptMembership(m)
	return nil
}

// StartGame asks the server to begin play in the current game.
func (c *Client) StartGame(ctx context.Context) error {
	if c.gameID == 0 {
		return fmt.Errorf("start game: no game joined")
	}
	return c.lobby.StartGame(ctx, c.gameID)
}

func (c *Client) adoptMembership(m lobby.Membership) {
	c.gameID = m.GameID
	c.playerID = m.PlayerID
	c.View = game.NewView(c.log, m.PlayerID)
}

// Connect opens the websocket session for the current membership. Any stale
// session is fully closed first so a replacement never delivers duplicate
// events, and the new session is published before its read loop starts so
// OnUpdate hooks can send commands from the very first event.
func (c *Client) Connect(ctx context.Context) error {
	if c.gameID == 0 || c.playerID == 0 {
		return fmt.Errorf("connect: game and seat must be known")
	}
	if stale := c.takeSession(); stale != nil {
		stale.Close()
	}

	s, err := transport.Dial(ctx, c.log, c.wsBaseURL, c.gameID, c.playerID)
	if err != nil {
		return err
	}

	c.sessionMu.Lock()
	c.session = s
	c.sessionMu.Unlock()
	s.Start(c)
	return nil
}

// takeSession detaches and returns the current session, nil if none.
func (c *Client) takeSession() *transport.Session {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	s := c.session
	c.session = nil
	return s
}

// currentSession returns the session without detaching it.
func (c *Client) currentSession() *transport.Session {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	return c.session
}

// Done returns a channel closed when the current session's read loop exits,
// or nil if no session is open.
func (c *Client) Done() <-chan struct{} {
	s := c.currentSession()
	if s == nil {
		return nil
	}
	return s.Done
}

// Close tears down the websocket session and the recorder.
func (c *Client) Close() {
	if s := c.takeSession(); s != nil {
		s.Close()
	}
	c.rec.Close()
}

// HandleEvent routes one classified inbound event into the view. It runs on
// the session's read goroutine, the only goroutine that mutates the view.
func (c *Client) HandleEvent(ev protocol.Event) {
	switch ev.Kind {
	case protocol.EventSnapshot:
		c.rec.Record(c.gameID, c.playerID, recorder.DirectionInbound, ev.Kind.String(), ev.Snapshot)
		c.View.ApplySnapshot(ev.Snapshot)
	case protocol.EventLobbyState:
		c.View.ApplyLobbyState(ev.Seats)
	case protocol.EventSeatJoined:
		c.View.ApplySeatJoined(ev.Seat)
	case protocol.EventSeatLeft:
		c.View.ApplySeatLeft(ev.Seat)
	case protocol.EventGameStarted:
		c.View.ApplyGameStarted()
	case protocol.EventGameOver:
		c.View.ApplyGameOver(ev.Winner, ev.Message)
	case protocol.EventActionFailed:
		c.log.Info("server rejected the last command")
	case protocol.EventKeepAlive:
		// no-op
	}

	if c.OnUpdate != nil && ev.Kind != protocol.EventKeepAlive {
		c.OnUpdate()
	}
}

// Do forwards one outbound command through the session, recording it first.
func (c *Client) Do(cmd protocol.Command) {
	s := c.currentSession()
	if s == nil {
		c.log.WithField("command", cmd.Type()).Warn("send dropped: no session")
		return
	}
	c.rec.Record(c.gameID, c.playerID, recorder.DirectionOutbound, cmd.Type(), cmd)
	s.Send(cmd)
}

// GameID returns the current game id, 0 before create/join.
func (c *Client) GameID() int { return c.gameID }

// PlayerID returns the connection-assigned seat, 0 before create/join.
func (c *Client) PlayerID() int { return c.playerID }

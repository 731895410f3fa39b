// internal/transport/session_test.go
package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settlersync/internal/protocol"
)

// chanHandler funnels classified events into a channel for assertions.
type chanHandler chan protocol.Event

func (c chanHandler) HandleEvent(ev protocol.Event) { c <- ev }

func awaitEvent(t *testing.T, events chan protocol.Event) protocol.Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
		return protocol.Event{}
	}
}

func TestSessionLifecycle(t *testing.T) {
	gotCommand := make(chan string, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ws/7/2", r.URL.Path, "session path carries game and seat")

		c, err := websocket.Accept(w, r, nil)
		require.NoError(t, err)
		ctx := context.Background()

		write := func(v string) {
			require.NoError(t, c.Write(ctx, websocket.MessageText, []byte(v)))
		}
		write(`{"type":"lobby_state","players":[1,2]}`)
		write(`{"garbage":"frame"}`)
		write(`{"board":{},"players":{"2":{"hand":{"wood":1}}},"current_turn":2}`)

		// Wait for one command from the client, then end the game.
		_, data, err := c.Read(ctx)
		require.NoError(t, err)
		var cmd map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &cmd))
		tag, _ := cmd["type"].(string)
		gotCommand <- tag

		write(`{"status":"game_over","winner":2}`)
		c.Close(websocket.StatusNormalClosure, "done")
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	events := make(chanHandler, 16)

	log := logrus.New()
	s, err := Dial(context.Background(), log, wsURL, 7, 2)
	require.NoError(t, err)
	defer s.Close()
	s.Start(events)

	assert.Equal(t, protocol.EventLobbyState, awaitEvent(t, events).Kind)

	// The garbage frame is dropped silently; the snapshot comes through next.
	snap := awaitEvent(t, events)
	require.Equal(t, protocol.EventSnapshot, snap.Kind)
	assert.Contains(t, snap.Snapshot, "players")

	s.Send(protocol.RollDice())
	select {
	case tag := <-gotCommand:
		assert.Equal(t, "roll_dice", tag)
	case <-time.After(3 * time.Second):
		t.Fatal("server never received the command")
	}

	over := awaitEvent(t, events)
	assert.Equal(t, protocol.EventGameOver, over.Kind)
	assert.Equal(t, 2, over.Winner)

	select {
	case <-s.Done:
	case <-time.After(3 * time.Second):
		t.Fatal("read loop did not exit after server close")
	}
	assert.False(t, s.Open())
}

// Frames arriving between Dial and Start stay queued on the connection; the
// handler sees nothing until Start and then receives them in order.
func TestNoDeliveryBeforeStart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		require.NoError(t, err)
		ctx := context.Background()
		require.NoError(t, c.Write(ctx, websocket.MessageText, []byte(`{"type":"lobby_state","players":[1]}`)))
		c.Read(ctx)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	s, err := Dial(context.Background(), logrus.New(), wsURL, 1, 1)
	require.NoError(t, err)
	defer s.Close()

	events := make(chanHandler, 1)
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, events)

	s.Start(events)
	ev := awaitEvent(t, events)
	assert.Equal(t, protocol.EventLobbyState, ev.Kind)
	assert.Equal(t, []int{1}, ev.Seats)
}

func TestCloseWaitsForReadLoopExit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		require.NoError(t, err)
		// Hold the connection open until the client goes away.
		c.Read(context.Background())
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	s, err := Dial(context.Background(), logrus.New(), wsURL, 1, 1)
	require.NoError(t, err)
	s.Start(make(chanHandler, 1))

	s.Close()
	select {
	case <-s.Done:
	default:
		t.Fatal("Close returned before the read loop exited")
	}
	assert.False(t, s.Open())

	// Fire-and-forget: no retry, no queueing, no panic.
	s.Send(protocol.EndTurn())
	s.Close()
}

func TestCloseBeforeStart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		require.NoError(t, err)
		c.Read(context.Background())
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	s, err := Dial(context.Background(), logrus.New(), wsURL, 1, 1)
	require.NoError(t, err)

	// Must return immediately; there is no read loop to wait for.
	s.Close()
	assert.False(t, s.Open())

	// Starting a closed session must not spin up a loop.
	s.Start(make(chanHandler, 1))
	select {
	case <-s.Done:
		t.Fatal("Done must stay open when no loop ever ran")
	default:
	}
}

func TestDialFailure(t *testing.T) {
	_, err := Dial(context.Background(), logrus.New(), "ws://127.0.0.1:1", 1, 1)
	require.Error(t, err)
}

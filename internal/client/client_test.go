// internal/client/client_test.go
package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settlersync/internal/game"
	"settlersync/internal/protocol"
)

func newTestClient() *Client {
	return New(nil, "http://localhost:8000", "ws://localhost:8000", nil)
}

func TestHandleEventRoutesIntoView(t *testing.T) {
	c := newTestClient()

	c.HandleEvent(protocol.Event{Kind: protocol.EventLobbyState, Seats: []int{1, 2}})
	assert.Equal(t, []int{1, 2}, c.View.Snapshot().LobbySeats)

	c.HandleEvent(protocol.Event{Kind: protocol.EventSeatJoined, Seat: 3})
	assert.Equal(t, []int{1, 2, 3}, c.View.Snapshot().LobbySeats)

	c.HandleEvent(protocol.Event{Kind: protocol.EventGameStarted})
	assert.Equal(t, game.PhaseInGame, c.View.Snapshot().Phase)

	c.HandleEvent(protocol.Event{Kind: protocol.EventSnapshot, Snapshot: map[string]interface{}{
		"board": map[string]interface{}{},
		"players": map[string]interface{}{
			"1": map[string]interface{}{"hand": map[string]interface{}{"wood": 2.0}},
		},
		"current_turn": 1.0,
	}})
	s := c.View.Snapshot()
	require.Len(t, s.Players, 1)
	assert.Equal(t, 1, s.SelfID)
	assert.Equal(t, 2, s.Self.Hand.Wood)

	c.HandleEvent(protocol.Event{Kind: protocol.EventGameOver, Winner: 1})
	assert.Equal(t, game.PhaseOver, c.View.Snapshot().Phase)
	assert.Equal(t, 1, c.View.Snapshot().Winner)
}

func TestOnUpdateFiresAfterEachEvent(t *testing.T) {
	c := newTestClient()
	calls := 0
	c.OnUpdate = func() { calls++ }

	c.HandleEvent(protocol.Event{Kind: protocol.EventGameStarted})
	c.HandleEvent(protocol.Event{Kind: protocol.EventKeepAlive})
	c.HandleEvent(protocol.Event{Kind: protocol.EventActionFailed})

	assert.Equal(t, 2, calls, "keep-alives do not trigger updates")
}

func TestDoWithoutSessionIsDropped(t *testing.T) {
	c := newTestClient()
	// Must not panic or queue; the command is simply dropped.
	c.Do(protocol.RollDice())
	assert.Nil(t, c.Done())
}

func TestStartGameRequiresMembership(t *testing.T) {
	c := newTestClient()
	err := c.StartGame(context.Background())
	require.Error(t, err)
}

// The update hook runs on the session's read goroutine and is allowed to send
// commands immediately, including for the very first event after Connect.
func TestDoFromUpdateHookOnFirstEvent(t *testing.T) {
	gotCommand := make(chan string, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/join" {
			json.NewEncoder(w).Encode(map[string]int{"game_id": 7, "player_id": 2})
			return
		}
		require.Equal(t, "/ws/7/2", r.URL.Path)

		conn, err := websocket.Accept(w, r, nil)
		require.NoError(t, err)
		ctx := context.Background()

		// Stream a snapshot before the client has even returned from Connect.
		snapshot := `{"board":{},"players":{"2":{"hand":{"wood":1}}},"current_turn":2}`
		require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(snapshot)))

		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var cmd map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &cmd))
		tag, _ := cmd["type"].(string)
		gotCommand <- tag
		conn.Read(ctx)
	}))
	defer srv.Close()

	c := New(nil, srv.URL, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	defer c.Close()
	require.NoError(t, c.JoinGame(context.Background(), 7))

	c.OnUpdate = func() { c.Do(protocol.RollDice()) }
	require.NoError(t, c.Connect(context.Background()))

	select {
	case tag := <-gotCommand:
		assert.Equal(t, "roll_dice", tag)
	case <-time.After(3 * time.Second):
		t.Fatal("command sent from the update hook never reached the server")
	}
	assert.Equal(t, 2, c.View.Snapshot().SelfID)
}

// Reconnecting must fully retire the stale session before the replacement
// opens: its read loop is gone by the time Connect returns, and only the new
// session delivers events afterwards.
func TestConnectSupersedesStaleSession(t *testing.T) {
	var mu sync.Mutex
	conns := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/join" {
			json.NewEncoder(w).Encode(map[string]int{"game_id": 7, "player_id": 2})
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		require.NoError(t, err)
		ctx := context.Background()

		mu.Lock()
		conns++
		n := conns
		mu.Unlock()

		if n == 1 {
			// First connection sends nothing; the client closes it on reconnect.
			conn.Read(ctx)
			return
		}
		snapshot := `{"board":{},"players":{"2":{"hand":{"ore":3}}},"current_turn":2}`
		require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(snapshot)))
		conn.Read(ctx)
	}))
	defer srv.Close()

	c := New(nil, srv.URL, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	defer c.Close()
	require.NoError(t, c.JoinGame(context.Background(), 7))

	updates := make(chan struct{}, 4)
	c.OnUpdate = func() { updates <- struct{}{} }

	require.NoError(t, c.Connect(context.Background()))
	firstDone := c.Done()
	require.NotNil(t, firstDone)

	require.NoError(t, c.Connect(context.Background()))
	select {
	case <-firstDone:
	default:
		t.Fatal("stale session still running after reconnect")
	}

	select {
	case <-updates:
	case <-time.After(3 * time.Second):
		t.Fatal("replacement session delivered no events")
	}
	assert.Equal(t, 3, c.View.Snapshot().Self.Hand.Ore)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, conns)
}

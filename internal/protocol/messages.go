// internal/protocol/messages.go
//
// Inbound message classification. The server does not tag every message with
// a discriminator, so classification goes by shape: a snapshot is anything
// carrying both a board and a players mapping, lobby traffic uses a "type"
// field and lifecycle notices use a "status" field.
package protocol

import "encoding/json"

// EventKind identifies one classified inbound message.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventLobbyState
	EventKeepAlive
	EventSeatJoined
	EventSeatLeft
	EventGameStarted
	EventActionFailed
	EventSnapshot
	EventGameOver
)

func (k EventKind) String() string {
	switch k {
	case EventLobbyState:
		return "lobby_state"
	case EventKeepAlive:
		return "keep_alive"
	case EventSeatJoined:
		return "seat_joined"
	case EventSeatLeft:
		return "seat_left"
	case EventGameStarted:
		return "game_started"
	case EventActionFailed:
		return "action_failed"
	case EventSnapshot:
		return "snapshot"
	case EventGameOver:
		return "game_over"
	}
	return "unknown"
}

// Event is one classified inbound message. Only the fields relevant to Kind
// are populated; Snapshot holds the raw payload for the normalizer.
type Event struct {
	Kind EventKind

	// Seats is the lobby membership set (EventLobbyState).
	Seats []int
	// Seat is the joining/leaving seat (EventSeatJoined, EventSeatLeft).
	Seat int
	// Winner is the winning seat, 0 if none was declared (EventGameOver).
	Winner int
	// Message is the optional terminal message (EventGameOver).
	Message string
	// Snapshot is the raw snapshot payload (EventSnapshot).
	Snapshot map[string]interface{}
}

// Classify decodes and classifies a raw inbound frame. It never panics;
// undecodable or unrecognized frames come back as EventUnknown and are
// ignored by callers.
func Classify(data []byte) Event {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Event{Kind: EventUnknown}
	}

	if _, hasBoard := raw["board"]; hasBoard {
		if _, hasPlayers := raw["players"]; hasPlayers {
			return Event{Kind: EventSnapshot, Snapshot: raw}
		}
	}

	switch raw["type"] {
	case "lobby_state":
		return Event{Kind: EventLobbyState, Seats: seatList(raw["players"])}
	case "ping":
		return Event{Kind: EventKeepAlive}
	}

	switch raw["status"] {
	case "player_joined":
		return Event{Kind: EventSeatJoined, Seat: seatField(raw["player_id"])}
	case "player_disconnected":
		return Event{Kind: EventSeatLeft, Seat: seatField(raw["player_id"])}
	case "action_failed":
		return Event{Kind: EventActionFailed}
	case "game_over":
		ev := Event{Kind: EventGameOver, Winner: seatField(raw["winner"])}
		ev.Message, _ = raw["message"].(string)
		return ev
	}

	// Legacy start signal: {"game_state": "True"}.
	if _, ok := raw["game_state"]; ok {
		return Event{Kind: EventGameStarted}
	}

	return Event{Kind: EventUnknown}
}

func seatField(v interface{}) int {
	if f, ok := v.(float64); ok {
		return int(f)
	}
	return 0
}

func seatList(v interface{}) []int {
	seats := []int{}
	items, _ := v.([]interface{})
	for _, item := range items {
		if f, ok := item.(float64); ok {
			seats = append(seats, int(f))
		}
	}
	return seats
}

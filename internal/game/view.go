// internal/game/view.go
package game

import (
	"strconv"

	"github.com/sirupsen/logrus"
)

// SelectionKind says what kind of board element is currently selected.
type SelectionKind int

const (
	SelectNone SelectionKind = iota
	SelectTile
	SelectEdge
	SelectVertex
)

// Selection is the board element the local player currently has selected.
type Selection struct {
	Kind  SelectionKind
	Index int
}

// View owns the canonical client-side game model and the short-lived local
// interaction state (picks, selection, chosen trade partner). All mutation
// happens synchronously inside the connection's inbound handler, so methods
// are not safe for concurrent use; renderers should work from Snapshot().
type View struct {
	log *logrus.Logger

	state State

	// Local interaction state. Server snapshots never carry these; they are
	// cleared when the server-declared state that justified them goes away.
	selection    Selection
	discardPicks ResourceSet
	yopPicks     []ResourceKind
	monopolyPick ResourceKind
	tradePartner int
}

// NewView creates a View for a client whose connection-assigned seat is
// fallbackSeat (0 if unknown).
func NewView(log *logrus.Logger, fallbackSeat int) *View {
	if log == nil {
		log = logrus.New()
	}
	return &View{
		log: log,
		state: State{
			SelfID:           fallbackSeat,
			LobbySeats:       []int{},
			Players:          []PlayerSummary{},
			RobberCandidates: []int{},
			PlacementTurn:    -1,
			RobberTile:       -1,
			Board:            BoardOverlay{Tiles: []Tile{}, Edges: []Edge{}, Vertices: []Vertex{}},
			Self:             SelfPanel{DevCards: []string{}, Ports: []string{}},
		},
	}
}

// ApplySnapshot replaces the canonical model from a full server snapshot.
// The previous snapshot is superseded wholesale; nothing is merged.
func (v *View) ApplySnapshot(raw map[string]interface{}) {
	if raw == nil {
		return
	}
	prevForced := v.state.Forced

	n := Normalize(raw)
	selfID := ResolveSelf(raw, v.state.SelfID)

	next := State{
		Phase:         PhaseInGame,
		LobbySeats:    v.state.LobbySeats,
		SelfID:        selfID,
		Players:       n.Players,
		Bank:          n.Bank,
		Board:         n.Board,
		CurrentTurn:   n.CurrentSeat,
		PlacementTurn: n.PlacementSeat,
		Forced:        ParseForcedAction(strField(raw, "forced_action")),
		MustDiscard:   intField(raw, "must_discard"),
		RobberTile:    -1,
		Trade:         projectTrade(raw["pending_trade"]),
	}
	next.RobberCandidates = v.filterCandidates(intList(raw["robber_candidates"]), n.Players)
	if tile, ok := looseInt(raw["pending_robber_tile"]); ok {
		next.RobberTile = tile
	}
	if notice, ok := looseMap(raw["no_partner"]); ok && len(notice) > 0 {
		next.AllDeclined = true
	}

	if players, ok := looseMap(raw["players"]); ok {
		next.Self = ExtractSelfPanel(players[strconv.Itoa(selfID)])
	} else {
		next.Self = v.state.Self
	}

	v.state = next

	// Leaving Year of Plenty invalidates any partially entered picks, so a
	// later activation starts clean.
	if prevForced == ForcedYearOfPlenty && next.Forced != ForcedYearOfPlenty {
		v.yopPicks = nil
	}
	if next.Forced != ForcedMonopoly {
		v.monopolyPick = ""
	}
	// Partner selection only survives while that partner is still accepted.
	if v.tradePartner != 0 && !next.Trade.acceptedBy(v.tradePartner) {
		v.tradePartner = 0
	}

	v.log.WithFields(logrus.Fields{
		"self":    selfID,
		"turn":    next.CurrentTurn,
		"forced":  next.Forced.String(),
		"players": len(next.Players),
	}).Debug("snapshot applied")
}

// ApplyExternalSnapshot injects a snapshot from outside the transport. It is
// the explicit entry point for tests and tooling and behaves exactly like a
// snapshot received on the wire.
func (v *View) ApplyExternalSnapshot(raw map[string]interface{}) {
	v.ApplySnapshot(raw)
}

// filterCandidates drops robber candidates that are not in the roster.
func (v *View) filterCandidates(candidates []int, roster []PlayerSummary) []int {
	present := make(map[int]bool, len(roster))
	for _, p := range roster {
		present[p.ID] = true
	}
	out := []int{}
	for _, id := range candidates {
		if present[id] {
			out = append(out, id)
		}
	}
	return out
}

// ApplyLobbyState replaces the set of connected seats.
func (v *View) ApplyLobbyState(seats []int) {
	v.state.LobbySeats = append([]int{}, seats...)
}

// ApplySeatJoined records a single seat joining the lobby.
func (v *View) ApplySeatJoined(seat int) {
	for _, s := range v.state.LobbySeats {
		if s == seat {
			return
		}
	}
	v.state.LobbySeats = append(v.state.LobbySeats, seat)
}

// ApplySeatLeft records a single seat disconnecting.
func (v *View) ApplySeatLeft(seat int) {
	seats := v.state.LobbySeats[:0]
	for _, s := range v.state.LobbySeats {
		if s != seat {
			seats = append(seats, s)
		}
	}
	v.state.LobbySeats = seats
}

// ApplyGameStarted transitions the local phase; game content arrives with the
// first snapshot.
func (v *View) ApplyGameStarted() {
	v.state.Phase = PhaseInGame
}

// ApplyGameOver records the terminal event. Winner is 0 when the game ended
// without one (e.g. too few players remained).
func (v *View) ApplyGameOver(winner int, message string) {
	v.state.Phase = PhaseOver
	v.state.Winner = winner
	v.state.EndMessage = message
}

// AcknowledgeAllDeclined clears the one-time "all declined" banner after the
// UI has surfaced it.
func (v *View) AcknowledgeAllDeclined() {
	v.state.AllDeclined = false
}

// Snapshot returns a deep copy of the canonical state for rendering.
func (v *View) Snapshot() State {
	s := v.state
	s.LobbySeats = append([]int{}, v.state.LobbySeats...)
	s.Players = append([]PlayerSummary{}, v.state.Players...)
	s.RobberCandidates = append([]int{}, v.state.RobberCandidates...)
	s.Board.Tiles = append([]Tile{}, v.state.Board.Tiles...)
	s.Board.Edges = append([]Edge{}, v.state.Board.Edges...)
	s.Board.Vertices = append([]Vertex{}, v.state.Board.Vertices...)
	s.Self.DevCards = append([]string{}, v.state.Self.DevCards...)
	s.Self.Ports = append([]string{}, v.state.Self.Ports...)
	if v.state.Bank.CurrentRoll != nil {
		roll := *v.state.Bank.CurrentRoll
		s.Bank.CurrentRoll = &roll
	}
	if v.state.Trade != nil {
		t := *v.state.Trade
		t.Awaiting = append([]int{}, v.state.Trade.Awaiting...)
		t.Declined = append([]int{}, v.state.Trade.Declined...)
		t.Accepted = append([]int{}, v.state.Trade.Accepted...)
		s.Trade = &t
	}
	return s
}

// SelfID returns the resolved local seat.
func (v *View) SelfID() int { return v.state.SelfID }

// --- local interaction state ---

// Select records the current board selection.
func (v *View) Select(kind SelectionKind, index int) {
	v.selection = Selection{Kind: kind, Index: index}
}

// ClearSelection drops the current board selection.
func (v *View) ClearSelection() {
	v.selection = Selection{}
}

// Selection returns the current board selection.
func (v *View) Selection() Selection { return v.selection }

// SetDiscardPick sets how many units of one resource are staged for discard.
func (v *View) SetDiscardPick(kind ResourceKind, n int) {
	if n < 0 {
		n = 0
	}
	v.discardPicks.Set(kind, n)
}

// DiscardPicks returns the staged discard bundle.
func (v *View) DiscardPicks() ResourceSet { return v.discardPicks }

// ClearDiscardPicks resets the staged discard bundle.
func (v *View) ClearDiscardPicks() {
	v.discardPicks = ResourceSet{}
}

// AddYearOfPlentyPick stages one resource unit for the Year of Plenty flow.
// Duplicates are allowed; picks beyond two are ignored.
func (v *View) AddYearOfPlentyPick(kind ResourceKind) {
	if len(v.yopPicks) >= 2 {
		return
	}
	v.yopPicks = append(v.yopPicks, kind)
}

// YearOfPlentyPicks returns the staged Year of Plenty picks.
func (v *View) YearOfPlentyPicks() []ResourceKind {
	return append([]ResourceKind{}, v.yopPicks...)
}

// ClearYearOfPlentyPicks resets the staged Year of Plenty picks.
func (v *View) ClearYearOfPlentyPicks() {
	v.yopPicks = nil
}

// SetMonopolyPick stages the resource to monopolize.
func (v *View) SetMonopolyPick(kind ResourceKind) {
	v.monopolyPick = kind
}

// MonopolyPick returns the staged monopoly resource, "" when unset.
func (v *View) MonopolyPick() ResourceKind { return v.monopolyPick }

// SelectTradePartner records which accepting partner the proposer intends to
// confirm with. Selecting a seat that has not accepted is a no-op.
func (v *View) SelectTradePartner(id int) {
	if v.state.Trade.acceptedBy(id) {
		v.tradePartner = id
	}
}

// TradePartner returns the locally selected partner, 0 when none.
func (v *View) TradePartner() int { return v.tradePartner }

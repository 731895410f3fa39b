// internal/game/normalize.go
//
// Snapshot normalization: converts the server's loosely-typed snapshot
// payloads into the canonical model. Inputs are untrusted and have drifted
// across server revisions (flat vs nested resource fields, array vs count-map
// development cards, JSON-encoded string sub-objects), so every accessor here
// defaults instead of failing. Nothing in this file may panic on any input.
package game

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Normalized is the pure output of Normalize: board overlay, sorted roster
// and bank. CurrentSeat is the highlighted seat (0 = none) resolved with the
// placement-order-over-current-turn precedence.
type Normalized struct {
	Board       BoardOverlay
	Players     []PlayerSummary
	Bank        BankState
	CurrentSeat int
	// PlacementSeat is the raw initial-placement-order value, -1 when the
	// field is absent or carries the end-of-phase sentinel.
	PlacementSeat int
}

// Normalize converts an arbitrary snapshot payload into a Normalized view.
// It never returns partially populated output: absent sub-objects become
// zero-valued/empty, never nil-for-missing fields.
func Normalize(raw map[string]interface{}) Normalized {
	n := Normalized{
		Board:         normalizeBoard(raw["board"]),
		Bank:          normalizeBank(raw),
		PlacementSeat: -1,
	}

	// Current-turn precedence: the initial-placement phase uses its own turn
	// order field; -1 is the "phase over" sentinel.
	if v, ok := looseInt(raw["initial_placement_order"]); ok && v != -1 {
		n.CurrentSeat = v
		n.PlacementSeat = v
	} else if v, ok := looseInt(raw["current_turn"]); ok {
		n.CurrentSeat = v
	}

	n.Players = normalizeRoster(raw["players"], n.CurrentSeat)
	return n
}

// normalizeRoster maps every entry of the players mapping to a PlayerSummary,
// sorted by ascending numeric seat id.
func normalizeRoster(v interface{}, currentSeat int) []PlayerSummary {
	players, ok := looseMap(v)
	if !ok {
		return []PlayerSummary{}
	}

	ids := make([]int, 0, len(players))
	byID := make(map[int]interface{}, len(players))
	for key, entry := range players {
		id, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			continue
		}
		ids = append(ids, id)
		byID[id] = entry
	}
	sort.Ints(ids)

	roster := make([]PlayerSummary, 0, len(ids))
	for _, id := range ids {
		roster = append(roster, normalizePlayer(id, byID[id], currentSeat))
	}
	return roster
}

func normalizePlayer(id int, v interface{}, currentSeat int) PlayerSummary {
	p := PlayerSummary{
		ID:            id,
		Name:          fmt.Sprintf("Player %d", id),
		Color:         seatColors[((id-1)%len(seatColors)+len(seatColors))%len(seatColors)],
		IsCurrentTurn: id == currentSeat,
	}

	entry, ok := looseMap(v)
	if !ok {
		return p
	}

	p.VictoryPoints = intField(entry, "victory_points")
	p.PlayedKnights = intField(entry, "played_knights")
	p.LongestRoadLength = intField(entry, "longest_road_length")
	p.HasLargestArmy = boolField(entry, "largest_army")
	p.HasLongestRoad = boolField(entry, "longest_road")

	p.SettlementsBuilt = builtCount(entry, "settlements", settlementAllotment)
	p.CitiesBuilt = builtCount(entry, "cities", cityAllotment)
	p.RoadsBuilt = builtCount(entry, "roads", roadAllotment)

	// Public entries carry aggregate counts; the private entry carries the
	// real hand and dev-card structures instead.
	if v, ok := looseInt(entry["total_hand"]); ok {
		p.HandSize = v
	} else {
		p.HandSize = extractResources(entry).Total()
	}
	if v, ok := looseInt(entry["total_development_cards"]); ok {
		p.DevCardCount = v
	} else {
		p.DevCardCount = len(extractDevCards(entry))
	}

	return p
}

// builtCount converts the server's pieces-remaining counter into pieces
// built, clamped to the allotment. An absent counter means zero built; a
// missing field must never inflate a public stat.
func builtCount(entry map[string]interface{}, field string, allotment int) int {
	remaining, ok := looseInt(entry[field])
	if !ok {
		return 0
	}
	built := allotment - remaining
	if built < 0 {
		return 0
	}
	if built > allotment {
		return allotment
	}
	return built
}

func normalizeBank(raw map[string]interface{}) BankState {
	b := BankState{}
	if bank, ok := looseMap(raw["bank"]); ok {
		for _, kind := range ResourceKinds {
			b.Resources.Set(kind, resourceField(bank, kind))
		}
	}
	b.DevCardsRemaining = intField(raw, "development_cards_remaining")
	if v, ok := looseInt(raw["current_roll"]); ok {
		b.CurrentRoll = &v
	}
	return b
}

func normalizeBoard(v interface{}) BoardOverlay {
	overlay := BoardOverlay{
		Tiles:    []Tile{},
		Edges:    []Edge{},
		Vertices: []Vertex{},
	}
	board, ok := looseMap(v)
	if !ok {
		return overlay
	}

	for _, tv := range looseSlice(board["tiles"]) {
		t := Tile{}
		if tile, ok := looseMap(tv); ok {
			t.Resource = strField(tile, "resource")
			t.Number = intField(tile, "number")
			t.HasRobber = boolField(tile, "robber") || boolField(tile, "has_robber")
		}
		overlay.Tiles = append(overlay.Tiles, t)
	}

	for _, ev := range looseSlice(board["edges"]) {
		e := Edge{}
		if edge, ok := looseMap(ev); ok {
			e.Owner = ownerField(edge)
		}
		overlay.Edges = append(overlay.Edges, e)
	}

	for _, vv := range looseSlice(board["vertices"]) {
		vx := Vertex{}
		if vertex, ok := looseMap(vv); ok {
			vx.Building = strings.ToLower(strField(vertex, "building"))
			vx.Owner = ownerField(vertex)
			vx.Port = strField(vertex, "port")
		}
		overlay.Vertices = append(overlay.Vertices, vx)
	}

	return overlay
}

// ownerField reads the owning seat under either of the names the server has
// used for it. 0 means unowned.
func ownerField(m map[string]interface{}) int {
	if v, ok := looseInt(m["player"]); ok {
		return v
	}
	if v, ok := looseInt(m["owner"]); ok {
		return v
	}
	return 0
}

// --- loose decoding helpers ---

// decodeLoose unwraps a value that may arrive as a JSON-encoded string. A
// string that fails to decode is returned unchanged.
func decodeLoose(v interface{}) interface{} {
	s, ok := v.(string)
	if !ok {
		return v
	}
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return v
	}
	var decoded interface{}
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return v
	}
	return decoded
}

// looseMap interprets a value as a JSON object, decoding string-wrapped
// objects first.
func looseMap(v interface{}) (map[string]interface{}, bool) {
	m, ok := decodeLoose(v).(map[string]interface{})
	return m, ok
}

// looseSlice interprets a value as a JSON array; anything else yields nil.
func looseSlice(v interface{}) []interface{} {
	s, _ := decodeLoose(v).([]interface{})
	return s
}

// looseInt interprets numbers, numeric strings and bools-as-absent. The
// second return reports whether a usable number was present.
func looseInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func intField(m map[string]interface{}, key string) int {
	v, _ := looseInt(m[key])
	return v
}

func boolField(m map[string]interface{}, key string) bool {
	switch b := m[key].(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true")
	case float64:
		return b != 0
	}
	return false
}

func strField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

// resourceField reads a per-resource counter accepting both lower-case and
// capitalized field names.
func resourceField(m map[string]interface{}, kind ResourceKind) int {
	if v, ok := looseInt(m[string(kind)]); ok {
		return v
	}
	if v, ok := looseInt(m[titleCase(string(kind))]); ok {
		return v
	}
	return 0
}

// titleCase upper-cases the first letter of each underscore- or
// space-separated word: "road_building" -> "Road Building".
func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// intList reads a list of seat ids, skipping non-numeric entries.
func intList(v interface{}) []int {
	out := []int{}
	for _, item := range looseSlice(v) {
		if n, ok := looseInt(item); ok {
			out = append(out, n)
		}
	}
	return out
}

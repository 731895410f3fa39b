// internal/game/identity.go
package game

import (
	"sort"
	"strconv"
	"strings"
)

// DefaultSeat is the seat assumed when neither the payload nor the caller
// can say which seat the client controls.
const DefaultSeat = 1

// selfHintFields are the explicit identity assertions some server revisions
// attach to a snapshot, in consultation order.
var selfHintFields = []string{"player_id", "self_id", "you"}

// ResolveSelf determines which seat the client should treat as itself, given
// a raw snapshot payload and the last known (or connection-assigned) seat id.
//
// Not every server revision labels the private roster entry, so resolution is
// heuristic, first match wins:
//  1. the first roster entry whose shape looks private (it exposes a hand
//     structure, flat resource fields or a development-card list/count map);
//  2. an explicit identity hint on the snapshot itself;
//  3. the fallback seat, or DefaultSeat when even that is unset.
func ResolveSelf(raw map[string]interface{}, fallback int) int {
	if players, ok := looseMap(raw["players"]); ok {
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
		for _, id := range ids {
			if isSelfShaped(byID[id]) {
				return id
			}
		}
	}

	for _, field := range selfHintFields {
		if v, ok := looseInt(raw[field]); ok {
			return v
		}
	}

	if fallback > 0 {
		return fallback
	}
	return DefaultSeat
}

// isSelfShaped reports whether a roster entry carries private state. Public
// entries expose only counters and booleans and must not match.
func isSelfShaped(v interface{}) bool {
	entry, ok := looseMap(v)
	if !ok {
		return false
	}

	if _, ok := looseMap(entry["hand"]); ok {
		return true
	}
	for _, kind := range ResourceKinds {
		if _, present := entry[string(kind)]; present {
			if _, ok := looseInt(entry[string(kind)]); ok {
				return true
			}
		}
		if _, present := entry[titleCase(string(kind))]; present {
			if _, ok := looseInt(entry[titleCase(string(kind))]); ok {
				return true
			}
		}
	}
	if dc := decodeLoose(entry["development_cards"]); dc != nil {
		switch dc.(type) {
		case []interface{}, map[string]interface{}:
			return true
		}
	}
	return false
}

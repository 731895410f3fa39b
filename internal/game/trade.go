// internal/game/trade.go
package game

// projectTrade converts a snapshot's pending_trade field into a PendingTrade,
// or nil when no trade is open. Trade state is entirely server-asserted; this
// is a pure projection with no local transitions.
func projectTrade(v interface{}) *PendingTrade {
	raw, ok := looseMap(v)
	if !ok {
		return nil
	}

	t := &PendingTrade{
		ProposerID: intField(raw, "trader_id"),
		Awaiting:   []int{},
		Declined:   []int{},
		Accepted:   []int{},
	}
	if offer, ok := looseMap(raw["offer"]); ok {
		for _, kind := range ResourceKinds {
			t.Offer.Set(kind, resourceField(offer, kind))
		}
	}
	if request, ok := looseMap(raw["request"]); ok {
		for _, kind := range ResourceKinds {
			t.Request.Set(kind, resourceField(request, kind))
		}
	}

	// A seat may appear in at most one bucket; on a contradictory payload the
	// first bucket in awaiting > declined > accepted order wins.
	seen := map[int]bool{}
	for _, id := range intList(raw["awaiting"]) {
		if !seen[id] {
			seen[id] = true
			t.Awaiting = append(t.Awaiting, id)
		}
	}
	for _, id := range intList(raw["declined"]) {
		if !seen[id] {
			seen[id] = true
			t.Declined = append(t.Declined, id)
		}
	}
	for _, id := range intList(raw["accepted_by"]) {
		if !seen[id] {
			seen[id] = true
			t.Accepted = append(t.Accepted, id)
		}
	}
	return t
}

// acceptedBy reports whether the given seat is in the accepted bucket.
func (t *PendingTrade) acceptedBy(id int) bool {
	if t == nil {
		return false
	}
	for _, a := range t.Accepted {
		if a == id {
			return true
		}
	}
	return false
}

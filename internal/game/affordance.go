// internal/game/affordance.go
//
// Action affordances. The client never decides legality itself; these
// predicates only mirror server-declared state so the UI can enable and
// label actions. The server remains free to reject anything sent.
package game

// BuildLabelSelect is shown when nothing on the board is selected.
const BuildLabelSelect = "Select a tile, edge or vertex"

func (v *View) isMyTurn() bool {
	return v.state.SelfID != 0 && v.state.CurrentTurn == v.state.SelfID
}

func (v *View) rolledThisTurn() bool {
	return v.state.Bank.CurrentRoll != nil
}

// CanRollDice reports whether the roll action is enabled: the local seat's
// turn, no roll yet this turn and no forced action pending.
func (v *View) CanRollDice() bool {
	return v.isMyTurn() && !v.rolledThisTurn() && v.state.Forced == ForcedNone
}

// CanEndTurn reports whether ending the turn is enabled: the local seat's
// turn, a roll has occurred and no forced action is pending.
func (v *View) CanEndTurn() bool {
	return v.isMyTurn() && v.rolledThisTurn() && v.state.Forced == ForcedNone
}

// CanBuyDevelopmentCard reports whether buying a development card is enabled.
func (v *View) CanBuyDevelopmentCard() bool {
	return v.isMyTurn() && v.rolledThisTurn() && v.state.Forced == ForcedNone
}

// CanPlayDevelopmentCard reports whether playing the named card is enabled.
// The victory-point entry is never playable.
func (v *View) CanPlayDevelopmentCard(card string) bool {
	if card == VictoryPointCard {
		return false
	}
	if !v.isMyTurn() || v.state.Forced != ForcedNone {
		return false
	}
	for _, c := range v.state.Self.DevCards {
		if c == card {
			return true
		}
	}
	return false
}

// BuildAction resolves the single contextual build button from the current
// selection, forced-action state and board occupancy. It returns the label
// to show and whether the action is enabled.
func (v *View) BuildAction() (string, bool) {
	sel := v.selection
	forced := v.state.Forced

	switch sel.Kind {
	case SelectTile:
		if sel.Index < 0 || sel.Index >= len(v.state.Board.Tiles) {
			return BuildLabelSelect, false
		}
		return "Move Robber", forced == ForcedMoveRobber

	case SelectEdge:
		if sel.Index < 0 || sel.Index >= len(v.state.Board.Edges) {
			return BuildLabelSelect, false
		}
		if v.state.Board.Edges[sel.Index].Owner != 0 {
			return "Build Road", false
		}
		freeRoad := forced == ForcedPlaceRoad1 || forced == ForcedPlaceRoad2
		return "Build Road", forced == ForcedNone || freeRoad

	case SelectVertex:
		if sel.Index < 0 || sel.Index >= len(v.state.Board.Vertices) {
			return BuildLabelSelect, false
		}
		vx := v.state.Board.Vertices[sel.Index]
		if vx.Building == BuildingSettlement && vx.Owner == v.state.SelfID {
			return "Build City", forced == ForcedNone
		}
		if vx.Building == "" && vx.Owner == 0 {
			return "Build Settlement", forced == ForcedNone
		}
		return "Build Settlement", false
	}

	return BuildLabelSelect, false
}

// CanSubmitDiscard reports whether the staged discard is submittable: the
// forced action is Discard, the owed count is positive and the staged total
// equals it exactly.
func (v *View) CanSubmitDiscard() bool {
	return v.state.Forced == ForcedDiscard &&
		v.state.MustDiscard > 0 &&
		v.discardPicks.Total() == v.state.MustDiscard
}

// CanSubmitYearOfPlenty reports whether the Year of Plenty pick is
// submittable: exactly two units staged (duplicates permitted).
func (v *View) CanSubmitYearOfPlenty() bool {
	return v.state.Forced == ForcedYearOfPlenty && len(v.yopPicks) == 2
}

// CanSubmitMonopoly reports whether the monopoly pick is submittable.
func (v *View) CanSubmitMonopoly() bool {
	return v.state.Forced == ForcedMonopoly && v.monopolyPick != ""
}

// StealTargets returns the seats eligible to be robbed. Candidates outside
// the roster have already been filtered at snapshot time.
func (v *View) StealTargets() []int {
	if v.state.Forced != ForcedStealResource {
		return []int{}
	}
	return append([]int{}, v.state.RobberCandidates...)
}

// CanProposeTrade reports whether a new player trade proposal is enabled.
func (v *View) CanProposeTrade() bool {
	return v.isMyTurn() && v.rolledThisTurn() &&
		v.state.Forced == ForcedNone && v.state.Trade == nil
}

// CanBankTrade reports whether trading with the bank is enabled.
func (v *View) CanBankTrade() bool {
	return v.isMyTurn() && v.rolledThisTurn() && v.state.Forced == ForcedNone
}

// IsTradeProposer reports whether the local seat proposed the open trade.
func (v *View) IsTradeProposer() bool {
	return v.state.Trade != nil && v.state.Trade.ProposerID == v.state.SelfID
}

// CanRespondToTrade reports whether the accept/decline prompt applies: a
// trade is open and the local seat is not the proposer. Responses are
// commands only; the next snapshot is authoritative for their effect.
func (v *View) CanRespondToTrade() bool {
	return v.state.Trade != nil && !v.IsTradeProposer()
}

// CanConfirmTrade reports whether the proposer may confirm: at least one
// recipient has accepted and a still-accepting partner is locally selected.
func (v *View) CanConfirmTrade() bool {
	if !v.IsTradeProposer() || len(v.state.Trade.Accepted) == 0 {
		return false
	}
	return v.tradePartner != 0 && v.state.Trade.acceptedBy(v.tradePartner)
}

// CanCancelTrade reports whether the proposer may withdraw the open trade.
func (v *View) CanCancelTrade() bool {
	return v.IsTradeProposer()
}

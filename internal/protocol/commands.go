// internal/protocol/commands.go
//
// Outbound command constructors. Commands are simple tagged objects forwarded
// verbatim to the transport; the "type" strings are the server's action
// vocabulary and must not be altered.
package protocol

import "settlersync/internal/game"

// Command is one outbound intent, marshaled as-is onto the wire.
type Command map[string]interface{}

// Type returns the command's wire tag.
func (c Command) Type() string {
	t, _ := c["type"].(string)
	return t
}

// RollDice requests the current turn's dice roll.
func RollDice() Command {
	return Command{"type": "roll_dice"}
}

// EndTurn passes the turn to the next seat.
func EndTurn() Command {
	return Command{"type": "end_turn"}
}

// BuyDevelopmentCard purchases one development card.
func BuyDevelopmentCard() Command {
	return Command{"type": "buy_development_card"}
}

// PlaceRoad builds a road on the given edge index.
func PlaceRoad(edge int) Command {
	return Command{"type": "place_road", "edge_id": edge}
}

// PlaceSettlement builds a settlement on the given vertex index.
func PlaceSettlement(vertex int) Command {
	return Command{"type": "place_settlement", "vertex_id": vertex}
}

// PlaceCity upgrades the settlement on the given vertex index.
func PlaceCity(vertex int) Command {
	return Command{"type": "place_city", "vertex_id": vertex}
}

// MoveRobber places the robber on the given tile index.
func MoveRobber(tile int) Command {
	return Command{"type": "move_robber", "target_tile": tile}
}

// StealResource robs one resource from the chosen victim seat.
func StealResource(victim int) Command {
	return Command{"type": "robber_steal", "victim_id": victim}
}

// PlayKnightCard plays a knight development card.
func PlayKnightCard() Command {
	return Command{"type": "play_knight_card"}
}

// PlayRoadBuildingCard plays a road-building development card.
func PlayRoadBuildingCard() Command {
	return Command{"type": "play_road_building_card"}
}

// PlayYearOfPlentyCard plays a year-of-plenty development card.
func PlayYearOfPlentyCard() Command {
	return Command{"type": "play_year_of_plenty_card"}
}

// PlayMonopolyCard plays a monopoly development card.
func PlayMonopolyCard() Command {
	return Command{"type": "play_monopoly_card"}
}

// SubmitDiscard sends the exact resource bundle owed to the discard.
func SubmitDiscard(resources game.ResourceSet) Command {
	return Command{"type": "discard_resources", "resources": resources}
}

// SubmitYearOfPlenty sends the two chosen resource kinds as a flat list.
func SubmitYearOfPlenty(picks []game.ResourceKind) Command {
	list := make([]string, 0, len(picks))
	for _, p := range picks {
		list = append(list, string(p))
	}
	return Command{"type": "Year of Plenty", "resources": list}
}

// SubmitMonopoly names the resource to monopolize.
func SubmitMonopoly(kind game.ResourceKind) Command {
	return Command{"type": "Monopoly", "resource": string(kind)}
}

// BankTrade trades the offer bundle against the request bundle with the bank.
func BankTrade(offer, request game.ResourceSet) Command {
	return Command{"type": "bank_trade", "offer": offer, "request": request}
}

// ProposeTrade opens a trade proposal to all other seats.
func ProposeTrade(offer, request game.ResourceSet) Command {
	return Command{"type": "propose_trade", "offer": offer, "request": request}
}

// AcceptTrade accepts the open trade proposal.
func AcceptTrade() Command {
	return Command{"type": "accept_trade"}
}

// DeclineTrade declines the open trade proposal.
func DeclineTrade() Command {
	return Command{"type": "decline_trade"}
}

// ConfirmTrade completes the open trade with the selected partner seat.
func ConfirmTrade(partner int) Command {
	return Command{"type": "confirm_trade", "target": partner}
}

// EndTrade withdraws the open trade proposal.
func EndTrade() Command {
	return Command{"type": "end_trade"}
}

// internal/protocol/commands_test.go
package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settlersync/internal/game"
)

func marshalTo(t *testing.T, cmd Command) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(cmd)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestSimpleCommandTags(t *testing.T) {
	assert.Equal(t, "roll_dice", RollDice().Type())
	assert.Equal(t, "end_turn", EndTurn().Type())
	assert.Equal(t, "buy_development_card", BuyDevelopmentCard().Type())
	assert.Equal(t, "play_knight_card", PlayKnightCard().Type())
	assert.Equal(t, "accept_trade", AcceptTrade().Type())
	assert.Equal(t, "decline_trade", DeclineTrade().Type())
	assert.Equal(t, "end_trade", EndTrade().Type())
}

func TestPlacementCommandsCarryTargetIndex(t *testing.T) {
	road := marshalTo(t, PlaceRoad(17))
	assert.Equal(t, "place_road", road["type"])
	assert.Equal(t, 17.0, road["edge_id"])

	city := marshalTo(t, PlaceCity(5))
	assert.Equal(t, "place_city", city["type"])
	assert.Equal(t, 5.0, city["vertex_id"])

	robber := marshalTo(t, MoveRobber(9))
	assert.Equal(t, 9.0, robber["target_tile"])

	steal := marshalTo(t, StealResource(3))
	assert.Equal(t, "robber_steal", steal["type"])
	assert.Equal(t, 3.0, steal["victim_id"])
}

func TestSubmitDiscardCarriesFlatBundle(t *testing.T) {
	out := marshalTo(t, SubmitDiscard(game.ResourceSet{Wood: 1, Brick: 2}))
	assert.Equal(t, "discard_resources", out["type"])
	resources, ok := out["resources"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 1.0, resources["wood"])
	assert.Equal(t, 2.0, resources["brick"])
	assert.Equal(t, 0.0, resources["ore"], "untouched counters are explicit zeroes")
}

func TestCardEffectCommandsUseLegacyTags(t *testing.T) {
	yop := marshalTo(t, SubmitYearOfPlenty([]game.ResourceKind{game.Ore, game.Ore}))
	assert.Equal(t, "Year of Plenty", yop["type"])
	assert.Equal(t, []interface{}{"ore", "ore"}, yop["resources"])

	mono := marshalTo(t, SubmitMonopoly(game.Sheep))
	assert.Equal(t, "Monopoly", mono["type"])
	assert.Equal(t, "sheep", mono["resource"])
}

func TestTradeCommands(t *testing.T) {
	offer := game.ResourceSet{Wood: 2}
	request := game.ResourceSet{Ore: 1}

	propose := marshalTo(t, ProposeTrade(offer, request))
	assert.Equal(t, "propose_trade", propose["type"])
	offerOut := propose["offer"].(map[string]interface{})
	assert.Equal(t, 2.0, offerOut["wood"])

	confirm := marshalTo(t, ConfirmTrade(3))
	assert.Equal(t, "confirm_trade", confirm["type"])
	assert.Equal(t, 3.0, confirm["target"])

	bank := marshalTo(t, BankTrade(offer, request))
	assert.Equal(t, "bank_trade", bank["type"])
	requestOut := bank["request"].(map[string]interface{})
	assert.Equal(t, 1.0, requestOut["ore"])
}

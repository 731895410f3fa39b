// internal/game/model.go
package game

// ResourceKind identifies one of the five tradeable resources. Values match
// the wire encoding used by the server ("wood", "brick", ...).
type ResourceKind string

const (
	Wood  ResourceKind = "wood"
	Brick ResourceKind = "brick"
	Sheep ResourceKind = "sheep"
	Wheat ResourceKind = "wheat"
	Ore   ResourceKind = "ore"
)

// ResourceKinds lists all resources in canonical order.
var ResourceKinds = []ResourceKind{Wood, Brick, Sheep, Wheat, Ore}

// ResourceSet is a bundle of resource counts. It marshals to the flat
// {"wood":n,"brick":n,...} object the server expects in commands.
type ResourceSet struct {
	Wood  int `json:"wood"`
	Brick int `json:"brick"`
	Sheep int `json:"sheep"`
	Wheat int `json:"wheat"`
	Ore   int `json:"ore"`
}

// Get returns the count for a single resource kind.
func (r ResourceSet) Get(kind ResourceKind) int {
	switch kind {
	case Wood:
		return r.Wood
	case Brick:
		return r.Brick
	case Sheep:
		return r.Sheep
	case Wheat:
		return r.Wheat
	case Ore:
		return r.Ore
	}
	return 0
}

// Set assigns the count for a single resource kind. Unknown kinds are ignored.
func (r *ResourceSet) Set(kind ResourceKind, n int) {
	switch kind {
	case Wood:
		r.Wood = n
	case Brick:
		r.Brick = n
	case Sheep:
		r.Sheep = n
	case Wheat:
		r.Wheat = n
	case Ore:
		r.Ore = n
	}
}

// Add increments the count for a single resource kind.
func (r *ResourceSet) Add(kind ResourceKind, n int) {
	r.Set(kind, r.Get(kind)+n)
}

// Total returns the number of resource units in the bundle.
func (r ResourceSet) Total() int {
	return r.Wood + r.Brick + r.Sheep + r.Wheat + r.Ore
}

// Development card labels as presented in the self panel. The VictoryPointCard
// entry is distinguished: it is never playable.
const (
	KnightCard       = "Knight"
	RoadBuildingCard = "Road Building"
	YearOfPlentyCard = "Year of Plenty"
	MonopolyCard     = "Monopoly"
	VictoryPointCard = "Victory Point"
)

// devCardOrder fixes the expansion order when a count-map shaped hand is
// flattened into individual card entries.
var devCardOrder = []string{KnightCard, RoadBuildingCard, YearOfPlentyCard, MonopolyCard, VictoryPointCard}

// Piece allotments each player starts with. The server reports pieces
// remaining; summaries expose pieces built.
const (
	settlementAllotment = 5
	cityAllotment       = 4
	roadAllotment       = 15
)

// seatColors assigns a display color per seat. The server carries no color;
// the palette is fixed client-side, indexed by (seat-1) mod len.
var seatColors = []string{"red", "blue", "white", "orange"}

// PlayerSummary is the public roster view of one seat. It is recreated
// wholesale from every snapshot and never mutated in place.
type PlayerSummary struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`

	VictoryPoints     int `json:"victoryPoints"`
	SettlementsBuilt  int `json:"settlementsBuilt"`
	CitiesBuilt       int `json:"citiesBuilt"`
	RoadsBuilt        int `json:"roadsBuilt"`
	HandSize          int `json:"handSize"`
	DevCardCount      int `json:"devCardCount"`
	PlayedKnights     int `json:"playedKnights"`
	LongestRoadLength int `json:"longestRoadLength"`

	HasLargestArmy bool `json:"hasLargestArmy"`
	HasLongestRoad bool `json:"hasLongestRoad"`
	IsCurrentTurn  bool `json:"isCurrentTurn"`
}

// BankState mirrors the shared resource and development-card pool. CurrentRoll
// is nil until the current turn's dice roll arrives.
type BankState struct {
	Resources         ResourceSet `json:"resources"`
	DevCardsRemaining int         `json:"devCardsRemaining"`
	CurrentRoll       *int        `json:"currentRoll"`
}

// Tile is one board hex: its resource kind, number token and robber flag.
type Tile struct {
	Resource  string `json:"resource"`
	Number    int    `json:"number"`
	HasRobber bool   `json:"hasRobber"`
}

// Edge is one board edge. Owner is the seat id of the road owner, 0 if empty.
type Edge struct {
	Owner int `json:"owner"`
}

// Vertex is one board vertex. Building is "" (empty), "settlement" or "city";
// Owner is 0 when unoccupied; Port is "" when the vertex has no harbor.
type Vertex struct {
	Building string `json:"building"`
	Owner    int    `json:"owner"`
	Port     string `json:"port"`
}

// Building kinds used in Vertex.Building.
const (
	BuildingSettlement = "settlement"
	BuildingCity       = "city"
)

// BoardOverlay is the index-addressed board state. Array position equals
// board position; the client never computes geometry.
type BoardOverlay struct {
	Tiles    []Tile   `json:"tiles"`
	Edges    []Edge   `json:"edges"`
	Vertices []Vertex `json:"vertices"`
}

// SelfPanel is the private view of the locally controlled seat: the exact
// hand, one entry per physical development card (duplicates repeated), and
// owned port kinds. Rebuilt from scratch on every snapshot with a roster.
type SelfPanel struct {
	Hand     ResourceSet `json:"hand"`
	DevCards []string    `json:"devCards"`
	Ports    []string    `json:"ports"`
}

// ForcedAction is the single active extra-turn obligation, entirely
// server-declared. At most one is active at a time.
type ForcedAction int

const (
	ForcedNone ForcedAction = iota
	ForcedDiscard
	ForcedMoveRobber
	ForcedStealResource
	ForcedYearOfPlenty
	ForcedMonopoly
	ForcedPlaceRoad1
	ForcedPlaceRoad2
	ForcedTradePending
)

// forcedLabels maps wire labels to ForcedAction values.
var forcedLabels = map[string]ForcedAction{
	"Discard":        ForcedDiscard,
	"Move Robber":    ForcedMoveRobber,
	"Steal Resource": ForcedStealResource,
	"Year of Plenty": ForcedYearOfPlenty,
	"Monopoly":       ForcedMonopoly,
	"Place Road 1":   ForcedPlaceRoad1,
	"Place Road 2":   ForcedPlaceRoad2,
	"Trade Pending":  ForcedTradePending,
}

// ParseForcedAction converts a server forced-action label into a ForcedAction.
// Unknown or empty labels yield ForcedNone.
func ParseForcedAction(label string) ForcedAction {
	if fa, ok := forcedLabels[label]; ok {
		return fa
	}
	return ForcedNone
}

func (f ForcedAction) String() string {
	for label, fa := range forcedLabels {
		if fa == f {
			return label
		}
	}
	return "None"
}

// PendingTrade mirrors the server's open trade proposal. A seat id appears in
// at most one of Awaiting, Declined and Accepted.
type PendingTrade struct {
	ProposerID int         `json:"proposerId"`
	Offer      ResourceSet `json:"offer"`
	Request    ResourceSet `json:"request"`
	Awaiting   []int       `json:"awaiting"`
	Declined   []int       `json:"declined"`
	Accepted   []int       `json:"accepted"`
}

// Phase tracks the coarse session phase, driven by lobby/start/terminal
// messages rather than snapshots.
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseInGame
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhaseInGame:
		return "in_game"
	case PhaseOver:
		return "over"
	}
	return "lobby"
}

// State is the full canonical client-side model, replaced atomically per
// inbound snapshot. Renderers read copies; only the connection's message
// handler mutates it.
type State struct {
	Phase      Phase  `json:"phase"`
	LobbySeats []int  `json:"lobbySeats"`
	Winner     int    `json:"winner"`
	EndMessage string `json:"endMessage"`

	SelfID  int             `json:"selfId"`
	Players []PlayerSummary `json:"players"`
	Bank    BankState       `json:"bank"`
	Board   BoardOverlay    `json:"board"`
	Self    SelfPanel       `json:"self"`

	// CurrentTurn is the highlighted seat, 0 when none. PlacementTurn carries
	// the raw initial-placement-order value, -1 once normal play has begun.
	CurrentTurn   int `json:"currentTurn"`
	PlacementTurn int `json:"placementTurn"`

	Forced           ForcedAction `json:"forced"`
	MustDiscard      int          `json:"mustDiscard"`
	RobberCandidates []int        `json:"robberCandidates"`
	RobberTile       int          `json:"robberTile"` // -1 while no steal is pending

	Trade *PendingTrade `json:"trade"`
	// AllDeclined is the one-time "every recipient declined" notice.
	AllDeclined bool `json:"allDeclined"`
}

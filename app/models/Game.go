package models

// Game is a lobby record in postgres.
type Game struct {
	Id     string
	Name   string
	Status string
	Type   string
}

const (
	GameStatusOpen       = "false"
	GameStatusInProgress = "in progress"
)

type GameCreateDto struct {
	Name string
	Type string
}

type VerifyGameDto struct {
	Code    string
	User_id string
}

// CommandDto is a command submitted over HTTP; the game and the actor come from the path and the token.
type CommandDto struct {
	Name string        `json:"name"`
	Args []interface{} `json:"args"`
}

type BotDto struct {
	Difficulty Difficulty `json:"difficulty"`
}

// Phase is the top-level state of a session.
type Phase string

const (
	PhaseSetup                   Phase = "setup"
	PhaseRolling                 Phase = "rolling"
	PhaseResolvingSpace          Phase = "resolving_space"
	PhaseAwaitingBuyDecision     Phase = "awaiting_buy_decision"
	PhaseJailDecision            Phase = "jail_decision"
	PhaseAuction                 Phase = "auction"
	PhaseTrading                 Phase = "trading"
	PhaseAwaitingTaxDecision     Phase = "awaiting_tax_decision"
	PhaseAwaitingRentNegotiation Phase = "awaiting_rent_negotiation"
	PhaseAwaitingBankruptcy      Phase = "awaiting_bankruptcy_decision"
	PhaseAwaitingDebtService     Phase = "awaiting_debt_service"
	PhaseAwaitingForeclosure     Phase = "awaiting_foreclosure_decision"
	PhaseGameOver                Phase = "game_over"
)

// DiceRoll is the last roll of the current player.
type DiceRoll struct {
	Die1 int `json:"die1"`
	Die2 int `json:"die2"`
}

// Total is the sum of both dice.
func (d DiceRoll) Total() int {
	return d.Die1 + d.Die2
}

// Doubles reports whether both dice match.
func (d DiceRoll) Doubles() bool {
	return d.Die1 == d.Die2
}

// TurnState tracks progress inside the current player's turn.
type TurnState struct {
	HasRolled    bool `json:"hasRolled"`
	DoublesCount int  `json:"doublesCount"`
	// TurnNumber counts every endTurn since the session started.
	TurnNumber int `json:"turnNumber"`
}

// GameState is the authoritative state of one session.
type GameState struct {
	ID                     string           `json:"id"`
	Players                []*Player        `json:"players"`
	Spaces                 []*Space         `json:"spaces"`
	Phase                  Phase            `json:"phase"`
	CurrentPlayerIndex     int              `json:"currentPlayerIndex"`
	DiceRoll               *DiceRoll        `json:"diceRoll,omitempty"`
	Turn                   TurnState        `json:"turn"`
	Auction                *Auction         `json:"auction,omitempty"`
	Trade                  *Trade           `json:"trade,omitempty"`
	PendingRentNegotiation *RentNegotiation `json:"pendingRentNegotiation,omitempty"`
	PendingBankruptcy      *Bankruptcy      `json:"pendingBankruptcy,omitempty"`
	PendingForeclosure     *Foreclosure     `json:"pendingForeclosure,omitempty"`
	PendingDebtService     *DebtService     `json:"pendingDebtService,omitempty"`
	AwaitingTaxDecision    *TaxDecision     `json:"awaitingTaxDecision,omitempty"`
	Settings               GameSettings     `json:"settings"`
	MarketHistory          []MarketSnapshot `json:"marketHistory"`
	ActiveEconomicEvents   []EconomicEvent  `json:"activeEconomicEvents"`
	AvailableHouses        int              `json:"availableHouses"`
	AvailableHotels        int              `json:"availableHotels"`
	CurrentGoSalary        int              `json:"currentGoSalary"`
	RoundsCompleted        int              `json:"roundsCompleted"`
	WinnerID               string           `json:"winnerId,omitempty"`
	Version                int              `json:"version"`
	Log                    []string         `json:"log"`
}

// CurrentPlayer returns the player whose turn it is.
func (g *GameState) CurrentPlayer() *Player {
	if g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentPlayerIndex]
}

// PlayerByID looks a player up by id.
func (g *GameState) PlayerByID(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// IndexOf returns the seat index of id, or -1.
func (g *GameState) IndexOf(id string) int {
	for i, p := range g.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// ActivePlayers returns every non-bankrupt player in seat order.
func (g *GameState) ActivePlayers() []*Player {
	out := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		if !p.Bankrupt {
			out = append(out, p)
		}
	}
	return out
}

// Space returns the space at position, or nil when out of range.
func (g *GameState) Space(position int) *Space {
	if position < 0 || position >= len(g.Spaces) {
		return nil
	}
	return g.Spaces[position]
}

// OwnedBy lists the ownable spaces held by playerID.
func (g *GameState) OwnedBy(playerID string) []*Space {
	var out []*Space
	for _, s := range g.Spaces {
		if s.OwnedBy(playerID) {
			out = append(out, s)
		}
	}
	return out
}

// PendingNegotiations counts the non-nil negotiation slots; it is never above one.
func (g *GameState) PendingNegotiations() int {
	n := 0
	if g.Auction != nil {
		n++
	}
	if g.Trade != nil {
		n++
	}
	if g.PendingRentNegotiation != nil {
		n++
	}
	if g.PendingBankruptcy != nil {
		n++
	}
	if g.PendingForeclosure != nil {
		n++
	}
	if g.PendingDebtService != nil {
		n++
	}
	return n
}

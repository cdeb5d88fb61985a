package models

// Difficulty selects the heuristic tier of an automated player.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known tier.
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Roster is a seat in a lobby game as stored in postgres.
type Roster struct {
	tableName struct{} `pg:"players"`

	User_id       string
	Game_id       string
	Username      string
	Seat          int
	Color         string
	Is_ai         bool
	Ai_difficulty string
}

// TradeRecord counts how an opponent answered this player's trade offers.
type TradeRecord struct {
	Rejections int `json:"rejections"`
	LastTurn   int `json:"lastTurn"`
}

// Chapter11Status is the restructuring ledger of a player under bankruptcy protection.
type Chapter11Status struct {
	CreditorID     string  `json:"creditorId,omitempty"` // "" is the bank
	Debt           int     `json:"debt"`
	InterestRate   float64 `json:"interestRate"`
	TurnsRemaining int     `json:"turnsRemaining"`
}

// Player is a participant of a running session. Players are never removed, only marked bankrupt.
type Player struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Token          string                 `json:"token"`
	Cash           int                    `json:"cash"`
	Position       int                    `json:"position"`
	InJail         bool                   `json:"inJail"`
	JailTurns      int                    `json:"jailTurns"`
	JailFreeCards  int                    `json:"jailFreeCards"`
	Bankrupt       bool                   `json:"bankrupt"`
	IsAI           bool                   `json:"isAI"`
	AIDifficulty   Difficulty             `json:"aiDifficulty,omitempty"`
	BankLoans      []BankLoan             `json:"bankLoans"`
	IOUsPayable    []IOU                  `json:"iousPayable"`
	IOUsReceivable []string               `json:"iousReceivable"`
	LastTradeTurn  int                    `json:"lastTradeTurn"`
	TradeHistory   map[string]TradeRecord `json:"tradeHistory"`
	Chapter11      *Chapter11Status       `json:"chapter11,omitempty"`
	UsedChapter11  bool                   `json:"usedChapter11"`
}

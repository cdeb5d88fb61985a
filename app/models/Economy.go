package models

// EventType names a timed, global market modifier.
type EventType string

const (
	EventRecession      EventType = "recession"
	EventMarketCrash    EventType = "market_crash"
	EventHousingCrisis  EventType = "housing_crisis"
	EventRealEstateBoom EventType = "real_estate_boom"
	EventBullMarket     EventType = "bull_market"
)

// EventPrecedence is the fixed order in which active events are matched; the first hit wins.
var EventPrecedence = []EventType{
	EventRecession,
	EventMarketCrash,
	EventHousingCrisis,
	EventRealEstateBoom,
	EventBullMarket,
}

// EconomicEvent is an active market event. TurnsRemaining counts completed rounds.
type EconomicEvent struct {
	Type           EventType `json:"type"`
	Description    string    `json:"description"`
	TurnsRemaining int       `json:"turnsRemaining"`
	StartedRound   int       `json:"startedRound"`
}

// MarketSnapshot is recorded once per completed round.
type MarketSnapshot struct {
	Round       int         `json:"round"`
	Gini        float64     `json:"gini"`
	Inflation   float64     `json:"inflation"`
	Circulation int         `json:"circulation"`
	GoSalary    int         `json:"goSalary"`
	Events      []EventType `json:"events"`
}

// IOU is a deferred rent payment owed by one player to another.
type IOU struct {
	ID           string  `json:"id"`
	DebtorID     string  `json:"debtorId"`
	CreditorID   string  `json:"creditorId"`
	Principal    int     `json:"principal"`
	AmountOwed   int     `json:"amountOwed"`
	InterestRate float64 `json:"interestRate"`
	CreatedRound int     `json:"createdRound"`
	// Extensions counts foreclosures the creditor waived.
	Extensions int `json:"extensions"`
}

// BankLoan is money borrowed from the bank, due after a fixed number of rounds.
type BankLoan struct {
	ID           string  `json:"id"`
	Principal    int     `json:"principal"`
	AmountOwed   int     `json:"amountOwed"`
	InterestRate float64 `json:"interestRate"`
	TakenRound   int     `json:"takenRound"`
	DueRound     int     `json:"dueRound"`
}

package models

// Auction is the state of a running property auction.
type Auction struct {
	PropertyID        int             `json:"propertyId"`
	CurrentBid        int             `json:"currentBid"` // 0 until the first bid
	ActivePlayerIndex int             `json:"activePlayerIndex"`
	HighestBidder     string          `json:"highestBidder,omitempty"`
	PassedPlayers     map[string]bool `json:"passedPlayers"`
}

// TradeStatus is the lifecycle of a trade negotiation.
type TradeStatus string

const (
	TradeDraft          TradeStatus = "draft"
	TradePending        TradeStatus = "pending"
	TradeCounterPending TradeStatus = "counter_pending"
	TradeAccepted       TradeStatus = "accepted"
	TradeRejected       TradeStatus = "rejected"
	TradeCancelled      TradeStatus = "cancelled"
)

// TradeOffer describes what the initiator gives and what it asks for in return.
type TradeOffer struct {
	CashOffered         int   `json:"cashOffered"`
	PropertiesOffered   []int `json:"propertiesOffered"`
	JailCardsOffered    int   `json:"jailCardsOffered"`
	CashRequested       int   `json:"cashRequested"`
	PropertiesRequested []int `json:"propertiesRequested"`
	JailCardsRequested  int   `json:"jailCardsRequested"`
}

// RequestsNothing reports whether the receiver would give nothing in return.
func (o TradeOffer) RequestsNothing() bool {
	return o.CashRequested == 0 && len(o.PropertiesRequested) == 0 && o.JailCardsRequested == 0
}

// Empty reports whether the offer moves nothing at all.
func (o TradeOffer) Empty() bool {
	return o.RequestsNothing() && o.CashOffered == 0 && len(o.PropertiesOffered) == 0 && o.JailCardsOffered == 0
}

// Trade is the single open trade negotiation of a session.
type Trade struct {
	ID                string      `json:"id"`
	InitiatorID       string      `json:"initiatorId"`
	ReceiverID        string      `json:"receiverId"`
	Status            TradeStatus `json:"status"`
	Offer             TradeOffer  `json:"offer"`
	Counter           *TradeOffer `json:"counter,omitempty"`
	NeedsConfirmation bool        `json:"needsConfirmation"`
}

// RentStatus tracks whose move it is in a rent negotiation.
type RentStatus string

const (
	RentCreditorDecision RentStatus = "creditor_decision"
	RentDebtorDecision   RentStatus = "debtor_decision"
)

// RentNegotiation is opened when a debtor cannot cover rent.
type RentNegotiation struct {
	DebtorID     string     `json:"debtorId"`
	CreditorID   string     `json:"creditorId"`
	PropertyID   int        `json:"propertyId"`
	Amount       int        `json:"amount"`
	Status       RentStatus `json:"status"`
	PlanCashNow  int        `json:"planCashNow"`
	PlanIOU      int        `json:"planIou"`
	InterestRate float64    `json:"interestRate"`
	// RejectedPlans counts payment plans the debtor turned down.
	RejectedPlans int `json:"rejectedPlans"`
}

// Resume names where a turn continues once a bankruptcy decision is made.
type Resume string

const (
	ResumeRolling   Resume = "rolling"    // back to the debtor's turn
	ResumeEndTurn   Resume = "end_turn"   // the debtor was ending the turn
	ResumeTurnStart Resume = "turn_start" // the debtor was servicing debt before rolling
)

// Bankruptcy waits for the debtor to choose Chapter 11 or liquidation.
type Bankruptcy struct {
	DebtorID   string `json:"debtorId"`
	CreditorID string `json:"creditorId,omitempty"` // "" is the bank
	Amount     int    `json:"amount"`
	Reason     string `json:"reason"`
	Resume     Resume `json:"resume"`
}

// Foreclosure waits for a creditor to seize a property of a defaulted debtor.
type Foreclosure struct {
	DebtorID   string `json:"debtorId"`
	CreditorID string `json:"creditorId"`
	IOUID      string `json:"iouId"`
	AmountDue  int    `json:"amountDue"`
}

// DebtKind identifies what a debt-service item pays.
type DebtKind string

const (
	DebtChapter11 DebtKind = "chapter11"
	DebtIOU       DebtKind = "iou"
	DebtBankLoan  DebtKind = "bank_loan"
)

// DebtItem is one payment due at the start of the debtor's turn.
type DebtItem struct {
	Kind       DebtKind `json:"kind"`
	RefID      string   `json:"refId,omitempty"`
	CreditorID string   `json:"creditorId,omitempty"`
	Amount     int      `json:"amount"`
}

// DebtService lists the payments a player owes before rolling.
type DebtService struct {
	PlayerID string     `json:"playerId"`
	Items    []DebtItem `json:"items"`
}

// Total sums every due item.
func (d *DebtService) Total() int {
	total := 0
	for _, it := range d.Items {
		total += it.Amount
	}
	return total
}

// TaxDecision is the pending income tax choice of the current player.
type TaxDecision struct {
	PlayerID      string `json:"playerId"`
	FlatAmount    int    `json:"flatAmount"`
	PercentAmount int    `json:"percentAmount"`
}

// TaxOption names one of the two income tax choices.
type TaxOption string

const (
	TaxFlat    TaxOption = "flat"
	TaxPercent TaxOption = "percent"
)

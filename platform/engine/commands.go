package engine

import (
	"github.com/DedS3t/monopoly-engine/app/models"
)

// Command names accepted by Dispatch.
const (
	CmdStartGame          = "startGame"
	CmdRollDice           = "rollDice"
	CmdEndTurn            = "endTurn"
	CmdBuyProperty        = "buyProperty"
	CmdDeclineProperty    = "declineProperty"
	CmdPlaceBid           = "placeBid"
	CmdPassBid            = "passBid"
	CmdOpenTrade          = "openTrade"
	CmdUpdateTrade        = "updateTrade"
	CmdSubmitTrade        = "submitTrade"
	CmdProposeTrade       = "proposeTrade"
	CmdAcceptTrade        = "acceptTrade"
	CmdRejectTrade        = "rejectTrade"
	CmdCounterTrade       = "counterTrade"
	CmdAcceptCounter      = "acceptCounter"
	CmdRejectCounter      = "rejectCounter"
	CmdCancelTrade        = "cancelTrade"
	CmdForgiveRent        = "forgiveRent"
	CmdOfferPaymentPlan   = "offerPaymentPlan"
	CmdDemandPayment      = "demandPayment"
	CmdAcceptPaymentPlan  = "acceptPaymentPlan"
	CmdRejectPaymentPlan  = "rejectPaymentPlan"
	CmdEnterChapter11     = "enterChapter11"
	CmdDeclareBankruptcy  = "declareBankruptcy"
	CmdPayDebtService     = "payDebtService"
	CmdDeferDebtService   = "deferDebtService"
	CmdForeclose          = "foreclose"
	CmdExtendForeclosure  = "extendForeclosure"
	CmdChooseTaxOption    = "chooseTaxOption"
	CmdPayJailFine        = "payJailFine"
	CmdUseJailCard        = "useJailCard"
	CmdRollForDoubles     = "rollForDoubles"
	CmdBuildHouse         = "buildHouse"
	CmdSellBuilding       = "sellBuilding"
	CmdMortgageProperty   = "mortgageProperty"
	CmdUnmortgageProperty = "unmortgageProperty"
	CmdBuyInsurance       = "buyInsurance"
	CmdTakeLoan           = "takeLoan"
	CmdRepayLoan          = "repayLoan"
)

type actorRule int

const (
	actorCurrent actorRule = iota
	actorAnySeated
	actorBidder
	actorInitiator
	actorReceiver
	actorCreditor
	actorDebtor
)

type handler func(t *txn, actor *models.Player, args Args) error

type command struct {
	phases []models.Phase
	actor  actorRule
	gate   func(models.GameSettings) bool
	run    handler
}

var (
	// phases in which the current player may raise cash or manage holdings
	managementPhases = []models.Phase{
		models.PhaseRolling, models.PhaseResolvingSpace, models.PhaseAwaitingBuyDecision,
		models.PhaseJailDecision, models.PhaseAwaitingDebtService, models.PhaseAwaitingTaxDecision,
	}
	turnPhases = []models.Phase{models.PhaseRolling, models.PhaseResolvingSpace}
)

func phases(p ...models.Phase) []models.Phase { return p }

func loansEnabled(s models.GameSettings) bool     { return s.EnableBankLoans }
func insuranceEnabled(s models.GameSettings) bool { return s.EnablePropertyInsurance }

var commands map[string]command

func init() {
	commands = map[string]command{
		CmdStartGame: {phases: phases(models.PhaseSetup), actor: actorAnySeated, run: startGame},
		CmdRollDice:  {phases: phases(models.PhaseRolling), actor: actorCurrent, run: rollDice},
		CmdEndTurn: {
			phases: phases(models.PhaseRolling, models.PhaseResolvingSpace, models.PhaseJailDecision),
			actor:  actorCurrent,
			run:    endTurn,
		},

		CmdBuyProperty:     {phases: phases(models.PhaseAwaitingBuyDecision), actor: actorCurrent, run: buyProperty},
		CmdDeclineProperty: {phases: phases(models.PhaseAwaitingBuyDecision), actor: actorCurrent, run: declineProperty},
		CmdPlaceBid:        {phases: phases(models.PhaseAuction), actor: actorBidder, run: placeBid},
		CmdPassBid:         {phases: phases(models.PhaseAuction), actor: actorBidder, run: passBid},

		CmdOpenTrade:     {phases: turnPhases, actor: actorCurrent, run: openTrade},
		CmdProposeTrade:  {phases: turnPhases, actor: actorCurrent, run: proposeTrade},
		CmdUpdateTrade:   {phases: phases(models.PhaseTrading), actor: actorInitiator, run: updateTrade},
		CmdSubmitTrade:   {phases: phases(models.PhaseTrading), actor: actorInitiator, run: submitTrade},
		CmdCancelTrade:   {phases: phases(models.PhaseTrading), actor: actorInitiator, run: cancelTrade},
		CmdAcceptTrade:   {phases: phases(models.PhaseTrading), actor: actorReceiver, run: acceptTrade},
		CmdRejectTrade:   {phases: phases(models.PhaseTrading), actor: actorReceiver, run: rejectTrade},
		CmdCounterTrade:  {phases: phases(models.PhaseTrading), actor: actorReceiver, run: counterTrade},
		CmdAcceptCounter: {phases: phases(models.PhaseTrading), actor: actorInitiator, run: acceptCounter},
		CmdRejectCounter: {phases: phases(models.PhaseTrading), actor: actorInitiator, run: rejectCounter},

		CmdForgiveRent:       {phases: phases(models.PhaseAwaitingRentNegotiation), actor: actorCreditor, run: forgiveRent},
		CmdOfferPaymentPlan:  {phases: phases(models.PhaseAwaitingRentNegotiation), actor: actorCreditor, run: offerPaymentPlan},
		CmdDemandPayment:     {phases: phases(models.PhaseAwaitingRentNegotiation), actor: actorCreditor, run: demandPayment},
		CmdAcceptPaymentPlan: {phases: phases(models.PhaseAwaitingRentNegotiation), actor: actorDebtor, run: acceptPaymentPlan},
		CmdRejectPaymentPlan: {phases: phases(models.PhaseAwaitingRentNegotiation), actor: actorDebtor, run: rejectPaymentPlan},

		CmdEnterChapter11:    {phases: phases(models.PhaseAwaitingBankruptcy), actor: actorDebtor, run: enterChapter11},
		CmdDeclareBankruptcy: {phases: phases(models.PhaseAwaitingBankruptcy), actor: actorDebtor, run: declareBankruptcy},
		CmdPayDebtService:    {phases: phases(models.PhaseAwaitingDebtService), actor: actorDebtor, run: payDebtService},
		CmdDeferDebtService:  {phases: phases(models.PhaseAwaitingDebtService), actor: actorDebtor, run: deferDebtService},
		CmdForeclose:         {phases: phases(models.PhaseAwaitingForeclosure), actor: actorCreditor, run: foreclose},
		CmdExtendForeclosure: {phases: phases(models.PhaseAwaitingForeclosure), actor: actorCreditor, run: extendForeclosure},

		CmdChooseTaxOption: {phases: phases(models.PhaseAwaitingTaxDecision), actor: actorCurrent, run: chooseTaxOption},

		CmdPayJailFine:    {phases: phases(models.PhaseJailDecision), actor: actorCurrent, run: payJailFine},
		CmdUseJailCard:    {phases: phases(models.PhaseJailDecision), actor: actorCurrent, run: useJailCard},
		CmdRollForDoubles: {phases: phases(models.PhaseJailDecision), actor: actorCurrent, run: rollForDoubles},

		CmdBuildHouse:         {phases: turnPhases, actor: actorCurrent, run: buildHouse},
		CmdSellBuilding:       {phases: managementPhases, actor: actorCurrent, run: sellBuilding},
		CmdMortgageProperty:   {phases: managementPhases, actor: actorCurrent, run: mortgageProperty},
		CmdUnmortgageProperty: {phases: turnPhases, actor: actorCurrent, run: unmortgageProperty},
		CmdBuyInsurance:       {phases: turnPhases, actor: actorCurrent, gate: insuranceEnabled, run: buyInsurance},
		CmdTakeLoan:           {phases: managementPhases, actor: actorCurrent, gate: loansEnabled, run: takeLoan},
		CmdRepayLoan:          {phases: turnPhases, actor: actorCurrent, gate: loansEnabled, run: repayLoan},
	}
}

func actorAllowed(s *models.GameState, rule actorRule, id string) bool {
	switch rule {
	case actorAnySeated:
		return true
	case actorCurrent:
		cur := s.CurrentPlayer()
		return cur != nil && cur.ID == id
	case actorBidder:
		return s.Auction != nil && s.Auction.ActivePlayerIndex >= 0 &&
			s.Auction.ActivePlayerIndex < len(s.Players) && s.Players[s.Auction.ActivePlayerIndex].ID == id
	case actorInitiator:
		return s.Trade != nil && s.Trade.InitiatorID == id
	case actorReceiver:
		return s.Trade != nil && s.Trade.ReceiverID == id
	case actorCreditor:
		switch {
		case s.PendingRentNegotiation != nil:
			return s.PendingRentNegotiation.CreditorID == id
		case s.PendingForeclosure != nil:
			return s.PendingForeclosure.CreditorID == id
		}
	case actorDebtor:
		switch {
		case s.PendingRentNegotiation != nil:
			return s.PendingRentNegotiation.DebtorID == id
		case s.PendingBankruptcy != nil:
			return s.PendingBankruptcy.DebtorID == id
		case s.PendingDebtService != nil:
			return s.PendingDebtService.PlayerID == id
		}
	}
	return false
}

// Legal reports whether actorID may issue name in the current state. It checks phase, actor and
// feature gates only, not the command arguments.
func Legal(s *models.GameState, actorID, name string) bool {
	def, ok := commands[name]
	if !ok {
		return false
	}
	if def.gate != nil && !def.gate(s.Settings) {
		return false
	}
	p := s.PlayerByID(actorID)
	if p == nil || p.Bankrupt {
		return false
	}
	return phaseIn(s.Phase, def.phases) && actorAllowed(s, def.actor, actorID)
}

// ObligatedActor returns the player the session is waiting on, or "" when the session is not running.
func ObligatedActor(s *models.GameState) string {
	switch s.Phase {
	case models.PhaseSetup, models.PhaseGameOver:
		return ""
	case models.PhaseAuction:
		if s.Auction != nil && s.Auction.ActivePlayerIndex < len(s.Players) {
			return s.Players[s.Auction.ActivePlayerIndex].ID
		}
	case models.PhaseTrading:
		if s.Trade != nil {
			if s.Trade.Status == models.TradePending {
				return s.Trade.ReceiverID
			}
			return s.Trade.InitiatorID
		}
	case models.PhaseAwaitingRentNegotiation:
		if r := s.PendingRentNegotiation; r != nil {
			if r.Status == models.RentCreditorDecision {
				return r.CreditorID
			}
			return r.DebtorID
		}
	case models.PhaseAwaitingBankruptcy:
		if s.PendingBankruptcy != nil {
			return s.PendingBankruptcy.DebtorID
		}
	case models.PhaseAwaitingDebtService:
		if s.PendingDebtService != nil {
			return s.PendingDebtService.PlayerID
		}
	case models.PhaseAwaitingForeclosure:
		if s.PendingForeclosure != nil {
			return s.PendingForeclosure.CreditorID
		}
	}
	if cur := s.CurrentPlayer(); cur != nil {
		return cur.ID
	}
	return ""
}

// IsNegotiation reports whether the phase waits on a negotiation response rather than a turn action.
func IsNegotiation(p models.Phase) bool {
	switch p {
	case models.PhaseAuction, models.PhaseTrading, models.PhaseAwaitingRentNegotiation,
		models.PhaseAwaitingBankruptcy, models.PhaseAwaitingForeclosure:
		return true
	}
	return false
}

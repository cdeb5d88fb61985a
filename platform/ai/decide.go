package ai

import (
	"fmt"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/economy"
	"github.com/DedS3t/monopoly-engine/platform/engine"
)

// Action is one command an automated player wants to issue.
type Action struct {
	Name string
	Args []interface{}
}

// Key identifies the action together with its arguments.
func (a Action) Key() string {
	return fmt.Sprintf("%s%v", a.Name, a.Args)
}

// Capabilities narrows the command surface available to Decide.
type Capabilities struct {
	// Exclude holds the keys of actions that already turned out to be no-ops this turn.
	Exclude map[string]bool
}

// brain evaluates one decision for one player.
type brain struct {
	s       *models.GameState
	p       *models.Player
	profile Profile
	caps    Capabilities
	worth   int
}

// Decide returns the next action of playerID, or nil when the session is not waiting on them.
// Steps are tried in order and the first applicable action wins.
func Decide(s *models.GameState, playerID string, caps Capabilities) *Action {
	p := s.PlayerByID(playerID)
	if p == nil || p.Bankrupt || engine.ObligatedActor(s) != playerID {
		return nil
	}
	b := &brain{s: s, p: p, profile: ProfileFor(p.AIDifficulty), caps: caps, worth: economy.NetWorth(p, s)}
	steps := []func() *Action{
		b.mandatory,
		b.distress,
		b.initiateTrade,
		b.develop,
		b.ordinary,
		b.fallback,
	}
	for _, step := range steps {
		if a := step(); a != nil {
			return a
		}
	}
	return nil
}

// try returns the action when it is legal for this player and not excluded.
func (b *brain) try(name string, args ...interface{}) *Action {
	if !engine.Legal(b.s, b.p.ID, name) {
		return nil
	}
	a := &Action{Name: name, Args: args}
	if b.caps.Exclude[a.Key()] {
		return nil
	}
	return a
}

// reserve is the cash floor that discretionary spending never crosses.
func (b *brain) reserve() int {
	return int(b.profile.ReserveFraction * float64(maxInt(b.worth, 0)))
}

// spendable is the cash available above the reserve.
func (b *brain) spendable() int {
	return b.p.Cash - b.reserve()
}

// mandatory answers every decision the session is blocked on.
func (b *brain) mandatory() *Action {
	s, p := b.s, b.p
	switch s.Phase {
	case models.PhaseAwaitingDebtService:
		due := s.PendingDebtService.Total()
		if p.Cash >= due {
			return b.try(engine.CmdPayDebtService)
		}
		if a := b.raise(due - p.Cash); a != nil {
			return a
		}
		return b.try(engine.CmdDeferDebtService)

	case models.PhaseAwaitingForeclosure:
		if b.profile.Lenient && b.foreclosedIOUExtensions() == 0 {
			return b.try(engine.CmdExtendForeclosure)
		}
		return b.try(engine.CmdForeclose)

	case models.PhaseAwaitingBankruptcy:
		if a := b.try(engine.CmdEnterChapter11); a != nil && !p.UsedChapter11 && p.Chapter11 == nil {
			return a
		}
		return b.try(engine.CmdDeclareBankruptcy)

	case models.PhaseAwaitingTaxDecision:
		choice, _ := economy.OptimalTaxChoice(b.worth)
		return b.try(engine.CmdChooseTaxOption, string(choice))

	case models.PhaseAwaitingRentNegotiation:
		return b.rentResponse()

	case models.PhaseTrading:
		return b.tradeResponse()
	}
	return nil
}

func (b *brain) foreclosedIOUExtensions() int {
	f := b.s.PendingForeclosure
	debtor := b.s.PlayerByID(f.DebtorID)
	if debtor == nil {
		return 0
	}
	for _, iou := range debtor.IOUsPayable {
		if iou.ID == f.IOUID {
			return iou.Extensions
		}
	}
	return 0
}

// lenientRent is the largest rent an easy creditor waves through.
const lenientRent = 50

func (b *brain) rentResponse() *Action {
	r := b.s.PendingRentNegotiation
	if r.Status == models.RentDebtorDecision {
		if b.p.Cash >= r.PlanCashNow {
			return b.try(engine.CmdAcceptPaymentPlan)
		}
		return b.try(engine.CmdRejectPaymentPlan)
	}
	debtor := b.s.PlayerByID(r.DebtorID)
	switch {
	case b.profile.Lenient && r.Amount <= lenientRent:
		return b.try(engine.CmdForgiveRent)
	case r.RejectedPlans == 0:
		cashNow := minInt(maxInt(debtor.Cash, 0), r.Amount-1)
		if a := b.try(engine.CmdOfferPaymentPlan, cashNow); a != nil {
			return a
		}
	}
	return b.try(engine.CmdDemandPayment)
}

func (b *brain) tradeResponse() *Action {
	tr := b.s.Trade
	switch {
	case tr.Status == models.TradePending && tr.ReceiverID == b.p.ID:
		received, given := offerValues(b.s, b.p.ID, tr.Offer, true)
		if float64(received) >= b.profile.AcceptMargin*float64(given) {
			return b.try(engine.CmdAcceptTrade)
		}
		if b.profile.Counters {
			if a := b.counter(tr, received, given); a != nil {
				return a
			}
		}
		return b.try(engine.CmdRejectTrade)

	case tr.Status == models.TradeCounterPending && tr.InitiatorID == b.p.ID && tr.Counter != nil:
		received, given := offerValues(b.s, b.p.ID, *tr.Counter, false)
		if float64(received) >= counterAcceptance*float64(given) {
			return b.try(engine.CmdAcceptCounter)
		}
		return b.try(engine.CmdRejectCounter)

	case tr.InitiatorID == b.p.ID:
		return b.try(engine.CmdCancelTrade)
	}
	return nil
}

// counterMargin is how close an offer must come before the receiver counters instead of rejecting.
const counterMargin = 0.8

// counter asks the initiator to make up the shortfall in cash.
func (b *brain) counter(tr *models.Trade, received, given int) *Action {
	want := int(b.profile.AcceptMargin*float64(given)) + 1
	if float64(received) < counterMargin*float64(want) {
		return nil
	}
	initiator := b.s.PlayerByID(tr.InitiatorID)
	o := tr.Offer.Clone()
	o.CashOffered += want - received
	if initiator == nil || initiator.Cash < o.CashOffered {
		return nil
	}
	return b.try(engine.CmdCounterTrade, o)
}

// ordinary handles the turn itself: jail, rolling, buying, bidding and ending the turn.
func (b *brain) ordinary() *Action {
	s, p := b.s, b.p
	switch s.Phase {
	case models.PhaseJailDecision:
		if s.Turn.HasRolled {
			return b.try(engine.CmdEndTurn)
		}
		if p.JailFreeCards > 0 {
			if a := b.try(engine.CmdUseJailCard); a != nil {
				return a
			}
		}
		if p.Cash-engine.JailFine >= b.reserve() && b.profile.ReserveFraction < 0.2 {
			if a := b.try(engine.CmdPayJailFine); a != nil {
				return a
			}
		}
		return b.try(engine.CmdRollForDoubles)

	case models.PhaseRolling:
		if !s.Turn.HasRolled {
			return b.try(engine.CmdRollDice)
		}
		return b.try(engine.CmdEndTurn)

	case models.PhaseResolvingSpace:
		return b.try(engine.CmdEndTurn)

	case models.PhaseAwaitingBuyDecision:
		if b.wantsToBuy(s.Space(p.Position)) {
			if a := b.try(engine.CmdBuyProperty); a != nil {
				return a
			}
		}
		return b.try(engine.CmdDeclineProperty)

	case models.PhaseAuction:
		return b.bid()
	}
	return nil
}

// wantsToBuy applies the reserve floor, then the monopoly override, then the yield threshold.
func (b *brain) wantsToBuy(sp *models.Space) bool {
	if sp == nil || sp.Deed == nil {
		return false
	}
	price := economy.MarketPrice(b.s, sp)
	if b.spendable() < price {
		return false
	}
	if w := Weight(b.s, b.p.ID, sp.Position); w == completesWeight || w == blocksWeight {
		return true
	}
	return projectedYield(b.s, b.p.ID, sp, price) >= b.profile.ROIThreshold
}

// averageRoll is the expected total of two dice.
const averageRoll = 7

// projectedYield is the rent the deed would earn once its group is developed, scaled by the share of
// the group the buyer would hold, over the price paid.
func projectedYield(s *models.GameState, buyerID string, sp *models.Space, price int) float64 {
	if price <= 0 {
		return 0
	}
	d := sp.Deed
	members := groupSize(s, d.Group)
	held := countHeld(s, buyerID, d.Group) + 1
	var rent float64
	switch sp.Kind {
	case models.KindProperty:
		developed := d.BaseRent
		if len(d.Rents) > 1 {
			developed = d.Rents[1]
		}
		rent = float64(developed) * float64(held) / float64(members)
	case models.KindRailroad, models.KindUtility:
		if len(d.Rents) == 0 {
			return 0
		}
		rent = float64(d.Rents[minInt(held, len(d.Rents))-1])
		if sp.Kind == models.KindUtility {
			rent *= averageRoll
		}
	}
	return rent / float64(price)
}

// bid raises to the minimum while it stays under the tier's ceiling for the lot.
func (b *brain) bid() *Action {
	a := b.s.Auction
	sp := b.s.Space(a.PropertyID)
	if sp == nil || sp.Deed == nil {
		return b.try(engine.CmdPassBid)
	}
	premium := 1.0
	switch Weight(b.s, b.p.ID, sp.Position) {
	case completesWeight:
		premium = 2.0
	case blocksWeight:
		premium = 1.5
	}
	ceiling := int(float64(economy.MarketPrice(b.s, sp)) * b.profile.Aggression * premium)
	ceiling = minInt(ceiling, b.spendable())
	if next := engine.MinimumBid(b.s); next <= ceiling {
		if act := b.try(engine.CmdPlaceBid, next); act != nil {
			return act
		}
	}
	return b.try(engine.CmdPassBid)
}

// fallback picks a terminal command so the session never waits on an automated player.
func (b *brain) fallback() *Action {
	for _, a := range []Action{
		{Name: engine.CmdPassBid},
		{Name: engine.CmdRejectTrade},
		{Name: engine.CmdRejectCounter},
		{Name: engine.CmdCancelTrade},
		{Name: engine.CmdForgiveRent},
		{Name: engine.CmdAcceptPaymentPlan},
		{Name: engine.CmdRejectPaymentPlan},
		{Name: engine.CmdDeclareBankruptcy},
		{Name: engine.CmdDeferDebtService},
		{Name: engine.CmdForeclose},
		{Name: engine.CmdChooseTaxOption, Args: []interface{}{string(models.TaxFlat)}},
		{Name: engine.CmdChooseTaxOption, Args: []interface{}{string(models.TaxPercent)}},
		{Name: engine.CmdDeclineProperty},
		{Name: engine.CmdRollForDoubles},
		{Name: engine.CmdRollDice},
		{Name: engine.CmdEndTurn},
	} {
		if act := b.try(a.Name, a.Args...); act != nil {
			return act
		}
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

package engine

import (
	"math/rand"
	"testing"

	"github.com/DedS3t/monopoly-engine/app/models"
)

// rentDispute plays a onto Whitechapel and b onto it with two pounds in hand.
func rentDispute(t *testing.T, rolls ...[2]int) *Engine {
	t.Helper()
	rolls = append([][2]int{{1, 2}, {1, 2}}, rolls...)
	e := newTestEngine(t, testSettings(), 2, rolls...)
	run(t, e, "a", CmdStartGame)
	run(t, e, "a", CmdRollDice)
	run(t, e, "a", CmdBuyProperty)
	run(t, e, "a", CmdEndTurn)
	e.state.Players[1].Cash = 2
	s := run(t, e, "b", CmdRollDice)
	if s.Phase != models.PhaseAwaitingRentNegotiation {
		t.Fatalf("phase = %s, want awaiting_rent_negotiation", s.Phase)
	}
	return e
}

func TestPaymentPlan(t *testing.T) {
	e := rentDispute(t, [2]int{3, 4})

	rejected(t, e, ErrNotAuthorized, "b", CmdOfferPaymentPlan, 1)
	rejected(t, e, ErrBadArgument, "a", CmdOfferPaymentPlan, 3)
	rejected(t, e, ErrWrongNegotiationStep, "b", CmdAcceptPaymentPlan)

	s := run(t, e, "a", CmdOfferPaymentPlan, 2)
	r := s.PendingRentNegotiation
	if r.Status != models.RentDebtorDecision || r.PlanIOU != 2 || ObligatedActor(s) != "b" {
		t.Fatalf("plan = %+v", r)
	}
	s = run(t, e, "b", CmdRejectPaymentPlan)
	if s.PendingRentNegotiation.Status != models.RentCreditorDecision || s.PendingRentNegotiation.RejectedPlans != 1 {
		t.Fatalf("after rejection: %+v", s.PendingRentNegotiation)
	}

	run(t, e, "a", CmdOfferPaymentPlan, 1)
	s = run(t, e, "b", CmdAcceptPaymentPlan)
	b := s.Players[1]
	if s.Phase != models.PhaseRolling || b.Cash != 1 || len(b.IOUsPayable) != 1 || s.Players[0].Cash != 1441 {
		t.Fatalf("phase %s debtor %+v creditor cash %d", s.Phase, b, s.Players[0].Cash)
	}
	iou := b.IOUsPayable[0]
	if iou.Principal != 3 || iou.CreditorID != "a" || len(s.Players[0].IOUsReceivable) != 1 || s.Players[0].IOUsReceivable[0] != iou.ID {
		t.Fatalf("iou = %+v receivable %v", iou, s.Players[0].IOUsReceivable)
	}

	// a's next turn passes, then b owes an installment it cannot pay
	run(t, e, "b", CmdEndTurn)
	run(t, e, "a", CmdRollDice)
	s = run(t, e, "a", CmdEndTurn)
	ds := s.PendingDebtService
	if s.Phase != models.PhaseAwaitingDebtService || ds == nil || ds.Items[0].Kind != models.DebtIOU || ds.Total() != 4 {
		t.Fatalf("debt service = %+v in phase %s", ds, s.Phase)
	}
	rejected(t, e, ErrInsufficientFunds, "b", CmdPayDebtService)
	s = run(t, e, "b", CmdDeferDebtService)
	if s.Phase != models.PhaseAwaitingForeclosure || s.PendingForeclosure.CreditorID != "a" || ObligatedActor(s) != "a" {
		t.Fatalf("foreclosure = %+v in phase %s", s.PendingForeclosure, s.Phase)
	}

	s = run(t, e, "a", CmdForeclose)
	bk := s.PendingBankruptcy
	if s.Phase != models.PhaseAwaitingBankruptcy || bk == nil || bk.Amount != 4 || bk.Resume != models.ResumeTurnStart {
		t.Fatalf("bankruptcy = %+v in phase %s", bk, s.Phase)
	}
	if len(s.Players[1].IOUsPayable) != 0 || len(s.Players[0].IOUsReceivable) != 0 {
		t.Fatalf("iou should move to the bankruptcy claim")
	}
	s = run(t, e, "b", CmdEnterChapter11)
	if s.Phase != models.PhaseRolling || s.CurrentPlayerIndex != 1 || s.Players[1].Chapter11.Debt != 4 || s.Players[1].Chapter11.CreditorID != "a" {
		t.Fatalf("phase %s chapter 11 %+v", s.Phase, s.Players[1].Chapter11)
	}
}

func TestForeclosureSeizesMostValuableProperty(t *testing.T) {
	e := newTestEngine(t, testSettings(), 2, [2]int{4, 6})
	b := e.state.Players[1]
	b.Cash = 0
	b.IOUsPayable = []models.IOU{{ID: "iou", DebtorID: "b", CreditorID: "a", Principal: 100, AmountOwed: 100, InterestRate: 0.05}}
	e.state.Players[0].IOUsReceivable = []string{"iou"}
	e.state.Spaces[1].Deed.OwnerID = "b"
	e.state.Spaces[37].Deed.OwnerID = "b"
	e.state.Spaces[39].Deed.OwnerID = "b"
	e.state.Spaces[39].Deed.Mortgaged = true

	run(t, e, "a", CmdStartGame)
	run(t, e, "a", CmdRollDice)
	s := run(t, e, "a", CmdEndTurn)
	if s.Phase != models.PhaseAwaitingDebtService || s.PendingDebtService.Total() != 50 {
		t.Fatalf("debt service = %+v", s.PendingDebtService)
	}
	run(t, e, "b", CmdDeferDebtService)
	rejected(t, e, ErrNotAuthorized, "b", CmdForeclose)

	s = run(t, e, "a", CmdExtendForeclosure)
	if s.Players[1].IOUsPayable[0].Extensions != 1 || s.Phase != models.PhaseRolling {
		t.Fatalf("extension: %+v phase %s", s.Players[1].IOUsPayable[0], s.Phase)
	}

	e.state.Phase = models.PhaseAwaitingForeclosure
	e.state.PendingForeclosure = &models.Foreclosure{DebtorID: "b", CreditorID: "a", IOUID: "iou", AmountDue: 50}
	s = run(t, e, "a", CmdForeclose)
	if s.Spaces[37].Deed.OwnerID != "a" || s.Spaces[39].Deed.OwnerID != "b" {
		t.Fatalf("seized the wrong deed: park lane %q mayfair %q", s.Spaces[37].Deed.OwnerID, s.Spaces[39].Deed.OwnerID)
	}
	if len(s.Players[1].IOUsPayable) != 0 || len(s.Players[0].IOUsReceivable) != 0 || s.Phase != models.PhaseRolling {
		t.Fatalf("iou not settled: %+v", s.Players[1].IOUsPayable)
	}
}

func TestDemandPaymentSeizesProperty(t *testing.T) {
	e := newTestEngine(t, testSettings(), 2, [2]int{1, 2}, [2]int{1, 2})
	run(t, e, "a", CmdStartGame)
	run(t, e, "a", CmdRollDice)
	run(t, e, "a", CmdBuyProperty)
	run(t, e, "a", CmdEndTurn)
	e.state.Players[1].Cash = 2
	e.state.Spaces[1].Deed.OwnerID = "b"
	e.state.Spaces[6].Deed.OwnerID = "b"
	run(t, e, "b", CmdRollDice)

	s := run(t, e, "a", CmdDemandPayment)
	if s.Phase != models.PhaseRolling || s.Players[1].Cash != 0 || s.Players[0].Cash != 1442 {
		t.Fatalf("phase %s cash b %d a %d", s.Phase, s.Players[1].Cash, s.Players[0].Cash)
	}
	if s.Spaces[6].Deed.OwnerID != "a" || s.Spaces[1].Deed.OwnerID != "b" {
		t.Fatalf("expected the most valuable deed to go first: angel %q old kent %q", s.Spaces[6].Deed.OwnerID, s.Spaces[1].Deed.OwnerID)
	}
}

func TestDemandPaymentWithoutAssetsEndsInBankruptcy(t *testing.T) {
	e := rentDispute(t)
	s := run(t, e, "a", CmdDemandPayment)
	b := s.PendingBankruptcy
	if s.Phase != models.PhaseAwaitingBankruptcy || b == nil || b.Amount != 2 || b.CreditorID != "a" || s.Players[0].Cash != 1442 {
		t.Fatalf("bankruptcy = %+v in phase %s", b, s.Phase)
	}
	e.state.Players[1].UsedChapter11 = true
	rejected(t, e, ErrChapter11Used, "b", CmdEnterChapter11)

	s = run(t, e, "b", CmdDeclareBankruptcy)
	if !s.Players[1].Bankrupt || s.Phase != models.PhaseGameOver || s.WinnerID != "a" {
		t.Fatalf("bankrupt %v phase %s winner %q", s.Players[1].Bankrupt, s.Phase, s.WinnerID)
	}
	if s.PendingNegotiations() != 0 {
		t.Fatalf("negotiation left open after game over")
	}
	rejected(t, e, ErrWrongPhase, "a", CmdRollDice)
}

func TestLiquidationRemovesPlayerFromNegotiations(t *testing.T) {
	e := newTestEngine(t, testSettings(), 3)
	e.state.Phase = models.PhaseRolling
	tx := &txn{s: e.State(), e: e}
	c := tx.s.Players[2]
	tx.s.Spaces[1].Deed.OwnerID = "c"
	tx.s.Spaces[3].Deed.OwnerID = "c"
	tx.s.Spaces[1].Deed.Houses = 2
	tx.s.Spaces[3].Deed.Houses = 2
	tx.s.AvailableHouses = 28
	c.Cash = 40
	c.JailFreeCards = 1
	c.IOUsPayable = []models.IOU{{ID: "i1", DebtorID: "c", CreditorID: "a", AmountOwed: 30}}
	tx.s.Players[0].IOUsReceivable = []string{"i1"}
	tx.s.Players[1].IOUsPayable = []models.IOU{{ID: "i2", DebtorID: "b", CreditorID: "c", AmountOwed: 30}}
	c.IOUsReceivable = []string{"i2"}
	tx.s.Trade = &models.Trade{ID: "t", InitiatorID: "a", ReceiverID: "c", Status: models.TradePending}

	tx.liquidate(c, "b")

	s := tx.s
	if !c.Bankrupt || c.Cash != 0 || s.Trade != nil {
		t.Fatalf("bankrupt %v cash %d trade %+v", c.Bankrupt, c.Cash, s.Trade)
	}
	if s.Spaces[1].Deed.OwnerID != "b" || s.Spaces[1].Deed.Houses != 0 || s.AvailableHouses != 32 {
		t.Fatalf("deed %+v pool %d", s.Spaces[1].Deed, s.AvailableHouses)
	}
	// cash plus four houses sold back at half price
	if s.Players[1].Cash != 1500+40+100 || s.Players[1].JailFreeCards != 1 {
		t.Fatalf("creditor cash %d cards %d", s.Players[1].Cash, s.Players[1].JailFreeCards)
	}
	if len(s.Players[0].IOUsReceivable) != 0 || len(s.Players[1].IOUsPayable) != 0 {
		t.Fatalf("debts involving the bankrupt player survived")
	}
}

func TestCompleteRoundMarket(t *testing.T) {
	settings := models.DefaultSettings()
	settings.MarketEventChance = 1
	e := newTestEngine(t, settings, 2)
	tx := &txn{s: e.State(), e: e}
	tx.e.rng = rand.New(rand.NewSource(42))
	tx.s.Players[0].BankLoans = []models.BankLoan{{ID: "l", AmountOwed: 100, InterestRate: 0.05, DueRound: 10}}
	tx.s.Spaces[39].Deed.IsInsured = true
	tx.s.Spaces[39].Deed.InsurancePaidUntilRound = 2

	tx.completeRound()
	if len(tx.s.ActiveEconomicEvents) != 1 {
		t.Fatalf("events = %+v, want one started", tx.s.ActiveEconomicEvents)
	}
	if tx.s.Players[0].BankLoans[0].AmountOwed != 105 {
		t.Fatalf("loan owed = %d, want 105", tx.s.Players[0].BankLoans[0].AmountOwed)
	}

	for i := 0; i < 49; i++ {
		tx.completeRound()
	}
	s := tx.s
	if s.RoundsCompleted != 50 || len(s.MarketHistory) != 50 || s.CurrentGoSalary != 350 {
		t.Fatalf("rounds %d history %d salary %d", s.RoundsCompleted, len(s.MarketHistory), s.CurrentGoSalary)
	}
	if s.Spaces[39].Deed.IsInsured {
		t.Fatalf("insurance did not expire")
	}
	for _, sp := range s.Spaces {
		if sp.Deed == nil {
			continue
		}
		if m := sp.Deed.ValueMultiplier; m < minValueMultiplier || m > maxValueMultiplier {
			t.Fatalf("%s multiplier %v out of bounds", sp.Name, m)
		}
	}
	for _, ev := range s.ActiveEconomicEvents {
		if ev.TurnsRemaining <= 0 {
			t.Fatalf("expired event still active: %+v", ev)
		}
	}
}

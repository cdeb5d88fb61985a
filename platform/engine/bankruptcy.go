package engine

import (
	"github.com/DedS3t/monopoly-engine/app/models"
)

// enterChapter11 moves the debt to a restructuring ledger. The player keeps their properties and has
// Chapter11Turns turns, paying interest each turn, to clear it.
func enterChapter11(t *txn, actor *models.Player, args Args) error {
	if actor.UsedChapter11 || actor.Chapter11 != nil {
		return ErrChapter11Used
	}
	b := t.s.PendingBankruptcy
	actor.Chapter11 = &models.Chapter11Status{
		CreditorID:     b.CreditorID,
		Debt:           b.Amount,
		InterestRate:   t.s.Settings.IOUInterestRate,
		TurnsRemaining: t.s.Settings.Chapter11Turns,
	}
	actor.UsedChapter11 = true
	if actor.Cash < 0 {
		actor.Cash = 0
	}
	t.s.PendingBankruptcy = nil
	t.logf("%s filed for Chapter 11 owing £%d", actor.Name, b.Amount)
	t.resume(b.Resume)
	return nil
}

func declareBankruptcy(t *txn, actor *models.Player, args Args) error {
	b := t.s.PendingBankruptcy
	t.s.PendingBankruptcy = nil
	t.liquidate(actor, b.CreditorID)
	t.afterElimination(actor)
	return nil
}

func (t *txn) resume(r models.Resume) {
	switch r {
	case models.ResumeEndTurn:
		t.advanceTurn()
	case models.ResumeTurnStart:
		t.startPlaying()
	default:
		t.returnToRolling()
	}
}

// afterElimination continues the session once p has been liquidated.
func (t *txn) afterElimination(p *models.Player) {
	if t.checkGameOver() {
		return
	}
	cur := t.current()
	if cur != nil && cur.ID == p.ID {
		t.advanceTurn()
		return
	}
	if t.s.PendingNegotiations() == 0 && t.s.Phase != models.PhaseAwaitingTaxDecision {
		t.returnToRolling()
	}
}

// liquidate eliminates p: buildings go back to the bank, deeds and remaining cash to creditorID
// ("" for the bank), every debt p owed or was owed is cancelled.
func (t *txn) liquidate(p *models.Player, creditorID string) {
	creditor := t.s.PlayerByID(creditorID)
	if creditor != nil && creditor.Bankrupt {
		creditor = nil
	}
	newOwner := ""
	if creditor != nil {
		newOwner = creditor.ID
	}
	for _, sp := range t.s.OwnedBy(p.ID) {
		p.Cash += t.clearBuildings(sp)
		sp.Deed.OwnerID = newOwner
		sp.Deed.IsInsured = false
		sp.Deed.InsurancePaidUntilRound = 0
		if newOwner == "" {
			sp.Deed.Mortgaged = false
		}
	}
	if creditor != nil {
		t.transfer(p, creditor, maxInt(p.Cash, 0))
		creditor.JailFreeCards += p.JailFreeCards
	}
	p.JailFreeCards = 0
	p.Cash = 0

	for _, iou := range p.IOUsPayable {
		if c := t.s.PlayerByID(iou.CreditorID); c != nil {
			c.IOUsReceivable = removeString(c.IOUsReceivable, iou.ID)
		}
	}
	for _, other := range t.s.Players {
		kept := other.IOUsPayable[:0]
		for _, iou := range other.IOUsPayable {
			if iou.CreditorID != p.ID {
				kept = append(kept, iou)
			}
		}
		other.IOUsPayable = kept
		if other.Chapter11 != nil && other.Chapter11.CreditorID == p.ID {
			other.Chapter11.CreditorID = ""
		}
	}
	p.IOUsPayable = nil
	p.IOUsReceivable = nil
	p.BankLoans = nil
	p.Chapter11 = nil
	p.InJail = false
	p.Bankrupt = true
	t.removeFromNegotiations(p)
	t.logf("%s is bankrupt", p.Name)
}

// removeFromNegotiations drops p from whatever negotiation is open.
func (t *txn) removeFromNegotiations(p *models.Player) {
	if a := t.s.Auction; a != nil {
		a.PassedPlayers[p.ID] = true
		if a.HighestBidder == p.ID {
			a.HighestBidder = ""
			a.CurrentBid = 0
		}
		t.advanceAuction()
	}
	if tr := t.s.Trade; tr != nil && (tr.InitiatorID == p.ID || tr.ReceiverID == p.ID) {
		t.s.Trade = nil
	}
	if r := t.s.PendingRentNegotiation; r != nil && (r.DebtorID == p.ID || r.CreditorID == p.ID) {
		t.s.PendingRentNegotiation = nil
	}
	if f := t.s.PendingForeclosure; f != nil && (f.DebtorID == p.ID || f.CreditorID == p.ID) {
		t.s.PendingForeclosure = nil
	}
	if d := t.s.PendingDebtService; d != nil && d.PlayerID == p.ID {
		t.s.PendingDebtService = nil
	}
	if t.s.AwaitingTaxDecision != nil && t.s.AwaitingTaxDecision.PlayerID == p.ID {
		t.s.AwaitingTaxDecision = nil
	}
}

func removeString(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

package engine

import (
	"fmt"
	"math"

	"github.com/DedS3t/monopoly-engine/app/models"
)

// minInstallment is the smallest IOU repayment due per turn.
const minInstallment = 50

func ceilRate(amount int, rate float64) int {
	return ceilMoney(float64(amount) * rate)
}

// ceilMoney rounds a computed charge up to whole pounds, ignoring float noise.
func ceilMoney(v float64) int {
	return int(math.Ceil(v - 1e-9))
}

// Installment is the payment due on an IOU this turn.
func Installment(iou models.IOU) int {
	due := maxInt(minInstallment, int(math.Ceil(float64(iou.Principal)/4)))
	return minInt(iou.AmountOwed, due)
}

// dueDebts ages p's debts by one turn and lists what is due before p may roll.
func (t *txn) dueDebts(p *models.Player) []models.DebtItem {
	var items []models.DebtItem
	if c := p.Chapter11; c != nil {
		c.TurnsRemaining--
		amount := ceilRate(c.Debt, c.InterestRate)
		if c.TurnsRemaining <= 0 {
			amount += c.Debt
		}
		items = append(items, models.DebtItem{Kind: models.DebtChapter11, CreditorID: c.CreditorID, Amount: amount})
	}
	for i := range p.IOUsPayable {
		iou := &p.IOUsPayable[i]
		iou.AmountOwed += ceilRate(iou.AmountOwed, iou.InterestRate)
		items = append(items, models.DebtItem{
			Kind:       models.DebtIOU,
			RefID:      iou.ID,
			CreditorID: iou.CreditorID,
			Amount:     Installment(*iou),
		})
	}
	for _, loan := range p.BankLoans {
		if loan.DueRound <= t.s.RoundsCompleted {
			items = append(items, models.DebtItem{Kind: models.DebtBankLoan, RefID: loan.ID, Amount: loan.AmountOwed})
		}
	}
	return items
}

func payDebtService(t *txn, actor *models.Player, args Args) error {
	ds := t.s.PendingDebtService
	if actor.Cash < ds.Total() {
		return fmt.Errorf("%w: £%d due", ErrInsufficientFunds, ds.Total())
	}
	for _, it := range ds.Items {
		creditor := t.s.PlayerByID(it.CreditorID)
		switch it.Kind {
		case models.DebtChapter11:
			t.transfer(actor, creditor, it.Amount)
			if actor.Chapter11 != nil && actor.Chapter11.TurnsRemaining <= 0 {
				actor.Chapter11 = nil
				t.logf("%s emerged from Chapter 11", actor.Name)
			}
		case models.DebtIOU:
			t.transfer(actor, creditor, it.Amount)
			t.reduceIOU(actor, it.RefID, it.Amount)
		case models.DebtBankLoan:
			t.transfer(actor, nil, it.Amount)
			actor.BankLoans = removeLoan(actor.BankLoans, it.RefID)
		}
	}
	t.s.PendingDebtService = nil
	t.logf("%s paid £%d of debt service", actor.Name, ds.Total())
	t.startPlaying()
	return nil
}

// deferDebtService skips the payments. Chapter 11 interest is capitalised and an expired Chapter 11
// liquidates; the bank seizes property for a matured loan; an unpaid IOU goes to its creditor for
// foreclosure.
func deferDebtService(t *txn, actor *models.Player, args Args) error {
	ds := t.s.PendingDebtService
	t.s.PendingDebtService = nil
	var foreclosure *models.Foreclosure
	for _, it := range ds.Items {
		switch it.Kind {
		case models.DebtChapter11:
			c := actor.Chapter11
			if c == nil {
				continue
			}
			if c.TurnsRemaining <= 0 {
				t.logf("%s's Chapter 11 protection ran out", actor.Name)
				t.liquidate(actor, c.CreditorID)
				t.afterElimination(actor)
				return nil
			}
			c.Debt += ceilRate(c.Debt, c.InterestRate)
		case models.DebtBankLoan:
			if !t.bankForeclose(actor, it.RefID, it.Amount) {
				t.logf("%s defaulted on a bank loan", actor.Name)
				t.liquidate(actor, "")
				t.afterElimination(actor)
				return nil
			}
		case models.DebtIOU:
			if foreclosure == nil {
				foreclosure = &models.Foreclosure{
					DebtorID:   actor.ID,
					CreditorID: it.CreditorID,
					IOUID:      it.RefID,
					AmountDue:  it.Amount,
				}
			}
		}
	}
	t.logf("%s deferred debt service", actor.Name)
	if foreclosure != nil && t.s.PlayerByID(foreclosure.CreditorID) != nil {
		t.s.PendingForeclosure = foreclosure
		t.s.Phase = models.PhaseAwaitingForeclosure
		return nil
	}
	t.startPlaying()
	return nil
}

// bankForeclose seizes unmortgaged property for a matured loan. It reports whether the loan was covered.
func (t *txn) bankForeclose(p *models.Player, loanID string, owed int) bool {
	for _, sp := range t.seizable(p.ID, true) {
		if owed <= 0 {
			break
		}
		owed -= t.seize(sp, "")
		t.logf("the bank seized %s from %s", sp.Name, p.Name)
	}
	if owed > 0 {
		return false
	}
	p.BankLoans = removeLoan(p.BankLoans, loanID)
	return true
}

func (t *txn) foreclosureIOU(f *models.Foreclosure) (*models.Player, *models.IOU) {
	debtor := t.s.PlayerByID(f.DebtorID)
	if debtor == nil {
		return nil, nil
	}
	for i := range debtor.IOUsPayable {
		if debtor.IOUsPayable[i].ID == f.IOUID {
			return debtor, &debtor.IOUsPayable[i]
		}
	}
	return debtor, nil
}

// foreclose seizes the debtor's most valuable unmortgaged property against the IOU. Without one the
// debt goes to the bankruptcy decision.
func foreclose(t *txn, actor *models.Player, args Args) error {
	f := t.s.PendingForeclosure
	debtor, iou := t.foreclosureIOU(f)
	if debtor == nil || iou == nil {
		return ErrWrongNegotiationStep
	}
	t.s.PendingForeclosure = nil
	props := t.seizable(debtor.ID, true)
	if len(props) == 0 {
		owed := iou.AmountOwed
		t.removeIOU(debtor, iou.ID)
		t.s.PendingBankruptcy = &models.Bankruptcy{
			DebtorID:   debtor.ID,
			CreditorID: actor.ID,
			Amount:     owed,
			Reason:     "foreclosure with nothing to seize",
			Resume:     models.ResumeTurnStart,
		}
		t.s.Phase = models.PhaseAwaitingBankruptcy
		t.logf("%s has nothing left to seize", debtor.Name)
		return nil
	}
	sp := props[0]
	value := t.seize(sp, actor.ID)
	t.reduceIOU(debtor, iou.ID, value)
	t.logf("%s foreclosed on %s", actor.Name, sp.Name)
	t.startPlaying()
	return nil
}

func extendForeclosure(t *txn, actor *models.Player, args Args) error {
	f := t.s.PendingForeclosure
	_, iou := t.foreclosureIOU(f)
	if iou == nil {
		return ErrWrongNegotiationStep
	}
	iou.Extensions++
	t.s.PendingForeclosure = nil
	t.logf("%s extended the IOU", actor.Name)
	t.startPlaying()
	return nil
}

// reduceIOU credits amount against an IOU of debtor, dropping it once settled.
func (t *txn) reduceIOU(debtor *models.Player, id string, amount int) {
	for i := range debtor.IOUsPayable {
		iou := &debtor.IOUsPayable[i]
		if iou.ID != id {
			continue
		}
		iou.AmountOwed -= amount
		if iou.AmountOwed <= 0 {
			t.removeIOU(debtor, id)
			t.logf("%s settled an IOU", debtor.Name)
		}
		return
	}
}

func (t *txn) removeIOU(debtor *models.Player, id string) {
	kept := debtor.IOUsPayable[:0]
	for _, iou := range debtor.IOUsPayable {
		if iou.ID != id {
			kept = append(kept, iou)
			continue
		}
		if c := t.s.PlayerByID(iou.CreditorID); c != nil {
			c.IOUsReceivable = removeString(c.IOUsReceivable, id)
		}
	}
	debtor.IOUsPayable = kept
}

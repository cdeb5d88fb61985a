package engine

import (
	"fmt"
	"sort"

	"github.com/DedS3t/monopoly-engine/app/models"
)

func (t *txn) rentStep(want models.RentStatus) (*models.RentNegotiation, error) {
	r := t.s.PendingRentNegotiation
	if r == nil || r.Status != want {
		return nil, ErrWrongNegotiationStep
	}
	return r, nil
}

func forgiveRent(t *txn, actor *models.Player, args Args) error {
	r, err := t.rentStep(models.RentCreditorDecision)
	if err != nil {
		return err
	}
	t.s.PendingRentNegotiation = nil
	t.logf("%s forgave £%d rent", actor.Name, r.Amount)
	t.returnToRolling()
	return nil
}

// offerPaymentPlan proposes cashNow up front and an IOU for the rest of the rent.
func offerPaymentPlan(t *txn, actor *models.Player, args Args) error {
	r, err := t.rentStep(models.RentCreditorDecision)
	if err != nil {
		return err
	}
	cashNow, err := args.Int(0)
	if err != nil {
		return err
	}
	debtor := t.s.PlayerByID(r.DebtorID)
	if cashNow < 0 || cashNow >= r.Amount || cashNow > maxInt(debtor.Cash, 0) {
		return fmt.Errorf("%w: up-front payment %d", ErrBadArgument, cashNow)
	}
	r.PlanCashNow = cashNow
	r.PlanIOU = r.Amount - cashNow
	r.InterestRate = t.s.Settings.IOUInterestRate
	r.Status = models.RentDebtorDecision
	t.logf("%s offered a payment plan: £%d now, £%d as an IOU", actor.Name, cashNow, r.PlanIOU)
	return nil
}

// demandPayment collects what the debtor has, then seizes properties by descending value until the
// rent is covered. Whatever is still owed goes to the bankruptcy decision.
func demandPayment(t *txn, actor *models.Player, args Args) error {
	r, err := t.rentStep(models.RentCreditorDecision)
	if err != nil {
		return err
	}
	debtor := t.s.PlayerByID(r.DebtorID)
	owed := r.Amount
	paid := minInt(maxInt(debtor.Cash, 0), owed)
	t.transfer(debtor, actor, paid)
	owed -= paid

	for _, sp := range t.seizable(debtor.ID, false) {
		if owed <= 0 {
			break
		}
		value := t.seize(sp, actor.ID)
		owed -= value
		t.logf("%s seized %s from %s", actor.Name, sp.Name, debtor.Name)
	}
	t.s.PendingRentNegotiation = nil
	if owed > 0 {
		t.s.PendingBankruptcy = &models.Bankruptcy{
			DebtorID:   debtor.ID,
			CreditorID: actor.ID,
			Amount:     owed,
			Reason:     "unpaid rent",
			Resume:     models.ResumeRolling,
		}
		t.s.Phase = models.PhaseAwaitingBankruptcy
		t.logf("%s still owes £%d and faces bankruptcy", debtor.Name, owed)
		return nil
	}
	t.returnToRolling()
	return nil
}

// seizable lists the debtor's properties by descending value. With unmortgagedOnly set mortgaged
// deeds are skipped.
func (t *txn) seizable(debtorID string, unmortgagedOnly bool) []*models.Space {
	var out []*models.Space
	for _, sp := range t.s.OwnedBy(debtorID) {
		if unmortgagedOnly && sp.Deed.Mortgaged {
			continue
		}
		out = append(out, sp)
	}
	value := func(sp *models.Space) int {
		v := t.price(sp) + buildingLevel(sp.Deed)*(sp.Deed.BuildingCost/2)
		if sp.Deed.Mortgaged {
			v -= sp.Deed.MortgageValue
		}
		return v
	}
	sort.SliceStable(out, func(i, j int) bool { return value(out[i]) > value(out[j]) })
	return out
}

func acceptPaymentPlan(t *txn, actor *models.Player, args Args) error {
	r, err := t.rentStep(models.RentDebtorDecision)
	if err != nil {
		return err
	}
	if actor.Cash < r.PlanCashNow {
		return ErrInsufficientFunds
	}
	creditor := t.s.PlayerByID(r.CreditorID)
	t.transfer(actor, creditor, r.PlanCashNow)
	iou := models.IOU{
		ID:           t.e.newID(),
		DebtorID:     actor.ID,
		CreditorID:   creditor.ID,
		Principal:    r.PlanIOU,
		AmountOwed:   r.PlanIOU,
		InterestRate: r.InterestRate,
		CreatedRound: t.s.RoundsCompleted,
	}
	actor.IOUsPayable = append(actor.IOUsPayable, iou)
	creditor.IOUsReceivable = append(creditor.IOUsReceivable, iou.ID)
	t.s.PendingRentNegotiation = nil
	t.logf("%s accepted the plan and owes %s £%d", actor.Name, creditor.Name, iou.AmountOwed)
	t.returnToRolling()
	return nil
}

func rejectPaymentPlan(t *txn, actor *models.Player, args Args) error {
	r, err := t.rentStep(models.RentDebtorDecision)
	if err != nil {
		return err
	}
	r.Status = models.RentCreditorDecision
	r.PlanCashNow, r.PlanIOU = 0, 0
	r.RejectedPlans++
	t.logf("%s rejected the payment plan", actor.Name)
	return nil
}

package engine

import (
	"fmt"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/economy"
)

// loanLimit is the share of net worth a player may owe the bank.
const loanLimit = 0.5

// Borrowable is how much more p may borrow from the bank. The limit is measured against net worth
// less what p already owes the bank, so borrowed cash never raises it.
func Borrowable(s *models.GameState, p *models.Player) int {
	outstanding := 0
	for _, l := range p.BankLoans {
		outstanding += l.AmountOwed
	}
	limit := int(float64(economy.NetWorth(p, s)-outstanding) * loanLimit)
	return maxInt(limit-outstanding, 0)
}

func takeLoan(t *txn, actor *models.Player, args Args) error {
	amount, err := args.Int(0)
	if err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("%w: loan amount %d", ErrBadArgument, amount)
	}
	if amount > Borrowable(t.s, actor) {
		return ErrLoanLimit
	}
	loan := models.BankLoan{
		ID:           t.e.newID(),
		Principal:    amount,
		AmountOwed:   amount,
		InterestRate: t.s.Settings.LoanInterestRate,
		TakenRound:   t.s.RoundsCompleted,
		DueRound:     t.s.RoundsCompleted + t.s.Settings.LoanTermRounds,
	}
	actor.BankLoans = append(actor.BankLoans, loan)
	actor.Cash += amount
	t.logf("%s borrowed £%d from the bank", actor.Name, amount)
	return nil
}

func repayLoan(t *txn, actor *models.Player, args Args) error {
	id, err := args.String(0)
	if err != nil {
		return err
	}
	for _, l := range actor.BankLoans {
		if l.ID != id {
			continue
		}
		if actor.Cash < l.AmountOwed {
			return ErrInsufficientFunds
		}
		t.transfer(actor, nil, l.AmountOwed)
		actor.BankLoans = removeLoan(actor.BankLoans, id)
		t.logf("%s repaid £%d to the bank", actor.Name, l.AmountOwed)
		return nil
	}
	return fmt.Errorf("%w: no loan %q", ErrBadArgument, id)
}

func removeLoan(loans []models.BankLoan, id string) []models.BankLoan {
	out := loans[:0]
	for _, l := range loans {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out
}

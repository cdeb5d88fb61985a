package engine

import (
	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
)

func startGame(t *txn, actor *models.Player, args Args) error {
	t.s.CurrentPlayerIndex = 0
	t.logf("%s started the game", actor.Name)
	t.beginTurn()
	return nil
}

func rollDice(t *txn, actor *models.Player, args Args) error {
	if t.s.Turn.HasRolled {
		return ErrAlreadyRolled
	}
	// the previous roll never survives into a new one
	t.s.DiceRoll = nil
	d1, d2 := t.e.dice.Roll()
	roll := models.DiceRoll{Die1: d1, Die2: d2}
	t.s.DiceRoll = &roll
	t.s.Turn.HasRolled = true
	t.logf("%s rolled %d and %d", actor.Name, d1, d2)

	if roll.Doubles() {
		t.s.Turn.DoublesCount++
		if t.s.Turn.DoublesCount >= 3 {
			t.logf("%s rolled three doubles and goes to jail", actor.Name)
			t.sendToJail(actor)
			t.s.Phase = models.PhaseJailDecision
			return nil
		}
	} else {
		t.s.Turn.DoublesCount = 0
	}
	t.move(actor, roll.Total(), true)
	t.land(actor)
	return nil
}

func endTurn(t *txn, actor *models.Player, args Args) error {
	if !t.s.Turn.HasRolled {
		return ErrMustRoll
	}
	if actor.Cash < 0 {
		t.s.PendingBankruptcy = &models.Bankruptcy{
			DebtorID: actor.ID,
			Amount:   -actor.Cash,
			Reason:   "negative balance at end of turn",
			Resume:   models.ResumeEndTurn,
		}
		t.s.Phase = models.PhaseAwaitingBankruptcy
		t.logf("%s ends the turn owing the bank £%d", actor.Name, -actor.Cash)
		return nil
	}
	t.advanceTurn()
	return nil
}

// move advances p by steps, paying the GO salary when the token passes or lands on GO.
func (t *txn) move(p *models.Player, steps int, collectGo bool) {
	size := len(t.s.Spaces)
	next := ((p.Position+steps)%size + size) % size
	if collectGo && steps > 0 && p.Position+steps >= size {
		p.Cash += t.s.CurrentGoSalary
		t.logf("%s passed GO and collected £%d", p.Name, t.s.CurrentGoSalary)
	}
	p.Position = next
}

// moveTo sends p forward to position, passing GO if the board wraps.
func (t *txn) moveTo(p *models.Player, position int) {
	steps := position - p.Position
	if steps < 0 {
		steps += len(t.s.Spaces)
	}
	t.move(p, steps, true)
}

func (t *txn) sendToJail(p *models.Player) {
	p.Position = board.JailPosition
	p.InJail = true
	p.JailTurns = 0
	t.s.Turn.DoublesCount = 0
	t.s.Turn.HasRolled = true
}

// finishLanding closes a landing with nothing pending: the doubles loop re-enters rolling for the
// same player, anything else waits in resolving_space for endTurn.
func (t *txn) finishLanding() {
	cur := t.current()
	if t.s.DiceRoll != nil && t.s.DiceRoll.Doubles() && t.s.Turn.DoublesCount > 0 && cur != nil && !cur.InJail {
		t.s.Turn.HasRolled = false
		t.s.Phase = models.PhaseRolling
		return
	}
	t.s.Phase = models.PhaseResolvingSpace
}

// returnToRolling ends a side branch. After doubles the player may roll again, otherwise endTurn
// is the only way forward.
func (t *txn) returnToRolling() {
	cur := t.current()
	if t.s.DiceRoll != nil && t.s.DiceRoll.Doubles() && t.s.Turn.DoublesCount > 0 && cur != nil && !cur.InJail {
		t.s.Turn.HasRolled = false
	}
	t.s.Phase = models.PhaseRolling
}

// startPlaying puts the current player into the first phase of a turn.
func (t *txn) startPlaying() {
	cur := t.current()
	if cur != nil && cur.InJail && !t.s.Turn.HasRolled {
		t.s.Phase = models.PhaseJailDecision
		return
	}
	t.s.Phase = models.PhaseRolling
}

// advanceTurn hands the turn to the next non-bankrupt player, completing a round on wrap.
func (t *txn) advanceTurn() {
	if t.checkGameOver() {
		return
	}
	n := len(t.s.Players)
	wrapped := false
	next := t.s.CurrentPlayerIndex
	for step := 1; step <= n; step++ {
		next = (t.s.CurrentPlayerIndex + step) % n
		if next == 0 {
			wrapped = true
		}
		if !t.s.Players[next].Bankrupt {
			break
		}
	}
	t.s.DiceRoll = nil
	t.s.Turn = models.TurnState{TurnNumber: t.s.Turn.TurnNumber + 1}
	t.s.CurrentPlayerIndex = next
	if wrapped {
		t.completeRound()
	}
	t.beginTurn()
}

// beginTurn opens the turn of the current player: outstanding debts first, then jail, then rolling.
func (t *txn) beginTurn() {
	cur := t.current()
	t.logf("%s's turn", cur.Name)
	if items := t.dueDebts(cur); len(items) > 0 {
		t.s.PendingDebtService = &models.DebtService{PlayerID: cur.ID, Items: items}
		t.s.Phase = models.PhaseAwaitingDebtService
		return
	}
	t.startPlaying()
}

// checkGameOver ends the session when at most one solvent player remains.
func (t *txn) checkGameOver() bool {
	active := t.s.ActivePlayers()
	if len(active) > 1 {
		return false
	}
	t.s.Phase = models.PhaseGameOver
	t.s.Auction = nil
	t.s.Trade = nil
	t.s.PendingRentNegotiation = nil
	t.s.PendingBankruptcy = nil
	t.s.PendingForeclosure = nil
	t.s.PendingDebtService = nil
	t.s.AwaitingTaxDecision = nil
	if len(active) == 1 {
		t.s.WinnerID = active[0].ID
		t.logf("%s wins the game", active[0].Name)
	}
	return true
}

package engine

import "github.com/DedS3t/monopoly-engine/app/models"

// maxJailRolls is the number of failed doubles attempts after which the fine is forced.
const maxJailRolls = 3

func payJailFine(t *txn, actor *models.Player, args Args) error {
	if !actor.InJail {
		return ErrNotInJail
	}
	if actor.Cash < JailFine {
		return ErrInsufficientFunds
	}
	t.transfer(actor, nil, JailFine)
	t.release(actor)
	t.logf("%s paid £%d to leave jail", actor.Name, JailFine)
	t.s.Phase = models.PhaseRolling
	return nil
}

func useJailCard(t *txn, actor *models.Player, args Args) error {
	if !actor.InJail {
		return ErrNotInJail
	}
	if actor.JailFreeCards <= 0 {
		return ErrBadArgument
	}
	actor.JailFreeCards--
	t.release(actor)
	t.logf("%s used a get out of jail free card", actor.Name)
	t.s.Phase = models.PhaseRolling
	return nil
}

// rollForDoubles tries to leave jail with a roll. Doubles release the player and move them without
// a reroll. The third failure forces the fine and moves the player anyway.
func rollForDoubles(t *txn, actor *models.Player, args Args) error {
	if !actor.InJail {
		return ErrNotInJail
	}
	if t.s.Turn.HasRolled {
		return ErrAlreadyRolled
	}
	t.s.DiceRoll = nil
	d1, d2 := t.e.dice.Roll()
	roll := models.DiceRoll{Die1: d1, Die2: d2}
	t.s.DiceRoll = &roll
	t.s.Turn.HasRolled = true
	t.s.Turn.DoublesCount = 0

	switch {
	case roll.Doubles():
		t.logf("%s rolled doubles and leaves jail", actor.Name)
	case actor.JailTurns+1 >= maxJailRolls:
		t.transfer(actor, nil, JailFine)
		t.logf("%s failed a third time and paid £%d", actor.Name, JailFine)
	default:
		actor.JailTurns++
		t.logf("%s stays in jail", actor.Name)
		return nil
	}
	t.release(actor)
	t.move(actor, roll.Total(), true)
	t.land(actor)
	return nil
}

func (t *txn) release(p *models.Player) {
	p.InJail = false
	p.JailTurns = 0
}

package engine

import (
	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/economy"
)

// land resolves the space under p after a move.
func (t *txn) land(p *models.Player) {
	sp := t.s.Space(p.Position)
	if sp == nil {
		t.finishLanding()
		return
	}
	t.logf("%s landed on %s", p.Name, sp.Name)

	switch sp.Kind {
	case models.KindProperty, models.KindRailroad, models.KindUtility:
		t.landOnDeed(p, sp)
	case models.KindTax:
		t.landOnTax(p, sp)
	case models.KindChance:
		t.drawCard(p, "chance")
	case models.KindCommunityChest:
		t.drawCard(p, "chest")
	case models.KindGoToJail:
		t.sendToJail(p)
		t.logf("%s goes to jail", p.Name)
		t.s.Phase = models.PhaseResolvingSpace
	case models.KindGo, models.KindJail, models.KindFreeParking:
		t.finishLanding()
	}
}

func (t *txn) landOnDeed(p *models.Player, sp *models.Space) {
	d := sp.Deed
	switch {
	case !d.Owned():
		t.s.Phase = models.PhaseAwaitingBuyDecision
	case d.OwnerID == p.ID, d.Mortgaged:
		t.finishLanding()
	default:
		owner := t.s.PlayerByID(d.OwnerID)
		dice := 0
		if t.s.DiceRoll != nil {
			dice = t.s.DiceRoll.Total()
		}
		rent := economy.Rent(t.s, sp, dice)
		if rent <= 0 || owner == nil {
			t.finishLanding()
			return
		}
		if p.Cash < rent {
			t.s.PendingRentNegotiation = &models.RentNegotiation{
				DebtorID:     p.ID,
				CreditorID:   owner.ID,
				PropertyID:   sp.Position,
				Amount:       rent,
				Status:       models.RentCreditorDecision,
				InterestRate: t.s.Settings.IOUInterestRate,
			}
			t.s.Phase = models.PhaseAwaitingRentNegotiation
			t.logf("%s cannot cover £%d rent owed to %s", p.Name, rent, owner.Name)
			return
		}
		t.transfer(p, owner, rent)
		t.logf("%s paid £%d rent to %s", p.Name, rent, owner.Name)
		t.finishLanding()
	}
}

// landOnTax opens the income tax choice on a flat-or-percentage space and charges the fixed
// amount elsewhere. A charge larger than the player's cash leaves it negative until endTurn.
func (t *txn) landOnTax(p *models.Player, sp *models.Space) {
	if sp.Progressive {
		flat, percent := economy.TaxOptions(economy.NetWorth(p, t.s))
		t.s.AwaitingTaxDecision = &models.TaxDecision{PlayerID: p.ID, FlatAmount: flat, PercentAmount: percent}
		t.s.Phase = models.PhaseAwaitingTaxDecision
		return
	}
	t.transfer(p, nil, sp.TaxAmount)
	t.logf("%s paid £%d tax", p.Name, sp.TaxAmount)
	t.finishLanding()
}

func chooseTaxOption(t *txn, actor *models.Player, args Args) error {
	choice, err := args.String(0)
	if err != nil {
		return err
	}
	decision := t.s.AwaitingTaxDecision
	if decision == nil || decision.PlayerID != actor.ID {
		return ErrWrongNegotiationStep
	}
	var amount int
	switch models.TaxOption(choice) {
	case models.TaxFlat:
		amount = decision.FlatAmount
	case models.TaxPercent:
		amount = decision.PercentAmount
	default:
		return ErrBadArgument
	}
	t.transfer(actor, nil, amount)
	t.s.AwaitingTaxDecision = nil
	t.logf("%s paid £%d income tax (%s)", actor.Name, amount, choice)
	t.returnToRolling()
	return nil
}

// drawCard applies a random card of deck to p.
func (t *txn) drawCard(p *models.Player, deck string) {
	cards := t.e.decks[deck]
	if len(cards) == 0 {
		t.finishLanding()
		return
	}
	card := cards[t.e.rng.Intn(len(cards))]
	t.logf("%s drew: %s", p.Name, card.Info)

	switch card.Action {
	case models.SpecialChange:
		p.Cash += card.Payload
	case models.SpecialMove:
		t.moveTo(p, card.Payload)
		t.land(p)
		return
	case models.SpecialBack:
		t.move(p, -card.Payload, false)
		t.land(p)
		return
	case models.SpecialJail:
		t.sendToJail(p)
		t.s.Phase = models.PhaseResolvingSpace
		return
	case models.SpecialJailFree:
		p.JailFreeCards++
	case models.SpecialCollectEach:
		for _, other := range t.s.ActivePlayers() {
			if other.ID == p.ID {
				continue
			}
			amount := card.Payload
			if other.Cash < amount {
				amount = maxInt(other.Cash, 0)
			}
			t.transfer(other, p, amount)
		}
	}
	t.finishLanding()
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

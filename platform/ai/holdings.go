package ai

import (
	"math"
	"sort"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
	"github.com/DedS3t/monopoly-engine/platform/economy"
	"github.com/DedS3t/monopoly-engine/platform/engine"
)

const (
	// tradeCooldown is the number of turns between offers to the same opponent.
	tradeCooldown = 5
	// maxTradeRejections stops offers to an opponent that keeps saying no.
	maxTradeRejections = 3
	baseTradePremium   = 1.5
	tradePremiumStep   = 0.5
)

func groupSize(s *models.GameState, group string) int {
	return len(board.Group(s.Spaces, group))
}

func countHeld(s *models.GameState, playerID, group string) int {
	return board.CountOwned(s.Spaces, playerID, group)
}

func level(d *models.Deed) int {
	if d.Hotel {
		return 5
	}
	return d.Houses
}

// distress raises cash while the balance is negative.
func (b *brain) distress() *Action {
	if b.p.Cash >= 0 {
		return nil
	}
	return b.raise(-b.p.Cash)
}

// raise finds one way to bring in need: sell a building, then mortgage, then borrow.
func (b *brain) raise(need int) *Action {
	s, p := b.s, b.p
	owned := s.OwnedBy(p.ID)

	var tallest *models.Space
	for _, sp := range owned {
		if sp.Deed.Developed() && (tallest == nil || level(sp.Deed) > level(tallest.Deed)) {
			tallest = sp
		}
	}
	if tallest != nil {
		if a := b.try(engine.CmdSellBuilding, tallest.Position); a != nil {
			return a
		}
	}

	var mortgageable []*models.Space
	for _, sp := range owned {
		if !sp.Deed.Mortgaged && !groupDeveloped(s, sp.Deed.Group) {
			mortgageable = append(mortgageable, sp)
		}
	}
	sort.SliceStable(mortgageable, func(i, j int) bool {
		mi := board.HasMonopoly(s.Spaces, p.ID, mortgageable[i].Deed.Group)
		mj := board.HasMonopoly(s.Spaces, p.ID, mortgageable[j].Deed.Group)
		if mi != mj {
			return !mi
		}
		return mortgageable[i].Deed.MortgageValue < mortgageable[j].Deed.MortgageValue
	})
	for _, sp := range mortgageable {
		if a := b.try(engine.CmdMortgageProperty, sp.Position); a != nil {
			return a
		}
	}

	owed := 0
	for _, l := range p.BankLoans {
		owed += l.AmountOwed
	}
	appetite := int(b.profile.LoanAppetite * float64(maxInt(b.worth, 0)))
	if need > 0 && owed+need <= appetite && need <= engine.Borrowable(s, p) {
		return b.try(engine.CmdTakeLoan, need)
	}
	return nil
}

func groupDeveloped(s *models.GameState, group string) bool {
	for _, m := range board.Group(s.Spaces, group) {
		if m.Deed.Developed() {
			return true
		}
	}
	return false
}

// initiateTrade offers cash for the last deed missing from a colour group.
func (b *brain) initiateTrade() *Action {
	s, p := b.s, b.p
	if p.Cash < 0 || !engine.Legal(s, p.ID, engine.CmdProposeTrade) {
		return nil
	}
	for _, group := range board.Groups(s.Spaces) {
		members := board.Group(s.Spaces, group)
		if members[0].Kind != models.KindProperty || countHeld(s, p.ID, group) != len(members)-1 {
			continue
		}
		var missing *models.Space
		for _, m := range members {
			if m.Deed.OwnerID != p.ID {
				missing = m
			}
		}
		owner := s.PlayerByID(missing.Deed.OwnerID)
		if owner == nil || owner.Bankrupt || missing.Deed.Developed() {
			continue
		}
		rec, seen := p.TradeHistory[owner.ID]
		if rec.Rejections >= maxTradeRejections {
			continue
		}
		if seen && s.Turn.TurnNumber-rec.LastTurn < tradeCooldown {
			continue
		}
		premium := baseTradePremium + tradePremiumStep*float64(rec.Rejections)
		cash := int(math.Ceil(float64(economy.MarketPrice(s, missing)) * premium))
		if cash > b.spendable() {
			continue
		}
		offer := models.TradeOffer{CashOffered: cash, PropertiesRequested: []int{missing.Position}}
		if a := b.try(engine.CmdProposeTrade, owner.ID, offer, false); a != nil {
			return a
		}
	}
	return nil
}

// develop spends surplus cash: one building, else an unmortgage, insurance or a loan repayment.
func (b *brain) develop() *Action {
	s, p := b.s, b.p
	if p.Cash < 0 || !engine.Legal(s, p.ID, engine.CmdBuildHouse) {
		return nil
	}
	if a := b.build(); a != nil {
		return a
	}

	reserve := b.reserve()
	for _, sp := range s.OwnedBy(p.ID) {
		if sp.Deed.Mortgaged && b.spendable()-engine.UnmortgageCost(sp.Deed) >= reserve {
			if a := b.try(engine.CmdUnmortgageProperty, sp.Position); a != nil {
				return a
			}
		}
	}
	for _, sp := range s.OwnedBy(p.ID) {
		d := sp.Deed
		if !d.Developed() || economy.Insured(d, s.RoundsCompleted) {
			continue
		}
		if b.spendable()-engine.InsuranceCost(s, sp) >= reserve {
			if a := b.try(engine.CmdBuyInsurance, sp.Position); a != nil {
				return a
			}
		}
	}
	for _, l := range p.BankLoans {
		if b.spendable()-l.AmountOwed >= reserve {
			if a := b.try(engine.CmdRepayLoan, l.ID); a != nil {
				return a
			}
		}
	}
	return nil
}

// build picks the lowest deed of the first affordable monopoly, keeping the group even.
func (b *brain) build() *Action {
	s, p := b.s, b.p
	for _, group := range board.Monopolies(s.Spaces, p.ID) {
		members := board.Group(s.Spaces, group)
		var lowest *models.Space
		mortgaged := false
		for _, m := range members {
			mortgaged = mortgaged || m.Deed.Mortgaged
			if !m.Deed.Hotel && (lowest == nil || level(m.Deed) < level(lowest.Deed)) {
				lowest = m
			}
		}
		if mortgaged || lowest == nil || lowest.Deed.BuildingCost > b.spendable() {
			continue
		}
		if s.Settings.EnableHousingScarcity {
			if lowest.Deed.Houses == 4 && s.AvailableHotels == 0 {
				continue
			}
			if lowest.Deed.Houses < 4 && s.AvailableHouses == 0 {
				continue
			}
		}
		if a := b.try(engine.CmdBuildHouse, lowest.Position); a != nil {
			return a
		}
	}
	return nil
}

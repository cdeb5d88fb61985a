package engine

import (
	"fmt"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
)

const (
	housesPerHotel     = 4
	unmortgagePremium  = 1.1
	hotelBuildingCount = 5
)

// landedDeed returns the unowned space the current player is deciding on.
func (t *txn) landedDeed(p *models.Player) (*models.Space, error) {
	sp := t.s.Space(p.Position)
	if sp == nil || sp.Deed == nil || sp.Deed.Owned() {
		return nil, ErrInvalidProperty
	}
	return sp, nil
}

func buyProperty(t *txn, actor *models.Player, args Args) error {
	sp, err := t.landedDeed(actor)
	if err != nil {
		return err
	}
	price := t.price(sp)
	if actor.Cash < price {
		return fmt.Errorf("%w: %s costs £%d", ErrInsufficientFunds, sp.Name, price)
	}
	t.transfer(actor, nil, price)
	sp.Deed.OwnerID = actor.ID
	t.logf("%s bought %s for £%d", actor.Name, sp.Name, price)
	t.returnToRolling()
	return nil
}

func declineProperty(t *txn, actor *models.Player, args Args) error {
	sp, err := t.landedDeed(actor)
	if err != nil {
		return err
	}
	t.logf("%s declined %s, auction opens", actor.Name, sp.Name)
	t.openAuction(sp)
	return nil
}

// buildingLevel counts the buildings on a deed, a hotel counting as five.
func buildingLevel(d *models.Deed) int {
	if d.Hotel {
		return hotelBuildingCount
	}
	return d.Houses
}

func buildHouse(t *txn, actor *models.Player, args Args) error {
	pos, err := args.Int(0)
	if err != nil {
		return err
	}
	sp, err := t.ownedSpace(actor, pos)
	if err != nil {
		return err
	}
	d := sp.Deed
	if sp.Kind != models.KindProperty || d.Hotel {
		return ErrInvalidProperty
	}
	if !board.HasMonopoly(t.s.Spaces, actor.ID, d.Group) {
		return ErrNotMonopoly
	}
	group := board.Group(t.s.Spaces, d.Group)
	for _, m := range group {
		if m.Deed.Mortgaged {
			return fmt.Errorf("%w: %s is mortgaged", ErrInvalidProperty, m.Name)
		}
		if buildingLevel(m.Deed) < d.Houses {
			return ErrUnevenBuild
		}
	}
	if actor.Cash < d.BuildingCost {
		return ErrInsufficientFunds
	}
	scarce := t.s.Settings.EnableHousingScarcity
	if d.Houses < housesPerHotel {
		if scarce && t.s.AvailableHouses <= 0 {
			return ErrNoBuildingStock
		}
		d.Houses++
		if scarce {
			t.s.AvailableHouses--
		}
		t.logf("%s built a house on %s", actor.Name, sp.Name)
	} else {
		if scarce && t.s.AvailableHotels <= 0 {
			return ErrNoBuildingStock
		}
		d.Houses = 0
		d.Hotel = true
		if scarce {
			t.s.AvailableHotels--
			t.s.AvailableHouses += housesPerHotel
		}
		t.logf("%s built a hotel on %s", actor.Name, sp.Name)
	}
	t.transfer(actor, nil, d.BuildingCost)
	return nil
}

func sellBuilding(t *txn, actor *models.Player, args Args) error {
	pos, err := args.Int(0)
	if err != nil {
		return err
	}
	sp, err := t.ownedSpace(actor, pos)
	if err != nil {
		return err
	}
	d := sp.Deed
	if !d.Developed() {
		return ErrInvalidProperty
	}
	level := buildingLevel(d)
	for _, m := range board.Group(t.s.Spaces, d.Group) {
		if buildingLevel(m.Deed) > level {
			return ErrUnevenBuild
		}
	}
	half := d.BuildingCost / 2
	scarce := t.s.Settings.EnableHousingScarcity
	switch {
	case !d.Hotel:
		d.Houses--
		if scarce {
			t.s.AvailableHouses++
		}
		actor.Cash += half
	case !scarce || t.s.AvailableHouses >= housesPerHotel:
		d.Hotel = false
		d.Houses = housesPerHotel
		if scarce {
			t.s.AvailableHotels++
			t.s.AvailableHouses -= housesPerHotel
		}
		actor.Cash += half
	default:
		// not enough houses to break the hotel down: the whole stack goes back to the bank
		d.Hotel = false
		d.Houses = 0
		t.s.AvailableHotels++
		actor.Cash += hotelBuildingCount * half
	}
	t.logf("%s sold a building on %s", actor.Name, sp.Name)
	return nil
}

// clearBuildings returns every building on sp to the pool and reports their half-cost value.
func (t *txn) clearBuildings(sp *models.Space) int {
	d := sp.Deed
	if d == nil || !d.Developed() {
		return 0
	}
	value := buildingLevel(d) * (d.BuildingCost / 2)
	if t.s.Settings.EnableHousingScarcity {
		if d.Hotel {
			t.s.AvailableHotels++
		} else {
			t.s.AvailableHouses += d.Houses
		}
	}
	d.Houses = 0
	d.Hotel = false
	return value
}

func mortgageProperty(t *txn, actor *models.Player, args Args) error {
	pos, err := args.Int(0)
	if err != nil {
		return err
	}
	sp, err := t.ownedSpace(actor, pos)
	if err != nil {
		return err
	}
	if sp.Deed.Mortgaged {
		return ErrInvalidProperty
	}
	for _, m := range board.Group(t.s.Spaces, sp.Deed.Group) {
		if m.Deed.Developed() {
			return fmt.Errorf("%w: sell the buildings of %s first", ErrInvalidProperty, sp.Deed.Group)
		}
	}
	sp.Deed.Mortgaged = true
	actor.Cash += sp.Deed.MortgageValue
	t.logf("%s mortgaged %s for £%d", actor.Name, sp.Name, sp.Deed.MortgageValue)
	return nil
}

// UnmortgageCost is the mortgage value plus ten percent, rounded up.
func UnmortgageCost(d *models.Deed) int {
	return ceilMoney(float64(d.MortgageValue) * unmortgagePremium)
}

func unmortgageProperty(t *txn, actor *models.Player, args Args) error {
	pos, err := args.Int(0)
	if err != nil {
		return err
	}
	sp, err := t.ownedSpace(actor, pos)
	if err != nil {
		return err
	}
	if !sp.Deed.Mortgaged {
		return ErrInvalidProperty
	}
	cost := UnmortgageCost(sp.Deed)
	if actor.Cash < cost {
		return ErrInsufficientFunds
	}
	t.transfer(actor, nil, cost)
	sp.Deed.Mortgaged = false
	t.logf("%s lifted the mortgage on %s for £%d", actor.Name, sp.Name, cost)
	return nil
}

// InsuranceCost is the premium for covering sp at its current market price.
func InsuranceCost(s *models.GameState, sp *models.Space) int {
	price := float64(sp.Deed.Price) * sp.Deed.ValueMultiplier
	return ceilMoney(price * s.Settings.InsuranceCostPercent)
}

func buyInsurance(t *txn, actor *models.Player, args Args) error {
	pos, err := args.Int(0)
	if err != nil {
		return err
	}
	sp, err := t.ownedSpace(actor, pos)
	if err != nil {
		return err
	}
	if sp.Deed.IsInsured && sp.Deed.InsurancePaidUntilRound >= t.s.RoundsCompleted {
		return fmt.Errorf("%w: %s is already insured", ErrInvalidProperty, sp.Name)
	}
	cost := InsuranceCost(t.s, sp)
	if actor.Cash < cost {
		return ErrInsufficientFunds
	}
	t.transfer(actor, nil, cost)
	sp.Deed.IsInsured = true
	sp.Deed.InsurancePaidUntilRound = t.s.RoundsCompleted + t.s.Settings.InsuranceRounds
	t.logf("%s insured %s until round %d", actor.Name, sp.Name, sp.Deed.InsurancePaidUntilRound)
	return nil
}

// seize hands sp to newOwner ("" for the bank), clearing buildings and insurance. It returns the
// value credited to the debt: the market price (less the mortgage when mortgaged) plus buildings.
func (t *txn) seize(sp *models.Space, newOwner string) int {
	value := t.price(sp)
	if sp.Deed.Mortgaged {
		value -= sp.Deed.MortgageValue
	}
	value += t.clearBuildings(sp)
	sp.Deed.OwnerID = newOwner
	sp.Deed.IsInsured = false
	sp.Deed.InsurancePaidUntilRound = 0
	if newOwner == "" {
		sp.Deed.Mortgaged = false
	}
	return maxInt(value, 0)
}

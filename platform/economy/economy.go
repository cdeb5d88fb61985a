// Package economy holds the pure economic rules of a session: prices, rent, tax, salary and wealth
// distribution. Nothing here mutates state.
package economy

import (
	"math"
	"sort"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
)

const (
	BaseGoSalary     = 200
	MaxGoSalary      = 350
	GoSalaryStep     = 25
	FlatIncomeTax    = 200
	IncomeTaxPercent = 0.10
	JailCardValue    = 50
	MinBidIncrement  = 10
)

var priceModifiers = map[models.EventType]float64{
	models.EventRecession:      0.8,
	models.EventMarketCrash:    0.8,
	models.EventHousingCrisis:  0.85,
	models.EventRealEstateBoom: 1.15,
	models.EventBullMarket:     1.2,
}

var rentModifiers = map[models.EventType]float64{
	models.EventRecession:      0.75,
	models.EventMarketCrash:    0.8,
	models.EventHousingCrisis:  0.85,
	models.EventRealEstateBoom: 1.15,
	models.EventBullMarket:     1.2,
}

// firstActive returns the highest-precedence active event.
func firstActive(events []models.EconomicEvent) (models.EventType, bool) {
	for _, t := range models.EventPrecedence {
		for _, e := range events {
			if e.Type == t && e.TurnsRemaining > 0 {
				return t, true
			}
		}
	}
	return "", false
}

// PriceModifier is the price multiplier of the winning active event, 1 when none is active.
func PriceModifier(events []models.EconomicEvent) float64 {
	if t, ok := firstActive(events); ok {
		return priceModifiers[t]
	}
	return 1.0
}

// RentEventModifier is the rent multiplier of the winning active event, 1 when none is active.
func RentEventModifier(events []models.EconomicEvent) float64 {
	if t, ok := firstActive(events); ok {
		return rentModifiers[t]
	}
	return 1.0
}

// Insured reports whether the deed's coverage is active in round.
func Insured(d *models.Deed, round int) bool {
	return d.IsInsured && d.InsurancePaidUntilRound >= round
}

// CurrentPriceF is the unrounded market price of a space.
func CurrentPriceF(s *models.Space, events []models.EconomicEvent, round int) float64 {
	if s == nil || s.Deed == nil {
		return 0
	}
	mod := PriceModifier(events)
	if mod < 1 && Insured(s.Deed, round) {
		mod = 1
	}
	mult := s.Deed.ValueMultiplier
	if mult <= 0 {
		mult = 1
	}
	return float64(s.Deed.Price) * mult * mod
}

// CurrentPrice is the market price of a space under the active events, rounded.
func CurrentPrice(s *models.Space, events []models.EconomicEvent, round int) int {
	return int(math.Round(CurrentPriceF(s, events, round)))
}

// MarketPrice is CurrentPrice evaluated against a session state.
func MarketPrice(state *models.GameState, s *models.Space) int {
	return CurrentPrice(s, state.ActiveEconomicEvents, state.RoundsCompleted)
}

// NetWorth is cash plus the liquidation-adjusted value of the player's holdings.
func NetWorth(p *models.Player, state *models.GameState) int {
	total := float64(p.Cash)
	for _, s := range state.Spaces {
		if !s.OwnedBy(p.ID) {
			continue
		}
		price := CurrentPriceF(s, state.ActiveEconomicEvents, state.RoundsCompleted)
		if s.Deed.Mortgaged {
			total += price - float64(s.Deed.MortgageValue)
		} else {
			total += price
		}
		half := float64(s.Deed.BuildingCost) / 2
		total += float64(s.Deed.Houses) * half
		if s.Deed.Hotel {
			total += 5 * half
		}
	}
	total += float64(p.JailFreeCards * JailCardValue)
	return int(math.Round(total))
}

// Gini computes the wealth inequality index of a set of net worths (rank-weighted form over the
// ascending order), clamped to [0,1].
// It is 0 for one value or less and when the total is not positive.
func Gini(worths []int) float64 {
	n := len(worths)
	if n <= 1 {
		return 0
	}
	sorted := append([]int(nil), worths...)
	sort.Ints(sorted)
	total := 0.0
	for _, w := range sorted {
		total += float64(w)
	}
	if total <= 0 {
		return 0
	}
	weighted := 0.0
	for i, w := range sorted {
		weighted += float64(i+1) * float64(w)
	}
	fn := float64(n)
	g := (2*weighted)/(fn*total) - (fn+1)/fn
	if g < 0 {
		return 0
	}
	if g > 1 {
		return 1
	}
	return g
}

// GiniOf computes the index over the non-bankrupt players of a session.
func GiniOf(state *models.GameState) float64 {
	var worths []int
	for _, p := range state.Players {
		if !p.Bankrupt {
			worths = append(worths, NetWorth(p, state))
		}
	}
	return Gini(worths)
}

// TaxOptions returns the flat and percentage income tax for a net worth.
func TaxOptions(netWorth int) (flat, percent int) {
	percent = int(math.Floor(IncomeTaxPercent * float64(netWorth)))
	if percent < 0 {
		percent = 0
	}
	return FlatIncomeTax, percent
}

// OptimalTaxChoice returns the cheaper option and its amount. Ties go to flat.
func OptimalTaxChoice(netWorth int) (models.TaxOption, int) {
	flat, percent := TaxOptions(netWorth)
	if percent < flat {
		return models.TaxPercent, percent
	}
	return models.TaxFlat, flat
}

// GoSalary is the salary for passing GO after rounds completed laps.
func GoSalary(rounds int) int {
	if rounds < 0 {
		rounds = 0
	}
	salary := BaseGoSalary + GoSalaryStep*(rounds/2)
	if salary > MaxGoSalary {
		return MaxGoSalary
	}
	return salary
}

// Inflation is the relative growth of the GO salary over its base.
func Inflation(salary int) float64 {
	return float64(salary)/BaseGoSalary - 1
}

// BaseRent is the undiscounted rent owed on a space for a roll of diceTotal.
func BaseRent(s *models.Space, spaces []*models.Space, diceTotal int) int {
	d := s.Deed
	if d == nil || !d.Owned() || d.Mortgaged {
		return 0
	}
	switch s.Kind {
	case models.KindProperty:
		switch {
		case d.Hotel:
			return d.Rents[len(d.Rents)-1]
		case d.Houses > 0:
			return d.Rents[d.Houses]
		case board.HasMonopoly(spaces, d.OwnerID, d.Group):
			return d.BaseRent * 2
		default:
			return d.BaseRent
		}
	case models.KindRailroad:
		n := board.CountOwned(spaces, d.OwnerID, d.Group)
		return tier(d.Rents, n)
	case models.KindUtility:
		n := board.CountOwned(spaces, d.OwnerID, d.Group)
		return tier(d.Rents, n) * diceTotal
	}
	return 0
}

func tier(rents []int, owned int) int {
	if owned <= 0 || len(rents) == 0 {
		return 0
	}
	if owned > len(rents) {
		owned = len(rents)
	}
	return rents[owned-1]
}

// Rent is BaseRent scaled by the active market event.
func Rent(state *models.GameState, s *models.Space, diceTotal int) int {
	base := BaseRent(s, state.Spaces, diceTotal)
	return int(math.Round(float64(base) * RentEventModifier(state.ActiveEconomicEvents)))
}

// MinimumBid is the smallest legal bid in an auction at currentBid for a property worth price.
func MinimumBid(currentBid, price int) int {
	if currentBid <= 0 {
		return maxInt(MinBidIncrement, ceilPercent(price, 10))
	}
	return currentBid + maxInt(MinBidIncrement, ceilPercent(currentBid, 10))
}

// Snapshot measures the market of a session at the end of a round.
func Snapshot(state *models.GameState) models.MarketSnapshot {
	circulation := 0
	for _, p := range state.Players {
		if !p.Bankrupt {
			circulation += p.Cash
		}
	}
	events := make([]models.EventType, 0, len(state.ActiveEconomicEvents))
	for _, e := range state.ActiveEconomicEvents {
		events = append(events, e.Type)
	}
	return models.MarketSnapshot{
		Round:       state.RoundsCompleted,
		Gini:        GiniOf(state),
		Inflation:   Inflation(state.CurrentGoSalary),
		Circulation: circulation,
		GoSalary:    state.CurrentGoSalary,
		Events:      events,
	}
}

func ceilPercent(v, pct int) int {
	return (v*pct + 99) / 100
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

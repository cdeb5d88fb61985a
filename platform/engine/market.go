package engine

import (
	"math"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/economy"
)

const (
	minValueMultiplier = 0.7
	maxValueMultiplier = 1.5
	multiplierDrift    = 0.05
)

var eventDescriptions = map[models.EventType]string{
	models.EventRecession:      "Recession: prices and rents fall",
	models.EventMarketCrash:    "Market crash: property values collapse",
	models.EventHousingCrisis:  "Housing crisis: buyers disappear",
	models.EventRealEstateBoom: "Real estate boom: property is in demand",
	models.EventBullMarket:     "Bull market: everything is worth more",
}

// completeRound runs once every time the turn order wraps.
func (t *txn) completeRound() {
	s := t.s
	s.RoundsCompleted++
	s.CurrentGoSalary = economy.GoSalary(s.RoundsCompleted)

	active := s.ActiveEconomicEvents[:0]
	for _, ev := range s.ActiveEconomicEvents {
		ev.TurnsRemaining--
		if ev.TurnsRemaining > 0 {
			active = append(active, ev)
		} else {
			t.logf("%s is over", ev.Type)
		}
	}
	s.ActiveEconomicEvents = active

	if s.Settings.EnableMarketEvents {
		t.driftValues()
		if len(s.ActiveEconomicEvents) == 0 && t.e.rng.Float64() < s.Settings.MarketEventChance {
			t.startEvent()
		}
	}

	for _, p := range s.Players {
		for i := range p.BankLoans {
			l := &p.BankLoans[i]
			l.AmountOwed += ceilRate(l.AmountOwed, l.InterestRate)
		}
	}
	for _, sp := range s.Spaces {
		if sp.Deed != nil && sp.Deed.IsInsured && sp.Deed.InsurancePaidUntilRound < s.RoundsCompleted {
			sp.Deed.IsInsured = false
			sp.Deed.InsurancePaidUntilRound = 0
		}
	}
	s.MarketHistory = append(s.MarketHistory, economy.Snapshot(s))
}

// driftValues nudges every deed's value multiplier by up to five percent either way.
func (t *txn) driftValues() {
	for _, sp := range t.s.Spaces {
		if sp.Deed == nil {
			continue
		}
		delta := (t.e.rng.Float64()*2 - 1) * multiplierDrift
		m := sp.Deed.ValueMultiplier * (1 + delta)
		m = math.Max(minValueMultiplier, math.Min(maxValueMultiplier, m))
		sp.Deed.ValueMultiplier = math.Round(m*1000) / 1000
	}
}

func (t *txn) startEvent() {
	kind := models.EventPrecedence[t.e.rng.Intn(len(models.EventPrecedence))]
	ev := models.EconomicEvent{
		Type:           kind,
		Description:    eventDescriptions[kind],
		TurnsRemaining: 2 + t.e.rng.Intn(3),
		StartedRound:   t.s.RoundsCompleted,
	}
	t.s.ActiveEconomicEvents = append(t.s.ActiveEconomicEvents, ev)
	t.logf("%s", ev.Description)
}

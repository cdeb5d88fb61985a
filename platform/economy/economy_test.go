package economy

import (
	"testing"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
)

func newState(players ...*models.Player) *models.GameState {
	return &models.GameState{
		Players:         players,
		Spaces:          board.NewSpaces(board.DefaultProperties()),
		CurrentGoSalary: BaseGoSalary,
	}
}

func TestGini(t *testing.T) {
	tests := []struct {
		name   string
		worths []int
		want   float64
	}{
		{name: "empty", worths: nil, want: 0},
		{name: "single player", worths: []int{1500}, want: 0},
		{name: "equal wealth", worths: []int{1500, 1500, 1500}, want: 0},
		{name: "zero total", worths: []int{0, 0}, want: 0},
		{name: "one holds everything", worths: []int{0, 0, 0, 100}, want: 0.75},
		{name: "two players split", worths: []int{100, 300}, want: 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Gini(tt.worths)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Gini(%v) = %v, want %v", tt.worths, got, tt.want)
			}
		})
	}
}

func TestGiniBounded(t *testing.T) {
	sets := [][]int{
		{1, 2, 3, 4, 5},
		{-500, 100, 2000},
		{10000, 1},
		{7, 7, 7, 8},
	}
	for _, s := range sets {
		g := Gini(s)
		if g < 0 || g > 1 {
			t.Errorf("Gini(%v) = %v, outside [0,1]", s, g)
		}
	}
}

func TestGoSalary(t *testing.T) {
	prev := 0
	for rounds := 0; rounds <= 40; rounds++ {
		got := GoSalary(rounds)
		if got < prev {
			t.Fatalf("GoSalary(%d) = %d decreased from %d", rounds, got, prev)
		}
		if got > MaxGoSalary {
			t.Fatalf("GoSalary(%d) = %d above cap", rounds, got)
		}
		prev = got
	}
	if got := GoSalary(0); got != 200 {
		t.Errorf("GoSalary(0) = %d, want 200", got)
	}
	if got := GoSalary(3); got != 225 {
		t.Errorf("GoSalary(3) = %d, want 225", got)
	}
	if got := GoSalary(100); got != 350 {
		t.Errorf("GoSalary(100) = %d, want 350", got)
	}
}

func TestOptimalTaxChoice(t *testing.T) {
	tests := []struct {
		netWorth   int
		wantOption models.TaxOption
		wantAmount int
	}{
		{netWorth: 1500, wantOption: models.TaxPercent, wantAmount: 150},
		{netWorth: 2000, wantOption: models.TaxFlat, wantAmount: 200},
		{netWorth: 5000, wantOption: models.TaxFlat, wantAmount: 200},
		{netWorth: 1999, wantOption: models.TaxPercent, wantAmount: 199},
		{netWorth: -40, wantOption: models.TaxPercent, wantAmount: 0},
	}
	for _, tt := range tests {
		option, amount := OptimalTaxChoice(tt.netWorth)
		flat, percent := TaxOptions(tt.netWorth)
		smaller := flat
		if percent < smaller {
			smaller = percent
		}
		if amount != smaller {
			t.Errorf("net worth %d: amount %d is not the smaller of %d and %d", tt.netWorth, amount, flat, percent)
		}
		if option != tt.wantOption || amount != tt.wantAmount {
			t.Errorf("net worth %d: got (%s, %d), want (%s, %d)", tt.netWorth, option, amount, tt.wantOption, tt.wantAmount)
		}
	}
}

func TestModifiersPrecedence(t *testing.T) {
	events := []models.EconomicEvent{
		{Type: models.EventBullMarket, TurnsRemaining: 2},
		{Type: models.EventRecession, TurnsRemaining: 1},
	}
	if got := PriceModifier(events); got != 0.8 {
		t.Errorf("PriceModifier = %v, want recession 0.8", got)
	}
	if got := RentEventModifier(events); got != 0.75 {
		t.Errorf("RentEventModifier = %v, want recession 0.75", got)
	}
	if got := PriceModifier(events[:1]); got != 1.2 {
		t.Errorf("PriceModifier(bull) = %v, want 1.2", got)
	}
	expired := []models.EconomicEvent{{Type: models.EventMarketCrash, TurnsRemaining: 0}}
	if got := RentEventModifier(expired); got != 1 {
		t.Errorf("expired event still applied: %v", got)
	}
}

func TestNetWorth(t *testing.T) {
	p := &models.Player{ID: "a", Cash: 1000, JailFreeCards: 1}
	state := newState(p)

	mayfair := state.Spaces[39]
	mayfair.Deed.OwnerID = "a"
	mayfair.Deed.Houses = 2
	kings := state.Spaces[5]
	kings.Deed.OwnerID = "a"
	kings.Deed.Mortgaged = true

	// 1000 cash + 400 + 2*100 + (200 - 100) + 50
	if got := NetWorth(p, state); got != 1750 {
		t.Errorf("NetWorth = %d, want 1750", got)
	}

	state.ActiveEconomicEvents = []models.EconomicEvent{{Type: models.EventBullMarket, TurnsRemaining: 3}}
	// 1000 + 480 + 200 + (240 - 100) + 50
	if got := NetWorth(p, state); got != 1870 {
		t.Errorf("NetWorth under bull market = %d, want 1870", got)
	}
}

func TestInsuranceShieldsPrice(t *testing.T) {
	state := newState()
	s := state.Spaces[39]
	state.ActiveEconomicEvents = []models.EconomicEvent{{Type: models.EventMarketCrash, TurnsRemaining: 3}}
	if got := MarketPrice(state, s); got != 320 {
		t.Fatalf("uninsured crash price = %d, want 320", got)
	}
	s.Deed.IsInsured = true
	s.Deed.InsurancePaidUntilRound = 4
	if got := MarketPrice(state, s); got != 400 {
		t.Errorf("insured crash price = %d, want 400", got)
	}
	state.RoundsCompleted = 5
	if got := MarketPrice(state, s); got != 320 {
		t.Errorf("lapsed insurance price = %d, want 320", got)
	}
}

func TestRent(t *testing.T) {
	state := newState(&models.Player{ID: "a"}, &models.Player{ID: "b"})
	oldKent, whitechapel := state.Spaces[1], state.Spaces[3]
	oldKent.Deed.OwnerID = "a"

	if got := Rent(state, oldKent, 7); got != 2 {
		t.Errorf("base rent = %d, want 2", got)
	}
	whitechapel.Deed.OwnerID = "a"
	if got := Rent(state, oldKent, 7); got != 4 {
		t.Errorf("monopoly rent = %d, want 4", got)
	}
	oldKent.Deed.Houses = 3
	if got := Rent(state, oldKent, 7); got != 90 {
		t.Errorf("three house rent = %d, want 90", got)
	}
	oldKent.Deed.Houses, oldKent.Deed.Hotel = 0, true
	if got := Rent(state, oldKent, 7); got != 250 {
		t.Errorf("hotel rent = %d, want 250", got)
	}

	state.Spaces[5].Deed.OwnerID = "b"
	state.Spaces[15].Deed.OwnerID = "b"
	if got := Rent(state, state.Spaces[5], 7); got != 50 {
		t.Errorf("two stations rent = %d, want 50", got)
	}
	state.Spaces[12].Deed.OwnerID = "b"
	if got := Rent(state, state.Spaces[12], 7); got != 28 {
		t.Errorf("one utility rent = %d, want 28", got)
	}
	state.Spaces[28].Deed.OwnerID = "b"
	if got := Rent(state, state.Spaces[12], 7); got != 70 {
		t.Errorf("two utilities rent = %d, want 70", got)
	}

	state.Spaces[12].Deed.Mortgaged = true
	if got := Rent(state, state.Spaces[12], 7); got != 0 {
		t.Errorf("mortgaged rent = %d, want 0", got)
	}

	state.ActiveEconomicEvents = []models.EconomicEvent{{Type: models.EventRecession, TurnsRemaining: 1}}
	if got := Rent(state, state.Spaces[5], 7); got != 38 {
		t.Errorf("recession station rent = %d, want 38", got)
	}
}

func TestMinimumBid(t *testing.T) {
	tests := []struct {
		current, price, want int
	}{
		{current: 0, price: 60, want: 10},
		{current: 0, price: 400, want: 40},
		{current: 0, price: 355, want: 36},
		{current: 40, price: 400, want: 50},
		{current: 250, price: 400, want: 275},
	}
	for _, tt := range tests {
		if got := MinimumBid(tt.current, tt.price); got != tt.want {
			t.Errorf("MinimumBid(%d, %d) = %d, want %d", tt.current, tt.price, got, tt.want)
		}
	}
}

package models

// GameSettings holds the per-session feature toggles. Normalize fills every zero value once,
// at session creation, so nothing downstream needs fallbacks.
type GameSettings struct {
	EnableHousingScarcity   bool    `json:"enableHousingScarcity"`
	EnableBankLoans         bool    `json:"enableBankLoans"`
	EnablePropertyInsurance bool    `json:"enablePropertyInsurance"`
	EnableMarketEvents      bool    `json:"enableMarketEvents"`
	IOUInterestRate         float64 `json:"iouInterestRate"`
	InsuranceCostPercent    float64 `json:"insuranceCostPercent"`
	InsuranceRounds         int     `json:"insuranceRounds"`
	Chapter11Turns          int     `json:"chapter11Turns"`
	LoanInterestRate        float64 `json:"loanInterestRate"`
	LoanTermRounds          int     `json:"loanTermRounds"`
	StartingCash            int     `json:"startingCash"`
	InitialHouses           int     `json:"initialHouses"`
	InitialHotels           int     `json:"initialHotels"`
	// MarketEventChance is the probability that a new event starts on a round with none active.
	MarketEventChance float64 `json:"marketEventChance"`
}

// DefaultSettings returns the standard rule set.
func DefaultSettings() GameSettings {
	return GameSettings{
		EnableHousingScarcity:   true,
		EnableBankLoans:         true,
		EnablePropertyInsurance: true,
		EnableMarketEvents:      true,
		IOUInterestRate:         0.05,
		InsuranceCostPercent:    0.05,
		InsuranceRounds:         5,
		Chapter11Turns:          5,
		LoanInterestRate:        0.05,
		LoanTermRounds:          10,
		StartingCash:            1500,
		InitialHouses:           32,
		InitialHotels:           12,
		MarketEventChance:       0.15,
	}
}

// Normalize replaces zero or out-of-range numeric fields with their defaults.
func (s GameSettings) Normalize() GameSettings {
	d := DefaultSettings()
	if s.IOUInterestRate <= 0 {
		s.IOUInterestRate = d.IOUInterestRate
	}
	if s.InsuranceCostPercent <= 0 {
		s.InsuranceCostPercent = d.InsuranceCostPercent
	}
	if s.InsuranceRounds <= 0 {
		s.InsuranceRounds = d.InsuranceRounds
	}
	if s.Chapter11Turns <= 0 {
		s.Chapter11Turns = d.Chapter11Turns
	}
	if s.LoanInterestRate <= 0 {
		s.LoanInterestRate = d.LoanInterestRate
	}
	if s.LoanTermRounds <= 0 {
		s.LoanTermRounds = d.LoanTermRounds
	}
	if s.StartingCash <= 0 {
		s.StartingCash = d.StartingCash
	}
	if s.InitialHouses <= 0 {
		s.InitialHouses = d.InitialHouses
	}
	if s.InitialHotels <= 0 {
		s.InitialHotels = d.InitialHotels
	}
	if s.MarketEventChance < 0 || s.MarketEventChance > 1 {
		s.MarketEventChance = d.MarketEventChance
	}
	return s
}

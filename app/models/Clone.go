package models

// Clone returns a deep copy of the state. The engine mutates a clone and swaps it in only
// when a command succeeds.
func (g *GameState) Clone() *GameState {
	if g == nil {
		return nil
	}
	c := *g
	c.Players = make([]*Player, len(g.Players))
	for i, p := range g.Players {
		c.Players[i] = p.Clone()
	}
	c.Spaces = make([]*Space, len(g.Spaces))
	for i, s := range g.Spaces {
		c.Spaces[i] = s.Clone()
	}
	if g.DiceRoll != nil {
		d := *g.DiceRoll
		c.DiceRoll = &d
	}
	if g.Auction != nil {
		a := *g.Auction
		a.PassedPlayers = make(map[string]bool, len(g.Auction.PassedPlayers))
		for k, v := range g.Auction.PassedPlayers {
			a.PassedPlayers[k] = v
		}
		c.Auction = &a
	}
	if g.Trade != nil {
		t := *g.Trade
		t.Offer = g.Trade.Offer.Clone()
		if g.Trade.Counter != nil {
			counter := g.Trade.Counter.Clone()
			t.Counter = &counter
		}
		c.Trade = &t
	}
	if g.PendingRentNegotiation != nil {
		r := *g.PendingRentNegotiation
		c.PendingRentNegotiation = &r
	}
	if g.PendingBankruptcy != nil {
		b := *g.PendingBankruptcy
		c.PendingBankruptcy = &b
	}
	if g.PendingForeclosure != nil {
		f := *g.PendingForeclosure
		c.PendingForeclosure = &f
	}
	if g.PendingDebtService != nil {
		d := *g.PendingDebtService
		d.Items = append([]DebtItem(nil), g.PendingDebtService.Items...)
		c.PendingDebtService = &d
	}
	if g.AwaitingTaxDecision != nil {
		t := *g.AwaitingTaxDecision
		c.AwaitingTaxDecision = &t
	}
	c.MarketHistory = make([]MarketSnapshot, len(g.MarketHistory))
	for i, m := range g.MarketHistory {
		m.Events = append([]EventType(nil), m.Events...)
		c.MarketHistory[i] = m
	}
	c.ActiveEconomicEvents = append([]EconomicEvent(nil), g.ActiveEconomicEvents...)
	c.Log = append([]string(nil), g.Log...)
	return &c
}

// Clone returns a deep copy of the player.
func (p *Player) Clone() *Player {
	c := *p
	c.BankLoans = append([]BankLoan(nil), p.BankLoans...)
	c.IOUsPayable = append([]IOU(nil), p.IOUsPayable...)
	c.IOUsReceivable = append([]string(nil), p.IOUsReceivable...)
	c.TradeHistory = make(map[string]TradeRecord, len(p.TradeHistory))
	for k, v := range p.TradeHistory {
		c.TradeHistory[k] = v
	}
	if p.Chapter11 != nil {
		ch := *p.Chapter11
		c.Chapter11 = &ch
	}
	return &c
}

// Clone returns a deep copy of the space.
func (s *Space) Clone() *Space {
	c := *s
	if s.Deed != nil {
		d := *s.Deed
		d.Rents = append([]int(nil), s.Deed.Rents...)
		c.Deed = &d
	}
	return &c
}

// Clone returns a deep copy of the offer.
func (o TradeOffer) Clone() TradeOffer {
	o.PropertiesOffered = append([]int(nil), o.PropertiesOffered...)
	o.PropertiesRequested = append([]int(nil), o.PropertiesRequested...)
	return o
}

package ai

import (
	"math"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
	"github.com/DedS3t/monopoly-engine/platform/economy"
)

const (
	completesWeight = 4.0
	blocksWeight    = 2.5
	groupWeight     = 1.5
	plainWeight     = 1.0

	// counterAcceptance is the share of the given value a counter offer must return.
	counterAcceptance = 0.95
)

// Weight is how much holding the deed at pos is worth to holderID relative to its price.
func Weight(s *models.GameState, holderID string, pos int) float64 {
	sp := s.Space(pos)
	if sp == nil || sp.Deed == nil {
		return plainWeight
	}
	var others []*models.Space
	for _, m := range board.Group(s.Spaces, sp.Deed.Group) {
		if m.Position != pos {
			others = append(others, m)
		}
	}
	if len(others) == 0 {
		return plainWeight
	}
	held := 0
	rival := others[0].Deed.OwnerID
	for _, m := range others {
		if m.Deed.OwnerID == holderID {
			held++
		}
		if m.Deed.OwnerID != rival {
			rival = ""
		}
	}
	switch {
	case held == len(others):
		return completesWeight
	case rival != "" && rival != holderID:
		return blocksWeight
	case held > 0:
		return groupWeight
	}
	return plainWeight
}

// Valuation prices a bundle of cash, properties and jail cards from the point of view of holderID.
// A bundle that moves nothing is worth exactly 0.
func Valuation(s *models.GameState, holderID string, cash int, properties []int, jailCards int) int {
	total := float64(cash + economy.JailCardValue*jailCards)
	for _, pos := range properties {
		sp := s.Space(pos)
		if sp == nil || sp.Deed == nil {
			continue
		}
		total += float64(economy.MarketPrice(s, sp)) * Weight(s, holderID, pos)
	}
	return int(math.Round(total))
}

// offerValues returns what holderID would receive and give if o executed, holderID being the
// receiver of the trade when receiver is set and the initiator otherwise.
func offerValues(s *models.GameState, holderID string, o models.TradeOffer, receiver bool) (received, given int) {
	offered := Valuation(s, holderID, o.CashOffered, o.PropertiesOffered, o.JailCardsOffered)
	requested := Valuation(s, holderID, o.CashRequested, o.PropertiesRequested, o.JailCardsRequested)
	if receiver {
		return offered, requested
	}
	return requested, offered
}

package engine

import (
	"fmt"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/economy"
)

// openAuction starts bidding on sp with the current player first.
func (t *txn) openAuction(sp *models.Space) {
	t.s.Auction = &models.Auction{
		PropertyID:        sp.Position,
		ActivePlayerIndex: t.s.CurrentPlayerIndex,
		PassedPlayers:     map[string]bool{},
	}
	t.s.Phase = models.PhaseAuction
	if !t.eligible(t.s.Players[t.s.CurrentPlayerIndex]) {
		t.rotateBidder()
	}
}

// eligible reports whether p can still act in the auction.
func (t *txn) eligible(p *models.Player) bool {
	return !p.Bankrupt && !t.s.Auction.PassedPlayers[p.ID]
}

// MinimumBid is the smallest bid the auction accepts next.
func MinimumBid(s *models.GameState) int {
	if s.Auction == nil {
		return 0
	}
	sp := s.Space(s.Auction.PropertyID)
	return economy.MinimumBid(s.Auction.CurrentBid, economy.MarketPrice(s, sp))
}

func placeBid(t *txn, actor *models.Player, args Args) error {
	amount, err := args.Int(0)
	if err != nil {
		return err
	}
	minBid := MinimumBid(t.s)
	if amount < minBid {
		return fmt.Errorf("%w: minimum is £%d", ErrBidTooLow, minBid)
	}
	if amount > actor.Cash {
		return ErrInsufficientFunds
	}
	t.s.Auction.CurrentBid = amount
	t.s.Auction.HighestBidder = actor.ID
	t.logf("%s bid £%d", actor.Name, amount)
	t.advanceAuction()
	return nil
}

func passBid(t *txn, actor *models.Player, args Args) error {
	t.s.Auction.PassedPlayers[actor.ID] = true
	t.logf("%s passed", actor.Name)
	t.advanceAuction()
	return nil
}

// advanceAuction closes the auction when nobody but the highest bidder can act, otherwise hands
// the bid to the next eligible player.
func (t *txn) advanceAuction() {
	a := t.s.Auction
	others := 0
	for _, p := range t.s.Players {
		if t.eligible(p) && p.ID != a.HighestBidder {
			others++
		}
	}
	if others == 0 {
		t.closeAuction()
		return
	}
	t.rotateBidder()
}

// rotateBidder moves the turn to the next eligible player other than the highest bidder.
func (t *txn) rotateBidder() {
	a := t.s.Auction
	n := len(t.s.Players)
	for step := 1; step <= n; step++ {
		idx := (a.ActivePlayerIndex + step) % n
		p := t.s.Players[idx]
		if t.eligible(p) && p.ID != a.HighestBidder {
			a.ActivePlayerIndex = idx
			return
		}
	}
	t.closeAuction()
}

func (t *txn) closeAuction() {
	a := t.s.Auction
	sp := t.s.Space(a.PropertyID)
	winner := t.s.PlayerByID(a.HighestBidder)
	if winner != nil && a.CurrentBid > 0 && !winner.Bankrupt {
		t.transfer(winner, nil, a.CurrentBid)
		sp.Deed.OwnerID = winner.ID
		t.logf("%s won %s for £%d", winner.Name, sp.Name, a.CurrentBid)
	} else {
		t.logf("nobody bought %s", sp.Name)
	}
	t.s.Auction = nil
	t.returnToRolling()
}

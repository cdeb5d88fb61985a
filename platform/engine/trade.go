package engine

import (
	"fmt"

	"github.com/DedS3t/monopoly-engine/app/models"
)

func openTrade(t *txn, actor *models.Player, args Args) error {
	receiverID, err := args.String(0)
	if err != nil {
		return err
	}
	receiver := t.s.PlayerByID(receiverID)
	if receiver == nil || receiver.Bankrupt || receiver.ID == actor.ID {
		return fmt.Errorf("%w: cannot trade with %q", ErrUnknownPlayer, receiverID)
	}
	t.s.Trade = &models.Trade{
		ID:          t.e.newID(),
		InitiatorID: actor.ID,
		ReceiverID:  receiver.ID,
		Status:      models.TradeDraft,
	}
	t.s.Phase = models.PhaseTrading
	t.logf("%s opened a trade with %s", actor.Name, receiver.Name)
	return nil
}

func updateTrade(t *txn, actor *models.Player, args Args) error {
	if t.s.Trade.Status != models.TradeDraft {
		return ErrWrongNegotiationStep
	}
	offer, err := args.Offer(0)
	if err != nil {
		return err
	}
	if err := t.checkOffer(offer, false); err != nil {
		return err
	}
	t.s.Trade.Offer = offer
	t.s.Trade.NeedsConfirmation = offer.RequestsNothing() && !offer.Empty()
	return nil
}

// submitTrade sends a draft to the receiver. An offer that asks nothing back is held as a draft
// until the initiator confirms it.
func submitTrade(t *txn, actor *models.Player, args Args) error {
	if t.s.Trade.Status != models.TradeDraft {
		return ErrWrongNegotiationStep
	}
	confirm, err := args.BoolOr(0, false)
	if err != nil {
		return err
	}
	return t.submit(actor, confirm)
}

func (t *txn) submit(actor *models.Player, confirm bool) error {
	tr := t.s.Trade
	if tr.Offer.Empty() {
		return ErrEmptyOffer
	}
	if err := t.checkOffer(tr.Offer, true); err != nil {
		return err
	}
	if tr.Offer.RequestsNothing() && !confirm {
		tr.NeedsConfirmation = true
		t.logf("%s must confirm a trade that asks nothing in return", actor.Name)
		return nil
	}
	tr.NeedsConfirmation = false
	tr.Status = models.TradePending
	actor.LastTradeTurn = t.s.Turn.TurnNumber
	if actor.TradeHistory == nil {
		actor.TradeHistory = map[string]models.TradeRecord{}
	}
	rec := actor.TradeHistory[tr.ReceiverID]
	rec.LastTurn = t.s.Turn.TurnNumber
	actor.TradeHistory[tr.ReceiverID] = rec
	t.logf("%s proposed a trade to %s", actor.Name, t.s.PlayerByID(tr.ReceiverID).Name)
	return nil
}

func proposeTrade(t *txn, actor *models.Player, args Args) error {
	if err := openTrade(t, actor, args); err != nil {
		return err
	}
	offer, err := args.Offer(1)
	if err != nil {
		return err
	}
	confirm, err := args.BoolOr(2, false)
	if err != nil {
		return err
	}
	if err := t.checkOffer(offer, false); err != nil {
		return err
	}
	t.s.Trade.Offer = offer
	return t.submit(actor, confirm)
}

func acceptTrade(t *txn, actor *models.Player, args Args) error {
	tr := t.s.Trade
	if tr.Status != models.TradePending {
		return ErrWrongNegotiationStep
	}
	if err := t.checkOffer(tr.Offer, true); err != nil {
		return err
	}
	t.executeOffer(tr.Offer)
	initiator := t.s.PlayerByID(tr.InitiatorID)
	rec := initiator.TradeHistory[actor.ID]
	rec.Rejections = 0
	initiator.TradeHistory[actor.ID] = rec
	t.closeTrade(models.TradeAccepted, fmt.Sprintf("%s accepted the trade", actor.Name))
	return nil
}

func rejectTrade(t *txn, actor *models.Player, args Args) error {
	tr := t.s.Trade
	if tr.Status != models.TradePending {
		return ErrWrongNegotiationStep
	}
	initiator := t.s.PlayerByID(tr.InitiatorID)
	if initiator.TradeHistory == nil {
		initiator.TradeHistory = map[string]models.TradeRecord{}
	}
	rec := initiator.TradeHistory[actor.ID]
	rec.Rejections++
	initiator.TradeHistory[actor.ID] = rec
	t.closeTrade(models.TradeRejected, fmt.Sprintf("%s rejected the trade", actor.Name))
	return nil
}

// counterTrade replaces a pending offer with the receiver's terms. The counter keeps the
// orientation of the first offer: "offered" is still what the initiator gives.
func counterTrade(t *txn, actor *models.Player, args Args) error {
	tr := t.s.Trade
	if tr.Status != models.TradePending {
		return ErrWrongNegotiationStep
	}
	offer, err := args.Offer(0)
	if err != nil {
		return err
	}
	if offer.Empty() {
		return ErrEmptyOffer
	}
	if err := t.checkOffer(offer, true); err != nil {
		return err
	}
	tr.Counter = &offer
	tr.Status = models.TradeCounterPending
	t.logf("%s countered the trade", actor.Name)
	return nil
}

func acceptCounter(t *txn, actor *models.Player, args Args) error {
	tr := t.s.Trade
	if tr.Status != models.TradeCounterPending || tr.Counter == nil {
		return ErrWrongNegotiationStep
	}
	if err := t.checkOffer(*tr.Counter, true); err != nil {
		return err
	}
	t.executeOffer(*tr.Counter)
	t.closeTrade(models.TradeAccepted, fmt.Sprintf("%s accepted the counter offer", actor.Name))
	return nil
}

func rejectCounter(t *txn, actor *models.Player, args Args) error {
	if t.s.Trade.Status != models.TradeCounterPending {
		return ErrWrongNegotiationStep
	}
	t.closeTrade(models.TradeRejected, fmt.Sprintf("%s rejected the counter offer", actor.Name))
	return nil
}

func cancelTrade(t *txn, actor *models.Player, args Args) error {
	switch t.s.Trade.Status {
	case models.TradeDraft, models.TradePending:
	default:
		return ErrWrongNegotiationStep
	}
	t.closeTrade(models.TradeCancelled, fmt.Sprintf("%s cancelled the trade", actor.Name))
	return nil
}

func (t *txn) closeTrade(status models.TradeStatus, msg string) {
	t.s.Trade.Status = status
	t.logf("%s", msg)
	t.s.Trade = nil
	t.returnToRolling()
}

// checkOffer validates an offer against the open trade's parties. Holdings are only checked when
// funded is set, so drafts may be edited freely.
func (t *txn) checkOffer(o models.TradeOffer, funded bool) error {
	if o.CashOffered < 0 || o.CashRequested < 0 || o.JailCardsOffered < 0 || o.JailCardsRequested < 0 {
		return fmt.Errorf("%w: negative amounts", ErrBadArgument)
	}
	initiator := t.s.PlayerByID(t.s.Trade.InitiatorID)
	receiver := t.s.PlayerByID(t.s.Trade.ReceiverID)
	if err := t.checkTradeable(initiator, o.PropertiesOffered); err != nil {
		return err
	}
	if err := t.checkTradeable(receiver, o.PropertiesRequested); err != nil {
		return err
	}
	if !funded {
		return nil
	}
	if initiator.Cash < o.CashOffered || receiver.Cash < o.CashRequested {
		return ErrInsufficientFunds
	}
	if initiator.JailFreeCards < o.JailCardsOffered || receiver.JailFreeCards < o.JailCardsRequested {
		return fmt.Errorf("%w: not enough jail cards", ErrBadArgument)
	}
	return nil
}

func (t *txn) checkTradeable(owner *models.Player, positions []int) error {
	seen := map[int]bool{}
	for _, pos := range positions {
		if seen[pos] {
			return fmt.Errorf("%w: property %d listed twice", ErrBadArgument, pos)
		}
		seen[pos] = true
		sp, err := t.ownedSpace(owner, pos)
		if err != nil {
			return err
		}
		if sp.Deed.Developed() {
			return fmt.Errorf("%w: %s has buildings", ErrNotTradeable, sp.Name)
		}
	}
	return nil
}

func (t *txn) executeOffer(o models.TradeOffer) {
	initiator := t.s.PlayerByID(t.s.Trade.InitiatorID)
	receiver := t.s.PlayerByID(t.s.Trade.ReceiverID)
	t.transfer(initiator, receiver, o.CashOffered)
	t.transfer(receiver, initiator, o.CashRequested)
	initiator.JailFreeCards += o.JailCardsRequested - o.JailCardsOffered
	receiver.JailFreeCards += o.JailCardsOffered - o.JailCardsRequested
	for _, pos := range o.PropertiesOffered {
		t.s.Space(pos).Deed.OwnerID = receiver.ID
	}
	for _, pos := range o.PropertiesRequested {
		t.s.Space(pos).Deed.OwnerID = initiator.ID
	}
}

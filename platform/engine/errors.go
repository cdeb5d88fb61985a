package engine

import "errors"

// Illegal-action errors. Dispatch logs them and leaves the state untouched.
var (
	ErrUnknownCommand       = errors.New("unknown command")
	ErrWrongPhase           = errors.New("command not legal in current phase")
	ErrNotAuthorized        = errors.New("actor may not issue this command now")
	ErrUnknownPlayer        = errors.New("player not found")
	ErrFeatureDisabled      = errors.New("feature disabled by game settings")
	ErrBadArgument          = errors.New("bad argument")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidProperty      = errors.New("invalid property")
	ErrBidTooLow            = errors.New("bid below minimum")
	ErrNotTradeable         = errors.New("property not tradeable")
	ErrEmptyOffer           = errors.New("trade moves nothing")
	ErrNoBuildingStock      = errors.New("no buildings left in the bank")
	ErrUnevenBuild          = errors.New("buildings must be spread evenly across the group")
	ErrNotMonopoly          = errors.New("group is not a monopoly")
	ErrAlreadyRolled        = errors.New("dice already rolled this turn")
	ErrMustRoll             = errors.New("dice not rolled yet")
	ErrChapter11Used        = errors.New("chapter 11 protection already used")
	ErrLoanLimit            = errors.New("loan exceeds borrowing limit")
	ErrNotInJail            = errors.New("player is not in jail")
	ErrWrongNegotiationStep = errors.New("negotiation is waiting on another step")
)

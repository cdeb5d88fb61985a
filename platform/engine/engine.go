// Package engine is the authoritative phase state machine of a session. Every mutation enters through
// Dispatch or Execute, is checked against the command's legal phases and actor, and runs on a copy of
// the state that replaces the live state only when the command succeeds.
package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
	"github.com/DedS3t/monopoly-engine/platform/economy"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

const (
	MinPlayers   = 2
	MaxPlayers   = 8
	JailFine     = 50
	maxLogLength = 50
)

// Seat is a roster entry used to create the players of a session.
type Seat struct {
	ID         string
	Name       string
	Token      string
	IsAI       bool
	Difficulty models.Difficulty
}

// Roller produces a pair of dice.
type Roller interface {
	Roll() (int, int)
}

type randRoller struct {
	rng *rand.Rand
}

func (r randRoller) Roll() (int, int) {
	return r.rng.Intn(6) + 1, r.rng.Intn(6) + 1
}

// Command is one action submitted by an actor.
type Command struct {
	ActorID string
	Name    string
	Args    Args
}

// Engine owns the state of a single session. It is not safe for concurrent use; callers
// serialize commands (see the session package).
type Engine struct {
	state *models.GameState
	decks map[string][]models.Special
	rng   *rand.Rand
	dice  Roller
	newID func() string
	log   *logrus.Entry
}

// Option customises an Engine.
type Option func(*Engine)

// WithDice replaces the random dice.
func WithDice(r Roller) Option {
	return func(e *Engine) { e.dice = r }
}

// WithRand seeds card draws, market events and the default dice.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithIDs replaces the uuid generator.
func WithIDs(f func() string) Option {
	return func(e *Engine) { e.newID = f }
}

// WithLogger sets the logger entry used for diagnostics.
func WithLogger(l *logrus.Entry) Option {
	return func(e *Engine) { e.log = l }
}

// WithDecks replaces the chance ("chance") and community chest ("chest") decks.
func WithDecks(decks map[string][]models.Special) Option {
	return func(e *Engine) { e.decks = decks }
}

// New creates a session in the setup phase.
func New(id string, properties []models.Property, seats []Seat, settings models.GameSettings, opts ...Option) (*Engine, error) {
	if err := board.Validate(properties); err != nil {
		return nil, err
	}
	if len(seats) < MinPlayers || len(seats) > MaxPlayers {
		return nil, fmt.Errorf("need between %d and %d players, got %d", MinPlayers, MaxPlayers, len(seats))
	}
	settings = settings.Normalize()

	players := make([]*models.Player, 0, len(seats))
	seen := map[string]bool{}
	for _, s := range seats {
		if s.ID == "" || seen[s.ID] {
			return nil, fmt.Errorf("seat ids must be unique and non-empty: %q", s.ID)
		}
		seen[s.ID] = true
		difficulty := s.Difficulty
		if s.IsAI && !difficulty.Valid() {
			difficulty = models.DifficultyMedium
		}
		players = append(players, &models.Player{
			ID:           s.ID,
			Name:         s.Name,
			Token:        s.Token,
			Cash:         settings.StartingCash,
			IsAI:         s.IsAI,
			AIDifficulty: difficulty,
			TradeHistory: map[string]models.TradeRecord{},
		})
	}

	e := &Engine{
		state: &models.GameState{
			ID:              id,
			Players:         players,
			Spaces:          board.NewSpaces(properties),
			Phase:           models.PhaseSetup,
			Settings:        settings,
			AvailableHouses: settings.InitialHouses,
			AvailableHotels: settings.InitialHotels,
			CurrentGoSalary: economy.GoSalary(0),
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.dice == nil {
		e.dice = randRoller{rng: e.rng}
	}
	if e.newID == nil {
		e.newID = func() string { return uuid.NewV4().String() }
	}
	if e.log == nil {
		e.log = logrus.WithField("game", id)
	}
	if e.decks == nil {
		e.decks = board.LoadSpecial()
	}
	return e, nil
}

// State returns a snapshot of the current state.
func (e *Engine) State() *models.GameState {
	return e.state.Clone()
}

// Dispatch runs a command and returns the resulting snapshot. Illegal commands are logged and
// leave the state unchanged.
func (e *Engine) Dispatch(actorID, name string, args ...interface{}) *models.GameState {
	state, _ := e.Execute(Command{ActorID: actorID, Name: name, Args: args})
	return state
}

// Execute runs a command and also reports why it was ignored, if it was.
func (e *Engine) Execute(cmd Command) (state *models.GameState, err error) {
	logger := e.log.WithFields(logrus.Fields{"actor": cmd.ActorID, "command": cmd.Name})
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command panicked: %v", r)
			logger.WithField("panic", r).Error("command aborted")
			state = e.state.Clone()
		}
	}()

	def, ok := commands[cmd.Name]
	if !ok {
		logger.Warn(ErrUnknownCommand)
		return e.state.Clone(), ErrUnknownCommand
	}
	if err := e.authorize(def, cmd.ActorID); err != nil {
		logger.WithError(err).WithField("phase", e.state.Phase).Warn("command ignored")
		return e.state.Clone(), err
	}

	t := &txn{s: e.state.Clone(), e: e}
	actor := t.s.PlayerByID(cmd.ActorID)
	if err := def.run(t, actor, cmd.Args); err != nil {
		logger.WithError(err).WithField("phase", e.state.Phase).Warn("command ignored")
		return e.state.Clone(), err
	}
	t.s.Version++
	e.state = t.s
	logger.WithField("phase", e.state.Phase).Debug("command applied")
	return e.state.Clone(), nil
}

func (e *Engine) authorize(def command, actorID string) error {
	s := e.state
	if def.gate != nil && !def.gate(s.Settings) {
		return ErrFeatureDisabled
	}
	if !phaseIn(s.Phase, def.phases) {
		return ErrWrongPhase
	}
	actor := s.PlayerByID(actorID)
	if actor == nil {
		return ErrUnknownPlayer
	}
	if actor.Bankrupt {
		return ErrNotAuthorized
	}
	if !actorAllowed(s, def.actor, actorID) {
		return ErrNotAuthorized
	}
	return nil
}

func phaseIn(p models.Phase, phases []models.Phase) bool {
	for _, x := range phases {
		if x == p {
			return true
		}
	}
	return false
}

// txn is a command in flight: a private copy of the state plus the engine's collaborators.
type txn struct {
	s *models.GameState
	e *Engine
}

func (t *txn) current() *models.Player {
	return t.s.CurrentPlayer()
}

func (t *txn) logf(format string, args ...interface{}) {
	t.s.Log = append(t.s.Log, fmt.Sprintf(format, args...))
	if len(t.s.Log) > maxLogLength {
		t.s.Log = t.s.Log[len(t.s.Log)-maxLogLength:]
	}
}

func (t *txn) space(position int) (*models.Space, error) {
	sp := t.s.Space(position)
	if sp == nil {
		return nil, fmt.Errorf("%w: position %d", ErrInvalidProperty, position)
	}
	return sp, nil
}

// ownedSpace returns the ownable space at position held by p.
func (t *txn) ownedSpace(p *models.Player, position int) (*models.Space, error) {
	sp, err := t.space(position)
	if err != nil {
		return nil, err
	}
	if !sp.OwnedBy(p.ID) {
		return nil, fmt.Errorf("%w: %s is not owned by %s", ErrInvalidProperty, sp.Name, p.ID)
	}
	return sp, nil
}

func (t *txn) price(sp *models.Space) int {
	return economy.MarketPrice(t.s, sp)
}

// transfer moves cash between players; a nil side is the bank.
func (t *txn) transfer(from, to *models.Player, amount int) {
	if amount <= 0 {
		return
	}
	if from != nil {
		from.Cash -= amount
	}
	if to != nil {
		to.Cash += amount
	}
}

// IsIllegal reports whether err is one of the illegal-action errors.
func IsIllegal(err error) bool {
	for _, target := range []error{
		ErrUnknownCommand, ErrWrongPhase, ErrNotAuthorized, ErrUnknownPlayer, ErrFeatureDisabled,
		ErrBadArgument, ErrInsufficientFunds, ErrInvalidProperty, ErrBidTooLow, ErrNotTradeable,
		ErrEmptyOffer, ErrNoBuildingStock, ErrUnevenBuild, ErrNotMonopoly, ErrAlreadyRolled, ErrMustRoll,
		ErrChapter11Used, ErrLoanLimit, ErrNotInJail, ErrWrongNegotiationStep,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

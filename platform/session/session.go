// Package session wraps one engine in a lifecycle (open, active, closed) and serializes every command
// submitted to it, whether it comes from a socket, an HTTP request or the automated player scheduler.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/ai"
	"github.com/DedS3t/monopoly-engine/platform/engine"
	"github.com/sirupsen/logrus"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

var (
	ErrNotOpen   = errors.New("session is not accepting players")
	ErrNotActive = errors.New("session is not running")
	ErrFull      = errors.New("session is full")
	ErrSeatTaken = errors.New("player already seated")
	ErrNotSeated = errors.New("player is not seated")
	ErrTooFew    = errors.New("not enough players to start")
)

// Store keeps a copy of the latest state outside the process.
type Store interface {
	Save(state *models.GameState) error
	Delete(gameID string, playerIDs []string) error
}

// Session is safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	id       string
	status   Status
	seats    []engine.Seat
	board    []models.Property
	settings models.GameSettings
	opts     []engine.Option
	engine   *engine.Engine
	store    Store
	log      *logrus.Entry
	cancel   context.CancelFunc
	onChange []func(*models.GameState)
}

type Option func(*Session)

// WithStore saves a snapshot after every accepted command.
func WithStore(st Store) Option {
	return func(s *Session) { s.store = st }
}

// WithEngineOptions forwards options to the engine created by Start.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(s *Session) { s.opts = append(s.opts, opts...) }
}

func WithLogger(l *logrus.Entry) Option {
	return func(s *Session) { s.log = l }
}

// New opens a session that players can join until it starts.
func New(id string, board []models.Property, settings models.GameSettings, opts ...Option) *Session {
	s := &Session{id: id, status: StatusOpen, board: board, settings: settings}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logrus.WithField("game", id)
	}
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// OnChange registers fn to receive every state an accepted command produced. fn runs while the
// session is locked and must not call back into it.
func (s *Session) OnChange(fn func(*models.GameState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// Seats returns the current roster.
func (s *Session) Seats() []engine.Seat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]engine.Seat(nil), s.seats...)
}

func (s *Session) Join(seat engine.Seat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusOpen {
		return ErrNotOpen
	}
	if len(s.seats) >= engine.MaxPlayers {
		return ErrFull
	}
	for _, existing := range s.seats {
		if existing.ID == seat.ID {
			return ErrSeatTaken
		}
	}
	s.seats = append(s.seats, seat)
	s.log.WithFields(logrus.Fields{"player": seat.ID, "ai": seat.IsAI}).Info("player joined")
	return nil
}

// Leave removes a seat from an open session. Once the game runs players stay seated and the engine
// keeps waiting for them.
func (s *Session) Leave(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusOpen {
		return ErrNotOpen
	}
	for i, seat := range s.seats {
		if seat.ID == playerID {
			s.seats = append(s.seats[:i], s.seats[i+1:]...)
			s.log.WithField("player", playerID).Info("player left")
			return nil
		}
	}
	return ErrNotSeated
}

// Start creates the engine from the roster and issues startGame on behalf of actorID.
func (s *Session) Start(actorID string) (*models.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusOpen {
		return nil, ErrNotOpen
	}
	if len(s.seats) < engine.MinPlayers {
		return nil, ErrTooFew
	}
	opts := append([]engine.Option{engine.WithLogger(s.log)}, s.opts...)
	e, err := engine.New(s.id, s.board, s.seats, s.settings, opts...)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	state, err := e.Execute(engine.Command{ActorID: actorID, Name: engine.CmdStartGame})
	if err != nil {
		return nil, err
	}
	s.engine = e
	s.status = StatusActive
	s.log.WithField("players", len(s.seats)).Info("session started")
	s.changed(state)
	return state, nil
}

// State returns a snapshot. Before the game starts it is an empty setup state.
func (s *Session) State() *models.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return &models.GameState{ID: s.id, Phase: models.PhaseSetup, Settings: s.settings}
	}
	return s.engine.State()
}

// Execute runs one command. Commands are rejected unless the session is active.
func (s *Session) Execute(cmd engine.Command) (*models.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive {
		if s.engine != nil {
			return s.engine.State(), ErrNotActive
		}
		return &models.GameState{ID: s.id, Phase: models.PhaseSetup}, ErrNotActive
	}
	before := s.engine.State().Version
	state, err := s.engine.Execute(cmd)
	if err != nil || state.Version == before {
		return state, err
	}
	s.changed(state)
	if state.Phase == models.PhaseGameOver {
		s.log.WithField("winner", state.WinnerID).Info("game over")
		s.closeLocked()
	}
	return state, nil
}

// Submit is Execute for transports that pass positional arguments.
func (s *Session) Submit(actorID, name string, args ...interface{}) (*models.GameState, error) {
	return s.Execute(engine.Command{ActorID: actorID, Name: name, Args: args})
}

// RunAutomation drives the automated players until ctx ends, the session closes or the game is over.
// It blocks; callers start it on its own goroutine.
func (s *Session) RunAutomation(ctx context.Context, cadence ai.Cadence) {
	s.mu.Lock()
	if s.status != StatusActive {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.mu.Unlock()

	defer cancel()
	ai.NewScheduler(s, s.log.WithField("component", "ai")).Run(ctx, cadence, nil)
}

// Close ends the session, stops the automated players and drops the stored snapshot.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) closeLocked() {
	if s.status == StatusClosed {
		return
	}
	s.status = StatusClosed
	if s.cancel != nil {
		s.cancel()
	}
	if s.store != nil {
		ids := make([]string, len(s.seats))
		for i, seat := range s.seats {
			ids[i] = seat.ID
		}
		if err := s.store.Delete(s.id, ids); err != nil {
			s.log.WithError(err).Warn("dropping snapshot failed")
		}
	}
	s.log.Info("session closed")
}

func (s *Session) changed(state *models.GameState) {
	if s.store != nil {
		if err := s.store.Save(state); err != nil {
			s.log.WithError(err).Warn("saving snapshot failed")
		}
	}
	for _, fn := range s.onChange {
		fn(state)
	}
}

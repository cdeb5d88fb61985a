// Package lobby joins the stored roster of a game to its live session. Both transports go through it,
// so seating, starting and commanding a game behave the same over HTTP and socket.io.
package lobby

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/ai"
	"github.com/DedS3t/monopoly-engine/platform/engine"
	"github.com/DedS3t/monopoly-engine/platform/queries"
	"github.com/DedS3t/monopoly-engine/platform/session"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidGame = errors.New("invalid game")
	ErrStarted     = errors.New("game already started")
	ErrNoSession   = errors.New("game is not running")
)

// Rosters is the stored lobby, normally queries.Store.
type Rosters interface {
	Game(id string) (*models.Game, error)
	Roster(gameID string) ([]models.Roster, error)
	AddSeat(r models.Roster) error
	RemoveSeat(userID, gameID string) error
	SetStatus(gameID, status string) error
	CleanUp(gameID string) error
}

// Snapshots is the run-length state cache, normally cache.Snapshots.
type Snapshots interface {
	session.Store
	Load(gameID string) (*models.GameState, error)
	GameOf(playerID string) (string, error)
}

type Lobby struct {
	rosters   Rosters
	snapshots Snapshots
	sessions  *session.Manager
	board     []models.Property
	settings  models.GameSettings
	cadence   ai.Cadence
	opts      []engine.Option
	log       *logrus.Entry

	mu        sync.Mutex
	listeners []func(*models.GameState)
}

type Option func(*Lobby)

// WithEngineOptions is forwarded to every session.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(l *Lobby) { l.opts = append(l.opts, opts...) }
}

func WithCadence(c ai.Cadence) Option {
	return func(l *Lobby) { l.cadence = c }
}

func WithLogger(log *logrus.Entry) Option {
	return func(l *Lobby) { l.log = log }
}

func New(rosters Rosters, snapshots Snapshots, board []models.Property, settings models.GameSettings, opts ...Option) *Lobby {
	l := &Lobby{
		rosters:   rosters,
		snapshots: snapshots,
		sessions:  session.NewManager(),
		board:     board,
		settings:  settings,
		cadence:   ai.DefaultCadence,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logrus.WithField("component", "lobby")
	}
	return l
}

// OnState registers fn for every state change of every session.
func (l *Lobby) OnState(fn func(*models.GameState)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

func (l *Lobby) openGame(gameID string) error {
	game, err := l.rosters.Game(gameID)
	if err != nil {
		return ErrInvalidGame
	}
	if game.Status != models.GameStatusOpen {
		return ErrStarted
	}
	return nil
}

// Join seats a user. Joining twice is not an error.
func (l *Lobby) Join(gameID, userID, name string) (models.Roster, error) {
	return l.seat(models.Roster{User_id: userID, Game_id: gameID, Username: name})
}

// AddBot seats an automated player of the given tier.
func (l *Lobby) AddBot(gameID string, difficulty models.Difficulty) (models.Roster, error) {
	if !difficulty.Valid() {
		difficulty = models.DifficultyMedium
	}
	return l.seat(models.Roster{
		User_id:       "bot-" + uuid.NewV4().String(),
		Game_id:       gameID,
		Username:      fmt.Sprintf("Bot (%s)", difficulty),
		Is_ai:         true,
		Ai_difficulty: string(difficulty),
	})
}

func (l *Lobby) seat(r models.Roster) (models.Roster, error) {
	if err := l.openGame(r.Game_id); err != nil {
		return models.Roster{}, err
	}
	roster, err := l.rosters.Roster(r.Game_id)
	if err != nil {
		return models.Roster{}, fmt.Errorf("load roster: %w", err)
	}
	for _, existing := range roster {
		if existing.User_id == r.User_id {
			return existing, nil
		}
	}
	if len(roster) >= engine.MaxPlayers {
		return models.Roster{}, session.ErrFull
	}
	r.Seat = len(roster)
	r.Color = queries.NextToken(roster)
	if err := l.rosters.AddSeat(r); err != nil {
		return models.Roster{}, fmt.Errorf("add seat: %w", err)
	}
	return r, nil
}

// Leave unseats a user before the game starts. Once it runs the seat stays and the engine keeps
// waiting for that player.
func (l *Lobby) Leave(gameID, userID string) error {
	if _, err := l.sessions.Get(gameID); err == nil {
		l.log.WithFields(logrus.Fields{"game": gameID, "player": userID}).Info("player disconnected from running game")
		return nil
	}
	return l.rosters.RemoveSeat(userID, gameID)
}

// Start builds the session from the stored roster, starts the game and the automated players.
func (l *Lobby) Start(ctx context.Context, gameID, actorID string) (*models.GameState, error) {
	if err := l.openGame(gameID); err != nil {
		return nil, err
	}
	roster, err := l.rosters.Roster(gameID)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	s := session.New(gameID, l.board, l.settings,
		session.WithStore(l.snapshots),
		session.WithLogger(l.log.WithField("game", gameID)),
		session.WithEngineOptions(l.opts...))
	for _, seat := range queries.Seats(roster) {
		if err := s.Join(seat); err != nil {
			return nil, err
		}
	}
	s.OnChange(func(state *models.GameState) { l.changed(gameID, state) })
	if err := l.sessions.Add(s); err != nil {
		return nil, ErrStarted
	}
	state, err := s.Start(actorID)
	if err != nil {
		l.sessions.Close(gameID)
		return nil, err
	}
	if err := l.rosters.SetStatus(gameID, models.GameStatusInProgress); err != nil {
		l.log.WithError(err).WithField("game", gameID).Warn("updating game status failed")
	}
	go s.RunAutomation(ctx, l.cadence)
	return state, nil
}

// Submit runs one command in a running game.
func (l *Lobby) Submit(gameID, actorID, name string, args ...interface{}) (*models.GameState, error) {
	s, err := l.sessions.Get(gameID)
	if err != nil {
		return nil, ErrNoSession
	}
	return s.Submit(actorID, name, args...)
}

// State returns the live state, falling back to the cached snapshot.
func (l *Lobby) State(gameID string) (*models.GameState, error) {
	if s, err := l.sessions.Get(gameID); err == nil {
		return s.State(), nil
	}
	if l.snapshots == nil {
		return nil, ErrNoSession
	}
	state, err := l.snapshots.Load(gameID)
	if err != nil {
		return nil, ErrNoSession
	}
	return state, nil
}

// Resume finds the running game of a user.
func (l *Lobby) Resume(userID string) (*models.GameState, error) {
	if l.snapshots == nil {
		return nil, ErrNoSession
	}
	gameID, err := l.snapshots.GameOf(userID)
	if err != nil {
		return nil, ErrNoSession
	}
	return l.State(gameID)
}

// changed runs under the session lock; finishing the game is handed to another goroutine.
func (l *Lobby) changed(gameID string, state *models.GameState) {
	l.mu.Lock()
	listeners := append([]func(*models.GameState){}, l.listeners...)
	l.mu.Unlock()
	for _, fn := range listeners {
		fn(state)
	}
	if state.Phase == models.PhaseGameOver {
		go l.finish(gameID)
	}
}

// finish forgets the session and the stored lobby of a finished game.
func (l *Lobby) finish(gameID string) {
	l.sessions.Close(gameID)
	if err := l.rosters.CleanUp(gameID); err != nil {
		l.log.WithError(err).WithField("game", gameID).Warn("cleaning up finished game failed")
	}
}

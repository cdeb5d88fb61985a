package ai

import (
	"context"
	"time"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/engine"
	"github.com/sirupsen/logrus"
)

// Target is the command surface the scheduler drives, normally a session.
type Target interface {
	State() *models.GameState
	Execute(cmd engine.Command) (*models.GameState, error)
}

// Cadence spaces automated actions so observers can follow them.
type Cadence struct {
	Turn        time.Duration
	Negotiation time.Duration
}

// DefaultCadence is 1.2s between turn actions and 2s between negotiation responses.
var DefaultCadence = Cadence{Turn: 1200 * time.Millisecond, Negotiation: 2 * time.Second}

// For returns the delay before the next action in phase.
func (c Cadence) For(phase models.Phase) time.Duration {
	if engine.IsNegotiation(phase) {
		return c.Negotiation
	}
	return c.Turn
}

// Scheduler steps automated players one action at a time. Actions that did not change the state are
// remembered and withheld from Decide until the turn moves on.
type Scheduler struct {
	target   Target
	log      *logrus.Entry
	turn     int
	excluded map[string]bool
}

func NewScheduler(target Target, log *logrus.Entry) *Scheduler {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Scheduler{target: target, log: log, excluded: map[string]bool{}}
}

// Step runs at most one automated action and returns the state after it. acted is false when the
// session is not waiting on an automated player.
func (sc *Scheduler) Step() (state *models.GameState, acted bool) {
	before := sc.target.State()
	actor := before.PlayerByID(engine.ObligatedActor(before))
	if actor == nil || !actor.IsAI {
		return before, false
	}
	if before.Turn.TurnNumber != sc.turn {
		sc.turn = before.Turn.TurnNumber
		sc.excluded = map[string]bool{}
	}
	action := Decide(before, actor.ID, Capabilities{Exclude: sc.excluded})
	if action == nil {
		return before, false
	}

	logger := sc.log.WithFields(logrus.Fields{"player": actor.ID, "action": action.Name, "args": action.Args})
	after, err := sc.target.Execute(engine.Command{ActorID: actor.ID, Name: action.Name, Args: action.Args})
	if err != nil || after.Version == before.Version {
		sc.excluded[action.Key()] = true
		logger.WithError(err).Debug("automated action had no effect")
		return after, true
	}
	logger.Debug("automated action")
	return after, true
}

// Run steps on the cadence until ctx is done or the game ends. onStep sees every state an action
// produced.
func (sc *Scheduler) Run(ctx context.Context, cadence Cadence, onStep func(*models.GameState)) {
	timer := time.NewTimer(cadence.For(sc.target.State().Phase))
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		state, acted := sc.Step()
		if acted && onStep != nil {
			onStep(state)
		}
		if state.Phase == models.PhaseGameOver {
			return
		}
		timer.Reset(cadence.For(state.Phase))
	}
}

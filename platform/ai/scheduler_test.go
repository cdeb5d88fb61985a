package ai

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
	"github.com/DedS3t/monopoly-engine/platform/engine"
)

// refusingTarget rejects every command and records what it was sent.
type refusingTarget struct {
	state *models.GameState
	sent  []string
}

func (r *refusingTarget) State() *models.GameState { return r.state.Clone() }

func (r *refusingTarget) Execute(cmd engine.Command) (*models.GameState, error) {
	r.sent = append(r.sent, cmd.Name)
	return r.state.Clone(), errors.New("refused")
}

func TestSchedulerExcludesNoOps(t *testing.T) {
	target := &refusingTarget{state: newState(t, models.DifficultyMedium, models.DifficultyMedium)}
	sc := NewScheduler(target, quietLogger())

	for i := 0; i < 2; i++ {
		if _, acted := sc.Step(); !acted {
			t.Fatalf("step %d did not act", i)
		}
	}
	if len(target.sent) != 2 || target.sent[0] != engine.CmdRollDice || target.sent[1] != engine.CmdEndTurn {
		t.Fatalf("sent = %v, want rollDice then endTurn", target.sent)
	}

	// a new turn forgets the exclusions
	target.state.Turn.TurnNumber++
	sc.Step()
	if target.sent[2] != engine.CmdRollDice {
		t.Fatalf("sent = %v, want rollDice again on a new turn", target.sent)
	}
}

func TestSchedulerLeavesHumansAlone(t *testing.T) {
	e, err := engine.New("g", board.DefaultProperties(),
		[]engine.Seat{{ID: "human"}, {ID: "bot", IsAI: true, Difficulty: models.DifficultyHard}},
		models.DefaultSettings(), engine.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}
	sc := NewScheduler(e, quietLogger())
	if _, acted := sc.Step(); acted {
		t.Fatalf("acted before the game started")
	}
	e.Dispatch("human", engine.CmdStartGame)
	if s, acted := sc.Step(); acted || s.Version != 1 {
		t.Fatalf("acted for a human: version %d", s.Version)
	}
}

func TestCadence(t *testing.T) {
	c := DefaultCadence
	if c.For(models.PhaseRolling) != 1200*time.Millisecond || c.For(models.PhaseAuction) != 2*time.Second {
		t.Fatalf("cadence = %v / %v", c.For(models.PhaseRolling), c.For(models.PhaseAuction))
	}
}

func checkInvariants(t *testing.T, s *models.GameState, step int) {
	t.Helper()
	if n := s.PendingNegotiations(); n > 1 {
		t.Fatalf("step %d: %d negotiations open", step, n)
	}
	houses, hotels := 0, 0
	for _, sp := range s.Spaces {
		if sp.Deed == nil {
			continue
		}
		if owner := s.PlayerByID(sp.Deed.OwnerID); owner != nil && owner.Bankrupt {
			t.Fatalf("step %d: %s owned by bankrupt %s", step, sp.Name, owner.ID)
		}
		houses += sp.Deed.Houses
		if sp.Deed.Hotel {
			hotels++
		}
	}
	if s.AvailableHouses < 0 || s.AvailableHotels < 0 {
		t.Fatalf("step %d: negative building pool %d/%d", step, s.AvailableHouses, s.AvailableHotels)
	}
	if houses+s.AvailableHouses > s.Settings.InitialHouses || hotels+s.AvailableHotels > s.Settings.InitialHotels {
		t.Fatalf("step %d: building stock grew to %d houses %d hotels", step, houses+s.AvailableHouses, hotels+s.AvailableHotels)
	}
}

func TestSchedulerPlaysAFullGame(t *testing.T) {
	for _, seed := range []int64{1, 7, 42} {
		seats := []engine.Seat{
			{ID: "a", Name: "easy", IsAI: true, Difficulty: models.DifficultyEasy},
			{ID: "b", Name: "medium", IsAI: true, Difficulty: models.DifficultyMedium},
			{ID: "c", Name: "hard", IsAI: true, Difficulty: models.DifficultyHard},
			{ID: "d", Name: "hard too", IsAI: true, Difficulty: models.DifficultyHard},
		}
		e, err := engine.New("g", board.DefaultProperties(), seats, models.DefaultSettings(),
			engine.WithRand(rand.New(rand.NewSource(seed))), engine.WithLogger(quietLogger()))
		if err != nil {
			t.Fatalf("engine.New() error = %v", err)
		}
		e.Dispatch("a", engine.CmdStartGame)
		sc := NewScheduler(e, quietLogger())

		idle := 0
		last := e.State()
		for step := 0; step < 20000 && last.Phase != models.PhaseGameOver; step++ {
			s, acted := sc.Step()
			if !acted {
				t.Fatalf("seed %d step %d: no automated action in phase %s", seed, step, s.Phase)
			}
			if s.Version == last.Version {
				idle++
			} else {
				idle = 0
			}
			if idle > 40 {
				t.Fatalf("seed %d step %d: stuck in phase %s", seed, step, s.Phase)
			}
			checkInvariants(t, s, step)
			last = s
		}
		if last.Phase == models.PhaseGameOver && last.PlayerByID(last.WinnerID) == nil {
			t.Fatalf("seed %d: game over without a winner", seed)
		}
	}
}

func TestSchedulerRunStopsWithContext(t *testing.T) {
	e, err := engine.New("g", board.DefaultProperties(),
		[]engine.Seat{{ID: "a", IsAI: true}, {ID: "b", IsAI: true}},
		models.DefaultSettings(), engine.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}
	e.Dispatch("a", engine.CmdStartGame)
	ctx, cancel := context.WithCancel(context.Background())
	steps := 0
	done := make(chan struct{})
	go func() {
		NewScheduler(e, quietLogger()).Run(ctx, Cadence{Turn: time.Millisecond, Negotiation: time.Millisecond}, func(*models.GameState) {
			steps++
			if steps == 5 {
				cancel()
			}
		})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
	if steps < 5 {
		t.Fatalf("steps = %d, want at least 5", steps)
	}
}

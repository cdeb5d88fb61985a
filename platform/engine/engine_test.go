package engine

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"testing"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/board"
	"github.com/sirupsen/logrus"
)

// scriptedDice replays rolls in order and repeats the last one when exhausted.
type scriptedDice struct {
	rolls [][2]int
	next  int
}

func (d *scriptedDice) Roll() (int, int) {
	i := d.next
	if i >= len(d.rolls) {
		i = len(d.rolls) - 1
	}
	d.next++
	return d.rolls[i][0], d.rolls[i][1]
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func testSettings() models.GameSettings {
	s := models.DefaultSettings()
	s.EnableMarketEvents = false
	return s
}

func newTestEngine(t *testing.T, settings models.GameSettings, players int, rolls ...[2]int) *Engine {
	t.Helper()
	seats := make([]Seat, players)
	for i := range seats {
		id := string(rune('a' + i))
		seats[i] = Seat{ID: id, Name: "player " + id}
	}
	if len(rolls) == 0 {
		rolls = [][2]int{{1, 2}}
	}
	n := 0
	e, err := New("game-1", board.DefaultProperties(), seats, settings,
		WithDice(&scriptedDice{rolls: rolls}),
		WithRand(rand.New(rand.NewSource(1))),
		WithIDs(func() string { n++; return fmt.Sprintf("id-%d", n) }),
		WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func run(t *testing.T, e *Engine, actor, name string, args ...interface{}) *models.GameState {
	t.Helper()
	s, err := e.Execute(Command{ActorID: actor, Name: name, Args: args})
	if err != nil {
		t.Fatalf("%s by %s: %v (phase %s)", name, actor, err, s.Phase)
	}
	return s
}

func rejected(t *testing.T, e *Engine, want error, actor, name string, args ...interface{}) {
	t.Helper()
	before := e.State()
	after, err := e.Execute(Command{ActorID: actor, Name: name, Args: args})
	if !errors.Is(err, want) {
		t.Fatalf("%s by %s: err = %v, want %v", name, actor, err, want)
	}
	if after.Version != before.Version || after.Phase != before.Phase || len(after.Log) != len(before.Log) {
		t.Fatalf("%s by %s mutated state: version %d -> %d", name, actor, before.Version, after.Version)
	}
	for i, p := range after.Players {
		if p.Cash != before.Players[i].Cash || p.Position != before.Players[i].Position {
			t.Fatalf("%s by %s changed player %s", name, actor, p.ID)
		}
	}
}

func TestNewValidatesRoster(t *testing.T) {
	props := board.DefaultProperties()
	tests := []struct {
		name  string
		seats []Seat
	}{
		{name: "single player", seats: []Seat{{ID: "a"}}},
		{name: "duplicate ids", seats: []Seat{{ID: "a"}, {ID: "a"}}},
		{name: "empty id", seats: []Seat{{ID: "a"}, {ID: ""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New("g", props, tt.seats, models.DefaultSettings()); err == nil {
				t.Fatalf("New() accepted %+v", tt.seats)
			}
		})
	}
	if _, err := New("g", props[:39], []Seat{{ID: "a"}, {ID: "b"}}, models.DefaultSettings()); err == nil {
		t.Fatalf("New() accepted a 39 space board")
	}

	e, err := New("g", props, []Seat{{ID: "a", IsAI: true}, {ID: "b"}}, models.GameSettings{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s := e.State()
	if s.Phase != models.PhaseSetup || s.Players[0].Cash != 1500 || s.AvailableHouses != 32 || s.CurrentGoSalary != 200 {
		t.Fatalf("unexpected initial state: phase %s cash %d houses %d salary %d",
			s.Phase, s.Players[0].Cash, s.AvailableHouses, s.CurrentGoSalary)
	}
	if s.Players[0].AIDifficulty != models.DifficultyMedium {
		t.Fatalf("AI difficulty = %q, want medium default", s.Players[0].AIDifficulty)
	}
}

func TestBuyThenRentShortfallThenForgive(t *testing.T) {
	e := newTestEngine(t, testSettings(), 2, [2]int{1, 2}, [2]int{1, 2})
	run(t, e, "a", CmdStartGame)

	s := run(t, e, "a", CmdRollDice)
	if s.Phase != models.PhaseAwaitingBuyDecision || s.Players[0].Position != 3 {
		t.Fatalf("after roll: phase %s position %d", s.Phase, s.Players[0].Position)
	}
	s = run(t, e, "a", CmdBuyProperty)
	if owner := s.Spaces[3].Deed.OwnerID; owner != "a" {
		t.Fatalf("owner = %q, want a", owner)
	}
	if s.Players[0].Cash != 1440 {
		t.Fatalf("cash = %d, want 1440", s.Players[0].Cash)
	}
	s = run(t, e, "a", CmdEndTurn)
	if s.CurrentPlayerIndex != 1 || s.DiceRoll != nil {
		t.Fatalf("turn did not pass cleanly: index %d roll %v", s.CurrentPlayerIndex, s.DiceRoll)
	}

	e.state.Players[1].Cash = 2
	s = run(t, e, "b", CmdRollDice)
	if s.Phase != models.PhaseAwaitingRentNegotiation {
		t.Fatalf("phase = %s, want awaiting_rent_negotiation", s.Phase)
	}
	r := s.PendingRentNegotiation
	if r == nil || r.Status != models.RentCreditorDecision || r.Amount != 4 || r.CreditorID != "a" {
		t.Fatalf("rent negotiation = %+v", r)
	}

	s = run(t, e, "a", CmdForgiveRent)
	if s.Phase != models.PhaseRolling || s.CurrentPlayerIndex != 1 {
		t.Fatalf("after forgiving: phase %s index %d", s.Phase, s.CurrentPlayerIndex)
	}
	if s.Players[1].Cash != 2 || len(s.Players[1].IOUsPayable) != 0 || s.PendingRentNegotiation != nil {
		t.Fatalf("debtor changed: cash %d ious %d", s.Players[1].Cash, len(s.Players[1].IOUsPayable))
	}
	run(t, e, "b", CmdEndTurn)
}

func TestIllegalCommandsAreNoOps(t *testing.T) {
	e := newTestEngine(t, testSettings(), 2)
	rejected(t, e, ErrWrongPhase, "a", CmdRollDice)
	run(t, e, "a", CmdStartGame)

	rejected(t, e, ErrNotAuthorized, "b", CmdRollDice)
	rejected(t, e, ErrUnknownPlayer, "zed", CmdRollDice)
	rejected(t, e, ErrWrongPhase, "a", CmdBuyProperty)
	rejected(t, e, ErrWrongPhase, "a", CmdStartGame)
	rejected(t, e, ErrUnknownCommand, "a", "teleport")
	rejected(t, e, ErrMustRoll, "a", CmdEndTurn)
	rejected(t, e, ErrBadArgument, "a", CmdBuildHouse, "Mayfair")
	rejected(t, e, ErrInvalidProperty, "a", CmdMortgageProperty, 39)
	rejected(t, e, ErrInvalidProperty, "a", CmdMortgageProperty, 99)

	s := e.Dispatch("b", CmdPassBid)
	if s.Phase != models.PhaseRolling {
		t.Fatalf("Dispatch of an illegal command changed phase to %s", s.Phase)
	}
}

func TestDoublesLoopAndThirdDoubleJails(t *testing.T) {
	e := newTestEngine(t, testSettings(), 2, [2]int{5, 5}, [2]int{5, 5}, [2]int{5, 5})
	run(t, e, "a", CmdStartGame)

	s := run(t, e, "a", CmdRollDice)
	if s.Phase != models.PhaseRolling || s.Turn.HasRolled || s.Turn.DoublesCount != 1 || s.CurrentPlayerIndex != 0 {
		t.Fatalf("after first double: phase %s rolled %v count %d", s.Phase, s.Turn.HasRolled, s.Turn.DoublesCount)
	}
	rejected(t, e, ErrMustRoll, "a", CmdEndTurn)
	s = run(t, e, "a", CmdRollDice)
	if s.Players[0].Position != 20 || s.Turn.DoublesCount != 2 {
		t.Fatalf("after second double: position %d count %d", s.Players[0].Position, s.Turn.DoublesCount)
	}
	s = run(t, e, "a", CmdRollDice)
	p := s.Players[0]
	if s.Phase != models.PhaseJailDecision || !p.InJail || p.Position != board.JailPosition {
		t.Fatalf("after third double: phase %s jail %v position %d", s.Phase, p.InJail, p.Position)
	}
	rejected(t, e, ErrAlreadyRolled, "a", CmdRollForDoubles)

	s = run(t, e, "a", CmdEndTurn)
	if s.CurrentPlayerIndex != 1 || s.Phase != models.PhaseRolling || s.DiceRoll != nil {
		t.Fatalf("next turn: index %d phase %s", s.CurrentPlayerIndex, s.Phase)
	}
}

func TestPassingGoPaysSalary(t *testing.T) {
	e := newTestEngine(t, testSettings(), 2, [2]int{1, 2})
	e.state.Players[0].Position = 38
	run(t, e, "a", CmdStartGame)
	s := run(t, e, "a", CmdRollDice)
	if s.Players[0].Position != 1 || s.Players[0].Cash != 1700 {
		t.Fatalf("position %d cash %d, want 1 and 1700", s.Players[0].Position, s.Players[0].Cash)
	}
}

func TestRoundCompletion(t *testing.T) {
	e := newTestEngine(t, testSettings(), 2, [2]int{4, 6})
	run(t, e, "a", CmdStartGame)
	run(t, e, "a", CmdRollDice)
	s := run(t, e, "a", CmdEndTurn)
	if s.RoundsCompleted != 0 {
		t.Fatalf("round completed after one turn")
	}
	run(t, e, "b", CmdRollDice)
	s = run(t, e, "b", CmdEndTurn)
	if s.RoundsCompleted != 1 || len(s.MarketHistory) != 1 || s.CurrentPlayerIndex != 0 || s.Turn.TurnNumber != 2 {
		t.Fatalf("rounds %d history %d index %d turn %d",
			s.RoundsCompleted, len(s.MarketHistory), s.CurrentPlayerIndex, s.Turn.TurnNumber)
	}
	if s.MarketHistory[0].Circulation != 3000 || s.MarketHistory[0].Gini != 0 {
		t.Fatalf("snapshot = %+v", s.MarketHistory[0])
	}
}

func TestTurnSkipsBankruptPlayers(t *testing.T) {
	e := newTestEngine(t, testSettings(), 3, [2]int{4, 6})
	e.state.Players[1].Bankrupt = true
	run(t, e, "a", CmdStartGame)
	run(t, e, "a", CmdRollDice)
	s := run(t, e, "a", CmdEndTurn)
	if s.CurrentPlayerIndex != 2 {
		t.Fatalf("index = %d, want 2", s.CurrentPlayerIndex)
	}
	rejected(t, e, ErrNotAuthorized, "b", CmdRollDice)
}

func TestIncomeTaxChoice(t *testing.T) {
	e := newTestEngine(t, testSettings(), 2, [2]int{1, 3})
	run(t, e, "a", CmdStartGame)
	s := run(t, e, "a", CmdRollDice)
	d := s.AwaitingTaxDecision
	if s.Phase != models.PhaseAwaitingTaxDecision || d == nil || d.FlatAmount != 200 || d.PercentAmount != 150 {
		t.Fatalf("tax decision = %+v in phase %s", d, s.Phase)
	}
	rejected(t, e, ErrBadArgument, "a", CmdChooseTaxOption, "both")
	s = run(t, e, "a", CmdChooseTaxOption, "percent")
	if s.Players[0].Cash != 1350 || s.Phase != models.PhaseRolling || s.AwaitingTaxDecision != nil {
		t.Fatalf("after tax: cash %d phase %s", s.Players[0].Cash, s.Phase)
	}
}

func TestNegativeBalanceAtEndTurnOffersChapter11(t *testing.T) {
	e := newTestEngine(t, testSettings(), 2, [2]int{1, 3}, [2]int{4, 6})
	run(t, e, "a", CmdStartGame)
	e.state.Players[0].Cash = 100
	run(t, e, "a", CmdRollDice)
	s := run(t, e, "a", CmdChooseTaxOption, "flat")
	if s.Players[0].Cash != -100 {
		t.Fatalf("cash = %d, want -100", s.Players[0].Cash)
	}
	s = run(t, e, "a", CmdEndTurn)
	b := s.PendingBankruptcy
	if s.Phase != models.PhaseAwaitingBankruptcy || b == nil || b.Amount != 100 || b.Resume != models.ResumeEndTurn {
		t.Fatalf("bankruptcy = %+v in phase %s", b, s.Phase)
	}

	s = run(t, e, "a", CmdEnterChapter11)
	a := s.Players[0]
	if a.Chapter11 == nil || a.Chapter11.Debt != 100 || a.Chapter11.TurnsRemaining != 5 || a.Cash != 0 || !a.UsedChapter11 {
		t.Fatalf("chapter 11 = %+v cash %d", a.Chapter11, a.Cash)
	}
	if s.CurrentPlayerIndex != 1 || s.Phase != models.PhaseRolling {
		t.Fatalf("turn did not advance: index %d phase %s", s.CurrentPlayerIndex, s.Phase)
	}

	run(t, e, "b", CmdRollDice)
	s = run(t, e, "b", CmdEndTurn)
	ds := s.PendingDebtService
	if s.Phase != models.PhaseAwaitingDebtService || ds == nil || ds.Total() != 5 || ds.Items[0].Kind != models.DebtChapter11 {
		t.Fatalf("debt service = %+v in phase %s", ds, s.Phase)
	}
	rejected(t, e, ErrInsufficientFunds, "a", CmdPayDebtService)
	s = run(t, e, "a", CmdDeferDebtService)
	if s.Players[0].Chapter11.Debt != 105 || s.Phase != models.PhaseRolling {
		t.Fatalf("deferred: debt %d phase %s", s.Players[0].Chapter11.Debt, s.Phase)
	}
}

func TestExpiredChapter11Liquidates(t *testing.T) {
	e := newTestEngine(t, testSettings(), 2, [2]int{4, 6})
	e.state.Players[0].Chapter11 = &models.Chapter11Status{CreditorID: "b", Debt: 300, InterestRate: 0.05, TurnsRemaining: 1}
	e.state.Players[0].Cash = 10
	e.state.Spaces[39].Deed.OwnerID = "a"

	s := run(t, e, "a", CmdStartGame)
	if s.Phase != models.PhaseAwaitingDebtService || s.PendingDebtService.Total() != 315 {
		t.Fatalf("phase %s debt %+v", s.Phase, s.PendingDebtService)
	}
	s = run(t, e, "a", CmdDeferDebtService)
	if !s.Players[0].Bankrupt || s.Phase != models.PhaseGameOver || s.WinnerID != "b" {
		t.Fatalf("bankrupt %v phase %s winner %q", s.Players[0].Bankrupt, s.Phase, s.WinnerID)
	}
	if s.Spaces[39].Deed.OwnerID != "b" || s.Players[1].Cash != 1510 {
		t.Fatalf("creditor did not receive the estate: owner %q cash %d", s.Spaces[39].Deed.OwnerID, s.Players[1].Cash)
	}
}

func TestJail(t *testing.T) {
	t.Run("failed roll stays", func(t *testing.T) {
		e := newTestEngine(t, testSettings(), 2, [2]int{1, 2})
		e.state.Players[0].InJail = true
		e.state.Players[0].Position = board.JailPosition
		s := run(t, e, "a", CmdStartGame)
		if s.Phase != models.PhaseJailDecision {
			t.Fatalf("phase = %s, want jail_decision", s.Phase)
		}
		rejected(t, e, ErrWrongPhase, "a", CmdRollDice)
		s = run(t, e, "a", CmdRollForDoubles)
		if !s.Players[0].InJail || s.Players[0].JailTurns != 1 || s.Players[0].Position != board.JailPosition {
			t.Fatalf("player left jail on a failed roll: %+v", s.Players[0])
		}
		s = run(t, e, "a", CmdEndTurn)
		if s.CurrentPlayerIndex != 1 {
			t.Fatalf("turn did not pass")
		}
	})

	t.Run("third failure forces the fine", func(t *testing.T) {
		e := newTestEngine(t, testSettings(), 2, [2]int{1, 2})
		e.state.Players[0].InJail = true
		e.state.Players[0].JailTurns = 2
		e.state.Players[0].Position = board.JailPosition
		run(t, e, "a", CmdStartGame)
		s := run(t, e, "a", CmdRollForDoubles)
		if s.Players[0].InJail || s.Players[0].Cash != 1450 || s.Players[0].Position != 13 {
			t.Fatalf("player = %+v", s.Players[0])
		}
	})

	t.Run("doubles release without reroll", func(t *testing.T) {
		e := newTestEngine(t, testSettings(), 2, [2]int{2, 2})
		e.state.Players[0].InJail = true
		e.state.Players[0].Position = board.JailPosition
		run(t, e, "a", CmdStartGame)
		s := run(t, e, "a", CmdRollForDoubles)
		if s.Players[0].InJail || s.Players[0].Position != 14 || s.Phase != models.PhaseAwaitingBuyDecision {
			t.Fatalf("player = %+v phase %s", s.Players[0], s.Phase)
		}
		s = run(t, e, "a", CmdBuyProperty)
		if s.Phase != models.PhaseRolling || !s.Turn.HasRolled {
			t.Fatalf("doubles out of jail granted a reroll")
		}
		rejected(t, e, ErrAlreadyRolled, "a", CmdRollDice)
	})

	t.Run("fine and card", func(t *testing.T) {
		e := newTestEngine(t, testSettings(), 2)
		e.state.Players[0].InJail = true
		e.state.Players[0].JailFreeCards = 1
		run(t, e, "a", CmdStartGame)
		s := run(t, e, "a", CmdUseJailCard)
		if s.Players[0].InJail || s.Players[0].JailFreeCards != 0 || s.Phase != models.PhaseRolling {
			t.Fatalf("card did not release: %+v", s.Players[0])
		}

		e = newTestEngine(t, testSettings(), 2)
		e.state.Players[0].InJail = true
		run(t, e, "a", CmdStartGame)
		rejected(t, e, ErrBadArgument, "a", CmdUseJailCard)
		s = run(t, e, "a", CmdPayJailFine)
		if s.Players[0].InJail || s.Players[0].Cash != 1450 {
			t.Fatalf("fine did not release: %+v", s.Players[0])
		}
		run(t, e, "a", CmdRollDice)
	})
}

func TestLegalAndObligatedActor(t *testing.T) {
	e := newTestEngine(t, testSettings(), 2, [2]int{1, 2})
	s := e.State()
	if ObligatedActor(s) != "" || !Legal(s, "b", CmdStartGame) {
		t.Fatalf("setup: obligated %q", ObligatedActor(s))
	}
	run(t, e, "a", CmdStartGame)
	run(t, e, "a", CmdRollDice)
	s = run(t, e, "a", CmdDeclineProperty)
	if ObligatedActor(s) != "a" || !Legal(s, "a", CmdPlaceBid) || Legal(s, "b", CmdPlaceBid) {
		t.Fatalf("auction: obligated %q", ObligatedActor(s))
	}
	if !IsNegotiation(s.Phase) {
		t.Fatalf("auction is a negotiation phase")
	}
	s.Settings.EnableBankLoans = false
	if Legal(s, "a", CmdTakeLoan) {
		t.Fatalf("loans legal while disabled")
	}
}

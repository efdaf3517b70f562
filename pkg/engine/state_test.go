package engine

import (
	"testing"

	"github.com/kmurf1999/postflop-solver/pkg/cards"
)

func mustCards(t *testing.T, s string) []cards.Card {
	t.Helper()
	cs, err := cards.ParseCards(s)
	if err != nil {
		t.Fatalf("ParseCards(%q) error = %v", s, err)
	}
	return cs
}

func newTestState(t *testing.T) State {
	t.Helper()
	hole0 := mustCards(t, "AsAh")
	hole1 := mustCards(t, "KsKh")
	board := mustCards(t, "2c3c4c5c6c")

	s, err := NewState(cards.River, 1000, [2]float64{10000, 10000},
		[2][2]cards.Card{{hole0[0], hole0[1]}, {hole1[0], hole1[1]}}, board)
	if err != nil {
		t.Fatalf("NewState error = %v", err)
	}
	return s
}

func TestNewStateRejectsDuplicateCards(t *testing.T) {
	hole := mustCards(t, "AsAh")
	board := mustCards(t, "AsKdQcJhTs")
	_, err := NewState(cards.River, 100, [2]float64{1000, 1000},
		[2][2]cards.Card{{hole[0], hole[1]}, {hole[0], hole[1]}}, board)
	if err == nil {
		t.Fatal("expected ConfigurationError for duplicate cards")
	}
}

func TestChipConservationAcrossApply(t *testing.T) {
	s := newTestState(t)
	total0 := s.Players[0].Stack + s.Players[0].Wager + s.Players[1].Stack + s.Players[1].Wager + s.Pot

	abs := BettingAbstraction{
		BetFractions: [4][]float64{cards.River: {0.5}},
		MinBet:       1,
	}

	legal := s.LegalActions(abs)
	var bet Action
	for _, a := range legal {
		if a.Kind == Bet {
			bet = a
		}
	}
	if bet.Kind != Bet {
		t.Fatal("expected a Bet action to be legal")
	}

	next := s.Apply(bet)
	total1 := next.Players[0].Stack + next.Players[0].Wager + next.Players[1].Stack + next.Players[1].Wager + next.Pot
	if total0 != total1 {
		t.Errorf("chip total changed: before=%v after=%v", total0, total1)
	}
}

func TestLegalActionsAlwaysIncludeCheckFold(t *testing.T) {
	s := newTestState(t)
	abs := BettingAbstraction{}
	legal := s.LegalActions(abs)
	if len(legal) < 1 || legal[0].Kind != CheckFold {
		t.Fatal("CheckFold should always be the first legal action")
	}
}

func TestCallOnlyLegalWhenFacingABet(t *testing.T) {
	s := newTestState(t)
	abs := BettingAbstraction{
		BetFractions: [4][]float64{cards.River: {1.0}},
		MinBet:       1,
	}

	legal := s.LegalActions(abs)
	for _, a := range legal {
		if a.Kind == Call {
			t.Fatal("Call should not be legal when no bet is outstanding")
		}
	}

	// Now have seat 0 bet, and check seat 1's legal actions include Call.
	var bet Action
	for _, a := range legal {
		if a.Kind == Bet {
			bet = a
		}
	}
	next := s.Apply(bet)
	legal2 := next.LegalActions(abs)
	found := false
	for _, a := range legal2 {
		if a.Kind == Call {
			found = true
		}
	}
	if !found {
		t.Fatal("expected Call to be legal after facing a bet")
	}
}

func TestCheckByBothSeatsSettlesPostflopRound(t *testing.T) {
	s := newTestState(t)
	abs := BettingAbstraction{}

	next := s.Apply(Action{Kind: CheckFold})
	if next.BetsSettled {
		t.Fatal("round should not be settled after only the out-of-position check")
	}
	next2 := next.Apply(Action{Kind: CheckFold})
	if !next2.BetsSettled {
		t.Fatal("round should be settled after the in-position seat also checks")
	}
	_ = abs
}

func TestFoldEndsHand(t *testing.T) {
	s := newTestState(t)
	abs := BettingAbstraction{BetFractions: [4][]float64{cards.River: {1.0}}, MinBet: 1}
	legal := s.LegalActions(abs)
	var bet Action
	for _, a := range legal {
		if a.Kind == Bet {
			bet = a
		}
	}
	afterBet := s.Apply(bet)
	afterFold := afterBet.Apply(Action{Kind: CheckFold})
	if !afterFold.Players[1].HasFolded {
		t.Fatal("facing a bet, CheckFold should resolve to a fold")
	}
	if !afterFold.IsHandOver() {
		t.Fatal("hand should be over after a fold")
	}
}

func TestAdvanceRoundResetsWagers(t *testing.T) {
	s := newTestState(t)
	abs := BettingAbstraction{BetFractions: [4][]float64{cards.River: {1.0}}, MinBet: 1}
	legal := s.LegalActions(abs)
	var bet Action
	for _, a := range legal {
		if a.Kind == Bet {
			bet = a
		}
	}
	withBet := s.Apply(bet)
	if withBet.Players[0].Wager == 0 {
		t.Fatal("expected a nonzero wager after betting")
	}

	advanced := withBet.AdvanceRound()
	if advanced.Players[0].Wager != 0 || advanced.Players[1].Wager != 0 {
		t.Fatal("AdvanceRound should reset both wagers to zero")
	}
	if advanced.ActingSeat != OutOfPosition {
		t.Fatal("AdvanceRound should reset acting seat to out-of-position")
	}
}

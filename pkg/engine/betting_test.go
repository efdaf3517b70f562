package engine

import (
	"testing"

	"github.com/kmurf1999/postflop-solver/pkg/cards"
)

func TestBettingAbstractionValidateRejectsNegativeFraction(t *testing.T) {
	abs := BettingAbstraction{BetFractions: [4][]float64{cards.River: {-0.5}}}
	if err := abs.Validate(); err == nil {
		t.Fatal("expected ConfigurationError for negative bet fraction")
	}
}

func TestBettingAbstractionValidateAcceptsEmpty(t *testing.T) {
	abs := BettingAbstraction{}
	if err := abs.Validate(); err != nil {
		t.Errorf("empty abstraction should be valid, got %v", err)
	}
}

func TestRaiseAmountRespectsMinRaise(t *testing.T) {
	s := newTestState(t)
	betAbs := BettingAbstraction{BetFractions: [4][]float64{cards.River: {0.1}}, MinBet: 1}
	legal := s.LegalActions(betAbs)
	var bet Action
	for _, a := range legal {
		if a.Kind == Bet {
			bet = a
		}
	}
	afterBet := s.Apply(bet)

	raiseAbs := BettingAbstraction{RaiseFractions: [4][]float64{cards.River: {0.01}}}
	legal2 := afterBet.LegalActions(raiseAbs)

	var raise Action
	found := false
	for _, a := range legal2 {
		if a.Kind == Raise {
			raise = a
			found = true
		}
	}
	if !found {
		t.Fatal("expected a Raise action to be legal facing a bet")
	}

	minRaise := afterBet.Players[0].Wager - afterBet.Players[1].Wager
	if minRaise < 0 {
		minRaise = -minRaise
	}
	if raise.Amount < minRaise-1e-9 {
		t.Errorf("raise amount %v should be at least the min-raise %v even though the fraction is tiny", raise.Amount, minRaise)
	}
}

func TestAllInPromotionCapsAtStack(t *testing.T) {
	hole0 := mustCards(t, "AsAh")
	hole1 := mustCards(t, "KsKh")
	board := mustCards(t, "2c3c4c5c6c")
	s, err := NewState(cards.River, 100, [2]float64{50, 50},
		[2][2]cards.Card{{hole0[0], hole0[1]}, {hole1[0], hole1[1]}}, board)
	if err != nil {
		t.Fatalf("NewState error = %v", err)
	}

	abs := BettingAbstraction{
		BetFractions:   [4][]float64{cards.River: {5.0}}, // wildly overbets the pot
		AllInThreshold: 0.5,
		MinBet:         1,
	}
	legal := s.LegalActions(abs)
	for _, a := range legal {
		if a.Kind == Bet && a.Amount > s.Players[s.ActingSeat].Stack {
			t.Errorf("bet amount %v exceeds stack %v", a.Amount, s.Players[s.ActingSeat].Stack)
		}
	}
}

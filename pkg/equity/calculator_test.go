package equity

import (
	"testing"

	"github.com/kmurf1999/postflop-solver/pkg/cards"
	"github.com/kmurf1999/postflop-solver/pkg/notation"
)

func parseCombo(t *testing.T, s string) notation.Combo {
	t.Helper()
	cs, err := cards.ParseCards(s)
	if err != nil {
		t.Fatalf("ParseCards(%q) error = %v", s, err)
	}
	return notation.Combo{Card1: cs[0], Card2: cs[1], Weight: 1}
}

func TestCalculateRiverEquityNutsWinsAll(t *testing.T) {
	c := NewCalculator()
	hero, _ := cards.ParseCards("AsAh")
	board, _ := cards.ParseCards("AdAc2s3h4d")
	opp := []notation.Combo{parseCombo(t, "KsKh")}

	res, err := c.Calculate(hero, board, opp)
	if err != nil {
		t.Fatalf("Calculate error = %v", err)
	}
	if res.WinPct != 1 {
		t.Errorf("expected quads to win 100%%, got %v", res.WinPct)
	}
}

func TestCalculateRiverEquitySplitPot(t *testing.T) {
	c := NewCalculator()
	hero, _ := cards.ParseCards("2s3h")
	board, _ := cards.ParseCards("AsKhQdJcTh")
	opp := []notation.Combo{parseCombo(t, "4d5c")}

	res, err := c.Calculate(hero, board, opp)
	if err != nil {
		t.Fatalf("Calculate error = %v", err)
	}
	if res.TiePct != 1 {
		t.Errorf("expected a board-playing chop, got tie=%v win=%v", res.TiePct, res.WinPct)
	}
}

func TestCalculateRejectsBadBoardSize(t *testing.T) {
	c := NewCalculator()
	hero, _ := cards.ParseCards("AsAh")
	board, _ := cards.ParseCards("2s3h")
	if _, err := c.Calculate(hero, board, nil); err == nil {
		t.Fatal("expected error for 2-card board")
	}
}

func TestCalculateTurnEquityExcludesOpponentConflicts(t *testing.T) {
	c := NewCalculator()
	hero, _ := cards.ParseCards("AsAh")
	board, _ := cards.ParseCards("2s3h4d9c")
	opp := []notation.Combo{parseCombo(t, "KsKh")}

	res, err := c.Calculate(hero, board, opp)
	if err != nil {
		t.Fatalf("Calculate error = %v", err)
	}
	if res.WinPct <= 0.9 {
		t.Errorf("pocket aces vs kings on a blank turn should win big, got %v", res.WinPct)
	}
}

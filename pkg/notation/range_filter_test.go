package notation

import (
	"testing"

	"github.com/kmurf1999/postflop-solver/pkg/cards"
)

func TestFilterBoardRemovesConflicts(t *testing.T) {
	combos, err := ParseRange("AA")
	if err != nil {
		t.Fatalf("ParseRange error = %v", err)
	}

	board := []cards.Card{cards.NewCard(cards.Ace, cards.Spades), cards.NewCard(cards.King, cards.Hearts), cards.NewCard(cards.Four, cards.Clubs)}
	filtered := FilterBoard(combos, board)

	for _, c := range filtered {
		if c.Mask().Intersects(cards.NewMask(board...)) {
			t.Errorf("combo %v should have been filtered out by board conflict", c)
		}
	}
	if len(filtered) >= len(combos) {
		t.Error("expected at least one AA combo to be removed by the As on the board")
	}
}

func TestFilterCollisionsRemovesFixedHoleCards(t *testing.T) {
	combos, err := ParseRange("AKs")
	if err != nil {
		t.Fatalf("ParseRange error = %v", err)
	}

	fixed := cards.NewMask(cards.NewCard(cards.Ace, cards.Spades), cards.NewCard(cards.King, cards.Spades))
	filtered := FilterCollisions(combos, fixed)

	for _, c := range filtered {
		if c.Mask().Intersects(fixed) {
			t.Errorf("combo %v should not overlap fixed hand", c)
		}
	}
	if len(filtered) != len(combos)-1 {
		t.Errorf("expected exactly one suited combo removed, got %d remaining of %d", len(filtered), len(combos))
	}
}

func TestGenerateCombosDefaultWeight(t *testing.T) {
	combos, err := ParseRange("AKs")
	if err != nil {
		t.Fatalf("ParseRange error = %v", err)
	}
	for _, c := range combos {
		if c.Weight != 1 {
			t.Errorf("combo %v has weight %v, want 1", c, c.Weight)
		}
	}
}

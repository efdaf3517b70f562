package cards

import "testing"

func TestCanonicalIndexerSuitIsomorphism(t *testing.T) {
	idx := NewCanonicalIndexer()

	a := mustParse(t, "AsKs")
	b := mustParse(t, "AhKh")

	if idx.Index(Preflop, a) != idx.Index(Preflop, b) {
		t.Error("suit-isomorphic hands should canonicalize to the same index")
	}
}

func TestCanonicalIndexerDistinguishesOffsuit(t *testing.T) {
	idx := NewCanonicalIndexer()

	suited := mustParse(t, "AsKs")
	offsuit := mustParse(t, "AsKh")

	if idx.Index(Preflop, suited) == idx.Index(Preflop, offsuit) {
		t.Error("suited and offsuit hands should not canonicalize to the same index")
	}
}

func TestRoundNumBoardCards(t *testing.T) {
	cases := map[Round]int{
		Preflop: 0,
		Flop:    3,
		Turn:    4,
		River:   5,
	}
	for round, want := range cases {
		if got := round.NumBoardCards(); got != want {
			t.Errorf("%v.NumBoardCards() = %d, want %d", round, got, want)
		}
	}
}

func TestRoundFromBoardSize(t *testing.T) {
	cases := map[int]Round{0: Preflop, 3: Flop, 4: Turn, 5: River}
	for n, want := range cases {
		if got := RoundFromBoardSize(n); got != want {
			t.Errorf("RoundFromBoardSize(%d) = %v, want %v", n, got, want)
		}
	}
}

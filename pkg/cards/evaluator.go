package cards

import (
	"fmt"

	extpoker "github.com/chehsunliu/poker"
)

// Score is a 7-card hand strength. Higher always wins; equal scores split.
// This is the narrow interface the rest of the solver calls through instead
// of reimplementing 7-card evaluation.
type Score uint16

// toExternal converts a Card to the chehsunliu/poker wire notation ("As").
func toExternal(c Card) (extpoker.Card, error) {
	if c.IsAbsent() {
		return extpoker.Card(0), fmt.Errorf("cannot evaluate an absent card")
	}
	return extpoker.NewCard(c.String()), nil
}

// Evaluate scores the best 5-card hand out of exactly 7 cards. Higher Score
// wins. chehsunliu/poker internally ranks low-to-win (1 = royal flush); the
// wrapper inverts that so callers elsewhere in the solver can treat "higher
// is better" uniformly, matching spec's hand-evaluator contract.
func Evaluate(cs []Card) (Score, error) {
	if len(cs) != 7 {
		return 0, fmt.Errorf("evaluate requires exactly 7 cards, got %d", len(cs))
	}

	ext := make([]extpoker.Card, 0, 7)
	for _, c := range cs {
		card, err := toExternal(c)
		if err != nil {
			return 0, err
		}
		ext = append(ext, card)
	}

	rank := extpoker.Evaluate(ext)
	// extpoker ranks are roughly in [1, 7462], 1 best. Invert into a small
	// unsigned range so Score(0) never occurs for a valid hand and higher
	// always means stronger.
	const maxExtRank = 7463
	inverted := maxExtRank - int32(rank)
	if inverted < 0 {
		inverted = 0
	}
	return Score(inverted), nil
}

// Compare returns -1, 0, or 1 as a standard three-way comparator.
func (s Score) Compare(other Score) int {
	switch {
	case s < other:
		return -1
	case s > other:
		return 1
	default:
		return 0
	}
}

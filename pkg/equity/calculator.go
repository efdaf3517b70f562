// Package equity provides exhaustive equity calculation used
// only by the offline abstraction-inspection tooling (cmd/genabs); the
// solver's hot path never calls into this package; it consumes precomputed
// bucket tables instead (pkg/abstraction).
package equity

import (
	"fmt"

	"github.com/kmurf1999/postflop-solver/pkg/cards"
	"github.com/kmurf1999/postflop-solver/pkg/notation"
)

// Result represents the outcome of an equity calculation.
type Result struct {
	WinPct float64
	TiePct float64
	Equity float64
}

// Calculator computes hand equity vs opponent ranges via exhaustive enumeration.
type Calculator struct{}

// NewCalculator creates a new equity calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate computes hero's equity against opponent's range on the given
// board. hero must be 2 cards; board must be 3, 4, or 5 cards.
func (c *Calculator) Calculate(hero []cards.Card, board []cards.Card, opponentRange []notation.Combo) (Result, error) {
	switch len(board) {
	case 5:
		return c.riverEquity(hero, board, opponentRange)
	case 4:
		return c.turnEquity(hero, board, opponentRange)
	case 3:
		return c.flopEquity(hero, board, opponentRange)
	default:
		return Result{}, fmt.Errorf("equity: board must have 3, 4, or 5 cards, got %d", len(board))
	}
}

func (c *Calculator) riverEquity(hero, board []cards.Card, opponentRange []notation.Combo) (Result, error) {
	used := cards.NewMask(hero...).Union(cards.NewMask(board...))

	heroSeven := append(append([]cards.Card{}, hero...), board...)
	heroScore, err := cards.Evaluate(heroSeven)
	if err != nil {
		return Result{}, err
	}

	var wins, ties, total float64
	for _, combo := range opponentRange {
		if combo.Mask().Intersects(used) {
			continue
		}
		oppSeven := append([]cards.Card{combo.Card1, combo.Card2}, board...)
		oppScore, err := cards.Evaluate(oppSeven)
		if err != nil {
			return Result{}, err
		}
		switch heroScore.Compare(oppScore) {
		case 1:
			wins++
		case 0:
			ties++
		}
		total++
	}
	return resultFrom(wins, ties, total), nil
}

func (c *Calculator) turnEquity(hero, board []cards.Card, opponentRange []notation.Combo) (Result, error) {
	used := cards.NewMask(hero...).Union(cards.NewMask(board...))
	var wins, ties, total float64

	for _, river := range cards.Remaining(used) {
		fullBoard := append(append([]cards.Card{}, board...), river)
		res, err := c.riverEquity(hero, fullBoard, opponentRange)
		if err != nil {
			return Result{}, err
		}
		// riverEquity already normalizes by its own total; recover raw counts
		// by weighting its percentages back against the combo count it saw.
		n := comboCountExcluding(opponentRange, used.Add(river))
		wins += res.WinPct * n
		ties += res.TiePct * n
		total += n
	}
	return resultFrom(wins, ties, total), nil
}

func (c *Calculator) flopEquity(hero, board []cards.Card, opponentRange []notation.Combo) (Result, error) {
	used := cards.NewMask(hero...).Union(cards.NewMask(board...))
	var wins, ties, total float64

	remaining := cards.Remaining(used)
	for _, turn := range remaining {
		turnBoard := append(append([]cards.Card{}, board...), turn)
		turnUsed := used.Add(turn)
		for _, river := range cards.Remaining(turnUsed) {
			fullBoard := append(append([]cards.Card{}, turnBoard...), river)
			res, err := c.riverEquity(hero, fullBoard, opponentRange)
			if err != nil {
				return Result{}, err
			}
			n := comboCountExcluding(opponentRange, turnUsed.Add(river))
			wins += res.WinPct * n
			ties += res.TiePct * n
			total += n
		}
	}
	return resultFrom(wins, ties, total), nil
}

func comboCountExcluding(combos []notation.Combo, excl cards.Mask) float64 {
	var n float64
	for _, c := range combos {
		if !c.Mask().Intersects(excl) {
			n++
		}
	}
	return n
}

func resultFrom(wins, ties, total float64) Result {
	if total == 0 {
		return Result{Equity: 0.5}
	}
	winPct := wins / total
	tiePct := ties / total
	return Result{WinPct: winPct, TiePct: tiePct, Equity: winPct + tiePct/2}
}

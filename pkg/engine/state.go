// Package engine holds the immutable postflop game-state value, the betting
// abstraction that parameterizes legal actions, and the rules for applying
// an action and advancing between betting rounds. Nothing here is
// stochastic: dealing chance cards is a separate operation performed by the
// caller (tree builder or MCCFR traversal) with a supplied random source.
package engine

import (
	"github.com/kmurf1999/postflop-solver/pkg/cards"
)

// PlayerState is one seat's contribution to a State.
type PlayerState struct {
	Stack     float64
	Wager     float64
	Hole      [2]cards.Card
	HasFolded bool
}

// State is the immutable game-state value of a postflop subgame. Every
// mutating operation (Apply, AdvanceRound, DealBoard) returns a new State
// rather than modifying the receiver.
type State struct {
	Round       cards.Round
	Pot         float64
	Players     [2]PlayerState
	ActingSeat  int
	Board       [5]cards.Card
	BetsSettled bool
}

// OutOfPosition is the seat that acts first postflop (conventionally the
// non-button seat in a heads-up subgame); seat indices are fixed at
// construction and don't rotate within a single subgame solve.
const OutOfPosition = 0
const InPosition = 1

// NewState builds the initial state of a postflop subgame: both wagers at
// zero, the out-of-position seat to act, and the board as supplied (3, 4, or
// 5 cards — the remaining slots carry the Absent sentinel).
func NewState(round cards.Round, pot float64, stacks [2]float64, hole [2][2]cards.Card, board []cards.Card) (State, error) {
	if pot <= 0 {
		return State{}, &ConfigurationError{Reason: "pot must be positive"}
	}
	if stacks[0] < 0 || stacks[1] < 0 {
		return State{}, &ConfigurationError{Reason: "stacks must be non-negative"}
	}
	if len(board) != round.NumBoardCards() {
		return State{}, &ConfigurationError{Reason: "board length does not match round"}
	}

	var s State
	s.Round = round
	s.Pot = pot
	s.ActingSeat = OutOfPosition
	for seat := 0; seat < 2; seat++ {
		s.Players[seat] = PlayerState{Stack: stacks[seat], Hole: hole[seat]}
	}
	for i := range s.Board {
		s.Board[i] = cards.Absent
	}
	copy(s.Board[:], board)

	if err := s.validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// validate checks that no two cards in play collide.
func (s State) validate() error {
	var used cards.Mask
	for seat := 0; seat < 2; seat++ {
		for _, c := range s.Players[seat].Hole {
			if c.IsAbsent() {
				continue
			}
			if used.Contains(c) {
				return &ConfigurationError{Reason: "duplicate card across hole cards"}
			}
			used = used.Add(c)
		}
	}
	for _, c := range s.Board {
		if c.IsAbsent() {
			continue
		}
		if used.Contains(c) {
			return &ConfigurationError{Reason: "duplicate card between board and hole cards"}
		}
		used = used.Add(c)
	}
	return nil
}

// OtherSeat returns the seat index of the opponent of seat.
func OtherSeat(seat int) int {
	return 1 - seat
}

// BoardCards returns the dealt (non-Absent) board cards for the state's round.
func (s State) BoardCards() []cards.Card {
	n := s.Round.NumBoardCards()
	out := make([]cards.Card, n)
	copy(out, s.Board[:n])
	return out
}

// IsHandOver reports whether, once betting is settled, there is nothing left
// to bet on any remaining street: a fold, a river showdown, or either seat
// all-in before the river. Only one seat needs to be covered for betting to
// stop: once a seat has zero stack left, the other seat has nothing left to
// bet into. An all-in before the river ends the hand as an AllInRunout
// terminal; the remaining board is dealt at evaluation time, not built into
// the tree.
func (s State) IsHandOver() bool {
	if s.Players[0].HasFolded || s.Players[1].HasFolded {
		return true
	}
	if !s.BetsSettled {
		return false
	}
	return s.Round == cards.River || s.Players[0].Stack == 0 || s.Players[1].Stack == 0
}

// AdvanceRound clears wagers, moves to the next round, and resets the
// acting seat to out-of-position. Hole cards and stacks are untouched; the
// caller deals the new board card(s) via DealBoard separately.
func (s State) AdvanceRound() State {
	next := s
	next.Players[0].Wager = 0
	next.Players[1].Wager = 0
	next.ActingSeat = OutOfPosition
	next.BetsSettled = false
	switch s.Round {
	case cards.Preflop:
		next.Round = cards.Flop
	case cards.Flop:
		next.Round = cards.Turn
	case cards.Turn:
		next.Round = cards.River
	}
	return next
}

// DealBoard sets the board cards for the next street (the ones beyond what
// is already dealt), returning a new State.
func (s State) DealBoard(newCards []cards.Card) State {
	next := s
	n := s.Round.NumBoardCards()
	for i, c := range newCards {
		next.Board[n-len(newCards)+i] = c
	}
	return next
}

// Package tree builds the arena-indexed game tree a solve runs over: a
// PrivateChance root, PublicChance nodes between betting rounds, Action
// nodes for each decision, and Terminal nodes (fold, all-in runout,
// showdown) at the leaves.
package tree

import (
	"github.com/kmurf1999/postflop-solver/pkg/cards"
	"github.com/kmurf1999/postflop-solver/pkg/engine"
)

// Builder emits a Tree depth-first from an initial State and betting
// abstraction.
type Builder struct {
	nextActionIndex int
}

// NewBuilder returns a ready-to-use Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build constructs the full game tree rooted at initial. The root is always
// a PrivateChance node with exactly one Action-node child (the first
// decision); abs is validated before any emission begins.
func (b *Builder) Build(initial engine.State, abs engine.BettingAbstraction) (*Tree, error) {
	if err := abs.Validate(); err != nil {
		return nil, err
	}

	b.nextActionIndex = 0
	t := &Tree{}
	rootIdx := t.addNode(Node{Kind: PrivateChance, State: initial})
	t.Root = rootIdx

	childIdx, err := b.emit(t, initial, abs)
	if err != nil {
		return nil, err
	}
	t.Nodes[rootIdx].Child = childIdx
	t.NumActionNodes = b.nextActionIndex
	return t, nil
}

// emit builds the subtree rooted at s and returns its arena index.
func (b *Builder) emit(t *Tree, s engine.State, abs engine.BettingAbstraction) (int, error) {
	if s.BetsSettled {
		if s.IsHandOver() {
			idx := t.addNode(Node{Kind: Terminal, State: s, TerminalKind: terminalKindFor(s)})
			return idx, nil
		}
		if s.Round != cards.River {
			idx := t.addNode(Node{Kind: PublicChance, State: s})
			childIdx, err := b.emit(t, s.AdvanceRound(), abs)
			if err != nil {
				return 0, err
			}
			t.Nodes[idx].Child = childIdx
			return idx, nil
		}
	}

	legal := s.LegalActions(abs)
	if len(legal) == 0 {
		return 0, &engine.ConfigurationError{Reason: "no legal actions at a non-terminal, non-settled state"}
	}

	idx := t.addNode(Node{
		Kind:        Action,
		State:       s,
		Seat:        s.ActingSeat,
		ActionIndex: b.nextActionIndex,
		Actions:     legal,
		Children:    make([]int, len(legal)),
	})
	b.nextActionIndex++

	for i, a := range legal {
		childIdx, err := b.emit(t, s.Apply(a), abs)
		if err != nil {
			return 0, err
		}
		t.Nodes[idx].Children[i] = childIdx
	}
	return idx, nil
}

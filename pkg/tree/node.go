package tree

import (
	"fmt"
	"strings"

	"github.com/kmurf1999/postflop-solver/pkg/cards"
	"github.com/kmurf1999/postflop-solver/pkg/engine"
)

// Kind tags a Node's variant.
type Kind uint8

const (
	PrivateChance Kind = iota
	PublicChance
	Action
	Terminal
)

func (k Kind) String() string {
	switch k {
	case PrivateChance:
		return "private-chance"
	case PublicChance:
		return "public-chance"
	case Action:
		return "action"
	case Terminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// TerminalKind distinguishes the three ways a hand can end.
type TerminalKind uint8

const (
	// Fold: one seat folded; the other takes the pot uncontested.
	Fold TerminalKind = iota
	// AllInRunout: bets settled before the river with at least one stack
	// at zero; the remaining board must be dealt at evaluation time (the
	// tree does not branch on it, since no further bet can be matched).
	AllInRunout
	// Showdown: bets settled on a complete river board.
	Showdown
)

func (k TerminalKind) String() string {
	switch k {
	case Fold:
		return "fold"
	case AllInRunout:
		return "all-in-runout"
	case Showdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// Node is one arena-owned entry in a Tree. Children are referenced by arena
// index (the Child/Children fields), never by pointer, so a Tree can be
// shared read-only across worker goroutines without any cloning.
type Node struct {
	Kind Kind
	// State is the game state this node represents (post whatever action
	// or deal produced it).
	State engine.State

	// Child is the sole child index for PrivateChance/PublicChance nodes.
	Child int

	// Seat, ActionIndex, Actions, Children are populated for Action nodes.
	// Children[i] is the arena index reached by applying Actions[i].
	Seat        int
	ActionIndex int
	Actions     []engine.Action
	Children    []int

	// TerminalKind is populated for Terminal nodes.
	TerminalKind TerminalKind
}

// Tree is an arena of Nodes built by Builder.Build.
type Tree struct {
	Nodes []Node
	Root  int
	// NumActionNodes is the count of Action nodes, i.e. one past the
	// highest ActionIndex assigned during construction. The infoset store
	// sizes its per-action-node slices against this.
	NumActionNodes int
}

func (t *Tree) addNode(n Node) int {
	t.Nodes = append(t.Nodes, n)
	return len(t.Nodes) - 1
}

// Dump writes a depth-first, indented rendering of the tree, mirroring the
// teacher's node String() texture.
func (t *Tree) Dump(w *strings.Builder) {
	t.dumpNode(w, t.Root, 0)
}

func (t *Tree) dumpNode(w *strings.Builder, idx int, depth int) {
	indent := strings.Repeat("  ", depth)
	n := &t.Nodes[idx]
	switch n.Kind {
	case PrivateChance:
		fmt.Fprintf(w, "%sPrivateChance\n", indent)
		t.dumpNode(w, n.Child, depth+1)
	case PublicChance:
		fmt.Fprintf(w, "%sPublicChance{round=%s}\n", indent, n.State.Round)
		t.dumpNode(w, n.Child, depth+1)
	case Action:
		fmt.Fprintf(w, "%sAction{seat=%d, action_index=%d, pot=%.2f}\n", indent, n.Seat, n.ActionIndex, n.State.Pot)
		for i, a := range n.Actions {
			fmt.Fprintf(w, "%s  -%s(%.2f)->\n", indent, a.Kind, a.Amount)
			t.dumpNode(w, n.Children[i], depth+2)
		}
	case Terminal:
		fmt.Fprintf(w, "%sTerminal{kind=%s, pot=%.2f}\n", indent, n.TerminalKind, n.State.Pot)
	}
}

func terminalKindFor(s engine.State) TerminalKind {
	if s.Players[0].HasFolded || s.Players[1].HasFolded {
		return Fold
	}
	if s.Round == cards.River {
		return Showdown
	}
	return AllInRunout
}

package tree

import (
	"strings"
	"testing"

	"github.com/kmurf1999/postflop-solver/pkg/cards"
	"github.com/kmurf1999/postflop-solver/pkg/engine"
)

func mustCards(t *testing.T, s string) []cards.Card {
	t.Helper()
	cs, err := cards.ParseCards(s)
	if err != nil {
		t.Fatalf("ParseCards(%q) error = %v", s, err)
	}
	return cs
}

func riverState(t *testing.T, pot float64, stacks [2]float64) engine.State {
	t.Helper()
	hole0 := mustCards(t, "AsAh")
	hole1 := mustCards(t, "KsKh")
	board := mustCards(t, "2c3c4c5c6c")
	s, err := engine.NewState(cards.River, pot, stacks,
		[2][2]cards.Card{{hole0[0], hole0[1]}, {hole1[0], hole1[1]}}, board)
	if err != nil {
		t.Fatalf("NewState error = %v", err)
	}
	return s
}

func TestBuildRootIsPrivateChanceWithOneActionChild(t *testing.T) {
	s := riverState(t, 100, [2]float64{1000, 1000})
	abs := engine.BettingAbstraction{BetFractions: [4][]float64{cards.River: {0.5}}, MinBet: 1}

	tr, err := NewBuilder().Build(s, abs)
	if err != nil {
		t.Fatalf("Build error = %v", err)
	}
	root := tr.Nodes[tr.Root]
	if root.Kind != PrivateChance {
		t.Fatalf("expected root to be PrivateChance, got %v", root.Kind)
	}
	child := tr.Nodes[root.Child]
	if child.Kind != Action {
		t.Fatalf("expected root's child to be Action, got %v", child.Kind)
	}
	if child.ActionIndex != 0 {
		t.Errorf("expected the first action node to have ActionIndex 0, got %d", child.ActionIndex)
	}
}

func TestBuildBothCheckReachesShowdownTerminal(t *testing.T) {
	s := riverState(t, 100, [2]float64{1000, 1000})
	abs := engine.BettingAbstraction{}

	tr, err := NewBuilder().Build(s, abs)
	if err != nil {
		t.Fatalf("Build error = %v", err)
	}
	root := tr.Nodes[tr.Nodes[tr.Root].Child]
	if len(root.Actions) != 1 || root.Actions[0].Kind != engine.CheckFold {
		t.Fatalf("expected only CheckFold legal with an empty abstraction, got %v", root.Actions)
	}
	oopCheckIdx := root.Children[0]
	ipNode := tr.Nodes[oopCheckIdx]
	if ipNode.Kind != Action {
		t.Fatalf("expected in-position seat to still act after the first check, got %v", ipNode.Kind)
	}
	ipCheckIdx := ipNode.Children[0]
	terminal := tr.Nodes[ipCheckIdx]
	if terminal.Kind != Terminal || terminal.TerminalKind != Showdown {
		t.Fatalf("expected a Showdown terminal after both seats check, got %v/%v", terminal.Kind, terminal.TerminalKind)
	}
}

func TestBuildFoldReachesFoldTerminal(t *testing.T) {
	s := riverState(t, 100, [2]float64{1000, 1000})
	abs := engine.BettingAbstraction{BetFractions: [4][]float64{cards.River: {1.0}}, MinBet: 1}

	tr, err := NewBuilder().Build(s, abs)
	if err != nil {
		t.Fatalf("Build error = %v", err)
	}
	root := tr.Nodes[tr.Nodes[tr.Root].Child]
	var betChildIdx int
	found := false
	for i, a := range root.Actions {
		if a.Kind == engine.Bet {
			betChildIdx = root.Children[i]
			found = true
		}
	}
	if !found {
		t.Fatal("expected a Bet action at the root decision")
	}
	afterBet := tr.Nodes[betChildIdx]
	if afterBet.Kind != Action {
		t.Fatalf("expected an Action node facing the bet, got %v", afterBet.Kind)
	}
	var foldChildIdx int
	for i, a := range afterBet.Actions {
		if a.Kind == engine.CheckFold {
			foldChildIdx = afterBet.Children[i]
		}
	}
	terminal := tr.Nodes[foldChildIdx]
	if terminal.Kind != Terminal || terminal.TerminalKind != Fold {
		t.Fatalf("expected a Fold terminal after CheckFold facing a bet, got %v/%v", terminal.Kind, terminal.TerminalKind)
	}
}

func TestBuildAllInBeforeRiverProducesAllInRunoutTerminal(t *testing.T) {
	hole0 := mustCards(t, "AsAh")
	hole1 := mustCards(t, "KsKh")
	board := mustCards(t, "2c3c4c")
	s, err := engine.NewState(cards.Flop, 100, [2]float64{50, 50},
		[2][2]cards.Card{{hole0[0], hole0[1]}, {hole1[0], hole1[1]}}, board)
	if err != nil {
		t.Fatalf("NewState error = %v", err)
	}

	abs := engine.BettingAbstraction{
		BetFractions:   [4][]float64{cards.Flop: {5.0}},
		RaiseFractions: [4][]float64{cards.Flop: {5.0}},
		AllInThreshold: 0.5,
		MinBet:         1,
	}

	tr, err := NewBuilder().Build(s, abs)
	if err != nil {
		t.Fatalf("Build error = %v", err)
	}

	root := tr.Nodes[tr.Nodes[tr.Root].Child]
	var allInIdx int
	for i, a := range root.Actions {
		if a.Kind == engine.Bet {
			allInIdx = root.Children[i]
		}
	}
	facingAllIn := tr.Nodes[allInIdx]
	var callIdx int
	found := false
	for i, a := range facingAllIn.Actions {
		if a.Kind == engine.Call {
			callIdx = facingAllIn.Children[i]
			found = true
		}
	}
	if !found {
		t.Fatal("expected Call to be legal facing an all-in bet")
	}
	terminal := tr.Nodes[callIdx]
	if terminal.Kind != Terminal || terminal.TerminalKind != AllInRunout {
		t.Fatalf("expected an AllInRunout terminal after calling all-in on the flop, got %v/%v", terminal.Kind, terminal.TerminalKind)
	}
}

func TestBuildMalformedAbstractionReturnsConfigurationError(t *testing.T) {
	s := riverState(t, 100, [2]float64{1000, 1000})
	abs := engine.BettingAbstraction{BetFractions: [4][]float64{cards.River: {-0.5}}}

	_, err := NewBuilder().Build(s, abs)
	if err == nil {
		t.Fatal("expected a ConfigurationError for a negative bet fraction")
	}
}

func TestBuildActionIndicesAreSequential(t *testing.T) {
	s := riverState(t, 100, [2]float64{1000, 1000})
	abs := engine.BettingAbstraction{BetFractions: [4][]float64{cards.River: {0.5, 1.0}}, MinBet: 1}

	tr, err := NewBuilder().Build(s, abs)
	if err != nil {
		t.Fatalf("Build error = %v", err)
	}
	seen := make(map[int]bool)
	for _, n := range tr.Nodes {
		if n.Kind == Action {
			seen[n.ActionIndex] = true
		}
	}
	if len(seen) != tr.NumActionNodes {
		t.Fatalf("expected %d distinct action indices, got %d", tr.NumActionNodes, len(seen))
	}
	for i := 0; i < tr.NumActionNodes; i++ {
		if !seen[i] {
			t.Errorf("action index %d is missing from the tree", i)
		}
	}
}

func TestDumpProducesNonEmptyOutput(t *testing.T) {
	s := riverState(t, 100, [2]float64{1000, 1000})
	abs := engine.BettingAbstraction{}
	tr, err := NewBuilder().Build(s, abs)
	if err != nil {
		t.Fatalf("Build error = %v", err)
	}
	var sb strings.Builder
	tr.Dump(&sb)
	if !strings.Contains(sb.String(), "Terminal") {
		t.Error("expected the dump to mention a Terminal node")
	}
}

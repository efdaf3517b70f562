package solver

import "github.com/kmurf1999/postflop-solver/pkg/engine"

// Agent selects one of state's legal actions. Scripted agents implement
// this for debugging a tree or a checkpointed strategy against a fixed
// opponent policy, grounded on the original solver's Agent trait.
type Agent interface {
	Act(state engine.State, abs engine.BettingAbstraction) engine.Action
}

// CheckFoldAgent always takes the no-added-chips action: checks when
// nothing is owed, folds when facing a bet.
type CheckFoldAgent struct{}

func (CheckFoldAgent) Act(state engine.State, abs engine.BettingAbstraction) engine.Action {
	return engine.Action{Kind: engine.CheckFold}
}

// AlwaysCallAgent calls any bet and checks when nothing is owed; it never
// folds, bets, or raises.
type AlwaysCallAgent struct{}

func (AlwaysCallAgent) Act(state engine.State, abs engine.BettingAbstraction) engine.Action {
	opp := engine.OtherSeat(state.ActingSeat)
	callAmount := state.Players[opp].Wager - state.Players[state.ActingSeat].Wager
	if callAmount <= 0 {
		return engine.Action{Kind: engine.CheckFold}
	}
	for _, a := range state.LegalActions(abs) {
		if a.Kind == engine.Call {
			return a
		}
	}
	return engine.Action{Kind: engine.CheckFold}
}

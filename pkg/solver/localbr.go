package solver

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/kmurf1999/postflop-solver/pkg/cards"
	"github.com/kmurf1999/postflop-solver/pkg/engine"
	"github.com/kmurf1999/postflop-solver/pkg/notation"
	"github.com/kmurf1999/postflop-solver/pkg/tree"
)

// beliefEntry is one opponent combo's surviving probability mass in a
// LocalBR belief distribution.
type beliefEntry struct {
	Combo  notation.Combo
	Weight float64
}

func normalizeBelief(belief []beliefEntry) {
	total := 0.0
	for _, be := range belief {
		total += be.Weight
	}
	if total <= 0 {
		return
	}
	for i := range belief {
		belief[i].Weight /= total
	}
}

func initBelief(rng []notation.Combo, initialBoard []cards.Card, blockerHole [2]cards.Card) []beliefEntry {
	blocked := cards.NewMask(initialBoard...).Union(cards.NewMask(blockerHole[0], blockerHole[1]))
	out := make([]beliefEntry, 0, len(rng))
	for _, c := range rng {
		if c.Mask().Intersects(blocked) {
			continue
		}
		out = append(out, beliefEntry{Combo: c, Weight: c.Weight})
	}
	normalizeBelief(out)
	return out
}

func filterBeliefBoard(belief []beliefEntry, board []cards.Card) []beliefEntry {
	blocked := cards.NewMask(board...)
	filtered := make([]beliefEntry, 0, len(belief))
	for _, be := range belief {
		if be.Combo.Mask().Intersects(blocked) {
			continue
		}
		filtered = append(filtered, be)
	}
	normalizeBelief(filtered)
	return filtered
}

// riverShowdown returns 1 if hole beats opp on the complete board, 0 if it
// loses, 0.5 on a split.
func riverShowdown(hole [2]cards.Card, opp notation.Combo, board [5]cards.Card) float64 {
	h := append([]cards.Card{hole[0], hole[1]}, board[:]...)
	o := append([]cards.Card{opp.Card1, opp.Card2}, board[:]...)
	hs, err1 := cards.Evaluate(h)
	os, err2 := cards.Evaluate(o)
	if err1 != nil || err2 != nil {
		return 0.5
	}
	switch hs.Compare(os) {
	case 1:
		return 1
	case -1:
		return 0
	default:
		return 0.5
	}
}

func turnRollout(hole [2]cards.Card, opp notation.Combo, board [5]cards.Card) float64 {
	used := cards.NewMask(hole[0], hole[1], opp.Card1, opp.Card2, board[0], board[1], board[2], board[3])
	remaining := cards.Remaining(used)
	if len(remaining) == 0 {
		return 0.5
	}
	total := 0.0
	for _, r := range remaining {
		full := board
		full[4] = r
		total += riverShowdown(hole, opp, full)
	}
	return total / float64(len(remaining))
}

func flopRollout(hole [2]cards.Card, opp notation.Combo, board [5]cards.Card) float64 {
	used := cards.NewMask(hole[0], hole[1], opp.Card1, opp.Card2, board[0], board[1], board[2])
	remaining := cards.Remaining(used)
	n := len(remaining)
	if n < 2 {
		return 0.5
	}
	total := 0.0
	count := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			full := board
			full[3] = remaining[i]
			full[4] = remaining[j]
			total += riverShowdown(hole, opp, full)
			count++
		}
	}
	if count == 0 {
		return 0.5
	}
	return total / float64(count)
}

// winProbability is the performance-critical wp rollout, specialized per
// round: river is one pass over belief, turn sums over the
// (at most 47) remaining cards per belief combo, flop double-loops over
// remaining card pairs per belief combo.
func winProbability(hole [2]cards.Card, belief []beliefEntry, board [5]cards.Card, round cards.Round) float64 {
	totalWeight, totalWin := 0.0, 0.0
	for _, be := range belief {
		totalWeight += be.Weight
	}
	if totalWeight <= 0 {
		return 0.5
	}
	for _, be := range belief {
		var w float64
		switch round {
		case cards.River:
			w = riverShowdown(hole, be.Combo, board)
		case cards.Turn:
			w = turnRollout(hole, be.Combo, board)
		default:
			w = flopRollout(hole, be.Combo, board)
		}
		totalWin += be.Weight * w
	}
	return totalWin / totalWeight
}

// LocalBR estimates each seat's exploitability of the current averaged
// strategy via a belief-propagation local best response.
type LocalBR struct {
	Tree   *tree.Tree
	Store  *Store
	Dealer *dealer
	Ranges [2][]notation.Combo

	Workers int
	Seed    int64
}

func (lb *LocalBR) workerCount() int {
	if lb.Workers > 0 {
		return lb.Workers
	}
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Run estimates both seats' best-response EV against the current averaged
// strategy over `deals` independent samples per seat, combining per-worker
// accumulators through a single final mutex.
func (lb *LocalBR) Run(ctx context.Context, deals int) ([2]float64, error) {
	var totals, counts [2]float64
	var mu sync.Mutex

	for traverser := 0; traverser < 2; traverser++ {
		traverser := traverser
		var counter atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		for w := 0; w < lb.workerCount(); w++ {
			seed := lb.Seed + int64(w) + 1 + int64(traverser)*10_000
			g.Go(func() error {
				rng := rand.New(rand.NewSource(seed))
				localSum, localCount := 0.0, 0.0
				for {
					select {
					case <-gctx.Done():
						return gctx.Err()
					default:
					}
					it := counter.Add(1)
					if it > int64(deals) {
						break
					}
					localSum += lb.runDeal(rng, traverser)
					localCount++
				}
				mu.Lock()
				totals[traverser] += localSum
				counts[traverser] += localCount
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return [2]float64{}, err
		}
	}

	var evs [2]float64
	for s := 0; s < 2; s++ {
		if counts[s] > 0 {
			evs[s] = totals[s] / counts[s]
		}
	}
	return evs, nil
}

func (lb *LocalBR) runDeal(rng *rand.Rand, traverser int) float64 {
	d := lb.Dealer.sample(rng)
	opp := 1 - traverser
	belief := initBelief(lb.Ranges[opp], lb.Dealer.initialBoard, d.hole[traverser])
	first := lb.Tree.Nodes[lb.Tree.Root].Child
	return lb.walk(rng, first, traverser, &d, belief)
}

// walk descends the tree, updating beliefs at opponent and chance nodes and
// estimating the traverser's best local action at the traverser's own
// nodes. It always continues into a real child node (the closed-form
// utilities decide WHICH action, they are not themselves the returned
// value) so the walk terminates at an actual
// Terminal node with the realized payoff of this sampled deal.
func (lb *LocalBR) walk(rng *rand.Rand, nodeIdx int, traverser int, d *deal, belief []beliefEntry) float64 {
	n := &lb.Tree.Nodes[nodeIdx]

	switch n.Kind {
	case tree.Terminal:
		return terminalUtilityFromDeal(n, traverser, d)

	case tree.PrivateChance:
		return lb.walk(rng, n.Child, traverser, d, belief)

	case tree.PublicChance:
		nextRound := lb.Tree.Nodes[n.Child].State.Round
		filtered := filterBeliefBoard(belief, d.board[:nextRound.NumBoardCards()])
		return lb.walk(rng, n.Child, traverser, d, filtered)

	case tree.Action:
		if n.Seat == traverser {
			return lb.walkTraverserNode(rng, n, traverser, d, belief)
		}
		return lb.walkOpponentNode(rng, n, traverser, d, belief)
	}
	return 0
}

func terminalUtilityFromDeal(n *tree.Node, traverser int, d *deal) float64 {
	pot := n.State.Pot
	if n.TerminalKind == tree.Fold {
		folder := 0
		if n.State.Players[1].HasFolded {
			folder = 1
		}
		if traverser == folder {
			return -pot
		}
		return pot
	}
	if d.winnerBit[traverser] {
		return pot / float64(d.numWinner)
	}
	return -pot / float64(d.numWinner)
}

// walkOpponentNode samples the action the concrete dealt opponent hand
// actually takes (from their averaged strategy at their own bucket), then
// updates every belief combo's weight by its own probability of taking that
// same action.
func (lb *LocalBR) walkOpponentNode(rng *rand.Rand, n *tree.Node, traverser int, d *deal, belief []beliefEntry) float64 {
	slice := lb.Store.Slices[n.ActionIndex]
	realBucket := int(d.bucket[n.Seat][n.State.Round])
	sigmaReal := slice.AverageStrategy(realBucket)
	aStar := sampleIndex(rng, sigmaReal)

	next := make([]beliefEntry, 0, len(belief))
	for _, be := range belief {
		cbucket := lb.comboBucket(n.Seat, n.State.Round, be.Combo, d)
		sigma := slice.AverageStrategy(cbucket)
		w := be.Weight * sigma[aStar]
		if w > 0 {
			next = append(next, beliefEntry{Combo: be.Combo, Weight: w})
		}
	}
	normalizeBelief(next)
	return lb.walk(rng, n.Children[aStar], traverser, d, next)
}

func (lb *LocalBR) comboBucket(seat int, round cards.Round, c notation.Combo, d *deal) int {
	boardSlice := d.board[:round.NumBoardCards()]
	hole := [2]cards.Card{c.Card1, c.Card2}
	return int(lb.Dealer.denseMaps[seat][round].Lookup(lb.Dealer.indexer, hole, boardSlice, lb.Dealer.tables[round]))
}

// walkTraverserNode picks the traverser's locally-best action using
// closed-form call/check and bet/raise utility estimators, then continues
// the walk down the chosen branch.
func (lb *LocalBR) walkTraverserNode(rng *rand.Rand, n *tree.Node, traverser int, d *deal, belief []beliefEntry) float64 {
	opp := 1 - traverser
	wp := winProbability(d.hole[traverser], belief, d.board, n.State.Round)

	callAmount := n.State.Players[opp].Wager - n.State.Players[traverser].Wager
	if callAmount < 0 {
		callAmount = 0
	}
	potAfterCall := n.State.Pot + callAmount

	best := 0
	bestUtil := math.Inf(-1)
	for i, a := range n.Actions {
		var util float64
		switch a.Kind {
		case engine.CheckFold:
			if callAmount > 0 {
				util = -lb.Tree.Nodes[n.Children[i]].State.Pot
			} else {
				util = wp * potAfterCall
			}
		case engine.Call:
			util = wp*potAfterCall - (1-wp)*callAmount
		case engine.Bet:
			util = lb.betOrRaiseUtility(n, n.Children[i], traverser, opp, d, belief, a.Amount)
		case engine.Raise:
			util = lb.betOrRaiseUtility(n, n.Children[i], traverser, opp, d, belief, callAmount+a.Amount)
		}
		if util > bestUtil {
			bestUtil = util
			best = i
		}
	}
	return lb.walk(rng, n.Children[best], traverser, d, belief)
}

// betOrRaiseUtility estimates the EV of betting/raising addedByUs more
// chips: a fold-weighted share of the current pot plus a continue-weighted
// share of the call/check formula evaluated against the belief filtered to
// combos that wouldn't fold.
func (lb *LocalBR) betOrRaiseUtility(n *tree.Node, childIdx int, traverser, opp int, d *deal, belief []beliefEntry, addedByUs float64) float64 {
	child := &lb.Tree.Nodes[childIdx]
	foldIdx := 0
	for k, ca := range child.Actions {
		if ca.Kind == engine.CheckFold {
			foldIdx = k
			break
		}
	}
	slice := lb.Store.Slices[child.ActionIndex]
	round := child.State.Round

	fp := 0.0
	next := make([]beliefEntry, 0, len(belief))
	for _, be := range belief {
		cbucket := lb.comboBucket(opp, round, be.Combo, d)
		sigma := slice.AverageStrategy(cbucket)
		foldP := sigma[foldIdx]
		fp += be.Weight * foldP
		w := be.Weight * (1 - foldP)
		if w > 0 {
			next = append(next, beliefEntry{Combo: be.Combo, Weight: w})
		}
	}
	normalizeBelief(next)

	wpPrime := winProbability(d.hole[traverser], next, d.board, n.State.Round)
	potIfCalled := n.State.Pot + 2*addedByUs
	continueUtil := wpPrime*potIfCalled - (1-wpPrime)*addedByUs
	return fp*n.State.Pot + (1-fp)*continueUtil
}

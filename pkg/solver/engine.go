// Package solver implements the external-sampling MCCFR training loop, local
// best response exploitability estimator, and checkpoint I/O that train and
// evaluate a postflop subgame's infoset store.
package solver

import (
	"context"
	"math/rand"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/kmurf1999/postflop-solver/pkg/tree"
)

const (
	defaultPruneThreshold   = -3e8
	defaultDiscountInterval = 1_000_000
)

// Engine runs external-sampling MCCFR over a built Tree.
type Engine struct {
	Tree  *tree.Tree
	Store *Store
	Dealer *dealer

	// PruneThreshold: a regret at or below this value skips a non-terminal
	// child during the traverser's own exploration.
	PruneThreshold float64
	// DiscountInterval: every this many iterations, scale regret and
	// strategy_sum by floor(t/Δ)/(floor(t/Δ)+1). Zero disables discounting.
	DiscountInterval int64
	// Workers caps the worker pool size; zero means runtime.NumCPU() capped
	// at 8.
	Workers int
	// Seed seeds each worker's independent *rand.Rand.
	Seed int64
}

func (e *Engine) workerCount() int {
	if e.Workers > 0 {
		return e.Workers
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

// Run executes iterations 1..T, partitioning the iteration space across a
// worker pool with an atomic fetch-add counter, pausing at each
// DiscountInterval boundary to apply discounting single-threaded.
func (e *Engine) Run(ctx context.Context, T int64) error {
	interval := e.DiscountInterval
	if interval <= 0 {
		interval = T + 1 // never trips if disabled
	}

	var t int64
	for t < T {
		batchEnd := t + interval
		if batchEnd > T {
			batchEnd = T
		}
		if err := e.runBatch(ctx, t, batchEnd); err != nil {
			return err
		}
		t = batchEnd
		if e.DiscountInterval > 0 && t%e.DiscountInterval == 0 {
			k := t / e.DiscountInterval
			factor := float64(k) / float64(k+1)
			for _, s := range e.Store.Slices {
				s.discount(factor)
			}
		}
	}
	return nil
}

func (e *Engine) runBatch(ctx context.Context, start, end int64) error {
	var counter atomic.Int64
	counter.Store(start)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < e.workerCount(); w++ {
		seed := e.Seed + int64(w) + 1
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				it := counter.Add(1)
				if it > end {
					return nil
				}
				e.runIteration(rng)
			}
		})
	}
	return g.Wait()
}

// runIteration deals one sample, draws the per-deal prune flag, then
// traverses the tree once per seat with that seat as traverser.
func (e *Engine) runIteration(rng *rand.Rand) {
	d := e.Dealer.sample(rng)
	pruneFlag := rng.Float64() < 0.05

	firstAction := e.Tree.Nodes[e.Tree.Root].Child
	e.traverse(rng, firstAction, 0, pruneFlag, &d)
	e.traverse(rng, firstAction, 1, pruneFlag, &d)
}

// traverse is the external-sampling MCCFR recursion.
func (e *Engine) traverse(rng *rand.Rand, nodeIdx int, traverser int, prune bool, d *deal) float64 {
	n := &e.Tree.Nodes[nodeIdx]

	switch n.Kind {
	case tree.Terminal:
		return e.terminalUtility(n, traverser, d)

	case tree.PublicChance:
		return e.traverse(rng, n.Child, traverser, prune, d)

	case tree.PrivateChance:
		return e.traverse(rng, n.Child, traverser, prune, d)

	case tree.Action:
		slice := e.Store.Slices[n.ActionIndex]
		bucket := int(d.bucket[n.Seat][n.State.Round])
		sigma := slice.RegretMatch(bucket)

		if n.Seat == traverser {
			u := 0.0
			uAction := make([]float64, len(n.Actions))
			explored := make([]bool, len(n.Actions))
			for a := range n.Actions {
				childIdx := n.Children[a]
				if prune &&
					slice.Regret[slice.cellIndex(bucket, a)].Load() <= e.PruneThreshold &&
					e.Tree.Nodes[childIdx].Kind != tree.Terminal {
					continue
				}
				uAction[a] = e.traverse(rng, childIdx, traverser, prune, d)
				explored[a] = true
			}
			for a := range n.Actions {
				u += sigma[a] * uAction[a]
			}
			for a := range n.Actions {
				if explored[a] {
					slice.AddRegret(bucket, a, uAction[a]-u)
				}
			}
			return u
		}

		aStar := sampleIndex(rng, sigma)
		slice.AddStrategy(bucket, aStar, 1)
		return e.traverse(rng, n.Children[aStar], traverser, prune, d)
	}
	return 0
}

func (e *Engine) terminalUtility(n *tree.Node, traverser int, d *deal) float64 {
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

// sampleIndex draws an index from a discrete distribution that sums to ~1.
func sampleIndex(rng *rand.Rand, dist []float64) int {
	r := rng.Float64()
	acc := 0.0
	for i, p := range dist {
		acc += p
		if r <= acc {
			return i
		}
	}
	return len(dist) - 1
}

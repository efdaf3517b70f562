package solver

import (
	"math"
	"sync/atomic"

	"github.com/kmurf1999/postflop-solver/pkg/tree"
)

// regretCell is a float64 behind an atomic compare-and-swap loop: Go's
// sync/atomic has no native float64 add (only int32/int64/uint32/uint64/
// pointer), so a relaxed read-modify-write loop over the bit pattern is the
// idiomatic substitute for lock-free aggregation across concurrent workers.
type regretCell struct {
	bits atomic.Uint64
}

func (c *regretCell) Load() float64 {
	return math.Float64frombits(c.bits.Load())
}

func (c *regretCell) Store(v float64) {
	c.bits.Store(math.Float64bits(v))
}

// Add performs a relaxed atomic add. Readers tolerate a slightly stale value
// since regret matching is self-correcting, so this loop never needs to
// block a concurrent writer beyond retrying the CAS.
func (c *regretCell) Add(delta float64) {
	for {
		old := c.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if c.bits.CompareAndSwap(old, next) {
			return
		}
	}
}

// InfosetSlice holds the two flat arrays for one action node: regret
// (float64) and strategy_sum (32-bit signed), bucket-major layout
// `b*NumActions+a`.
type InfosetSlice struct {
	NumActions  int
	NumBuckets  int
	Regret      []regretCell
	StrategySum []atomic.Int32
}

func newInfosetSlice(numActions, numBuckets int) *InfosetSlice {
	return &InfosetSlice{
		NumActions:  numActions,
		NumBuckets:  numBuckets,
		Regret:      make([]regretCell, numActions*numBuckets),
		StrategySum: make([]atomic.Int32, numActions*numBuckets),
	}
}

func (s *InfosetSlice) cellIndex(bucket, action int) int {
	return bucket*s.NumActions + action
}

// RegretMatch computes sigma for a bucket: max(regret,0) normalized, or
// uniform if every action has non-positive regret.
func (s *InfosetSlice) RegretMatch(bucket int) []float64 {
	sigma := make([]float64, s.NumActions)
	sum := 0.0
	base := bucket * s.NumActions
	for a := 0; a < s.NumActions; a++ {
		r := s.Regret[base+a].Load()
		if r > 0 {
			sigma[a] = r
			sum += r
		}
	}
	if sum <= 0 {
		uniform := 1.0 / float64(s.NumActions)
		for a := range sigma {
			sigma[a] = uniform
		}
		return sigma
	}
	for a := range sigma {
		sigma[a] /= sum
	}
	return sigma
}

// AddRegret atomically adds delta to regret[bucket, action].
func (s *InfosetSlice) AddRegret(bucket, action int, delta float64) {
	s.Regret[s.cellIndex(bucket, action)].Add(delta)
}

// AddStrategy atomically increments strategy_sum[bucket, action] by delta.
func (s *InfosetSlice) AddStrategy(bucket, action int, delta int32) {
	s.StrategySum[s.cellIndex(bucket, action)].Add(delta)
}

// AverageStrategy regret-matches on strategy_sum, yielding the time-averaged
// mixed strategy used as the final recommended policy.
func (s *InfosetSlice) AverageStrategy(bucket int) []float64 {
	avg := make([]float64, s.NumActions)
	sum := int64(0)
	base := bucket * s.NumActions
	for a := 0; a < s.NumActions; a++ {
		v := int64(s.StrategySum[base+a].Load())
		avg[a] = float64(v)
		sum += v
	}
	if sum <= 0 {
		uniform := 1.0 / float64(s.NumActions)
		for a := range avg {
			avg[a] = uniform
		}
		return avg
	}
	for a := range avg {
		avg[a] /= float64(sum)
	}
	return avg
}

// discount scales every regret and strategy_sum cell by factor, the
// discounted-CFR step. Called single-threaded, between training passes,
// while no worker holds a reference into the slice.
func (s *InfosetSlice) discount(factor float64) {
	for i := range s.Regret {
		s.Regret[i].Store(s.Regret[i].Load() * factor)
	}
	for i := range s.StrategySum {
		v := float64(s.StrategySum[i].Load()) * factor
		s.StrategySum[i].Store(int32(v))
	}
}

// Store is the infoset container for one tree: one InfosetSlice per action
// node, indexed by ActionIndex.
type Store struct {
	Slices []*InfosetSlice
}

// NewStore allocates one InfosetSlice per action node in t, sized by
// numActions (from the node itself) and bucketCounts[actionIndex] (the
// acting seat's dense bucket count for that node's round, supplied by the
// caller since Store has no abstraction-package dependency of its own).
func NewStore(t *tree.Tree, bucketCounts []int) *Store {
	st := &Store{Slices: make([]*InfosetSlice, t.NumActionNodes)}
	for _, n := range t.Nodes {
		if n.Kind != tree.Action {
			continue
		}
		if st.Slices[n.ActionIndex] == nil {
			st.Slices[n.ActionIndex] = newInfosetSlice(len(n.Actions), bucketCounts[n.ActionIndex])
		}
	}
	return st
}

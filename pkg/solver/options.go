package solver

import (
	"context"

	"github.com/kmurf1999/postflop-solver/pkg/abstraction"
	"github.com/kmurf1999/postflop-solver/pkg/cards"
	"github.com/kmurf1999/postflop-solver/pkg/engine"
	"github.com/kmurf1999/postflop-solver/pkg/notation"
	"github.com/kmurf1999/postflop-solver/pkg/tree"
)

// Options is the full parameter surface a solve is initialized from: the
// subgame's starting state plus the card abstraction each seat consults at
// every round from Round through the river.
type Options struct {
	Round  cards.Round
	Pot    float64
	Stacks [2]float64
	Board  []cards.Card

	Range0, Range1 string

	Betting engine.BettingAbstraction

	// CardAbstraction names one bucket-table file per round (Flop, Turn,
	// River); the Preflop entry is unused in a postflop subgame.
	CardAbstraction [4]string

	Workers          int
	Seed             int64
	PruneThreshold   float64
	DiscountInterval int64
}

// Solver is the façade over Engine, LocalBR, and checkpoint I/O: the
// operations a caller drives a solve through without touching the
// tree/store/dealer plumbing directly.
type Solver struct {
	opts   Options
	tree   *tree.Tree
	store  *Store
	dealer *dealer
	engine *Engine
}

// NewSolver initializes a solve: parses both ranges, builds the action tree
// from the betting abstraction, loads the per-round bucket tables, builds
// each seat's dense maps, and allocates the infoset store.
func NewSolver(opts Options) (*Solver, error) {
	if err := opts.Betting.Validate(); err != nil {
		return nil, err
	}

	range0, err := notation.ParseRange(opts.Range0)
	if err != nil {
		return nil, err
	}
	range1, err := notation.ParseRange(opts.Range1)
	if err != nil {
		return nil, err
	}
	blocked := cards.NewMask(opts.Board...)
	range0 = notation.FilterCollisions(range0, blocked)
	range1 = notation.FilterCollisions(range1, blocked)

	hole := [2][2]cards.Card{}
	if len(range0) > 0 {
		hole[0] = [2]cards.Card{range0[0].Card1, range0[0].Card2}
	}
	if len(range1) > 0 {
		hole[1] = [2]cards.Card{range1[0].Card1, range1[0].Card2}
	}
	initial, err := engine.NewState(opts.Round, opts.Pot, opts.Stacks, hole, opts.Board)
	if err != nil {
		return nil, err
	}

	builder := tree.NewBuilder()
	t, err := builder.Build(initial, opts.Betting)
	if err != nil {
		return nil, err
	}

	indexer := cards.NewCanonicalIndexer()
	var tables [4]*abstraction.Table
	var denseMaps [2][4]*abstraction.DenseMap
	for r := opts.Round; r <= cards.River; r++ {
		var tbl *abstraction.Table
		if opts.CardAbstraction[r] == "" {
			// No bucket table configured for this round: fall back to an
			// identity table (one bucket per canonical hand) so every
			// combo still resolves to a well-defined bucket instead of
			// leaving the dealer's dense maps nil for this round.
			tbl = identityTable(r)
		} else {
			loaded, err := abstraction.LoadTable(opts.CardAbstraction[r], r)
			if err != nil {
				return nil, err
			}
			tbl = loaded
		}
		tables[r] = tbl
		denseMaps[0][r] = abstraction.BuildDenseMap(0, r, range0, opts.Board, tbl, indexer)
		denseMaps[1][r] = abstraction.BuildDenseMap(1, r, range1, opts.Board, tbl, indexer)
	}

	bucketCounts := make([]int, t.NumActionNodes)
	for _, n := range t.Nodes {
		if n.Kind != tree.Action {
			continue
		}
		dm := denseMaps[n.Seat][n.State.Round]
		if dm != nil {
			bucketCounts[n.ActionIndex] = dm.Size()
		} else {
			bucketCounts[n.ActionIndex] = 1
		}
	}
	store := NewStore(t, bucketCounts)

	d := &dealer{
		initialBoard: opts.Board,
		startRound:   opts.Round,
		ranges:       [2][]notation.Combo{range0, range1},
		denseMaps:    denseMaps,
		tables:       tables,
		indexer:      indexer,
	}

	eng := &Engine{
		Tree:             t,
		Store:            store,
		Dealer:           d,
		PruneThreshold:   opts.PruneThreshold,
		DiscountInterval: opts.DiscountInterval,
		Workers:          opts.Workers,
		Seed:             opts.Seed,
	}
	if eng.PruneThreshold == 0 {
		eng.PruneThreshold = defaultPruneThreshold
	}
	if eng.DiscountInterval == 0 {
		eng.DiscountInterval = defaultDiscountInterval
	}

	return &Solver{opts: opts, tree: t, store: store, dealer: d, engine: eng}, nil
}

// identityTable builds a bucket table with no abstraction: canonical hand i
// maps to bucket i (truncated to the on-disk uint16 bucket-id width, so
// hands whose indices differ by a multiple of 65536 share a bucket), so a
// round configured without a CardAbstraction path still resolves combos to a
// well-defined bucket instead of collapsing them all together. A nil
// Buckets slice tells Table.Lookup to compute this mapping directly rather
// than materializing a per-hand array of the round's canonical hand count.
func identityTable(round cards.Round) *abstraction.Table {
	return &abstraction.Table{Round: round}
}

// Run drives T more external-sampling MCCFR iterations.
func (s *Solver) Run(ctx context.Context, T int64) error {
	return s.engine.Run(ctx, T)
}

// Discount applies the discount factor for iteration count t, a manual,
// out-of-band alternative for callers driving their own iteration loop
// instead of using Run's automatic interval barrier. As in Run, the factor is
// k/(k+1) with k = t / DiscountInterval; a t below one interval, or a
// non-positive interval, leaves the store unchanged.
func (s *Solver) Discount(t int64) {
	interval := s.engine.DiscountInterval
	if t <= 0 || interval <= 0 {
		return
	}
	k := t / interval
	if k <= 0 {
		return
	}
	factor := float64(k) / float64(k+1)
	for _, slice := range s.store.Slices {
		slice.discount(factor)
	}
}

// RunLocalBR runs `deals` deals of local best response per seat, returning
// each seat's estimated best-response EV.
func (s *Solver) RunLocalBR(ctx context.Context, deals int) ([2]float64, error) {
	lb := &LocalBR{
		Tree:    s.tree,
		Store:   s.store,
		Dealer:  s.dealer,
		Ranges:  s.dealer.ranges,
		Workers: s.opts.Workers,
		Seed:    s.opts.Seed,
	}
	return lb.Run(ctx, deals)
}

// RunKey returns this solver's stable checkpoint-file identifier.
func (s *Solver) RunKey() string { return RunKey(s.opts) }

// SaveRegrets writes the current regret checkpoint to path.
func (s *Solver) SaveRegrets(path string) error { return SaveRegrets(s.store, path) }

// LoadRegrets loads a regret checkpoint from path into this solver's store.
func (s *Solver) LoadRegrets(path string) error { return LoadRegrets(s.store, path) }

// SaveStrategy writes the current averaged-strategy checkpoint to path.
func (s *Solver) SaveStrategy(path string) error { return SaveStrategy(s.store, path) }

// LoadStrategy loads an averaged-strategy checkpoint from path into this
// solver's store.
func (s *Solver) LoadStrategy(path string) error { return LoadStrategy(s.store, path) }

// Tree exposes the built action tree, e.g. for dumping or inspection tools.
func (s *Solver) Tree() *tree.Tree { return s.tree }

// Store exposes the infoset store, e.g. for scripted-agent strategy lookup.
func (s *Solver) Store() *Store { return s.store }

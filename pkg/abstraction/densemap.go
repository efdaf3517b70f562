package abstraction

import (
	"fmt"

	"github.com/kmurf1999/postflop-solver/pkg/cards"
	"github.com/kmurf1999/postflop-solver/pkg/notation"
)

// DenseMap renames the subset of canonical buckets actually reachable for
// one (seat, round) into contiguous small integers.
type DenseMap struct {
	Seat  int
	Round cards.Round

	sparseToDense map[uint16]uint32
	denseToSparse []uint16
}

// Size returns the number of distinct dense ids.
func (d *DenseMap) Size() int {
	return len(d.denseToSparse)
}

// Lookup returns the dense id for hole cards against the current board. A
// miss is a ProgrammingError: it means the deal was unreachable from the
// range/board this map was built from.
func (d *DenseMap) Lookup(indexer cards.Indexer, hole [2]cards.Card, board []cards.Card, table *Table) uint32 {
	combined := append([]cards.Card{hole[0], hole[1]}, board...)
	canonical := indexer.Index(d.Round, combined)
	bucket := table.Lookup(canonical)
	id, ok := d.sparseToDense[bucket]
	if !ok {
		panic(&cards.ProgrammingError{Reason: fmt.Sprintf("unreachable deal: bucket %d not present in dense map for seat %d round %s", bucket, d.Seat, d.Round)})
	}
	return id
}

// DenseToSparse inverts Lookup's remap: given a dense id, returns the
// original bucket id. Used by tooling that needs to report on buckets, not
// the solver hot path.
func (d *DenseMap) DenseToSparse(id uint32) uint16 {
	return d.denseToSparse[id]
}

// BuildDenseMap enumerates every (combo, board-completion) pair reachable
// for seat's range from the given fixed board through round, canonicalizes
// each, looks up its bucket in table, and inserts it into the seat-round
// map assigning the next dense id if new.
func BuildDenseMap(seat int, round cards.Round, rng []notation.Combo, board []cards.Card, table *Table, indexer cards.Indexer) *DenseMap {
	dm := &DenseMap{
		Seat:          seat,
		Round:         round,
		sparseToDense: make(map[uint16]uint32),
	}

	targetLen := round.NumBoardCards()
	completions := boardCompletions(board, targetLen)

	for _, combo := range rng {
		comboMask := combo.Mask()
		for _, completion := range completions {
			if comboMask.Intersects(cards.NewMask(completion...)) {
				continue
			}
			combined := append([]cards.Card{combo.Card1, combo.Card2}, completion...)
			canonical := indexer.Index(round, combined)
			bucket := table.Lookup(canonical)
			if _, ok := dm.sparseToDense[bucket]; !ok {
				id := uint32(len(dm.denseToSparse))
				dm.sparseToDense[bucket] = id
				dm.denseToSparse = append(dm.denseToSparse, bucket)
			}
		}
	}

	return dm
}

// boardCompletions enumerates every way to complete a partial board (already
// dealt length len(board)) out to targetLen cards, without repeating any
// board card. For targetLen == len(board) (no cards left to deal) it returns
// the board itself as the sole completion.
func boardCompletions(board []cards.Card, targetLen int) [][]cards.Card {
	if targetLen <= len(board) {
		return [][]cards.Card{append([]cards.Card{}, board...)}
	}

	need := targetLen - len(board)
	used := cards.NewMask(board...)
	remaining := cards.Remaining(used)

	var out [][]cards.Card
	var rec func(start int, acc []cards.Card)
	rec = func(start int, acc []cards.Card) {
		if len(acc) == need {
			full := append(append([]cards.Card{}, board...), acc...)
			out = append(out, full)
			return
		}
		for i := start; i < len(remaining); i++ {
			rec(i+1, append(acc, remaining[i]))
		}
	}
	rec(0, nil)
	return out
}

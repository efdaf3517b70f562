package solver

import (
	"math/rand"

	"github.com/kmurf1999/postflop-solver/pkg/abstraction"
	"github.com/kmurf1999/postflop-solver/pkg/cards"
	"github.com/kmurf1999/postflop-solver/pkg/notation"
)

// deal is one sampled private-chance + public-chance outcome: both seats'
// hole cards, the completed 5-card board, each seat's dense bucket id per
// round reached in this subgame, and the showdown result.
type deal struct {
	hole      [2][2]cards.Card
	board     [5]cards.Card
	bucket    [2][4]uint32
	score     [2]cards.Score
	winnerBit [2]bool
	numWinner int
}

// sampleCombo rejection-samples a weighted combo from rng that doesn't
// collide with blocked: resample until the two hole cards don't collide.
func sampleCombo(rng *rand.Rand, rng2 []notation.Combo, blocked cards.Mask) notation.Combo {
	total := 0.0
	for _, c := range rng2 {
		total += c.Weight
	}
	for {
		target := rng.Float64() * total
		acc := 0.0
		picked := rng2[len(rng2)-1]
		for _, c := range rng2 {
			acc += c.Weight
			if acc >= target {
				picked = c
				break
			}
		}
		if !picked.Mask().Intersects(blocked) {
			return picked
		}
	}
}

// dealer samples deals and resolves each seat's per-round dense bucket.
type dealer struct {
	initialBoard []cards.Card
	startRound   cards.Round
	ranges       [2][]notation.Combo
	denseMaps    [2][4]*abstraction.DenseMap
	tables       [4]*abstraction.Table
	indexer      cards.Indexer
}

// sample draws one deal: two rejection-sampled hole-card pairs, a uniform
// completion of the remaining board slots, per-seat per-round dense
// buckets, and the showdown outcome at the final 5-card board.
func (d *dealer) sample(rng *rand.Rand) deal {
	var out deal

	initialMask := cards.NewMask(d.initialBoard...)
	c0 := sampleCombo(rng, d.ranges[0], initialMask)
	hole0Mask := c0.Mask()
	c1 := sampleCombo(rng, d.ranges[1], initialMask.Union(hole0Mask))

	out.hole[0] = [2]cards.Card{c0.Card1, c0.Card2}
	out.hole[1] = [2]cards.Card{c1.Card1, c1.Card2}

	used := initialMask.Union(hole0Mask).Union(c1.Mask())
	for i := range out.board {
		out.board[i] = cards.Absent
	}
	copy(out.board[:], d.initialBoard)

	remaining := cards.Remaining(used)
	needed := 5 - len(d.initialBoard)
	rng.Shuffle(len(remaining), func(i, j int) { remaining[i], remaining[j] = remaining[j], remaining[i] })
	copy(out.board[len(d.initialBoard):], remaining[:needed])

	for seat := 0; seat < 2; seat++ {
		for r := d.startRound; r <= cards.River; r++ {
			boardForRound := out.board[:r.NumBoardCards()]
			out.bucket[seat][r] = d.denseMaps[seat][r].Lookup(d.indexer, out.hole[seat], boardForRound, d.tables[r])
		}
		hand := append([]cards.Card{out.hole[seat][0], out.hole[seat][1]}, out.board[:]...)
		score, err := cards.Evaluate(hand)
		if err != nil {
			panic(&cards.ProgrammingError{Reason: "deal produced an unevaluable 7-card hand: " + err.Error()})
		}
		out.score[seat] = score
	}

	if out.score[0].Compare(out.score[1]) > 0 {
		out.winnerBit[0] = true
		out.numWinner = 1
	} else if out.score[0].Compare(out.score[1]) < 0 {
		out.winnerBit[1] = true
		out.numWinner = 1
	} else {
		out.winnerBit[0] = true
		out.winnerBit[1] = true
		out.numWinner = 2
	}

	return out
}

// Command genabs loads a card-abstraction bucket-table file and reports its
// shape: entry count, distinct bucket count, and the size of the largest and
// smallest buckets. It does not generate abstractions -- that is explicitly
// out of scope for this module -- it only sanity-checks a table that was
// generated elsewhere before a solve is run
// against it. Given a sample hand and an opponent range, it also reports
// that hand's actual river/turn/flop equity alongside its assigned bucket,
// so a table that lumps together hands of very different strength stands
// out before it reaches a solve.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/kmurf1999/postflop-solver/pkg/abstraction"
	"github.com/kmurf1999/postflop-solver/pkg/cards"
	"github.com/kmurf1999/postflop-solver/pkg/equity"
	"github.com/kmurf1999/postflop-solver/pkg/notation"
)

var cli struct {
	Path  string `arg:"" help:"path to a bucket-table file"`
	Round string `help:"round the table was built for (flop|turn|river)" enum:"flop,turn,river" default:"river"`
	Board string `help:"board cards the table's bucket ids were built against, e.g. 2c3c4c5c6c"`

	Hero    string `help:"sample hole cards to spot-check, e.g. AsAh"`
	VsRange string `help:"opponent range to compute the sample hand's equity against, e.g. QQ+,AKs"`
}

func roundFromName(name string) cards.Round {
	switch name {
	case "flop":
		return cards.Flop
	case "turn":
		return cards.Turn
	default:
		return cards.River
	}
}

func main() {
	kong.Parse(&cli, kong.Name("genabs"), kong.Description("Inspect a card-abstraction bucket table"))

	round := roundFromName(cli.Round)
	table, err := abstraction.LoadTable(cli.Path, round)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	counts := make(map[uint16]int)
	for _, b := range table.Buckets {
		counts[b]++
	}

	minCount, maxCount := -1, -1
	for _, c := range counts {
		if minCount < 0 || c < minCount {
			minCount = c
		}
		if c > maxCount {
			maxCount = c
		}
	}

	fmt.Printf("round:            %s\n", round)
	fmt.Printf("entries:          %d\n", len(table.Buckets))
	fmt.Printf("distinct buckets: %d\n", len(counts))
	fmt.Printf("smallest bucket:  %d hands\n", minCount)
	fmt.Printf("largest bucket:   %d hands\n", maxCount)

	if cli.Hero != "" && cli.VsRange != "" {
		if err := spotCheck(table, round); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

// spotCheck reports the sample hero hand's bucket id alongside its actual
// equity against the supplied opponent range, so a bucket table that lumps
// together hands of very different strength is visible before it reaches a
// solve.
func spotCheck(table *abstraction.Table, round cards.Round) error {
	board, err := cards.ParseCards(cli.Board)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}
	if len(board) != round.NumBoardCards() {
		return fmt.Errorf("board has %d cards, round %s expects %d", len(board), round, round.NumBoardCards())
	}
	hero, err := cards.ParseCards(cli.Hero)
	if err != nil {
		return fmt.Errorf("hero: %w", err)
	}
	if len(hero) != 2 {
		return fmt.Errorf("hero must be exactly 2 cards, got %d", len(hero))
	}
	opponentRange, err := notation.ParseRange(cli.VsRange)
	if err != nil {
		return fmt.Errorf("vs-range: %w", err)
	}
	blocked := cards.NewMask(board...).Union(cards.NewMask(hero...))
	opponentRange = notation.FilterCollisions(opponentRange, blocked)

	indexer := cards.NewCanonicalIndexer()
	combined := append(append([]cards.Card{}, hero...), board...)
	canonical := indexer.Index(round, combined)
	bucket := table.Lookup(canonical)

	result, err := equity.NewCalculator().Calculate(hero, board, opponentRange)
	if err != nil {
		return fmt.Errorf("equity: %w", err)
	}

	fmt.Printf("\nhero:             %s\n", cli.Hero)
	fmt.Printf("bucket:           %d\n", bucket)
	fmt.Printf("equity vs range:  %.4f (win %.4f, tie %.4f)\n", result.Equity, result.WinPct, result.TiePct)
	return nil
}

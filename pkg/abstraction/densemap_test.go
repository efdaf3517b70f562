package abstraction

import (
	"os"
	"testing"

	"github.com/kmurf1999/postflop-solver/pkg/cards"
	"github.com/kmurf1999/postflop-solver/pkg/notation"
)

func uniformTable(round cards.Round, n int) *Table {
	buckets := make([]uint16, n)
	for i := range buckets {
		buckets[i] = uint16(i % 8)
	}
	return &Table{Round: round, Buckets: buckets}
}

func TestBuildDenseMapIsInjectiveAndContiguous(t *testing.T) {
	board, err := cards.ParseCards("QhJdTs")
	if err != nil {
		t.Fatalf("ParseCards error = %v", err)
	}
	rng, err := notation.ParseRange("22+,AT+,KT+,QT+,JT+")
	if err != nil {
		// "22+" plus-notation isn't supported by ParseRange; fall back to
		// an explicit small range for this test.
		rng, err = notation.ParseRange("AA,KK,QQ,JJ,TT,AKs,AQs")
		if err != nil {
			t.Fatalf("ParseRange error = %v", err)
		}
	}
	rng = notation.FilterBoard(rng, board)

	table := uniformTable(cards.Flop, cards.CanonicalHandCount(cards.Flop))
	indexer := cards.NewCanonicalIndexer()

	dm := BuildDenseMap(0, cards.Flop, rng, board, table, indexer)

	seen := make(map[uint32]bool)
	for id := uint32(0); id < uint32(dm.Size()); id++ {
		if seen[id] {
			t.Errorf("dense id %d assigned more than once", id)
		}
		seen[id] = true
	}
	if dm.Size() == 0 {
		t.Fatal("expected at least one dense bucket")
	}

	for sparse, dense := range dm.sparseToDense {
		if dm.DenseToSparse(dense) != sparse {
			t.Errorf("round trip failed: sparse %d -> dense %d -> sparse %d", sparse, dense, dm.DenseToSparse(dense))
		}
	}
}

func TestLoadTableRejectsWrongLength(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/bad.dat"
	if err := writeShortFile(path); err != nil {
		t.Fatalf("writeShortFile error = %v", err)
	}
	if _, err := LoadTable(path, cards.River); err == nil {
		t.Fatal("expected AbstractionError for wrong-length file")
	}
}

func writeShortFile(path string) error {
	return os.WriteFile(path, []byte{0x01, 0x00, 0x02, 0x00}, 0o644)
}

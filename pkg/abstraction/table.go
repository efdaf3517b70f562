// Package abstraction loads precomputed card-abstraction bucket tables and
// builds the per-(seat,round) sparse-to-dense bucket remap the solver's hot
// path indexes into. It never computes abstractions itself — generation of
// those tables is explicitly out of scope and lives in an offline tool.
package abstraction

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/kmurf1999/postflop-solver/pkg/cards"
)

// Table is a flat read-only bucket-id array for one betting round, indexed
// by canonical hand index.
type Table struct {
	Round   cards.Round
	Buckets []uint16
}

// LoadTable reads a card-abstraction file (little-endian uint16 bucket ids,
// no header) and validates its length against the round's canonical hand
// count. A full read rather than mmap, consistent with this module's other
// checkpoint loading.
func LoadTable(path string, round cards.Round) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &AbstractionError{Path: path, Reason: err.Error()}
	}
	if len(data)%2 != 0 {
		return nil, &AbstractionError{Path: path, Reason: "odd byte count, not a valid uint16 array"}
	}

	want := cards.CanonicalHandCount(round)
	got := len(data) / 2
	if want != 0 && got != want {
		return nil, &AbstractionError{
			Path:   path,
			Reason: fmt.Sprintf("length mismatch: file has %d entries, round %s expects %d", got, round, want),
		}
	}

	buckets := make([]uint16, got)
	for i := range buckets {
		buckets[i] = binary.LittleEndian.Uint16(data[i*2 : i*2+2])
	}
	return &Table{Round: round, Buckets: buckets}, nil
}

// Lookup returns the bucket id for a canonical hand index. CanonicalIndexer
// guarantees canonicalIndex is always in [0, CanonicalHandCount(t.Round)),
// the same range LoadTable validates a bucket file's length against, so this
// is a direct array access rather than a fold. A nil Buckets slice means an
// identity table: the bucket id is the canonical index itself (truncated to
// uint16), used when no abstraction file was configured for this round and
// materializing a full per-round array would be wasted memory.
func (t *Table) Lookup(canonicalIndex uint32) uint16 {
	if t.Buckets == nil {
		return uint16(canonicalIndex)
	}
	return t.Buckets[canonicalIndex]
}

// AbstractionError reports a problem loading or validating a card
// abstraction table.
type AbstractionError struct {
	Path   string
	Reason string
}

func (e *AbstractionError) Error() string {
	return fmt.Sprintf("abstraction error loading %q: %s", e.Path, e.Reason)
}

package solver

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/kmurf1999/postflop-solver/pkg/cards"
	"github.com/kmurf1999/postflop-solver/pkg/engine"
)

// RunKey derives a stable, byte-for-byte identifier: two runs built from the
// same board, ranges, stacks, pot, and abstraction must produce the same key
// regardless of incidental whitespace or quoting in how the caller wrote the
// range strings. The layout is
// b<board_mask>-hr[<r0>,<r1>]-st[<s0>,<s1>]-p<pot>-bs[<...>]-rs[<...>]-ca[<...>].
func RunKey(opts Options) string {
	boardMask := uint64(cards.NewMask(opts.Board...))
	return fmt.Sprintf(
		"b%d-hr[%s,%s]-st[%s,%s]-p%s-bs[%s]-rs[%s]-ca[%s]",
		boardMask,
		cleanRange(opts.Range0), cleanRange(opts.Range1),
		trimFloat(opts.Stacks[0]), trimFloat(opts.Stacks[1]),
		trimFloat(opts.Pot),
		formatPerRound(opts.Betting.BetFractions),
		formatPerRound(opts.Betting.RaiseFractions),
		strings.Join(opts.CardAbstraction[:], ","),
	)
}

// cleanRange canonicalizes a range string by stripping whitespace/quotes and
// normalizing case, so cosmetic differences in how a caller wrote the same
// range don't change the key.
func cleanRange(rangeStr string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '"', '\'':
			return -1
		}
		return r
	}, rangeStr)
	return strings.ToUpper(cleaned)
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatPerRound renders a [4]round array of fraction lists as one
// comma-separated list per round joined by ';', in round order
// (preflop, flop, turn, river).
func formatPerRound(perRound [4][]float64) string {
	rounds := make([]string, 4)
	for r, fs := range perRound {
		vals := make([]string, len(fs))
		for i, f := range fs {
			vals[i] = trimFloat(f)
		}
		rounds[r] = strings.Join(vals, ",")
	}
	return strings.Join(rounds, ";")
}

// SaveRegrets writes every InfosetSlice's regret array, concatenated in
// ActionIndex order, as native little-endian float64 with no header.
func SaveRegrets(st *Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &CheckpointError{Path: path, Reason: err.Error()}
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, s := range st.Slices {
		for i := range s.Regret {
			if err := binary.Write(w, binary.LittleEndian, s.Regret[i].Load()); err != nil {
				return &CheckpointError{Path: path, Reason: err.Error()}
			}
		}
	}
	return w.Flush()
}

// LoadRegrets reads the file written by SaveRegrets back into st, failing
// with a typed CheckpointError if the byte count doesn't match what st's
// tree expects.
func LoadRegrets(st *Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &CheckpointError{Path: path, Reason: err.Error()}
	}
	want := 0
	for _, s := range st.Slices {
		want += len(s.Regret) * 8
	}
	if len(data) != want {
		return &CheckpointError{Path: path, Reason: fmt.Sprintf("expected %d bytes, file has %d", want, len(data))}
	}
	off := 0
	for _, s := range st.Slices {
		for i := range s.Regret {
			bits := binary.LittleEndian.Uint64(data[off : off+8])
			s.Regret[i].Store(math.Float64frombits(bits))
			off += 8
		}
	}
	return nil
}

// SaveStrategy writes every InfosetSlice's strategy_sum array, concatenated
// in ActionIndex order, as native little-endian int32.
func SaveStrategy(st *Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &CheckpointError{Path: path, Reason: err.Error()}
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, s := range st.Slices {
		for i := range s.StrategySum {
			if err := binary.Write(w, binary.LittleEndian, s.StrategySum[i].Load()); err != nil {
				return &CheckpointError{Path: path, Reason: err.Error()}
			}
		}
	}
	return w.Flush()
}

// LoadStrategy reads the file written by SaveStrategy back into st.
func LoadStrategy(st *Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &CheckpointError{Path: path, Reason: err.Error()}
	}
	want := 0
	for _, s := range st.Slices {
		want += len(s.StrategySum) * 4
	}
	if len(data) != want {
		return &CheckpointError{Path: path, Reason: fmt.Sprintf("expected %d bytes, file has %d", want, len(data))}
	}
	off := 0
	for _, s := range st.Slices {
		for i := range s.StrategySum {
			v := int32(binary.LittleEndian.Uint32(data[off : off+4]))
			s.StrategySum[i].Store(v)
			off += 4
		}
	}
	return nil
}

// RegretsPath and StrategyPath follow the `data/regrets-<run_key>.dat` /
// `data/strategy-<run_key>.dat` naming convention.
func RegretsPath(dir string, opts Options) string {
	return dataPath(dir, "regrets", opts)
}

func StrategyPath(dir string, opts Options) string {
	return dataPath(dir, "strategy", opts)
}

func dataPath(dir, prefix string, opts Options) string {
	key := sanitizeKey(RunKey(opts))
	return fmt.Sprintf("%s/%s-%s.dat", dir, prefix, key)
}

// sanitizeKey makes RunKey's output filesystem-safe without losing its
// uniqueness: every character RunKey emits is a valid filename character
// except '/', which a range or card-abstraction path component could in
// principle contain and which would otherwise be read as a path separator.
func sanitizeKey(key string) string {
	return strings.ReplaceAll(key, "/", "_")
}

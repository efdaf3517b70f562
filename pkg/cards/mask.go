package cards

import "math/bits"

// Mask is a 52-bit set of dealt cards. Bit i corresponds to Card(i). All
// card-occupancy checks in the solver go through mask intersection rather
// than per-card loops, a bitset style well suited to fast opponent-range
// collision checks.
type Mask uint64

// NewMask builds a Mask from a slice of cards, skipping any Absent sentinel.
func NewMask(cs ...Card) Mask {
	var m Mask
	for _, c := range cs {
		if !c.IsAbsent() {
			m = m.Add(c)
		}
	}
	return m
}

// Add returns m with c set.
func (m Mask) Add(c Card) Mask {
	return m | (1 << uint(c))
}

// Remove returns m with c cleared.
func (m Mask) Remove(c Card) Mask {
	return m &^ (1 << uint(c))
}

// Contains reports whether c is a member of m.
func (m Mask) Contains(c Card) bool {
	return m&(1<<uint(c)) != 0
}

// Intersects reports whether m and other share any card.
func (m Mask) Intersects(other Mask) bool {
	return m&other != 0
}

// Union returns the union of m and other.
func (m Mask) Union(other Mask) Mask {
	return m | other
}

// Popcount returns the number of cards in m.
func (m Mask) Popcount() int {
	return bits.OnesCount64(uint64(m))
}

// Cards expands m into its member cards, in ascending order.
func (m Mask) Cards() []Card {
	out := make([]Card, 0, m.Popcount())
	for c := Card(0); c < 52; c++ {
		if m.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// FullDeck is the mask of all 52 cards.
const FullDeck Mask = (1 << 52) - 1

// Remaining returns the cards in the full deck not present in used.
func Remaining(used Mask) []Card {
	return (FullDeck &^ used).Cards()
}

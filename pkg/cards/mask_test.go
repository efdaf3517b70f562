package cards

import "testing"

func TestMaskAddRemoveContains(t *testing.T) {
	as, _ := ParseCard("As")
	kh, _ := ParseCard("Kh")

	var m Mask
	if m.Contains(as) {
		t.Fatal("empty mask should not contain As")
	}

	m = m.Add(as)
	if !m.Contains(as) {
		t.Fatal("mask should contain As after Add")
	}
	if m.Contains(kh) {
		t.Fatal("mask should not contain Kh")
	}

	m = m.Add(kh)
	if m.Popcount() != 2 {
		t.Fatalf("Popcount() = %d, want 2", m.Popcount())
	}

	m = m.Remove(as)
	if m.Contains(as) {
		t.Fatal("mask should not contain As after Remove")
	}
	if !m.Contains(kh) {
		t.Fatal("Remove should not affect other cards")
	}
}

func TestMaskIntersectsUnion(t *testing.T) {
	cs1, _ := ParseCards("AsKh")
	cs2, _ := ParseCards("KhQd")
	cs3, _ := ParseCards("2c3c")

	m1 := NewMask(cs1...)
	m2 := NewMask(cs2...)
	m3 := NewMask(cs3...)

	if !m1.Intersects(m2) {
		t.Error("m1 and m2 share Kh, should intersect")
	}
	if m1.Intersects(m3) {
		t.Error("m1 and m3 share nothing, should not intersect")
	}

	u := m1.Union(m3)
	if u.Popcount() != 4 {
		t.Errorf("Union popcount = %d, want 4", u.Popcount())
	}
}

func TestMaskSkipsAbsent(t *testing.T) {
	m := NewMask(Absent, Absent)
	if m.Popcount() != 0 {
		t.Errorf("mask built from only Absent cards should be empty, got popcount %d", m.Popcount())
	}
}

func TestRemaining(t *testing.T) {
	cs, _ := ParseCards("AsKhQdJc")
	used := NewMask(cs...)
	rem := Remaining(used)
	if len(rem) != 48 {
		t.Fatalf("Remaining should have 48 cards, got %d", len(rem))
	}
	for _, c := range rem {
		if used.Contains(c) {
			t.Errorf("Remaining() included used card %v", c)
		}
	}
}

package cards

import "testing"

func TestParseCard(t *testing.T) {
	tests := []struct {
		input    string
		wantRank Rank
		wantSuit Suit
		wantErr  bool
	}{
		{"As", Ace, Spades, false},
		{"Kh", King, Hearts, false},
		{"Qd", Queen, Diamonds, false},
		{"Jc", Jack, Clubs, false},
		{"Ts", Ten, Spades, false},
		{"9h", Nine, Hearts, false},
		{"2c", Two, Clubs, false},
		{"as", Ace, Spades, false},   // lowercase should work
		{"TD", Ten, Diamonds, false}, // mixed case
		{"", 0, 0, true},             // empty
		{"A", 0, 0, true},            // too short
		{"Asx", 0, 0, true},          // too long
		{"Xx", 0, 0, true},           // invalid rank
		{"Ax", 0, 0, true},           // invalid suit
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCard(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseCard(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if got.Rank() != tt.wantRank || got.Suit() != tt.wantSuit {
					t.Errorf("ParseCard(%q) = %v, want Rank=%v Suit=%v", tt.input, got, tt.wantRank, tt.wantSuit)
				}
			}
		})
	}
}

func TestCardString(t *testing.T) {
	tests := []struct {
		card Card
		want string
	}{
		{NewCard(Ace, Spades), "As"},
		{NewCard(King, Hearts), "Kh"},
		{NewCard(Ten, Diamonds), "Td"},
		{NewCard(Two, Clubs), "2c"},
		{Absent, "__"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.card.String(); got != tt.want {
				t.Errorf("Card.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseCards(t *testing.T) {
	tests := []struct {
		input   string
		want    []Card
		wantErr bool
	}{
		{
			"AsKh",
			[]Card{NewCard(Ace, Spades), NewCard(King, Hearts)},
			false,
		},
		{
			"As Kh Qd",
			[]Card{NewCard(Ace, Spades), NewCard(King, Hearts), NewCard(Queen, Diamonds)},
			false,
		},
		{
			"2s3h4d5c6s",
			[]Card{NewCard(Two, Spades), NewCard(Three, Hearts), NewCard(Four, Diamonds), NewCard(Five, Clubs), NewCard(Six, Spades)},
			false,
		},
		{
			"A", // odd length
			nil,
			true,
		},
		{
			"AsXx", // invalid card
			nil,
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseCards(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if len(got) != len(tt.want) {
					t.Errorf("ParseCards(%q) returned %d cards, want %d", tt.input, len(got), len(tt.want))
					return
				}
				for i := range got {
					if got[i] != tt.want[i] {
						t.Errorf("ParseCards(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
					}
				}
			}
		})
	}
}

func TestCardRoundTrip(t *testing.T) {
	inputs := []string{"As", "Kh", "Qd", "Jc", "Ts", "9h", "2c"}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			card, err := ParseCard(input)
			if err != nil {
				t.Fatalf("ParseCard(%q) error = %v", input, err)
			}
			got := card.String()
			if got != input {
				t.Errorf("Round trip failed: %q -> %v -> %q", input, card, got)
			}
		})
	}
}

func TestNewCardEncoding(t *testing.T) {
	// 4*rank + suit, per the spec's integer card encoding.
	c := NewCard(Ace, Clubs)
	want := Card(4*12 + 3)
	if c != want {
		t.Errorf("NewCard(Ace, Clubs) = %d, want %d", c, want)
	}
}

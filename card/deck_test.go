package card

import (
	"math/rand"
	"testing"
)

func TestDeck_ResetYields52UniqueCards(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(1)))
	d.Reset()

	seen := make(map[Card]bool, 52)
	for i := 0; i < 52; i++ {
		c := d.Draw()
		if c == Invalid {
			t.Fatalf("drew invalid card at %d", i)
		}
		if seen[c] {
			t.Fatalf("duplicate card %v at %d", c, i)
		}
		seen[c] = true
	}
	if len(seen) != 52 {
		t.Fatalf("expected 52 unique cards, got %d", len(seen))
	}
}

func TestDeck_SameSeedSameOrder(t *testing.T) {
	d1 := NewDeck(rand.New(rand.NewSource(42)))
	d2 := NewDeck(rand.New(rand.NewSource(42)))
	d1.Reset()
	d2.Reset()

	for i := 0; i < 52; i++ {
		if c1, c2 := d1.Draw(), d2.Draw(); c1 != c2 {
			t.Fatalf("seeded decks diverged at %d: %v != %v", i, c1, c2)
		}
	}
}

func TestDeck_BurnMovesToDiscard(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(7)))
	d.Reset()

	d.Burn()
	d.Burn()
	if got := len(d.Discarded()); got != 2 {
		t.Fatalf("expected 2 discarded, got %d", got)
	}
	if got := len(d.Remaining()); got != 50 {
		t.Fatalf("expected 50 remaining, got %d", got)
	}
}

func TestDeck_DrawEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on empty draw")
		}
	}()

	d := NewDeck(rand.New(rand.NewSource(1)))
	d.Reset()
	for i := 0; i < 53; i++ {
		d.Draw()
	}
}

func TestParse_RoundTrip(t *testing.T) {
	cases := map[string]Card{
		"As":  CardSpadeA,
		"Td":  CardDiamondT,
		"10h": CardHeartT,
		"2c":  CardClub2,
		"kS":  CardSpadeK,
	}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q) err: %v", in, err)
		}
		if got != want {
			t.Fatalf("Parse(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := Parse("Zx"); err == nil {
		t.Fatalf("expected error for invalid rank")
	}
	if _, err := Parse("A"); err == nil {
		t.Fatalf("expected error for short string")
	}
}

package card

import "math/rand"

// Deck is a shuffled 52-card stock with a discard pile. The zero value is
// not usable; construct with NewDeck and call Reset before dealing.
//
// Drawing from an empty deck is a driver bug, not a recoverable condition:
// a correctly dealt hand of up to ten players never exhausts the stock, so
// Draw panics rather than dealing corrupt state.
type Deck struct {
	cards   CardList
	discard CardList
	rng     *rand.Rand
}

// NewDeck creates a deck bound to an explicit random source so shuffles
// are reproducible under a seeded rng.
func NewDeck(rng *rand.Rand) *Deck {
	return &Deck{rng: rng}
}

// Reset rebuilds the canonical 52-card stock and applies a Fisher-Yates
// shuffle, which draws permutations uniformly.
func (d *Deck) Reset() {
	d.cards = CardList(Full52())
	d.discard = d.discard[:0]
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card.
func (d *Deck) Draw() Card {
	if len(d.cards) == 0 {
		panic("deck underflow")
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c
}

// Burn draws the top card and moves it to the discard pile.
func (d *Deck) Burn() {
	d.discard = append(d.discard, d.Draw())
}

// Discard retires cards that left play (e.g. a removed player's hole
// cards), keeping the 52-card accounting intact.
func (d *Deck) Discard(cards ...Card) {
	d.discard = append(d.discard, cards...)
}

// Remaining returns the undealt stock.
func (d *Deck) Remaining() CardList { return d.cards.Copy() }

// Discarded returns the burned/retired pile.
func (d *Deck) Discarded() CardList { return d.discard.Copy() }

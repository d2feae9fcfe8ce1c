package card

import (
	"fmt"
	"strings"
)

// Card is a single playing card packed into one byte.
//
// Encoding:
// - high nibble: suit (0:Spade, 1:Heart, 2:Club, 3:Diamond)
// - low nibble: rank (2..14, ace is always 14)
type Card byte

const Invalid Card = 0

// Rank returns the card value 2..14 (J=11, Q=12, K=13, A=14).
func (c Card) Rank() byte {
	if c == Invalid {
		return 0
	}
	return byte(c & 0x0F)
}

// Suit returns the card suit (0:Spade, 1:Heart, 2:Club, 3:Diamond).
func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

func (c Card) IsAce() bool {
	return c.Rank() == 14
}

// RankString renders the rank the way table clients expect ("2".."10", "J", "Q", "K", "A").
func (c Card) RankString() string {
	switch r := c.Rank(); r {
	case 11:
		return "J"
	case 12:
		return "Q"
	case 13:
		return "K"
	case 14:
		return "A"
	default:
		return fmt.Sprintf("%d", r)
	}
}

func (c Card) String() string {
	if c == Invalid {
		return "Invalid"
	}
	return c.RankString() + c.Suit().String()
}

// Make builds a card from suit and rank (2..14). Out-of-range input yields Invalid.
func Make(s Suit, rank byte) Card {
	if s > Diamond || rank < 2 || rank > 14 {
		return Invalid
	}
	return Card(byte(s)<<4 | rank)
}

// Parse converts a short card string ("As", "Td", "10h") into a Card.
func Parse(cardStr string) (Card, error) {
	if len(cardStr) < 2 {
		return Invalid, fmt.Errorf("invalid card string: %q", cardStr)
	}

	var s Suit
	switch cardStr[len(cardStr)-1] {
	case 's', 'S':
		s = Spade
	case 'h', 'H':
		s = Heart
	case 'c', 'C':
		s = Club
	case 'd', 'D':
		s = Diamond
	default:
		return Invalid, fmt.Errorf("invalid suit: %c", cardStr[len(cardStr)-1])
	}

	var rank byte
	switch strings.ToUpper(cardStr[:len(cardStr)-1]) {
	case "2":
		rank = 2
	case "3":
		rank = 3
	case "4":
		rank = 4
	case "5":
		rank = 5
	case "6":
		rank = 6
	case "7":
		rank = 7
	case "8":
		rank = 8
	case "9":
		rank = 9
	case "T", "10":
		rank = 10
	case "J":
		rank = 11
	case "Q":
		rank = 12
	case "K":
		rank = 13
	case "A":
		rank = 14
	default:
		return Invalid, fmt.Errorf("invalid rank: %q", cardStr[:len(cardStr)-1])
	}

	return Make(s, rank), nil
}

// CardList is a convenience slice of cards.
type CardList []Card

func (cl CardList) Contains(c Card) bool {
	for _, cc := range cl {
		if cc == c {
			return true
		}
	}
	return false
}

func (cl CardList) Copy() CardList {
	if cl == nil {
		return nil
	}
	out := make(CardList, len(cl))
	copy(out, cl)
	return out
}

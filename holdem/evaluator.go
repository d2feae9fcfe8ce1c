package holdem

import (
	"sort"

	"pokerroom/card"
)

// HandRank is a totally ordered hand strength. Bigger wins; equal values
// split the pot.
//
// Packing: bits 20..23 hold the category, bits 0..19 hold up to five
// tie-break ranks (4 bits each, priority order: quads/trips/pairs first,
// then remaining high cards). Ranks are 2..14 so each fits a nibble.
type HandRank uint32

func (r HandRank) Category() byte { return byte(r >> 20) }

func (r HandRank) Name() string { return HandNames[r.Category()] }

// Beats reports whether this hand wins against other under standard
// poker rules.
func (r HandRank) Beats(other HandRank) bool { return r > other }

func packRank(category byte, kickers ...byte) HandRank {
	r := HandRank(category) << 20
	shift := 16
	for _, k := range kickers {
		if shift < 0 {
			break
		}
		r |= HandRank(k) << shift
		shift -= 4
	}
	return r
}

// Evaluate is a pure projection of a player's best hand from their hole
// cards plus the community cards. With five or more cards available it
// selects the best five; before the flop it ranks the hole cards alone.
func Evaluate(hole card.CardList, community card.CardList) HandRank {
	all := make(card.CardList, 0, len(hole)+len(community))
	all = append(all, hole...)
	all = append(all, community...)
	return EvalBest(all)
}

// EvalBest ranks the best five-card hand available among the given cards
// by exhaustive five-card combination.
func EvalBest(cards card.CardList) HandRank {
	if len(cards) == 0 {
		return 0
	}
	if len(cards) <= 5 {
		return evalCards(cards)
	}

	var best HandRank
	var idx [5]int
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == 5 {
			pick := card.CardList{cards[idx[0]], cards[idx[1]], cards[idx[2]], cards[idx[3]], cards[idx[4]]}
			if r := evalCards(pick); r > best {
				best = r
			}
			return
		}
		for i := start; i <= len(cards)-(5-depth); i++ {
			idx[depth] = i
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
	return best
}

// evalCards ranks 1..5 cards. Straights and flushes only exist at five
// cards; the count-based categories apply to shorter projections too.
func evalCards(cards card.CardList) HandRank {
	counts := make(map[byte]int, len(cards))
	for _, c := range cards {
		counts[c.Rank()]++
	}

	// Distinct ranks, high to low.
	distinct := make([]byte, 0, len(counts))
	for r := range counts {
		distinct = append(distinct, r)
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] > distinct[j] })

	var quad, trip byte
	var pairs []byte
	for _, r := range distinct {
		switch {
		case counts[r] >= 4:
			quad = r
		case counts[r] == 3 && trip == 0:
			trip = r
		case counts[r] >= 2:
			pairs = append(pairs, r)
		}
	}

	flush := false
	straightHigh := byte(0)
	if len(cards) == 5 {
		flush = true
		for _, c := range cards {
			if c.Suit() != cards[0].Suit() {
				flush = false
				break
			}
		}
		straightHigh = straightHighOf(distinct)
	}

	switch {
	case flush && straightHigh == 14:
		return packRank(HandRoyalFlush, 14, 13, 12, 11, 10)
	case flush && straightHigh > 0:
		return packRank(HandStraightFlush, straightHigh)
	case quad > 0:
		return packRank(HandFourOfKind, append([]byte{quad}, ranksExcept(distinct, quad)...)...)
	case trip > 0 && len(pairs) > 0:
		return packRank(HandFullHouse, trip, pairs[0])
	case flush:
		return packRank(HandFlush, distinct...)
	case straightHigh > 0:
		return packRank(HandStraight, straightHigh)
	case trip > 0:
		return packRank(HandThreeOfKind, append([]byte{trip}, ranksExcept(distinct, trip)...)...)
	case len(pairs) >= 2:
		return packRank(HandTwoPair, append(pairs[:2:2], ranksExcept(distinct, pairs[0], pairs[1])...)...)
	case len(pairs) == 1:
		return packRank(HandOnePair, append([]byte{pairs[0]}, ranksExcept(distinct, pairs[0])...)...)
	default:
		return packRank(HandHighCard, distinct...)
	}
}

// straightHighOf scans the set of distinct ranks (never the raw multiset)
// for five consecutive values, treating the ace as both high and low.
// Returns the high rank of the run, or 0.
func straightHighOf(distinctDesc []byte) byte {
	present := make(map[byte]bool, len(distinctDesc)+1)
	for _, r := range distinctDesc {
		present[r] = true
		if r == 14 {
			present[1] = true // ace also plays low
		}
	}
	for high := byte(14); high >= 5; high-- {
		run := true
		for r := high; r > high-5; r-- {
			if !present[r] {
				run = false
				break
			}
		}
		if run {
			return high
		}
	}
	return 0
}

// ranksExcept returns the distinct ranks with the given ones removed,
// preserving high-to-low order.
func ranksExcept(distinctDesc []byte, except ...byte) []byte {
	out := make([]byte, 0, len(distinctDesc))
outer:
	for _, r := range distinctDesc {
		for _, e := range except {
			if r == e {
				continue outer
			}
		}
		out = append(out, r)
	}
	return out
}

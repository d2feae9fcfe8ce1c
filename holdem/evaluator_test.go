package holdem

import (
	"testing"

	"pokerroom/card"
)

func mustCards(t *testing.T, specs ...string) card.CardList {
	t.Helper()
	out := make(card.CardList, 0, len(specs))
	for _, s := range specs {
		c, err := card.Parse(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		out = append(out, c)
	}
	return out
}

func TestEvaluateCategoryLadder(t *testing.T) {
	// One canonical five-card hand per category, weakest first.
	ladder := []struct {
		name     string
		cards    card.CardList
		category byte
	}{
		{"high card", card.CardList{card.CardSpade2, card.CardHeart5, card.CardClub7, card.CardDiamond9, card.CardSpadeK}, HandHighCard},
		{"pair", card.CardList{card.CardSpade2, card.CardHeart2, card.CardClub7, card.CardDiamond9, card.CardSpadeK}, HandOnePair},
		{"two pair", card.CardList{card.CardSpade2, card.CardHeart2, card.CardClub9, card.CardDiamond9, card.CardSpadeK}, HandTwoPair},
		{"trips", card.CardList{card.CardSpade2, card.CardHeart2, card.CardClub2, card.CardDiamond9, card.CardSpadeK}, HandThreeOfKind},
		{"straight", card.CardList{card.CardSpade4, card.CardHeart5, card.CardClub6, card.CardDiamond7, card.CardSpade8}, HandStraight},
		{"flush", card.CardList{card.CardSpade2, card.CardSpade5, card.CardSpade7, card.CardSpade9, card.CardSpadeK}, HandFlush},
		{"full house", card.CardList{card.CardSpade2, card.CardHeart2, card.CardClub2, card.CardDiamond9, card.CardSpade9}, HandFullHouse},
		{"quads", card.CardList{card.CardSpade2, card.CardHeart2, card.CardClub2, card.CardDiamond2, card.CardSpadeK}, HandFourOfKind},
		{"straight flush", card.CardList{card.CardHeart4, card.CardHeart5, card.CardHeart6, card.CardHeart7, card.CardHeart8}, HandStraightFlush},
		{"royal flush", card.CardList{card.CardSpadeT, card.CardSpadeJ, card.CardSpadeQ, card.CardSpadeK, card.CardSpadeA}, HandRoyalFlush},
	}

	var prev HandRank
	for _, step := range ladder {
		rank := EvalBest(step.cards)
		if rank.Category() != step.category {
			t.Fatalf("%s: got category %s, want %s", step.name, HandNames[rank.Category()], HandNames[step.category])
		}
		if !rank.Beats(prev) {
			t.Fatalf("%s (%#x) should beat the previous rung (%#x)", step.name, rank, prev)
		}
		prev = rank
	}
}

func TestEvaluateWheelStraight(t *testing.T) {
	wheel := card.CardList{card.CardSpadeA, card.CardHeart2, card.CardClub3, card.CardDiamond4, card.CardSpade5}
	rank := EvalBest(wheel)
	if rank.Category() != HandStraight {
		t.Fatalf("A-2-3-4-5 should be a straight, got %s", rank.Name())
	}

	// The wheel is the weakest straight: six-high beats it.
	sixHigh := card.CardList{card.CardSpade2, card.CardHeart3, card.CardClub4, card.CardDiamond5, card.CardSpade6}
	if !EvalBest(sixHigh).Beats(rank) {
		t.Fatalf("six-high straight should beat the wheel")
	}

	steelWheel := card.CardList{card.CardHeartA, card.CardHeart2, card.CardHeart3, card.CardHeart4, card.CardHeart5}
	if got := EvalBest(steelWheel).Category(); got != HandStraightFlush {
		t.Fatalf("suited A-2-3-4-5 should be a straight flush, got %s", HandNames[got])
	}
}

func TestEvaluateKickerTiebreaks(t *testing.T) {
	// Same two pair, different kicker.
	kingKicker := card.CardList{card.CardSpade9, card.CardHeart9, card.CardClub5, card.CardDiamond5, card.CardSpadeK}
	queenKicker := card.CardList{card.CardClub9, card.CardDiamond9, card.CardSpade5, card.CardHeart5, card.CardSpadeQ}
	if !EvalBest(kingKicker).Beats(EvalBest(queenKicker)) {
		t.Fatalf("two pair with king kicker should beat two pair with queen kicker")
	}

	// Same pair, tiebreak runs past the first kicker.
	a := card.CardList{card.CardSpadeT, card.CardHeartT, card.CardClubA, card.CardDiamond8, card.CardSpade3}
	b := card.CardList{card.CardClubT, card.CardDiamondT, card.CardHeartA, card.CardSpade8, card.CardHeart2}
	if !EvalBest(a).Beats(EvalBest(b)) {
		t.Fatalf("pair of tens A-8-3 should beat pair of tens A-8-2")
	}

	// Higher pair outranks any kicker.
	jacks := card.CardList{card.CardSpadeJ, card.CardHeartJ, card.CardClub4, card.CardDiamond3, card.CardSpade2}
	if !EvalBest(jacks).Beats(EvalBest(a)) {
		t.Fatalf("pair of jacks should beat pair of tens")
	}
}

func TestEvaluateTotalOrder(t *testing.T) {
	flush := EvalBest(card.CardList{card.CardSpade2, card.CardSpade5, card.CardSpade7, card.CardSpade9, card.CardSpadeK})
	straight := EvalBest(card.CardList{card.CardSpade4, card.CardHeart5, card.CardClub6, card.CardDiamond7, card.CardSpade8})
	pair := EvalBest(card.CardList{card.CardSpade2, card.CardHeart2, card.CardClub7, card.CardDiamond9, card.CardSpadeK})

	// Exactly one ordering holds across the three.
	if !flush.Beats(straight) || !straight.Beats(pair) || !flush.Beats(pair) {
		t.Fatalf("expected flush > straight > pair, got %#x %#x %#x", flush, straight, pair)
	}
	if straight.Beats(flush) || pair.Beats(straight) || pair.Beats(flush) {
		t.Fatalf("ordering must be antisymmetric")
	}

	// Rank-identical hands in different suits are exactly equal.
	x := EvalBest(card.CardList{card.CardSpade9, card.CardHeart9, card.CardClub5, card.CardDiamond5, card.CardSpadeK})
	y := EvalBest(card.CardList{card.CardClub9, card.CardDiamond9, card.CardSpade5, card.CardHeart5, card.CardHeartK})
	if x != y {
		t.Fatalf("suit-swapped equal hands must rank equal: %#x vs %#x", x, y)
	}
	if x.Beats(y) || y.Beats(x) {
		t.Fatalf("equal ranks must not beat each other")
	}
}

func TestEvaluateBestOfSeven(t *testing.T) {
	// Hole cards complete a flush hiding inside seven cards.
	hole := mustCards(t, "2h", "9h")
	community := mustCards(t, "5h", "Qh", "Kh", "2s", "7d")
	rank := Evaluate(hole, community)
	if rank.Category() != HandFlush {
		t.Fatalf("expected flush from 7 cards, got %s", rank.Name())
	}

	// Board plays: everyone holds the same straight.
	boardStraight := mustCards(t, "5s", "6h", "7c", "8d", "9s")
	r1 := Evaluate(mustCards(t, "2s", "3h"), boardStraight)
	r2 := Evaluate(mustCards(t, "2c", "3d"), boardStraight)
	if r1 != r2 {
		t.Fatalf("identical board-play hands must tie: %#x vs %#x", r1, r2)
	}
}

func TestEvaluatePreFlopHoleCardsOnly(t *testing.T) {
	pair := Evaluate(mustCards(t, "As", "Ah"), nil)
	high := Evaluate(mustCards(t, "As", "Kh"), nil)
	if pair.Category() != HandOnePair {
		t.Fatalf("pocket aces alone should rank as a pair, got %s", pair.Name())
	}
	if !pair.Beats(high) {
		t.Fatalf("pocket pair should beat unpaired hole cards")
	}
}

package holdem

import "pokerroom/card"

// Snapshot is a deep copy of the table at one transition boundary.
// Mutating a snapshot never touches live game state; every slice and
// nested struct inside it is freshly allocated.
type Snapshot struct {
	HandNum        uint32
	Stage          Stage
	Pot            int64
	CurrentBet     int64
	CommunityCards card.CardList
	Players        []PlayerSnapshot // seat order

	DealerSeat     int
	SmallBlindSeat int
	BigBlindSeat   int
	CurrentSeat    int

	// RevealAll is set only after a river showdown; a fold-win never
	// exposes hole cards.
	RevealAll      bool
	LastHandResult *HandResult

	SmallBlind int64
	BigBlind   int64
}

type PlayerSnapshot struct {
	ID        PlayerID
	Name      string
	Seat      int
	Chips     int64
	Bet       int64
	Folded    bool
	HoleCards card.CardList
}

// CurrentPlayer returns the id of the player to act, or "" when no
// betting turn is open.
func (s Snapshot) CurrentPlayer() PlayerID {
	for _, p := range s.Players {
		if p.Seat == s.CurrentSeat {
			return p.ID
		}
	}
	return ""
}

func (s Snapshot) Player(id PlayerID) (PlayerSnapshot, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerSnapshot{}, false
}

// Snapshot captures the current state under the table lock.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() Snapshot {
	snap := Snapshot{
		HandNum:        g.handNum,
		Stage:          g.stage,
		Pot:            g.pot,
		CurrentBet:     g.curBet,
		CommunityCards: g.communityCards.Copy(),
		DealerSeat:     g.dealerSeat,
		SmallBlindSeat: g.smallBlindSeat,
		BigBlindSeat:   g.bigBlindSeat,
		CurrentSeat:    g.curSeat,
		RevealAll:      g.revealAll,
		SmallBlind:     g.cfg.SmallBlind,
		BigBlind:       g.cfg.BigBlind,
	}
	for _, p := range g.seats {
		if p == nil {
			continue
		}
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID:        p.ID,
			Name:      p.Name,
			Seat:      p.Seat,
			Chips:     p.chips,
			Bet:       p.bet,
			Folded:    p.folded,
			HoleCards: p.holeCards.Copy(),
		})
	}
	if g.lastResult != nil {
		res := HandResult{
			HandName: g.lastResult.HandName,
			Pot:      g.lastResult.Pot,
			Winners:  make([]HandWinner, len(g.lastResult.Winners)),
		}
		copy(res.Winners, g.lastResult.Winners)
		snap.LastHandResult = &res
	}
	return snap
}

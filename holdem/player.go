package holdem

import "pokerroom/card"

// Player is one seat's state. Owned exclusively by the Game; everything
// external sees copies via Snapshot.
type Player struct {
	ID   PlayerID
	Name string
	Seat int

	chips     int64
	bet       int64
	folded    bool
	holeCards card.CardList
}

func (p *Player) Chips() int64             { return p.chips }
func (p *Player) Bet() int64               { return p.bet }
func (p *Player) Folded() bool             { return p.folded }
func (p *Player) HoleCards() card.CardList { return p.holeCards }

// ActiveInHand is derived state: seated and not folded.
func (p *Player) ActiveInHand() bool { return !p.folded }

func (p *Player) resetForNewHand() {
	p.bet = 0
	p.folded = false
	p.holeCards = nil
}

// postBlind moves up to amount from chips into the player's bet and
// returns what was actually posted. A short stack posts an effective
// all-in blind; chips never go negative.
func (p *Player) postBlind(amount int64) int64 {
	if amount > p.chips {
		amount = p.chips
	}
	p.chips -= amount
	p.bet += amount
	return amount
}

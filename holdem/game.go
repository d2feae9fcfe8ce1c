package holdem

import (
	"math/rand"
	"sync"
	"time"

	"pokerroom/card"
)

// Game is the authoritative state of one poker table. Every public
// operation is an atomic, serialized transition guarded by the mutex;
// callers only ever see deep-copied snapshots.
//
// The engine is fully synchronous. Inter-hand timing (the pause after a
// settlement before StartNewHand) belongs to the room actor that owns
// the Game, never to the Game itself.
type Game struct {
	cfg Config
	rng *rand.Rand

	mu sync.Mutex

	seats []*Player            // fixed size cfg.MaxPlayers, nil = empty
	byID  map[PlayerID]*Player // seated players only

	handNum        uint32
	stage          Stage
	deck           *card.Deck
	communityCards card.CardList
	pot            int64
	curBet         int64

	dealerSeat     int
	smallBlindSeat int
	bigBlindSeat   int
	curSeat        int
	aggressorSeat  int

	revealAll  bool
	lastResult *HandResult
}

// HandResult summarizes a settled hand for external reporting.
type HandResult struct {
	Winners  []HandWinner
	HandName string // empty on a fold-win: no evaluation happened
	Pot      int64
}

type HandWinner struct {
	PlayerID PlayerID
	Name     string
	Amount   int64
}

func NewGame(cfg Config) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	return &Game{
		cfg:            cfg,
		rng:            rng,
		seats:          make([]*Player, cfg.MaxPlayers),
		byID:           make(map[PlayerID]*Player, cfg.MaxPlayers),
		stage:          StageWaiting,
		deck:           card.NewDeck(rng),
		dealerSeat:     NoSeat,
		smallBlindSeat: NoSeat,
		bigBlindSeat:   NoSeat,
		curSeat:        NoSeat,
		aggressorSeat:  NoSeat,
	}, nil
}

// AddPlayer seats a new player at the next free seat with the configured
// starting stack. If the table was waiting and the minimum is now met,
// a hand starts immediately. Re-joining an already seated id is a no-op.
func (g *Game) AddPlayer(id PlayerID, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.byID[id]; ok {
		return nil
	}
	seat := NoSeat
	for i, p := range g.seats {
		if p == nil {
			seat = i
			break
		}
	}
	if seat == NoSeat {
		return ErrTableFull
	}

	p := &Player{
		ID:    id,
		Name:  name,
		Seat:  seat,
		chips: g.cfg.StartingStack,
	}
	// A late arrival sits out the hand already running; they are dealt
	// in at the next StartNewHand.
	if g.handInProgressLocked() {
		p.folded = true
	}
	g.seats[seat] = p
	g.byID[id] = p

	if g.stage == StageWaiting && g.seatedCount() >= g.cfg.MinPlayers {
		g.startNewHandLocked()
	}
	return nil
}

// RemovePlayer unseats a player. Mid-hand the removal counts as an
// immediate fold first (which may settle the hand as a fold-win). When
// the seated count drops below the minimum the table returns to Waiting.
func (g *Game) RemovePlayer(id PlayerID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.byID[id]
	if !ok {
		return ErrUnknownPlayer
	}

	if g.handInProgressLocked() && !p.folded {
		settled := g.foldLocked(p)
		if !settled {
			if g.aggressorSeat == p.Seat {
				// The turn can never return to a vacated seat; the
				// round now closes once the remaining bets equalize.
				g.aggressorSeat = NoSeat
			}
			if g.curSeat == p.Seat {
				g.curSeat = g.nextActiveAfter(p.Seat)
				if g.roundCompleteLocked() {
					g.advanceStageLocked()
				}
			}
		}
	}
	// Retire any dealt cards so the 52-card accounting stays intact.
	if len(p.holeCards) > 0 {
		g.deck.Discard(p.holeCards...)
		p.holeCards = nil
	}

	g.seats[p.Seat] = nil
	delete(g.byID, id)

	if g.seatedCount() < g.cfg.MinPlayers {
		if g.handInProgressLocked() {
			g.abortHandLocked()
		}
		g.stage = StageWaiting
		g.curSeat = NoSeat
		g.aggressorSeat = NoSeat
	}
	return nil
}

// abortHandLocked unwinds a hand that cannot continue because the
// departure dropped the table below the minimum while two or more
// players were still contesting it. Outstanding round bets go back to
// their owners; whatever the pot already holds (blinds, completed
// streets, the leaver's money) is split among the remaining active
// players, remainder to the one seated earliest after the dealer. No
// chips are ever destroyed.
func (g *Game) abortHandLocked() {
	var active []*Player
	for off := 1; off <= len(g.seats); off++ {
		p := g.seats[(g.dealerSeat+off)%len(g.seats)]
		if p == nil {
			continue
		}
		if p.bet > 0 {
			p.chips += p.bet
			g.pot -= p.bet
			p.bet = 0
		}
		if p.ActiveInHand() {
			active = append(active, p)
		}
	}

	if g.pot > 0 && len(active) > 0 {
		share := g.pot / int64(len(active))
		remainder := g.pot % int64(len(active))
		result := &HandResult{Pot: g.pot}
		for i, p := range active {
			amt := share
			if i == 0 {
				amt += remainder
			}
			p.chips += amt
			result.Winners = append(result.Winners, HandWinner{PlayerID: p.ID, Name: p.Name, Amount: amt})
		}
		g.lastResult = result
	}
	g.pot = 0
	g.curBet = 0
}

// StartNewHand resets per-hand state, reshuffles, deals, rotates the
// dealer, posts blinds and opens PreFlop betting.
func (g *Game) StartNewHand() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.startNewHandLocked()
}

func (g *Game) startNewHandLocked() error {
	if g.seatedCount() < g.cfg.MinPlayers {
		g.stage = StageWaiting
		return ErrNotEnoughPlayers
	}

	g.handNum++
	g.lastResult = nil
	g.revealAll = false
	g.communityCards = nil
	g.pot = 0
	g.curBet = 0
	g.aggressorSeat = NoSeat

	for _, p := range g.seats {
		if p != nil {
			p.resetForNewHand()
		}
	}

	g.deck.Reset()

	// Two hole cards per seated player, in seat order.
	for _, p := range g.seats {
		if p != nil {
			p.holeCards = card.CardList{g.deck.Draw(), g.deck.Draw()}
		}
	}

	// Rotate the button by exactly one occupied seat. Works from NoSeat
	// (first hand) and from a seat whose player has since left.
	g.dealerSeat = g.nextSeatedAfter(g.dealerSeat)
	g.smallBlindSeat = g.nextSeatedAfter(g.dealerSeat)
	g.bigBlindSeat = g.nextSeatedAfter(g.smallBlindSeat)

	// Blinds are clamped to the available stack (effective all-in blind);
	// a short blind never drives chips negative.
	g.pot += g.seats[g.smallBlindSeat].postBlind(g.cfg.SmallBlind)
	g.pot += g.seats[g.bigBlindSeat].postBlind(g.cfg.BigBlind)
	g.curBet = g.cfg.BigBlind

	// First to act: three occupied seats past the button.
	g.curSeat = g.nextSeatedAfter(g.bigBlindSeat)
	g.stage = StagePreFlop
	return nil
}

// Apply processes one player intent. Illegal intents — acting out of
// turn, raising by zero, calling or raising without the chips — mutate
// nothing; the returned snapshot is simply the unchanged current state,
// which the caller re-broadcasts. Only unknown ids produce an error the
// transport may want to log.
func (g *Game) Apply(id PlayerID, action ActionType, amount int64) (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.byID[id]
	if !ok {
		return g.snapshotLocked(), ErrUnknownPlayer
	}
	if !g.handInProgressLocked() || p.Seat != g.curSeat || p.folded {
		return g.snapshotLocked(), nil
	}

	switch action {
	case ActionFold:
		if g.foldLocked(p) {
			return g.snapshotLocked(), nil // hand settled by fold-win
		}

	case ActionCall:
		delta := g.curBet - p.bet
		if delta < 0 || p.chips < delta {
			return g.snapshotLocked(), nil
		}
		p.chips -= delta
		p.bet = g.curBet
		g.pot += delta

	case ActionRaise:
		if amount <= 0 {
			return g.snapshotLocked(), nil
		}
		total := g.curBet + amount
		delta := total - p.bet
		if delta <= 0 || p.chips < delta {
			return g.snapshotLocked(), nil
		}
		p.chips -= delta
		p.bet = total
		g.pot += delta
		g.curBet = total
		g.aggressorSeat = p.Seat

	default:
		return g.snapshotLocked(), nil
	}

	next := g.nextActiveAfter(p.Seat)
	if next != NoSeat {
		g.curSeat = next
	}
	if g.roundCompleteLocked() {
		g.advanceStageLocked()
	}
	return g.snapshotLocked(), nil
}

// foldLocked marks the player folded; if exactly one active player
// remains the hand settles immediately as a fold-win with no evaluation
// and no further streets. Returns true when the hand ended.
func (g *Game) foldLocked(p *Player) bool {
	p.folded = true

	var sole *Player
	n := 0
	for _, q := range g.seats {
		if q != nil && q.ActiveInHand() {
			sole = q
			n++
		}
	}
	if n != 1 {
		return false
	}

	sole.chips += g.pot
	g.lastResult = &HandResult{
		Winners: []HandWinner{{PlayerID: sole.ID, Name: sole.Name, Amount: g.pot}},
		Pot:     g.pot,
	}
	g.pot = 0
	g.curBet = 0
	g.stage = StageShowdown
	g.curSeat = NoSeat
	g.aggressorSeat = NoSeat
	return true
}

// roundCompleteLocked: every active player's contribution matches the
// current bet, and either nobody raised this round or the acting turn
// has come back around to the aggressor.
func (g *Game) roundCompleteLocked() bool {
	for _, p := range g.seats {
		if p != nil && p.ActiveInHand() && p.bet != g.curBet {
			return false
		}
	}
	return g.aggressorSeat == NoSeat || g.curSeat == g.aggressorSeat
}

func (g *Game) advanceStageLocked() {
	for _, p := range g.seats {
		if p != nil {
			p.bet = 0
		}
	}
	g.curBet = 0
	g.aggressorSeat = NoSeat

	switch g.stage {
	case StagePreFlop:
		g.stage = StageFlop
		g.deck.Burn()
		g.communityCards = append(g.communityCards, g.deck.Draw(), g.deck.Draw(), g.deck.Draw())
	case StageFlop:
		g.stage = StageTurn
		g.deck.Burn()
		g.communityCards = append(g.communityCards, g.deck.Draw())
	case StageTurn:
		g.stage = StageRiver
		g.deck.Burn()
		g.communityCards = append(g.communityCards, g.deck.Draw())
	case StageRiver:
		g.resolveShowdownLocked()
		return
	}

	g.curSeat = g.nextActiveAfter(g.dealerSeat)
}

// resolveShowdownLocked evaluates every active hand, credits the pot to
// the best (split evenly on exact ties, remainder chip to the winner
// seated earliest after the dealer) and records the result summary.
func (g *Game) resolveShowdownLocked() {
	g.stage = StageShowdown
	g.revealAll = true

	var best HandRank
	var winners []*Player
	// Walk seats starting one past the dealer so the remainder policy
	// falls out of the winner ordering.
	for off := 1; off <= len(g.seats); off++ {
		p := g.seats[(g.dealerSeat+off)%len(g.seats)]
		if p == nil || !p.ActiveInHand() {
			continue
		}
		rank := Evaluate(p.holeCards, g.communityCards)
		switch {
		case rank.Beats(best):
			best = rank
			winners = winners[:0]
			winners = append(winners, p)
		case rank == best:
			winners = append(winners, p)
		}
	}
	if len(winners) == 0 {
		panic(InvalidStateError("showdown with no active players"))
	}

	share := g.pot / int64(len(winners))
	remainder := g.pot % int64(len(winners))
	result := &HandResult{HandName: best.Name(), Pot: g.pot}
	for i, w := range winners {
		amt := share
		if i == 0 {
			amt += remainder
		}
		w.chips += amt
		result.Winners = append(result.Winners, HandWinner{PlayerID: w.ID, Name: w.Name, Amount: amt})
	}

	g.lastResult = result
	g.pot = 0
	g.curSeat = NoSeat
	g.aggressorSeat = NoSeat
}

func (g *Game) handInProgressLocked() bool {
	return g.stage >= StagePreFlop && g.stage <= StageRiver
}

func (g *Game) seatedCount() int {
	n := 0
	for _, p := range g.seats {
		if p != nil {
			n++
		}
	}
	return n
}

// nextSeatedAfter returns the next occupied seat clockwise from seat,
// wrapping; NoSeat when the table is empty.
func (g *Game) nextSeatedAfter(seat int) int {
	for off := 1; off <= len(g.seats); off++ {
		i := (seat + off) % len(g.seats)
		if g.seats[i] != nil {
			return i
		}
	}
	return NoSeat
}

// nextActiveAfter is nextSeatedAfter restricted to players still
// contesting the hand.
func (g *Game) nextActiveAfter(seat int) int {
	for off := 1; off <= len(g.seats); off++ {
		i := (seat + off) % len(g.seats)
		if p := g.seats[i]; p != nil && p.ActiveInHand() {
			return i
		}
	}
	return NoSeat
}

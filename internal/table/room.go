// Package table runs one poker room as an actor: a single goroutine owns
// the engine and applies intents from a serialized event queue, so no two
// transitions ever interleave.
package table

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"pokerroom/holdem"
	"pokerroom/internal/codec"
	"pokerroom/internal/ledger"
)

// Config contains room settings.
type Config struct {
	MaxPlayers     int
	MinPlayers     int
	SmallBlind     int64
	BigBlind       int64
	StartingStack  int64
	InterHandDelay time.Duration
	Seed           int64 // 0 = time-based
}

// DefaultConfig mirrors the classic table: 10/20 blinds, 1000 stack,
// five seconds between hands.
func DefaultConfig() Config {
	return Config{
		MaxPlayers:     6,
		MinPlayers:     2,
		SmallBlind:     10,
		BigBlind:       20,
		StartingStack:  1000,
		InterHandDelay: 5 * time.Second,
	}
}

// Event types for the actor message queue.
type EventType int

const (
	EventJoin EventType = iota
	EventLeave
	EventAction
	EventClose
)

// Event is one message to the room actor. Response, when non-nil,
// receives the handler's verdict exactly once.
type Event struct {
	Type     EventType
	PlayerID holdem.PlayerID
	Name     string
	Action   holdem.ActionType
	Amount   int64
	Response chan error
}

var ErrRoomClosed = errors.New("room closed")

// Room owns one table end to end: engine, inter-hand scheduling, state
// broadcast and hand-history recording.
type Room struct {
	Name   string
	Config Config

	mu       sync.RWMutex
	game     *holdem.Game
	closed   bool
	stopOnce sync.Once

	events chan Event
	done   chan struct{}

	// nextHandAt is the scheduled inter-hand restart; the zero value
	// means nothing is scheduled. Clearing it cancels the pending start.
	nextHandAt time.Time
	emptySince time.Time

	broadcast func(id holdem.PlayerID, data []byte)
	ledger    ledger.Service

	recordedHand uint32 // last hand number written to the ledger
}

// New creates a room and starts its actor goroutine. broadcastFn
// delivers one encoded message to one player's connection.
func New(name string, cfg Config, broadcastFn func(id holdem.PlayerID, data []byte), ledgerService ledger.Service) (*Room, error) {
	game, err := holdem.NewGame(holdem.Config{
		MaxPlayers:    cfg.MaxPlayers,
		MinPlayers:    cfg.MinPlayers,
		SmallBlind:    cfg.SmallBlind,
		BigBlind:      cfg.BigBlind,
		StartingStack: cfg.StartingStack,
		Seed:          cfg.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", name, err)
	}

	r := &Room{
		Name:       name,
		Config:     cfg,
		game:       game,
		events:     make(chan Event, 256),
		done:       make(chan struct{}),
		emptySince: time.Now(),
		broadcast:  broadcastFn,
		ledger:     ledgerService,
	}
	go r.run()

	log.Printf("[Room %s] Created (max=%d, blinds=%d/%d)", name, cfg.MaxPlayers, cfg.SmallBlind, cfg.BigBlind)
	return r, nil
}

// run is the actor loop. The ticker drives the inter-hand scheduler.
func (r *Room) run() {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case event := <-r.events:
			err := r.handleEvent(event)
			if event.Response != nil {
				event.Response <- err
			}
		case <-ticker.C:
			r.tick()
		case <-r.done:
			log.Printf("[Room %s] Actor stopped", r.Name)
			return
		}
	}
}

// SubmitEvent queues an event and waits for the handler's verdict.
func (r *Room) SubmitEvent(e Event) error {
	if e.Response == nil {
		e.Response = make(chan error, 1)
	}

	r.mu.RLock()
	closed := r.closed
	r.mu.RUnlock()
	if closed {
		return ErrRoomClosed
	}

	select {
	case r.events <- e:
	case <-r.done:
		return ErrRoomClosed
	}

	select {
	case err := <-e.Response:
		return err
	case <-r.done:
		return ErrRoomClosed
	}
}

func (r *Room) handleEvent(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed && e.Type != EventClose {
		return ErrRoomClosed
	}

	switch e.Type {
	case EventJoin:
		return r.handleJoin(e.PlayerID, e.Name)
	case EventLeave:
		return r.handleLeave(e.PlayerID)
	case EventAction:
		return r.handleAction(e.PlayerID, e.Action, e.Amount)
	case EventClose:
		r.stopLocked()
		return nil
	default:
		return fmt.Errorf("unknown event type: %d", e.Type)
	}
}

func (r *Room) handleJoin(id holdem.PlayerID, name string) error {
	if err := r.game.AddPlayer(id, name); err != nil {
		return err
	}
	r.emptySince = time.Time{}
	log.Printf("[Room %s] Player %s (%s) joined", r.Name, name, id)
	r.afterTransitionLocked(r.game.Snapshot())
	return nil
}

func (r *Room) handleLeave(id holdem.PlayerID) error {
	if err := r.game.RemovePlayer(id); err != nil {
		return err
	}
	log.Printf("[Room %s] Player %s left", r.Name, id)

	snap := r.game.Snapshot()
	if len(snap.Players) == 0 {
		r.emptySince = time.Now()
	}
	if len(snap.Players) < r.Config.MinPlayers {
		// Cancel any pending restart; the table waits for players.
		r.nextHandAt = time.Time{}
	}
	r.afterTransitionLocked(snap)
	return nil
}

func (r *Room) handleAction(id holdem.PlayerID, action holdem.ActionType, amount int64) error {
	snap, err := r.game.Apply(id, action, amount)
	if err != nil {
		// Unknown ids are worth a log line; the client gets nothing.
		log.Printf("[Room %s] Action from %s rejected: %v", r.Name, id, err)
		return err
	}
	// Illegal intents land here too: the engine left state untouched
	// and the unchanged snapshot is simply re-broadcast.
	r.afterTransitionLocked(snap)
	return nil
}

// afterTransitionLocked broadcasts the new state and, when the hand just
// settled, records it and schedules the next one.
func (r *Room) afterTransitionLocked(snap holdem.Snapshot) {
	r.broadcastStateLocked(snap)

	if snap.LastHandResult != nil {
		if snap.HandNum != r.recordedHand {
			r.recordedHand = snap.HandNum
			r.recordHandLocked(snap)
		}
		if snap.Stage == holdem.StageShowdown && r.nextHandAt.IsZero() && len(snap.Players) >= r.Config.MinPlayers {
			r.nextHandAt = time.Now().Add(r.Config.InterHandDelay)
		}
	}
}

// tick fires the scheduled restart once its time arrives.
func (r *Room) tick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.nextHandAt.IsZero() || time.Now().Before(r.nextHandAt) {
		return
	}
	r.nextHandAt = time.Time{}

	if err := r.game.StartNewHand(); err != nil {
		// Not enough players by the time the delay elapsed; back to
		// waiting until the next join.
		log.Printf("[Room %s] Scheduled hand not started: %v", r.Name, err)
		return
	}
	log.Printf("[Room %s] New hand started", r.Name)
	r.broadcastStateLocked(r.game.Snapshot())
}

// broadcastStateLocked sends every seated player their own redacted view.
func (r *Room) broadcastStateLocked(snap holdem.Snapshot) {
	if r.broadcast == nil {
		return
	}
	for _, p := range snap.Players {
		data, err := codec.EncodeState(r.Name, codec.BuildTableState(snap, p.ID))
		if err != nil {
			log.Printf("[Room %s] Encode state for %s failed: %v", r.Name, p.ID, err)
			continue
		}
		r.broadcast(p.ID, data)
	}
}

func (r *Room) recordHandLocked(snap holdem.Snapshot) {
	if r.ledger == nil {
		return
	}
	res := snap.LastHandResult
	records := make([]ledger.HandRecord, 0, len(res.Winners))
	for _, w := range res.Winners {
		records = append(records, ledger.HandRecord{
			Room:     r.Name,
			HandNum:  snap.HandNum,
			WinnerID: string(w.PlayerID),
			Winner:   w.Name,
			Amount:   w.Amount,
			HandName: res.HandName,
			PlayedAt: time.Now(),
		})
	}
	// Persistence stays off the actor's critical path.
	go func() {
		for _, rec := range records {
			if err := r.ledger.RecordHand(rec); err != nil {
				log.Printf("[Room %s] Ledger write failed: %v", r.Name, err)
			}
		}
	}()
}

// Snapshot exposes the engine state for HTTP views and tests.
func (r *Room) Snapshot() holdem.Snapshot {
	return r.game.Snapshot()
}

func (r *Room) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *Room) stopLocked() {
	r.closed = true
	r.nextHandAt = time.Time{}
	r.stopOnce.Do(func() {
		close(r.done)
	})
}

func (r *Room) IsClosed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}

// IsIdleFor reports whether the room has had no seated players for at
// least ttl; the lobby reaper uses it to retire abandoned rooms.
func (r *Room) IsIdleFor(ttl time.Duration) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return true
	}
	if r.emptySince.IsZero() {
		return false
	}
	return time.Since(r.emptySince) >= ttl
}

// Package lobby is the owned registry of rooms: created at startup,
// passed to the transport layer, torn down with Close. Nothing here is
// process-global.
package lobby

import (
	"log"
	"sync"
	"time"

	"pokerroom/holdem"
	"pokerroom/internal/ledger"
	"pokerroom/internal/table"
)

const reapInterval = time.Minute

// Lobby manages all rooms and retires the abandoned ones.
type Lobby struct {
	mu    sync.RWMutex
	rooms map[string]*table.Room

	defaultConfig table.Config
	ledger        ledger.Service
	broadcast     func(id holdem.PlayerID, data []byte)

	idleTTL  time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a lobby. broadcastFn delivers one encoded message to one
// player's connection; rooms inherit it. idleTTL of 0 disables reaping.
func New(cfg table.Config, ledgerService ledger.Service, broadcastFn func(id holdem.PlayerID, data []byte), idleTTL time.Duration) *Lobby {
	l := &Lobby{
		rooms:         make(map[string]*table.Room),
		defaultConfig: cfg,
		ledger:        ledgerService,
		broadcast:     broadcastFn,
		idleTTL:       idleTTL,
		done:          make(chan struct{}),
	}
	if idleTTL > 0 {
		go l.reapLoop()
	}
	return l
}

// Room returns the named room, creating it on first use.
func (l *Lobby) Room(name string) (*table.Room, error) {
	l.mu.RLock()
	r, ok := l.rooms[name]
	l.mu.RUnlock()
	if ok && !r.IsClosed() {
		return r, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if r, ok := l.rooms[name]; ok && !r.IsClosed() {
		return r, nil
	}
	r, err := table.New(name, l.defaultConfig, l.broadcast, l.ledger)
	if err != nil {
		return nil, err
	}
	l.rooms[name] = r
	return r, nil
}

// ListRooms returns all live room names.
func (l *Lobby) ListRooms() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.rooms))
	for name, r := range l.rooms {
		if !r.IsClosed() {
			names = append(names, name)
		}
	}
	return names
}

// Close stops the reaper and every room.
func (l *Lobby) Close() {
	l.stopOnce.Do(func() {
		close(l.done)
	})

	l.mu.Lock()
	defer l.mu.Unlock()
	for name, r := range l.rooms {
		r.Stop()
		delete(l.rooms, name)
	}
}

func (l *Lobby) reapLoop() {
	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.reapIdle()
		case <-l.done:
			return
		}
	}
}

func (l *Lobby) reapIdle() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for name, r := range l.rooms {
		if r.IsIdleFor(l.idleTTL) {
			log.Printf("[Lobby] Reaping idle room %s", name)
			r.Stop()
			delete(l.rooms, name)
		}
	}
}

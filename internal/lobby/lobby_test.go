package lobby

import (
	"testing"
	"time"

	"pokerroom/holdem"
	"pokerroom/internal/table"
)

func testLobby(t *testing.T) *Lobby {
	t.Helper()
	cfg := table.Config{
		MaxPlayers:     6,
		MinPlayers:     2,
		SmallBlind:     10,
		BigBlind:       20,
		StartingStack:  1000,
		InterHandDelay: time.Hour,
	}
	l := New(cfg, nil, func(holdem.PlayerID, []byte) {}, 0)
	t.Cleanup(l.Close)
	return l
}

func TestRoomGetOrCreate(t *testing.T) {
	l := testLobby(t)

	r1, err := l.Room("main")
	if err != nil {
		t.Fatalf("Room: %v", err)
	}
	r2, err := l.Room("main")
	if err != nil {
		t.Fatalf("Room: %v", err)
	}
	if r1 != r2 {
		t.Fatalf("same name must return the same room")
	}

	r3, err := l.Room("other")
	if err != nil {
		t.Fatalf("Room: %v", err)
	}
	if r3 == r1 {
		t.Fatalf("different names must not share a room")
	}

	names := l.ListRooms()
	if len(names) != 2 {
		t.Fatalf("ListRooms = %v, want 2 rooms", names)
	}
}

func TestClosedRoomIsReplaced(t *testing.T) {
	l := testLobby(t)

	r1, err := l.Room("main")
	if err != nil {
		t.Fatalf("Room: %v", err)
	}
	r1.Stop()

	r2, err := l.Room("main")
	if err != nil {
		t.Fatalf("Room after stop: %v", err)
	}
	if r2 == r1 {
		t.Fatalf("a stopped room must be replaced on next access")
	}
	if r2.IsClosed() {
		t.Fatalf("replacement room must be live")
	}
}

func TestReapIdleRetiresEmptyRooms(t *testing.T) {
	l := testLobby(t)
	l.idleTTL = time.Nanosecond

	if _, err := l.Room("main"); err != nil {
		t.Fatalf("Room: %v", err)
	}
	time.Sleep(5 * time.Millisecond) // let emptySince age past the TTL
	l.reapIdle()

	if names := l.ListRooms(); len(names) != 0 {
		t.Fatalf("idle room should have been reaped, still have %v", names)
	}
}

func TestCloseStopsEverything(t *testing.T) {
	l := testLobby(t)
	r, err := l.Room("main")
	if err != nil {
		t.Fatalf("Room: %v", err)
	}
	l.Close()
	if !r.IsClosed() {
		t.Fatalf("Close must stop every room")
	}
	if names := l.ListRooms(); len(names) != 0 {
		t.Fatalf("closed lobby must list no rooms, got %v", names)
	}
}

package codec

import (
	"encoding/json"
	"testing"

	"pokerroom/card"
	"pokerroom/holdem"
)

func sampleSnapshot() holdem.Snapshot {
	return holdem.Snapshot{
		Stage:          holdem.StageFlop,
		Pot:            120,
		CurrentBet:     40,
		CommunityCards: card.CardList{card.CardSpadeA, card.CardHeartT, card.CardClub2},
		DealerSeat:     0,
		SmallBlindSeat: 1,
		BigBlindSeat:   2,
		CurrentSeat:    1,
		SmallBlind:     10,
		BigBlind:       20,
		Players: []holdem.PlayerSnapshot{
			{ID: "a", Name: "alice", Seat: 0, Chips: 960, Bet: 40, HoleCards: card.CardList{card.CardDiamondK, card.CardDiamondQ}},
			{ID: "b", Name: "bob", Seat: 1, Chips: 980, Bet: 0, HoleCards: card.CardList{card.CardSpade7, card.CardHeart7}},
		},
	}
}

func TestBuildTableStateRedactsOpponentCards(t *testing.T) {
	ts := BuildTableState(sampleSnapshot(), "a")

	if ts.CurrentPlayer != "b" {
		t.Fatalf("currentPlayer = %q, want b", ts.CurrentPlayer)
	}
	for _, p := range ts.Players {
		switch p.ID {
		case "a":
			if len(p.Cards) != 2 {
				t.Fatalf("viewer must see their own cards, got %d", len(p.Cards))
			}
		case "b":
			if len(p.Cards) != 0 {
				t.Fatalf("opponent cards must be redacted, got %d", len(p.Cards))
			}
		}
	}
}

func TestBuildTableStateRevealAtShowdown(t *testing.T) {
	snap := sampleSnapshot()
	snap.Stage = holdem.StageShowdown
	snap.RevealAll = true
	snap.LastHandResult = &holdem.HandResult{
		HandName: "Pair",
		Pot:      120,
		Winners:  []holdem.HandWinner{{PlayerID: "b", Name: "bob", Amount: 120}},
	}

	ts := BuildTableState(snap, "a")
	for _, p := range ts.Players {
		if len(p.Cards) != 2 {
			t.Fatalf("showdown must reveal all hole cards, %s has %d", p.ID, len(p.Cards))
		}
	}
	if ts.LastWinner == nil || ts.LastWinner.PlayerID != "b" || ts.LastWinner.Amount != 120 {
		t.Fatalf("lastWinner = %+v", ts.LastWinner)
	}
	if ts.LastWinner.HandName != "Pair" {
		t.Fatalf("handName = %q, want Pair", ts.LastWinner.HandName)
	}
}

func TestCardWireShape(t *testing.T) {
	c, err := card.Parse("10h")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	data, err := json.Marshal(CardToJSON(c))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"suit":"♥","value":"10"}`
	if string(data) != want {
		t.Fatalf("card JSON = %s, want %s", data, want)
	}
}

func TestDecodeClient(t *testing.T) {
	env, err := DecodeClient([]byte(`{"type":"act","action":"raise","amount":50}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Type != "act" || env.Action != "raise" || env.Amount != 50 {
		t.Fatalf("decoded envelope = %+v", env)
	}

	if _, err := DecodeClient([]byte(`{"name":"bob"}`)); err == nil {
		t.Fatalf("envelope without type must be rejected")
	}
	if _, err := DecodeClient([]byte(`{broken`)); err == nil {
		t.Fatalf("malformed JSON must be rejected")
	}
}

func TestEncodeEnvelopes(t *testing.T) {
	data, err := EncodeWelcome("main", "p1")
	if err != nil {
		t.Fatalf("welcome: %v", err)
	}
	var env ServerEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal welcome: %v", err)
	}
	if env.Type != "welcome" || env.PlayerID != "p1" || env.Room != "main" {
		t.Fatalf("welcome envelope = %+v", env)
	}

	data, err = EncodeError("table full")
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if env.Type != "error" || env.Error != "table full" {
		t.Fatalf("error envelope = %+v", env)
	}
}

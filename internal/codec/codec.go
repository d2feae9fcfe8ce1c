// Package codec converts engine snapshots and client intents to and from
// the JSON wire format the table clients speak.
package codec

import (
	"encoding/json"
	"fmt"

	"pokerroom/card"
	"pokerroom/holdem"
)

// ClientEnvelope is one inbound websocket message.
type ClientEnvelope struct {
	Type string `json:"type"` // "join", "leave", "act"

	// join
	Name  string `json:"name,omitempty"`
	Token string `json:"token,omitempty"` // session token, empty for guests
	Room  string `json:"room,omitempty"`

	// act
	Action string `json:"action,omitempty"` // "fold", "call", "raise"
	Amount int64  `json:"amount,omitempty"` // raise increment over the current bet
}

// ServerEnvelope is one outbound websocket message.
type ServerEnvelope struct {
	Type string `json:"type"` // "welcome", "state", "error"

	PlayerID string      `json:"playerId,omitempty"`
	Room     string      `json:"room,omitempty"`
	State    *TableState `json:"state,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// TableState is the full per-viewer table state. PlayerState.Cards is
// redacted for everyone but the owner unless the snapshot's reveal flag
// is set (river showdown).
type TableState struct {
	Players        []PlayerState `json:"players"`
	CommunityCards []CardJSON    `json:"communityCards"`
	Pot            int64         `json:"pot"`
	CurrentBet     int64         `json:"currentBet"`
	CurrentPlayer  string        `json:"currentPlayer,omitempty"`
	Dealer         int           `json:"dealer"`
	SmallBlindSeat int           `json:"smallBlindPosition"`
	BigBlindSeat   int           `json:"bigBlindPosition"`
	Stage          string        `json:"gameStage"`
	SmallBlind     int64         `json:"smallBlind"`
	BigBlind       int64         `json:"bigBlind"`
	LastWinner     *WinnerJSON   `json:"lastWinner,omitempty"`
}

type PlayerState struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Chips  int64      `json:"chips"`
	Bet    int64      `json:"bet"`
	Folded bool       `json:"folded"`
	Seat   int        `json:"position"`
	Cards  []CardJSON `json:"cards"`
}

// CardJSON is the client card shape: a suit glyph and a display value.
type CardJSON struct {
	Suit  string `json:"suit"`  // "♠", "♥", "♣", "♦"
	Value string `json:"value"` // "2".."10", "J", "Q", "K", "A"
}

type WinnerJSON struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"playerName"`
	Amount   int64  `json:"amount"`
	HandName string `json:"handName,omitempty"`
}

// CardToJSON converts one engine card to its wire shape.
func CardToJSON(c card.Card) CardJSON {
	return CardJSON{Suit: c.Suit().String(), Value: c.RankString()}
}

func cardsToJSON(cards card.CardList) []CardJSON {
	out := make([]CardJSON, 0, len(cards))
	for _, c := range cards {
		out = append(out, CardToJSON(c))
	}
	return out
}

// BuildTableState projects a snapshot for one viewer. Hole cards other
// than the viewer's own are omitted entirely unless the engine revealed
// them at showdown.
func BuildTableState(snap holdem.Snapshot, viewer holdem.PlayerID) *TableState {
	ts := &TableState{
		Players:        make([]PlayerState, 0, len(snap.Players)),
		CommunityCards: cardsToJSON(snap.CommunityCards),
		Pot:            snap.Pot,
		CurrentBet:     snap.CurrentBet,
		CurrentPlayer:  string(snap.CurrentPlayer()),
		Dealer:         snap.DealerSeat,
		SmallBlindSeat: snap.SmallBlindSeat,
		BigBlindSeat:   snap.BigBlindSeat,
		Stage:          snap.Stage.String(),
		SmallBlind:     snap.SmallBlind,
		BigBlind:       snap.BigBlind,
	}

	for _, p := range snap.Players {
		ps := PlayerState{
			ID:     string(p.ID),
			Name:   p.Name,
			Chips:  p.Chips,
			Bet:    p.Bet,
			Folded: p.Folded,
			Seat:   p.Seat,
			Cards:  []CardJSON{},
		}
		if p.ID == viewer || snap.RevealAll {
			ps.Cards = cardsToJSON(p.HoleCards)
		}
		ts.Players = append(ts.Players, ps)
	}

	if res := snap.LastHandResult; res != nil && len(res.Winners) > 0 {
		w := res.Winners[0]
		ts.LastWinner = &WinnerJSON{
			PlayerID: string(w.PlayerID),
			Name:     w.Name,
			Amount:   w.Amount,
			HandName: res.HandName,
		}
	}
	return ts
}

// DecodeClient parses one inbound message.
func DecodeClient(data []byte) (*ClientEnvelope, error) {
	var env ClientEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode client envelope: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("client envelope missing type")
	}
	return &env, nil
}

// EncodeState wraps a per-viewer table state for sending.
func EncodeState(room string, ts *TableState) ([]byte, error) {
	return json.Marshal(&ServerEnvelope{Type: "state", Room: room, State: ts})
}

// EncodeWelcome acknowledges a join with the identity the server issued.
func EncodeWelcome(room string, id holdem.PlayerID) ([]byte, error) {
	return json.Marshal(&ServerEnvelope{Type: "welcome", Room: room, PlayerID: string(id)})
}

// EncodeError reports a transport-level failure to one client.
func EncodeError(msg string) ([]byte, error) {
	return json.Marshal(&ServerEnvelope{Type: "error", Error: msg})
}

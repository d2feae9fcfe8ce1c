package holdem

import "errors"

var (
	ErrTableFull        = errors.New("table full")
	ErrUnknownPlayer    = errors.New("unknown player")
	ErrNotEnoughPlayers = errors.New("not enough seated players")
)

type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

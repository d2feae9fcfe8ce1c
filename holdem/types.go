package holdem

// PlayerID is the opaque stable identity token the transport layer issues
// for the duration of table membership. The engine assumes nothing about
// its format beyond uniqueness.
type PlayerID string

// NoSeat marks an unoccupied seat reference.
const NoSeat = -1

// Stage is the betting street of the current hand.
type Stage byte

const (
	StageWaiting Stage = iota
	StagePreFlop
	StageFlop
	StageTurn
	StageRiver
	StageShowdown
)

var StageNames = map[Stage]string{
	StageWaiting:  "waiting",
	StagePreFlop:  "preflop",
	StageFlop:     "flop",
	StageTurn:     "turn",
	StageRiver:    "river",
	StageShowdown: "showdown",
}

func (s Stage) String() string { return StageNames[s] }

// ActionType is a player intent. Anything else arriving on the wire is
// ignored without error.
type ActionType byte

const (
	ActionNone ActionType = iota
	ActionFold
	ActionCall
	ActionRaise
)

var ActionNames = map[ActionType]string{
	ActionNone:  "none",
	ActionFold:  "fold",
	ActionCall:  "call",
	ActionRaise: "raise",
}

func (a ActionType) String() string { return ActionNames[a] }

// ParseAction maps a wire action string to an ActionType.
func ParseAction(s string) (ActionType, bool) {
	switch s {
	case "fold":
		return ActionFold, true
	case "call":
		return ActionCall, true
	case "raise":
		return ActionRaise, true
	default:
		return ActionNone, false
	}
}

// Hand categories, weakest to strongest.
const (
	HandHighCard byte = iota + 1
	HandOnePair
	HandTwoPair
	HandThreeOfKind
	HandStraight
	HandFlush
	HandFullHouse
	HandFourOfKind
	HandStraightFlush
	HandRoyalFlush
)

var HandNames = map[byte]string{
	HandHighCard:      "High Card",
	HandOnePair:       "Pair",
	HandTwoPair:       "Two Pair",
	HandThreeOfKind:   "Three of a Kind",
	HandStraight:      "Straight",
	HandFlush:         "Flush",
	HandFullHouse:     "Full House",
	HandFourOfKind:    "Four of a Kind",
	HandStraightFlush: "Straight Flush",
	HandRoyalFlush:    "Royal Flush",
}

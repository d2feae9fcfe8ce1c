package holdem

import "fmt"

type Config struct {
	// Table
	MaxPlayers int
	MinPlayers int

	// Blinds / stacks
	SmallBlind    int64
	BigBlind      int64
	StartingStack int64

	// RNG seed (0 => time-based)
	Seed int64
}

func (c Config) validate() error {
	if c.MaxPlayers <= 0 || c.MaxPlayers > 10 {
		return fmt.Errorf("MaxPlayers must be in 1..10")
	}
	if c.MinPlayers < 2 {
		return fmt.Errorf("MinPlayers must be >= 2")
	}
	if c.MinPlayers > c.MaxPlayers {
		return fmt.Errorf("MinPlayers must be <= MaxPlayers")
	}
	if c.SmallBlind <= 0 || c.BigBlind <= 0 || c.SmallBlind > c.BigBlind {
		return fmt.Errorf("invalid blinds: sb=%d bb=%d", c.SmallBlind, c.BigBlind)
	}
	if c.StartingStack < c.BigBlind {
		return fmt.Errorf("StartingStack must cover the big blind")
	}
	return nil
}

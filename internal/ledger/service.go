// Package ledger persists settled hand results for the /history view.
package ledger

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

const defaultRecentLimit = 100

// HandRecord is one winner's payout from one settled hand. A split pot
// produces one record per winner.
type HandRecord struct {
	Room     string    `json:"room"`
	HandNum  uint32    `json:"handNum"`
	WinnerID string    `json:"winnerId"`
	Winner   string    `json:"winner"`
	Amount   int64     `json:"amount"`
	HandName string    `json:"handName,omitempty"`
	PlayedAt time.Time `json:"playedAt"`
}

type Service interface {
	RecordHand(rec HandRecord) error
	ListRecent(ctx context.Context, room string, limit int) ([]HandRecord, error)
	Close() error
}

// NewServiceFromEnv picks the backend from LEDGER_MODE: "none" (default),
// "sqlite", or "postgres". Returns the service and the resolved mode name.
func NewServiceFromEnv() (Service, string, error) {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv("LEDGER_MODE")))
	switch mode {
	case "", "none", "memory":
		return &noopService{}, "none", nil
	case "sqlite", "local":
		svc, err := NewSQLiteServiceFromEnv()
		if err != nil {
			return nil, "", err
		}
		return svc, "sqlite", nil
	case "postgres":
		svc, err := NewPostgresServiceFromEnv()
		if err != nil {
			return nil, "", err
		}
		return svc, "postgres", nil
	default:
		return nil, "", fmt.Errorf("unknown LEDGER_MODE %q", mode)
	}
}

type noopService struct{}

func (n *noopService) RecordHand(HandRecord) error { return nil }

func (n *noopService) ListRecent(context.Context, string, int) ([]HandRecord, error) {
	return []HandRecord{}, nil
}

func (n *noopService) Close() error { return nil }

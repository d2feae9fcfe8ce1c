package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"pokerroom/holdem"
	"pokerroom/internal/auth"
	"pokerroom/internal/gateway"
	"pokerroom/internal/ledger"
	"pokerroom/internal/lobby"
	"pokerroom/internal/table"
)

const defaultIdleRoomTTL = 10 * time.Minute

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	authService, authMode, err := auth.NewServiceFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init auth service: %v", err)
	}
	defer authService.Close()

	ledgerService, ledgerMode, err := ledger.NewServiceFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init ledger service: %v", err)
	}
	defer ledgerService.Close()

	gw := &gatewayHolder{}
	lby := lobby.New(tableConfigFromEnv(), ledgerService, gw.broadcast, defaultIdleRoomTTL)
	defer lby.Close()
	gw.gateway = gateway.New(lby, authService)

	authHTTP := auth.NewHTTPHandler(authService)
	historyHTTP := ledger.NewHTTPHandler(ledgerService)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.gateway.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	authHTTP.RegisterRoutes(mux)
	historyHTTP.RegisterRoutes(mux)
	mux.Handle("/", http.FileServer(http.Dir(staticDir())))

	addr := listenAddr()
	log.Printf("[Server] Auth mode: %s", authMode)
	log.Printf("[Server] Ledger mode: %s", ledgerMode)
	log.Printf("[Server] Listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
}

// gatewayHolder breaks the lobby/gateway construction cycle: rooms need
// a broadcast function before the gateway exists.
type gatewayHolder struct {
	gateway *gateway.Gateway
}

func (h *gatewayHolder) broadcast(id holdem.PlayerID, data []byte) {
	if h.gateway != nil {
		h.gateway.BroadcastToPlayer(id, data)
	}
}

func listenAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":8080"
}

func staticDir() string {
	if dir := os.Getenv("STATIC_DIR"); dir != "" {
		return dir
	}
	return "public"
}

func tableConfigFromEnv() table.Config {
	cfg := table.DefaultConfig()
	if v := os.Getenv("SMALL_BLIND"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.SmallBlind = n
		}
	}
	if v := os.Getenv("BIG_BLIND"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.BigBlind = n
		}
	}
	if v := os.Getenv("STARTING_STACK"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.StartingStack = n
		}
	}
	if v := os.Getenv("INTER_HAND_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.InterHandDelay = time.Duration(n) * time.Millisecond
		}
	}
	return cfg
}

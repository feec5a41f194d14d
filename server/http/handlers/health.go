package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

var startedAt = time.Now()

// Version проставляется при сборке: -ldflags "-X kp-summary/server/http/handlers.Version=..."
var Version = "dev"

// Health — liveness: {"status":"ok","version":"...","uptime":"..."}.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"version": Version,
		"uptime":  time.Since(startedAt).Truncate(time.Second).String(),
	})
}

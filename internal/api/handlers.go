package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vytor/bggcollect/internal/logger"
	"github.com/vytor/bggcollect/internal/services"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	CollectionService services.CollectionService
	// DB is optional; without it /ready only reports the process is up.
	DB Pinger
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

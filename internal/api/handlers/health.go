package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger is satisfied by *sql.DB and the optional Redis client wrapper.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports liveness and, when configured, backend readiness.
type HealthHandler struct {
	Checks map[string]Pinger
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	res := map[string]string{"status": "ok"}
	status := http.StatusOK
	for name, p := range h.Checks {
		if err := p.PingContext(ctx); err != nil {
			res[name] = "down"
			res["status"] = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		res[name] = "up"
	}

	writeJSON(w, r, status, res)
}

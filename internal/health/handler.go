package health

import (
	"context"
	"net/http"
	"time"

	"inventory-api/internal/httpx"
)

// Pinger es lo mínimo que necesitamos de la DB para el readiness check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler encapsula endpoints de health.
type Handler struct {
	pinger Pinger
}

// New crea un handler de health.
func New(pinger Pinger) *Handler {
	return &Handler{pinger: pinger}
}

// Health indica si el proceso está vivo.
// NO chequea base de datos. Eso va en /ready.
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"message":   "API funcionando correctamente",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready indica si el proceso puede atender tráfico: exige que la DB responda.
func (handler *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := handler.pinger.Ping(ctx); err != nil {
		httpx.Fail(w, http.StatusServiceUnavailable, "not_ready", "database is not reachable")
		return
	}

	httpx.OK(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"message":   "API lista para recibir tráfico",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

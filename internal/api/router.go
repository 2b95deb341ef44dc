package api

import (
	"dock-rebalance-service/internal/api/handlers"
	"dock-rebalance-service/internal/platform/metrics"
	"dock-rebalance-service/internal/ports"
	"dock-rebalance-service/internal/services"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the adapters the HTTP layer is wired with.
type Deps struct {
	Visits  ports.VesselVisitRepository
	Logs    ports.ReassignmentLogStore
	Oracles services.OracleFactory

	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
	Health   map[string]handlers.Pinger

	Location     *time.Location
	EntryTimeout time.Duration
	APIToken     string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{Checks: d.Health}
	rebalanceHandler := &handlers.RebalanceHandler{
		Visits:       d.Visits,
		Logs:         d.Logs,
		Oracles:      d.Oracles,
		Metrics:      d.Metrics,
		Location:     d.Location,
		EntryTimeout: d.EntryTimeout,
	}
	logHandler := &handlers.ReassignmentLogHandler{Store: d.Logs, Metrics: d.Metrics}
	visitHandler := &handlers.VesselVisitHandler{Updater: d.Visits}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/api/rebalance/docks/plan", rebalanceHandler.Plan)
	mux.HandleFunc("/api/rebalance/docks/apply", rebalanceHandler.Apply)
	mux.HandleFunc("/api/dock-reassignment-log", logHandler.Serve)
	mux.HandleFunc("/api/vessel-visit-notifications/{id}/dock", visitHandler.UpdateDock)

	if d.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	return loggingMiddleware(tokenMiddleware(d.APIToken, mux))
}

package handlers

import (
	"dock-rebalance-service/internal/api/dto"
	"dock-rebalance-service/internal/platform/metrics"
	"dock-rebalance-service/internal/platform/obs"
	"dock-rebalance-service/internal/ports"
	"errors"
	"log/slog"
	"net/http"
)

type ReassignmentLogHandler struct {
	Store   ports.ReassignmentLogStore
	Metrics *metrics.Collector
}

// Serve handles GET (list) and POST (append) on the audit log collection.
func (h *ReassignmentLogHandler) Serve(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		methodNotAllowed(w, r, "GET, POST")
	}
}

func (h *ReassignmentLogHandler) list(w http.ResponseWriter, r *http.Request) {
	logs, err := h.Store.ListAll(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "list reassignment logs failed", "req_id", obs.RequestID(r.Context()), "err", err)
		writeStoreError(w, r, err)
		return
	}

	res := make([]dto.DockReassignmentLogDTO, 0, len(logs))
	for _, l := range logs {
		res = append(res, dto.NewReassignmentLogDTO(l))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ReassignmentLogHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.DockReassignmentLogDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, decodeError(err))
		return
	}

	entry := req.Log()
	entry.ID = ""
	if err := entry.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	stored, err := h.Store.Append(r.Context(), entry)
	h.Metrics.RecordAuditAppend(err)
	if err != nil {
		slog.ErrorContext(r.Context(), "append reassignment log failed", "req_id", obs.RequestID(r.Context()), "vvn_id", entry.VvnID, "err", err)
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.NewReassignmentLogDTO(stored))
}

func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ports.ErrUpstreamUnavailable) {
		writeError(w, r, http.StatusServiceUnavailable, "audit log store unavailable")
		return
	}
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

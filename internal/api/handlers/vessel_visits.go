package handlers

import (
	"dock-rebalance-service/internal/api/dto"
	"dock-rebalance-service/internal/platform/obs"
	"dock-rebalance-service/internal/ports"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

type VesselVisitHandler struct {
	Updater ports.DockUpdater
}

// UpdateDock handles PATCH/PUT /api/vessel-visit-notifications/{id}/dock.
func (h *VesselVisitHandler) UpdateDock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch && r.Method != http.MethodPut {
		methodNotAllowed(w, r, "PATCH, PUT")
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "vessel visit id is required")
		return
	}

	var req dto.UpdateDockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, decodeError(err))
		return
	}
	dock := strings.TrimSpace(req.Dock)
	if dock == "" {
		writeError(w, r, http.StatusBadRequest, "dock is required")
		return
	}

	err := h.Updater.UpdateDock(r.Context(), id, dock)
	switch {
	case err == nil:
	case errors.Is(err, ports.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "vessel visit notification not found")
		return
	case errors.Is(err, ports.ErrUnknownDock):
		writeError(w, r, http.StatusBadRequest, "unknown dock")
		return
	default:
		slog.ErrorContext(r.Context(), "update dock failed", "req_id", obs.RequestID(r.Context()), "vvn_id", id, "err", err)
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"vvnId": id, "dock": dock})
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/atendo/backend/internal/auth"
	"github.com/atendo/backend/internal/dashboard"
	"github.com/atendo/backend/internal/http/respond"
	"github.com/atendo/backend/internal/middleware"
	"github.com/atendo/backend/internal/models/dto"
)

// DashboardHandler exposes the tenant-scoped record endpoints consumed by the
// presentation layer.
type DashboardHandler struct {
	gateway *dashboard.Gateway
	tokens  *auth.TokenManager
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(gateway *dashboard.Gateway, tokens *auth.TokenManager) *DashboardHandler {
	return &DashboardHandler{gateway: gateway, tokens: tokens}
}

// Register attaches the protected dashboard routes to the mux.
func (h *DashboardHandler) Register(mux *http.ServeMux) {
	protect := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(h.tokens, fn)
	}
	mux.Handle("GET /api/dashboard-data", protect(h.handleList))
	mux.Handle("GET /api/client/{phone}", protect(h.handleGet))
	mux.Handle("PUT /api/client/{phone}/status", protect(h.handleUpdateStatus))
}

func (h *DashboardHandler) handleList(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, respond.CodeUnauthenticated, "access token required")
		return
	}

	listing, err := h.gateway.ListForTenant(r.Context(), principal.TenantID)
	if err != nil {
		h.storeFailure(w, "list records", err)
		return
	}

	out := dto.RecordList{Records: listing.Records, Scoping: listing.Scoping}
	if listing.Scoping == dashboard.ScopingDegraded {
		out.Warning = dashboard.DegradedWarning
	}
	respond.JSON(w, http.StatusOK, out)
}

func (h *DashboardHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, respond.CodeUnauthenticated, "access token required")
		return
	}

	record, err := h.gateway.Get(r.Context(), principal.TenantID, r.PathValue("phone"))
	if err != nil {
		if errors.Is(err, dashboard.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, respond.CodeNotFound, "client not found")
			return
		}
		h.storeFailure(w, "get record", err)
		return
	}
	respond.JSON(w, http.StatusOK, record)
}

func (h *DashboardHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, respond.CodeUnauthenticated, "access token required")
		return
	}

	req, ok := decodeValid[dto.StatusUpdateRequest](w, r)
	if !ok {
		return
	}

	record, err := h.gateway.UpdateStatus(r.Context(), principal.TenantID, r.PathValue("phone"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, dashboard.ErrInvalidStatus):
			respond.Error(w, http.StatusBadRequest, respond.CodeInvalidInput, "invalid status value")
		case errors.Is(err, dashboard.ErrNotFound):
			respond.Error(w, http.StatusNotFound, respond.CodeNotFound, "client not found")
		default:
			h.storeFailure(w, "update status", err)
		}
		return
	}
	respond.JSON(w, http.StatusOK, record)
}

func (h *DashboardHandler) storeFailure(w http.ResponseWriter, op string, err error) {
	slog.Error("record store failure", "op", op, "error", err)
	respond.Error(w, http.StatusServiceUnavailable, respond.CodeStoreUnavailable, "record store unavailable")
}

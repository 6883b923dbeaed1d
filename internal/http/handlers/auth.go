package handlers

import (
	"log/slog"
	"net/http"

	"github.com/atendo/backend/internal/auth"
	"github.com/atendo/backend/internal/http/respond"
	"github.com/atendo/backend/internal/middleware"
	"github.com/atendo/backend/internal/models/dto"
)

// AuthHandler owns the login and token-validation endpoints.
type AuthHandler struct {
	creds  *auth.CredentialStore
	tokens *auth.TokenManager
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(creds *auth.CredentialStore, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{creds: creds, tokens: tokens}
}

// Register attaches auth routes to the mux. Login is public; validation runs
// behind the token gate.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/login", h.handleLogin)
	mux.Handle("GET /auth/validate", middleware.RequireAuth(h.tokens, http.HandlerFunc(h.handleValidate)))
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[dto.LoginRequest](w, r)
	if !ok {
		return
	}

	// Unknown email and wrong password produce byte-identical responses.
	identity, tenant, ok := h.creds.Authenticate(req.Email, req.Password)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, respond.CodeInvalidCredentials, "invalid credentials")
		return
	}

	token, err := h.tokens.Issue(identity, tenant)
	if err != nil {
		slog.Error("token issuance failed", "identity", identity.ID, "error", err)
		respond.Error(w, http.StatusInternalServerError, respond.CodeInternal, "failed to generate token")
		return
	}

	respond.JSON(w, http.StatusOK, dto.LoginResponse{Token: token, User: identity, Tenant: tenant})
}

func (h *AuthHandler) handleValidate(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, respond.CodeInvalidToken, "invalid or expired token")
		return
	}

	identity, tenant, ok := h.creds.FindByID(principal.IdentityID)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, respond.CodeInvalidToken, "invalid or expired token")
		return
	}

	respond.JSON(w, http.StatusOK, dto.ValidateResponse{User: identity, Tenant: tenant})
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/homeservices/exchange-api/internal/http/response"
	"github.com/homeservices/exchange-api/internal/platform/auth"
	"github.com/homeservices/exchange-api/pkg/logger"
)

type AuthHandler struct {
	Tokens   *auth.TokenService
	Denylist auth.Denylist
}

func NewAuthHandler(tokens *auth.TokenService, denylist auth.Denylist) *AuthHandler {
	return &AuthHandler{Tokens: tokens, Denylist: denylist}
}

// IssueToken signs whatever identity the caller asserts. There is no
// password check behind this; the trust boundary is the caller's word.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var claim map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&claim); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	email, _ := claim["email"].(string)
	if email == "" {
		response.BadRequest(w, "email is required")
		return
	}
	delete(claim, "email")
	if len(claim) == 0 {
		claim = nil
	}

	token, err := h.Tokens.Issue(email, claim)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to sign token", "error", err)
		response.InternalError(w, "failed to sign token")
		return
	}

	logger.InfoContext(r.Context(), "issued session token", "email", email)

	h.Tokens.SetTokenCookie(w, token)
	response.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout clears the cookie. When the denylist extension is enabled the
// token is also revoked server-side until its natural expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.Denylist != nil {
		if cookie, err := r.Cookie(h.Tokens.CookieName()); err == nil && cookie.Value != "" {
			if claims, err := h.Tokens.Parse(cookie.Value); err == nil && claims.ExpiresAt != nil {
				if err := h.Denylist.Revoke(r.Context(), cookie.Value, claims.ExpiresAt.Time); err != nil {
					logger.ErrorContext(r.Context(), "failed to revoke token", "error", err)
				}
			}
		}
	}

	h.Tokens.ClearTokenCookie(w)
	response.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpmw "github.com/homeservices/exchange-api/internal/http/middleware"
	"github.com/homeservices/exchange-api/internal/platform/auth"
)

type stubDenylist struct {
	revoked map[string]bool
}

func (d *stubDenylist) Revoke(_ context.Context, token string, _ time.Time) error {
	if d.revoked == nil {
		d.revoked = map[string]bool{}
	}
	d.revoked[token] = true
	return nil
}

func (d *stubDenylist) IsRevoked(_ context.Context, token string) (bool, error) {
	return d.revoked[token], nil
}

func newTokens() *auth.TokenService {
	return auth.NewTokenService("test-secret", time.Hour, "token")
}

func protectedHandler(t *testing.T, wantEmail string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := httpmw.Claims(r)
		if claims == nil {
			t.Error("no claims in request context")
		} else if claims.Email != wantEmail {
			t.Errorf("claims email = %q, want %q", claims.Email, wantEmail)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSessionMissingCookie(t *testing.T) {
	h := httpmw.RequireSession(newTokens(), nil)(protectedHandler(t, ""))

	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireSessionInvalidToken(t *testing.T) {
	h := httpmw.RequireSession(newTokens(), nil)(protectedHandler(t, ""))

	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireSessionValidToken(t *testing.T) {
	tokens := newTokens()
	token, err := tokens.Issue("jamie@example.com", nil)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	h := httpmw.RequireSession(tokens, nil)(protectedHandler(t, "jamie@example.com"))

	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequireSessionDenylistedToken(t *testing.T) {
	tokens := newTokens()
	token, err := tokens.Issue("jamie@example.com", nil)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	denylist := &stubDenylist{}
	if err := denylist.Revoke(context.Background(), token, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	h := httpmw.RequireSession(tokens, denylist)(protectedHandler(t, "jamie@example.com"))

	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

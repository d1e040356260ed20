package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed token, or natural expiry.
var ErrInvalidToken = errors.New("invalid token")

// Claims binds the caller-asserted email to the token. The email is trusted
// as supplied at login; no password check backs it. Any extra fields from
// the login body ride along in Profile so they survive the round trip.
type Claims struct {
	Email   string                 `json:"email"`
	Profile map[string]interface{} `json:"profile,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the signed session credential and owns
// the cookie it travels in.
type TokenService struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
}

func NewTokenService(secret string, ttl time.Duration, cookieName string) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		ttl:        ttl,
		cookieName: cookieName,
	}
}

func (s *TokenService) CookieName() string { return s.cookieName }

func (s *TokenService) TTL() time.Duration { return s.ttl }

func (s *TokenService) Issue(email string, profile map[string]interface{}) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:   email,
		Profile: profile,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) Parse(tokenString string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims, ok := tok.Claims.(*Claims); ok && tok.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// SetTokenCookie attaches the credential so it is sent only over encrypted
// connections and accepted cross-site.
func (s *TokenService) SetTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// ClearTokenCookie instructs the client to discard the credential. The token
// itself stays cryptographically valid until it expires.
func (s *TokenService) ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

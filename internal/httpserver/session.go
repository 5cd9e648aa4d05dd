// internal/httpserver/session.go
//
// Anonymous player sessions.
// Every request is tied to a player id (UUID) carried in an HS256 JWT,
// read from "Authorization: Bearer <token>" or the session cookie. A missing,
// expired or tampered token mints a fresh player: the token is set as a
// cookie and echoed in the X-Session-Token header for non-browser clients.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	sessionCookie = "connections_session"
	sessionHeader = "X-Session-Token"
)

type ctxPlayerKey struct{}

// sessions signs and verifies player tokens.
type sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func (s sessions) sign(player string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   player,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString(s.secret)
	return ss, exp, err
}

// parse returns the player id of a valid token.
func (s sessions) parse(tok string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}
	if !t.Valid || claims.Subject == "" {
		return "", errors.New("invalid session")
	}
	return claims.Subject, nil
}

// setCookie writes the session cookie: Lax for local development,
// None+Secure in production (cross-site client).
func (s sessions) setCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// withSession resolves (or mints) the player id and stores it in the context.
func (s sessions) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player := ""
		if tok := bearerOrCookie(r); tok != "" {
			if id, err := s.parse(tok); err == nil {
				player = id
			} else {
				log.Debug().Err(err).Msg("discarding session token")
			}
		}
		if player == "" {
			player = uuid.NewString()
			tok, exp, err := s.sign(player)
			if err != nil {
				log.Error().Err(err).Msg("sign session")
				http.Error(w, `{"error":"session_failed"}`, http.StatusInternalServerError)
				return
			}
			s.setCookie(w, tok, exp)
			w.Header().Set(sessionHeader, tok)
		}
		ctx := context.WithValue(r.Context(), ctxPlayerKey{}, player)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// playerFrom returns the player id placed by withSession.
func playerFrom(ctx context.Context) string {
	p, _ := ctx.Value(ctxPlayerKey{}).(string)
	return p
}

// bearerOrCookie extracts a bearer token from Authorization header or session cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}

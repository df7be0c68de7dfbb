// Package session identifies whose cart a request works on: the logged-in
// user from the access token cookie, or an anonymous visitor from the
// cartSession cookie.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/artisan_market/pkg/logging"
	"github.com/Skotchmaster/artisan_market/pkg/tokens"
)

const (
	CookieName       = "cartSession"
	AccessCookieName = "accessToken"

	keySession     = "session_key"
	keyUserID      = "user_id"
	keyRole        = "role"
	keyAccessToken = "access_token"

	defaultTTL = 30 * 24 * time.Hour
)

type Middleware struct {
	JWTSecret []byte
	Secure    bool
	TTL       time.Duration
}

func NewMiddleware(secret []byte, secure bool) *Middleware {
	return &Middleware{JWTSecret: secret, Secure: secure, TTL: defaultTTL}
}

// Attach resolves the session key for every request. It never rejects a
// request: a bad or expired access token degrades to the anonymous session.
func (m *Middleware) Attach(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := ""
		if claims, raw := m.user(c); claims != nil {
			key = "user:" + claims.Subject
			c.Set(keyUserID, claims.Subject)
			c.Set(keyRole, claims.Role)
			c.Set(keyAccessToken, raw)
		} else {
			key = "guest:" + m.guest(c)
		}
		c.Set(keySession, key)

		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("session", key)
		c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, l)))

		return next(c)
	}
}

// RequireUser rejects anonymous sessions.
func (m *Middleware) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := UserID(c); !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "login required")
		}
		return next(c)
	}
}

func (m *Middleware) user(c echo.Context) (*tokens.AccessClaims, string) {
	ck, err := c.Cookie(AccessCookieName)
	if err != nil || ck.Value == "" {
		return nil, ""
	}
	claims, err := tokens.AccessClaimsFromToken(ck.Value, m.JWTSecret)
	if err == nil {
		return claims, ck.Value
	}
	if !errors.Is(err, jwt.ErrTokenExpired) {
		c.SetCookie(DeleteCookie(AccessCookieName, "/", m.Secure))
	}
	logging.FromContext(c.Request().Context()).Debug("access_token_ignored", "error", err)
	return nil, ""
}

func (m *Middleware) guest(c echo.Context) string {
	if ck, err := c.Cookie(CookieName); err == nil {
		if id, err := uuid.Parse(ck.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	c.SetCookie(CreateCookie(CookieName, id, "/", time.Now().Add(m.TTL), m.Secure))
	return id
}

// Key is the cart session key set by Attach.
func Key(c echo.Context) string {
	s, _ := c.Get(keySession).(string)
	return s
}

func UserID(c echo.Context) (string, bool) {
	s, ok := c.Get(keyUserID).(string)
	return s, ok && s != ""
}

func Role(c echo.Context) string {
	s, _ := c.Get(keyRole).(string)
	return s
}

// AccessToken is the raw token of a logged-in user, for forwarding to
// upstream services.
func AccessToken(c echo.Context) string {
	s, _ := c.Get(keyAccessToken).(string)
	return s
}

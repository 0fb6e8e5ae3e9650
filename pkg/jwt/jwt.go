// Package jwt holds the cookie transport for the token pair and the
// helpers used to store refresh tokens without keeping them in clear.
package jwt

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/foodgram/pkg/tokens"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

// CookiePolicy decides the attributes of the auth cookies. Secure should
// only be turned off for local plain-http development.
type CookiePolicy struct {
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func DefaultCookiePolicy() CookiePolicy {
	return CookiePolicy{Path: "/", Secure: true, SameSite: http.SameSiteLaxMode}
}

func (p CookiePolicy) path() string {
	if p.Path == "" {
		return "/"
	}
	return p.Path
}

func (p CookiePolicy) Issue(name, value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     p.path(),
		Domain:   p.Domain,
		Expires:  exp,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	}
}

func (p CookiePolicy) Expire(name string) *http.Cookie {
	ck := p.Issue(name, "", time.Unix(0, 0))
	ck.MaxAge = -1
	return ck
}

// SetPair writes both halves of pair as cookies.
func (p CookiePolicy) SetPair(c echo.Context, pair *tokens.Pair) {
	c.SetCookie(p.Issue(AccessCookie, pair.AccessToken, pair.AccessExp))
	c.SetCookie(p.Issue(RefreshCookie, pair.RefreshToken, pair.RefreshExp))
}

func (p CookiePolicy) Clear(c echo.Context) {
	c.SetCookie(p.Expire(AccessCookie))
	c.SetCookie(p.Expire(RefreshCookie))
}

// TokenDigest is the form a refresh token is persisted in.
func TokenDigest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func NewJTI() string { return uuid.NewString() }

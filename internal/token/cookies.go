package token

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkarev/surrealsession/internal/config"
)

// Cookie names.
const (
	AccessCookie  = "surrealToken" // readable by client code (non-HttpOnly)
	RefreshCookie = "refresh"      // HttpOnly (server-only)
)

// Store abstracts cookie I/O so the issuer and session manager can run
// against a live HTTP exchange or an in-memory jar in tests.
type Store interface {
	Get(name string) (string, bool)
	Set(c *http.Cookie)
}

// RequestStore binds a Store to one HTTP exchange. Reads consult cookies
// written during the same exchange before falling back to the request, so
// a token persisted by the issuer is immediately visible to later steps.
type RequestStore struct {
	w       http.ResponseWriter
	r       *http.Request
	written map[string]*http.Cookie
}

func NewRequestStore(w http.ResponseWriter, r *http.Request) *RequestStore {
	return &RequestStore{w: w, r: r, written: make(map[string]*http.Cookie)}
}

func (s *RequestStore) Get(name string) (string, bool) {
	if c, ok := s.written[name]; ok {
		if c.MaxAge < 0 || c.Value == "" {
			return "", false
		}
		return c.Value, true
	}
	c, err := s.r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func (s *RequestStore) Set(c *http.Cookie) {
	http.SetCookie(s.w, c)
	s.written[c.Name] = c
}

// Cookies applies the auth cookie policies on top of a Store: expirations
// derived from the token itself where possible, conservative defaults
// otherwise.
type Cookies struct {
	store      Store
	production bool
	accessTTL  time.Duration
	refreshTTL time.Duration

	now func() time.Time
}

func NewCookies(cfg *config.Config, store Store) *Cookies {
	return &Cookies{
		store:      store,
		production: cfg.Production,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		now:        time.Now,
	}
}

// Token returns the current access token, or "" when absent.
func (c *Cookies) Token() string {
	v, _ := c.store.Get(AccessCookie)
	return v
}

// Refresh returns the current refresh secret, or "" when absent.
func (c *Cookies) Refresh() string {
	v, _ := c.store.Get(RefreshCookie)
	return v
}

// SetAccessCookie persists the access token. Max-age comes from the token's
// exp claim when it decodes as a JWT, with the configured default otherwise.
func (c *Cookies) SetAccessCookie(token string) {
	c.set(AccessCookie, token, false, c.maxAge(token, c.accessTTL))
}

// SetRefreshCookie persists the refresh secret server-side only. Opaque
// (non-JWT) secrets keep the conservative default lifetime.
func (c *Cookies) SetRefreshCookie(secret string) {
	c.set(RefreshCookie, secret, true, c.maxAge(secret, c.refreshTTL))
}

// ClearAuthCookies overwrites both cookies with an empty value and zero
// lifetime. Each clear stands on its own; cookie writes cannot fail here,
// and a malformed previous value never blocks clearing the other cookie.
func (c *Cookies) ClearAuthCookies() {
	c.set(AccessCookie, "", false, -1)
	c.set(RefreshCookie, "", true, -1)
}

func (c *Cookies) set(name, value string, httpOnly bool, maxAge int) {
	c.store.Set(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: httpOnly,
		Secure:   c.production,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// maxAge derives the cookie lifetime in seconds from the value's exp claim.
// Non-JWT values and claims without exp fall back to the given default; a
// decodable expiry is floored at one second so the cookie is never persisted
// with a non-positive lifetime.
func (c *Cookies) maxAge(raw string, fallback time.Duration) int {
	maxAge := int(fallback.Seconds())

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return maxAge
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return maxAge
	}

	seconds := int(exp.Time.Sub(c.now()).Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}

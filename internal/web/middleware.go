package web

import (
	"net/http"
	"strings"

	"github.com/mkarev/surrealsession/internal/token"
)

const (
	landingPath   = "/"
	dashboardPath = "/dashboard"
)

// publicPaths bypass the session check entirely.
var publicPaths = map[string]struct{}{
	landingPath: {},
	"/login":    {},
	"/api/auth": {},
	"/metrics":  {},
}

// Protect enforces the route-protection contract on the access cookie:
// a protected path without a session token redirects to the landing page,
// and the landing page with a token redirects into the authenticated area.
// Asset-like paths (anything with a file extension) pass through.
func Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if strings.Contains(path, ".") {
			next.ServeHTTP(w, r)
			return
		}

		_, isPublic := publicPaths[path]

		hasToken := false
		if c, err := r.Cookie(token.AccessCookie); err == nil && c.Value != "" {
			hasToken = true
		}

		if !isPublic && !hasToken {
			http.Redirect(w, r, landingPath, http.StatusTemporaryRedirect)
			return
		}
		if path == landingPath && hasToken {
			http.Redirect(w, r, dashboardPath, http.StatusTemporaryRedirect)
			return
		}

		next.ServeHTTP(w, r)
	})
}

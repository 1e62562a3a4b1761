package web

import (
	"context"
	"html/template"
	"net/http"

	"github.com/mkarev/surrealsession/internal/cache"
	"github.com/mkarev/surrealsession/internal/config"
	"github.com/mkarev/surrealsession/internal/logging"
	"github.com/mkarev/surrealsession/internal/metrics"
	"github.com/mkarev/surrealsession/internal/session"
	"github.com/mkarev/surrealsession/internal/surreal"
	"github.com/mkarev/surrealsession/internal/token"
)

var loginTmpl = template.Must(template.New("login").Parse(`<!doctype html>
<html><body>
<h1>Sign in</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{if .Notice}}<p class="notice">{{.Notice}}</p>{{end}}
<form method="post" action="/login">
  <input type="email" name="email" placeholder="email" required>
  <input type="password" name="password" placeholder="password" required>
  <button type="submit">Sign in</button>
</form>
</body></html>`))

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!doctype html>
<html><body>
<h1>Dashboard</h1>
<p>Session is live.</p>
<form method="post" action="/logout"><button type="submit">Log out</button></form>
</body></html>`))

type loginView struct {
	Error  string
	Notice string
}

// Handler serves the minimal UI surfaces that exercise the session facade.
type Handler struct {
	cfg     *config.Config
	issuer  *token.Issuer
	queries *cache.Cache
	log     logging.Logger
	m       *metrics.Metrics

	// newTransport creates the per-mount connection handle.
	newTransport func() surreal.Transport
}

func NewHandler(cfg *config.Config, issuer *token.Issuer, queries *cache.Cache, log logging.Logger, m *metrics.Metrics, newTransport func() surreal.Transport) *Handler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Handler{
		cfg:          cfg,
		issuer:       issuer,
		queries:      queries,
		log:          log,
		m:            m,
		newTransport: newTransport,
	}
}

// Routes wires the handlers behind the route guard.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleLanding)
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("GET /dashboard", h.handleDashboard)
	mux.HandleFunc("POST /logout", h.handleLogout)
	mux.Handle("GET /metrics", h.m.Handler())
	return Protect(mux)
}

// mount creates the session manager for one request, bound to that
// request's cookies and origin headers.
func (h *Handler) mount(w http.ResponseWriter, r *http.Request) *session.Manager {
	cookies := token.NewCookies(h.cfg, token.NewRequestStore(w, r))
	bound := h.issuer.Bind(cookies, token.RequestInfoFromHTTP(r))
	return session.NewManager(h.cfg, h.newTransport(), bound, h.log, h.m, h.queries)
}

// handleLanding auto-connects before rendering: a visitor whose access
// cookie expired but whose refresh secret is still live gets a new token
// issued and lands on the dashboard without retyping a password.
func (h *Handler) handleLanding(w http.ResponseWriter, r *http.Request) {
	m := h.mount(w, r)
	defer m.Close()

	st, err := m.Connect(r.Context(), "", "")
	switch st {
	case session.StateAuthenticated:
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
	case session.StateUnauthenticated:
		h.render(w, loginTmpl, loginView{})
	default:
		h.log.Error(r.Context(), "landing connect failed", "err", err)
		w.WriteHeader(http.StatusBadGateway)
		h.render(w, loginTmpl, loginView{Error: "Connection failed. Please try again."})
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	m := h.mount(w, r)
	defer m.Close()

	st, err := m.Connect(r.Context(), email, password)
	switch st {
	case session.StateAuthenticated:
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
	case session.StateUnauthenticated:
		// Expected outcome for bad credentials: back to the form, no
		// error banner.
		h.render(w, loginTmpl, loginView{Notice: "Sign in to continue."})
	default:
		h.log.Error(r.Context(), "login connect failed", "err", err)
		w.WriteHeader(http.StatusBadGateway)
		h.render(w, loginTmpl, loginView{Error: "Connection failed. Please try again."})
	}
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	m := h.mount(w, r)
	defer m.Close()

	st, err := m.Connect(r.Context(), "", "")
	switch st {
	case session.StateAuthenticated:
		h.render(w, dashboardTmpl, nil)
	case session.StateUnauthenticated:
		http.Redirect(w, r, landingPath, http.StatusSeeOther)
	default:
		h.log.Error(r.Context(), "dashboard connect failed", "err", err)
		http.Error(w, "connection failed", http.StatusBadGateway)
	}
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	m := h.mount(w, r)

	// A per-request handle starts disconnected, and the remote invalidate
	// only works on a live authenticated session. Connect is best-effort
	// here, like every other teardown step.
	if _, err := m.Connect(r.Context(), "", ""); err != nil {
		h.log.Warn(r.Context(), "logout connect failed", "err", err)
	}
	m.Logout(r.Context())

	// Navigation runs last, unconditionally.
	http.Redirect(w, r, landingPath, http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, tmpl *template.Template, data any) {
	if err := tmpl.Execute(w, data); err != nil {
		h.log.Error(context.Background(), "template render failed", "err", err)
	}
}

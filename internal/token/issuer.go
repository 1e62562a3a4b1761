package token

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/mkarev/surrealsession/internal/common"
	"github.com/mkarev/surrealsession/internal/config"
	"github.com/mkarev/surrealsession/internal/logging"
	"github.com/mkarev/surrealsession/internal/metrics"
)

// Access method sent to the signin endpoint.
const scopeClient = "client"

// Result is the uniform outcome shape shared by every issuance strategy.
type Result struct {
	Success bool
	Token   string
}

type signinRequest struct {
	NS      string `json:"NS"`
	DB      string `json:"DB"`
	AC      string `json:"AC"`
	Refresh string `json:"refresh,omitempty"`
	Email   string `json:"email,omitempty"`
	Code    string `json:"code,omitempty"`
}

type signinResponse struct {
	Token   string `json:"token"`
	Refresh string `json:"refresh,omitempty"`
}

// Issuer exchanges a stored refresh secret or user credentials for a fresh
// token pair at the remote signin endpoint and persists the pair through a
// Cookies adapter.
type Issuer struct {
	cfg       *config.Config
	guard     *OriginGuard
	httpc     *http.Client
	signinURL string
	log       logging.Logger
	m         *metrics.Metrics
}

func NewIssuer(cfg *config.Config, log logging.Logger, m *metrics.Metrics) *Issuer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Issuer{
		cfg:       cfg,
		guard:     NewOriginGuard(cfg.AppOrigin),
		httpc:     &http.Client{Timeout: cfg.SigninTimeout},
		signinURL: cfg.SigninURL(),
		log:       log,
		m:         m,
	}
}

// Authenticate runs the issuance strategies in order: a signin carrying the
// stored refresh secret first, then a credential signin when an email and
// password were supplied. A failed strategy is not an error; control falls
// through to the next one. When no strategy produces a token, both session
// cookies are cleared and common.ErrNoSession is returned so the caller can
// resolve the attempt as "must re-authenticate interactively".
//
// On success the new access token is persisted, and a rotated refresh
// secret, when the endpoint returns one, replaces the stored secret.
func (i *Issuer) Authenticate(ctx context.Context, cookies *Cookies, info RequestInfo, email, password string) (Result, error) {
	if err := i.guard.Check(info); err != nil {
		return Result{}, err
	}

	refresh := cookies.Refresh()

	strategies := []struct {
		name    string
		enabled bool
		body    signinRequest
	}{
		{
			name:    "refresh",
			enabled: refresh != "",
			body:    signinRequest{NS: i.cfg.Namespace, DB: i.cfg.Database, AC: scopeClient, Refresh: refresh},
		},
		{
			name:    "credentials",
			enabled: email != "" && password != "",
			body:    signinRequest{NS: i.cfg.Namespace, DB: i.cfg.Database, AC: scopeClient, Email: email, Code: password},
		},
	}

	for _, s := range strategies {
		if !s.enabled {
			continue
		}
		resp, ok := i.signin(ctx, s.body)
		if !ok {
			i.m.ObserveIssuance(s.name, "failure")
			i.log.Debug(ctx, "signin strategy failed", "strategy", s.name)
			continue
		}

		cookies.SetAccessCookie(resp.Token)
		if resp.Refresh != "" {
			cookies.SetRefreshCookie(resp.Refresh)
		}
		i.m.ObserveIssuance(s.name, "success")
		return Result{Success: true, Token: resp.Token}, nil
	}

	cookies.ClearAuthCookies()
	return Result{}, common.ErrNoSession
}

// Invalidate re-runs the origin guard and clears both session cookies.
// Idempotent: safe to call with no active session.
func (i *Issuer) Invalidate(ctx context.Context, cookies *Cookies, info RequestInfo) error {
	if err := i.guard.Check(info); err != nil {
		return err
	}
	cookies.ClearAuthCookies()
	return nil
}

// signin performs one POST against the signin endpoint. Any failure —
// transport error, non-2xx status, undecodable or empty response — means
// "this path did not work" and is reported as ok=false, never as an error.
func (i *Issuer) signin(ctx context.Context, body signinRequest) (signinResponse, bool) {
	var out signinResponse

	data, err := json.Marshal(body)
	if err != nil {
		return out, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.signinURL, bytes.NewReader(data))
	if err != nil {
		return out, false
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.httpc.Do(req)
	if err != nil {
		i.log.Warn(ctx, "signin request failed", "err", err)
		return out, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return out, false
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		i.log.Warn(ctx, "undecodable signin response", "err", err)
		return out, false
	}
	if out.Token == "" {
		return out, false
	}
	return out, true
}

// Bound ties an Issuer to one request's cookie store and origin headers so
// the session manager can drive issuance without knowing about HTTP.
type Bound struct {
	issuer  *Issuer
	cookies *Cookies
	info    RequestInfo
}

func (i *Issuer) Bind(cookies *Cookies, info RequestInfo) *Bound {
	return &Bound{issuer: i, cookies: cookies, info: info}
}

// Token returns the current access token from the cookie store.
func (b *Bound) Token() string {
	return b.cookies.Token()
}

func (b *Bound) Authenticate(ctx context.Context, email, password string) (Result, error) {
	return b.issuer.Authenticate(ctx, b.cookies, b.info, email, password)
}

func (b *Bound) Invalidate(ctx context.Context) error {
	return b.issuer.Invalidate(ctx, b.cookies, b.info)
}

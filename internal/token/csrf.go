package token

import (
	"net/http"
	"strings"

	"github.com/mkarev/surrealsession/internal/common"
)

// RequestInfo carries the origin headers of the triggering request for the
// CSRF guard.
type RequestInfo struct {
	Origin  string
	Referer string
}

// RequestInfoFromHTTP extracts the guard-relevant headers from a request.
func RequestInfoFromHTTP(r *http.Request) RequestInfo {
	return RequestInfo{
		Origin:  r.Header.Get("Origin"),
		Referer: r.Header.Get("Referer"),
	}
}

// OriginGuard rejects state-changing auth calls whose Origin/Referer does
// not match the configured allow-list. An empty allow-list disables the
// guard entirely (explicit opt-out).
type OriginGuard struct {
	allowed string
}

func NewOriginGuard(allowed string) *OriginGuard {
	return &OriginGuard{allowed: allowed}
}

// Check returns common.ErrCrossOrigin unless the Origin matches exactly or
// the Referer carries the allowed origin as a prefix.
func (g *OriginGuard) Check(info RequestInfo) error {
	if g.allowed == "" {
		return nil
	}
	if info.Origin != "" && info.Origin == g.allowed {
		return nil
	}
	if info.Referer != "" && strings.HasPrefix(info.Referer, g.allowed) {
		return nil
	}
	return common.ErrCrossOrigin
}

package token

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarev/surrealsession/internal/common"
	"github.com/mkarev/surrealsession/internal/config"
)

/*************
 * Fake signin endpoint
 *************/

type fakeSignin struct {
	// inputs captured
	requests []signinRequest

	// outputs preset, keyed by flow
	refreshStatus int
	refreshResp   signinResponse

	credentialStatus int
	credentialResp   signinResponse
}

func (f *fakeSignin) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.requests = append(f.requests, req)

		status, resp := f.credentialStatus, f.credentialResp
		if req.Refresh != "" {
			status, resp = f.refreshStatus, f.refreshResp
		}
		if status == 0 {
			status = http.StatusUnauthorized
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			_ = json.NewEncoder(w).Encode(resp)
		}
	}
}

func newTestIssuer(t *testing.T, f *fakeSignin, cfg *config.Config) (*Issuer, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	i := NewIssuer(cfg, nil, nil)
	i.signinURL = srv.URL
	i.httpc = srv.Client()
	return i, srv
}

/*************
 * Authenticate
 *************/

func TestAuthenticate_RefreshFlowSucceedsWithoutCredentialRequest(t *testing.T) {
	f := &fakeSignin{
		refreshStatus: http.StatusOK,
		refreshResp:   signinResponse{Token: "T1"},
	}
	i, _ := newTestIssuer(t, f, testConfig())

	store := newMemStore()
	cookies := newTestCookies(store)
	cookies.SetRefreshCookie("R1")

	res, err := i.Authenticate(context.Background(), cookies, RequestInfo{}, "", "")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "T1", res.Token)
	assert.Equal(t, "T1", cookies.Token())

	require.Len(t, f.requests, 1)
	req := f.requests[0]
	assert.Equal(t, "app", req.NS)
	assert.Equal(t, "main", req.DB)
	assert.Equal(t, "client", req.AC)
	assert.Equal(t, "R1", req.Refresh)
	assert.Empty(t, req.Email)
}

func TestAuthenticate_RefreshRotationPersistsNewSecret(t *testing.T) {
	f := &fakeSignin{
		refreshStatus: http.StatusOK,
		refreshResp:   signinResponse{Token: "T1", Refresh: "R2"},
	}
	i, _ := newTestIssuer(t, f, testConfig())

	store := newMemStore()
	cookies := newTestCookies(store)
	cookies.SetRefreshCookie("R1")

	_, err := i.Authenticate(context.Background(), cookies, RequestInfo{}, "", "")
	require.NoError(t, err)
	assert.Equal(t, "R2", cookies.Refresh())
}

func TestAuthenticate_StaleRefreshFallsThroughToCredentials(t *testing.T) {
	f := &fakeSignin{
		refreshStatus:    http.StatusUnauthorized,
		credentialStatus: http.StatusOK,
		credentialResp:   signinResponse{Token: "T2"},
	}
	i, _ := newTestIssuer(t, f, testConfig())

	store := newMemStore()
	cookies := newTestCookies(store)
	cookies.SetRefreshCookie("stale")

	res, err := i.Authenticate(context.Background(), cookies, RequestInfo{}, "a@b.com", "pw")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "T2", cookies.Token())

	require.Len(t, f.requests, 2)
	cred := f.requests[1]
	assert.Equal(t, "a@b.com", cred.Email)
	assert.Equal(t, "pw", cred.Code)
	assert.Empty(t, cred.Refresh)
}

func TestAuthenticate_NoRefreshNoCredentials_ClearsAndReportsNoSession(t *testing.T) {
	f := &fakeSignin{}
	i, _ := newTestIssuer(t, f, testConfig())

	store := newMemStore()
	cookies := newTestCookies(store)
	cookies.SetAccessCookie("leftover")

	_, err := i.Authenticate(context.Background(), cookies, RequestInfo{}, "", "")
	require.ErrorIs(t, err, common.ErrNoSession)

	assert.Empty(t, f.requests, "no signin request may be sent without a refresh secret or credentials")
	assert.Equal(t, "", cookies.Token())
	assert.Equal(t, "", cookies.Refresh())
}

func TestAuthenticate_BothFlowsRejected_ClearsAndReportsNoSession(t *testing.T) {
	f := &fakeSignin{
		refreshStatus:    http.StatusUnauthorized,
		credentialStatus: http.StatusUnauthorized,
	}
	i, _ := newTestIssuer(t, f, testConfig())

	store := newMemStore()
	cookies := newTestCookies(store)
	cookies.SetRefreshCookie("R1")

	_, err := i.Authenticate(context.Background(), cookies, RequestInfo{}, "a@b.com", "pw")
	require.ErrorIs(t, err, common.ErrNoSession)
	require.Len(t, f.requests, 2)
	assert.Equal(t, "", cookies.Refresh())
}

func TestAuthenticate_CrossOriginRejectedBeforeAnyNetworkCall(t *testing.T) {
	f := &fakeSignin{
		refreshStatus: http.StatusOK,
		refreshResp:   signinResponse{Token: "T1"},
	}
	cfg := testConfig()
	cfg.AppOrigin = "https://app.example.com"
	i, _ := newTestIssuer(t, f, cfg)

	store := newMemStore()
	cookies := newTestCookies(store)
	cookies.SetRefreshCookie("R1")

	_, err := i.Authenticate(context.Background(), cookies,
		RequestInfo{Origin: "https://evil.example.com"}, "", "")
	require.ErrorIs(t, err, common.ErrCrossOrigin)
	assert.Empty(t, f.requests)
	// Cookies stay untouched; the call itself was rejected, not the session.
	assert.Equal(t, "R1", cookies.Refresh())
}

func TestAuthenticate_EmptyTokenInResponseIsAFailure(t *testing.T) {
	f := &fakeSignin{
		refreshStatus: http.StatusOK,
		refreshResp:   signinResponse{},
	}
	i, _ := newTestIssuer(t, f, testConfig())

	store := newMemStore()
	cookies := newTestCookies(store)
	cookies.SetRefreshCookie("R1")

	_, err := i.Authenticate(context.Background(), cookies, RequestInfo{}, "", "")
	require.ErrorIs(t, err, common.ErrNoSession)
}

/*************
 * Invalidate
 *************/

func TestInvalidate_ClearsCookiesAndIsIdempotent(t *testing.T) {
	i, _ := newTestIssuer(t, &fakeSignin{}, testConfig())

	store := newMemStore()
	cookies := newTestCookies(store)
	cookies.SetAccessCookie("tok")
	cookies.SetRefreshCookie("sec")

	require.NoError(t, i.Invalidate(context.Background(), cookies, RequestInfo{}))
	require.NoError(t, i.Invalidate(context.Background(), cookies, RequestInfo{}))

	assert.Equal(t, "", cookies.Token())
	assert.Equal(t, "", cookies.Refresh())
}

func TestInvalidate_GuardApplies(t *testing.T) {
	cfg := testConfig()
	cfg.AppOrigin = "https://app.example.com"
	i, _ := newTestIssuer(t, &fakeSignin{}, cfg)

	store := newMemStore()
	cookies := newTestCookies(store)
	cookies.SetAccessCookie("tok")

	err := i.Invalidate(context.Background(), cookies, RequestInfo{Origin: "https://evil.example.com"})
	require.ErrorIs(t, err, common.ErrCrossOrigin)
	assert.Equal(t, "tok", cookies.Token())
}

/*************
 * Bound
 *************/

func TestBound_DelegatesToIssuerAndCookies(t *testing.T) {
	f := &fakeSignin{
		refreshStatus: http.StatusOK,
		refreshResp:   signinResponse{Token: "T1"},
	}
	i, _ := newTestIssuer(t, f, testConfig())

	store := newMemStore()
	cookies := newTestCookies(store)
	cookies.SetRefreshCookie("R1")

	b := i.Bind(cookies, RequestInfo{})
	assert.Equal(t, "", b.Token())

	res, err := b.Authenticate(context.Background(), "", "")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "T1", b.Token())

	require.NoError(t, b.Invalidate(context.Background()))
	assert.Equal(t, "", b.Token())
}

// Package token owns the two browser-facing secrets of a session: the
// short-lived access token and the longer-lived refresh secret.
//
// It persists them as cookies with derived expirations (Cookies), guards
// state-changing calls against cross-site triggering (OriginGuard), and
// exchanges a refresh secret or credentials for fresh tokens at the remote
// signin endpoint (Issuer).
package token

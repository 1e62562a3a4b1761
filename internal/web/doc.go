// Package web contains the HTTP surface around the session facade: the
// cookie-based route guard and the minimal login/dashboard/logout handlers.
// Each request mounts its own session manager, connects, renders, and
// closes on the way out, mirroring the page lifecycle of the browser
// client.
package web

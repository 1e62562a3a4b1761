// Package session owns the live link between a mounted client surface and
// the remote database.
//
// The Manager is a single-owner state machine: one transport handle, one
// attempt at a time, and an attempt counter so that a superseded attempt's
// late completion can never overwrite the status of a newer one. It drives
// the silent reauthentication ladder (cached token, then refresh secret,
// then credentials) and tears the session down deterministically on logout.
package session

// Package surreal implements the client side of the remote database link:
// a JSON-RPC protocol over one WebSocket connection.
//
// The session layer consumes it through the Transport capability set
// (connect, authenticate, close) plus the optional Invalidator; the concrete
// Client binds a namespace/database on connect and routes every call through
// correlation IDs so responses can arrive in any order.
package surreal

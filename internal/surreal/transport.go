package surreal

import (
	"context"
	"fmt"
)

// Params carries the identifiers bound to the connection on connect.
type Params struct {
	Namespace string
	Database  string
}

// Transport is the capability set the session layer requires of the remote
// database client. At most one live connection exists per Transport value;
// Connect on an already-connected transport starts over with a fresh link.
type Transport interface {
	Connect(ctx context.Context, addr string, p Params) error
	Authenticate(ctx context.Context, token string) error
	Close() error
}

// Invalidator is the optional session-invalidation capability. The session
// layer tolerates transports without it.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// RPCError is a protocol-level failure returned by the remote service.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

package surreal

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/mkarev/surrealsession/internal/common"
	"github.com/mkarev/surrealsession/internal/logging"
)

const wsMaxReadBytes = 1 << 20 // 1MiB

type rpcRequest struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Params []any  `json:"params,omitempty"`
}

type rpcResponse struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *RPCError       `json:"error,omitempty"`
}

// Client is the WebSocket implementation of Transport and Invalidator.
//
// One goroutine owns reads from the connection and dispatches responses to
// waiting calls by correlation ID. Calls time out through their context.
type Client struct {
	log logging.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	pending map[string]chan rpcResponse
}

func NewClient(log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Client{log: log}
}

// Connect dials addr and binds the namespace/database. A previous live
// connection is closed first so re-entrant connects always start clean.
func (c *Client) Connect(ctx context.Context, addr string, p Params) error {
	_ = c.Close()

	conn, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	conn.SetReadLimit(wsMaxReadBytes)

	pending := make(map[string]chan rpcResponse)
	c.mu.Lock()
	c.conn = conn
	c.pending = pending
	c.mu.Unlock()

	go c.readLoop(conn, pending)

	if _, err := c.call(ctx, "use", p.Namespace, p.Database); err != nil {
		_ = c.Close()
		return fmt.Errorf("use %s/%s: %w", p.Namespace, p.Database, err)
	}
	return nil
}

// Authenticate binds the connection to the given session token.
func (c *Client) Authenticate(ctx context.Context, token string) error {
	if _, err := c.call(ctx, "authenticate", token); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	return nil
}

// Invalidate drops the authenticated session on the remote side while
// keeping the connection open.
func (c *Client) Invalidate(ctx context.Context) error {
	if _, err := c.call(ctx, "invalidate"); err != nil {
		return fmt.Errorf("invalidate: %w", err)
	}
	return nil
}

// Close tears down the connection. Idempotent; pending calls resolve with
// common.ErrNotConnected once the read loop exits.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	return conn.Close(websocket.StatusNormalClosure, "closing")
}

func (c *Client) call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	c.mu.Lock()
	conn := c.conn
	if conn == nil {
		c.mu.Unlock()
		return nil, common.ErrNotConnected
	}
	pending := c.pending
	id := uuid.NewString()
	ch := make(chan rpcResponse, 1)
	pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(pending, id)
		c.mu.Unlock()
	}()

	data, err := json.Marshal(rpcRequest{ID: id, Method: method, Params: params})
	if err != nil {
		return nil, err
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		return nil, fmt.Errorf("write %s: %w", method, err)
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return nil, common.ErrNotConnected
		}
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// readLoop is the single reader of conn. It runs until the connection
// closes, then fails every call still waiting on this connection's pending
// map. The map is passed in so a re-entrant Connect cannot hand the loop a
// newer connection's calls.
func (c *Client) readLoop(conn *websocket.Conn, pending map[string]chan rpcResponse) {
	for {
		_, data, err := conn.Read(context.Background())
		if err != nil {
			break
		}

		var resp rpcResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			c.log.Warn(context.Background(), "undecodable rpc frame", "err", err)
			continue
		}

		c.mu.Lock()
		ch, ok := pending[resp.ID]
		if ok {
			delete(pending, resp.ID)
		}
		c.mu.Unlock()

		if ok {
			ch <- resp
		}
	}

	c.mu.Lock()
	for id, ch := range pending {
		delete(pending, id)
		close(ch)
	}
	c.mu.Unlock()
}

package wshub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/anoideaopen/mbean/core/routing"
	"github.com/gorilla/websocket"
)

// ErrClosed is returned for requests on a closed client.
var ErrClosed = errors.New("wshub client closed")

// Client sends management requests over one WebSocket connection.
// It is safe for concurrent use.
type Client struct {
	wc *websocket.Conn

	writeMu sync.Mutex

	mu      sync.Mutex
	last    int64
	pending map[string]chan *routing.Response
	err     error // set once the connection is gone

	done chan struct{}
}

// Dial connects to a server handler at url ("ws://host:port/ws").
// dialer may be nil for websocket.DefaultDialer.
func Dial(ctx context.Context, url string, dialer *websocket.Dialer, header http.Header) (*Client, error) {
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	wc, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("wshub dial %s: %w", url, err)
	}

	c := &Client{
		wc:      wc,
		pending: make(map[string]chan *routing.Response),
		done:    make(chan struct{}),
	}
	go c.readAll()

	return c, nil
}

// Do sends req and waits for its response or for ctx to end.
func (c *Client) Do(ctx context.Context, req *routing.Request) (*routing.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	tok, wait, err := c.note()
	if err != nil {
		return nil, err
	}

	if err = c.writeMsg(&Msg{Subj: SubjRoute, Tok: []byte(tok), Raw: raw}); err != nil {
		c.forget(tok)
		return nil, err
	}

	select {
	case resp, ok := <-wait:
		if !ok {
			return nil, c.closedErr()
		}
		return resp, nil
	case <-ctx.Done():
		c.forget(tok)
		return nil, ctx.Err()
	}
}

// Close closes the connection. Pending requests fail with ErrClosed.
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.wc.SetWriteDeadline(time.Now().Add(writeTimeout))
	_ = c.wc.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()

	err := c.wc.Close()
	<-c.done

	return err
}

func (c *Client) note() (string, chan *routing.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return "", nil, c.err
	}

	c.last++
	tok := strconv.FormatInt(c.last, 16)
	wait := make(chan *routing.Response, 1)
	c.pending[tok] = wait

	return tok, wait, nil
}

func (c *Client) forget(tok string) {
	c.mu.Lock()
	delete(c.pending, tok)
	c.mu.Unlock()
}

func (c *Client) closedErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.err
}

func (c *Client) writeMsg(m *Msg) error {
	b := getBuffer()
	defer buffers.Put(b)

	if err := writeMsgTo(b, m); err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.wc.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.wc.WriteMessage(websocket.TextMessage, b.Bytes())
}

func (c *Client) readAll() {
	defer close(c.done)

	for {
		op, r, err := c.wc.NextReader()
		if err != nil {
			c.fail(err)
			return
		}
		if op != websocket.TextMessage {
			continue
		}

		m, err := readMsg(r)
		if err != nil || m.Subj != SubjRoute {
			continue
		}

		resp := new(routing.Response)
		if err = json.Unmarshal(m.Raw, resp); err != nil {
			resp = routing.Failure("", fmt.Errorf("decode response: %w", err))
		}

		c.mu.Lock()
		wait, ok := c.pending[string(m.Tok)]
		delete(c.pending, string(m.Tok))
		c.mu.Unlock()

		if ok {
			wait <- resp
		}
	}
}

// fail closes every pending request after the connection is gone.
func (c *Client) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var cerr *websocket.CloseError
	if errors.As(err, &cerr) || errors.Is(err, net.ErrClosed) {
		c.err = ErrClosed
	} else {
		c.err = fmt.Errorf("%w: %w", ErrClosed, err)
	}

	for tok, wait := range c.pending {
		close(wait)
		delete(c.pending, tok)
	}
}

package wshub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/anoideaopen/mbean/core/routing"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 60 * time.Second
	sendBuffer   = 32
)

var lastConnID atomic.Int64

// Serve returns an HTTP handler upgrading requests to WebSocket connections
// whose mbean.route messages are answered by h. A connection is closed when
// the request context ends, so cancelling the server's base context drops
// every connection.
func Serve(h routing.Handler, log logrus.FieldLogger) http.HandlerFunc {
	upgr := &websocket.Upgrader{}
	return func(w http.ResponseWriter, r *http.Request) {
		wc, err := upgr.Upgrade(w, r, nil)
		if err != nil {
			log.WithError(err).Warn("wshub upgrade failed")
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		stop := context.AfterFunc(ctx, func() { _ = wc.Close() })
		defer stop()

		c := &conn{
			id:   lastConnID.Add(1),
			wc:   wc,
			send: make(chan *Msg, sendBuffer),
		}
		c.log = log.WithFields(logrus.Fields{"conn": c.id, "remote": r.RemoteAddr})
		c.log.Debug("wshub connection opened")

		done := make(chan struct{})
		go func() {
			defer close(done)
			c.write()
		}()

		err = c.serve(ctx, h)
		close(c.send)
		<-done

		if err != nil {
			c.log.WithError(err).Warn("wshub read failed")
		}
		c.log.Debug("wshub connection closed")
	}
}

type conn struct {
	id   int64
	wc   *websocket.Conn
	send chan *Msg
	log  logrus.FieldLogger
}

// serve handles messages until the peer goes away.
func (c *conn) serve(ctx context.Context, h routing.Handler) error {
	for {
		op, r, err := c.wc.NextReader()
		if err != nil {
			var cerr *websocket.CloseError
			if errors.As(err, &cerr) {
				return nil // client disconnected
			}
			return fmt.Errorf("wshub next reader: %w", err)
		}
		if op != websocket.TextMessage {
			return fmt.Errorf("wshub unexpected message type %d", op)
		}

		m, err := readMsg(r)
		if err != nil {
			return fmt.Errorf("wshub msg read failed: %w", err)
		}

		c.send <- c.handle(ctx, h, m)
	}
}

func (c *conn) handle(ctx context.Context, h routing.Handler, m *Msg) *Msg {
	reply := &Msg{Subj: SubjRoute, Tok: m.Tok}

	if m.Subj != SubjRoute {
		reply.Data = routing.Failure("", fmt.Errorf("%w: unknown subject %q", routing.ErrInvalidRequest, m.Subj))
		return reply
	}

	req := new(routing.Request)
	if err := json.Unmarshal(m.Raw, req); err != nil {
		reply.Data = routing.Failure("", fmt.Errorf("%w: %w", routing.ErrInvalidRequest, err))
		return reply
	}

	reply.Data = h.Route(ctx, req)
	return reply
}

func (c *conn) write() {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	defer c.wc.Close()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.wc.SetWriteDeadline(time.Now().Add(writeTimeout))
				_ = c.wc.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.writeMsg(msg); err != nil {
				c.log.WithError(err).Debug("wshub write failed")
				// keep draining so the read loop never blocks
				for range c.send {
				}
				return
			}
		case <-t.C:
			_ = c.wc.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.wc.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				for range c.send {
				}
				return
			}
		}
	}
}

func (c *conn) writeMsg(msg *Msg) error {
	b := getBuffer()
	defer buffers.Put(b)

	if err := writeMsgTo(b, msg); err != nil {
		return err
	}
	_ = c.wc.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.wc.WriteMessage(websocket.TextMessage, b.Bytes())
}

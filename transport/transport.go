// Package transport connects the bot to a referee over a websocket.
//
// Text frames carry protocol lines. Conn adapts the socket to io.Reader and
// io.Writer so the turn loop runs unchanged over stdin/stdout or a socket.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrClosed is returned by Write after the connection has been closed.
var ErrClosed = errors.New("transport closed")

type Options struct {
	HandshakeTimeout time.Duration
	// ReadTimeout bounds the wait for each frame. Zero waits forever.
	ReadTimeout time.Duration
}

type Conn struct {
	ws  *websocket.Conn
	opt Options

	readBuf bytes.Buffer
	readErr error

	mu       sync.Mutex
	writeBuf bytes.Buffer
	closed   bool
}

// Dial connects to a referee at url.
func Dial(ctx context.Context, url string, opt Options) (*Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: opt.HandshakeTimeout}
	ws, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial referee %s: %w", url, err)
	}
	return New(ws, opt), nil
}

// New wraps an established websocket. Either end of a connection can use it.
func New(ws *websocket.Conn, opt Options) *Conn {
	return &Conn{ws: ws, opt: opt}
}

// Read returns protocol text. Every frame is treated as ending a line. A
// normal close from the peer reads as io.EOF.
func (c *Conn) Read(p []byte) (int, error) {
	for c.readBuf.Len() == 0 {
		if c.readErr != nil {
			return 0, c.readErr
		}
		c.fill()
	}
	return c.readBuf.Read(p)
}

func (c *Conn) fill() {
	if c.opt.ReadTimeout > 0 {
		c.ws.SetReadDeadline(time.Now().Add(c.opt.ReadTimeout))
	}
	kind, msg, err := c.ws.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			c.readErr = io.EOF
			return
		}
		c.readErr = fmt.Errorf("read frame: %w", err)
		return
	}
	if kind != websocket.TextMessage {
		return
	}
	c.readBuf.Write(msg)
	if len(msg) > 0 && msg[len(msg)-1] != '\n' {
		c.readBuf.WriteByte('\n')
	}
}

// Write buffers p and sends each completed line as one text frame.
func (c *Conn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrClosed
	}
	c.writeBuf.Write(p)
	for {
		i := bytes.IndexByte(c.writeBuf.Bytes(), '\n')
		if i < 0 {
			return len(p), nil
		}
		line := c.writeBuf.Next(i + 1)
		if err := c.ws.WriteMessage(websocket.TextMessage, line[:i]); err != nil {
			return 0, fmt.Errorf("write frame: %w", err)
		}
	}
}

// Close flushes any unterminated line, says goodbye and closes the socket.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	if c.writeBuf.Len() > 0 {
		errs = append(errs, c.ws.WriteMessage(websocket.TextMessage, c.writeBuf.Bytes()))
		c.writeBuf.Reset()
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		errs = append(errs, err)
	}
	errs = append(errs, c.ws.Close())
	return errors.Join(errs...)
}

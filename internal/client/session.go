package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/basslinehq/bltctl/internal/protocol"
)

var ErrSessionClosed = errors.New("client: session closed")

// Session is a long-lived connection for subscription use. It owns the
// connection and the buffered byte tail between line reads; that buffer is
// single-consumer, so Send and ReceiveLine must not be called concurrently.
// Close is the exception: it may be called from another goroutine to unblock
// a pending read.
type Session struct {
	conn   net.Conn
	reader *bufio.Reader
	cfg    Config

	mu     sync.Mutex
	closed bool
}

// OpenSession dials the endpoint and returns a session that stays open until
// closed by the caller or the peer.
func (c *Client) OpenSession(ctx context.Context) (*Session, error) {
	dialer := net.Dialer{Timeout: c.cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.cfg.Addr())
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", protocol.ErrTransport, c.cfg.Addr(), err)
	}
	return &Session{conn: conn, reader: bufio.NewReader(conn), cfg: c.cfg}, nil
}

// Send writes one command line on the session.
func (s *Session) Send(ctx context.Context, command string) error {
	if s.isClosed() {
		return ErrSessionClosed
	}
	_ = s.conn.SetWriteDeadline(deadlineFor(ctx, s.cfg.WriteTimeout))
	if _, err := s.conn.Write([]byte(command + "\n")); err != nil {
		if s.isClosed() {
			return ErrSessionClosed
		}
		return fmt.Errorf("%w: write: %v", protocol.ErrTransport, err)
	}
	return nil
}

// ReceiveLine blocks until one full line is buffered. A peer close at a line
// boundary is io.EOF; a close with a partial line pending is a transport
// failure. Without a context deadline the read blocks until data arrives,
// the peer closes, or Close is called.
func (s *Session) ReceiveLine(ctx context.Context) (string, error) {
	if s.isClosed() {
		return "", ErrSessionClosed
	}

	var deadline time.Time
	if ctxDeadline, ok := ctx.Deadline(); ok {
		deadline = ctxDeadline
	}
	_ = s.conn.SetReadDeadline(deadline)

	line, err := s.reader.ReadString('\n')
	if err != nil {
		if s.isClosed() {
			return "", ErrSessionClosed
		}
		if errors.Is(err, io.EOF) {
			if line == "" {
				return "", io.EOF
			}
			return "", fmt.Errorf("%w: connection closed mid-line", protocol.ErrTransport)
		}
		return "", fmt.Errorf("%w: read: %v", protocol.ErrTransport, err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Close is idempotent and safe to call while a read is blocked; the blocked
// call returns ErrSessionClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.conn.Close()
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/basslinehq/bltctl/internal/observability"
	"github.com/basslinehq/bltctl/internal/protocol"
)

// ProtoVersion is the tag offered on VERSION exchanges.
const ProtoVersion = "BL/1.0"

// Client issues BL/T exchanges against one endpoint. Each exchange opens and
// closes its own connection, so an idle client holds no server-side state and
// concurrent callers never share a socket.
type Client struct {
	cfg Config
}

func New(cfg Config) *Client {
	return &Client{cfg: cfg.WithDefaults()}
}

func (c *Client) Config() Config {
	return c.cfg
}

// Request performs one exchange: fresh connection, one command line out, the
// first response line back. The connection is closed on every exit path. A
// peer close before any line terminator returns whatever bytes arrived.
func (c *Client) Request(ctx context.Context, command string) (string, error) {
	dialer := net.Dialer{Timeout: c.cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.cfg.Addr())
	if err != nil {
		return "", fmt.Errorf("%w: dial %s: %v", protocol.ErrTransport, c.cfg.Addr(), err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(deadlineFor(ctx, c.cfg.WriteTimeout))
	if _, err := conn.Write([]byte(command + "\n")); err != nil {
		return "", fmt.Errorf("%w: write: %v", protocol.ErrTransport, err)
	}

	_ = conn.SetReadDeadline(deadlineFor(ctx, c.cfg.ReadTimeout))
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: read: %v", protocol.ErrTransport, err)
	}
	return strings.TrimSpace(line), nil
}

// Version negotiates the protocol version and returns the raw response line.
func (c *Client) Version(ctx context.Context) (string, error) {
	start := time.Now()
	line, err := c.Request(ctx, "VERSION "+ProtoVersion)
	if err != nil {
		observability.RecordRequest("version", "transport_error", time.Since(start))
		return "", err
	}
	observability.RecordRequest("version", "ok", time.Since(start))
	return line, nil
}

// Read fetches the value addressed by ref. A successful response without a
// payload reads as null.
func (c *Client) Read(ctx context.Context, ref string) (protocol.Value, error) {
	ref = protocol.ResolveRef(ref)
	frame, err := c.exchange(ctx, "read", "READ "+ref)
	if err != nil {
		return protocol.Value{}, err
	}
	if !frame.HasPayload {
		return protocol.NewNull(), nil
	}
	value, err := protocol.DecodeValue(frame.Payload)
	if err != nil {
		return protocol.Value{}, err
	}
	return value, nil
}

// Write stores value at ref.
func (c *Client) Write(ctx context.Context, ref string, value protocol.Value) error {
	ref = protocol.ResolveRef(ref)
	_, err := c.exchange(ctx, "write", "WRITE "+ref+" "+protocol.EncodeValue(value))
	return err
}

// Info fetches capability metadata for ref. The payload is a JSON object.
func (c *Client) Info(ctx context.Context, ref string) (map[string]any, error) {
	ref = protocol.ResolveRef(ref)
	frame, err := c.exchange(ctx, "info", "INFO "+ref)
	if err != nil {
		return nil, err
	}
	if !frame.HasPayload {
		return nil, fmt.Errorf("%w: empty info payload", protocol.ErrDecode)
	}
	value, err := protocol.DecodeValue(frame.Payload)
	if err != nil {
		return nil, err
	}
	info, ok := value.Structured.(map[string]any)
	if value.Kind != protocol.KindStructured || !ok {
		return nil, fmt.Errorf("%w: info payload is not an object: %q", protocol.ErrDecode, frame.Payload)
	}
	return info, nil
}

// ReadFold reads a fold of foldKind over the given sources.
func (c *Client) ReadFold(ctx context.Context, foldKind string, sources []string) (protocol.Value, error) {
	return c.Read(ctx, protocol.FoldRef(foldKind, sources))
}

// exchange sends one command and classifies the response, folding server
// errors and unrecognized lines into the protocol-error taxonomy.
func (c *Client) exchange(ctx context.Context, op, command string) (protocol.Frame, error) {
	start := time.Now()
	line, err := c.Request(ctx, command)
	if err != nil {
		observability.RecordRequest(op, "transport_error", time.Since(start))
		return protocol.Frame{}, err
	}

	frame := protocol.ParseFrame(line)
	switch frame.Kind {
	case protocol.FrameError:
		observability.RecordRequest(op, "server_error", time.Since(start))
		return protocol.Frame{}, fmt.Errorf("%w: %s", protocol.ErrProtocol, frame.Message)
	case protocol.FrameUnknown:
		observability.RecordRequest(op, "unrecognized", time.Since(start))
		return protocol.Frame{}, fmt.Errorf("%w: unrecognized response line %q", protocol.ErrProtocol, frame.Message)
	}

	observability.RecordRequest(op, "ok", time.Since(start))
	log.Debug().Str("op", op).Str("addr", c.cfg.Addr()).Msg("blt exchange complete")
	return frame, nil
}

// deadlineFor merges a configured timeout with the context deadline, taking
// whichever comes first. Zero means no deadline.
func deadlineFor(ctx context.Context, timeout time.Duration) time.Time {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if ctxDeadline, ok := ctx.Deadline(); ok && (deadline.IsZero() || ctxDeadline.Before(deadline)) {
		deadline = ctxDeadline
	}
	return deadline
}

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/basslinehq/bltctl/internal/observability"
	"github.com/basslinehq/bltctl/internal/protocol"
)

// NotificationKind discriminates subscription push frames.
type NotificationKind int

const (
	// NotificationEvent carries a value change on the subscribed ref.
	NotificationEvent NotificationKind = iota
	// NotificationStream acknowledges stream setup with its id.
	NotificationStream
)

func (k NotificationKind) String() string {
	if k == NotificationStream {
		return "stream"
	}
	return "event"
}

// Notification is one decoded push frame.
type Notification struct {
	Kind     NotificationKind
	StreamID string
	Value    protocol.Value
	HasValue bool
}

// Subscription is a pull-based stream of notifications over one session.
// No frame is read from the transport until Next is called, so backpressure
// follows the consumer's pace. A subscription is single-consumer and not
// restartable; a fresh Subscribe call opens a fresh connection. Close may be
// called from another goroutine to unblock a pending Next.
type Subscription struct {
	sess *Session
	ref  string
	log  zerolog.Logger

	mu  sync.Mutex
	err error
}

// Subscribe opens a session, sends the subscribe command, and returns the
// stream. Nothing is read until the first Next call.
func (c *Client) Subscribe(ctx context.Context, ref string) (*Subscription, error) {
	ref = protocol.ResolveRef(ref)
	sess, err := c.OpenSession(ctx)
	if err != nil {
		return nil, err
	}
	if err := sess.Send(ctx, "SUBSCRIBE "+ref); err != nil {
		_ = sess.Close()
		return nil, err
	}
	sub := &Subscription{
		sess: sess,
		ref:  ref,
		log:  log.With().Str("subscription_id", uuid.NewString()).Str("ref", ref).Logger(),
	}
	sub.log.Debug().Str("addr", c.cfg.Addr()).Msg("subscribed")
	return sub, nil
}

// Ref returns the fully qualified ref this subscription watches.
func (sub *Subscription) Ref() string {
	return sub.ref
}

// Next blocks for the next notification. Termination is terminal: a clean
// peer close returns io.EOF, a server ERROR frame returns the server message
// wrapped in the protocol-error taxonomy, and every later call repeats the
// same result.
func (sub *Subscription) Next(ctx context.Context) (Notification, error) {
	if err := sub.terminalErr(); err != nil {
		return Notification{}, err
	}

	for {
		line, err := sub.sess.ReceiveLine(ctx)
		if err != nil {
			sub.terminate(err)
			return Notification{}, sub.terminalErr()
		}

		frame := protocol.ParseFrame(line)
		switch frame.Kind {
		case protocol.FrameEvent:
			n := Notification{Kind: NotificationEvent, StreamID: frame.StreamID}
			if frame.HasPayload {
				value, err := protocol.DecodeValue(frame.Payload)
				if err != nil {
					sub.terminate(err)
					return Notification{}, err
				}
				n.Value = value
				n.HasValue = true
			}
			observability.RecordSubscriptionFrame("event")
			return n, nil

		case protocol.FrameStreamAck:
			observability.RecordSubscriptionFrame("stream")
			return Notification{Kind: NotificationStream, StreamID: frame.StreamID}, nil

		case protocol.FrameError:
			err := fmt.Errorf("%w: %s", protocol.ErrProtocol, frame.Message)
			sub.terminate(err)
			return Notification{}, err

		case protocol.FrameUnknown:
			err := fmt.Errorf("%w: unrecognized push frame %q", protocol.ErrProtocol, frame.Message)
			sub.terminate(err)
			return Notification{}, err

		default:
			// OK frames on a subscription are setup acknowledgements with
			// nothing to deliver; keep pulling.
			sub.log.Debug().Str("line", line).Msg("skipping non-push frame")
		}
	}
}

// Close tears the session down, unblocking a pending Next. Idempotent; a
// subscription that already terminated keeps its terminal state.
func (sub *Subscription) Close() error {
	err := sub.sess.Close()
	sub.setTerminal(ErrSessionClosed)
	return err
}

func (sub *Subscription) terminate(err error) {
	sub.setTerminal(err)
	_ = sub.sess.Close()
	if !errors.Is(err, io.EOF) && !errors.Is(err, ErrSessionClosed) {
		sub.log.Debug().Err(err).Msg("subscription terminated")
	}
}

// setTerminal records the first terminal state; later ones are ignored.
func (sub *Subscription) setTerminal(err error) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.err == nil {
		sub.err = err
	}
}

func (sub *Subscription) terminalErr() error {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return sub.err
}

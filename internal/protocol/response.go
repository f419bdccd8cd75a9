package protocol

import "strings"

// FrameKind discriminates one parsed response line.
type FrameKind int

const (
	FrameOK FrameKind = iota
	FrameError
	FrameEvent
	FrameStreamAck
	FrameUnknown
)

// Frame is one classified response line.
type Frame struct {
	Kind FrameKind

	// Payload/HasPayload carry the OK or EVENT payload token.
	Payload    string
	HasPayload bool

	// VersionTag is the trailing @<tag> stripped from an OK payload. Opaque.
	VersionTag string

	// StreamID identifies the subscription stream on EVENT/STREAM frames.
	StreamID string

	// Message carries the ERROR text, or the raw line for unknown frames.
	Message string
}

// ParseFrame classifies one already-delimited response line. It keeps no
// state across calls; line framing belongs to the transport layer.
//
// Lines matching no known prefix come back as FrameUnknown and are folded
// into the protocol-error taxonomy by callers.
func ParseFrame(line string) Frame {
	switch {
	case strings.HasPrefix(line, "OK"):
		f := Frame{Kind: FrameOK}
		if len(line) > 3 {
			payload := strings.TrimSpace(line[3:])
			if idx := strings.LastIndex(payload, " @"); idx >= 0 {
				f.VersionTag = payload[idx+2:]
				payload = payload[:idx]
			}
			if payload != "" {
				f.Payload = payload
				f.HasPayload = true
			}
		}
		return f

	case strings.HasPrefix(line, "ERROR"):
		f := Frame{Kind: FrameError}
		if len(line) > 6 {
			f.Message = strings.TrimSpace(line[6:])
		}
		return f

	case strings.HasPrefix(line, "EVENT"):
		// Cap the split at three fields: the payload may itself contain
		// whitespace and must not be tokenized.
		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 2 || parts[1] == "" {
			return Frame{Kind: FrameUnknown, Message: line}
		}
		f := Frame{Kind: FrameEvent, StreamID: parts[1]}
		if len(parts) == 3 {
			f.Payload = parts[2]
			f.HasPayload = true
		}
		return f

	case strings.HasPrefix(line, "STREAM"):
		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 2 || parts[1] == "" {
			return Frame{Kind: FrameUnknown, Message: line}
		}
		return Frame{Kind: FrameStreamAck, StreamID: parts[1]}
	}

	return Frame{Kind: FrameUnknown, Message: line}
}

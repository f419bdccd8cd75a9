package protocol

import "errors"

var (
	// ErrTransport covers connection, write, and read failures.
	ErrTransport = errors.New("protocol: transport failure")
	// ErrProtocol covers server-reported errors and unrecognized response lines.
	ErrProtocol = errors.New("protocol: server error")
	// ErrDecode covers malformed structured payloads on the client side.
	ErrDecode = errors.New("protocol: decode failure")
)

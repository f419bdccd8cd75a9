// Package httpbind is the alternate request/response binding for read and
// write. The ref's kind/name path maps to a resource path and the value rides
// in the body: JSON for structured values, the literal token text otherwise.
// It reuses the protocol value codec and ref resolution; there is no
// subscription support on this binding.
package httpbind

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/basslinehq/bltctl/internal/protocol"
)

// Client talks to one BL/T HTTP endpoint. The bearer token is optional.
type Client struct {
	base  string
	token string
	httpc *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		token: token,
		httpc: http.DefaultClient,
	}
}

// Read fetches the value at ref via GET.
func (c *Client) Read(ctx context.Context, ref string) (protocol.Value, error) {
	body, err := c.do(ctx, http.MethodGet, ref, nil, "")
	if err != nil {
		return protocol.Value{}, err
	}
	return protocol.DecodeValue(strings.TrimSpace(string(body)))
}

// Write stores value at ref via PUT. Structured values go out as JSON with
// the matching content type; everything else is the literal token text.
func (c *Client) Write(ctx context.Context, ref string, value protocol.Value) error {
	var payload []byte
	contentType := ""
	if value.Kind == protocol.KindStructured {
		encoded, err := json.Marshal(value.Structured)
		if err != nil {
			return fmt.Errorf("%w: marshal structured value: %v", protocol.ErrDecode, err)
		}
		payload = encoded
		contentType = "application/json"
	} else {
		payload = []byte(value.String())
	}
	_, err := c.do(ctx, http.MethodPut, ref, payload, contentType)
	return err
}

func (c *Client) do(ctx context.Context, method, ref string, body []byte, contentType string) ([]byte, error) {
	url := c.base + "/bl/" + refPath(ref)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", protocol.ErrTransport, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", protocol.ErrTransport, method, url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", protocol.ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: http %d: %s", protocol.ErrProtocol, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	log.Debug().Str("method", method).Str("url", url).Int("status", resp.StatusCode).Msg("blt http exchange complete")
	return respBody, nil
}

// refPath maps a ref to its resource path: the scheme prefix is dropped and
// bare names resolve to cells first.
func refPath(ref string) string {
	ref = protocol.ResolveRef(ref)
	ref = strings.Replace(ref, "bl:///", "", 1)
	return strings.Replace(ref, "bl://", "", 1)
}

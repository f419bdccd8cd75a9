package httpbind

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/basslinehq/bltctl/internal/protocol"
)

func TestReadDecodesPrimitiveBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/bl/cell/counter" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte("42"))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	got, err := c.Read(context.Background(), "counter")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !got.Equal(protocol.NewInt(42)) {
		t.Fatalf("unexpected value: %#v", got)
	}
}

func TestReadDecodesStructuredBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name": "alice", "active": true}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	got, err := c.Read(context.Background(), "user")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := protocol.NewStructured(map[string]any{"name": "alice", "active": true})
	if !got.Equal(want) {
		t.Fatalf("unexpected value: %#v", got)
	}
}

func TestWriteStructuredValueSendsJSON(t *testing.T) {
	var gotBody string
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("unexpected method: %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotContentType = r.Header.Get("Content-Type")
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	err := c.Write(context.Background(), "user", protocol.NewStructured(map[string]any{"name": "alice"}))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if gotBody != `{"name":"alice"}` {
		t.Fatalf("unexpected body: %q", gotBody)
	}
	if gotContentType != "application/json" {
		t.Fatalf("unexpected content type: %q", gotContentType)
	}
}

func TestWritePrimitiveValueSendsLiteralText(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	if err := c.Write(context.Background(), "counter", protocol.NewInt(42)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if gotBody != "42" {
		t.Fatalf("unexpected body: %q", gotBody)
	}
}

func TestBearerTokenHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("null"))
	}))
	defer srv.Close()

	c := New(srv.URL, "my-secret-token")
	if _, err := c.Read(context.Background(), "counter"); err != nil {
		t.Fatalf("read: %v", err)
	}
	if gotAuth != "Bearer my-secret-token" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
}

func TestQualifiedRefMapsToResourcePath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("null"))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	if _, err := c.Read(context.Background(), "bl:///fold/sum?sources=bl:///cell/a"); err != nil {
		t.Fatalf("read: %v", err)
	}
	if gotPath != "/bl/fold/sum" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
}

func TestNonSuccessStatusIsProtocolError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such cell", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Read(context.Background(), "missing")
	if !errors.Is(err, protocol.ErrProtocol) {
		t.Fatalf("expected ErrProtocol, got %v", err)
	}
}

func TestUnreachableEndpointIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL, "")
	_, err := c.Read(context.Background(), "counter")
	if !errors.Is(err, protocol.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

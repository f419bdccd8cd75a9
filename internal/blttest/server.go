// Package blttest provides a scripted in-process BL/T endpoint for tests.
// It is a fixture, not a server implementation: each connection reads one
// command line and plays back whatever the test scripted.
package blttest

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"testing"
)

// Handler services one accepted connection after its command line arrived.
// The connection is closed when the handler returns.
type Handler func(command string, conn net.Conn)

// Server is a loopback listener driving a Handler per connection.
type Server struct {
	lis net.Listener

	mu       sync.Mutex
	commands []string
	wg       sync.WaitGroup
}

// Serve starts a fixture on a loopback port and registers cleanup with t.
func Serve(t *testing.T, handler Handler) *Server {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("blttest: listen: %v", err)
	}
	s := &Server{lis: lis}
	s.wg.Add(1)
	go s.acceptLoop(handler)
	t.Cleanup(s.Close)
	return s
}

// Lines is a handler that answers every command with the given lines and
// closes the connection.
func Lines(lines ...string) Handler {
	return func(_ string, conn net.Conn) {
		w := bufio.NewWriter(conn)
		for _, line := range lines {
			_, _ = w.WriteString(line + "\n")
		}
		_ = w.Flush()
	}
}

// Hang is a handler that writes the given lines and then keeps the
// connection open until the release channel closes.
func Hang(release <-chan struct{}, lines ...string) Handler {
	return func(_ string, conn net.Conn) {
		w := bufio.NewWriter(conn)
		for _, line := range lines {
			_, _ = w.WriteString(line + "\n")
		}
		_ = w.Flush()
		<-release
	}
}

func (s *Server) acceptLoop(handler Handler) {
	defer s.wg.Done()
	for {
		conn, err := s.lis.Accept()
		if err != nil {
			return
		}
		go func() {
			defer conn.Close()
			line, err := bufio.NewReader(conn).ReadString('\n')
			if err != nil {
				return
			}
			command := strings.TrimRight(line, "\r\n")
			s.mu.Lock()
			s.commands = append(s.commands, command)
			s.mu.Unlock()
			handler(command, conn)
		}()
	}
}

// Host and Port locate the fixture for client configs.
func (s *Server) Host() string {
	host, _, _ := net.SplitHostPort(s.lis.Addr().String())
	return host
}

func (s *Server) Port() int {
	return s.lis.Addr().(*net.TCPAddr).Port
}

// Commands returns every command line received so far, in arrival order.
func (s *Server) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.commands))
	copy(out, s.commands)
	return out
}

// Close stops accepting. Handlers still blocked on open connections unwind
// when their connections drop.
func (s *Server) Close() {
	_ = s.lis.Close()
	s.wg.Wait()
}

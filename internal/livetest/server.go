// Package livetest is a canned in-process Livestatus peer for tests.
package livetest

import (
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
)

// Config fixes the canned answer before the server starts.
type Config struct {
	Body    []byte
	Fixed16 bool
	Status  int
}

// Server is a fake Livestatus endpoint on a UNIX or TCP socket.
type Server struct {
	cfg Config
	ln  net.Listener
	dir string

	mu      sync.Mutex
	queries []string

	wg sync.WaitGroup
}

// NewUnix starts a server on a fresh UNIX socket; Close removes it.
func NewUnix(cfg Config) (*Server, error) {
	dir, err := os.MkdirTemp("", "livetest")
	if err != nil {
		return nil, err
	}
	ln, err := net.Listen("unix", filepath.Join(dir, "live"))
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	s := &Server{cfg: cfg, ln: ln, dir: dir}
	s.start()
	return s, nil
}

func NewTCP(cfg Config) (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	s := &Server{cfg: cfg, ln: ln}
	s.start()
	return s, nil
}

func (s *Server) start() {
	s.wg.Add(1)
	go s.serve()
}

// Addr returns the socket path for UNIX servers or host:port for TCP.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

func (s *Server) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

func (s *Server) Close() error {
	err := s.ln.Close()
	s.wg.Wait()
	if s.dir != "" {
		os.RemoveAll(s.dir)
	}
	return err
}

func (s *Server) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(conn)
		}()
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	raw, err := io.ReadAll(conn)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.queries = append(s.queries, string(raw))
	s.mu.Unlock()

	if s.cfg.Fixed16 {
		conn.Write(Frame(s.cfg.Status, s.cfg.Body))
		return
	}
	conn.Write(s.cfg.Body)
}

// Frame wraps a body in a fixed16 header; zero status means 200.
func Frame(status int, body []byte) []byte {
	if status == 0 {
		status = 200
	}
	header := fmt.Sprintf("%3d %11d\n", status, len(body))
	return append([]byte(header), body...)
}

package livestatus

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"
)

// DefaultTimeout applies when a transport's Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Transport carries one rendered query to a Livestatus endpoint. The
// peer answers and closes, so one round trip is one connection.
type Transport interface {
	Name() string
	RoundTrip(ctx context.Context, query []byte) ([]byte, error)
}

type closeWriter interface{ CloseWrite() error }

func exchange(ctx context.Context, conn net.Conn, query []byte, timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}
	if _, err := conn.Write(query); err != nil {
		return nil, fmt.Errorf("write query: %w", err)
	}
	// Half-close marks the request complete; the read then ends at EOF.
	if cw, ok := conn.(closeWriter); ok {
		if err := cw.CloseWrite(); err != nil {
			return nil, fmt.Errorf("close write side: %w", err)
		}
	}
	raw, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return raw, nil
}

// UnixTransport talks to the site socket on the local node.
type UnixTransport struct {
	Path    string
	Timeout time.Duration
}

func (t *UnixTransport) Name() string { return string(SchemeUnix) }

func (t *UnixTransport) RoundTrip(ctx context.Context, query []byte) ([]byte, error) {
	dialer := net.Dialer{Timeout: effectiveTimeout(t.Timeout)}
	conn, err := dialer.DialContext(ctx, "unix", t.Path)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", t.Path, err)
	}
	defer conn.Close()
	return exchange(ctx, conn, query, effectiveTimeout(t.Timeout))
}

// TCPTransport talks to an endpoint published via LIVESTATUS_TCP.
type TCPTransport struct {
	Addr    string
	Timeout time.Duration
}

func (t *TCPTransport) Name() string { return string(SchemeTCP) }

func (t *TCPTransport) RoundTrip(ctx context.Context, query []byte) ([]byte, error) {
	dialer := net.Dialer{Timeout: effectiveTimeout(t.Timeout)}
	conn, err := dialer.DialContext(ctx, "tcp", t.Addr)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", t.Addr, err)
	}
	defer conn.Close()
	return exchange(ctx, conn, query, effectiveTimeout(t.Timeout))
}

func effectiveTimeout(d time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return DefaultTimeout
}

package livestatus

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	SSHModeNative  = "native"
	SSHModeCommand = "command"
)

// Options configure transport construction from a parsed location.
type Options struct {
	Timeout time.Duration

	// SSHMode selects native or command, native when empty.
	SSHMode       string
	SSHKeyFile    string
	SSHKnownHosts string
	SSHInsecure   bool

	// MaxOutput caps command transport responses, 0 means unlimited.
	MaxOutput int
}

func NewTransport(loc *Location, opts Options) (Transport, error) {
	switch loc.Scheme {
	case SchemeUnix:
		return &UnixTransport{Path: loc.Path, Timeout: opts.Timeout}, nil
	case SchemeTCP:
		return &TCPTransport{Addr: loc.Addr, Timeout: opts.Timeout}, nil
	case SchemeSSH:
		if opts.SSHMode == SSHModeCommand {
			return &CommandTransport{
				User:       loc.User,
				Addr:       loc.Addr,
				RemotePath: loc.Path,
				MaxOutput:  opts.MaxOutput,
				Timeout:    opts.Timeout,
			}, nil
		}
		return &SSHTransport{
			User:       loc.User,
			Addr:       loc.Addr,
			RemotePath: loc.Path,
			KeyFile:    opts.SSHKeyFile,
			KnownHosts: opts.SSHKnownHosts,
			Insecure:   opts.SSHInsecure,
			Timeout:    opts.Timeout,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported scheme %q", loc.Scheme)
	}
}

// Client executes queries against a single Livestatus endpoint.
type Client struct {
	transport Transport
	logger    *slog.Logger
}

func NewClient(transport Transport) *Client {
	return &Client{transport: transport, logger: slog.Default()}
}

func Dial(location string, opts Options) (*Client, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	transport, err := NewTransport(loc, opts)
	if err != nil {
		return nil, err
	}
	return NewClient(transport), nil
}

func (c *Client) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Do runs one query and returns the validated response.
func (c *Client) Do(ctx context.Context, q *Query) (*Response, error) {
	rendered := q.Render()
	c.logger.Debug("query_start",
		"table", q.Table,
		"transport", c.transport.Name(),
		"request_bytes", len(rendered))

	start := time.Now()
	raw, err := c.transport.RoundTrip(ctx, []byte(rendered))
	if err != nil {
		return nil, fmt.Errorf("query %s via %s: %w", q.Table, c.transport.Name(), err)
	}

	var resp *Response
	if q.Fixed16 {
		resp, err = ParseFixed16(raw)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", q.Table, err)
		}
	} else {
		resp = ParseRaw(raw)
	}
	c.logger.Debug("query_done",
		"table", q.Table,
		"response_bytes", len(resp.Body),
		"elapsed", time.Since(start))
	return resp, nil
}

func (c *Client) Hosts(ctx context.Context, filters []string, limit int) ([]HostRow, error) {
	q := NewHostsQuery()
	q.Filters = filters
	q.Limit = limit
	resp, err := c.Do(ctx, q)
	if err != nil {
		return nil, err
	}
	rows, err := DecodeHostRows(resp, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Table, err)
	}
	return rows, nil
}

func (c *Client) Hostgroups(ctx context.Context) ([]GroupRow, error) {
	q := NewHostgroupsQuery()
	resp, err := c.Do(ctx, q)
	if err != nil {
		return nil, err
	}
	rows, err := DecodeGroupRows(resp, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Table, err)
	}
	return rows, nil
}

// Status fetches core version information from the endpoint.
func (c *Client) Status(ctx context.Context) (*StatusRow, error) {
	q := NewStatusQuery()
	resp, err := c.Do(ctx, q)
	if err != nil {
		return nil, err
	}
	row, err := DecodeStatus(resp)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Table, err)
	}
	return row, nil
}

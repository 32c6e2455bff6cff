package livestatus

import (
	"fmt"
	"strings"
)

type Scheme string

const (
	SchemeUnix Scheme = "unix"
	SchemeTCP  Scheme = "tcp"
	SchemeSSH  Scheme = "ssh"
)

// Location is a parsed Livestatus endpoint.
type Location struct {
	Scheme Scheme
	Path   string
	Addr   string
	User   string
}

func (l *Location) String() string {
	switch l.Scheme {
	case SchemeTCP:
		return l.Addr
	case SchemeSSH:
		if l.User != "" {
			return fmt.Sprintf("ssh://%s@%s%s", l.User, l.Addr, sshPathSuffix(l.Path))
		}
		return fmt.Sprintf("ssh://%s%s", l.Addr, sshPathSuffix(l.Path))
	default:
		return l.Path
	}
}

func sshPathSuffix(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}

// ParseLocation turns a socket argument into a Location. Absolute paths
// are UNIX sockets, colons included. Other values with a colon are TCP
// host:port pairs, and ssh:// URLs select the SSH scheme.
func ParseLocation(raw string) (*Location, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty socket location")
	}
	if strings.HasPrefix(raw, "ssh://") {
		return ParseSSHLocation(strings.TrimPrefix(raw, "ssh://"))
	}
	if !strings.HasPrefix(raw, "/") && strings.Contains(raw, ":") {
		host, port, ok := strings.Cut(raw, ":")
		if !ok || host == "" || port == "" {
			return nil, fmt.Errorf("invalid tcp address %q", raw)
		}
		return &Location{Scheme: SchemeTCP, Addr: raw}, nil
	}
	return &Location{Scheme: SchemeUnix, Path: raw}, nil
}

// DefaultRemotePath is assumed for ssh locations that name no path.
const DefaultRemotePath = "./tmp/run/live"

// ParseSSHLocation parses "[user@]host[:port][:path]" or the URL form
// "[user@]host[:port]/path".
func ParseSSHLocation(raw string) (*Location, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty ssh location")
	}
	loc := &Location{Scheme: SchemeSSH, Path: DefaultRemotePath}
	rest := raw
	if user, host, ok := strings.Cut(rest, "@"); ok {
		if user == "" {
			return nil, fmt.Errorf("invalid ssh location %q: empty user", raw)
		}
		loc.User = user
		rest = host
	}
	ci := strings.Index(rest, ":")
	si := strings.Index(rest, "/")
	switch {
	case ci == -1 && si == -1:
		loc.Addr = rest
	case ci != -1 && (si == -1 || ci < si):
		// After the colon a numeric segment is a port, anything else a path.
		host := rest[:ci]
		if host == "" {
			return nil, fmt.Errorf("invalid ssh location %q: missing host", raw)
		}
		tail := rest[ci+1:]
		if j := strings.Index(tail, "/"); j > 0 && allDigits(tail[:j]) {
			loc.Addr = host + ":" + tail[:j]
			loc.Path = tail[j:]
		} else if tail != "" && allDigits(tail) {
			loc.Addr = host + ":" + tail
		} else {
			loc.Addr = host
			if tail != "" {
				loc.Path = tail
			}
		}
	default:
		loc.Addr = rest[:si]
		loc.Path = rest[si:]
	}
	if loc.Addr == "" {
		return nil, fmt.Errorf("invalid ssh location %q: missing host", raw)
	}
	return loc, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

package livestatus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os/exec"
	"strings"
	"time"
)

// execCommand is swapped out by tests.
var execCommand = exec.CommandContext

const maxStderrBytes = 16 * 1024

// CommandTransport pipes the query through "ssh ... unixcat", so the
// user's ssh config, agents and jump hosts apply as-is.
type CommandTransport struct {
	User       string
	Addr       string
	RemotePath string
	// Binary overrides the ssh client, "ssh" when empty.
	Binary    string
	MaxOutput int
	Timeout   time.Duration
}

func (t *CommandTransport) Name() string { return "ssh-command" }

func (t *CommandTransport) RoundTrip(ctx context.Context, query []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, effectiveTimeout(t.Timeout))
	defer cancel()

	bin := t.Binary
	if bin == "" {
		bin = "ssh"
	}
	cmd := execCommand(ctx, bin, t.args()...)
	cmd.Stdin = bytes.NewReader(query)
	stdout := &limitedBuffer{limit: t.MaxOutput}
	stderr := &limitedBuffer{limit: maxStderrBytes}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = "no stderr output"
			}
			return nil, fmt.Errorf("%s exited with status %d: %s", bin, exitErr.ExitCode(), msg)
		}
		return nil, fmt.Errorf("run %s: %w", bin, err)
	}
	if stdout.truncated {
		return nil, fmt.Errorf("response exceeds %d bytes", t.MaxOutput)
	}
	return stdout.Bytes(), nil
}

func (t *CommandTransport) args() []string {
	host := t.Addr
	port := ""
	if h, p, err := net.SplitHostPort(t.Addr); err == nil {
		host, port = h, p
	}
	if t.User != "" {
		host = t.User + "@" + host
	}
	// BatchMode keeps a missing key from turning into a password prompt.
	args := []string{
		"-o", "BatchMode=yes",
		"-o", fmt.Sprintf("ConnectTimeout=%d", int(effectiveTimeout(t.Timeout).Seconds())),
	}
	if port != "" {
		args = append(args, "-p", port)
	}
	return append(args, host, "unixcat", t.RemotePath)
}

// limitedBuffer caps subprocess output and remembers whether it was cut.
type limitedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (l *limitedBuffer) Write(p []byte) (int, error) {
	if l.limit <= 0 {
		return l.buf.Write(p)
	}
	remaining := l.limit - l.buf.Len()
	if remaining <= 0 {
		l.truncated = true
		return len(p), nil
	}
	if len(p) > remaining {
		l.truncated = true
		_, _ = l.buf.Write(p[:remaining])
		return len(p), nil
	}
	return l.buf.Write(p)
}

func (l *limitedBuffer) Bytes() []byte  { return l.buf.Bytes() }
func (l *limitedBuffer) String() string { return l.buf.String() }

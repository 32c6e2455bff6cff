package livestatus

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// SSHTransport reaches the remote site socket through a streamlocal
// channel, so nothing has to be installed remotely, not even unixcat.
type SSHTransport struct {
	User string
	Addr string
	// RemotePath resolves against the remote login directory when relative.
	RemotePath string

	// KeyFile is a PEM key; empty means the agent at SSH_AUTH_SOCK.
	KeyFile    string
	KnownHosts string
	Insecure   bool

	Timeout time.Duration
}

func (t *SSHTransport) Name() string { return string(SchemeSSH) }

func (t *SSHTransport) RoundTrip(ctx context.Context, query []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, effectiveTimeout(t.Timeout))
	defer cancel()

	cfg, closeAuth, err := t.clientConfig()
	if err != nil {
		return nil, err
	}
	if closeAuth != nil {
		defer closeAuth.Close()
	}
	addr := t.Addr
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "22")
	}
	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect ssh %s: %w", addr, err)
	}
	defer client.Close()

	// SSH channels have no read deadlines; closing the client unblocks
	// the read when the context runs out.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			client.Close()
		case <-done:
		}
	}()

	conn, err := client.Dial("unix", t.RemotePath)
	if err != nil {
		return nil, fmt.Errorf("open remote socket %s: %w", t.RemotePath, err)
	}
	defer conn.Close()

	if _, err := conn.Write(query); err != nil {
		return nil, fmt.Errorf("write query: %w", err)
	}
	if cw, ok := conn.(closeWriter); ok {
		if err := cw.CloseWrite(); err != nil {
			return nil, fmt.Errorf("close write side: %w", err)
		}
	}
	raw, err := io.ReadAll(conn)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("read response: %w", ctx.Err())
		}
		return nil, fmt.Errorf("read response: %w", err)
	}
	return raw, nil
}

func (t *SSHTransport) clientConfig() (*ssh.ClientConfig, io.Closer, error) {
	login := t.User
	if login == "" {
		u, err := user.Current()
		if err != nil {
			return nil, nil, fmt.Errorf("determine ssh user: %w", err)
		}
		login = u.Username
	}
	auth, closeAuth, err := t.authMethods()
	if err != nil {
		return nil, nil, err
	}
	hostKeys, err := t.hostKeyCallback()
	if err != nil {
		if closeAuth != nil {
			closeAuth.Close()
		}
		return nil, nil, err
	}
	return &ssh.ClientConfig{
		User:            login,
		Auth:            auth,
		HostKeyCallback: hostKeys,
		Timeout:         effectiveTimeout(t.Timeout),
	}, closeAuth, nil
}

// authMethods also hands back the agent connection for cleanup.
func (t *SSHTransport) authMethods() ([]ssh.AuthMethod, io.Closer, error) {
	if t.KeyFile != "" {
		key, err := os.ReadFile(t.KeyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("read ssh key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, nil, fmt.Errorf("parse ssh key %s: %w", t.KeyFile, err)
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil, nil
	}
	sock := os.Getenv("SSH_AUTH_SOCK")
	if sock == "" {
		return nil, nil, fmt.Errorf("no ssh key file configured and no agent at SSH_AUTH_SOCK")
	}
	conn, err := net.Dial("unix", sock)
	if err != nil {
		return nil, nil, fmt.Errorf("connect ssh agent: %w", err)
	}
	return []ssh.AuthMethod{ssh.PublicKeysCallback(agent.NewClient(conn).Signers)}, conn, nil
}

func (t *SSHTransport) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if t.Insecure {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	path := t.KnownHosts
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate known_hosts: %w", err)
		}
		path = filepath.Join(home, ".ssh", "known_hosts")
	}
	cb, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("load known_hosts %s: %w", path, err)
	}
	return cb, nil
}

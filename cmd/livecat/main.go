package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/ahaerpfer/ansible-inventory-omd-livestatus/pkg/env"
	"github.com/ahaerpfer/ansible-inventory-omd-livestatus/pkg/livestatus"
	"github.com/ahaerpfer/ansible-inventory-omd-livestatus/pkg/logging"
	"github.com/ahaerpfer/ansible-inventory-omd-livestatus/pkg/omd"
	"github.com/ahaerpfer/ansible-inventory-omd-livestatus/pkg/version"
)

var (
	socket      string
	sshLoc      string
	query       string
	timeout     time.Duration
	fixed16     bool
	logLevel    string
	showVersion bool
)

func main() {
	pflag.StringVar(&socket, "socket", "", "Livestatus endpoint: UNIX socket path or host:port")
	pflag.StringVar(&sshLoc, "ssh", "", "reach the socket via ssh: [user@]host[:port][:path]")
	pflag.StringVarP(&query, "query", "q", "", "query text (default: read from stdin)")
	pflag.DurationVar(&timeout, "timeout", 10*time.Second, "connect and read timeout")
	pflag.BoolVar(&fixed16, "fixed16", false, "request and strip a fixed16 response header")
	pflag.StringVar(&logLevel, "log-level", "info", "log level")
	pflag.BoolVar(&showVersion, "version", false, "print version and exit")
	pflag.Parse()

	if showVersion {
		fmt.Println("livecat " + version.String())
		return
	}

	_ = env.LoadForSite()
	logger := logging.New(logLevel, os.Getenv(logging.EnvFormat))

	raw := query
	if raw == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		raw = string(data)
	}
	if strings.TrimSpace(raw) == "" {
		fmt.Fprintln(os.Stderr, "empty query: pass -q or pipe a query on stdin")
		os.Exit(1)
	}
	text := normalizeQuery(raw, fixed16)

	loc, err := resolveLocation()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	transport, err := livestatus.NewTransport(loc, livestatus.Options{Timeout: timeout})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger.Debug("query_start",
		"location", loc.String(),
		"transport", transport.Name(),
		"request_bytes", len(text))

	reply, err := transport.RoundTrip(context.Background(), []byte(text))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if fixed16 {
		resp, err := livestatus.ParseFixed16(reply)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Stdout.Write(resp.Body)
		return
	}
	os.Stdout.Write(reply)
}

// normalizeQuery terminates the request with a blank line and injects a
// ResponseHeader line when fixed16 is requested but absent.
func normalizeQuery(raw string, fixed16 bool) string {
	text := strings.TrimRight(raw, "\n")
	if fixed16 && !strings.Contains(text, "ResponseHeader:") {
		text += "\nResponseHeader: fixed16"
	}
	return text + "\n\n"
}

func resolveLocation() (*livestatus.Location, error) {
	if sshLoc != "" {
		return livestatus.ParseSSHLocation(sshLoc)
	}
	path, err := omd.ResolveSocket(socket)
	if err != nil {
		return nil, fmt.Errorf("no Livestatus endpoint: use --socket or --ssh, export %s, or run inside an OMD site", omd.EnvSocket)
	}
	return livestatus.ParseLocation(path)
}

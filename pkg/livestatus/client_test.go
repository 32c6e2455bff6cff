package livestatus

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ahaerpfer/ansible-inventory-omd-livestatus/internal/livetest"
)

func TestClientHosts(t *testing.T) {
	srv, err := livetest.NewUnix(livetest.Config{
		Body:    []byte(hostsJSON),
		Fixed16: true,
	})
	if err != nil {
		t.Fatalf("start server: %v", err)
	}
	defer srv.Close()

	client, err := Dial(srv.Addr(), Options{})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	rows, err := client.Hosts(context.Background(), nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	queries := srv.Queries()
	if len(queries) != 1 {
		t.Fatalf("expected 1 query, got %d", len(queries))
	}
	for _, want := range []string{
		"GET hosts\n",
		"Columns: address name alias groups host_custom_variables\n",
		"OutputFormat: json\n",
		"ResponseHeader: fixed16\n",
	} {
		if !strings.Contains(queries[0], want) {
			t.Fatalf("query missing %q:\n%s", want, queries[0])
		}
	}
}

func TestClientHostsWithFilters(t *testing.T) {
	srv, err := livetest.NewUnix(livetest.Config{Body: []byte("[]"), Fixed16: true})
	if err != nil {
		t.Fatalf("start server: %v", err)
	}
	defer srv.Close()

	client, err := Dial(srv.Addr(), Options{})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if _, err := client.Hosts(context.Background(), []string{"groups >= linux"}, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := srv.Queries()[0]
	if !strings.Contains(q, "Filter: groups >= linux\n") || !strings.Contains(q, "Limit: 10\n") {
		t.Fatalf("filters not rendered:\n%s", q)
	}
}

func TestClientStatusError(t *testing.T) {
	srv, err := livetest.NewUnix(livetest.Config{
		Body:    []byte("invalid GET request\n"),
		Fixed16: true,
		Status:  452,
	})
	if err != nil {
		t.Fatalf("start server: %v", err)
	}
	defer srv.Close()

	client, err := Dial(srv.Addr(), Options{})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	_, err = client.Hosts(context.Background(), nil, 0)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != 452 {
		t.Fatalf("expected status error 452, got %v", err)
	}
}

func TestClientOverTCP(t *testing.T) {
	srv, err := livetest.NewTCP(livetest.Config{Body: []byte(hostsJSON), Fixed16: true})
	if err != nil {
		t.Fatalf("start server: %v", err)
	}
	defer srv.Close()

	// host:port selects the TCP transport.
	client, err := Dial(srv.Addr(), Options{})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	rows, err := client.Hosts(context.Background(), nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestClientHostgroups(t *testing.T) {
	srv, err := livetest.NewUnix(livetest.Config{
		Body:    []byte(`[["linux", "Linux servers", ["web1", "db1"]]]`),
		Fixed16: true,
	})
	if err != nil {
		t.Fatalf("start server: %v", err)
	}
	defer srv.Close()

	client, err := Dial(srv.Addr(), Options{})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	groups, err := client.Hostgroups(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 1 || groups[0].Name != "linux" {
		t.Fatalf("unexpected groups: %+v", groups)
	}
}

func TestClientStatus(t *testing.T) {
	srv, err := livetest.NewUnix(livetest.Config{
		Body:    []byte(`[["3.20.2", "1.8.0p12", 42]]`),
		Fixed16: true,
	})
	if err != nil {
		t.Fatalf("start server: %v", err)
	}
	defer srv.Close()

	client, err := Dial(srv.Addr(), Options{})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	status, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.NumHosts != 42 {
		t.Fatalf("expected 42 hosts, got %d", status.NumHosts)
	}
}

func TestDialUnsupportedScheme(t *testing.T) {
	if _, err := Dial("", Options{}); err == nil {
		t.Fatal("expected error for empty location")
	}
}

func TestNewTransportSSHModes(t *testing.T) {
	loc, err := ParseLocation("ssh://ansible@mon1/omd/sites/prod/tmp/run/live")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	native, err := NewTransport(loc, Options{})
	if err != nil {
		t.Fatalf("native transport: %v", err)
	}
	if _, ok := native.(*SSHTransport); !ok {
		t.Fatalf("expected SSHTransport, got %T", native)
	}
	command, err := NewTransport(loc, Options{SSHMode: SSHModeCommand})
	if err != nil {
		t.Fatalf("command transport: %v", err)
	}
	ct, ok := command.(*CommandTransport)
	if !ok {
		t.Fatalf("expected CommandTransport, got %T", command)
	}
	if ct.User != "ansible" || ct.Addr != "mon1" || ct.RemotePath != "/omd/sites/prod/tmp/run/live" {
		t.Fatalf("location not carried over: %+v", ct)
	}
}

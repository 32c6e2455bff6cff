package livestatus

import (
	"context"
	"os/exec"
	"reflect"
	"strings"
	"testing"
	"time"
)

// echoCommand replaces the ssh binary with cat, which mirrors stdin to
// stdout like a remote unixcat would.
func echoCommand(t *testing.T) {
	t.Helper()
	orig := execCommand
	execCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "cat")
	}
	t.Cleanup(func() { execCommand = orig })
}

func TestCommandTransportRoundTrip(t *testing.T) {
	echoCommand(t)
	tr := &CommandTransport{Addr: "mon1", RemotePath: "./tmp/run/live"}
	query := []byte("GET hosts\nOutputFormat: json\n\n")
	got, err := tr.RoundTrip(context.Background(), query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(query) {
		t.Fatalf("expected echo %q, got %q", query, got)
	}
}

func TestCommandTransportTruncation(t *testing.T) {
	echoCommand(t)
	tr := &CommandTransport{Addr: "mon1", RemotePath: "./tmp/run/live", MaxOutput: 4}
	_, err := tr.RoundTrip(context.Background(), []byte("GET hosts\n\n"))
	if err == nil || !strings.Contains(err.Error(), "exceeds 4 bytes") {
		t.Fatalf("expected truncation error, got %v", err)
	}
}

func TestCommandTransportExitError(t *testing.T) {
	orig := execCommand
	execCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", "echo connection refused >&2; exit 255")
	}
	t.Cleanup(func() { execCommand = orig })

	tr := &CommandTransport{Addr: "mon1", RemotePath: "./tmp/run/live"}
	_, err := tr.RoundTrip(context.Background(), []byte("GET hosts\n\n"))
	if err == nil || !strings.Contains(err.Error(), "status 255") {
		t.Fatalf("expected exit error, got %v", err)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("stderr not surfaced: %v", err)
	}
}

func TestCommandTransportArgs(t *testing.T) {
	tr := &CommandTransport{
		User:       "ansible",
		Addr:       "mon1:2222",
		RemotePath: "/omd/sites/prod/tmp/run/live",
		Timeout:    5 * time.Second,
	}
	want := []string{
		"-o", "BatchMode=yes",
		"-o", "ConnectTimeout=5",
		"-p", "2222",
		"ansible@mon1",
		"unixcat", "/omd/sites/prod/tmp/run/live",
	}
	if got := tr.args(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected args %v, got %v", want, got)
	}
}

func TestLimitedBuffer(t *testing.T) {
	buf := &limitedBuffer{limit: 5}
	if _, err := buf.Write([]byte("abcdefgh")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "abcde" {
		t.Fatalf("expected %q, got %q", "abcde", buf.String())
	}
	if !buf.truncated {
		t.Fatal("expected truncation flag")
	}

	unlimited := &limitedBuffer{}
	unlimited.Write([]byte("anything goes"))
	if unlimited.truncated {
		t.Fatal("unlimited buffer must not truncate")
	}
}

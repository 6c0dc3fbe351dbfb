package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2ndBillingCycle/toolboot/internal/logging"
	"github.com/2ndBillingCycle/toolboot/internal/testutil/testlog"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	return New(t.TempDir(), testlog.New(t))
}

func TestRun_Success(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Run(context.Background(), Cmd("echo", "hello"), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if res.Stdout != "hello\n" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "hello\n")
	}
	if res.RunID == "" {
		t.Error("RunID is empty")
	}
}

func TestRun_NonZeroExitUnchecked(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Run(context.Background(), Cmd("exit", "3"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
}

func TestRun_NonZeroExitChecked(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Run(context.Background(), Cmd("exit", "3"), true)
	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("error = %v, want *ExecutionError", err)
	}
	if execErr.Outcome.ExitCode != 3 {
		t.Errorf("ExecutionError exit code = %d, want 3", execErr.Outcome.ExitCode)
	}
	if res == nil || res != execErr.Outcome {
		t.Error("checked failure should return the same outcome it reports")
	}
	if !strings.Contains(err.Error(), "exit 3") {
		t.Errorf("error = %q, want the command line", err)
	}
}

func TestRun_CapturesBothStreams(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	r := newTestRunner(t)
	res, err := r.Run(context.Background(), Cmd("sh", "-c", "echo out; echo err >&2; exit 2"), true)
	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("error = %v, want *ExecutionError", err)
	}
	if res.Stdout != "out\n" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "out\n")
	}
	if res.Stderr != "err\n" {
		t.Errorf("Stderr = %q, want %q", res.Stderr, "err\n")
	}
	msg := err.Error()
	if !strings.Contains(msg, "out") || !strings.Contains(msg, "err") {
		t.Errorf("error = %q, want both streams", msg)
	}
}

func TestRun_ProgramNotFound(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Run(context.Background(), Cmd("nonexistent-binary-xyz-123"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 127 {
		t.Errorf("ExitCode = %d, want 127", res.ExitCode)
	}
	if !strings.Contains(res.Stderr, "nonexistent-binary-xyz-123") {
		t.Errorf("Stderr = %q, want to mention the binary name", res.Stderr)
	}
}

func TestRun_EmptyCommand(t *testing.T) {
	r := newTestRunner(t)
	if _, err := r.Run(context.Background(), Command{}, false); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestRun_ArgumentsAreNotInterpreted(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Run(context.Background(), Cmd("echo", "$HOME;exit 9"), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Stdout != "$HOME;exit 9\n" {
		t.Errorf("Stdout = %q, want the literal argument", res.Stdout)
	}
}

func TestRun_RelativeDirUsesWorkspace(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Run(context.Background(), Cmd("pwd").In("."), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(res.Stdout) != r.Workspace {
		t.Errorf("Stdout = %q, want %q", res.Stdout, r.Workspace)
	}
	if res.Command.Dir != r.Workspace {
		t.Errorf("Command.Dir = %q, want %q", res.Command.Dir, r.Workspace)
	}
}

func TestRun_EmptyDirUsesCurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	r := New("", logging.Discard())
	res, err := r.Run(context.Background(), Cmd("pwd"), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(strings.TrimSpace(res.Stdout)) != filepath.Base(dir) {
		t.Errorf("Stdout = %q, want to end in %q", res.Stdout, filepath.Base(dir))
	}
}

func TestRun_LogsCommandLine(t *testing.T) {
	var buf bytes.Buffer
	r := New(t.TempDir(), logging.New(&buf, logging.ProfileRuntime, logging.Settings{}))
	if _, err := r.Run(context.Background(), Cmd("echo", "a b"), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "echo 'a b'") {
		t.Errorf("log = %q, want the quoted command line", buf.String())
	}
}

func TestCommand_String(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{Cmd("luarocks", "install", "busted"), "luarocks install busted"},
		{Cmd("/opt/my tools/hererocks", "--version"), "'/opt/my tools/hererocks' --version"},
		{Cmd("echo", ""), "echo ''"},
	}
	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/2ndBillingCycle/toolboot/internal/bootstrap"
	"github.com/2ndBillingCycle/toolboot/internal/config"
	"github.com/2ndBillingCycle/toolboot/internal/report"
	"github.com/2ndBillingCycle/toolboot/internal/runner"
	"github.com/2ndBillingCycle/toolboot/internal/testutil/testlog"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// fakeRunner answers by base program name plus arguments. hererocks
// creates the directory named by its last argument.
type fakeRunner struct {
	mu      sync.Mutex
	Results map[string]runner.Outcome
	Calls   []runner.Command
}

func (f *fakeRunner) Run(_ context.Context, cmd runner.Command, check bool) (*runner.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, cmd)

	base := filepath.Base(cmd.Program)
	if base == "hererocks" && len(cmd.Args) > 1 {
		_ = os.MkdirAll(cmd.Args[len(cmd.Args)-1], 0o755)
	}
	out := f.Results[strings.TrimSpace(base+" "+strings.Join(cmd.Args, " "))]
	out.Command = cmd
	out.RunID = "cmd"
	if check && out.ExitCode != 0 {
		return &out, &runner.ExecutionError{Outcome: &out}
	}
	return &out, nil
}

func healthyRunner() *fakeRunner {
	return &fakeRunner{Results: map[string]runner.Outcome{
		"python --version":    {Stdout: "Python 3.11.4\n"},
		"hererocks --version": {Stdout: "Hererocks 0.25.1\n"},
	}}
}

// setup creates a toolboot MCP server + client over in-memory transports.
// When installed is true the bin dir holds a hererocks executable.
func setup(t *testing.T, r runner.Executor, cfg *config.Config, installed bool) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	binDir := t.TempDir()
	if installed {
		if err := os.WriteFile(filepath.Join(binDir, "hererocks"), []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	seq := &bootstrap.Sequencer{
		Config:    cfg,
		Runner:    r,
		Workspace: t.TempDir(),
		BinDir:    binDir,
		Log:       testlog.New(t),
	}
	store := report.NewLRUStore(5, report.NewDiskStore(t.TempDir()))
	server := NewServer(seq, store)

	ct, st := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, st, nil)
	if err != nil {
		t.Fatalf("server.Connect: %v", err)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	if err != nil {
		t.Fatalf("client.Connect: %v", err)
	}

	t.Cleanup(func() {
		_ = cs.Close()
		_ = ss.Wait()
	})

	return cs
}

func callTool(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	return res
}

func resultText(r *mcp.CallToolResult) string {
	var parts []string
	for _, c := range r.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func runIDOf(t *testing.T, text string) string {
	t.Helper()
	for _, line := range strings.Split(text, "\n") {
		if id, ok := strings.CutPrefix(line, "Run: "); ok {
			return id
		}
	}
	t.Fatalf("no Run ID found in output:\n%s", text)
	return ""
}

// --- boot_locate ---

func TestBootLocate_Found(t *testing.T) {
	cs := setup(t, healthyRunner(), nil, true)
	res := callTool(t, cs, "boot_locate", nil)
	text := resultText(res)
	if res.IsError {
		t.Fatalf("unexpected error: %s", text)
	}
	if !strings.Contains(text, "Version: Hererocks 0.25.1") {
		t.Errorf("expected version in output, got:\n%s", text)
	}
}

func TestBootLocate_Missing(t *testing.T) {
	cs := setup(t, healthyRunner(), nil, false)
	res := callTool(t, cs, "boot_locate", nil)
	if !res.IsError {
		t.Fatalf("expected IsError, got:\n%s", resultText(res))
	}
	if !strings.Contains(resultText(res), "hererocks.exe") {
		t.Errorf("expected the .exe path in the error, got:\n%s", resultText(res))
	}
}

// --- boot_run ---

func TestBootRun_Passing(t *testing.T) {
	cs := setup(t, healthyRunner(), nil, true)
	res := callTool(t, cs, "boot_run", nil)
	text := resultText(res)
	if res.IsError {
		t.Fatalf("unexpected error: %s", text)
	}
	for _, want := range []string{"Status: PASS", "precondition: pass", "dependencies: pass", "boot_inspect"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in output, got:\n%s", want, text)
		}
	}
}

func TestBootRun_PythonTooOld(t *testing.T) {
	r := healthyRunner()
	r.Results["python --version"] = runner.Outcome{Stdout: "Python 3.6.9\n"}
	cs := setup(t, r, nil, true)
	res := callTool(t, cs, "boot_run", nil)
	text := resultText(res)
	if !res.IsError {
		t.Fatalf("expected IsError, got:\n%s", text)
	}
	if !strings.Contains(text, "precondition: fail") || !strings.Contains(text, "base-tool: skipped") {
		t.Errorf("expected precondition failure and skipped base-tool, got:\n%s", text)
	}
	if len(r.Calls) != 1 {
		t.Errorf("expected a single version probe, got %d calls", len(r.Calls))
	}
}

func TestBootRun_SelectedStages(t *testing.T) {
	r := healthyRunner()
	cs := setup(t, r, nil, true)
	res := callTool(t, cs, "boot_run", map[string]any{"stages": []string{"precondition"}})
	text := resultText(res)
	if !strings.Contains(text, "precondition: pass") || !strings.Contains(text, "provision: skipped") {
		t.Errorf("expected only precondition to run, got:\n%s", text)
	}
	if len(r.Calls) != 1 {
		t.Errorf("expected 1 call, got %d", len(r.Calls))
	}
}

func TestBootRun_UnknownStage(t *testing.T) {
	r := healthyRunner()
	cs := setup(t, r, nil, true)
	res := callTool(t, cs, "boot_run", map[string]any{"stages": []string{"compile"}})
	if !res.IsError {
		t.Fatalf("expected IsError, got:\n%s", resultText(res))
	}
	if !strings.Contains(resultText(res), "unknown stage: compile") {
		t.Errorf("expected unknown stage message, got:\n%s", resultText(res))
	}
	if len(r.Calls) != 0 {
		t.Errorf("expected no commands, got %d", len(r.Calls))
	}
}

func TestBootRun_ParamsDoNotLeak(t *testing.T) {
	r := healthyRunner()
	cs := setup(t, r, nil, true)
	callTool(t, cs, "boot_run", map[string]any{"stages": []string{"precondition"}})
	r.Calls = nil
	res := callTool(t, cs, "boot_run", nil)
	if !strings.Contains(resultText(res), "dependencies: pass") {
		t.Errorf("expected the full run after a partial one, got:\n%s", resultText(res))
	}
}

// --- boot_inspect ---

func TestBootInspect_MissingRunID(t *testing.T) {
	cs := setup(t, healthyRunner(), nil, true)
	_, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "boot_inspect",
		Arguments: map[string]any{"scope": "provision"},
	})
	if err == nil {
		t.Error("expected error for missing run_id")
	}
}

func TestBootInspect_InvalidRunID(t *testing.T) {
	cs := setup(t, healthyRunner(), nil, true)
	res := callTool(t, cs, "boot_inspect", map[string]any{"run_id": "nonexistent-id"})
	if !res.IsError {
		t.Error("expected IsError for invalid run_id")
	}
}

func TestBootInspect_RejectsPathRunID(t *testing.T) {
	cs := setup(t, healthyRunner(), nil, true)
	res := callTool(t, cs, "boot_inspect", map[string]any{"run_id": "../../x"})
	if !res.IsError {
		t.Fatalf("expected IsError, got:\n%s", resultText(res))
	}
	if !strings.Contains(resultText(res), "invalid run_id") {
		t.Errorf("expected invalid run_id message, got:\n%s", resultText(res))
	}
}

func TestBootInspect_AfterRun(t *testing.T) {
	cs := setup(t, healthyRunner(), nil, true)
	runID := runIDOf(t, resultText(callTool(t, cs, "boot_run", nil)))

	res := callTool(t, cs, "boot_inspect", map[string]any{
		"run_id": runID,
		"scope":  "dependencies/luajit",
	})
	text := resultText(res)
	if res.IsError {
		t.Fatalf("unexpected error: %s", text)
	}
	if !strings.Contains(text, "install amalg") || !strings.Contains(text, "install busted") {
		t.Errorf("expected both installs, got:\n%s", text)
	}
	if strings.Contains(text, "[dependencies/lua51]") {
		t.Errorf("expected only luajit commands, got:\n%s", text)
	}
}

func TestBootInspect_EmptyScope(t *testing.T) {
	cs := setup(t, healthyRunner(), nil, true)
	runID := runIDOf(t, resultText(callTool(t, cs, "boot_locate", nil)))

	res := callTool(t, cs, "boot_inspect", map[string]any{"run_id": runID, "scope": "provision"})
	if !strings.Contains(resultText(res), "No commands found") {
		t.Errorf("expected no commands for provision in a locate run, got:\n%s", resultText(res))
	}
}

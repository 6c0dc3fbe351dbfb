// Package mcp exposes the bootstrap orchestrator as an MCP server so an
// agent can drive and inspect toolchain provisioning.
package mcp

import (
	"context"
	_ "embed"
	"net/url"
	"sync"
	"time"

	"github.com/2ndBillingCycle/toolboot"
	"github.com/2ndBillingCycle/toolboot/internal/bootstrap"
	"github.com/2ndBillingCycle/toolboot/internal/config"
	"github.com/2ndBillingCycle/toolboot/internal/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	mu    sync.Mutex // bootstrap runs mutate the working directory; one at a time
	seq   *bootstrap.Sequencer
	store report.Store
}

// NewServer creates an MCP server with all toolboot tools registered.
func NewServer(seq *bootstrap.Sequencer, store report.Store) *mcp.Server {
	h := &handler{seq: seq, store: store}

	opts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
		InitializedHandler: func(ctx context.Context, req *mcp.InitializedRequest) {
			h.updateWorkspaceFromRoots(ctx, req.Session)
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "toolboot", Version: toolboot.Version}, opts)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "boot_locate",
		Description: "Check that hererocks is installed in the pipx binary directory and answers --version.",
	}, h.locateHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "boot_run",
		Description: `Run the toolchain bootstrap (precondition, base-tool, provision, dependencies) and stop on first failure.

Results are stored for drill-down via boot_inspect.`,
	}, h.runHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "boot_inspect",
		Description: `Show the commands executed by a boot_run or boot_locate call.

Scope may be a stage (provision), a target (lua51, luajit), or stage/target (dependencies/luajit).`,
	}, h.inspectHandler)

	return s
}

// updateWorkspaceFromRoots points the sequencer at the first file root the
// client advertises, reloading config from there.
func (h *handler) updateWorkspaceFromRoots(ctx context.Context, session *mcp.ServerSession) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	roots, err := session.ListRoots(ctx, &mcp.ListRootsParams{})
	if err != nil || len(roots.Roots) == 0 {
		return
	}
	u, err := url.Parse(roots.Roots[0].URI)
	if err != nil || u.Scheme != "file" {
		return
	}

	loaded, err := config.Load(u.Path)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq.Config = loaded.Config
	h.seq.Workspace = loaded.Workspace
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}

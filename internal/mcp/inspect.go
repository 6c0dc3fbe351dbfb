package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/2ndBillingCycle/toolboot/internal/report"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type inspectParams struct {
	RunID string `json:"run_id" jsonschema:"the run ID from a boot_run or boot_locate result"`
	Scope string `json:"scope,omitempty" jsonschema:"stage (provision), target (luajit), or stage/target (dependencies/luajit). Empty shows every command."`
}

func (h *handler) inspectHandler(ctx context.Context, req *mcp.CallToolRequest, params inspectParams) (*mcp.CallToolResult, any, error) {
	if params.RunID == "" {
		return errorResult("run_id is required")
	}
	if _, err := uuid.Parse(params.RunID); err != nil {
		return errorResult(fmt.Sprintf("invalid run_id %q: run IDs are UUIDs", params.RunID))
	}

	result, err := h.store.Load(params.RunID)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load run %s: %v", params.RunID, err))
	}

	cmds := result.Filter(params.Scope)
	if len(cmds) == 0 {
		return textResult(fmt.Sprintf("No commands found for %q in run %s (%s).", params.Scope, params.RunID, result.Kind))
	}
	return textResult(formatInspectOutput(result, params.Scope, cmds))
}

func formatInspectOutput(rr *report.RunResult, scope string, cmds []report.Command) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run: %s (%s)\n", rr.ID, rr.Kind)
	if scope != "" {
		fmt.Fprintf(&b, "Scope: %s\n", scope)
	}
	if rr.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", firstLine(rr.Error))
	}
	fmt.Fprintln(&b)

	for _, c := range cmds {
		where := c.Stage
		if c.Target != "" {
			where += "/" + c.Target
		}
		fmt.Fprintf(&b, "[%s] $ %s\n", where, c.Line)
		fmt.Fprintf(&b, "  dir: %s\n  exit: %d\n", c.Dir, c.ExitCode)
		if s := strings.TrimRight(c.Stdout, "\n"); s != "" {
			fmt.Fprintf(&b, "  stdout:\n%s\n", indent(s))
		}
		if s := strings.TrimRight(c.Stderr, "\n"); s != "" {
			fmt.Fprintf(&b, "  stderr:\n%s\n", indent(s))
		}
		fmt.Fprintln(&b)
	}
	return b.String()
}

func indent(s string) string {
	return "    " + strings.ReplaceAll(s, "\n", "\n    ")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type runParams struct {
	Stages []string `json:"stages,omitempty" jsonschema:"stages to run (precondition, base-tool, provision, dependencies). Defaults to the configured stages."`
}

func (h *handler) runHandler(ctx context.Context, req *mcp.CallToolRequest, params runParams) (*mcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	seq := *h.seq
	if len(params.Stages) > 0 {
		cfg := *seq.Config
		cfg.RawStages = params.Stages
		seq.Config = &cfg
	}

	res, err := seq.Run(ctx)
	if res == nil {
		return errorResult(fmt.Sprintf("boot_run failed: %v", err))
	}
	_ = h.store.Save(res.RunResult)

	var b strings.Builder
	if res.FailedIdx < 0 {
		fmt.Fprintln(&b, "Status: PASS")
	} else {
		fmt.Fprintln(&b, "Status: FAIL")
	}
	fmt.Fprintf(&b, "Run: %s\n\n", res.RunResult.ID)
	for _, s := range res.Stages {
		fmt.Fprintf(&b, "%s: %s\n", s.Name, s.Status)
	}
	if res.FailedIdx >= 0 {
		fmt.Fprintf(&b, "\n%s\n", res.Stages[res.FailedIdx].Detail)
	}
	fmt.Fprintf(&b, "\nInspect with boot_inspect(run_id=%q, scope=\"<stage|target|stage/target>\").\n", res.RunResult.ID)

	if err != nil {
		return errorResult(b.String())
	}
	return textResult(b.String())
}

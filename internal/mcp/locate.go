package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type locateParams struct{}

func (h *handler) locateHandler(ctx context.Context, req *mcp.CallToolRequest, _ locateParams) (*mcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	tool, rr, err := h.seq.Locate(ctx)
	_ = h.store.Save(rr)
	if err != nil {
		return errorResult(fmt.Sprintf("Run: %s\n\n%v", rr.ID, err))
	}
	return textResult(fmt.Sprintf("Run: %s\n\nPath: %s\nDirectory: %s\nVersion: %s\n", rr.ID, tool.Path, tool.Dir, tool.Version))
}

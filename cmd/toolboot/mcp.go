package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2ndBillingCycle/toolboot/internal/bootstrap"
	bootmcp "github.com/2ndBillingCycle/toolboot/internal/mcp"
	"github.com/2ndBillingCycle/toolboot/internal/report"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd(g *globalFlags) *cobra.Command {
	var (
		instructions bool
		httpAddr     string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if instructions {
				fmt.Fprint(cmd.OutOrStdout(), bootmcp.Instructions)
				return nil
			}
			seq, err := newSequencer(g)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), seq, httpAddr)
		},
	}

	cmd.Flags().BoolVar(&instructions, "instructions", false, "print model instructions and exit")
	cmd.Flags().StringVar(&httpAddr, "http", "", "start HTTP server on address (e.g. :9090)")
	return cmd
}

func serve(ctx context.Context, seq *bootstrap.Sequencer, httpAddr string) error {
	store := report.NewLRUStore(5, report.NewDiskStore(""))
	server := bootmcp.NewServer(seq, store)

	if httpAddr != "" {
		return serveHTTP(ctx, seq, server, httpAddr)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveHTTP(ctx context.Context, seq *bootstrap.Sequencer, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	seq.Log.Info("listening", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bucoapprove/mondash/internal/dataset"
	"github.com/bucoapprove/mondash/internal/models"
	"github.com/bucoapprove/mondash/internal/store"
)

// Server wraps the snapshot store and exposes it as MCP tools. The
// builder is optional: without one the refresh tool reports that no
// API access is configured, while the store-backed tools keep working.
type Server struct {
	store   store.Store
	builder *dataset.Builder
}

// NewServer creates the MCP server wrapper. builder may be nil.
func NewServer(s store.Store, builder *dataset.Builder) *Server {
	return &Server{store: s, builder: builder}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("mondash", "1.0.0", server.WithToolCapabilities(true))

	srv.AddTool(s.listRecordsTool())
	srv.AddTool(s.statsTool())
	srv.AddTool(s.listSnapshotsTool())
	srv.AddTool(s.refreshTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// latestOrNamed resolves the snapshot argument, defaulting to the
// latest stored snapshot.
func (s *Server) latestOrNamed(ctx context.Context, id string) (*models.Snapshot, error) {
	if id != "" {
		return s.store.GetSnapshot(ctx, id)
	}
	return s.store.LatestSnapshot(ctx)
}

// monday_list_records
func (s *Server) listRecordsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("monday_list_records",
		mcp.WithDescription("List normalized work items from a dataset snapshot. Returns a JSON array of records with id, name, group, board, persons, date, status and urgency (overdue/attention)."),
		mcp.WithString("snapshot", mcp.Description("Snapshot id (defaults to the latest snapshot)")),
		mcp.WithString("urgency", mcp.Description("Filter by urgency: overdue, attention, or none")),
		mcp.WithString("person", mcp.Description("Filter by responsible person (substring match)")),
		mcp.WithString("board", mcp.Description("Filter by exact board name")),
	)
	return tool, s.handleListRecords
}

func (s *Server) handleListRecords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.latestOrNamed(ctx, request.GetString("snapshot", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("resolve snapshot: %v", err)), nil
	}

	filter := store.RecordFilter{
		Person: request.GetString("person", ""),
		Board:  request.GetString("board", ""),
	}
	if u := request.GetString("urgency", ""); u != "" {
		urg := models.Urgency(u)
		if u == "none" {
			urg = models.UrgencyNone
		}
		filter.Urgency = &urg
	}

	records, err := s.store.ListRecords(ctx, snap.ID, filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list records: %v", err)), nil
	}

	data, err := json.Marshal(records)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal records: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// monday_stats
func (s *Server) statsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("monday_stats",
		mcp.WithDescription("Summarize a dataset snapshot: total items, unique persons, overdue and attention counts, and the status distribution."),
		mcp.WithString("snapshot", mcp.Description("Snapshot id (defaults to the latest snapshot)")),
	)
	return tool, s.handleStats
}

func (s *Server) handleStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.latestOrNamed(ctx, request.GetString("snapshot", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("resolve snapshot: %v", err)), nil
	}

	records, err := s.store.ListRecords(ctx, snap.ID, store.RecordFilter{})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list records: %v", err)), nil
	}

	out := struct {
		Snapshot *models.Snapshot `json:"snapshot"`
		Stats    dataset.Stats    `json:"stats"`
	}{snap, dataset.ComputeStats(records)}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal stats: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// monday_list_snapshots
func (s *Server) listSnapshotsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("monday_list_snapshots",
		mcp.WithDescription("List stored dataset snapshots, newest first, with fetch time and item counts."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of snapshots to return (default all)")),
	)
	return tool, s.handleListSnapshots
}

func (s *Server) handleListSnapshots(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 0)

	snaps, err := s.store.ListSnapshots(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list snapshots: %v", err)), nil
	}

	data, err := json.Marshal(snaps)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal snapshots: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// monday_refresh
func (s *Server) refreshTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("monday_refresh",
		mcp.WithDescription("Re-run the ingest pipeline against the Monday.com API and store the result as a new snapshot. Returns the new snapshot metadata."),
	)
	return tool, s.handleRefresh
}

func (s *Server) handleRefresh(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.builder == nil {
		return mcp.NewToolResultError("no Monday.com API token configured; refresh is unavailable"), nil
	}

	ds, err := s.builder.Build(ctx, dataset.Options{})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("pipeline failed: %v", err)), nil
	}

	snap := &models.Snapshot{
		FetchedAt:  ds.FetchedAt,
		BoardCount: ds.BoardCount,
		ItemCount:  ds.ItemCount,
		Warnings:   ds.Warnings,
	}
	if err := s.store.SaveSnapshot(ctx, snap, ds.Records); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save snapshot: %v", err)), nil
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal snapshot: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

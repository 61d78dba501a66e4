// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes reference-graph analysis tools over stdio.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/zgraph/internal/apperr"
	"github.com/starford/zgraph/internal/noteservice"
	"github.com/starford/zgraph/internal/report"
	"github.com/starford/zgraph/internal/storage"
)

const referenceSyntaxURI = "zgraph://reference-syntax"

// Server wraps the MCP server with graph tools.
type Server struct {
	mcp   *server.MCPServer
	store storage.Provider
	svc   *noteservice.Service
}

// New creates a new MCP server with all tools registered.
func New(store storage.Provider, svc *noteservice.Service, version string) *Server {
	s := &Server{store: store, svc: svc}

	s.mcp = server.NewMCPServer(
		"zgraph",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("graph_stats",
		mcp.WithDescription("Count notes, references between notes, notes without references and connected components."),
	), s.graphStats)

	s.mcp.AddTool(mcp.NewTool("unconnected_notes",
		mcp.WithDescription("List notes that neither reference nor are referenced by any other note."),
	), s.unconnectedNotes)

	s.mcp.AddTool(mcp.NewTool("connected_components",
		mcp.WithDescription("List groups of notes connected by references, largest group first."),
	), s.connectedComponents)

	s.mcp.AddTool(mcp.NewTool("note_references",
		mcp.WithDescription("Show the notes one note refers to and the notes referring to it."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Filename of the note (e.g. 202002251025_idea.md)")),
	), s.noteReferences)

	s.mcp.AddTool(mcp.NewTool("reference_diagnostics",
		mcp.WithDescription("List unresolved and non-unique references and notes that could not be read. "+
			"See the "+referenceSyntaxURI+" resource for how references resolve."),
	), s.referenceDiagnostics)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List all note filenames in the directory."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a note."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Filename of the note")),
	), s.readNote)

	s.mcp.AddResource(
		mcp.NewResource(referenceSyntaxURI, "Reference Syntax",
			mcp.WithResourceDescription("How notes refer to each other and how references are resolved."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readReferenceSyntax,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// snapshot rebuilds the graph so every call reflects the directory as it is now.
func (s *Server) snapshot(ctx context.Context) (*noteservice.Snapshot, error) {
	snap, _, err := s.svc.Rebuild(ctx, nil)
	return snap, err
}

func (s *Server) graphStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var buf bytes.Buffer
	if err := report.WriteStats(&buf, snap.Stats); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) unconnectedNotes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(snap.Stats.Isolated) == 0 {
		return mcp.NewToolResultText("every note is connected"), nil
	}
	var buf bytes.Buffer
	if err := report.WriteUnconnected(&buf, snap.Stats.Isolated); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) connectedComponents(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var buf bytes.Buffer
	if err := report.WriteComponents(&buf, snap.Components); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) noteReferences(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	refs, err := snap.References(name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", name)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(refs, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) referenceDiagnostics(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(snap.Diagnostics) == 0 {
		return mcp.NewToolResultText("no diagnostics"), nil
	}
	lines := make([]string, len(snap.Diagnostics))
	for i, d := range snap.Diagnostics {
		lines[i] = d.Message()
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) listNotes(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metas, err := s.store.List()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(strings.Join(storage.Names(metas), "\n")), nil
}

func (s *Server) readNote(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", name)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) readReferenceSyntax(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      referenceSyntaxURI,
			MIMEType: "text/markdown",
			Text:     ReferenceSyntax,
		},
	}, nil
}

// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the note store as tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/noteservice"
)

// Server wraps the MCP server with note tools.
type Server struct {
	mcp   *server.MCPServer
	notes *noteservice.Service
}

// New creates a new MCP server with all note tools registered.
func New(notes *noteservice.Service) *Server {
	s := &Server{notes: notes}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("add_note",
		mcp.WithDescription("Create a new note with optional tags."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note text")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags (optional)")),
	), s.addNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List all notes."),
		mcp.WithString("sort", mcp.Description("Sort order: id, date, update, or content (default id)")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Search notes by case-insensitive keyword in their content."),
		mcp.WithString("keyword", mcp.Required(), mcp.Description("Keyword to search for")),
		mcp.WithString("sort", mcp.Description("Sort order: id, date, update, or content (default id)")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("edit_note",
		mcp.WithDescription("Replace the content of an existing note."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithString("content", mcp.Required(), mcp.Description("New note text")),
	), s.editNote)

	s.mcp.AddTool(mcp.NewTool("add_tag",
		mcp.WithDescription("Add tags to an existing note. Tags already present are skipped."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithString("tags", mcp.Required(), mcp.Description("Comma-separated tags")),
	), s.addTag)

	s.mcp.AddTool(mcp.NewTool("remove_note",
		mcp.WithDescription("Delete a note by id. Its id becomes reusable."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.removeNote)

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

func (s *Server) addNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var tags []string
	if raw, rawErr := req.RequireString("tags"); rawErr == nil {
		tags = splitTags(raw)
	}
	note, err := s.notes.Add(content, tags)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created note %d", note.ID)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	method, err := sortMethod(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	notes, err := s.notes.List(method)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(notes, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keyword, err := req.RequireString("keyword")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if keyword == "" {
		return mcp.NewToolResultError("no keyword given"), nil
	}
	method, err := sortMethod(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.notes.Search(keyword, method)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) editNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if content == "" {
		return mcp.NewToolResultError("no content given"), nil
	}
	if _, err := s.notes.Edit(id, content); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("note %d not found", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated note %d", id)), nil
}

func (s *Server) addTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := req.RequireString("tags")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tags := splitTags(raw)
	if len(tags) == 0 {
		return mcp.NewToolResultError("no tags given"), nil
	}
	note, err := s.notes.AddTag(id, tags)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("note %d not found", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("note %d tags: %s", id, strings.Join(note.Tags, ", "))), nil
}

func (s *Server) removeNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.notes.Remove(id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("note %d not found", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("removed note %d", id)), nil
}

func requireID(req mcp.CallToolRequest) (uint64, error) {
	raw, err := req.RequireString("id")
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid note id %q", raw)
	}
	return id, nil
}

func sortMethod(req mcp.CallToolRequest) (noteservice.SortMethod, error) {
	raw := ""
	if v, err := req.RequireString("sort"); err == nil {
		raw = v
	}
	return noteservice.ParseSortMethod(raw)
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

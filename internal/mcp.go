package internal

import "github.com/starford/ansuz/internal/mcpserver"

// MCP serves the note tools over stdio until the client disconnects.
func (a *App) MCP() error {
	a.logger.Info("mcp server listening on stdio")
	return mcpserver.New(a.notes).ServeStdio()
}

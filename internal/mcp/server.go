package mcp

import (
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/crmitchelmore/pasta/internal/config"
)

// Tool definitions

var captureToolDef = mcp.NewTool("clip_capture",
	mcp.WithDescription("Classify a clipboard item and store the resulting records"),
	mcp.WithString("content", mcp.Required(), mcp.Description("Captured text")),
	mcp.WithString("source_app", mcp.Description("Source application identifier")),
)

var classifyToolDef = mcp.NewTool("clip_classify",
	mcp.WithDescription("Classify text without storing anything (dry run)"),
	mcp.WithString("content", mcp.Required(), mcp.Description("Text to classify")),
)

var listToolDef = mcp.NewTool("clip_list",
	mcp.WithDescription("List captured entries, newest first"),
	mcp.WithString("type", mcp.Description("Filter by content type")),
	mcp.WithBoolean("include_children", mcp.Description("Include extracted child entries")),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Page offset")),
)

var fetchToolDef = mcp.NewTool("clip_fetch",
	mcp.WithDescription("Fetch one entry by ID"),
	mcp.WithString("id", mcp.Required(), mcp.Description("Entry ULID")),
	mcp.WithBoolean("include_children", mcp.Description("Include extracted child entries")),
)

var searchToolDef = mcp.NewTool("clip_search",
	mcp.WithDescription("Full-text search over captured content"),
	mcp.WithString("query", mcp.Required(), mcp.Description("Search terms")),
	mcp.WithString("family", mcp.Description("Keep only entries whose metadata contains this family")),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Page offset")),
)

var deleteToolDef = mcp.NewTool("clip_delete",
	mcp.WithDescription("Delete one entry by ID"),
	mcp.WithString("id", mcp.Required(), mcp.Description("Entry ULID")),
)

var purgeToolDef = mcp.NewTool("clip_purge",
	mcp.WithDescription("Delete entries older than a cutoff"),
	mcp.WithNumber("older_than_days", mcp.Required(), mcp.Description("Age cutoff in days")),
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"clip_capture": {
		def:     captureToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCapture },
	},
	"clip_classify": {
		def:     classifyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleClassify },
	},
	"clip_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"clip_fetch": {
		def:     fetchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFetch },
	},
	"clip_search": {
		def:     searchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSearch },
	},
	"clip_delete": {
		def:     deleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete },
	},
	"clip_purge": {
		def:     purgeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePurge },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with Pasta tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(database *sql.DB, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"pasta",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(database, cfg)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(database *sql.DB, cfg *config.Config, version string) error {
	s := NewServer(database, cfg, version)
	return server.ServeStdio(s)
}

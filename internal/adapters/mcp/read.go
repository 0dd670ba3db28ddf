package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"cognitext/internal/application"
	"cognitext/internal/application/commands"
	"cognitext/internal/domain"
	"cognitext/internal/ports"
)

const defaultSearchLimit = 20

// RegisterReadTools adds all read-only workspace tools to the MCP server.
// index may be nil, in which case search falls back to file names.
func RegisterReadTools(s *server.MCPServer, repo ports.WorkspaceRepository, index ports.SearchIndex, parser ports.MarkdownParser) {
	s.AddTool(treeTool(), treeHandler(repo))
	s.AddTool(readTool(), readHandler(repo))
	s.AddTool(searchTool(), searchHandler(repo, index))
	s.AddTool(tocTool(), tocHandler(repo, parser))
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Display the workspace folders and notes as a tree."),
	)
}

func treeHandler(repo ports.WorkspaceRepository) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		root, err := commands.NewExpandAllCommand(repo).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		var sb strings.Builder
		renderTree(&sb, root, "")
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func renderTree(sb *strings.Builder, node *domain.TreeNode, prefix string) {
	if node.Kind != domain.KindRoot {
		name := node.Name
		if node.IsDir() {
			name += "/"
		}
		fmt.Fprintf(sb, "%s%s\n", prefix, name)
		prefix += "  "
	}
	for _, child := range node.Children {
		renderTree(sb, child, prefix)
	}
}

// --- read ---

func readTool() mcp.Tool {
	return mcp.NewTool("read",
		mcp.WithDescription("Read the markdown content of a note."),
		mcp.WithString("path",
			mcp.Description("Note path relative to the workspace root (e.g. journal/2024-05-01.md)"),
			mcp.Required(),
		),
	)
}

func readHandler(repo ports.WorkspaceRepository) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := resolve(repo, req.GetString("path", ""))
		if err != nil {
			return toolError(err)
		}

		content, err := repo.ReadFile(path)
		if err != nil {
			return toolError(fmt.Errorf("reading note: %w", err))
		}
		return mcp.NewToolResultText(content), nil
	}
}

// --- search ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Full-text search over every note. Every word must match the start of a word in the title or content."),
		mcp.WithString("query",
			mcp.Description("Search query"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default 20)"),
		),
	)
}

func searchHandler(repo ports.WorkspaceRepository, index ports.SearchIndex) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if err := application.ValidateRequired("query", query); err != nil {
			return toolError(err)
		}
		limit := req.GetInt("limit", defaultSearchLimit)

		var sb strings.Builder
		if index != nil {
			results, err := commands.NewSearchCommand(index, query, limit).Execute(ctx)
			if err != nil {
				return toolError(err)
			}
			for _, r := range results {
				fmt.Fprintf(&sb, "%s  %s\n    %s\n", relPath(repo, r.Path), r.Title, r.Snippet)
			}
		} else {
			matches, err := commands.NewQuickOpenCommand(repo, query, limit).Execute(ctx)
			if err != nil {
				return toolError(err)
			}
			for _, m := range matches {
				fmt.Fprintf(&sb, "%s\n", m.RelPath)
			}
		}

		if sb.Len() == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- toc ---

func tocTool() mcp.Tool {
	return mcp.NewTool("toc",
		mcp.WithDescription("Show the table of contents (nested headings) of a note."),
		mcp.WithString("path",
			mcp.Description("Note path relative to the workspace root"),
			mcp.Required(),
		),
	)
}

func tocHandler(repo ports.WorkspaceRepository, parser ports.MarkdownParser) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := resolve(repo, req.GetString("path", ""))
		if err != nil {
			return toolError(err)
		}

		result, err := commands.NewTOCCommand(repo, parser, path).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(result.Lines) == 0 {
			return mcp.NewToolResultText("No headings."), nil
		}

		var sb strings.Builder
		for _, line := range result.Lines {
			fmt.Fprintf(&sb, "%s%s %s\n", strings.Repeat("  ", line.Depth), line.Entry.Tag(), line.Entry.Text)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

// resolve validates a workspace relative path and makes it absolute
func resolve(repo ports.WorkspaceRepository, rel string) (string, error) {
	if err := application.ValidateRelativePath("path", rel); err != nil {
		return "", err
	}
	return repo.Resolve(rel)
}

func relPath(repo ports.WorkspaceRepository, path string) string {
	rel, err := filepath.Rel(repo.Root(), path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

package mcp

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"cognitext/internal/application/commands"
	"cognitext/internal/domain"
	"cognitext/internal/ports"
)

// RegisterWriteTools adds all write workspace tools to the MCP server.
// index may be nil.
func RegisterWriteTools(s *server.MCPServer, repo ports.WorkspaceRepository, index ports.SearchIndex) {
	s.AddTool(createTool(), createHandler(repo, index))
	s.AddTool(writeTool(), writeHandler(repo, index))
	s.AddTool(renameTool(), renameHandler(repo, index))
	s.AddTool(moveTool(), moveHandler(repo, index))
	s.AddTool(deleteTool(), deleteHandler(repo, index))
}

// --- create ---

func createTool() mcp.Tool {
	return mcp.NewTool("create",
		mcp.WithDescription("Create a new note (or folder) inside a folder. Fails if the name is taken."),
		mcp.WithString("folder",
			mcp.Description("Parent folder relative to the workspace root. Omit for the root."),
		),
		mcp.WithString("name",
			mcp.Description("Name of the new note; .md is added when missing"),
			mcp.Required(),
		),
		mcp.WithBoolean("is_folder",
			mcp.Description("Create a folder instead of a note"),
		),
	)
}

func createHandler(repo ports.WorkspaceRepository, index ports.SearchIndex) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		parent := repo.Root()
		if folder := req.GetString("folder", ""); folder != "" {
			var err error
			if parent, err = resolve(repo, folder); err != nil {
				return toolError(err)
			}
		}
		name := req.GetString("name", "")

		var result *commands.CreateResult
		var err error
		if req.GetBool("is_folder", false) {
			result, err = commands.NewCreateFolderCommand(repo, parent, name).Execute(ctx)
		} else {
			result, err = commands.NewCreateNoteCommand(repo, index, parent, name).Execute(ctx)
		}
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- write ---

func writeTool() mcp.Tool {
	return mcp.NewTool("write",
		mcp.WithDescription("Replace the whole content of a note, creating it when missing."),
		mcp.WithString("path",
			mcp.Description("Note path relative to the workspace root"),
			mcp.Required(),
		),
		mcp.WithString("content",
			mcp.Description("New markdown content"),
			mcp.Required(),
		),
	)
}

func writeHandler(repo ports.WorkspaceRepository, index ports.SearchIndex) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := resolve(repo, req.GetString("path", ""))
		if err != nil {
			return toolError(err)
		}
		if !domain.IsMarkdown(path) {
			return toolError(fmt.Errorf("only markdown notes can be written: %s", filepath.Base(path)))
		}

		if err := repo.WriteFile(path, req.GetString("content", "")); err != nil {
			return toolError(fmt.Errorf("writing note: %w", err))
		}
		if index != nil {
			_ = index.Reindex(path)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Wrote %s", relPath(repo, path))), nil
	}
}

// --- rename ---

func renameTool() mcp.Tool {
	return mcp.NewTool("rename",
		mcp.WithDescription("Rename a note or folder in place. Notes keep their extension."),
		mcp.WithString("path",
			mcp.Description("Path relative to the workspace root"),
			mcp.Required(),
		),
		mcp.WithString("new_name",
			mcp.Description("New name"),
			mcp.Required(),
		),
	)
}

func renameHandler(repo ports.WorkspaceRepository, index ports.SearchIndex) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := resolve(repo, req.GetString("path", ""))
		if err != nil {
			return toolError(err)
		}

		result, err := commands.NewRenameCommand(repo, index, path, req.GetString("new_name", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- move ---

func moveTool() mcp.Tool {
	return mcp.NewTool("move",
		mcp.WithDescription("Move a note or folder into another folder. Never overwrites."),
		mcp.WithString("path",
			mcp.Description("Path relative to the workspace root"),
			mcp.Required(),
		),
		mcp.WithString("destination",
			mcp.Description("Destination folder relative to the workspace root; use . for the root"),
			mcp.Required(),
		),
	)
}

func moveHandler(repo ports.WorkspaceRepository, index ports.SearchIndex) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		src, err := resolve(repo, req.GetString("path", ""))
		if err != nil {
			return toolError(err)
		}
		dst, err := resolve(repo, req.GetString("destination", ""))
		if err != nil {
			return toolError(err)
		}

		result, err := commands.NewMoveCommand(repo, index, src, dst).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- delete ---

func deleteTool() mcp.Tool {
	return mcp.NewTool("delete",
		mcp.WithDescription("Delete a note, or a folder with everything in it."),
		mcp.WithString("path",
			mcp.Description("Path relative to the workspace root"),
			mcp.Required(),
		),
	)
}

func deleteHandler(repo ports.WorkspaceRepository, index ports.SearchIndex) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := resolve(repo, req.GetString("path", ""))
		if err != nil {
			return toolError(err)
		}

		result, err := commands.NewDeleteCommand(repo, index, path).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

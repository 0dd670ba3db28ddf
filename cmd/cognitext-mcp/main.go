package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"cognitext/internal/adapters/filesystem"
	"cognitext/internal/adapters/markdown"
	mcpadapter "cognitext/internal/adapters/mcp"
	"cognitext/internal/adapters/sqlite"
	"cognitext/internal/application"
	"cognitext/internal/config"
	"cognitext/internal/pkg/logger"
	"cognitext/internal/ports"
)

func main() {
	if err := config.LoadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	dirFlag := flag.String("dir", config.WorkspaceOverride(), "workspace folder")
	flag.Parse()

	// stdout carries the protocol
	log := logger.NewConsole(config.LogLevel())
	defer log.Sync()

	settings, err := filesystem.NewSettingsStore(config.SettingsPath()).Load()
	if err != nil {
		log.Warn("using default settings", zap.Error(err))
	}
	repo := filesystem.NewRepository(application.ResolveWorkspace(*dirFlag, settings), config.BackupsDir())

	var index ports.SearchIndex
	if idx, err := openIndex(repo.Root(), log); err != nil {
		log.Warn("search index unavailable, searching file names only", zap.Error(err))
	} else {
		defer idx.Close()
		index = idx
	}

	mcpServer := server.NewMCPServer(
		"cognitext-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, repo, index, markdown.NewParser())
	mcpadapter.RegisterWriteTools(mcpServer, repo, index)

	log.Info("serving workspace", zap.String("root", repo.Root()))
	if err := server.ServeStdio(mcpServer); err != nil {
		log.Error("cognitext-mcp stopped", zap.Error(err))
		os.Exit(1)
	}
}

func openIndex(root string, log *zap.Logger) (*sqlite.Index, error) {
	idx := sqlite.NewIndex(sqlite.WithLogger(log))
	if err := idx.Open(root); err != nil {
		return nil, err
	}

	ctx := context.Background()
	var err error
	if idx.NeedsFullRebuild() {
		_, err = idx.IndexDirectory(ctx)
	} else {
		_, err = idx.SyncIncremental(ctx)
	}
	if err != nil {
		idx.Close()
		return nil, err
	}
	return idx, nil
}

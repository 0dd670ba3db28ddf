package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cognitext/internal/adapters/sqlite"
	"cognitext/internal/domain"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the full-text search index",
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the index from scratch",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withIndex(func(ctx context.Context, idx *sqlite.Index) (*domain.SyncStats, error) {
			return idx.IndexDirectory(ctx)
		})
	},
}

var indexSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Update the index with changed files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withIndex(func(ctx context.Context, idx *sqlite.Index) (*domain.SyncStats, error) {
			return idx.SyncIncremental(ctx)
		})
	},
}

func withIndex(run func(context.Context, *sqlite.Index) (*domain.SyncStats, error)) error {
	ctx := context.Background()
	idx := sqlite.NewIndex(sqlite.WithLogger(log))
	if err := idx.Open(repo.Root()); err != nil {
		return err
	}
	defer idx.Close()

	stats, err := run(ctx, idx)
	if err != nil {
		return err
	}
	total, err := idx.Count()
	if err != nil {
		return err
	}
	fmt.Printf("%d added, %d updated, %d removed in %s (%d notes indexed)\n",
		stats.Added, stats.Updated, stats.Removed, stats.Duration.Round(time.Millisecond), total)
	return nil
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexRebuildCmd)
	indexCmd.AddCommand(indexSyncCmd)
}

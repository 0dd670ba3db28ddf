package sqlite

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"cognitext/internal/domain"
)

// IndexDirectory performs a complete rebuild of the index
func (idx *Index) IndexDirectory(ctx context.Context) (*domain.SyncStats, error) {
	start := time.Now()
	stats := &domain.SyncStats{}

	tx, err := idx.beginTx()
	if err != nil {
		return nil, err
	}
	if err := tx.clear(); err != nil {
		tx.rollback()
		return nil, err
	}

	err = idx.walkMarkdown(ctx, func(path string, info fs.FileInfo) error {
		doc, err := readDocument(path, info)
		if err != nil {
			idx.logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			return nil
		}
		if err := tx.upsertDocument(doc); err != nil {
			return err
		}
		stats.Added++
		return nil
	})
	if err != nil {
		tx.rollback()
		return stats, err
	}

	if err := tx.commit(); err != nil {
		return stats, err
	}
	if err := idx.updateMeta(); err != nil {
		return stats, fmt.Errorf("failed to update metadata: %w", err)
	}
	idx.results.Flush()

	stats.Duration = time.Since(start)
	idx.logger.Info("index rebuilt", zap.Int("documents", stats.Added), zap.Duration("took", stats.Duration))
	return stats, nil
}

// SyncIncremental updates only files whose mtime changed since they were
// indexed, and drops files that no longer exist
func (idx *Index) SyncIncremental(ctx context.Context) (*domain.SyncStats, error) {
	start := time.Now()
	stats := &domain.SyncStats{}

	// Track existing paths to detect deletions
	existing := make(map[string]int64)
	rows, err := idx.db.Query(`SELECT path, mtime FROM documents`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var path string
		var mtime int64
		if err := rows.Scan(&path, &mtime); err != nil {
			rows.Close()
			return nil, err
		}
		existing[path] = mtime
	}
	rows.Close()

	tx, err := idx.beginTx()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	err = idx.walkMarkdown(ctx, func(path string, info fs.FileInfo) error {
		seen[path] = true

		mtime, known := existing[path]
		if known && mtime == info.ModTime().Unix() {
			return nil
		}

		doc, err := readDocument(path, info)
		if err != nil {
			idx.logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			return nil
		}
		if err := tx.upsertDocument(doc); err != nil {
			return err
		}
		if known {
			stats.Updated++
		} else {
			stats.Added++
		}
		return nil
	})
	if err != nil {
		tx.rollback()
		return stats, err
	}

	// Delete documents that no longer exist
	for path := range existing {
		if !seen[path] {
			if err := tx.deleteDocument(path); err != nil {
				tx.rollback()
				return stats, err
			}
			stats.Removed++
		}
	}

	if err := tx.commit(); err != nil {
		return stats, err
	}
	if err := idx.updateMeta(); err != nil {
		return stats, fmt.Errorf("failed to update metadata: %w", err)
	}
	if stats.Added+stats.Updated+stats.Removed > 0 {
		idx.results.Flush()
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

// walkMarkdown calls fn for every markdown file below the root, skipping
// hidden files and folders
func (idx *Index) walkMarkdown(ctx context.Context, fn func(path string, info fs.FileInfo) error) error {
	return filepath.WalkDir(idx.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		// Skip hidden directories
		if d.IsDir() {
			if path != idx.rootPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || !domain.IsMarkdown(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		return fn(path, info)
	})
}

// readDocument loads a markdown file as a search document
func readDocument(path string, info fs.FileInfo) (*domain.SearchDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	title, body := splitFrontMatter(string(data))
	if title == "" {
		title = domain.FileNameWithoutExtension(path)
	}

	return &domain.SearchDocument{
		ID:      path,
		Title:   title,
		Content: body,
		Path:    path,
		ModTime: info.ModTime(),
	}, nil
}

type frontMatter struct {
	Title string `yaml:"title"`
}

// splitFrontMatter separates a leading YAML front matter block from the
// document body and returns its title, if any
func splitFrontMatter(content string) (string, string) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, "---\n") {
		return "", content
	}

	rest := normalized[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", content
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return "", content
	}

	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")
	return strings.TrimSpace(fm.Title), body
}

package ports

import (
	"context"

	"cognitext/internal/domain"
)

// VersionControl tracks workspace history
type VersionControl interface {
	IsRepository(ctx context.Context) bool
	Init(ctx context.Context) error
	Status(ctx context.Context) ([]domain.FileStatus, error)
	AddAll(ctx context.Context) error
	Commit(ctx context.Context, message string) (string, error)
	History(ctx context.Context, limit int) ([]domain.CommitInfo, error)
}

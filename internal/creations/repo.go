package creations

import "context"

// Repo defines persistence operations for the creation ledger.
//
// ToggleLike must flip membership atomically at the storage layer and
// return the resulting likes set; read-modify-write against a stale
// snapshot is not an acceptable implementation.
type Repo interface {
	Create(ctx context.Context, cr Creation) error
	GetByID(ctx context.Context, id string) (Creation, error)
	ListByUser(ctx context.Context, userID string) ([]Creation, error)
	ListPublished(ctx context.Context) ([]Creation, error)
	ToggleLike(ctx context.Context, id, userID string) ([]string, error)

	ListCodeFixes(ctx context.Context, userID string) ([]CodeFixDetail, error)
	GetCodeFix(ctx context.Context, id, userID string) (CodeFixDetail, error)
	RecentCodeFixes(ctx context.Context, userID string, limit int) ([]CodeFixSummary, error)
	SearchCodeFixes(ctx context.Context, userID string, f SearchFilter) ([]CodeFixSearchRow, error)
	QualityStats(ctx context.Context, userID string) (QualityStats, error)
	DeleteCodeFix(ctx context.Context, id, userID string) error
}

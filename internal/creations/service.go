package creations

import (
	"context"
	"strings"

	"quickai-backend/internal/shared/telemetry"
)

// Like-toggle outcome messages shown to the dashboard.
const (
	msgLiked   = "Creation Liked"
	msgUnliked = "Creation Unliked"
)

// Service contains read and community logic for the creation ledger.
// Rows are written by the generation pipeline; this service never
// creates them.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// ListOwn returns all creations of the calling user, newest first.
func (s *Service) ListOwn(ctx context.Context, userID string) ([]Creation, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// ListPublished returns the community feed: every published creation,
// any owner, newest first.
func (s *Service) ListPublished(ctx context.Context) ([]Creation, error) {
	return s.Repo.ListPublished(ctx)
}

// LikeResult is the state of a creation's likes after a toggle.
type LikeResult struct {
	Liked      bool   `json:"liked"`
	TotalLikes int    `json:"totalLikes"`
	Message    string `json:"message"`
}

// ToggleLike flips the caller's like on a creation and reports the
// resulting state. Liked and the message reflect membership after the
// flip.
func (s *Service) ToggleLike(ctx context.Context, id, userID string) (LikeResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return LikeResult{}, ErrNotFound
	}

	likes, err := s.Repo.ToggleLike(ctx, id, userID)
	if err != nil {
		return LikeResult{}, err
	}

	res := LikeResult{TotalLikes: len(likes), Message: msgUnliked}
	for _, u := range likes {
		if u == userID {
			res.Liked = true
			res.Message = msgLiked
			break
		}
	}

	telemetry.Info("creations.like_toggled", map[string]any{
		"creation_id": id,
		"user_id":     userID,
		"liked":       res.Liked,
		"total_likes": res.TotalLikes,
	})

	return res, nil
}

// CodeFixes returns the caller's code-fix history.
func (s *Service) CodeFixes(ctx context.Context, userID string) ([]CodeFixDetail, error) {
	return s.Repo.ListCodeFixes(ctx, userID)
}

// CodeFix returns one code fix owned by the caller.
func (s *Service) CodeFix(ctx context.Context, id, userID string) (CodeFixDetail, error) {
	if strings.TrimSpace(id) == "" {
		return CodeFixDetail{}, ErrNotFound
	}
	return s.Repo.GetCodeFix(ctx, id, userID)
}

// RecentCodeFixes returns the caller's newest code fixes. The limit
// defaults to 5 and is capped at 50.
func (s *Service) RecentCodeFixes(ctx context.Context, userID string, limit int) ([]CodeFixSummary, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}
	return s.Repo.RecentCodeFixes(ctx, userID, limit)
}

// SearchCodeFixes filters the caller's code fixes.
func (s *Service) SearchCodeFixes(ctx context.Context, userID string, f SearchFilter) ([]CodeFixSearchRow, error) {
	f.Language = strings.TrimSpace(f.Language)
	f.Search = strings.TrimSpace(f.Search)
	return s.Repo.SearchCodeFixes(ctx, userID, f)
}

// QualityStats aggregates quality metrics over the caller's code fixes.
func (s *Service) QualityStats(ctx context.Context, userID string) (QualityStats, error) {
	return s.Repo.QualityStats(ctx, userID)
}

// DeleteCodeFix removes one of the caller's code fixes.
func (s *Service) DeleteCodeFix(ctx context.Context, id, userID string) error {
	if strings.TrimSpace(id) == "" {
		return ErrNotFound
	}
	if err := s.Repo.DeleteCodeFix(ctx, id, userID); err != nil {
		return err
	}
	telemetry.Info("creations.code_fix_deleted", map[string]any{
		"creation_id": id,
		"user_id":     userID,
	})
	return nil
}

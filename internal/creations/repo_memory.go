package creations

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo used in dev mode
// and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Creation // id -> creation
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Creation)}
}

// Create stores a new ledger row.
func (r *MemoryRepo) Create(ctx context.Context, cr Creation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cr.Likes == nil {
		cr.Likes = []string{}
	}
	r.data[cr.ID] = cr
	return nil
}

// GetByID returns one creation regardless of owner.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Creation, error) {
	if err := ctx.Err(); err != nil {
		return Creation{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	cr, ok := r.data[id]
	if !ok {
		return Creation{}, ErrNotFound
	}
	return cloneCreation(cr), nil
}

// ListByUser returns all of a user's creations, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Creation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Creation, 0)
	for _, cr := range r.data {
		if cr.UserID == userID {
			out = append(out, cloneCreation(cr))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// ListPublished returns all published creations, newest first.
func (r *MemoryRepo) ListPublished(ctx context.Context) ([]Creation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Creation, 0)
	for _, cr := range r.data {
		if cr.Publish {
			out = append(out, cloneCreation(cr))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// ToggleLike flips the user's membership in the likes set under the
// repo lock and returns the new set.
func (r *MemoryRepo) ToggleLike(ctx context.Context, id, userID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cr, ok := r.data[id]
	if !ok {
		return nil, ErrNotFound
	}

	likes := make([]string, 0, len(cr.Likes)+1)
	found := false
	for _, u := range cr.Likes {
		if u == userID {
			found = true
			continue
		}
		likes = append(likes, u)
	}
	if !found {
		likes = append(likes, userID)
	}

	cr.Likes = likes
	cr.UpdatedAt = time.Now().UTC()
	r.data[id] = cr

	out := make([]string, len(likes))
	copy(out, likes)
	return out, nil
}

// ListCodeFixes returns the user's code fixes, newest first.
func (r *MemoryRepo) ListCodeFixes(ctx context.Context, userID string) ([]CodeFixDetail, error) {
	rows, err := r.codeFixRows(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]CodeFixDetail, 0, len(rows))
	for _, cr := range rows {
		out = append(out, toCodeFixDetail(cr))
	}
	return out, nil
}

// GetCodeFix returns one code fix owned by the user.
func (r *MemoryRepo) GetCodeFix(ctx context.Context, id, userID string) (CodeFixDetail, error) {
	if err := ctx.Err(); err != nil {
		return CodeFixDetail{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	cr, ok := r.data[id]
	if !ok || cr.UserID != userID || cr.Type != TypeCodeFix {
		return CodeFixDetail{}, ErrNotFound
	}
	return toCodeFixDetail(cloneCreation(cr)), nil
}

// RecentCodeFixes returns up to limit newest code fixes as summaries.
func (r *MemoryRepo) RecentCodeFixes(ctx context.Context, userID string, limit int) ([]CodeFixSummary, error) {
	rows, err := r.codeFixRows(ctx, userID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]CodeFixSummary, 0, len(rows))
	for _, cr := range rows {
		out = append(out, toCodeFixSummary(cr))
	}
	return out, nil
}

// SearchCodeFixes filters the user's code fixes, newest first.
func (r *MemoryRepo) SearchCodeFixes(ctx context.Context, userID string, f SearchFilter) ([]CodeFixSearchRow, error) {
	rows, err := r.codeFixRows(ctx, userID)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(f.Search)
	out := make([]CodeFixSearchRow, 0)
	for _, cr := range rows {
		if f.Language != "" && cr.Language != f.Language {
			continue
		}
		if f.MinQuality != nil && (cr.QualityScore == nil || *cr.QualityScore < *f.MinQuality) {
			continue
		}
		if f.MaxQuality != nil && (cr.QualityScore == nil || *cr.QualityScore > *f.MaxQuality) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(cr.OriginalCode), needle) &&
			!strings.Contains(strings.ToLower(cr.Explanation), needle) {
			continue
		}
		out = append(out, CodeFixSearchRow{
			CodeFixSummary:     toCodeFixSummary(cr),
			ExplanationPreview: preview(cr.Explanation, 200),
		})
	}
	return out, nil
}

// QualityStats aggregates scored code fixes for the user.
func (r *MemoryRepo) QualityStats(ctx context.Context, userID string) (QualityStats, error) {
	rows, err := r.codeFixRows(ctx, userID)
	if err != nil {
		return QualityStats{}, err
	}

	type agg struct {
		count, sum, min, max int
	}
	byLang := make(map[string]*agg)
	overall := OverallStats{}
	var overallSum int

	for _, cr := range rows {
		if cr.QualityScore == nil {
			continue
		}
		score := *cr.QualityScore

		a, ok := byLang[cr.Language]
		if !ok {
			a = &agg{min: score, max: score}
			byLang[cr.Language] = a
		}
		a.count++
		a.sum += score
		if score < a.min {
			a.min = score
		}
		if score > a.max {
			a.max = score
		}

		overall.TotalCodeFixes++
		overallSum += score
		if score >= 80 {
			overall.HighQualityFixes++
		}
		if score < 60 {
			overall.LowQualityFixes++
		}
	}

	stats := QualityStats{LanguageStats: []LanguageStat{}, OverallStats: overall}
	for lang, a := range byLang {
		stats.LanguageStats = append(stats.LanguageStats, LanguageStat{
			Language:        lang,
			TotalFixes:      a.count,
			AvgQualityScore: float64(a.sum) / float64(a.count),
			MinQualityScore: a.min,
			MaxQualityScore: a.max,
		})
	}
	sort.Slice(stats.LanguageStats, func(i, j int) bool {
		return stats.LanguageStats[i].TotalFixes > stats.LanguageStats[j].TotalFixes
	})
	if overall.TotalCodeFixes > 0 {
		stats.OverallStats.OverallAvgQuality = float64(overallSum) / float64(overall.TotalCodeFixes)
	}
	return stats, nil
}

// DeleteCodeFix removes one code fix owned by the user.
func (r *MemoryRepo) DeleteCodeFix(ctx context.Context, id, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cr, ok := r.data[id]
	if !ok || cr.UserID != userID || cr.Type != TypeCodeFix {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *MemoryRepo) codeFixRows(ctx context.Context, userID string) ([]Creation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Creation, 0)
	for _, cr := range r.data {
		if cr.UserID == userID && cr.Type == TypeCodeFix {
			out = append(out, cloneCreation(cr))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(rows []Creation) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID > rows[j].ID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
}

func cloneCreation(cr Creation) Creation {
	out := cr
	out.Likes = append([]string(nil), cr.Likes...)
	out.IssuesFound = append([]Issue(nil), cr.IssuesFound...)
	return out
}

func toCodeFixDetail(cr Creation) CodeFixDetail {
	return CodeFixDetail{
		ID:           cr.ID,
		Language:     cr.Language,
		OriginalCode: cr.OriginalCode,
		FixedCode:    cr.Content,
		Explanation:  cr.Explanation,
		QualityScore: cr.QualityScore,
		IssuesFound:  cr.IssuesFound,
		CreatedAt:    cr.CreatedAt,
		UpdatedAt:    cr.UpdatedAt,
	}
}

func toCodeFixSummary(cr Creation) CodeFixSummary {
	return CodeFixSummary{
		ID:           cr.ID,
		Language:     cr.Language,
		QualityScore: cr.QualityScore,
		CreatedAt:    cr.CreatedAt,
		CodePreview:  preview(cr.OriginalCode, 100),
	}
}

func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

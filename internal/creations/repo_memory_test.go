package creations

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func seedRepo(t *testing.T) *MemoryRepo {
	t.Helper()
	repo := NewMemoryRepo()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := []Creation{
		{
			ID: "cr-1", UserID: "user-1", Prompt: "Write article about Go in Short (500-800 word)",
			Content: "Go is...", Type: TypeArticle, CreatedAt: base,
		},
		{
			ID: "cr-2", UserID: "user-1", Prompt: "sunset over mountains",
			Content: "https://files.example/img.png", Type: TypeImage, Publish: true,
			CreatedAt: base.Add(time.Hour),
		},
		{
			ID: "cr-3", UserID: "user-2", Prompt: "Fix this javascript code",
			Content: "const a = 1;", Type: TypeCodeFix, Language: "javascript",
			Explanation: "Declared with const.", QualityScore: intPtr(85),
			OriginalCode: "var a = 1;",
			IssuesFound:  []Issue{{Type: "style", Message: "var usage", Line: 1, Severity: "low"}},
			CreatedAt:    base.Add(2 * time.Hour),
		},
	}
	for _, cr := range rows {
		if err := repo.Create(context.Background(), cr); err != nil {
			t.Fatalf("Create(%s): %v", cr.ID, err)
		}
	}
	return repo
}

func TestMemoryRepoListByUserNewestFirst(t *testing.T) {
	repo := seedRepo(t)
	rows, err := repo.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	if rows[0].ID != "cr-2" || rows[1].ID != "cr-1" {
		t.Errorf("order = %s, %s", rows[0].ID, rows[1].ID)
	}
}

func TestMemoryRepoGetByID(t *testing.T) {
	repo := seedRepo(t)
	ctx := context.Background()

	cr, err := repo.GetByID(ctx, "cr-3")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if cr.UserID != "user-2" || cr.Type != TypeCodeFix {
		t.Fatalf("cr = %+v", cr)
	}

	// Mutating the returned copy must not leak into the store.
	cr.IssuesFound[0].Severity = "critical"
	again, err := repo.GetByID(ctx, "cr-3")
	if err != nil {
		t.Fatalf("GetByID again: %v", err)
	}
	if again.IssuesFound[0].Severity != "low" {
		t.Errorf("stored row mutated: %+v", again.IssuesFound)
	}

	if _, err := repo.GetByID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryRepoListPublishedCrossOwner(t *testing.T) {
	repo := seedRepo(t)
	rows, err := repo.ListPublished(context.Background())
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "cr-2" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestMemoryRepoToggleLikeFlips(t *testing.T) {
	repo := seedRepo(t)
	ctx := context.Background()

	likes, err := repo.ToggleLike(ctx, "cr-2", "user-9")
	if err != nil {
		t.Fatalf("ToggleLike add: %v", err)
	}
	if len(likes) != 1 || likes[0] != "user-9" {
		t.Fatalf("likes after add = %v", likes)
	}

	likes, err = repo.ToggleLike(ctx, "cr-2", "user-9")
	if err != nil {
		t.Fatalf("ToggleLike remove: %v", err)
	}
	if len(likes) != 0 {
		t.Fatalf("likes after remove = %v", likes)
	}
}

func TestMemoryRepoToggleLikeMissing(t *testing.T) {
	repo := seedRepo(t)
	if _, err := repo.ToggleLike(context.Background(), "nope", "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryRepoToggleLikeConcurrent(t *testing.T) {
	repo := seedRepo(t)
	ctx := context.Background()

	const users = 20
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			userID := string(rune('a' + n))
			if _, err := repo.ToggleLike(ctx, "cr-1", userID); err != nil {
				t.Errorf("ToggleLike(%s): %v", userID, err)
			}
		}(i)
	}
	wg.Wait()

	rows, err := repo.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	for _, cr := range rows {
		if cr.ID == "cr-1" && len(cr.Likes) != users {
			t.Fatalf("likes = %d, want %d", len(cr.Likes), users)
		}
	}
}

func TestMemoryRepoCodeFixScoping(t *testing.T) {
	repo := seedRepo(t)
	ctx := context.Background()

	if _, err := repo.GetCodeFix(ctx, "cr-3", "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign owner err = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetCodeFix(ctx, "cr-1", "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("non code-fix err = %v, want ErrNotFound", err)
	}

	detail, err := repo.GetCodeFix(ctx, "cr-3", "user-2")
	if err != nil {
		t.Fatalf("GetCodeFix: %v", err)
	}
	if detail.FixedCode != "const a = 1;" || detail.OriginalCode != "var a = 1;" {
		t.Errorf("detail = %+v", detail)
	}
}

func TestMemoryRepoDeleteCodeFixScoping(t *testing.T) {
	repo := seedRepo(t)
	ctx := context.Background()

	if err := repo.DeleteCodeFix(ctx, "cr-3", "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign delete err = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteCodeFix(ctx, "cr-3", "user-2"); err != nil {
		t.Fatalf("DeleteCodeFix: %v", err)
	}
	if err := repo.DeleteCodeFix(ctx, "cr-3", "user-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestMemoryRepoSearchCodeFixes(t *testing.T) {
	repo := seedRepo(t)
	ctx := context.Background()

	rows, err := repo.SearchCodeFixes(ctx, "user-2", SearchFilter{Search: "VAR"})
	if err != nil {
		t.Fatalf("SearchCodeFixes: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %+v", rows)
	}

	rows, err = repo.SearchCodeFixes(ctx, "user-2", SearchFilter{MinQuality: intPtr(90)})
	if err != nil {
		t.Fatalf("SearchCodeFixes: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows above quality 90, got %+v", rows)
	}
}

func TestMemoryRepoQualityStats(t *testing.T) {
	repo := seedRepo(t)
	ctx := context.Background()

	repo.Create(ctx, Creation{
		ID: "cr-4", UserID: "user-2", Type: TypeCodeFix, Language: "javascript",
		QualityScore: intPtr(55), CreatedAt: time.Now().UTC(),
	})

	stats, err := repo.QualityStats(ctx, "user-2")
	if err != nil {
		t.Fatalf("QualityStats: %v", err)
	}
	if stats.OverallStats.TotalCodeFixes != 2 {
		t.Errorf("total = %d", stats.OverallStats.TotalCodeFixes)
	}
	if stats.OverallStats.HighQualityFixes != 1 || stats.OverallStats.LowQualityFixes != 1 {
		t.Errorf("overall = %+v", stats.OverallStats)
	}
	if len(stats.LanguageStats) != 1 || stats.LanguageStats[0].AvgQualityScore != 70 {
		t.Errorf("language stats = %+v", stats.LanguageStats)
	}
}

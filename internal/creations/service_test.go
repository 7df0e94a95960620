package creations

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newServiceWithCreation(t *testing.T) (*Service, string) {
	t.Helper()
	repo := NewMemoryRepo()
	cr := Creation{
		ID:        "cr-1",
		UserID:    "owner-1",
		Prompt:    "sunset",
		Content:   "https://files.example/sunset.png",
		Type:      TypeImage,
		Publish:   true,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), cr); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return NewService(repo), cr.ID
}

func TestToggleLikeSequenceReturnsToOriginal(t *testing.T) {
	svc, id := newServiceWithCreation(t)
	ctx := context.Background()

	res, err := svc.ToggleLike(ctx, id, "user-9")
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !res.Liked || res.TotalLikes != 1 || res.Message != "Creation Liked" {
		t.Errorf("first toggle = %+v", res)
	}

	res, err = svc.ToggleLike(ctx, id, "user-9")
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if res.Liked || res.TotalLikes != 0 || res.Message != "Creation Unliked" {
		t.Errorf("second toggle = %+v", res)
	}

	rows, err := svc.ListPublished(ctx)
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(rows) != 1 || len(rows[0].Likes) != 0 {
		t.Fatalf("likes after double toggle = %+v", rows[0].Likes)
	}
}

func TestToggleLikeThreeTimesNoDuplicates(t *testing.T) {
	svc, id := newServiceWithCreation(t)
	ctx := context.Background()

	want := []struct {
		liked bool
		total int
		msg   string
	}{
		{true, 1, "Creation Liked"},
		{false, 0, "Creation Unliked"},
		{true, 1, "Creation Liked"},
	}
	for i, w := range want {
		res, err := svc.ToggleLike(ctx, id, "user-9")
		if err != nil {
			t.Fatalf("toggle %d: %v", i+1, err)
		}
		if res.Liked != w.liked || res.TotalLikes != w.total || res.Message != w.msg {
			t.Errorf("toggle %d = %+v, want %+v", i+1, res, w)
		}
	}

	rows, err := svc.ListPublished(ctx)
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	likes := rows[0].Likes
	if len(likes) != 1 || likes[0] != "user-9" {
		t.Fatalf("likes = %v, want single membership", likes)
	}
}

func TestToggleLikeBlankID(t *testing.T) {
	svc, _ := newServiceWithCreation(t)
	if _, err := svc.ToggleLike(context.Background(), "   ", "user-9"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListPublishedHidesUnpublishedFromOwner(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	repo.Create(ctx, Creation{
		ID: "cr-1", UserID: "owner-1", Type: TypeArticle,
		Content: "draft", CreatedAt: time.Now().UTC(),
	})
	svc := NewService(repo)

	rows, err := svc.ListPublished(ctx)
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("unpublished creation leaked into feed: %+v", rows)
	}

	own, err := svc.ListOwn(ctx, "owner-1")
	if err != nil {
		t.Fatalf("ListOwn: %v", err)
	}
	if len(own) != 1 {
		t.Fatalf("owner history = %+v", own)
	}
}

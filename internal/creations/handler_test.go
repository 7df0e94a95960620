package creations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, repo Repo, userID string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	})
	NewHandler(NewService(repo)).RegisterRoutes(router.Group("/api/user"))
	return router
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Liked      *bool           `json:"liked"`
	TotalLikes *int            `json:"totalLikes"`
	Creations  json.RawMessage `json:"creations"`
	Data       json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp.Code, env
}

func TestHandlerListOwnCreations(t *testing.T) {
	repo := seedRepo(t)
	router := newTestRouter(t, repo, "user-1")

	code, env := doRequest(t, router, http.MethodGet, "/api/user/get-user-creations", "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("code=%d env=%+v", code, env)
	}

	var rows []Creation
	if err := json.Unmarshal(env.Creations, &rows); err != nil {
		t.Fatalf("unmarshal creations: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	for _, cr := range rows {
		if cr.UserID != "user-1" {
			t.Errorf("foreign row leaked: %+v", cr)
		}
	}
}

func TestHandlerToggleLikeReportsState(t *testing.T) {
	repo := seedRepo(t)
	router := newTestRouter(t, repo, "user-9")

	code, env := doRequest(t, router, http.MethodPost, "/api/user/toggle-like-creation", `{"id":"cr-2"}`)
	if code != http.StatusOK || !env.Success || env.Message != "Creation Liked" {
		t.Fatalf("first toggle: code=%d env=%+v", code, env)
	}
	if env.Liked == nil || env.TotalLikes == nil {
		t.Fatalf("response must carry liked and totalLikes: %+v", env)
	}
	if !*env.Liked || *env.TotalLikes != 1 {
		t.Errorf("first toggle state: liked=%v totalLikes=%d", *env.Liked, *env.TotalLikes)
	}

	code, env = doRequest(t, router, http.MethodPost, "/api/user/toggle-like-creation", `{"id":"cr-2"}`)
	if code != http.StatusOK || !env.Success || env.Message != "Creation Unliked" {
		t.Fatalf("second toggle: code=%d env=%+v", code, env)
	}
	if env.Liked == nil || env.TotalLikes == nil {
		t.Fatalf("response must carry liked and totalLikes: %+v", env)
	}
	if *env.Liked || *env.TotalLikes != 0 {
		t.Errorf("second toggle state: liked=%v totalLikes=%d", *env.Liked, *env.TotalLikes)
	}
}

func TestHandlerToggleLikeMissingCreation(t *testing.T) {
	repo := seedRepo(t)
	router := newTestRouter(t, repo, "user-9")

	code, env := doRequest(t, router, http.MethodPost, "/api/user/toggle-like-creation", `{"id":"nope"}`)
	if code != http.StatusOK {
		t.Fatalf("domain failures keep HTTP 200, got %d", code)
	}
	if env.Success || env.Message != "Creation not found" {
		t.Fatalf("env = %+v", env)
	}
}

func TestHandlerCodeFixEndpoints(t *testing.T) {
	repo := seedRepo(t)
	router := newTestRouter(t, repo, "user-2")

	code, env := doRequest(t, router, http.MethodGet, "/api/user/code-fixes", "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("list: code=%d env=%+v", code, env)
	}
	var fixes []CodeFixDetail
	if err := json.Unmarshal(env.Data, &fixes); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if len(fixes) != 1 || fixes[0].FixedCode != "const a = 1;" {
		t.Fatalf("fixes = %+v", fixes)
	}

	code, env = doRequest(t, router, http.MethodGet, "/api/user/code-fixes/cr-3", "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("get: code=%d env=%+v", code, env)
	}

	code, env = doRequest(t, router, http.MethodDelete, "/api/user/code-fixes/cr-3", "")
	if code != http.StatusOK || !env.Success || env.Message != "Code fix deleted successfully" {
		t.Fatalf("delete: code=%d env=%+v", code, env)
	}

	code, env = doRequest(t, router, http.MethodGet, "/api/user/code-fixes/cr-3", "")
	if env.Success || env.Message != "Code fix not found" {
		t.Fatalf("get after delete: code=%d env=%+v", code, env)
	}
}

func TestHandlerDeleteCodeFixForeignOwner(t *testing.T) {
	repo := seedRepo(t)
	router := newTestRouter(t, repo, "user-1")

	code, env := doRequest(t, router, http.MethodDelete, "/api/user/code-fixes/cr-3", "")
	if code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if env.Success || env.Message != "Code fix not found or access denied" {
		t.Fatalf("env = %+v", env)
	}
}

func TestHandlerRecentCodeFixesLimit(t *testing.T) {
	repo := NewMemoryRepo()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		repo.Create(context.Background(), Creation{
			ID: "cr-" + string(rune('a'+i)), UserID: "user-1", Type: TypeCodeFix,
			Language: "go", OriginalCode: "code", CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	router := newTestRouter(t, repo, "user-1")

	code, env := doRequest(t, router, http.MethodGet, "/api/user/recent-code-fixes", "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("code=%d env=%+v", code, env)
	}
	var rows []CodeFixSummary
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("default limit should be 5, got %d", len(rows))
	}

	_, env = doRequest(t, router, http.MethodGet, "/api/user/recent-code-fixes?limit=2", "")
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("limit=2 should return 2, got %d", len(rows))
	}
}

func TestHandlerSearchCodeFixesFilters(t *testing.T) {
	repo := seedRepo(t)
	router := newTestRouter(t, repo, "user-2")

	code, env := doRequest(t, router, http.MethodGet, "/api/user/search-code-fixes?language=javascript&minQuality=80", "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("code=%d env=%+v", code, env)
	}
	var rows []CodeFixSearchRow
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %+v", rows)
	}

	_, env = doRequest(t, router, http.MethodGet, "/api/user/search-code-fixes?language=rust", "")
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty result, got %+v", rows)
	}
}

func TestHandlerQualityStats(t *testing.T) {
	repo := seedRepo(t)
	router := newTestRouter(t, repo, "user-2")

	code, env := doRequest(t, router, http.MethodGet, "/api/user/code-quality-stats", "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("code=%d env=%+v", code, env)
	}
	var stats QualityStats
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("unmarshal stats: %v", err)
	}
	if stats.OverallStats.TotalCodeFixes != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/julienpequegnot/blogrank/internal/blog"
	"github.com/julienpequegnot/blogrank/internal/database"
	"github.com/julienpequegnot/blogrank/internal/interest"
	"github.com/julienpequegnot/blogrank/internal/recommend"
	"github.com/julienpequegnot/blogrank/internal/scorer"
	"github.com/julienpequegnot/blogrank/internal/user"
	"github.com/rs/zerolog"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	server *Server
	blogs  []*blog.Blog
}

func setupTestServer(t *testing.T, opts Options) *fixture {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	users := user.NewRepository(db)
	blogs := blog.NewRepository(db)
	interests := interest.NewRepository(db)

	writer, _ := users.Add("writer", "")
	reader, _ := users.Add("reader", "")
	if _, err := interests.Set(reader.ID, []string{"sourdough baking"}); err != nil {
		t.Fatalf("failed to set interests: %v", err)
	}

	f := &fixture{}
	for _, nb := range []blog.NewBlog{
		{Title: "Chess openings", Content: "The sicilian defence explained", Tags: []string{"chess"}, Published: true},
		{Title: "Sourdough starter", Content: "Baking sourdough bread with a wild starter", Tags: []string{"baking"}, Published: true},
		{Title: "Draft on baking", Content: "unfinished sourdough notes", Tags: []string{"baking"}},
	} {
		nb.CreatedAt = testNow.AddDate(0, -3, 0)
		b, err := blogs.Add(writer.ID, nb)
		if err != nil {
			t.Fatalf("failed to add blog: %v", err)
		}
		f.blogs = append(f.blogs, b)
	}

	sopts := scorer.DefaultOptions()
	sopts.Now = func() time.Time { return testNow }
	svc := recommend.NewService(blogs, users, interests, scorer.New(sopts), recommend.Options{
		Now: func() time.Time { return testNow },
	})

	f.server = NewServer(svc, users, blogs, opts, zerolog.Nop())
	return f
}

func (f *fixture) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	f := setupTestServer(t, Options{})

	rec := f.do(t, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decode[map[string]string](t, rec); body["status"] != "ok" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestRecommended(t *testing.T) {
	f := setupTestServer(t, Options{})

	rec := f.do(t, http.MethodGet, "/api/v1/blogs/recommended?user=reader&published_only=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	page := decode[recommend.Page](t, rec)
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("expected 2 published blogs, got %+v", page)
	}
	if page.Items[0].Title != "Sourdough starter" {
		t.Errorf("expected sourdough blog first, got %q", page.Items[0].Title)
	}
	if page.Items[0].Username != "writer" {
		t.Errorf("expected author writer, got %q", page.Items[0].Username)
	}
	if page.Items[0].Score.Content <= 0 {
		t.Errorf("expected positive content score, got %+v", page.Items[0].Score)
	}
	if page.Page != 1 || page.Limit != 10 || page.TotalPages != 1 {
		t.Errorf("unexpected paging: page=%d limit=%d pages=%d", page.Page, page.Limit, page.TotalPages)
	}
}

func TestRecommendedTagsAndPaging(t *testing.T) {
	f := setupTestServer(t, Options{})

	rec := f.do(t, http.MethodGet, "/api/v1/blogs/recommended?tags=Baking&page=2&page_size=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	page := decode[recommend.Page](t, rec)
	if page.Total != 2 || len(page.Items) != 1 || page.TotalPages != 2 {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestRecommendedBadRequests(t *testing.T) {
	f := setupTestServer(t, Options{})

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"bad page", "/api/v1/blogs/recommended?page=abc", http.StatusBadRequest},
		{"zero page size", "/api/v1/blogs/recommended?page_size=0", http.StatusBadRequest},
		{"bad bool", "/api/v1/blogs/recommended?published_only=maybe", http.StatusBadRequest},
		{"unknown user", "/api/v1/blogs/recommended?user=ghost", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, tt.target)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			if body := decode[errorResponse](t, rec); body.Error == "" {
				t.Error("expected error message")
			}
		})
	}
}

func TestSearch(t *testing.T) {
	f := setupTestServer(t, Options{})

	rec := f.do(t, http.MethodGet, "/api/v1/blogs/search/SOURDOUGH?user=reader")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decode[searchResponse](t, rec)
	if resp.Total != 2 {
		t.Fatalf("expected 2 hits, got %d", resp.Total)
	}
	for _, hit := range resp.Items {
		if !strings.Contains(hit.Snippet, "<b>") {
			t.Errorf("expected highlighted snippet, got %q", hit.Snippet)
		}
	}

	rec = f.do(t, http.MethodGet, "/api/v1/blogs/search/%20")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank query, got %d", rec.Code)
	}
}

func TestRecommendedHugePageIsEmpty(t *testing.T) {
	f := setupTestServer(t, Options{})

	rec := f.do(t, http.MethodGet, "/api/v1/blogs/recommended?page=922337203685477580")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	page := decode[recommend.Page](t, rec)
	if page.Total != 3 || len(page.Items) != 0 {
		t.Errorf("expected empty page over 3 blogs, got total=%d items=%d", page.Total, len(page.Items))
	}
}

func TestScore(t *testing.T) {
	f := setupTestServer(t, Options{})

	rec := f.do(t, http.MethodGet, "/api/v1/blogs/2/score?user=reader")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	scored := decode[recommend.ScoredBlog](t, rec)
	if scored.ID != f.blogs[1].ID || scored.Score.Content <= 0 {
		t.Errorf("unexpected score: %+v", scored)
	}

	if rec := f.do(t, http.MethodGet, "/api/v1/blogs/999/score"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing blog, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/v1/blogs/abc/score"); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad id, got %d", rec.Code)
	}
}

func TestLikeToggle(t *testing.T) {
	f := setupTestServer(t, Options{})

	rec := f.do(t, http.MethodPost, "/api/v1/likes/blogs/1?user=reader")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	liked := decode[blog.LikeResult](t, rec)
	if liked.Kind != blog.LikeAdded || liked.Data == nil {
		t.Errorf("expected like added, got %+v", liked)
	}

	rec = f.do(t, http.MethodPost, "/api/v1/likes/blogs/1?user=reader")
	removed := decode[blog.LikeResult](t, rec)
	if removed.Kind != blog.LikeRemoved || removed.Message == "" {
		t.Errorf("expected like removed, got %+v", removed)
	}

	if rec := f.do(t, http.MethodPost, "/api/v1/likes/blogs/1"); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without user, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPost, "/api/v1/likes/blogs/999?user=reader"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing blog, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := setupTestServer(t, Options{})

	f.do(t, http.MethodGet, "/health")
	rec := f.do(t, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "blogrank_api_requests_total") {
		t.Error("expected api request counter in metrics output")
	}
}

func TestRateLimit(t *testing.T) {
	f := setupTestServer(t, Options{RequestsPerMinute: 2})

	for i := 0; i < 2; i++ {
		if rec := f.do(t, http.MethodGet, "/health"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
	if rec := f.do(t, http.MethodGet, "/health"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
}

func TestTrendingTags(t *testing.T) {
	f := setupTestServer(t, Options{})

	rec := f.do(t, http.MethodGet, "/api/v1/tags/trending?days=365&limit=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decode[struct {
		Days int `json:"days"`
		Tags []struct {
			Tag   string `json:"tag"`
			Count int    `json:"count"`
		} `json:"tags"`
	}](t, rec)
	if body.Days != 365 || len(body.Tags) != 2 {
		t.Fatalf("unexpected trends: %+v", body)
	}
	// the baking draft is unpublished, so each tag has one blog
	for _, tag := range body.Tags {
		if tag.Count != 1 {
			t.Errorf("expected one published blog for %s, got %d", tag.Tag, tag.Count)
		}
	}

	if rec := f.do(t, http.MethodGet, "/api/v1/tags/trending?days=-1"); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for negative days, got %d", rec.Code)
	}
}

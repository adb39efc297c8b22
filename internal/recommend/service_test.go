package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/julienpequegnot/blogrank/internal/blog"
	"github.com/julienpequegnot/blogrank/internal/database"
	"github.com/julienpequegnot/blogrank/internal/interest"
	"github.com/julienpequegnot/blogrank/internal/scorer"
	"github.com/julienpequegnot/blogrank/internal/user"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeBlogs struct {
	blogs      []blog.Blog
	err        error
	lastFilter blog.Filter
}

func (f *fakeBlogs) FetchBlogs(_ context.Context, filter blog.Filter) ([]blog.Blog, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return append([]blog.Blog(nil), f.blogs...), nil
}

func (f *fakeBlogs) Get(_ context.Context, id int64) (*blog.Blog, error) {
	for _, b := range f.blogs {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", blog.ErrNotFound, id)
}

type fakeAuthors struct {
	names map[int64]string
	calls atomic.Int32
}

func (f *fakeAuthors) Username(_ context.Context, userID int64) (string, error) {
	f.calls.Add(1)
	name, ok := f.names[userID]
	if !ok {
		return "", user.ErrNotFound
	}
	return name, nil
}

type fakeInterests struct {
	interests []string
	err       error
}

func (f *fakeInterests) Interests(context.Context, int64) ([]string, error) {
	return f.interests, f.err
}

func newTestService(blogs BlogSource, authors AuthorSource, interests InterestSource, opts Options) *Service {
	sopts := scorer.DefaultOptions()
	sopts.Now = func() time.Time { return testNow }
	return NewService(blogs, authors, interests, scorer.New(sopts), opts)
}

func sampleBlogs() []blog.Blog {
	return []blog.Blog{
		{ID: 1, UserID: 10, Title: "Pasta at home", Content: "Simple carbonara recipe", Tags: []string{"cooking"}, Published: true, CreatedAt: testNow.AddDate(0, 0, -60)},
		{ID: 2, UserID: 20, Title: "Golang channels", Content: "Golang concurrency with channels and goroutines", Tags: []string{"golang"}, Published: true, CreatedAt: testNow.AddDate(0, 0, -60)},
		{ID: 3, UserID: 10, Title: "Gardening basics", Content: "Tomatoes need sun", Published: true, CreatedAt: testNow.AddDate(0, 0, -60)},
	}
}

func TestRecommendRanksByInterests(t *testing.T) {
	blogs := &fakeBlogs{blogs: sampleBlogs()}
	authors := &fakeAuthors{names: map[int64]string{10: "ana", 20: "bo"}}
	svc := newTestService(blogs, authors, &fakeInterests{interests: []string{"golang concurrency"}}, Options{})

	page, err := svc.Recommend(context.Background(), Request{UserID: 1, PublishedOnly: true, Tags: []string{"golang", "cooking"}})
	if err != nil {
		t.Fatalf("failed to recommend: %v", err)
	}

	if page.Total != 3 || len(page.Items) != 3 {
		t.Fatalf("expected 3 items, got total=%d items=%d", page.Total, len(page.Items))
	}
	if page.Items[0].ID != 2 {
		t.Errorf("expected golang blog first, got %d", page.Items[0].ID)
	}
	if page.Items[0].Username != "bo" || page.Items[1].Username != "ana" {
		t.Errorf("unexpected usernames: %s, %s", page.Items[0].Username, page.Items[1].Username)
	}
	for i := 1; i < len(page.Items); i++ {
		if page.Items[i-1].Score.Total < page.Items[i].Score.Total {
			t.Errorf("items not sorted by total: %v", page.Items)
		}
	}
	if got := authors.calls.Load(); got != 2 {
		t.Errorf("expected one lookup per distinct author, got %d", got)
	}
	if !blogs.lastFilter.PublishedOnly || len(blogs.lastFilter.Tags) != 2 || blogs.lastFilter.Query != "" {
		t.Errorf("unexpected filter: %+v", blogs.lastFilter)
	}
}

func TestRecommendWithoutInterestsUsesEngagement(t *testing.T) {
	tests := []struct {
		name      string
		userID    int64
		interests *fakeInterests
	}{
		{"anonymous", 0, &fakeInterests{interests: []string{"golang"}}},
		{"lookup failure", 1, &fakeInterests{err: errors.New("database is locked")}},
		{"empty profile", 1, &fakeInterests{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&fakeBlogs{blogs: sampleBlogs()}, nil, tt.interests, Options{})

			page, err := svc.Recommend(context.Background(), Request{UserID: tt.userID})
			if err != nil {
				t.Fatalf("failed to recommend: %v", err)
			}
			for _, item := range page.Items {
				if item.Score.Content != 0 || item.Score.Total != item.Score.Engagement {
					t.Errorf("blog %d: expected engagement-only score, got %+v", item.ID, item.Score)
				}
			}
			// equal engagement keeps storage order
			if page.Items[0].ID != 1 || page.Items[1].ID != 2 || page.Items[2].ID != 3 {
				t.Errorf("expected stable order 1,2,3, got %d,%d,%d", page.Items[0].ID, page.Items[1].ID, page.Items[2].ID)
			}
		})
	}
}

func TestAuthorLookupFailureIsUnknown(t *testing.T) {
	authors := &fakeAuthors{names: map[int64]string{10: "ana"}}
	svc := newTestService(&fakeBlogs{blogs: sampleBlogs()}, authors, nil, Options{Concurrency: 1})

	page, err := svc.Recommend(context.Background(), Request{})
	if err != nil {
		t.Fatalf("failed to recommend: %v", err)
	}

	for _, item := range page.Items {
		want := "ana"
		if item.UserID == 20 {
			want = UnknownAuthor
		}
		if item.Username != want {
			t.Errorf("blog %d: expected author %q, got %q", item.ID, want, item.Username)
		}
	}
}

func TestBlogFetchErrorIsReturned(t *testing.T) {
	fetchErr := errors.New("disk I/O error")
	svc := newTestService(&fakeBlogs{err: fetchErr}, nil, nil, Options{})

	_, err := svc.Recommend(context.Background(), Request{})
	if !errors.Is(err, fetchErr) {
		t.Errorf("expected wrapped fetch error, got %v", err)
	}
}

func TestRecommendPagination(t *testing.T) {
	var blogs []blog.Blog
	for i := 1; i <= 25; i++ {
		blogs = append(blogs, blog.Blog{ID: int64(i), UserID: 1, Title: fmt.Sprintf("Blog %d", i), Content: "text", CreatedAt: testNow.AddDate(-1, 0, 0)})
	}
	svc := newTestService(&fakeBlogs{blogs: blogs}, nil, nil, Options{})
	ctx := context.Background()

	tests := []struct {
		name       string
		page, size int
		wantPage   int
		wantLimit  int
		wantItems  int
		wantFirst  int64
	}{
		{"second page", 2, 10, 2, 10, 10, 11},
		{"last partial page", 3, 10, 3, 10, 5, 21},
		{"past the end", 4, 10, 4, 10, 0, 0},
		{"page below one", 0, 10, 1, 10, 10, 1},
		{"default size", 1, 0, 1, 10, 10, 1},
		{"capped size", 1, 1000, 1, 100, 25, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.Recommend(ctx, Request{Page: tt.page, PageSize: tt.size})
			if err != nil {
				t.Fatalf("failed to recommend: %v", err)
			}
			if page.Total != 25 {
				t.Errorf("expected total 25, got %d", page.Total)
			}
			if page.Page != tt.wantPage || page.Limit != tt.wantLimit {
				t.Errorf("expected page=%d limit=%d, got page=%d limit=%d", tt.wantPage, tt.wantLimit, page.Page, page.Limit)
			}
			if len(page.Items) != tt.wantItems {
				t.Fatalf("expected %d items, got %d", tt.wantItems, len(page.Items))
			}
			if page.Items == nil {
				t.Error("expected non-nil items slice")
			}
			if tt.wantItems > 0 && page.Items[0].ID != tt.wantFirst {
				t.Errorf("expected first blog %d, got %d", tt.wantFirst, page.Items[0].ID)
			}
			if want := (25 + page.Limit - 1) / page.Limit; page.TotalPages != want {
				t.Errorf("expected %d total pages, got %d", want, page.TotalPages)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	blogs := &fakeBlogs{blogs: sampleBlogs()}
	svc := newTestService(blogs, nil, nil, Options{MaxCorpus: 50})
	ctx := context.Background()

	if _, err := svc.Search(ctx, Request{Query: "   "}); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}

	if _, err := svc.Search(ctx, Request{Query: " golang "}); err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if blogs.lastFilter.Query != "golang" || blogs.lastFilter.Limit != 50 {
		t.Errorf("unexpected filter: %+v", blogs.lastFilter)
	}
}

func TestScoreBlog(t *testing.T) {
	authors := &fakeAuthors{names: map[int64]string{20: "bo"}}
	svc := newTestService(&fakeBlogs{blogs: sampleBlogs()}, authors, &fakeInterests{interests: []string{"golang"}}, Options{})
	ctx := context.Background()

	scored, err := svc.ScoreBlog(ctx, 1, 2)
	if err != nil {
		t.Fatalf("failed to score blog: %v", err)
	}
	if scored.Username != "bo" {
		t.Errorf("expected author bo, got %s", scored.Username)
	}
	if scored.Score.Content <= 0 {
		t.Errorf("expected positive content score, got %+v", scored.Score)
	}
	if want := scored.Score.Content*0.8 + scored.Score.Engagement*0.2; scored.Score.Total != want {
		t.Errorf("expected total %f, got %f", want, scored.Score.Total)
	}

	_, err = svc.ScoreBlog(ctx, 1, 99)
	if !errors.Is(err, blog.ErrNotFound) {
		t.Errorf("expected blog.ErrNotFound, got %v", err)
	}
}

func TestScoreBlogDegradesBadScores(t *testing.T) {
	sopts := scorer.DefaultOptions()
	sopts.Now = func() time.Time { return testNow }
	sopts.ContentWeight = math.Inf(1)
	svc := NewService(&fakeBlogs{blogs: sampleBlogs()}, nil, &fakeInterests{interests: []string{"golang"}}, scorer.New(sopts), Options{})

	scored, err := svc.ScoreBlog(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("failed to score blog: %v", err)
	}
	if !scored.Degraded {
		t.Error("expected degraded score")
	}
	if math.IsNaN(scored.Score.Total) || math.IsInf(scored.Score.Total, 0) {
		t.Errorf("expected finite total, got %f", scored.Score.Total)
	}
	if scored.Score.Total != scored.Score.Engagement {
		t.Errorf("expected engagement-only total, got %+v", scored.Score)
	}
}

func TestServiceWithRepositories(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	users := user.NewRepository(db)
	blogs := blog.NewRepository(db)
	interests := interest.NewRepository(db)

	writer, _ := users.Add("writer", "")
	reader, _ := users.Add("reader", "")

	blogs.Add(writer.ID, blog.NewBlog{Title: "Knitting patterns", Content: "wool and needles", Published: true, CreatedAt: testNow.AddDate(0, -2, 0)})
	blogs.Add(writer.ID, blog.NewBlog{Title: "Trail running", Content: "mountain trail running shoes", Tags: []string{"running"}, Published: true, CreatedAt: testNow.AddDate(0, -2, 0)})
	blogs.Add(writer.ID, blog.NewBlog{Title: "Unpublished running notes", Content: "trail running draft", CreatedAt: testNow.AddDate(0, -2, 0)})

	if _, err := interests.Set(reader.ID, []string{"trail running"}); err != nil {
		t.Fatalf("failed to set interests: %v", err)
	}

	svc := newTestService(blogs, users, interests, Options{})

	page, err := svc.Recommend(context.Background(), Request{UserID: reader.ID, PublishedOnly: true})
	if err != nil {
		t.Fatalf("failed to recommend: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 published blogs, got %d", page.Total)
	}
	if page.Items[0].Title != "Trail running" || page.Items[0].Username != "writer" {
		t.Errorf("expected trail running by writer first, got %q by %q", page.Items[0].Title, page.Items[0].Username)
	}

	found, err := svc.Search(context.Background(), Request{UserID: reader.ID, Query: "RUNNING"})
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if found.Total != 2 {
		t.Errorf("expected 2 search hits, got %d", found.Total)
	}
}

func TestTrendingTags(t *testing.T) {
	blogs := &fakeBlogs{blogs: []blog.Blog{
		{ID: 1, Tags: []string{"golang"}, Published: true, CreatedAt: testNow.AddDate(0, 0, -1)},
		{ID: 2, Tags: []string{"golang", "rust"}, Published: true, CreatedAt: testNow.AddDate(0, 0, -2)},
		{ID: 3, Tags: []string{"cooking"}, Published: true, CreatedAt: testNow.AddDate(0, -3, 0)},
	}}
	svc := newTestService(blogs, nil, nil, Options{Now: func() time.Time { return testNow }})

	got, err := svc.TrendingTags(context.Background(), 7, 2)
	if err != nil {
		t.Fatalf("failed to compute trends: %v", err)
	}
	if len(got) != 2 || got[0].Tag != "golang" || got[1].Tag != "rust" {
		t.Errorf("unexpected trends: %+v", got)
	}
	if !blogs.lastFilter.PublishedOnly {
		t.Error("expected trends to use published blogs only")
	}
}

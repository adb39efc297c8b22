package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/julienpequegnot/blogrank/internal/blog"
	"github.com/julienpequegnot/blogrank/internal/recommend"
	"github.com/julienpequegnot/blogrank/internal/search"
	"github.com/julienpequegnot/blogrank/internal/textnorm"
	"github.com/julienpequegnot/blogrank/internal/user"
)

type errorResponse struct {
	Error string `json:"error"`
}

type searchHit struct {
	recommend.ScoredBlog
	Snippet string `json:"snippet"`
}

type searchResponse struct {
	Query      string      `json:"query"`
	Items      []searchHit `json:"items"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /api/v1/blogs/recommended?user=&page=&page_size=&published_only=&tags=
func (s *Server) handleRecommended(w http.ResponseWriter, r *http.Request) {
	req, ok := s.parseRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	page, err := s.svc.Recommend(ctx, req)
	if err != nil {
		s.writeServerError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, page)
}

// GET /api/v1/blogs/search/{query}?user=&page=&page_size=&published_only=&tags=
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, ok := s.parseRequest(w, r)
	if !ok {
		return
	}
	req.Query = chi.URLParam(r, "query")
	if unescaped, err := url.PathUnescape(req.Query); err == nil {
		req.Query = unescaped
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	page, err := s.svc.Search(ctx, req)
	if errors.Is(err, recommend.ErrEmptyQuery) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.writeServerError(w, err)
		return
	}

	resp := searchResponse{
		Query:      req.Query,
		Items:      make([]searchHit, 0, len(page.Items)),
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}
	for _, item := range page.Items {
		resp.Items = append(resp.Items, searchHit{
			ScoredBlog: item,
			Snippet:    search.Snippet(textnorm.PlainText(item.Content), req.Query, search.DefaultRadius, search.HTMLMark),
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// GET /api/v1/blogs/{id}/score?user=
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	blogID, ok := s.blogID(w, r)
	if !ok {
		return
	}
	userID, ok := s.userID(w, r, false)
	if !ok {
		return
	}

	scored, err := s.svc.ScoreBlog(r.Context(), userID, blogID)
	if errors.Is(err, blog.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "blog not found")
		return
	}
	if err != nil {
		s.writeServerError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, scored)
}

// POST /api/v1/likes/blogs/{id}?user=
func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	blogID, ok := s.blogID(w, r)
	if !ok {
		return
	}
	userID, ok := s.userID(w, r, true)
	if !ok {
		return
	}

	result, err := s.likes.ToggleLike(r.Context(), blogID, userID)
	if errors.Is(err, blog.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "blog not found")
		return
	}
	if err != nil {
		s.writeServerError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// GET /api/v1/tags/trending?days=&limit=
func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	days, limit := 30, 10
	for name, dst := range map[string]*int{"days": &days, "limit": &limit} {
		v := r.URL.Query().Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, name+" must be a positive integer")
			return
		}
		*dst = n
	}

	tags, err := s.svc.TrendingTags(r.Context(), days, limit)
	if err != nil {
		s.writeServerError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"days": days, "tags": tags})
}

func (s *Server) parseRequest(w http.ResponseWriter, r *http.Request) (recommend.Request, bool) {
	q := r.URL.Query()
	req := recommend.Request{
		Page: 1,
		Tags: blog.ParseTags(q.Get("tags")),
	}

	for name, dst := range map[string]*int{"page": &req.Page, "page_size": &req.PageSize} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, name+" must be a positive integer")
			return req, false
		}
		*dst = n
	}

	if v := q.Get("published_only"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "published_only must be a boolean")
			return req, false
		}
		req.PublishedOnly = b
	}

	userID, ok := s.userID(w, r, false)
	if !ok {
		return req, false
	}
	req.UserID = userID
	return req, true
}

// userID resolves the ?user= username. Without it the request is anonymous
// unless required is set.
func (s *Server) userID(w http.ResponseWriter, r *http.Request, required bool) (int64, bool) {
	name := r.URL.Query().Get("user")
	if name == "" {
		if required {
			s.writeError(w, http.StatusBadRequest, "user is required")
			return 0, false
		}
		return 0, true
	}

	u, err := s.users.GetByUsername(name)
	if errors.Is(err, user.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "user not found")
		return 0, false
	}
	if err != nil {
		s.writeServerError(w, err)
		return 0, false
	}
	return u.ID, true
}

func (s *Server) blogID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		s.writeError(w, http.StatusBadRequest, "invalid blog id")
		return 0, false
	}
	return id, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) writeServerError(w http.ResponseWriter, err error) {
	s.log.Error().Err(err).Msg("request failed")
	s.writeError(w, http.StatusInternalServerError, "internal error")
}

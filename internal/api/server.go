// Package api exposes the ranking service over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/julienpequegnot/blogrank/internal/blog"
	"github.com/julienpequegnot/blogrank/internal/metrics"
	"github.com/julienpequegnot/blogrank/internal/recommend"
	"github.com/julienpequegnot/blogrank/internal/user"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const requestTimeout = 10 * time.Second

type UserLookup interface {
	GetByUsername(username string) (*user.User, error)
}

type Liker interface {
	ToggleLike(ctx context.Context, blogID, userID int64) (*blog.LikeResult, error)
}

type Options struct {
	RequestsPerMinute int // per client IP, 0 disables the limit
}

type Server struct {
	svc    *recommend.Service
	users  UserLookup
	likes  Liker
	log    zerolog.Logger
	router chi.Router
}

func NewServer(svc *recommend.Service, users UserLookup, likes Liker, opts Options, log zerolog.Logger) *Server {
	s := &Server{
		svc:   svc,
		users: users,
		likes: likes,
		log:   log,
	}
	s.router = s.routes(opts)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(opts Options) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)
	if opts.RequestsPerMinute > 0 {
		r.Use(httprate.LimitByIP(opts.RequestsPerMinute, time.Minute))
	}

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/blogs/recommended", s.handleRecommended)
		r.Get("/blogs/search/{query}", s.handleSearch)
		r.Get("/blogs/{id}/score", s.handleScore)
		r.Post("/likes/blogs/{id}", s.handleLike)
		r.Get("/tags/trending", s.handleTrending)
	})

	return r
}

// instrument records request metrics under the matched route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		metrics.RecordAPIRequest(r.Method, route, status, time.Since(start))
		s.log.Debug().
			Str("method", r.Method).
			Str("route", route).
			Int("status", status).
			Dur("took", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

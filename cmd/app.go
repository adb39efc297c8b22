package cmd

import (
	"time"

	"github.com/julienpequegnot/blogrank/internal/blog"
	"github.com/julienpequegnot/blogrank/internal/config"
	"github.com/julienpequegnot/blogrank/internal/database"
	"github.com/julienpequegnot/blogrank/internal/interest"
	"github.com/julienpequegnot/blogrank/internal/logging"
	"github.com/julienpequegnot/blogrank/internal/recommend"
	"github.com/julienpequegnot/blogrank/internal/scorer"
	"github.com/julienpequegnot/blogrank/internal/user"
	"github.com/rs/zerolog"
)

// app holds the collaborators shared by the commands.
type app struct {
	cfg       *config.Config
	db        *database.DB
	log       zerolog.Logger
	users     *user.Repository
	blogs     *blog.Repository
	interests *interest.Repository
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := database.New(config.DBPath())
	if err != nil {
		return nil, err
	}

	log := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return &app{
		cfg:       cfg,
		db:        db,
		log:       log,
		users:     user.NewRepository(db),
		blogs:     blog.NewRepository(db).WithLogger(logging.Component(log, "blog")),
		interests: interest.NewRepository(db),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) scorer() *scorer.Scorer {
	return scorer.New(scorerOptions(a.cfg, logging.Component(a.log, "scorer")))
}

func (a *app) service() *recommend.Service {
	return recommend.NewService(a.blogs, a.users, a.interests, a.scorer(), recommend.Options{
		Concurrency: a.cfg.Lookup.Concurrency,
		MaxCorpus:   a.cfg.Scoring.MaxCorpus,
		Logger:      logging.Component(a.log, "recommend"),
	})
}

// userID resolves an optional --user flag; empty means anonymous.
func (a *app) userID(username string) (int64, error) {
	if username == "" {
		return 0, nil
	}
	u, err := a.users.GetByUsername(username)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

func scorerOptions(cfg *config.Config, log zerolog.Logger) scorer.Options {
	opts := scorer.DefaultOptions()
	opts.ContentWeight = cfg.Scoring.Content
	opts.EngagementWeight = cfg.Scoring.Engagement
	opts.Vectorizer.NGramMax = cfg.Scoring.NGramMax
	opts.Vectorizer.MaxFeatures = cfg.Scoring.MaxFeatures
	opts.Vectorizer.MinDF = cfg.Scoring.MinDF
	opts.Vectorizer.MaxDF = cfg.Scoring.MaxDF
	opts.FlattenRichText = cfg.Scoring.FlattenRichText
	opts.DefaultPageSize = cfg.Scoring.PageSize
	opts.MaxPageSize = cfg.Scoring.MaxPageSize
	opts.Now = time.Now
	opts.Logger = log
	return opts
}

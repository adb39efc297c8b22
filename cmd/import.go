package cmd

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/julienpequegnot/blogrank/internal/feed"
	"github.com/julienpequegnot/blogrank/internal/metrics"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <feed-url>...",
	Short: "Import blogs from RSS or Atom feeds",
	Long: `Downloads the given feeds and stores every new entry as a published blog.
Entry categories become tags. Entries already imported are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

var (
	importConcurrency int
	importAuthor      string
	importDiscover    bool
)

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().IntVarP(&importConcurrency, "concurrency", "c", 5, "Number of concurrent fetches")
	importCmd.Flags().StringVarP(&importAuthor, "author", "a", "", "Owner of imported blogs (default: fetch.author)")
	importCmd.Flags().BoolVar(&importDiscover, "discover", false, "Treat arguments as site URLs and discover their feeds")
}

type fetchResult struct {
	url   string
	items []feed.Item
	err   error
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	authorName := importAuthor
	if authorName == "" {
		authorName = a.cfg.Fetch.Author
	}
	owner, err := a.users.Ensure(authorName)
	if err != nil {
		return fmt.Errorf("failed to resolve author: %w", err)
	}

	fetcher := feed.NewFetcher(time.Duration(a.cfg.Fetch.TimeoutSeconds)*time.Second, a.cfg.Fetch.UserAgent)
	ctx := context.Background()

	var wg sync.WaitGroup
	sem := make(chan struct{}, max(importConcurrency, 1))
	results := make([]fetchResult, len(args))

	for i, target := range args {
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			feedURL := target
			if importDiscover {
				discovered, err := fetcher.DiscoverFeed(ctx, target)
				if err != nil {
					results[i] = fetchResult{url: target, err: err}
					return
				}
				feedURL = discovered
			}

			fmt.Printf("Fetching %s...\n", feedURL)
			items, err := fetcher.FetchFeed(ctx, feedURL)
			results[i] = fetchResult{url: feedURL, items: items, err: err}
		}(i, target)
	}

	wg.Wait()

	totalNew := 0
	for _, r := range results {
		if r.err != nil {
			fmt.Printf("  Error: %s: %v\n", r.url, r.err)
			continue
		}

		newCount := 0
		for _, item := range r.items {
			if item.URL != "" {
				if exists, _ := a.blogs.ExistsBySourceURL(item.URL); exists {
					continue
				}
			}

			if _, err := a.blogs.Add(owner.ID, item.NewBlog()); err != nil {
				a.log.Warn().Err(err).Str("title", item.Title).Msg("failed to save feed item")
				continue
			}
			metrics.FeedItemsImported.Inc()
			newCount++
		}

		fmt.Printf("  %s: %d new blogs\n", r.url, newCount)
		totalNew += newCount
	}

	fmt.Printf("\nTotal: %d new blogs imported as %s\n", totalNew, owner.Username)
	return nil
}

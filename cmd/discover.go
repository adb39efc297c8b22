package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/julienpequegnot/blogrank/internal/config"
	"github.com/julienpequegnot/blogrank/internal/feed"
	"github.com/spf13/cobra"
)

var discoverCmd = &cobra.Command{
	Use:   "discover <site-url>...",
	Short: "Find the feed URL of blogs",
	Long:  `Looks for RSS or Atom feeds advertised by a site or served at common paths.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fetcher := feed.NewFetcher(time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second, cfg.Fetch.UserAgent)

	found := 0
	for _, site := range args {
		feedURL, err := fetcher.DiscoverFeed(context.Background(), site)
		if err != nil {
			fmt.Printf("%s → %v\n", site, err)
			continue
		}
		fmt.Printf("%s → %s\n", site, feedURL)
		found++
	}

	if found > 0 {
		fmt.Println("\nImport with 'blogrank import <feed-url>'.")
	}
	return nil
}

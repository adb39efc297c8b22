package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/julienpequegnot/blogrank/internal/blog"
	"github.com/julienpequegnot/blogrank/internal/textnorm"
	"github.com/mmcdole/gofeed"
)

// Item is a feed entry converted to blog fields.
type Item struct {
	URL         string
	Title       string
	Author      string
	PublishedAt time.Time
	Content     string // plain text
	Tags        []string
	ImageURL    string
}

type Fetcher struct {
	parser *gofeed.Parser
	client *http.Client
}

func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	client := &http.Client{Timeout: timeout}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent
	return &Fetcher{
		parser: parser,
		client: client,
	}
}

func (f *Fetcher) FetchFeed(ctx context.Context, feedURL string) ([]Item, error) {
	parsed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return Items(parsed), nil
}

// ParseString converts a feed document held in memory.
func (f *Fetcher) ParseString(data string) ([]Item, error) {
	parsed, err := f.parser.ParseString(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return Items(parsed), nil
}

// Items converts parsed feed entries, skipping those without a title.
func Items(parsed *gofeed.Feed) []Item {
	var items []Item
	for _, entry := range parsed.Items {
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			continue
		}

		item := Item{
			URL:   entry.Link,
			Title: title,
			Tags:  blog.NormalizeTags(entry.Categories),
		}

		if entry.Author != nil {
			item.Author = entry.Author.Name
		} else if len(parsed.Authors) > 0 {
			item.Author = parsed.Authors[0].Name
		}

		if entry.PublishedParsed != nil {
			item.PublishedAt = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			item.PublishedAt = *entry.UpdatedParsed
		} else {
			item.PublishedAt = time.Now()
		}

		body := entry.Content
		if body == "" {
			body = entry.Description
		}
		item.Content = textnorm.StripHTML(body)
		if item.Content == "" {
			item.Content = title
		}

		if entry.Image != nil {
			item.ImageURL = entry.Image.URL
		}

		items = append(items, item)
	}
	return items
}

// NewBlog maps the item onto a published blog.
func (i Item) NewBlog() blog.NewBlog {
	return blog.NewBlog{
		Title:        i.Title,
		Content:      i.Content,
		Tags:         i.Tags,
		Published:    true,
		MainImageURL: i.ImageURL,
		SourceURL:    i.URL,
		CreatedAt:    i.PublishedAt,
	}
}

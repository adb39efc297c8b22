// cmd/search.go
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/blogrank/internal/blog"
	"github.com/julienpequegnot/blogrank/internal/recommend"
	"github.com/julienpequegnot/blogrank/internal/search"
	"github.com/julienpequegnot/blogrank/internal/textnorm"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search blogs by content",
	Long: `Finds blogs whose title, content or tags contain the query and ranks
them for the reader given by --user.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var (
	searchUser      string
	searchPage      int
	searchSize      int
	searchTags      string
	searchPublished bool
)

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchUser, "user", "u", "", "Rank for this reader")
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", 1, "Page number")
	searchCmd.Flags().IntVarP(&searchSize, "size", "n", 0, "Page size (0 = configured default)")
	searchCmd.Flags().StringVarP(&searchTags, "tags", "t", "", "Only blogs with any of these comma separated tags")
	searchCmd.Flags().BoolVar(&searchPublished, "published", false, "Only published blogs")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	userID, err := a.userID(searchUser)
	if err != nil {
		return err
	}

	page, err := a.service().Search(context.Background(), recommend.Request{
		UserID:        userID,
		Page:          searchPage,
		PageSize:      searchSize,
		PublishedOnly: searchPublished,
		Tags:          blog.ParseTags(searchTags),
		Query:         query,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if page.Total == 0 {
		fmt.Printf("No results found for '%s'\n", query)
		return nil
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	hitStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	fmt.Printf("\n%s '%s' (%d results)\n\n", titleStyle.Render("SEARCH:"), query, page.Total)

	printRanking(page.Items, func(item recommend.ScoredBlog) string {
		return search.Snippet(textnorm.PlainText(item.Content), query, search.DefaultRadius, func(s string) string {
			return hitStyle.Render(s)
		})
	})
	printPageFooter(page)
	return nil
}
